package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "CONTENT"
	ConfigFileName = "content"
)

// Config is the runtime configuration of the content CLI. Precedence is
// flags, then CONTENT_* environment variables, then content.yaml, then
// defaults.
type Config struct {
	// Dir is the workspace directory; empty means discover ./.content upward.
	Dir      string `mapstructure:"dir"`
	Actor    string `mapstructure:"actor"`
	LogLevel string `mapstructure:"log_level"`
	Format   string `mapstructure:"format"`
	Pretty   bool   `mapstructure:"pretty"`
	// Color is auto, always or never; auto follows NO_COLOR/CLICOLOR and the terminal.
	Color string `mapstructure:"color"`
	// Seed merges the starter content into the workspace on every load.
	Seed         bool          `mapstructure:"seed"`
	SaveDebounce time.Duration `mapstructure:"save_debounce"`
}

// NewViper returns a viper instance with defaults and environment binding in
// place. Callers bind flags on it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dir", "")
	v.SetDefault("actor", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("format", "json")
	v.SetDefault("pretty", false)
	v.SetDefault("color", "auto")
	v.SetDefault("seed", true)
	v.SetDefault("save_debounce", "250ms")
}

// Load reads content.yaml from the first of paths that has one (a missing file
// is fine) and decodes the merged settings.
func Load(v *viper.Viper, paths ...string) (*Config, error) {
	if v == nil {
		v = NewViper()
	}
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	for _, p := range paths {
		if strings.TrimSpace(p) != "" {
			v.AddConfigPath(p)
		}
	}
	if len(paths) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.Dir = strings.TrimSpace(cfg.Dir)
	cfg.Actor = strings.TrimSpace(cfg.Actor)
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	switch cfg.Format {
	case "", "json":
		cfg.Format = "json"
	case "text":
	default:
		return nil, fmt.Errorf("config: invalid format %q (expected json|text)", cfg.Format)
	}
	cfg.Color = strings.ToLower(strings.TrimSpace(cfg.Color))
	switch cfg.Color {
	case "":
		cfg.Color = "auto"
	case "auto", "always", "never":
	default:
		return nil, fmt.Errorf("config: invalid color %q (expected auto|always|never)", cfg.Color)
	}
	if cfg.SaveDebounce < 0 {
		return nil, fmt.Errorf("config: save_debounce must not be negative")
	}
	return &cfg, nil
}
