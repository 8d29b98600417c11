package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"content-cli/internal/config"
	"content-cli/internal/format"
	"content-cli/internal/logger"
	"content-cli/internal/seed"
	"content-cli/internal/store"
)

type App struct {
	Dir          string
	ActorID      string
	PrettyJSON   bool
	Format       string
	Color        string
	LogLevel     string
	Seed         bool
	SaveDebounce time.Duration

	v     *viper.Viper
	saver *store.Saver
}

func NewRootCmd() *cobra.Command {
	app := &App{v: config.NewViper()}

	cmd := &cobra.Command{
		Use:          "content",
		Short:        "Organize folders, workflows and simulations",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Show the content tree
  content tree --format text

  # Create a folder and a workflow inside it
  content items create --type folder --name Docs
  content items create --type workflow --name Intro --parent <folder-id>

  # Direct item lookup (shortcut for: content items show <item-id>)
  content seed-onboarding
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.configure()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.flush(cmd.Context())
	}

	pf := cmd.PersistentFlags()
	pf.String("dir", "", "Path to the workspace dir (default: nearest .content, else ./.content)")
	pf.String("actor", "", "Actor recorded on changes (default: $USER)")
	pf.Bool("pretty", false, "Pretty-print JSON output")
	pf.String("format", "json", "Output format (json|text)")
	pf.String("color", "auto", "Color for text output (auto|always|never)")
	pf.String("log-level", "warn", "Log level (debug|info|warn|error)")
	pf.Bool("seed", true, "Merge the starter content into the workspace on load")
	for key, flag := range map[string]string{
		"dir":       "dir",
		"actor":     "actor",
		"pretty":    "pretty",
		"format":    "format",
		"color":     "color",
		"log_level": "log-level",
		"seed":      "seed",
	} {
		_ = app.v.BindPFlag(key, pf.Lookup(flag))
	}

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newFoldersCmd(app))
	cmd.AddCommand(newSimulationsCmd(app))
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newPathCmd(app))
	cmd.AddCommand(newValidateMoveCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newRestoreCmd(app))
	cmd.AddCommand(newExportCmd(app))

	return cmd
}

// configure resolves the workspace dir and merges flags, CONTENT_* env vars and
// content.yaml (read from the working dir, then the workspace dir).
func (app *App) configure() error {
	dir := strings.TrimSpace(app.v.GetString("dir"))
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return err
		}
		dir = d
	}
	cfg, err := config.Load(app.v, ".", dir)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		return err
	}

	app.Dir = filepath.Clean(dir)
	app.ActorID = cfg.Actor
	app.PrettyJSON = cfg.Pretty
	app.Format = cfg.Format
	app.Color = cfg.Color
	format.ApplyColor(cfg.Color)
	app.LogLevel = cfg.LogLevel
	app.Seed = cfg.Seed
	app.SaveDebounce = cfg.SaveDebounce
	logger.Debug("configured", zap.String("dir", app.Dir), zap.String("format", app.Format))
	return nil
}

// loadDB opens the workspace and subscribes a saver to the returned DB, so
// every mutation is persisted in the background and flushed before exit.
func loadDB(cmd *cobra.Command, app *App) (*store.DB, store.Store, error) {
	s := store.Store{Dir: app.Dir}
	starter := seed.Items()
	if !app.Seed {
		starter = nil
	}
	db, err := s.Load(cmd.Context(), starter)
	if err != nil {
		return nil, s, err
	}
	app.saver = store.NewSaver(store.SaverOpts{Store: s, Debounce: app.SaveDebounce})
	app.saver.Attach(db)
	return db, s, nil
}

// flush writes any pending snapshot. Commands whose batch partially failed
// call it themselves since PersistentPostRunE only runs on success.
func (app *App) flush(ctx context.Context) error {
	if app.saver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return app.saver.Flush(ctx)
}

func currentActorID(app *App) string {
	if app.ActorID != "" {
		return app.ActorID
	}
	return envOr("USER", "local")
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// appendEvent records a change; the change log is best effort.
func appendEvent(cmd *cobra.Command, s store.Store, actorID, typ, entityID string, payload any) {
	if err := s.AppendEvent(cmd.Context(), actorID, typ, entityID, payload); err != nil {
		logger.Warn("append event failed", zap.String("type", typ), zap.String("id", entityID), zap.Error(err))
	}
}

// writeOut prints data in a {"data": ...} envelope, or as text when the text
// format is selected and data can render itself.
func writeOut(cmd *cobra.Command, app *App, data any) error {
	return writeEnvelope(cmd, app, data, nil)
}

func writeEnvelope(cmd *cobra.Command, app *App, data any, meta map[string]any) error {
	if app.Format == "text" {
		if t, ok := data.(format.Texter); ok {
			return format.Write(cmd.OutOrStdout(), t, app.Format, app.PrettyJSON)
		}
	}
	env := map[string]any{"data": data}
	if meta != nil {
		env["meta"] = meta
	}
	return format.Write(cmd.OutOrStdout(), env, "json", app.PrettyJSON || app.Format == "text")
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
