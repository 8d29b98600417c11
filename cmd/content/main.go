package main

import (
	"os"
	"strings"

	"github.com/google/uuid"

	"content-cli/internal/cli"
)

// looksLikeItemID accepts generated (UUID) ids and the built-in seed ids.
func looksLikeItemID(s string) bool {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "seed-") {
		return len(s) > len("seed-")
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// Persistent flags that take a separate value; the value must not be read as
// the first positional.
var valueFlags = map[string]bool{
	"--dir":       true,
	"--actor":     true,
	"--format":    true,
	"--log-level": true,
	"--color":     true,
}

// rewriteItemShortcut turns `content [flags] <item-id>` into
// `content [flags] items show <item-id>`. Cobra would otherwise treat the id as
// an unknown subcommand.
func rewriteItemShortcut(argv []string) []string {
	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && looksLikeItemID(argv[i+1]) {
				return insertShow(argv, i+1)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if looksLikeItemID(a) {
			return insertShow(argv, i)
		}
		return argv
	}
	return argv
}

func insertShow(argv []string, at int) []string {
	out := make([]string, 0, len(argv)+2)
	out = append(out, argv[:at]...)
	out = append(out, "items", "show")
	return append(out, argv[at:]...)
}

func main() {
	os.Args = rewriteItemShortcut(os.Args)

	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
