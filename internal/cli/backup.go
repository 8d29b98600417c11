package cli

import (
	"github.com/spf13/cobra"

	"content-cli/internal/store"
)

func newBackupCmd(app *App) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write items and the change log to a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := store.Store{Dir: app.Dir}
			if err := s.Backup(cmd.Context(), to); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"dir": to})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Target directory")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newRestoreCmd(app *App) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Replace the workspace with a backup (checked with doctor first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := store.Store{Dir: app.Dir}
			report, err := s.Restore(cmd.Context(), from)
			if err != nil {
				_ = writeEnvelope(cmd, app, report, map[string]any{"restored": false})
				return writeErr(cmd, err)
			}
			return writeEnvelope(cmd, app, report, map[string]any{"restored": true})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Backup directory")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}
