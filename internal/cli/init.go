package cli

import (
	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the workspace and write the starter content",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"dir":   app.Dir,
				"items": db.Len(),
			})
		},
	}
	return cmd
}
