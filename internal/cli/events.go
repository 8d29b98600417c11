package cli

import (
	"github.com/spf13/cobra"

	"content-cli/internal/store"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the change log",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List events (oldest first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := store.Store{Dir: app.Dir}
			evs, err := s.ReadEvents(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, evs)
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 200, "Max events to return, most recent (0 = all)")

	cmd.AddCommand(listCmd)
	return cmd
}
