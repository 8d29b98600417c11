package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"content-cli/internal/store"
)

var errDoctorIssuesFound = errors.New("doctor found errors")

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the workspace against the tree invariants",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			report := store.Doctor(db)
			meta := map[string]any{
				"issues":    len(report.Issues),
				"hasErrors": report.HasErrors(),
			}
			if err := writeEnvelope(cmd, app, report, meta); err != nil {
				return err
			}
			if fail && report.HasErrors() {
				return writeErr(cmd, errDoctorIssuesFound)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}
