package cli

import (
	"github.com/spf13/cobra"

	"content-cli/internal/export"
)

func newExportCmd(app *App) *cobra.Command {
	var to string
	var root string
	var overwrite bool
	var asHTML bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the content tree as markdown or HTML (index + items/<id>)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := export.WriteTree(db, to, export.WriteOptions{RootID: root, Overwrite: overwrite, HTML: asHTML})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, res)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output directory")
	cmd.Flags().StringVar(&root, "root", "", "Only export this item and its descendants")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Write HTML pages instead of markdown")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
