package cli

import (
	"time"

	"github.com/spf13/cobra"

	"content-cli/internal/model"
	"content-cli/internal/mutate"
	"content-cli/internal/store"
)

func newFoldersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "Configure folder settings",
	}
	cmd.AddCommand(newFoldersConfigureCmd(app))
	cmd.AddCommand(newFoldersEffectiveCmd(app))
	return cmd
}

func newFoldersConfigureCmd(app *App) *cobra.Command {
	var playground string
	var assessment string

	cmd := &cobra.Command{
		Use:   "configure <folder-id>",
		Short: "Set playground/assessment mode (true|false|inherit)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actorID := currentActorID(app)

			var settings mutate.FolderSettings
			if cmd.Flags().Changed("playground") {
				v, err := model.ParseTri(playground)
				if err != nil {
					return writeErr(cmd, err)
				}
				settings.PlaygroundMode = &v
			}
			if cmd.Flags().Changed("assessment") {
				v, err := model.ParseTri(assessment)
				if err != nil {
					return writeErr(cmd, err)
				}
				settings.HasAssessment = &v
			}

			res, err := mutate.ConfigureFolder(db, actorID, args[0], settings, time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				appendEvent(cmd, s, actorID, "folder.configure", res.Item.ID, res.EventPayload)
			}
			return writeOut(cmd, app, folderSettingsView(db, res.Item))
		},
	}

	cmd.Flags().StringVar(&playground, "playground", "", "Playground mode (true|false|inherit)")
	cmd.Flags().StringVar(&assessment, "assessment", "", "Assessment mode (true|false|inherit)")
	return cmd
}

func newFoldersEffectiveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "effective <folder-id>",
		Short: "Show stored, inherited and effective settings of a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, ok := db.FindItem(args[0])
			if !ok || !it.IsFolder() {
				return writeErr(cmd, store.NotFoundError{Kind: "folder", ID: args[0]})
			}
			return writeOut(cmd, app, folderSettingsView(db, it))
		},
	}
	return cmd
}

type settingView struct {
	Stored    model.Tri        `json:"stored"`
	Inherited store.Resolution `json:"inherited"`
	Effective store.Resolution `json:"effective"`
}

// folderSettingsView is what a folder configuration dialog shows: the explicit
// value, what clearing it would yield, and the value in force.
func folderSettingsView(db *store.DB, it model.Item) map[string]any {
	return map[string]any{
		"folder": it,
		"playgroundMode": settingView{
			Stored:    it.PlaygroundMode,
			Inherited: db.ResolveInherited(it.ID, "playgroundMode"),
			Effective: db.ResolvePlaygroundMode(&it.ID),
		},
		"hasAssessment": settingView{
			Stored:    it.HasAssessment,
			Inherited: db.ResolveInherited(it.ID, "hasAssessment"),
			Effective: db.ResolveHasAssessment(&it.ID),
		},
	}
}
