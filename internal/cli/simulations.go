package cli

import (
	"time"

	"github.com/spf13/cobra"

	"content-cli/internal/mutate"
)

func newSimulationsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulations",
		Short: "Configure simulations",
	}
	cmd.AddCommand(newSimulationsConfigureCmd(app))
	return cmd
}

func newSimulationsConfigureCmd(app *App) *cobra.Command {
	var workflows []string
	var playground bool
	var assessment bool

	cmd := &cobra.Command{
		Use:   "configure <simulation-id>",
		Short: "Select workflows and set the simulation's own settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actorID := currentActorID(app)
			res, err := mutate.ConfigureSimulation(db, actorID, args[0], mutate.SimulationSettings{
				PlaygroundMode:    playground,
				HasAssessment:     assessment,
				SelectedWorkflows: workflows,
			}, time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				appendEvent(cmd, s, actorID, "simulation.configure", res.Item.ID, res.EventPayload)
			}
			return writeOut(cmd, app, res.Item)
		},
	}

	cmd.Flags().StringSliceVar(&workflows, "workflow", nil, "Workflow id to include (repeatable or comma-separated)")
	cmd.Flags().BoolVar(&playground, "playground", false, "Enable playground mode")
	cmd.Flags().BoolVar(&assessment, "assessment", false, "Enable assessment mode")
	_ = cmd.MarkFlagRequired("workflow")
	return cmd
}
