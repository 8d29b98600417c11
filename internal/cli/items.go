package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"content-cli/internal/format"
	"content-cli/internal/model"
	"content-cli/internal/mutate"
	"content-cli/internal/store"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Create, inspect and change items",
	}

	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsShowCmd(app))
	cmd.AddCommand(newItemsCreateCmd(app))
	cmd.AddCommand(newItemsRenameCmd(app))
	cmd.AddCommand(newItemsMoveCmd(app))
	cmd.AddCommand(newItemsPublishCmd(app))
	cmd.AddCommand(newItemsDeleteCmd(app))
	cmd.AddCommand(newItemsEventsCmd(app))

	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var parent string
	var stage string
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items (newest first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			opts := mutate.ListOptions{Search: search}
			switch p := strings.TrimSpace(parent); p {
			case "":
			case "root":
				opts.RootOnly = true
			default:
				if _, ok := db.FindItem(p); !ok {
					return writeErr(cmd, store.NotFoundError{Kind: "folder", ID: p})
				}
				opts.Parent = &p
			}
			if strings.TrimSpace(stage) != "" {
				st, err := model.ParseStage(stage)
				if err != nil {
					return writeErr(cmd, err)
				}
				opts.Stage = st
			}
			return writeOut(cmd, app, format.ItemList(mutate.List(db, opts)))
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Only direct children of this folder id (or \"root\")")
	cmd.Flags().StringVar(&stage, "stage", "", "Filter by stage (draft|production); production hides folders")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive name filter")
	return cmd
}

// itemView is an item with the derived data a detail view shows.
type itemView struct {
	Item      model.Item        `json:"item"`
	Path      []model.Crumb     `json:"path"`
	Depth     int               `json:"depth"`
	Effective effectiveSettings `json:"effective"`
	Children  []model.Item      `json:"children"`
}

type effectiveSettings struct {
	PlaygroundMode store.Resolution `json:"playgroundMode"`
	HasAssessment  store.Resolution `json:"hasAssessment"`
}

func (v itemView) Text() string {
	var b strings.Builder
	b.WriteString(format.Breadcrumbs(v.Path).Text())
	b.WriteString("\n")
	b.WriteString(format.ItemList{v.Item}.Text())
	b.WriteString("\nplayground: " + onOff(v.Effective.PlaygroundMode.Value))
	b.WriteString("  assessment: " + onOff(v.Effective.HasAssessment.Value))
	if len(v.Children) > 0 {
		b.WriteString("\n\n")
		b.WriteString(format.ItemList(v.Children).Text())
	}
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func viewItem(db *store.DB, id string) (itemView, bool) {
	it, ok := db.FindItem(id)
	if !ok {
		return itemView{}, false
	}
	return itemView{
		Item:  it,
		Path:  db.AncestorPath(it.ID),
		Depth: db.Depth(&it.ID),
		Effective: effectiveSettings{
			PlaygroundMode: db.ResolvePlaygroundMode(&it.ID),
			HasAssessment:  db.ResolveHasAssessment(&it.ID),
		},
		Children: db.Children(it.ID),
	}, true
}

func newItemsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "show <item-id>",
		Short:   "Show an item with its path, effective settings and children",
		Aliases: []string{"get"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			v, ok := viewItem(db, args[0])
			if !ok {
				return writeErr(cmd, store.NotFoundError{Kind: "item", ID: args[0]})
			}
			return writeOut(cmd, app, v)
		},
	}
	return cmd
}

func newItemsCreateCmd(app *App) *cobra.Command {
	var typ string
	var name string
	var parent string
	var stage string
	var playground string
	var assessment string
	var screens int
	var flow bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a folder, workflow or simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actorID := currentActorID(app)

			in := mutate.NewItemInput{Name: name, ScreenCount: screens, HasFlow: flow}
			if in.Type, err = model.ParseItemType(typ); err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(stage) != "" {
				if in.Stage, err = model.ParseStage(stage); err != nil {
					return writeErr(cmd, err)
				}
			}
			if p := strings.TrimSpace(parent); p != "" && p != "root" {
				in.ParentID = &p
			}
			if in.PlaygroundMode, err = model.ParseTri(playground); err != nil {
				return writeErr(cmd, err)
			}
			if in.HasAssessment, err = model.ParseTri(assessment); err != nil {
				return writeErr(cmd, err)
			}

			res, err := mutate.CreateItem(db, actorID, in, time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			appendEvent(cmd, s, actorID, "item.create", res.Item.ID, res.EventPayload)
			return writeOut(cmd, app, res.Item)
		},
	}

	cmd.Flags().StringVar(&typ, "type", "", "Item type (folder|workflow|simulation)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent folder id (default: root)")
	cmd.Flags().StringVar(&stage, "stage", "", "Stage (draft|production; default draft)")
	cmd.Flags().StringVar(&playground, "playground", "", "Playground mode (true|false|inherit)")
	cmd.Flags().StringVar(&assessment, "assessment", "", "Assessment mode (true|false|inherit)")
	cmd.Flags().IntVar(&screens, "screens", 0, "Screen count (workflows)")
	cmd.Flags().BoolVar(&flow, "flow", false, "Workflow has a flow")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newItemsRenameCmd(app *App) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "rename <item-id>",
		Short: "Rename an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actorID := currentActorID(app)
			res, err := mutate.Rename(db, actorID, args[0], name, time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				appendEvent(cmd, s, actorID, "item.rename", res.Item.ID, res.EventPayload)
			}
			return writeOut(cmd, app, res.Item)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newItemsMoveCmd(app *App) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "move <item-id>",
		Short: "Move an item into a draft folder (or to root)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actorID := currentActorID(app)
			res, err := mutate.MoveItem(db, actorID, args[0], moveTarget(to), time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				appendEvent(cmd, s, actorID, "item.move", res.Item.ID, res.EventPayload)
			}
			return writeOut(cmd, app, res.Item)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Target folder id, or \"root\"")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// moveTarget maps the --to value to a parent: "root" and "" are the root.
func moveTarget(to string) *string {
	to = strings.TrimSpace(to)
	if to == "" || to == "root" {
		return nil
	}
	return &to
}

func newItemsPublishCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish <item-id>...",
		Short: "Publish workflows or simulations to production (one-way)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actorID := currentActorID(app)
			results, batchErr := mutate.PublishMany(db, actorID, args, time.Now())
			items := make([]model.Item, 0, len(results))
			for _, res := range results {
				if res.Changed {
					appendEvent(cmd, s, actorID, "item.publish", res.Item.ID, res.EventPayload)
				}
				items = append(items, res.Item)
			}
			return finishBatch(cmd, app, format.ItemList(items), batchErr)
		},
	}
	return cmd
}

func newItemsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <item-id>...",
		Short: "Delete items and everything nested under them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actorID := currentActorID(app)
			results, batchErr := mutate.DeleteMany(db, args)
			for _, res := range results {
				appendEvent(cmd, s, actorID, "item.delete", res.Removed[0], res.EventPayload)
			}
			return finishBatch(cmd, app, results, batchErr)
		},
	}
	return cmd
}

// finishBatch writes what a bulk command managed to do. On partial failure the
// succeeded prefix is flushed before the error is returned.
func finishBatch(cmd *cobra.Command, app *App, data any, batchErr error) error {
	if batchErr == nil {
		return writeOut(cmd, app, data)
	}
	if err := app.flush(cmd.Context()); err != nil {
		batchErr = multierr.Append(batchErr, err)
	}
	if err := writeOut(cmd, app, data); err != nil {
		return err
	}
	return writeErr(cmd, batchErr)
}

func newItemsEventsCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "events <item-id>",
		Short: "List an item's change history (oldest first)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := store.Store{Dir: app.Dir}
			evs, err := s.ReadEventsForEntity(cmd.Context(), args[0], limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, evs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Max events to return, most recent (0 = all)")
	return cmd
}
