package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"content-cli/internal/format"
	"content-cli/internal/store"
)

func newTreeCmd(app *App) *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the content tree with effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var rootID *string
			if r := strings.TrimSpace(root); r != "" {
				if _, ok := db.FindItem(r); !ok {
					return writeErr(cmd, store.NotFoundError{Kind: "item", ID: r})
				}
				rootID = &r
			}
			return writeOut(cmd, app, format.Tree(db.Tree(rootID)))
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "Only the subtree under this item")
	return cmd
}

type pathView struct {
	Crumbs format.Breadcrumbs `json:"crumbs"`
	Depth  int                `json:"depth"`
}

func (v pathView) Text() string { return v.Crumbs.Text() }

func newPathCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path <item-id>",
		Short: "Show the breadcrumb path and depth of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if _, ok := db.FindItem(id); !ok {
				return writeErr(cmd, store.NotFoundError{Kind: "item", ID: id})
			}
			return writeOut(cmd, app, pathView{
				Crumbs: format.Breadcrumbs(db.AncestorPath(id)),
				Depth:  db.Depth(&id),
			})
		},
	}
	return cmd
}

type moveVerdict struct {
	Accepted bool   `json:"accepted"`
	Code     string `json:"code,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

func (v moveVerdict) Text() string {
	if v.Accepted {
		return "accepted"
	}
	return "rejected (" + v.Code + "): " + v.Reason
}

func newValidateMoveCmd(app *App) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "validate-move <item-id>",
		Short: "Check whether an item may be dropped onto a folder, without moving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			d := db.ValidateMove(args[0], moveTarget(to))
			v := moveVerdict{Accepted: d.Accepted}
			if !d.Accepted {
				v.Code = store.RejectionCode(d.Reason)
				v.Reason = d.Reason.Error()
			}
			return writeOut(cmd, app, v)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Target folder id, or \"root\"")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

