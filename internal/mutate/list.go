package mutate

import (
	"strings"

	"content-cli/internal/model"
	"content-cli/internal/store"
)

type ListOptions struct {
	// Parent restricts the listing to direct children; nil lists everything.
	Parent *string
	// RootOnly lists the root level. It wins over Parent.
	RootOnly bool
	// Stage filters workflows and simulations. Folders carry no stage of their
	// own and are hidden when listing production.
	Stage model.Stage
	// Search matches names case-insensitively.
	Search string
}

// List returns copies of the matching items in store order.
func List(db *store.DB, opts ListOptions) []model.Item {
	var items []model.Item
	switch {
	case opts.RootOnly:
		items = db.ByParent(nil)
	case opts.Parent != nil:
		items = db.ByParent(opts.Parent)
	default:
		items = db.All()
	}
	q := strings.ToLower(strings.TrimSpace(opts.Search))

	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if opts.Stage != "" {
			if it.IsFolder() {
				if opts.Stage == model.StageProduction {
					continue
				}
			} else if it.Stage != opts.Stage {
				continue
			}
		}
		if q != "" && !strings.Contains(strings.ToLower(it.Name), q) {
			continue
		}
		out = append(out, it)
	}
	return out
}
