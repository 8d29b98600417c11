package store

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"content-cli/internal/model"
)

var errDangling = errors.New("dangling parent reference")

// chain returns the item with the given id followed by its ancestors, nearest
// first. The walk stops at a root item, at a dangling reference (errDangling),
// or on a revisit or hop cap (ErrCycleDetected). The items found so far are
// always returned.
func (db *DB) chain(id string) ([]*model.Item, error) {
	var out []*model.Item
	seen := map[string]bool{}
	cur := strings.TrimSpace(id)
	for hops := 0; ; hops++ {
		if seen[cur] || hops >= maxHops {
			return out, ErrCycleDetected
		}
		seen[cur] = true
		it, ok := db.find(cur)
		if !ok {
			if len(out) == 0 {
				return nil, NotFoundError{Kind: "item", ID: cur}
			}
			return out, errDangling
		}
		out = append(out, it)
		if it.ParentID == nil {
			return out, nil
		}
		cur = *it.ParentID
	}
}

// Depth is the number of items on the chain from id up to root: nil is 0 and
// a root-level item is 1. Unknown ids are 0 and a dangling link ends the count.
// A cycle is logged and the count reached before detection is returned.
func (db *DB) Depth(id *string) int {
	n, err := db.DepthChecked(id)
	if errors.Is(err, ErrCycleDetected) {
		db.logger().Warn("cycle detected while computing depth", zap.String("id", *id), zap.Int("depth", n))
	}
	return n
}

// DepthChecked is Depth but also reports ErrCycleDetected.
func (db *DB) DepthChecked(id *string) (int, error) {
	if id == nil {
		return 0, nil
	}
	items, err := db.chain(*id)
	if errors.Is(err, ErrCycleDetected) {
		return len(items), err
	}
	return len(items), nil
}

// AncestorPath returns breadcrumbs from the root sentinel down to id inclusive.
// If the chain cannot be resolved only the root sentinel is returned.
func (db *DB) AncestorPath(id string) []model.Crumb {
	crumbs := []model.Crumb{model.RootCrumb()}
	items, err := db.chain(id)
	if err != nil {
		if errors.Is(err, ErrCycleDetected) {
			db.logger().Warn("cycle detected while computing path", zap.String("id", id))
		}
		return crumbs
	}
	for i := len(items) - 1; i >= 0; i-- {
		crumbs = append(crumbs, model.Crumb{ID: model.StrPtr(items[i].ID), Name: items[i].Name})
	}
	return crumbs
}

// IsAncestor reports whether ancestorID appears on the parent chain of id
// (excluding id itself).
func (db *DB) IsAncestor(ancestorID, id string) (bool, error) {
	items, err := db.chain(id)
	for _, it := range items[min(1, len(items)):] {
		if it.ID == ancestorID {
			return true, nil
		}
	}
	if errors.Is(err, ErrCycleDetected) {
		return false, err
	}
	return false, nil
}

func (db *DB) childrenIndex() map[string][]string {
	idx := map[string][]string{}
	for _, it := range db.Items {
		if it.ParentID == nil {
			continue
		}
		idx[*it.ParentID] = append(idx[*it.ParentID], it.ID)
	}
	return idx
}

// Children returns copies of the items whose parent is id.
func (db *DB) Children(id string) []model.Item {
	return db.ByParent(&id)
}

// Descendants returns the ids of every item below id, breadth first.
func (db *DB) Descendants(id string) []string {
	children := db.childrenIndex()
	seen := map[string]bool{id: true}
	var out []string
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, ch := range children[cur] {
			if seen[ch] {
				continue
			}
			seen[ch] = true
			out = append(out, ch)
			queue = append(queue, ch)
		}
	}
	return out
}

// SubtreeFolderHeight is how many folder levels sit below id: 0 for a folder
// without subfolders (or any non-folder). Non-folder items add no depth.
func (db *DB) SubtreeFolderHeight(id string) int {
	children := db.childrenIndex()
	type entry struct {
		id    string
		level int
	}
	seen := map[string]bool{id: true}
	height := 0
	queue := []entry{{id: id}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, chID := range children[cur.id] {
			if seen[chID] {
				continue
			}
			seen[chID] = true
			ch, ok := db.find(chID)
			if !ok || !ch.IsFolder() {
				continue
			}
			lvl := cur.level + 1
			if lvl > height {
				height = lvl
			}
			queue = append(queue, entry{id: chID, level: lvl})
		}
	}
	return height
}
