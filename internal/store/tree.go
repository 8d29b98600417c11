package store

import (
	"content-cli/internal/model"
)

// Tree returns the subtree under rootID (nil = the whole collection) with
// effective settings resolved per node. Siblings keep store order. Items on a
// parent cycle are unreachable from root and are left out; Doctor reports them.
func (db *DB) Tree(rootID *string) []model.TreeNode {
	children := db.childrenIndex()
	seen := map[string]bool{}

	var build func(id string, depth int) model.TreeNode
	build = func(id string, depth int) model.TreeNode {
		seen[id] = true
		it, _ := db.find(id)
		n := model.TreeNode{
			ID:             it.ID,
			Name:           it.Name,
			Type:           it.Type,
			Stage:          it.Stage,
			Depth:          depth,
			PlaygroundMode: db.EffectivePlaygroundMode(&it.ID),
			HasAssessment:  db.EffectiveHasAssessment(&it.ID),
			Children:       []model.TreeNode{},
		}
		for _, ch := range children[id] {
			if seen[ch] {
				continue
			}
			n.Children = append(n.Children, build(ch, depth+1))
		}
		return n
	}

	out := []model.TreeNode{}
	if rootID != nil {
		if _, ok := db.find(*rootID); !ok {
			return out
		}
		return append(out, build(*rootID, db.Depth(rootID)))
	}
	for _, it := range db.Items {
		if it.ParentID == nil && !seen[it.ID] {
			out = append(out, build(it.ID, 1))
		}
	}
	return out
}
