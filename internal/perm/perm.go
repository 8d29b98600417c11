package perm

import (
	"content-cli/internal/model"
)

// Staging rules. Production is read-only with respect to the tree:
//   - only draft items may be dragged (reparented);
//   - only draft folders accept drops;
//   - publishing is one-way and applies to workflows and simulations only
//     (folders are not staged objects).

// CanReparent reports whether it may be moved to another folder.
func CanReparent(it *model.Item) bool {
	if it == nil {
		return false
	}
	return it.Stage == model.StageDraft
}

// CanDropInto reports whether target accepts dragged items. A nil target is
// the root, which always accepts.
func CanDropInto(target *model.Item) bool {
	if target == nil {
		return true
	}
	return target.IsFolder() && target.Stage == model.StageDraft
}

// CanPublish reports whether it can move from draft to production.
func CanPublish(it *model.Item) bool {
	if it == nil || it.IsFolder() {
		return false
	}
	return it.Stage == model.StageDraft
}
