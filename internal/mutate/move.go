package mutate

import (
	"strings"
	"time"

	"content-cli/internal/model"
	"content-cli/internal/store"
)

// MoveItem reparents itemID under targetID (nil = root). The move is checked
// with the store's move validator and rejected wholesale on any violation.
// Callers are responsible for appending the item.move event.
func MoveItem(db *store.DB, actorID, itemID string, targetID *string, now time.Time) (Result, error) {
	itemID = strings.TrimSpace(itemID)
	if targetID != nil {
		targetID = normalizeParent(*targetID)
	}
	it, ok := db.FindItem(itemID)
	if !ok {
		return Result{}, NotFoundError{Kind: "item", ID: itemID}
	}
	if samePtr(it.ParentID, targetID) {
		return Result{Item: it}, nil
	}
	if d := db.ValidateMove(itemID, targetID); !d.Accepted {
		return Result{}, d.Reason
	}

	from := it.Parent()
	to := ""
	if targetID != nil {
		to = *targetID
	}
	p := model.Patch{SetParent: true, ParentID: targetID}.Touch(actorID, now)
	return apply(db, itemID, p, map[string]any{"from": from, "to": to})
}

func samePtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
