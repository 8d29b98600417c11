package mutate

import (
	"strings"

	"content-cli/internal/store"
)

type DeleteResult struct {
	// Removed lists the deleted ids, the requested id first.
	Removed []string `json:"removed"`
	// FormerParent is where the deleted item lived ("" = root), so a caller
	// showing the item can fall back to its parent.
	FormerParent string         `json:"formerParent"`
	EventPayload map[string]any `json:"-"`
}

// DeleteItem removes itemID together with everything nested under it.
// Callers are responsible for appending the item.delete event.
func DeleteItem(db *store.DB, itemID string) (DeleteResult, error) {
	itemID = strings.TrimSpace(itemID)
	it, ok := db.FindItem(itemID)
	if !ok {
		return DeleteResult{}, NotFoundError{Kind: "item", ID: itemID}
	}
	removed, err := db.Delete(itemID)
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{
		Removed:      removed,
		FormerParent: it.Parent(),
		EventPayload: map[string]any{"name": it.Name, "type": string(it.Type), "removed": removed},
	}, nil
}
