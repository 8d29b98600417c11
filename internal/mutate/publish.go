package mutate

import (
	"strings"
	"time"

	"content-cli/internal/model"
	"content-cli/internal/perm"
	"content-cli/internal/store"
)

// Publish promotes a draft workflow or simulation to production. Publishing
// something already in production is a no-op; there is no way back.
// Callers are responsible for appending the item.publish event.
func Publish(db *store.DB, actorID, itemID string, now time.Time) (Result, error) {
	itemID = strings.TrimSpace(itemID)
	it, ok := db.FindItem(itemID)
	if !ok {
		return Result{}, NotFoundError{Kind: "item", ID: itemID}
	}
	if it.IsFolder() {
		return Result{}, ErrFolderNotStaged
	}
	if it.Stage == model.StageProduction {
		return Result{Item: it}, nil
	}
	if !perm.CanPublish(&it) {
		return Result{}, ErrFolderNotStaged
	}
	stage := model.StageProduction
	return apply(db, itemID, model.Patch{Stage: &stage}.Touch(actorID, now), map[string]any{
		"from": string(it.Stage),
		"to":   string(stage),
	})
}
