package mutate

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"

	"content-cli/internal/store"
)

// PublishMany publishes each id in order. Failures do not stop the batch;
// they are combined into the returned error.
func PublishMany(db *store.DB, actorID string, ids []string, now time.Time) ([]Result, error) {
	var (
		out  []Result
		errs error
	)
	for _, id := range ids {
		res, err := Publish(db, actorID, id, now)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", strings.TrimSpace(id), err))
			continue
		}
		out = append(out, res)
	}
	return out, errs
}

// DeleteMany deletes each id in order. Ids already removed as part of an
// earlier id's subtree are skipped, not reported as missing.
func DeleteMany(db *store.DB, ids []string) ([]DeleteResult, error) {
	var (
		out  []DeleteResult
		errs error
	)
	gone := map[string]bool{}
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if gone[id] {
			continue
		}
		res, err := DeleteItem(db, id)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", id, err))
			continue
		}
		for _, x := range res.Removed {
			gone[x] = true
		}
		out = append(out, res)
	}
	return out, errs
}
