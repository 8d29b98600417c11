package mutate

import (
	"errors"
	"testing"

	"go.uber.org/multierr"

	"content-cli/internal/model"
	"content-cli/internal/seed"
	"content-cli/internal/store"
)

func TestPublishMany_KeepsSucceededPrefix(t *testing.T) {
	db := store.NewDB(seed.Items())

	res, err := PublishMany(db, "tester", []string{seed.SetupWorkflowID, seed.OnboardingID, "ghost", seed.CertificationID}, now)
	if err == nil {
		t.Fatalf("expected combined error")
	}
	errs := multierr.Errors(err)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if !errors.Is(errs[0], ErrFolderNotStaged) {
		t.Fatalf("expected folder error first, got %v", errs[0])
	}
	if !store.IsNotFound(errs[1]) {
		t.Fatalf("expected not found second, got %v", errs[1])
	}

	if len(res) != 2 {
		t.Fatalf("expected 2 results, got %d", len(res))
	}
	for _, id := range []string{seed.SetupWorkflowID, seed.CertificationID} {
		it, ok := db.FindItem(id)
		if !ok || it.Stage != model.StageProduction {
			t.Fatalf("expected %s in production, got %#v", id, it)
		}
	}
}

func TestDeleteMany_SkipsCascadedIDs(t *testing.T) {
	db := store.NewDB(seed.Items())

	res, err := DeleteMany(db, []string{seed.OnboardingID, seed.SetupWorkflowID, seed.PlaybooksID})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(res) != 2 || res[0].Removed[0] != seed.OnboardingID || res[1].Removed[0] != seed.PlaybooksID {
		t.Fatalf("unexpected results: %#v", res)
	}
	if db.Len() != 1 {
		t.Fatalf("expected only the simulation left, got %d items", db.Len())
	}

	if _, err := DeleteMany(db, []string{"ghost"}); !store.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
