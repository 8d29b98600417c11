package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"content-cli/internal/model"
)

var testTime = time.Date(2025, time.February, 3, 10, 0, 0, 0, time.UTC)

func folder(id, name string, parent *string) model.Item {
	return model.Item{ID: id, Name: name, Type: model.ItemTypeFolder, Stage: model.StageDraft, LastUpdated: testTime, ParentID: parent}
}

func workflow(id, name string, parent *string) model.Item {
	return model.Item{ID: id, Name: name, Type: model.ItemTypeWorkflow, Stage: model.StageDraft, LastUpdated: testTime, ParentID: parent}
}

func simulation(id, name string) model.Item {
	return model.Item{ID: id, Name: name, Type: model.ItemTypeSimulation, Stage: model.StageDraft, LastUpdated: testTime, PlaygroundMode: model.Off, HasAssessment: model.Off}
}

func mustCreate(t *testing.T, db *DB, items ...model.Item) {
	t.Helper()
	for _, it := range items {
		require.NoError(t, db.Create(it), "create %s", it.ID)
	}
}

// docsTree builds Docs > API > v1 plus a workflow inside v1.
func docsTree(t *testing.T) *DB {
	t.Helper()
	db := NewDB(nil)
	mustCreate(t, db,
		folder("docs", "Docs", nil),
		folder("api", "API", model.StrPtr("docs")),
		folder("v1", "v1", model.StrPtr("api")),
		workflow("get", "GET /users", model.StrPtr("v1")),
	)
	return db
}
