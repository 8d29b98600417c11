package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-cli/internal/model"
)

func codes(rep DoctorReport) map[string]bool {
	out := map[string]bool{}
	for _, is := range rep.Issues {
		out[is.Code] = true
	}
	return out
}

func TestDoctor_CleanTree(t *testing.T) {
	rep := Doctor(docsTree(t))
	assert.Empty(t, rep.Issues)
}

func TestDoctor_FindsCorruption(t *testing.T) {
	nestedSim := simulation("sim", "Sim")
	nestedSim.ParentID = model.StrPtr("d1")
	db := NewDB([]model.Item{
		folder("d1", "D1", nil),
		folder("d2", "D2", model.StrPtr("d1")),
		folder("d3", "D3", model.StrPtr("d2")),
		folder("d4", "D4", model.StrPtr("d3")),
		workflow("orphan", "Orphan", model.StrPtr("gone")),
		workflow("w", "W", nil),
		workflow("under-w", "Under W", model.StrPtr("w")),
		folder("d1", "Dup", nil),
		folder("blank", " ", nil),
		nestedSim,
		folder("a", "A", model.StrPtr("b")),
		folder("b", "B", model.StrPtr("a")),
		workflow("../escape", "Escape", nil),
	})
	rep := Doctor(db)
	require.True(t, rep.HasErrors())
	got := codes(rep)
	for _, want := range []string{"depth_exceeded", "dangling_parent", "non_folder_parent", "duplicate_id", "empty_name", "nested_simulation", "cycle", "invalid_id"} {
		assert.True(t, got[want], "expected %s in %#v", want, rep.Issues)
	}
}
