package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-cli/internal/model"
)

func TestEffectivePlaygroundMode(t *testing.T) {
	db := NewDB(nil)
	a := folder("a", "A", nil)
	a.PlaygroundMode = model.On
	b := folder("b", "B", model.StrPtr("a"))
	c := folder("c", "C", model.StrPtr("b"))
	mustCreate(t, db, a, b, c, workflow("w", "W", model.StrPtr("c")), simulation("s", "S"))

	for _, id := range []string{"a", "b", "c", "w"} {
		assert.True(t, db.EffectivePlaygroundMode(model.StrPtr(id)), "expected %s to resolve true", id)
	}
	assert.Equal(t, "a", db.ResolvePlaygroundMode(model.StrPtr("w")).SourceID)

	off := model.Off
	_, err := db.Update("b", model.Patch{PlaygroundMode: &off})
	require.NoError(t, err)
	assert.False(t, db.EffectivePlaygroundMode(model.StrPtr("c")), "nearest explicit ancestor must win")

	got := db.ResolveInherited("b", "playgroundMode")
	assert.True(t, got.Value)
	assert.Equal(t, "a", got.SourceID)

	// Simulations never inherit.
	assert.False(t, db.EffectivePlaygroundMode(model.StrPtr("s")))
	assert.False(t, db.EffectivePlaygroundMode(nil))
	assert.False(t, db.EffectivePlaygroundMode(model.StrPtr("ghost")))
}

func TestEffectivePlaygroundMode_AllInheritDefaultsFalse(t *testing.T) {
	db := docsTree(t)
	assert.False(t, db.EffectivePlaygroundMode(model.StrPtr("v1")))
	assert.Empty(t, db.ResolvePlaygroundMode(model.StrPtr("v1")).SourceID)
}

func TestEffectiveHasAssessment(t *testing.T) {
	db := NewDB(nil)
	top := folder("top", "Top", nil)
	top.HasAssessment = model.On
	w := workflow("w", "W", model.StrPtr("top"))
	w.HasAssessment = model.Off
	mustCreate(t, db, top, folder("sub", "Sub", model.StrPtr("top")), w, workflow("w2", "W2", model.StrPtr("sub")))

	assert.True(t, db.EffectiveHasAssessment(model.StrPtr("sub")), "folder inherits assessment")
	assert.False(t, db.EffectiveHasAssessment(model.StrPtr("w")), "explicit false is kept")
	assert.False(t, db.EffectiveHasAssessment(model.StrPtr("w2")), "workflow inherit reads as false")
}
