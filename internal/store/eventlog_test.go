package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-cli/internal/model"
)

func TestEventLog_AppendAndRead(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	require.NoError(t, s.AppendEvent(ctx, "alice", "item.create", "a", map[string]any{"name": "A"}))
	require.NoError(t, s.AppendEvent(ctx, "alice", "item.rename", "a", map[string]any{"to": "AA"}))
	require.NoError(t, s.AppendEvent(ctx, "bob", "item.create", "b", nil))
	assert.Error(t, s.AppendEvent(ctx, "bob", "", "b", nil))

	all, err := s.ReadEvents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "item.create", all[0].Type)
	assert.Equal(t, "b", all[2].EntityID)

	last, err := s.ReadEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "item.rename", last[0].Type)

	forA, err := s.ReadEventsForEntity(ctx, "a", 0)
	require.NoError(t, err)
	require.Len(t, forA, 2)
	payload, ok := forA[1].Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "AA", payload["to"])
}

func TestBackupRestore(t *testing.T) {
	ctx := context.Background()
	src := Store{Dir: t.TempDir()}
	require.NoError(t, src.Save(ctx, docsTree(t)))
	require.NoError(t, src.AppendEvent(ctx, "alice", "item.create", "docs", nil))

	dir := filepath.Join(t.TempDir(), "backup")
	require.NoError(t, src.Backup(ctx, dir))

	dst := Store{Dir: t.TempDir()}
	require.NoError(t, dst.AppendEvent(ctx, "bob", "item.create", "stale", nil))
	rep, err := dst.Restore(ctx, dir)
	require.NoError(t, err)
	assert.False(t, rep.HasErrors())

	db, err := dst.Load(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, db.Len())
	evs, err := dst.ReadEvents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "docs", evs[0].EntityID)
}

func TestRestore_RejectsCorruptBackup(t *testing.T) {
	ctx := context.Background()
	src := Store{Dir: t.TempDir()}
	require.NoError(t, src.Save(ctx, cyclicDB(t)))
	dir := t.TempDir()
	require.NoError(t, src.Backup(ctx, dir))

	dst := Store{Dir: t.TempDir()}
	rep, err := dst.Restore(ctx, dir)
	require.Error(t, err)
	assert.True(t, rep.HasErrors())
	items, err := dst.LoadItems(ctx)
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestRestore_BadEventWritesNothing(t *testing.T) {
	ctx := context.Background()
	dst := Store{Dir: t.TempDir()}
	require.NoError(t, dst.Save(ctx, docsTree(t)))
	require.NoError(t, dst.AppendEvent(ctx, "alice", "item.create", "docs", nil))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.json"), []byte("[]\n"), 0o644))
	require.NoError(t, WriteEventsJSONL(filepath.Join(dir, "events.jsonl"), []model.Event{{ID: "", Type: "item.create", EntityID: "x"}}))

	_, err := dst.Restore(ctx, dir)
	require.Error(t, err)

	items, err := dst.LoadItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 4, "items survive a failed restore")
	evs, err := dst.ReadEvents(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, evs, 1)
}

func TestBackupRestore_CarriesTombstones(t *testing.T) {
	ctx := context.Background()
	src := Store{Dir: t.TempDir()}
	require.NoError(t, src.SaveSnapshot(ctx, docsTree(t).All(), []string{"gone"}))

	dir := t.TempDir()
	require.NoError(t, src.Backup(ctx, dir))

	dst := Store{Dir: t.TempDir()}
	_, err := dst.Restore(ctx, dir)
	require.NoError(t, err)
	gone, err := dst.Tombstones(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"gone": true}, gone)
}
