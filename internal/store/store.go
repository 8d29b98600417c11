package store

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"content-cli/internal/logger"
	"content-cli/internal/model"
)

const workspaceDirName = ".content"

// DB is the authoritative in-memory item collection. Items are kept newest
// first; idx maps id to slice position and is rebuilt after structural changes.
//
// DB is owned by a single session and is not safe for concurrent use.
type DB struct {
	Items []model.Item

	idx       map[string]int
	listeners []func(Change)
	log       *zap.Logger
}

type ChangeOp string

const (
	ChangeCreate ChangeOp = "item.create"
	ChangeUpdate ChangeOp = "item.update"
	ChangeDelete ChangeOp = "item.delete"
)

// Change is delivered to OnChange subscribers after every successful mutation.
// Items is the full collection after the mutation; subscribers must not modify it.
type Change struct {
	Op    ChangeOp
	IDs   []string
	Items []model.Item
}

// NewDB seeds a DB from a snapshot. The snapshot is taken as-is; use Doctor to
// report invariant violations in loaded state.
func NewDB(items []model.Item) *DB {
	db := &DB{Items: make([]model.Item, 0, len(items))}
	for _, it := range items {
		db.Items = append(db.Items, it.Clone())
	}
	db.reindex()
	return db
}

// Store is the durable workspace backing a DB.
type Store struct {
	Dir string
}

func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, workspaceDirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, workspaceDirName), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (db *DB) logger() *zap.Logger {
	if db.log == nil {
		db.log = logger.WithModule("store")
	}
	return db.log
}

func (db *DB) reindex() {
	db.idx = make(map[string]int, len(db.Items))
	for i, it := range db.Items {
		// First occurrence wins; duplicates are a doctor finding.
		if _, ok := db.idx[it.ID]; !ok {
			db.idx[it.ID] = i
		}
	}
}

func (db *DB) find(id string) (*model.Item, bool) {
	if db == nil {
		return nil, false
	}
	if db.idx == nil {
		db.reindex()
	}
	i, ok := db.idx[strings.TrimSpace(id)]
	if !ok {
		return nil, false
	}
	return &db.Items[i], true
}

// OnChange registers fn to run after every successful mutation.
func (db *DB) OnChange(fn func(Change)) {
	if fn == nil {
		return
	}
	db.listeners = append(db.listeners, fn)
}

func (db *DB) emit(op ChangeOp, ids ...string) {
	if len(db.listeners) == 0 {
		return
	}
	ch := Change{Op: op, IDs: ids, Items: db.All()}
	for _, fn := range db.listeners {
		fn(ch)
	}
}
