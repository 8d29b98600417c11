package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"content-cli/internal/model"

	_ "modernc.org/sqlite"
)

const (
	sqliteFileName = "content.sqlite"
	itemsKey       = "items"
	tombstonesKey  = "deleted_ids"
)

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), sqliteFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			issued_at_unixms INTEGER NOT NULL,
			actor_id TEXT NOT NULL,
			type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			payload_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_id, issued_at_unixms);`,
		`CREATE INDEX IF NOT EXISTS idx_events_issued ON events(issued_at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// Get reads a raw value. ok is false when the key was never written.
func (s Store) Get(ctx context.Context, key string) (string, bool, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return "", false, err
	}
	defer db.Close()

	var v string
	err = db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set writes a raw value, replacing any previous one.
func (s Store) Set(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("empty key")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	return putKV(ctx, db, key, value)
}

// LoadItems returns the persisted collection, or nil if none was saved yet.
func (s Store) LoadItems(ctx context.Context) ([]model.Item, error) {
	raw, ok, err := s.Get(ctx, itemsKey)
	if err != nil || !ok {
		return nil, err
	}
	var items []model.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SaveItems persists the whole collection as one value.
func (s Store) SaveItems(ctx context.Context, items []model.Item) error {
	return s.SaveSnapshot(ctx, items, nil)
}

// SaveSnapshot writes items and adds deleted to the tombstone set in one
// transaction. Tombstoned ids are never brought back by the seed merge.
func (s Store) SaveSnapshot(ctx context.Context, items []model.Item, deleted []string) error {
	if items == nil {
		items = []model.Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := putKV(ctx, tx, itemsKey, string(b)); err != nil {
		return err
	}
	if len(deleted) > 0 {
		gone, err := readTombstones(ctx, tx)
		if err != nil {
			return err
		}
		for _, id := range deleted {
			gone[id] = true
		}
		if err := writeTombstones(ctx, tx, gone); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Tombstones returns the ids deleted from this workspace so far.
func (s Store) Tombstones(ctx context.Context) (map[string]bool, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return readTombstones(ctx, db)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putKV(ctx context.Context, db execer, key, value string) error {
	_, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO kv(k, v, updated_at_unixms) VALUES(?, ?, ?)`,
		key, value, time.Now().UTC().UnixMilli())
	return err
}

func readTombstones(ctx context.Context, db queryer) (map[string]bool, error) {
	gone := map[string]bool{}
	var raw string
	err := db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, tombstonesKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return gone, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("parse %s: %w", tombstonesKey, err)
	}
	for _, id := range ids {
		gone[id] = true
	}
	return gone, nil
}

func writeTombstones(ctx context.Context, db execer, gone map[string]bool) error {
	b, err := json.Marshal(sortedIDs(gone))
	if err != nil {
		return err
	}
	return putKV(ctx, db, tombstonesKey, string(b))
}

func sortedIDs(set map[string]bool) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Load builds a DB from the persisted items merged with seed. Seed entries
// whose id is persisted or tombstoned are skipped; persisted entries are never
// overwritten.
func (s Store) Load(ctx context.Context, seed []model.Item) (*DB, error) {
	persisted, err := s.LoadItems(ctx)
	if err != nil {
		return nil, err
	}
	var gone map[string]bool
	if len(seed) > 0 {
		if gone, err = s.Tombstones(ctx); err != nil {
			return nil, err
		}
	}
	return NewDB(MergeSeed(persisted, seed, gone)), nil
}

func (s Store) Save(ctx context.Context, db *DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	return s.SaveItems(ctx, db.All())
}

// MergeSeed appends the seed items whose ids are neither in persisted nor in
// gone. Each one must pass the checks Create applies against the merged
// collection (parent present and a folder, simulations at root, folder depth
// at most MaxDepth); entries that fail are skipped. Parents are placed before
// their children regardless of seed order.
func MergeSeed(persisted, seed []model.Item, gone map[string]bool) []model.Item {
	db := NewDB(persisted)
	pending := make([]model.Item, 0, len(seed))
	queued := map[string]bool{}
	for _, it := range seed {
		if gone[it.ID] || queued[it.ID] {
			continue
		}
		if _, ok := db.find(it.ID); ok {
			continue
		}
		queued[it.ID] = true
		pending = append(pending, it)
	}

	accepted := map[string]bool{}
	for progress := true; progress && len(pending) > 0; {
		progress = false
		rest := pending[:0]
		for _, it := range pending {
			if it.ParentID != nil && queued[*it.ParentID] {
				if _, ok := db.find(*it.ParentID); !ok {
					// Parent is a seed entry not placed yet.
					rest = append(rest, it)
					continue
				}
			}
			if err := db.validateNew(it); err != nil {
				db.logger().Warn("seed entry skipped", zap.String("id", it.ID), zap.Error(err))
				continue
			}
			db.Items = append(db.Items, it.Clone())
			db.reindex()
			accepted[it.ID] = true
			progress = true
		}
		pending = rest
	}
	for _, it := range pending {
		db.logger().Warn("seed entry skipped", zap.String("id", it.ID), zap.String("reason", "parent not placed"))
	}

	out := make([]model.Item, 0, db.Len())
	out = append(out, persisted...)
	for _, it := range seed {
		if accepted[it.ID] {
			out = append(out, it)
			delete(accepted, it.ID)
		}
	}
	return out
}
