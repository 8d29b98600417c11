package store

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"content-cli/internal/model"
)

const (
	backupItemsFile      = "items.json"
	backupEventsFile     = "events.jsonl"
	backupTombstonesFile = "deleted.json"
)

// Backup writes the persisted items and the full change log into dir.
func (s Store) Backup(ctx context.Context, dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("backup: missing target dir")
	}
	dir = filepath.Clean(strings.TrimSpace(dir))
	items, err := s.LoadItems(ctx)
	if err != nil {
		return err
	}
	if items == nil {
		items = []model.Item{}
	}
	evs, err := s.ReadEvents(ctx, 0)
	if err != nil {
		return err
	}
	gone, err := s.Tombstones(ctx)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeJSONFile(filepath.Join(dir, backupItemsFile), items); err != nil {
		return err
	}
	if err := writeJSONFile(filepath.Join(dir, backupTombstonesFile), sortedIDs(gone)); err != nil {
		return err
	}
	return WriteEventsJSONL(filepath.Join(dir, backupEventsFile), evs)
}

func writeJSONFile(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

// Restore replaces the persisted items, tombstones and change log with a
// backup written by Backup. Everything is parsed and checked first (items must
// pass Doctor without errors, events need id/type/entityId) and then written in
// one transaction; nothing is written otherwise.
func (s Store) Restore(ctx context.Context, dir string) (DoctorReport, error) {
	dir = filepath.Clean(strings.TrimSpace(dir))
	raw, err := os.ReadFile(filepath.Join(dir, backupItemsFile))
	if err != nil {
		return DoctorReport{}, err
	}
	var items []model.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return DoctorReport{}, fmt.Errorf("parse %s: %w", backupItemsFile, err)
	}
	if items == nil {
		items = []model.Item{}
	}
	rep := Doctor(NewDB(items))
	if rep.HasErrors() {
		return rep, errors.New("restore: backup fails integrity checks")
	}

	evs, err := ReadEventsJSONL(filepath.Join(dir, backupEventsFile))
	if errors.Is(err, os.ErrNotExist) {
		evs = []model.Event{}
	} else if err != nil {
		return rep, err
	}
	for _, ev := range evs {
		if err := checkEvent(ev); err != nil {
			return rep, err
		}
	}

	gone := map[string]bool{}
	raw, err = os.ReadFile(filepath.Join(dir, backupTombstonesFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return rep, err
	default:
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			return rep, fmt.Errorf("parse %s: %w", backupTombstonesFile, err)
		}
		for _, id := range ids {
			gone[id] = true
		}
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return rep, err
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return rep, err
	}
	defer db.Close()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return rep, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := putKV(ctx, tx, itemsKey, string(itemsJSON)); err != nil {
		return rep, err
	}
	if err := writeTombstones(ctx, tx, gone); err != nil {
		return rep, err
	}
	if err := replaceEvents(ctx, tx, evs); err != nil {
		return rep, err
	}
	return rep, tx.Commit()
}

// ReplaceEvents drops the change log and inserts evs in one transaction.
func (s Store) ReplaceEvents(ctx context.Context, evs []model.Event) error {
	for _, ev := range evs {
		if err := checkEvent(ev); err != nil {
			return err
		}
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

	if err := replaceEvents(ctx, tx, evs); err != nil {
		return err
	}
	return tx.Commit()
}

func checkEvent(ev model.Event) error {
	if strings.TrimSpace(ev.ID) == "" || strings.TrimSpace(ev.Type) == "" || strings.TrimSpace(ev.EntityID) == "" {
		return errors.New("restore: event has empty id/type/entityId")
	}
	return nil
}

func replaceEvents(ctx context.Context, tx *sql.Tx, evs []model.Event) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return err
	}
	for _, ev := range evs {
		pb, err := json.Marshal(ev.Payload)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO events(event_id, issued_at_unixms, actor_id, type, entity_id, payload_json) VALUES(?, ?, ?, ?, ?, ?)`,
			ev.ID, ev.TS.UTC().UnixMilli(), ev.ActorID, ev.Type, ev.EntityID, string(pb)); err != nil {
			return err
		}
	}
	return nil
}

// WriteEventsJSONL writes one event per line.
func WriteEventsJSONL(path string, evs []model.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	enc := json.NewEncoder(bw)
	for _, ev := range evs {
		if err := enc.Encode(ev); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func ReadEventsJSONL(path string) ([]model.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := []model.Event{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var ev model.Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return nil, fmt.Errorf("parse events jsonl: %w", err)
		}
		out = append(out, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
