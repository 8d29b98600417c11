package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"content-cli/internal/model"
)

// AppendEvent records one mutation in the change log.
func (s Store) AppendEvent(ctx context.Context, actorID, typ, entityID string, payload any) error {
	typ = strings.TrimSpace(typ)
	entityID = strings.TrimSpace(entityID)
	if typ == "" || entityID == "" {
		return errors.New("event: missing type or entity id")
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `INSERT INTO events(event_id, issued_at_unixms, actor_id, type, entity_id, payload_json) VALUES(?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), time.Now().UTC().UnixMilli(), strings.TrimSpace(actorID), typ, entityID, string(pb))
	return err
}

// ReadEvents returns events oldest first. limit <= 0 returns all; otherwise the
// most recent limit events are returned.
func (s Store) ReadEvents(ctx context.Context, limit int) ([]model.Event, error) {
	return s.readEvents(ctx, "", limit)
}

// ReadEventsForEntity is ReadEvents filtered to one item id.
func (s Store) ReadEventsForEntity(ctx context.Context, entityID string, limit int) ([]model.Event, error) {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return []model.Event{}, nil
	}
	return s.readEvents(ctx, entityID, limit)
}

func (s Store) readEvents(ctx context.Context, entityID string, limit int) ([]model.Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT event_id, issued_at_unixms, actor_id, type, entity_id, payload_json FROM events`
	var args []any
	if entityID != "" {
		q += ` WHERE entity_id = ?`
		args = append(args, entityID)
	}
	q += ` ORDER BY issued_at_unixms DESC, rowid DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows *sql.Rows
	rows, err = db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var id, actor, typ, eid, payloadJSON string
		var tsMs int64
		if err := rows.Scan(&id, &tsMs, &actor, &typ, &eid, &payloadJSON); err != nil {
			return nil, err
		}
		var payload any
		_ = json.Unmarshal([]byte(payloadJSON), &payload)
		out = append(out, model.Event{
			ID:       id,
			TS:       time.UnixMilli(tsMs).UTC(),
			ActorID:  actor,
			Type:     typ,
			EntityID: eid,
			Payload:  payload,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest-first from SQL; callers get chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
