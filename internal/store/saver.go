package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"content-cli/internal/logger"
	"content-cli/internal/model"
)

// Saver persists the latest item snapshot in the background, coalescing bursts
// of mutations. Mutations never wait for it and never see its errors; failures
// are logged. Call Flush before the process exits.
type Saver struct {
	store    Store
	debounce time.Duration
	log      *zap.Logger

	// saveMu serialises writes; the snapshot is taken while holding it so an
	// older snapshot can never overwrite a newer one.
	saveMu sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	pending []model.Item
	deleted []string
	dirty   bool
	saves   int
}

type SaverOpts struct {
	Store    Store
	Debounce time.Duration
}

func NewSaver(opts SaverOpts) *Saver {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	return &Saver{
		store:    opts.Store,
		debounce: debounce,
		log:      logger.WithModule("saver"),
	}
}

// Attach subscribes the saver to db's change notifications. Deleted ids are
// tombstoned with the next snapshot.
func (s *Saver) Attach(db *DB) {
	db.OnChange(func(ch Change) {
		if ch.Op == ChangeDelete {
			s.mu.Lock()
			s.deleted = append(s.deleted, ch.IDs...)
			s.mu.Unlock()
		}
		s.Notify(ch.Items)
	})
}

// Notify schedules items to be saved.
func (s *Saver) Notify(items []model.Item) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = items
	s.dirty = true
	if s.timer == nil {
		s.timer = time.AfterFunc(s.debounce, s.onTimer)
		return
	}
	s.timer.Reset(s.debounce)
}

func (s *Saver) onTimer() {
	if err := s.saveLatest(context.Background()); err != nil {
		s.log.Error("background save failed", zap.Error(err))
	}
}

// Flush cancels any scheduled save and writes the latest snapshot now.
func (s *Saver) Flush(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()
	return s.saveLatest(ctx)
}

// Saves reports how many snapshots have been written.
func (s *Saver) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *Saver) saveLatest(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	items, deleted := s.pending, s.deleted
	s.pending, s.deleted = nil, nil
	s.dirty = false
	s.mu.Unlock()

	if err := s.store.SaveSnapshot(ctx, items, deleted); err != nil {
		// Keep the snapshot so a later Flush can retry, unless a newer one arrived.
		s.mu.Lock()
		if !s.dirty {
			s.pending = items
			s.dirty = true
		}
		s.deleted = append(deleted, s.deleted...)
		s.mu.Unlock()
		return err
	}
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	s.log.Debug("items saved", zap.Int("count", len(items)))
	return nil
}
