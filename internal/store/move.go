package store

import (
	"errors"
	"fmt"
	"strings"

	"content-cli/internal/model"
	"content-cli/internal/perm"
)

// MoveDecision is the verdict of ValidateMove. Reason is nil when Accepted.
type MoveDecision struct {
	Accepted bool
	Reason   error
}

func accept() MoveDecision { return MoveDecision{Accepted: true} }

func reject(err error) MoveDecision { return MoveDecision{Reason: err} }

// ValidateMove decides whether draggedID may be placed under targetID (nil =
// root). It never mutates the store.
func (db *DB) ValidateMove(draggedID string, targetID *string) MoveDecision {
	draggedID = strings.TrimSpace(draggedID)
	if targetID != nil && strings.TrimSpace(*targetID) == draggedID {
		return reject(ErrCyclicMove)
	}
	dragged, ok := db.find(draggedID)
	if !ok {
		return reject(NotFoundError{Kind: "item", ID: draggedID})
	}
	if !perm.CanReparent(dragged) {
		return reject(ErrProductionLocked)
	}

	if targetID == nil {
		// Root always has room for a subtree that already satisfies the limit,
		// but corrupted state is still checked.
		if dragged.IsFolder() && 1+db.SubtreeFolderHeight(dragged.ID) > MaxDepth {
			return reject(ErrNestingLimitExceeded)
		}
		return accept()
	}

	tid := strings.TrimSpace(*targetID)
	target, err := db.parentFolder(tid)
	if err != nil {
		return reject(err)
	}
	if !perm.CanDropInto(target) {
		return reject(ErrProductionLocked)
	}
	if dragged.Type == model.ItemTypeSimulation {
		return reject(fmt.Errorf("%w: simulations live at root", ErrInvalidParent))
	}

	inside, err := db.IsAncestor(dragged.ID, tid)
	if err != nil {
		return reject(err)
	}
	if inside {
		return reject(ErrCyclicMove)
	}

	if dragged.IsFolder() {
		newDepth := db.Depth(&tid) + 1
		if newDepth+db.SubtreeFolderHeight(dragged.ID) > MaxDepth {
			return reject(ErrNestingLimitExceeded)
		}
	}
	return accept()
}

// RejectionCode is a stable machine-readable name for a move rejection.
func RejectionCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCyclicMove):
		return "cyclic_move"
	case errors.Is(err, ErrNestingLimitExceeded):
		return "nesting_limit_exceeded"
	case errors.Is(err, ErrProductionLocked):
		return "production_locked"
	case errors.Is(err, ErrInvalidParent):
		return "invalid_parent"
	case errors.Is(err, ErrCycleDetected):
		return "cycle_detected"
	case IsNotFound(err):
		return "not_found"
	default:
		return "rejected"
	}
}
