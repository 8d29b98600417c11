package store

import (
	"errors"
	"fmt"
	"strings"

	"content-cli/internal/model"
)

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level   DoctorIssueLevel `json:"level"`
	Code    string           `json:"code"`
	Message string           `json:"message"`
	ItemID  string           `json:"itemId,omitempty"`
}

type DoctorReport struct {
	Issues []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

// Doctor checks loaded state against the tree invariants. Mutations keep them
// by construction; this catches corrupted or hand-edited snapshots.
func Doctor(db *DB) DoctorReport {
	issues := []DoctorIssue{}
	add := func(level DoctorIssueLevel, code, id, format string, args ...any) {
		issues = append(issues, DoctorIssue{Level: level, Code: code, ItemID: id, Message: fmt.Sprintf(format, args...)})
	}
	if db == nil {
		return DoctorReport{Issues: issues}
	}

	seen := map[string]bool{}
	for _, it := range db.Items {
		if seen[it.ID] {
			add(DoctorIssueLevelError, "duplicate_id", it.ID, "id %s appears more than once", it.ID)
		}
		seen[it.ID] = true
		if err := CheckID(it.ID); err != nil {
			add(DoctorIssueLevelError, "invalid_id", it.ID, "item id %q: %v", it.ID, err)
		}

		if strings.TrimSpace(it.Name) == "" {
			add(DoctorIssueLevelWarn, "empty_name", it.ID, "item %s has an empty name", it.ID)
		}
		if !it.Type.Valid() {
			add(DoctorIssueLevelError, "invalid_type", it.ID, "item %s has type %q", it.ID, it.Type)
		}
		if !it.Stage.Valid() {
			add(DoctorIssueLevelError, "invalid_stage", it.ID, "item %s has stage %q", it.ID, it.Stage)
		}

		if it.ParentID != nil {
			pid := *it.ParentID
			p, ok := db.find(pid)
			switch {
			case !ok:
				add(DoctorIssueLevelError, "dangling_parent", it.ID, "item %s references missing parent %s", it.ID, pid)
			case !p.IsFolder():
				add(DoctorIssueLevelError, "non_folder_parent", it.ID, "item %s is nested under %s %s", it.ID, p.Type, pid)
			}
			if it.Type == model.ItemTypeSimulation {
				add(DoctorIssueLevelError, "nested_simulation", it.ID, "simulation %s is not at root", it.ID)
			}
		}

		depth, err := db.DepthChecked(model.StrPtr(it.ID))
		if errors.Is(err, ErrCycleDetected) {
			add(DoctorIssueLevelError, "cycle", it.ID, "parent chain of %s does not reach root", it.ID)
			continue
		}
		if it.IsFolder() && depth > MaxDepth {
			add(DoctorIssueLevelError, "depth_exceeded", it.ID, "folder %s sits at depth %d (max %d)", it.ID, depth, MaxDepth)
		}
	}
	return DoctorReport{Issues: issues}
}
