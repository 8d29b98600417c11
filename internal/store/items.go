package store

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"content-cli/internal/model"
)

// Create inserts a fully formed item at the front of the collection.
// Nothing is inserted unless every invariant holds.
func (db *DB) Create(it model.Item) error {
	if err := db.validateNew(it); err != nil {
		return err
	}
	it = it.Clone()
	db.Items = append([]model.Item{it}, db.Items...)
	db.reindex()
	db.logger().Debug("item created", zap.String("id", it.ID), zap.String("type", string(it.Type)))
	db.emit(ChangeCreate, it.ID)
	return nil
}

func (db *DB) validateNew(it model.Item) error {
	id := strings.TrimSpace(it.ID)
	if id == "" || id != it.ID {
		return ValidationError{Field: "id", Message: "must be non-empty and untrimmed"}
	}
	if err := CheckID(id); err != nil {
		return ValidationError{Field: "id", Message: err.Error()}
	}
	if _, ok := db.find(id); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	if strings.TrimSpace(it.Name) == "" {
		return ValidationError{Field: "name", Message: "required"}
	}
	if !it.Type.Valid() {
		return ValidationError{Field: "type", Message: fmt.Sprintf("invalid item type %q", it.Type)}
	}
	if !it.Stage.Valid() {
		return ValidationError{Field: "stage", Message: fmt.Sprintf("invalid stage %q", it.Stage)}
	}
	if !it.PlaygroundMode.Valid() || !it.HasAssessment.Valid() {
		return ValidationError{Field: "settings", Message: "must be true, false or inherit"}
	}
	if it.Type == model.ItemTypeSimulation {
		if it.ParentID != nil {
			return fmt.Errorf("%w: simulations live at root", ErrInvalidParent)
		}
		if it.PlaygroundMode == model.Inherit || it.HasAssessment == model.Inherit {
			return ValidationError{Field: "settings", Message: "simulation settings must be explicit"}
		}
	}
	if it.Type == model.ItemTypeWorkflow && it.PlaygroundMode != model.Inherit {
		return ValidationError{Field: "playgroundMode", Message: "workflows inherit playground mode from their folder"}
	}
	if it.ParentID == nil {
		return nil
	}
	if _, err := db.parentFolder(*it.ParentID); err != nil {
		return err
	}
	if it.IsFolder() && db.Depth(it.ParentID)+1 > MaxDepth {
		return ErrNestingLimitExceeded
	}
	return nil
}

func (db *DB) parentFolder(id string) (*model.Item, error) {
	p, ok := db.find(id)
	if !ok {
		return nil, NotFoundError{Kind: "folder", ID: id}
	}
	if !p.IsFolder() {
		return nil, fmt.Errorf("%w: %s is a %s", ErrInvalidParent, id, p.Type)
	}
	return p, nil
}

// Update merges p into the item with the given id. Unknown ids are a silent
// no-op. A reparenting patch must pass ValidateMove. Either the whole patch
// applies or nothing does; the bool reports whether anything changed.
func (db *DB) Update(id string, p model.Patch) (bool, error) {
	cur, ok := db.find(id)
	if !ok {
		return false, nil
	}
	next := cur.Clone()
	changed := false

	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return false, ValidationError{Field: "name", Message: "required"}
		}
		if next.Name != *p.Name {
			next.Name = *p.Name
			changed = true
		}
	}
	if p.Stage != nil {
		if !p.Stage.Valid() {
			return false, ValidationError{Field: "stage", Message: fmt.Sprintf("invalid stage %q", *p.Stage)}
		}
		if next.Stage == model.StageProduction && *p.Stage == model.StageDraft {
			return false, ErrUnpublish
		}
		if next.Stage != *p.Stage {
			next.Stage = *p.Stage
			changed = true
		}
	}
	if p.SetParent && !sameParent(next.ParentID, p.ParentID) {
		if d := db.ValidateMove(next.ID, p.ParentID); !d.Accepted {
			return false, d.Reason
		}
		if p.ParentID == nil {
			next.ParentID = nil
		} else {
			next.ParentID = model.StrPtr(*p.ParentID)
		}
		changed = true
	}
	if p.PlaygroundMode != nil {
		if err := checkSetting(next, "playgroundMode", *p.PlaygroundMode); err != nil {
			return false, err
		}
		if next.PlaygroundMode != *p.PlaygroundMode {
			next.PlaygroundMode = *p.PlaygroundMode
			changed = true
		}
	}
	if p.HasAssessment != nil {
		if err := checkSetting(next, "hasAssessment", *p.HasAssessment); err != nil {
			return false, err
		}
		if next.HasAssessment != *p.HasAssessment {
			next.HasAssessment = *p.HasAssessment
			changed = true
		}
	}
	if p.ScreenCount != nil {
		if err := requireType(next, model.ItemTypeWorkflow, "screenCount"); err != nil {
			return false, err
		}
		if *p.ScreenCount < 0 {
			return false, ValidationError{Field: "screenCount", Message: "must not be negative"}
		}
		if next.ScreenCount != *p.ScreenCount {
			next.ScreenCount = *p.ScreenCount
			changed = true
		}
	}
	if p.HasFlow != nil {
		if err := requireType(next, model.ItemTypeWorkflow, "hasFlow"); err != nil {
			return false, err
		}
		if next.HasFlow != *p.HasFlow {
			next.HasFlow = *p.HasFlow
			changed = true
		}
	}
	if p.WorkflowCount != nil {
		if err := requireType(next, model.ItemTypeSimulation, "workflowCount"); err != nil {
			return false, err
		}
		if *p.WorkflowCount < 0 {
			return false, ValidationError{Field: "workflowCount", Message: "must not be negative"}
		}
		if next.WorkflowCount != *p.WorkflowCount {
			next.WorkflowCount = *p.WorkflowCount
			changed = true
		}
	}
	if p.SelectedWorkflows != nil {
		if err := requireType(next, model.ItemTypeSimulation, "selectedWorkflows"); err != nil {
			return false, err
		}
		if !equalStrings(next.SelectedWorkflows, *p.SelectedWorkflows) {
			next.SelectedWorkflows = append([]string(nil), (*p.SelectedWorkflows)...)
			changed = true
		}
	}
	if p.LastUpdated != nil && !next.LastUpdated.Equal(*p.LastUpdated) {
		next.LastUpdated = p.LastUpdated.UTC()
		changed = true
	}
	if p.LastUpdatedBy != nil && next.LastUpdatedBy != *p.LastUpdatedBy {
		next.LastUpdatedBy = *p.LastUpdatedBy
		changed = true
	}

	if !changed {
		return false, nil
	}
	*cur = next
	db.emit(ChangeUpdate, next.ID)
	return true, nil
}

func checkSetting(it model.Item, field string, v model.Tri) error {
	if !v.Valid() {
		return ValidationError{Field: field, Message: "must be true, false or inherit"}
	}
	switch it.Type {
	case model.ItemTypeSimulation:
		if v == model.Inherit {
			return ValidationError{Field: field, Message: "simulation settings must be explicit"}
		}
	case model.ItemTypeWorkflow:
		if field == "playgroundMode" {
			return ValidationError{Field: field, Message: "workflows inherit playground mode from their folder"}
		}
	}
	return nil
}

func requireType(it model.Item, want model.ItemType, field string) error {
	if it.Type != want {
		return ValidationError{Field: field, Message: fmt.Sprintf("only %s items carry this field", want)}
	}
	return nil
}

// Delete removes id and its whole subtree. The closure is computed before
// anything is removed. It returns the removed ids, id first.
func (db *DB) Delete(id string) ([]string, error) {
	id = strings.TrimSpace(id)
	if _, ok := db.find(id); !ok {
		return nil, NotFoundError{Kind: "item", ID: id}
	}
	doomed := append([]string{id}, db.Descendants(id)...)
	gone := make(map[string]bool, len(doomed))
	for _, x := range doomed {
		gone[x] = true
	}

	kept := make([]model.Item, 0, len(db.Items)-len(doomed))
	for _, it := range db.Items {
		if gone[it.ID] {
			continue
		}
		kept = append(kept, it)
	}
	db.Items = kept
	db.reindex()
	db.logger().Debug("items deleted", zap.String("root", id), zap.Int("count", len(doomed)))
	db.emit(ChangeDelete, doomed...)
	return doomed, nil
}

// FindItem returns a copy of the item with the given id.
func (db *DB) FindItem(id string) (model.Item, bool) {
	it, ok := db.find(id)
	if !ok {
		return model.Item{}, false
	}
	return it.Clone(), true
}

// ByParent returns copies of the items directly under parentID (nil = root),
// in store order.
func (db *DB) ByParent(parentID *string) []model.Item {
	out := []model.Item{}
	if db == nil {
		return out
	}
	for _, it := range db.Items {
		if sameParent(it.ParentID, parentID) {
			out = append(out, it.Clone())
		}
	}
	return out
}

// All returns a copy of the collection in store order.
func (db *DB) All() []model.Item {
	if db == nil {
		return []model.Item{}
	}
	out := make([]model.Item, 0, len(db.Items))
	for _, it := range db.Items {
		out = append(out, it.Clone())
	}
	return out
}

func (db *DB) Len() int {
	if db == nil {
		return 0
	}
	return len(db.Items)
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
