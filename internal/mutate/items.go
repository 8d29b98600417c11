package mutate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"content-cli/internal/model"
	"content-cli/internal/store"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewItemInput describes an item to create. Settings left as Inherit get the
// per-type defaults: folders keep Inherit, simulations become explicit false.
type NewItemInput struct {
	Type     model.ItemType `validate:"required,oneof=folder workflow simulation"`
	Name     string         `validate:"required"`
	ParentID *string
	Stage    model.Stage `validate:"omitempty,oneof=draft production"`

	PlaygroundMode model.Tri
	HasAssessment  model.Tri

	ScreenCount int  `validate:"gte=0"`
	HasFlow     bool
}

type Result struct {
	Item         model.Item
	Changed      bool
	EventPayload map[string]any
}

// CreateItem builds a complete item from in and inserts it.
// Callers are responsible for appending the item.create event.
func CreateItem(db *store.DB, actorID string, in NewItemInput, now time.Time) (Result, error) {
	if db == nil {
		return Result{}, errors.New("nil db")
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Stage == "" {
		in.Stage = model.StageDraft
	}
	if in.ParentID != nil {
		in.ParentID = normalizeParent(*in.ParentID)
	}
	if err := validate.Struct(in); err != nil {
		return Result{}, validationError(err)
	}

	if in.Type == model.ItemTypeFolder && in.Stage != model.StageDraft {
		return Result{}, ErrFolderNotStaged
	}

	if in.ParentID != nil {
		p, ok := db.FindItem(*in.ParentID)
		if !ok {
			return Result{}, NotFoundError{Kind: "folder", ID: *in.ParentID}
		}
		if !p.IsFolder() {
			return Result{}, fmt.Errorf("%w: %s is a %s, not a folder", store.ErrInvalidParent, p.ID, p.Type)
		}
	}

	// Same check the create dialog runs before offering a folder; the store
	// re-validates on insert.
	if in.Type == model.ItemTypeFolder && db.Depth(in.ParentID) >= store.MaxDepth {
		return Result{}, createDepthError{}
	}

	now = now.UTC()
	it := model.Item{
		ID:            db.NewID(),
		Name:          in.Name,
		Type:          in.Type,
		Stage:         in.Stage,
		CreatedBy:     actorID,
		LastUpdated:   now,
		LastUpdatedBy: actorID,
		ParentID:      in.ParentID,
	}
	switch in.Type {
	case model.ItemTypeFolder:
		it.PlaygroundMode = in.PlaygroundMode
		it.HasAssessment = in.HasAssessment
	case model.ItemTypeWorkflow:
		it.ScreenCount = in.ScreenCount
		it.HasFlow = in.HasFlow
		it.HasAssessment = in.HasAssessment
	case model.ItemTypeSimulation:
		it.PlaygroundMode = model.TriOf(in.PlaygroundMode.Bool())
		it.HasAssessment = model.TriOf(in.HasAssessment.Bool())
		it.SelectedWorkflows = []string{}
	}

	if err := db.Create(it); err != nil {
		return Result{}, err
	}
	return Result{Item: it, Changed: true, EventPayload: map[string]any{"item": it}}, nil
}

// Rename sets a new display name.
// Callers are responsible for appending the item.rename event.
func Rename(db *store.DB, actorID, itemID, name string, now time.Time) (Result, error) {
	itemID = strings.TrimSpace(itemID)
	name = strings.TrimSpace(name)
	if name == "" {
		return Result{}, store.ValidationError{Field: "name", Message: "required"}
	}
	it, ok := db.FindItem(itemID)
	if !ok {
		return Result{}, NotFoundError{Kind: "item", ID: itemID}
	}
	if it.Name == name {
		return Result{Item: it}, nil
	}
	return apply(db, itemID, model.Patch{Name: &name}.Touch(actorID, now), map[string]any{"from": it.Name, "to": name})
}

// apply runs p through the store and returns the item as stored afterwards.
func apply(db *store.DB, itemID string, p model.Patch, payload map[string]any) (Result, error) {
	changed, err := db.Update(itemID, p)
	if err != nil {
		return Result{}, err
	}
	it, ok := db.FindItem(itemID)
	if !ok {
		// Update is a no-op for ids removed in the meantime.
		return Result{}, NotFoundError{Kind: "item", ID: itemID}
	}
	if !changed {
		return Result{Item: it}, nil
	}
	return Result{Item: it, Changed: true, EventPayload: payload}, nil
}

// normalizeParent maps a blank parent id to root.
func normalizeParent(id string) *string {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return &id
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.Field()
	if field != "" {
		field = strings.ToLower(field[:1]) + field[1:]
	}
	msg := fe.Tag()
	switch fe.Tag() {
	case "required":
		msg = "required"
	case "oneof":
		msg = fmt.Sprintf("must be one of: %s", fe.Param())
	case "gte":
		msg = fmt.Sprintf("must be at least %s", fe.Param())
	}
	return store.ValidationError{Field: field, Message: msg}
}
