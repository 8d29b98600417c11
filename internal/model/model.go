package model

import (
	"fmt"
	"strings"
	"time"
)

type ItemType string

const (
	ItemTypeFolder     ItemType = "folder"
	ItemTypeWorkflow   ItemType = "workflow"
	ItemTypeSimulation ItemType = "simulation"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeFolder, ItemTypeWorkflow, ItemTypeSimulation:
		return true
	default:
		return false
	}
}

func ParseItemType(s string) (ItemType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "folder", "dir":
		return ItemTypeFolder, nil
	case "workflow", "content":
		return ItemTypeWorkflow, nil
	case "simulation", "sim":
		return ItemTypeSimulation, nil
	default:
		return "", fmt.Errorf("invalid item type: %q (expected folder|workflow|simulation)", s)
	}
}

type Stage string

const (
	StageDraft      Stage = "draft"
	StageProduction Stage = "production"
)

func (s Stage) Valid() bool {
	return s == StageDraft || s == StageProduction
}

func ParseStage(s string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "draft":
		return StageDraft, nil
	case "production", "prod":
		return StageProduction, nil
	default:
		return "", fmt.Errorf("invalid stage: %q (expected draft|production)", s)
	}
}

// Item is one node of the content tree. Folder, workflow and simulation share
// this struct; variant fields are ignored (and omitted from JSON) for the other
// types.
type Item struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          ItemType  `json:"type"`
	Stage         Stage     `json:"stage"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdated   time.Time `json:"lastUpdated"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`

	// ParentID is the id of the containing folder; nil means root.
	ParentID *string `json:"parentId"`

	// Folder: Inherit defers to the nearest ancestor with an explicit value.
	// Simulation: always explicit.
	PlaygroundMode Tri `json:"playgroundMode"`
	HasAssessment  Tri `json:"hasAssessment"`

	// Workflow.
	ScreenCount int  `json:"screenCount,omitempty"`
	HasFlow     bool `json:"hasFlow,omitempty"`

	// Simulation. SelectedWorkflows references workflows without owning them.
	WorkflowCount     int      `json:"workflowCount,omitempty"`
	SelectedWorkflows []string `json:"selectedWorkflows,omitempty"`
}

func (it Item) IsFolder() bool { return it.Type == ItemTypeFolder }

func (it Item) IsRoot() bool { return it.ParentID == nil }

// Parent returns the parent id, or "" for root-level items.
func (it Item) Parent() string {
	if it.ParentID == nil {
		return ""
	}
	return *it.ParentID
}

// Clone returns a copy that shares no pointers or slices with it.
func (it Item) Clone() Item {
	out := it
	if it.ParentID != nil {
		pid := *it.ParentID
		out.ParentID = &pid
	}
	if it.SelectedWorkflows != nil {
		out.SelectedWorkflows = append([]string(nil), it.SelectedWorkflows...)
	}
	return out
}

// Patch is a field-level partial update. Nil fields are left untouched.
// There is no ID or Type field: neither may change after creation.
type Patch struct {
	Name  *string
	Stage *Stage

	// SetParent must be true for ParentID to apply; a nil ParentID with
	// SetParent moves the item to root.
	SetParent bool
	ParentID  *string

	PlaygroundMode *Tri
	HasAssessment  *Tri

	ScreenCount       *int
	HasFlow           *bool
	WorkflowCount     *int
	SelectedWorkflows *[]string

	LastUpdated   *time.Time
	LastUpdatedBy *string
}

// Touch returns p with the last-updated fields set.
func (p Patch) Touch(actor string, now time.Time) Patch {
	now = now.UTC()
	p.LastUpdated = &now
	p.LastUpdatedBy = &actor
	return p
}

// Crumb is one breadcrumb entry. The root sentinel has a nil ID.
type Crumb struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

const RootCrumbName = "Content"

func RootCrumb() Crumb { return Crumb{ID: nil, Name: RootCrumbName} }

type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	ActorID  string    `json:"actorId"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}

func StrPtr(s string) *string { return &s }
