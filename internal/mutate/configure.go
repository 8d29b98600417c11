package mutate

import (
	"strings"
	"time"

	"content-cli/internal/model"
	"content-cli/internal/store"
)

// FolderSettings carries the folder settings to change; nil leaves a setting
// as it is. model.Inherit clears an explicit value.
type FolderSettings struct {
	PlaygroundMode *model.Tri
	HasAssessment  *model.Tri
}

// ConfigureFolder updates a folder's tri-state settings.
// Callers are responsible for appending the folder.configure event.
func ConfigureFolder(db *store.DB, actorID, folderID string, s FolderSettings, now time.Time) (Result, error) {
	folderID = strings.TrimSpace(folderID)
	it, ok := db.FindItem(folderID)
	if !ok {
		return Result{}, NotFoundError{Kind: "folder", ID: folderID}
	}
	if !it.IsFolder() {
		return Result{}, ErrNotAFolder
	}
	payload := map[string]any{}
	p := model.Patch{}
	if s.PlaygroundMode != nil && *s.PlaygroundMode != it.PlaygroundMode {
		v := *s.PlaygroundMode
		p.PlaygroundMode = &v
		payload["playgroundMode"] = v
	}
	if s.HasAssessment != nil && *s.HasAssessment != it.HasAssessment {
		v := *s.HasAssessment
		p.HasAssessment = &v
		payload["hasAssessment"] = v
	}
	if len(payload) == 0 {
		return Result{Item: it}, nil
	}
	return apply(db, folderID, p.Touch(actorID, now), payload)
}

// SimulationSettings is the full configuration of a simulation. Every field
// is required: simulations never inherit.
type SimulationSettings struct {
	PlaygroundMode    bool
	HasAssessment     bool
	SelectedWorkflows []string
}

// ConfigureSimulation replaces a simulation's settings and workflow selection.
// Each selected id must name an existing workflow; duplicates are dropped and
// the workflow count follows the selection.
// Callers are responsible for appending the simulation.configure event.
func ConfigureSimulation(db *store.DB, actorID, simID string, s SimulationSettings, now time.Time) (Result, error) {
	simID = strings.TrimSpace(simID)
	it, ok := db.FindItem(simID)
	if !ok {
		return Result{}, NotFoundError{Kind: "simulation", ID: simID}
	}
	if it.Type != model.ItemTypeSimulation {
		return Result{}, ErrNotASimulation
	}

	selected := make([]string, 0, len(s.SelectedWorkflows))
	seen := map[string]bool{}
	for _, raw := range s.SelectedWorkflows {
		id := strings.TrimSpace(raw)
		if id == "" || seen[id] {
			continue
		}
		wf, ok := db.FindItem(id)
		if !ok {
			return Result{}, NotFoundError{Kind: "workflow", ID: id}
		}
		if wf.Type != model.ItemTypeWorkflow {
			return Result{}, store.ValidationError{Field: "selectedWorkflows", Message: id + " is a " + string(wf.Type) + ", not a workflow"}
		}
		seen[id] = true
		selected = append(selected, id)
	}
	if len(selected) == 0 {
		return Result{}, ErrNoWorkflowsSelected
	}

	pm := model.TriOf(s.PlaygroundMode)
	ha := model.TriOf(s.HasAssessment)
	count := len(selected)
	p := model.Patch{
		PlaygroundMode:    &pm,
		HasAssessment:     &ha,
		SelectedWorkflows: &selected,
		WorkflowCount:     &count,
	}
	if it.PlaygroundMode == pm && it.HasAssessment == ha && it.WorkflowCount == count && sameStrings(it.SelectedWorkflows, selected) {
		return Result{Item: it}, nil
	}
	return apply(db, simID, p.Touch(actorID, now), map[string]any{
		"playgroundMode":    s.PlaygroundMode,
		"hasAssessment":     s.HasAssessment,
		"selectedWorkflows": selected,
	})
}

func sameStrings(a, b []string) bool {
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
