package mutate

import (
	"errors"
	"strings"
	"testing"
	"time"

	"content-cli/internal/model"
	"content-cli/internal/seed"
	"content-cli/internal/store"
)

var now = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func newFolder(t *testing.T, db *store.DB, name string, parent *string) model.Item {
	t.Helper()
	res, err := CreateItem(db, "tester", NewItemInput{Type: model.ItemTypeFolder, Name: name, ParentID: parent}, now)
	if err != nil {
		t.Fatalf("create folder %q: %v", name, err)
	}
	return res.Item
}

func newWorkflow(t *testing.T, db *store.DB, name string, parent *string) model.Item {
	t.Helper()
	res, err := CreateItem(db, "tester", NewItemInput{Type: model.ItemTypeWorkflow, Name: name, ParentID: parent}, now)
	if err != nil {
		t.Fatalf("create workflow %q: %v", name, err)
	}
	return res.Item
}

func TestCreateItem_Defaults(t *testing.T) {
	db := store.NewDB(nil)

	f := newFolder(t, db, "  Docs  ", nil)
	if f.Name != "Docs" || f.Stage != model.StageDraft || f.PlaygroundMode != model.Inherit {
		t.Fatalf("unexpected folder: %#v", f)
	}
	if f.CreatedBy != "tester" || f.LastUpdatedBy != "tester" || !f.LastUpdated.Equal(now) {
		t.Fatalf("expected authorship fields set, got %#v", f)
	}

	res, err := CreateItem(db, "tester", NewItemInput{Type: model.ItemTypeSimulation, Name: "Sim"}, now)
	if err != nil {
		t.Fatalf("create simulation: %v", err)
	}
	sim := res.Item
	if sim.PlaygroundMode != model.Off || sim.HasAssessment != model.Off || sim.WorkflowCount != 0 {
		t.Fatalf("expected explicit false simulation settings, got %#v", sim)
	}

	wf := newWorkflow(t, db, "Flow", model.StrPtr(f.ID))
	if wf.ScreenCount != 0 || wf.Parent() != f.ID {
		t.Fatalf("unexpected workflow: %#v", wf)
	}
	if db.Len() != 3 {
		t.Fatalf("expected 3 items, got %d", db.Len())
	}
	if db.Items[0].ID != wf.ID {
		t.Fatalf("expected newest item first")
	}
}

func TestCreateItem_Validation(t *testing.T) {
	db := store.NewDB(nil)

	_, err := CreateItem(db, "tester", NewItemInput{Type: model.ItemTypeFolder, Name: "   "}, now)
	if !store.IsValidation(err) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
	_, err = CreateItem(db, "tester", NewItemInput{Type: "page", Name: "x"}, now)
	if !store.IsValidation(err) {
		t.Fatalf("expected validation error for bad type, got %v", err)
	}
	_, err = CreateItem(db, "tester", NewItemInput{Type: model.ItemTypeWorkflow, Name: "x", ParentID: model.StrPtr("nope")}, now)
	if !store.IsNotFound(err) {
		t.Fatalf("expected not found parent, got %v", err)
	}
	_, err = CreateItem(db, "tester", NewItemInput{Type: model.ItemTypeWorkflow, Name: "x", ScreenCount: -1}, now)
	if !store.IsValidation(err) {
		t.Fatalf("expected validation error for negative screens, got %v", err)
	}
	_, err = CreateItem(db, "tester", NewItemInput{Type: model.ItemTypeFolder, Name: "x", Stage: model.StageProduction}, now)
	if !errors.Is(err, ErrFolderNotStaged) {
		t.Fatalf("expected folders to be draft only, got %v", err)
	}
	if db.Len() != 0 {
		t.Fatalf("rejected creates must not insert, got %d items", db.Len())
	}
}

func TestCreateItem_BlankParentIsRoot(t *testing.T) {
	db := store.NewDB(nil)
	res, err := CreateItem(db, "tester", NewItemInput{Type: model.ItemTypeFolder, Name: "Top", ParentID: model.StrPtr("  ")}, now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !res.Item.IsRoot() {
		t.Fatalf("expected root item, got parent %q", res.Item.Parent())
	}
}

func TestCreateItem_FolderDepthLimit(t *testing.T) {
	db := store.NewDB(nil)
	docs := newFolder(t, db, "Docs", nil)
	api := newFolder(t, db, "API", model.StrPtr(docs.ID))
	v1 := newFolder(t, db, "v1", model.StrPtr(api.ID))

	_, err := CreateItem(db, "tester", NewItemInput{Type: model.ItemTypeFolder, Name: "Beta", ParentID: model.StrPtr(v1.ID)}, now)
	if !errors.Is(err, store.ErrNestingLimitExceeded) {
		t.Fatalf("expected nesting limit, got %v", err)
	}
	if err.Error() != "Maximum nesting level reached. You can only create folders up to 3 levels deep." {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if db.Len() != 3 {
		t.Fatalf("expected no insert, got %d items", db.Len())
	}

	// Workflows may still live at the deepest folder.
	newWorkflow(t, db, "Endpoint", model.StrPtr(v1.ID))
}

func TestCreateItem_ParentTypeCheckedBeforeDepth(t *testing.T) {
	db := store.NewDB(nil)
	a := newFolder(t, db, "A", nil)
	b := newFolder(t, db, "B", model.StrPtr(a.ID))
	c := newFolder(t, db, "C", model.StrPtr(b.ID))
	wf := newWorkflow(t, db, "Deep", model.StrPtr(c.ID))

	_, err := CreateItem(db, "tester", NewItemInput{Type: model.ItemTypeFolder, Name: "X", ParentID: model.StrPtr(wf.ID)}, now)
	if !errors.Is(err, store.ErrInvalidParent) {
		t.Fatalf("expected invalid parent, got %v", err)
	}
	if errors.Is(err, store.ErrNestingLimitExceeded) {
		t.Fatalf("workflow parent reported as nesting limit: %v", err)
	}

	_, err = CreateItem(db, "tester", NewItemInput{Type: model.ItemTypeFolder, Name: "X", ParentID: model.StrPtr("missing")}, now)
	var nf NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "folder" {
		t.Fatalf("expected folder not found, got %v", err)
	}
	if db.Len() != 4 {
		t.Fatalf("expected no insert, got %d items", db.Len())
	}
}

func TestCreateItem_SimulationMustBeRoot(t *testing.T) {
	db := store.NewDB(nil)
	f := newFolder(t, db, "F", nil)
	_, err := CreateItem(db, "tester", NewItemInput{Type: model.ItemTypeSimulation, Name: "S", ParentID: model.StrPtr(f.ID)}, now)
	if !errors.Is(err, store.ErrInvalidParent) {
		t.Fatalf("expected invalid parent, got %v", err)
	}
}

func TestRename(t *testing.T) {
	db := store.NewDB(seed.Items())
	later := now.Add(time.Hour)

	res, err := Rename(db, "alice", seed.WeekOneID, "  First week ", later)
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if !res.Changed || res.Item.Name != "First week" || res.Item.LastUpdatedBy != "alice" || !res.Item.LastUpdated.Equal(later) {
		t.Fatalf("unexpected rename result: %#v", res)
	}

	res, err = Rename(db, "bob", seed.WeekOneID, "First week", later.Add(time.Hour))
	if err != nil {
		t.Fatalf("rename again: %v", err)
	}
	if res.Changed || res.Item.LastUpdatedBy != "alice" {
		t.Fatalf("same-name rename should be a no-op, got %#v", res)
	}

	if _, err := Rename(db, "alice", "missing", "x", later); !store.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := Rename(db, "alice", seed.WeekOneID, " ", later); !store.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestConfigureFolder_InheritanceFlip(t *testing.T) {
	// A contains B; B is inherit; toggling A flips B's effective value.
	db := store.NewDB(nil)
	a := newFolder(t, db, "A", nil)
	b := newFolder(t, db, "B", model.StrPtr(a.ID))

	on := model.On
	if _, err := ConfigureFolder(db, "tester", a.ID, FolderSettings{PlaygroundMode: &on}, now); err != nil {
		t.Fatalf("configure A: %v", err)
	}
	if !db.EffectivePlaygroundMode(model.StrPtr(b.ID)) {
		t.Fatalf("expected B to inherit true")
	}

	off := model.Off
	if _, err := ConfigureFolder(db, "tester", a.ID, FolderSettings{PlaygroundMode: &off}, now); err != nil {
		t.Fatalf("configure A off: %v", err)
	}
	if db.EffectivePlaygroundMode(model.StrPtr(b.ID)) {
		t.Fatalf("expected B to inherit false")
	}
	got, _ := db.FindItem(b.ID)
	if got.PlaygroundMode != model.Inherit {
		t.Fatalf("B's stored value must stay inherit, got %v", got.PlaygroundMode)
	}

	// Clearing back to inherit.
	if _, err := ConfigureFolder(db, "tester", b.ID, FolderSettings{PlaygroundMode: &on}, now); err != nil {
		t.Fatalf("configure B: %v", err)
	}
	inherit := model.Inherit
	res, err := ConfigureFolder(db, "tester", b.ID, FolderSettings{PlaygroundMode: &inherit}, now)
	if err != nil || !res.Changed {
		t.Fatalf("expected clear to change B, res=%#v err=%v", res, err)
	}
	if db.EffectivePlaygroundMode(model.StrPtr(b.ID)) {
		t.Fatalf("expected B to follow A (false) again")
	}
}

func TestConfigureFolder_Errors(t *testing.T) {
	db := store.NewDB(seed.Items())
	on := model.On
	if _, err := ConfigureFolder(db, "tester", seed.SetupWorkflowID, FolderSettings{PlaygroundMode: &on}, now); !errors.Is(err, ErrNotAFolder) {
		t.Fatalf("expected ErrNotAFolder, got %v", err)
	}
	if _, err := ConfigureFolder(db, "tester", "missing", FolderSettings{}, now); !store.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	res, err := ConfigureFolder(db, "tester", seed.OnboardingID, FolderSettings{}, now)
	if err != nil || res.Changed {
		t.Fatalf("empty settings should be a no-op, res=%#v err=%v", res, err)
	}
}

func TestConfigureSimulation(t *testing.T) {
	db := store.NewDB(seed.Items())

	res, err := ConfigureSimulation(db, "tester", seed.CertificationID, SimulationSettings{
		PlaygroundMode:    true,
		HasAssessment:     false,
		SelectedWorkflows: []string{seed.SetupWorkflowID, " " + seed.SetupWorkflowID, seed.DiscoveryCallID},
	}, now)
	if err != nil {
		t.Fatalf("configure simulation: %v", err)
	}
	sim := res.Item
	if sim.WorkflowCount != 2 || len(sim.SelectedWorkflows) != 2 || sim.SelectedWorkflows[0] != seed.SetupWorkflowID {
		t.Fatalf("unexpected selection: %#v", sim)
	}
	if sim.PlaygroundMode != model.On || sim.HasAssessment != model.Off {
		t.Fatalf("unexpected settings: %#v", sim)
	}

	_, err = ConfigureSimulation(db, "tester", seed.CertificationID, SimulationSettings{}, now)
	if !errors.Is(err, ErrNoWorkflowsSelected) {
		t.Fatalf("expected ErrNoWorkflowsSelected, got %v", err)
	}
	_, err = ConfigureSimulation(db, "tester", seed.CertificationID, SimulationSettings{SelectedWorkflows: []string{seed.OnboardingID}}, now)
	if !store.IsValidation(err) {
		t.Fatalf("expected validation error for folder selection, got %v", err)
	}
	_, err = ConfigureSimulation(db, "tester", seed.CertificationID, SimulationSettings{SelectedWorkflows: []string{"ghost"}}, now)
	if !store.IsNotFound(err) {
		t.Fatalf("expected not found workflow, got %v", err)
	}
	_, err = ConfigureSimulation(db, "tester", seed.OnboardingID, SimulationSettings{SelectedWorkflows: []string{seed.SetupWorkflowID}}, now)
	if !errors.Is(err, ErrNotASimulation) {
		t.Fatalf("expected ErrNotASimulation, got %v", err)
	}
}

func TestPublish(t *testing.T) {
	db := store.NewDB(seed.Items())

	res, err := Publish(db, "tester", seed.SetupWorkflowID, now)
	if err != nil || !res.Changed || res.Item.Stage != model.StageProduction {
		t.Fatalf("expected published workflow, res=%#v err=%v", res, err)
	}
	res, err = Publish(db, "tester", seed.SetupWorkflowID, now.Add(time.Minute))
	if err != nil || res.Changed {
		t.Fatalf("republish should be a no-op, res=%#v err=%v", res, err)
	}
	if _, err := Publish(db, "tester", seed.OnboardingID, now); !errors.Is(err, ErrFolderNotStaged) {
		t.Fatalf("expected ErrFolderNotStaged, got %v", err)
	}

	// One-way: the store refuses production -> draft.
	draft := model.StageDraft
	if _, err := db.Update(seed.SetupWorkflowID, model.Patch{Stage: &draft}); !errors.Is(err, store.ErrUnpublish) {
		t.Fatalf("expected ErrUnpublish, got %v", err)
	}
}

func TestMoveItem_Scenarios(t *testing.T) {
	db := store.NewDB(nil)
	a := newFolder(t, db, "A", nil)
	b := newFolder(t, db, "B", model.StrPtr(a.ID))
	x := newFolder(t, db, "X", nil)
	y := newFolder(t, db, "Y", model.StrPtr(x.ID))

	// Dragging X onto Y (its own child) is cyclic.
	if _, err := MoveItem(db, "tester", x.ID, model.StrPtr(y.ID), now); !errors.Is(err, store.ErrCyclicMove) {
		t.Fatalf("expected cyclic move, got %v", err)
	}
	if _, err := MoveItem(db, "tester", x.ID, model.StrPtr(x.ID), now); !errors.Is(err, store.ErrCyclicMove) {
		t.Fatalf("expected self move rejected, got %v", err)
	}

	// X (height 2) under B (depth 2) would reach depth 4.
	if _, err := MoveItem(db, "tester", x.ID, model.StrPtr(b.ID), now); !errors.Is(err, store.ErrNestingLimitExceeded) {
		t.Fatalf("expected nesting limit, got %v", err)
	}
	// Under A (depth 1) it fits exactly.
	res, err := MoveItem(db, "tester", x.ID, model.StrPtr(a.ID), now)
	if err != nil || !res.Changed || res.Item.Parent() != a.ID {
		t.Fatalf("expected move under A, res=%#v err=%v", res, err)
	}
	if got := db.Depth(model.StrPtr(y.ID)); got != 3 {
		t.Fatalf("expected Y at depth 3, got %d", got)
	}
	if res.EventPayload["from"] != "" || res.EventPayload["to"] != a.ID {
		t.Fatalf("unexpected payload: %#v", res.EventPayload)
	}

	// Back to root.
	res, err = MoveItem(db, "tester", x.ID, nil, now)
	if err != nil || !res.Item.IsRoot() {
		t.Fatalf("expected move to root, res=%#v err=%v", res, err)
	}
	// No-op move.
	res, err = MoveItem(db, "tester", x.ID, model.StrPtr(""), now)
	if err != nil || res.Changed {
		t.Fatalf("moving to the current parent should be a no-op, res=%#v err=%v", res, err)
	}
}

func TestMoveItem_FolderWithContentUnderShallowerFolder(t *testing.T) {
	db := store.NewDB(nil)
	p := newFolder(t, db, "P", nil)
	x := newFolder(t, db, "X", model.StrPtr(p.ID))
	w := newWorkflow(t, db, "Inside X", model.StrPtr(x.ID))
	y := newFolder(t, db, "Y", nil)

	if _, err := MoveItem(db, "tester", x.ID, model.StrPtr(y.ID), now); err != nil {
		t.Fatalf("move X under Y: %v", err)
	}
	if got := db.Depth(model.StrPtr(x.ID)); got != 2 {
		t.Fatalf("expected X at depth 2, got %d", got)
	}
	path := db.AncestorPath(w.ID)
	names := make([]string, 0, len(path))
	for _, c := range path {
		names = append(names, c.Name)
	}
	if got := strings.Join(names, " / "); got != "Content / Y / X / Inside X" {
		t.Fatalf("unexpected path after move: %s", got)
	}
}

func TestMoveItem_ProductionLocked(t *testing.T) {
	db := store.NewDB(seed.Items())
	if _, err := MoveItem(db, "tester", seed.DiscoveryCallID, model.StrPtr(seed.OnboardingID), now); !errors.Is(err, store.ErrProductionLocked) {
		t.Fatalf("expected production lock, got %v", err)
	}
	if _, err := MoveItem(db, "tester", seed.CertificationID, model.StrPtr(seed.OnboardingID), now); !errors.Is(err, store.ErrInvalidParent) {
		t.Fatalf("expected simulations to stay at root, got %v", err)
	}
	if _, err := MoveItem(db, "tester", seed.WelcomeTourID, model.StrPtr(seed.SetupWorkflowID), now); !errors.Is(err, store.ErrInvalidParent) {
		t.Fatalf("expected workflow target rejected, got %v", err)
	}
}

func TestDeleteItem_Cascade(t *testing.T) {
	db := store.NewDB(seed.Items())

	res, err := DeleteItem(db, seed.OnboardingID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(res.Removed) != 4 || res.Removed[0] != seed.OnboardingID {
		t.Fatalf("expected onboarding subtree removed, got %v", res.Removed)
	}
	if res.FormerParent != "" {
		t.Fatalf("expected root former parent, got %q", res.FormerParent)
	}
	for _, id := range []string{seed.WeekOneID, seed.SetupWorkflowID, seed.WelcomeTourID} {
		if _, ok := db.FindItem(id); ok {
			t.Fatalf("expected %s removed", id)
		}
	}
	for _, it := range db.All() {
		if it.ParentID != nil {
			if _, ok := db.FindItem(*it.ParentID); !ok {
				t.Fatalf("%s references deleted parent %s", it.ID, *it.ParentID)
			}
		}
	}

	res, err = DeleteItem(db, seed.DiscoveryCallID)
	if err != nil || res.FormerParent != seed.PlaybooksID {
		t.Fatalf("expected former parent playbooks, res=%#v err=%v", res, err)
	}
	if _, err := DeleteItem(db, "missing"); !store.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestList(t *testing.T) {
	db := store.NewDB(seed.Items())

	root := List(db, ListOptions{RootOnly: true})
	if len(root) != 3 {
		t.Fatalf("expected 3 root items, got %d", len(root))
	}
	prod := List(db, ListOptions{Stage: model.StageProduction})
	if len(prod) != 1 || prod[0].ID != seed.DiscoveryCallID {
		t.Fatalf("expected only the production workflow, got %#v", prod)
	}
	under := List(db, ListOptions{Parent: model.StrPtr(seed.OnboardingID)})
	if len(under) != 2 {
		t.Fatalf("expected 2 children of onboarding, got %d", len(under))
	}
	found := List(db, ListOptions{Search: "WEEK"})
	if len(found) != 1 || found[0].ID != seed.WeekOneID {
		t.Fatalf("expected case-insensitive search hit, got %#v", found)
	}
}
