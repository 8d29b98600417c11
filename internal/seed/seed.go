// Package seed holds the starter content merged into every workspace at load.
package seed

import (
	"time"

	"content-cli/internal/model"
)

const author = "Content Team"

var seededAt = time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

const (
	OnboardingID    = "seed-onboarding"
	WeekOneID       = "seed-onboarding-week-1"
	SetupWorkflowID = "seed-setup-workspace"
	WelcomeTourID   = "seed-welcome-tour"
	PlaybooksID     = "seed-sales-playbooks"
	DiscoveryCallID = "seed-discovery-call"
	CertificationID = "seed-new-hire-certification"
)

// Items returns a fresh copy of the seed dataset, newest first.
func Items() []model.Item {
	base := func(id, name string, typ model.ItemType, stage model.Stage, parent *string) model.Item {
		return model.Item{
			ID:            id,
			Name:          name,
			Type:          typ,
			Stage:         stage,
			CreatedBy:     author,
			LastUpdated:   seededAt,
			LastUpdatedBy: author,
			ParentID:      parent,
		}
	}

	cert := base(CertificationID, "New hire certification", model.ItemTypeSimulation, model.StageDraft, nil)
	cert.PlaygroundMode = model.Off
	cert.HasAssessment = model.On
	cert.SelectedWorkflows = []string{WelcomeTourID, SetupWorkflowID}
	cert.WorkflowCount = len(cert.SelectedWorkflows)

	discovery := base(DiscoveryCallID, "Discovery call", model.ItemTypeWorkflow, model.StageProduction, model.StrPtr(PlaybooksID))
	discovery.ScreenCount = 8
	discovery.HasAssessment = model.On

	playbooks := base(PlaybooksID, "Sales playbooks", model.ItemTypeFolder, model.StageDraft, nil)
	playbooks.HasAssessment = model.On

	tour := base(WelcomeTourID, "Welcome tour", model.ItemTypeWorkflow, model.StageDraft, model.StrPtr(OnboardingID))
	tour.ScreenCount = 5

	setup := base(SetupWorkflowID, "Set up your workspace", model.ItemTypeWorkflow, model.StageDraft, model.StrPtr(WeekOneID))
	setup.ScreenCount = 12
	setup.HasFlow = true

	week1 := base(WeekOneID, "Week 1", model.ItemTypeFolder, model.StageDraft, model.StrPtr(OnboardingID))

	onboarding := base(OnboardingID, "Onboarding", model.ItemTypeFolder, model.StageDraft, nil)
	onboarding.PlaygroundMode = model.On

	return []model.Item{cert, discovery, playbooks, tour, setup, week1, onboarding}
}
