package mutate

import (
	"errors"

	"content-cli/internal/store"
)

var (
	ErrFolderNotStaged     = errors.New("folders are not staged; only workflows and simulations can be published")
	ErrNotASimulation      = errors.New("item is not a simulation")
	ErrNotAFolder          = errors.New("item is not a folder")
	ErrNoWorkflowsSelected = store.ValidationError{Field: "selectedWorkflows", Message: "select at least one workflow"}
)

// NotFoundError is the store's not-found error; mutations return it unchanged.
type NotFoundError = store.NotFoundError

// createDepthError is what creating a folder below the deepest level returns.
// It carries the message the create dialog shows and matches
// store.ErrNestingLimitExceeded.
type createDepthError struct{}

func (createDepthError) Error() string {
	return "Maximum nesting level reached. You can only create folders up to 3 levels deep."
}

func (createDepthError) Unwrap() error { return store.ErrNestingLimitExceeded }
