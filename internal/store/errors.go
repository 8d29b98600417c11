package store

import (
	"errors"
	"fmt"
)

// MaxDepth is the deepest a folder may sit; root-level folders have depth 1.
const MaxDepth = 3

// maxHops bounds every parent-chain walk so corrupted state cannot loop forever.
const maxHops = 64

var (
	ErrNestingLimitExceeded = errors.New("maximum nesting level reached: folders can only be nested 3 levels deep")
	ErrCyclicMove           = errors.New("cannot move an item into itself or one of its descendants")
	ErrCycleDetected        = errors.New("cycle detected in parent chain")
	ErrDuplicateID          = errors.New("item id already exists")
	ErrInvalidParent        = errors.New("invalid parent")
	ErrProductionLocked     = errors.New("production items cannot be moved")
	ErrUnpublish            = errors.New("production items cannot return to draft")
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// ValidationError reports caller input that can never be stored as given.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
