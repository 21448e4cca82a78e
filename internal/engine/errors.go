package engine

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTitle     = errors.New("title is required")
	ErrTaskNotFound   = errors.New("task not found")
	ErrRewardNotFound = errors.New("reward not found")
	ErrRewardExpired  = errors.New("reward has expired")

	ErrUnknownBlueprint     = errors.New("unknown blueprint")
	ErrBlueprintUnavailable = errors.New("blueprint is not available")

	ErrRangeTooLarge = errors.New("calendar range is too large")
)

// LockedError is returned for task interaction before the day is unlocked.
type LockedError struct {
	Day string
}

func (e LockedError) Error() string {
	if e.Day == "" {
		return "task list is locked; unlock it first"
	}
	return fmt.Sprintf("task list is locked for %s; unlock it first", e.Day)
}

// ErrSessionLocked matches any LockedError via errors.Is.
var ErrSessionLocked = LockedError{}

func (e LockedError) Is(target error) bool {
	_, ok := target.(LockedError)
	return ok
}

// CommitError means the store rejected a mutation. Nothing from the operation
// was persisted.
type CommitError struct {
	Op  string
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("%s: commit failed: %v", e.Op, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }
