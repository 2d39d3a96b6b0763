package store

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the requested problem does not exist.
var ErrNotFound = errors.New("problem not found")

// ErrIdentifierConflict indicates an insert collided with an existing
// problem_id. The caller should assign a fresh identifier and retry once.
type ErrIdentifierConflict struct {
	ProblemID string
}

func (e *ErrIdentifierConflict) Error() string {
	return fmt.Sprintf("problem_id %q already exists", e.ProblemID)
}

// ErrWriteFailure indicates the store rejected a write for a reason other
// than an identifier conflict. Fatal to the current operation.
type ErrWriteFailure struct {
	Op  string
	Err error
}

func (e *ErrWriteFailure) Error() string {
	return fmt.Sprintf("store write failed (%s): %v", e.Op, e.Err)
}

func (e *ErrWriteFailure) Unwrap() error { return e.Err }
