package session

import (
	"errors"
	"fmt"
)

// ErrNotAwaitingInput is returned for an action while a previous one is
// still being applied or after the session completed.
var ErrNotAwaitingInput = errors.New("session is not awaiting input")

// ErrWrongMode is returned for a quiz action in revise mode or the reverse.
var ErrWrongMode = errors.New("action not available in this mode")

// ValidationError reports a malformed submission. The session is unchanged.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// PersistenceError reports a failed checkpoint or store operation. The
// in-memory queue is preserved, but a crash would lose progress since the
// last successful save.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
