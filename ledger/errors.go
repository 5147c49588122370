package ledger

import (
	"errors"
	"fmt"
)

// ErrMetaNotFound reports an absent monthly meta row. This is an expected
// condition: callers substitute zero income/budget and never surface it.
var ErrMetaNotFound = errors.New("monthly meta not found")

// ValidationError rejects bad input before any remote call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RemoteWriteError wraps a failed persistence call. By the time a caller sees
// one, the optimistic snapshot change has already been rolled back.
type RemoteWriteError struct {
	Op  string
	Err error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("%s: remote write failed: %v", e.Op, e.Err)
}

func (e *RemoteWriteError) Unwrap() error { return e.Err }

// PartialCascadeError reports a rename that updated the category record but
// failed the expense cascade. The stored data is inconsistent until the user
// retries; callers must present this differently from a clean failure.
type PartialCascadeError struct {
	OldName string
	NewName string
	Err     error
}

func (e *PartialCascadeError) Error() string {
	return fmt.Sprintf("category renamed %q to %q but expense cascade failed: %v", e.OldName, e.NewName, e.Err)
}

func (e *PartialCascadeError) Unwrap() error { return e.Err }
