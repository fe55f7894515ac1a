package service

import (
	"errors"
	"fmt"
)

var (
	// ErrContactNotFound means the referenced contact does not exist.
	ErrContactNotFound = errors.New("contact not found")

	// ErrScheduleNotFound means the referenced scheduled message does not exist.
	ErrScheduleNotFound = errors.New("scheduled message not found")

	// ErrNotPending means a state transition was attempted on a record that has
	// already reached a terminal status. Only pending schedules can be cancelled.
	ErrNotPending = errors.New("scheduled message is not pending")

	// ErrNoteNotFound means the note does not exist or the caller is not its author.
	ErrNoteNotFound = errors.New("note not found")

	// ErrMessageNotFound means the inbox message does not exist.
	ErrMessageNotFound = errors.New("message not found")
)

// ValidationError rejects a malformed request before any record is created.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
