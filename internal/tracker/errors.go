package tracker

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIndexOutOfRange is returned when a day index is outside [0, N).
var ErrIndexOutOfRange = errors.New("day index out of range")

// FieldError is a single validation problem at a JSON path.
type FieldError struct {
	Path string // JSON path to the error location, e.g. days[3].done
	Err  error
}

func (e *FieldError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// ImportValidationError reports a rejected import. The store is unchanged.
type ImportValidationError struct {
	Errors []error
}

func (e *ImportValidationError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "invalid import data"
	case 1:
		return "invalid import data: " + e.Errors[0].Error()
	default:
		msgs := make([]string, len(e.Errors))
		for i, err := range e.Errors {
			msgs[i] = err.Error()
		}
		return fmt.Sprintf("invalid import data (%d problems): %s", len(e.Errors), strings.Join(msgs, "; "))
	}
}

// Unwrap exposes the individual problems to errors.Is and errors.As.
func (e *ImportValidationError) Unwrap() []error {
	return e.Errors
}

// StorageReadError reports a stored payload that could not be used. The
// store has already fallen back to a fresh calendar when this is returned.
type StorageReadError struct {
	Key string
	Err error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("read stored state %q: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageReadError) Unwrap() error {
	return e.Err
}

// NoteTooLongError reports that a note was cut to MaxNoteLength. The
// truncated note has been stored.
type NoteTooLongError struct {
	Index  int
	Length int
	Limit  int
}

func (e *NoteTooLongError) Error() string {
	return fmt.Sprintf("note for day %d truncated from %d to %d characters", e.Index+1, e.Length, e.Limit)
}
