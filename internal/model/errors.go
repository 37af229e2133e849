package model

import (
	"errors"
	"fmt"
)

// ValidationError is returned when user input is rejected before any state
// changes.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("model: invalid %s: %s", e.Field, e.Message)
}

// NotFoundError reports an id that is not in the list. Store operations treat
// it as a no-op; lookups return it.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("model: task %q not found", e.ID)
}

type TimerPreconditionError struct {
	TaskID string
	Err    error
}

func (e *TimerPreconditionError) Error() string {
	return fmt.Sprintf("model: cannot start timer for %q: %v", e.TaskID, e.Err)
}

func (e *TimerPreconditionError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsTimerPrecondition(err error) bool {
	var te *TimerPreconditionError
	return errors.As(err, &te)
}
