// Package clierr carries a machine-readable code and an exit status for
// command-line failures.
package clierr

import "fmt"

const (
	TaskNotFound    = "TASK_NOT_FOUND"
	ScoreNotFound   = "SCORE_NOT_FOUND"
	AmbiguousID     = "AMBIGUOUS_ID"
	InvalidInput    = "INVALID_INPUT"
	ConfirmationReq = "CONFIRMATION_REQUIRED"
	TimerRefused    = "TIMER_REFUSED"
	StorageError    = "STORAGE_ERROR"
	InternalError   = "INTERNAL_ERROR"
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ExitCode is 2 for internal and storage failures, 1 for everything the user
// can fix.
func (e *Error) ExitCode() int {
	switch e.Code {
	case InternalError, StorageError:
		return 2
	default:
		return 1
	}
}
