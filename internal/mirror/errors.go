package mirror

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	TypeConflict    ErrorKind = "TYPE_CONFLICT"
	IOFailure       ErrorKind = "IO_FAILURE"
	WatchFailure    ErrorKind = "WATCH_FAILURE"
	InvalidOption   ErrorKind = "INVALID_OPTION"
	UnexpectedState ErrorKind = "UNEXPECTED_STATE"
)

// DefaultErrorCode is the exit status suggested to callers that treat an
// error event as fatal.
const DefaultErrorCode = 2

var ErrInvalidOption = errors.New("invalid option")

type SyncError struct {
	Kind ErrorKind
	Path string
	Code int
	Err  error
}

func newError(kind ErrorKind, path string, err error) *SyncError {
	return &SyncError{
		Kind: kind,
		Path: path,
		Code: DefaultErrorCode,
		Err:  err,
	}
}

func (e *SyncError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func (e *SyncError) Is(target error) bool {
	return target == ErrInvalidOption && e.Kind == InvalidOption
}

// KindOf returns the ErrorKind carried by err, or "" when err is not a
// *SyncError.
func KindOf(err error) ErrorKind {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Kind
	}

	return ""
}
