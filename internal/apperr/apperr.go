// Package apperr classifies the errors this module surfaces to callers.
//
// Every externally observable failure is one of four kinds: bad input,
// not found, conflict, or internal inconsistency. Callers match the kind
// with errors.Is and read entity/scope context from the message.
package apperr

import (
	"errors"
	"fmt"
)

// Kind sentinels. Match with errors.Is.
var (
	ErrBadInput = errors.New("bad input")
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInternal = errors.New("internal inconsistency")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// BadInput reports invalid caller-supplied input.
func BadInput(format string, args ...any) error {
	return &kindError{kind: ErrBadInput, msg: fmt.Sprintf(format, args...)}
}

// NotFound reports a referenced entity that does not exist in the given scope.
func NotFound(format string, args ...any) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// Conflict reports a state clash, such as a duplicate receipt reference.
func Conflict(format string, args ...any) error {
	return &kindError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

// Internal reports a broken referential invariant. Distinct from NotFound:
// the input was fine, the stored graph is not.
func Internal(format string, args ...any) error {
	return &kindError{kind: ErrInternal, msg: fmt.Sprintf(format, args...)}
}
