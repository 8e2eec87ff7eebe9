// Package errors provides structured error types for dailytasks.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Code represents a unique error code.
type Code string

// Error codes for dailytasks.
const (
	CodeTaskNotFound    Code = "TASK_NOT_FOUND"
	CodeSubtaskNotFound Code = "SUBTASK_NOT_FOUND"
	CodeValidation      Code = "VALIDATION_FAILED"
	CodeStorage         Code = "STORAGE_FAILURE"
	CodeConflict        Code = "CONFLICT"
)

// Category groups error codes for HTTP status mapping.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryNotFound
	CategoryBadRequest
	CategoryConflict
	CategoryInternal
)

var codeCategories = map[Code]Category{
	CodeTaskNotFound:    CategoryNotFound,
	CodeSubtaskNotFound: CategoryNotFound,
	CodeValidation:      CategoryBadRequest,
	CodeStorage:         CategoryInternal,
	CodeConflict:        CategoryConflict,
}

// HTTPStatus returns the HTTP status code for a category.
func (c Category) HTTPStatus() int {
	switch c {
	case CategoryNotFound:
		return 404
	case CategoryBadRequest:
		return 400
	case CategoryConflict:
		return 409
	default:
		return 500
	}
}

// Error is the structured error type returned across package boundaries.
type Error struct {
	Code  Code   `json:"code"`
	What  string `json:"error"`
	Cause error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.What)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Category returns the error category for HTTP status mapping.
func (e *Error) Category() Category {
	if cat, ok := codeCategories[e.Code]; ok {
		return cat
	}
	return CategoryUnknown
}

// HTTPStatus returns the appropriate HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Category().HTTPStatus()
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// --- Error constructors ---

// ErrTaskNotFound is returned when a task is absent, deleted, or owned by
// another user. The three cases are indistinguishable to the caller.
func ErrTaskNotFound(id int64) *Error {
	return &Error{Code: CodeTaskNotFound, What: fmt.Sprintf("task %d not found", id)}
}

// ErrSubtaskNotFound is returned when a subtask does not belong to the task.
func ErrSubtaskNotFound(id int64) *Error {
	return &Error{Code: CodeSubtaskNotFound, What: fmt.Sprintf("subtask %d not found", id)}
}

// Validation returns an input validation error.
func Validation(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, What: fmt.Sprintf(format, args...)}
}

// Conflict returns a unique-constraint style error.
func Conflict(what string, cause error) *Error {
	return &Error{Code: CodeConflict, What: what, Cause: cause}
}

// Storage wraps an I/O or transaction failure of the named operation.
// Errors that already carry a code pass through unchanged.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return err
	}
	return &Error{Code: CodeStorage, What: op + " failed", Cause: err}
}

// Sentinels for errors.Is comparisons.
var (
	NotFoundTask    = &Error{Code: CodeTaskNotFound}
	NotFoundSubtask = &Error{Code: CodeSubtaskNotFound}
	Invalid         = &Error{Code: CodeValidation}
	StorageFailure  = &Error{Code: CodeStorage}
)

// IsNotFound reports whether err is a task or subtask not-found error.
func IsNotFound(err error) bool {
	var e *Error
	if !stderrors.As(err, &e) {
		return false
	}
	return e.Category() == CategoryNotFound
}

// CodeOf returns the code carried by err, or "" for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}
