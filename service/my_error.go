package service

import (
	"errors"
	"fmt"
)

const (
	// ErrInternalServerError means that an internal error has occurred.
	ErrInternalServerError = "internal_server_error"
	// ErrEntityNotFound means that a requested record is absent (e.g. no channel bootstrapped for a service).
	ErrEntityNotFound = "entity_not_found"
	// ErrBadParameter means that provided parameter does not match declared.
	ErrBadParameter = "bad_parameter"
	// ErrBadFormat means that a string consumed as an endpoint is not a valid address:port.
	ErrBadFormat = "bad_format"
	// ErrDependencyNotFound means that a required registry key or directory is empty or absent.
	ErrDependencyNotFound = "dependency_not_found"
	// ErrRegistryUnavailable means that the registry could not be reached or queried.
	ErrRegistryUnavailable = "registry_unavailable"
	// ErrTimeout means that a readiness wait was aborted by the caller's deadline or cancellation.
	ErrTimeout = "timeout"
)

// MyError represents an error within the context of killrvideoit bootstrap.
type MyError struct {
	// Code is a machine-readable code.
	Code string `json:"code,omitempty"`
	// Message is a human-readable message naming the dependency and the reason.
	Message string `json:"message"`
	// Inner is a wrapped error that is never shown to API consumers.
	Inner error `json:"-"`
}

// NewMyError creates a new MyError.
func NewMyError(code string, message string, inner error) *MyError {
	return &MyError{
		Code:    code,
		Message: message,
		Inner:   inner,
	}
}

func NewInternalServerError(message string, inner error) *MyError {
	myInner := ToMyError(inner)
	if myInner != nil {
		return myInner
	}

	return NewMyError(ErrInternalServerError, message, inner)
}

func NewEntityNotFoundError(message string, inner error) *MyError {
	return NewMyError(ErrEntityNotFound, message, inner)
}

func NewBadParameterError(message string, inner error) *MyError {
	return NewMyError(ErrBadParameter, message, inner)
}

func NewFormatError(message string, inner error) *MyError {
	return NewMyError(ErrBadFormat, message, inner)
}

func NewDependencyNotFoundError(message string, inner error) *MyError {
	return NewMyError(ErrDependencyNotFound, message, inner)
}

func NewRegistryUnavailableError(message string, inner error) *MyError {
	myInner := ToMyError(inner)
	if myInner != nil {
		return myInner
	}

	return NewMyError(ErrRegistryUnavailable, message, inner)
}

func NewTimeoutError(message string, inner error) *MyError {
	return NewMyError(ErrTimeout, message, inner)
}

func (e MyError) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("%s %s: %v", e.Code, e.Message, e.Inner)
	}

	return fmt.Sprintf("%s %s", e.Code, e.Message)
}

// Unwrap the error returning the error's reason.
func (e MyError) Unwrap() error {
	return e.Inner
}

// ToMyError returns a pointer to a killrvideoit error, or nil if it is not a killrvideoit error.
func ToMyError(err error) *MyError {
	var e *MyError
	if errors.As(err, &e) {
		return e
	}
	return nil
}

func IsMyError(err error, code string) bool {
	myerror := ToMyError(err)
	if myerror != nil {
		return myerror.Code == code
	}
	return false
}

func IsInternalServerError(err error) bool {
	return IsMyError(err, ErrInternalServerError)
}

func IsEntityNotFoundError(err error) bool {
	return IsMyError(err, ErrEntityNotFound)
}

func IsBadParameterError(err error) bool {
	return IsMyError(err, ErrBadParameter)
}

func IsFormatError(err error) bool {
	return IsMyError(err, ErrBadFormat)
}

func IsDependencyNotFoundError(err error) bool {
	return IsMyError(err, ErrDependencyNotFound)
}

func IsRegistryUnavailableError(err error) bool {
	return IsMyError(err, ErrRegistryUnavailable)
}

func IsTimeoutError(err error) bool {
	return IsMyError(err, ErrTimeout)
}
