package entity

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrAuthenticity     = errors.New("authenticity check failed")
	ErrExpired          = errors.New("expired")
	ErrTrialExpired     = errors.New("trial expired")
	ErrAlreadyUsed      = errors.New("already used")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrUpstream         = errors.New("upstream failure")

	// ErrCodeCollision marks a conflict on the access code unique index,
	// as opposed to one on the active license or trial.
	ErrCodeCollision = errors.New("access code collision")
)

// Error is a classified failure whose Message is safe to show to API clients.
type Error struct {
	Kind    error
	Message string
	Details map[string]interface{}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// With attaches an extra field to the error body.
func (e *Error) With(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return newError(ErrValidation, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newError(ErrNotFound, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newError(ErrConflict, format, args...)
}

func Authenticity(format string, args ...interface{}) *Error {
	return newError(ErrAuthenticity, format, args...)
}

func Expired(format string, args ...interface{}) *Error {
	return newError(ErrExpired, format, args...)
}

func TrialExpired(format string, args ...interface{}) *Error {
	return newError(ErrTrialExpired, format, args...)
}

func AlreadyUsed(format string, args ...interface{}) *Error {
	return newError(ErrAlreadyUsed, format, args...)
}

func CapacityExceeded(format string, args ...interface{}) *Error {
	return newError(ErrCapacityExceeded, format, args...)
}

// Upstream wraps a gateway or transport failure, keeping the upstream message.
func Upstream(err error) *Error {
	return &Error{Kind: ErrUpstream, Message: err.Error()}
}
