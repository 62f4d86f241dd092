package service

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for the HTTP layer.
type Kind string

const (
	KindValidation         Kind = "ValidationError"
	KindNotFound           Kind = "NotFoundError"
	KindBackendUnavailable Kind = "BackendUnavailable"
	KindInternal           Kind = "InternalError"
)

// Sentinels for errors.Is. Only Kind is compared.
var (
	ErrValidation         = &Error{Kind: KindValidation, Code: http.StatusBadRequest}
	ErrNotFound           = &Error{Kind: KindNotFound, Code: http.StatusNotFound}
	ErrBackendUnavailable = &Error{Kind: KindBackendUnavailable, Code: http.StatusInternalServerError}
	ErrInternal           = &Error{Kind: KindInternal, Code: http.StatusInternalServerError}
)

// Error is a failure with the status code it maps to.
type Error struct {
	Kind Kind
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind Kind, code int, msg string) error {
	return &Error{Kind: kind, Code: code, Err: errors.New(msg)}
}

// ValidationError reports a malformed request.
func ValidationError(msg string) error {
	return newError(KindValidation, http.StatusBadRequest, msg)
}

// NotFoundError reports a missing image or food record.
func NotFoundError(msg string) error {
	return newError(KindNotFound, http.StatusNotFound, msg)
}

// BackendUnavailableError reports that no detection backend was loaded.
func BackendUnavailableError(msg string) error {
	return newError(KindBackendUnavailable, http.StatusInternalServerError, msg)
}

// InternalError wraps an unexpected failure, keeping its text.
func InternalError(err error) error {
	return &Error{Kind: KindInternal, Code: http.StatusInternalServerError, Err: err}
}

// StatusCode returns the HTTP status for err, 500 for anything unclassified.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Code != 0 {
		return e.Code
	}
	return http.StatusInternalServerError
}
