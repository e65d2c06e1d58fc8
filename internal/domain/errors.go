package domain

import (
	"errors"
	"fmt"
)

type ErrCode string

const (
	CodeValidation      ErrCode = "validation_error"
	CodeUnauthenticated ErrCode = "unauthorized"
	CodeNotFound        ErrCode = "not_found"
	CodeForbidden       ErrCode = "forbidden"
	CodeInvalidState    ErrCode = "invalid_state"
)

type AppError struct {
	Code    ErrCode
	Message string
	Meta    map[string]string
}

func (e *AppError) Error() string {
	if len(e.Meta) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Meta)
}

func ErrValidation(msg string) error { return &AppError{Code: CodeValidation, Message: msg} }
func ErrValidationMeta(msg string, meta map[string]string) error {
	return &AppError{Code: CodeValidation, Message: msg, Meta: meta}
}
func ErrUnauthenticated(msg string) error { return &AppError{Code: CodeUnauthenticated, Message: msg} }
func ErrNotFound(msg string) error        { return &AppError{Code: CodeNotFound, Message: msg} }
func ErrForbidden(msg string) error       { return &AppError{Code: CodeForbidden, Message: msg} }
func ErrInvalidState(msg string) error    { return &AppError{Code: CodeInvalidState, Message: msg} }

// ErrTripNotFound is returned both for missing trips and for private trips the
// requester does not own.
func ErrTripNotFound() error { return ErrNotFound("trip not found") }

// CodeOf returns the AppError code of err, or "" for non-domain errors.
func CodeOf(err error) ErrCode {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
