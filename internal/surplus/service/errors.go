package service

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	ErrNotFound           = errors.New("not_found")
	ErrNotActivated       = errors.New("not_activated")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrConflict           = errors.New("conflict")
	ErrAccessDenied       = errors.New("access_denied")
	ErrValidation         = errors.New("validation_failed")

	ErrLoginAlreadyUsed = fmt.Errorf("%w: login already used", ErrConflict)
	ErrEmailAlreadyUsed = fmt.Errorf("%w: email already used", ErrConflict)
)

// ValidationError carries one message per rejected input field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// newValidationError converts ozzo-validation output. Internal rule errors
// are returned as they are.
func newValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	if ie := errs.Filter(); ie == nil {
		return nil
	}
	fields := make(map[string]string, len(errs))
	for field, fe := range errs {
		var internal validation.InternalError
		if errors.As(fe, &internal) {
			return internal
		}
		fields[field] = fe.Error()
	}
	return &ValidationError{Fields: fields}
}

// fieldError builds a ValidationError for a single field.
func fieldError(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
