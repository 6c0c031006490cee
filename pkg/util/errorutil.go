package util

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Exit codes returned by the CLI for each error family.
const (
	ExitInternal     = 1
	ExitValidation   = 2
	ExitUnauthorized = 3
	ExitForbidden    = 4
	ExitNotFound     = 5
	ExitConflict     = 6
)

// DomainError standardizes errors shown to the person running a command.
type DomainError struct {
	Code     string
	Message  string
	ExitCode int
	Details  map[string]any
	Err      error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, exitCode int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, ExitCode: exitCode, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, ExitValidation, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:     "NOT_FOUND",
		Message:  fmt.Sprintf("%s not found.", resource),
		ExitCode: ExitNotFound,
		Details:  details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, ExitUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, ExitForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, ExitConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:     "INTERNAL_ERROR",
		Message:  "internal error",
		ExitCode: ExitInternal,
		Err:      err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("Resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:     "INTERNAL_ERROR",
		Message:  "internal error",
		ExitCode: ExitInternal,
		Err:      err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
