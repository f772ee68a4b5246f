package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-editor/internal/dialog"
	"github.com/jonathan/resume-editor/internal/normalize"
	"github.com/jonathan/resume-editor/internal/sections"
	"github.com/jonathan/resume-editor/internal/store"
)

// ErrSessionNotFound indicates the session does not exist or belongs to
// another user.
type ErrSessionNotFound struct {
	ID string
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session not found: %s", e.ID)
}

// ErrResumeNotFound indicates the stored resume does not exist.
type ErrResumeNotFound struct {
	ID string
}

func (e *ErrResumeNotFound) Error() string {
	return fmt.Sprintf("resume not found: %s", e.ID)
}

// ErrLocked indicates a mutation was refused because the resume is locked.
type ErrLocked struct{}

func (e *ErrLocked) Error() string {
	return store.LockedMessage
}

// ErrNotLoaded indicates the session has no resume loaded.
type ErrNotLoaded struct{}

func (e *ErrNotLoaded) Error() string {
	return "no resume is loaded in this session"
}

// ErrUnavailable indicates an optional backend is not configured.
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		sessionNotFound *ErrSessionNotFound
		resumeNotFound  *ErrResumeNotFound
		locked          *ErrLocked
		notLoaded       *ErrNotLoaded
		unavailable     *ErrUnavailable
		validation      *ErrValidation
		formErr         *dialog.ValidationError
		pathErr         *store.PathError
		parseErr        *normalize.ParseError
	)
	switch {
	case errors.As(err, &sessionNotFound), errors.As(err, &resumeNotFound),
		errors.Is(err, sections.ErrItemNotFound):
		return http.StatusNotFound
	case errors.As(err, &locked), errors.Is(err, dialog.ErrLocked):
		return http.StatusLocked
	case errors.As(err, &notLoaded), errors.Is(err, dialog.ErrNotLoaded),
		errors.Is(err, dialog.ErrNoDialog):
		return http.StatusConflict
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &validation), errors.As(err, &formErr),
		errors.As(err, &pathErr), errors.As(err, &parseErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// extractValidationErrors converts validator errors on request bodies into
// an ErrValidation for the first failing field.
func extractValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: ve.Tag()}
	}
	return &ErrValidation{Field: "body", Message: "invalid request"}
}
