package dialog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNoDialog is returned when submitting while no editor is open.
	ErrNoDialog = errors.New("no dialog is open")
	// ErrLocked is returned when the resume refused the edit because it is locked.
	ErrLocked = errors.New("resume is locked")
	// ErrNotLoaded is returned when no resume is loaded.
	ErrNotLoaded = errors.New("no resume loaded")
)

// FieldError describes one invalid form field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError reports a form that failed validation. The dialog stays
// open so the user can correct it.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

func newValidationError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return &ValidationError{Errors: []FieldError{{Message: err.Error()}}}
	}
	out := &ValidationError{Errors: make([]FieldError, 0, len(ves))}
	for _, fe := range ves {
		out.Errors = append(out.Errors, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "template":
		return "is not a known template"
	default:
		return "failed " + fe.Tag()
	}
}
