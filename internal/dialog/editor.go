package dialog

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/resume-editor/internal/normalize"
	"github.com/jonathan/resume-editor/internal/sections"
	"github.com/jonathan/resume-editor/internal/store"
	"github.com/jonathan/resume-editor/internal/templates"
	"github.com/jonathan/resume-editor/internal/types"
)

// Committer is the mutation path editors submit through.
type Committer interface {
	TryUpdateData(fn func(draft *types.ResumeData) error) (store.CommitResult, error)
}

// Dismisser closes the dialog an editor was opened for.
type Dismisser interface {
	Dismiss()
}

// Env is what a view needs to commit its form.
type Env struct {
	Committer Committer
	Dismisser Dismisser
	Validate  *validator.Validate
	NewID     func() string
}

// View is the editor opened for one intent.
type View interface {
	// Intent returns the intent the view was opened for.
	Intent() Intent
	// Initial returns the form's starting values.
	Initial() any
	// Submit validates form and commits it. On success the dialog is
	// dismissed. A *ValidationError leaves the dialog open.
	Submit(form json.RawMessage) error
	// Cancel dismisses the dialog without touching the document.
	Cancel()
}

// NewValidator returns a validator that reports JSON field names and
// understands the "template" tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("template", func(fl validator.FieldLevel) bool {
		return templates.IsKnown(fl.Field().String())
	})
	return v
}

func (e Env) withDefaults() Env {
	if e.Validate == nil {
		e.Validate = NewValidator()
	}
	if e.NewID == nil {
		e.NewID = uuid.NewString
	}
	return e
}

// finish maps the store's verdict to the view's result and closes the dialog
// unless the edit itself was rejected.
func (e Env) finish(result store.CommitResult, err error) error {
	switch result {
	case store.Committed, store.CommitUnchanged:
		e.Dismisser.Dismiss()
		return nil
	case store.CommitLocked:
		e.Dismisser.Dismiss()
		return ErrLocked
	case store.CommitNotLoaded:
		e.Dismisser.Dismiss()
		return ErrNotLoaded
	default:
		if err == nil {
			err = errors.New("edit rejected")
		}
		return err
	}
}

// ItemEditor creates or updates one item of a section list.
type ItemEditor[T any, PT sections.Item[T]] struct {
	intent Intent
	op     Operation
	base   T
	list   func(*types.ResumeData) *[]T
	// afterCreate runs inside the same commit as the append.
	afterCreate func(*types.ResumeData, T)
	env         Env
}

// Intent implements View.
func (e *ItemEditor[T, PT]) Intent() Intent { return e.intent }

// Initial implements View.
func (e *ItemEditor[T, PT]) Initial() any { return e.base }

// Cancel implements View.
func (e *ItemEditor[T, PT]) Cancel() { e.env.Dismisser.Dismiss() }

// Submit implements View. The form is merged over the initial values, so
// fields it omits keep them. Create assigns a fresh id; update keeps the
// id of the item being edited whatever the form says.
func (e *ItemEditor[T, PT]) Submit(form json.RawMessage) error {
	item := normalize.Item(e.base, form)
	switch e.op {
	case OpCreate:
		PT(&item).SetID(e.env.NewID())
	case OpUpdate:
		PT(&item).SetID(PT(&e.base).GetID())
	}

	if err := e.env.Validate.Struct(item); err != nil {
		return newValidationError(err)
	}

	result, err := e.env.Committer.TryUpdateData(func(d *types.ResumeData) error {
		items := e.list(d)
		if e.op == OpUpdate {
			return sections.Replace[T, PT](items, item)
		}
		if err := sections.Append[T, PT](items, item); err != nil {
			return err
		}
		if e.afterCreate != nil {
			e.afterCreate(d, item)
		}
		return nil
	})
	return e.env.finish(result, err)
}

// itemFrom converts intent data into T. Data may already be a T or *T, or
// any JSON-shaped value such as a decoded request body.
func itemFrom[T any](blank T, data any) (T, error) {
	switch v := data.(type) {
	case nil:
		return normalize.Item(blank, nil), nil
	case T:
		return normalize.Item(v, nil), nil
	case *T:
		if v == nil {
			return normalize.Item(blank, nil), nil
		}
		return normalize.Item(*v, nil), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return blank, fmt.Errorf("failed to encode intent data: %w", err)
		}
		return normalize.Item(blank, json.RawMessage(raw)), nil
	}
}

// TemplateForm is the template gallery's form.
type TemplateForm struct {
	Template string `json:"template" validate:"required,template"`
}

// TemplateEditor selects the document template.
type TemplateEditor struct {
	intent Intent
	env    Env
}

// Intent implements View.
func (e *TemplateEditor) Intent() Intent { return e.intent }

// Initial implements View.
func (e *TemplateEditor) Initial() any {
	return map[string]any{"templates": templates.All()}
}

// Cancel implements View.
func (e *TemplateEditor) Cancel() { e.env.Dismisser.Dismiss() }

// Submit implements View.
func (e *TemplateEditor) Submit(form json.RawMessage) error {
	var f TemplateForm
	if err := json.Unmarshal(form, &f); err != nil {
		return &ValidationError{Errors: []FieldError{{Field: "template", Tag: "json", Message: "must be a JSON object"}}}
	}
	if err := e.env.Validate.Struct(f); err != nil {
		return newValidationError(err)
	}
	result, err := e.env.Committer.TryUpdateData(func(d *types.ResumeData) error {
		d.Metadata.Template = f.Template
		return nil
	})
	return e.env.finish(result, err)
}
