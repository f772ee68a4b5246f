// Package dialog drives the modal editors that create and update list items
// inside the document. At most one dialog is open at a time.
package dialog

import (
	"strings"

	"github.com/jonathan/resume-editor/internal/sections"
)

// IntentType identifies which editor a dialog opens.
type IntentType string

// Operation is what a section editor does with its item.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
)

// TemplateGallery opens the template picker.
const TemplateGallery IntentType = "resume.template.gallery"

const sectionPrefix = "resume.sections."

// SectionIntent builds the intent type for a section editor.
func SectionIntent(kind sections.Kind, op Operation) IntentType {
	return IntentType(sectionPrefix + string(kind) + "." + string(op))
}

// Section splits a section intent type into its kind and operation.
// ok is false for the template gallery and for types this build does not know.
func (t IntentType) Section() (kind sections.Kind, op Operation, ok bool) {
	rest, found := strings.CutPrefix(string(t), sectionPrefix)
	if !found {
		return "", "", false
	}
	i := strings.LastIndexByte(rest, '.')
	if i < 0 {
		return "", "", false
	}
	k, err := sections.ParseKind(rest[:i])
	if err != nil {
		return "", "", false
	}
	switch o := Operation(rest[i+1:]); o {
	case OpCreate, OpUpdate:
		return k, o, true
	}
	return "", "", false
}

// IntentTypes lists every intent type known to this build.
func IntentTypes() []IntentType {
	types := make([]IntentType, 0, 2*len(sections.Kinds)+1)
	for _, k := range sections.Kinds {
		types = append(types, SectionIntent(k, OpCreate), SectionIntent(k, OpUpdate))
	}
	return append(types, TemplateGallery)
}

// Intent is a request to open an editor. For update intents Data holds the
// item being edited; create intents may carry nothing.
type Intent struct {
	Type IntentType `json:"type"`
	Data any        `json:"data,omitempty"`
}
