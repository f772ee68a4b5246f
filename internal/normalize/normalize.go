// Package normalize turns partial, legacy or untyped documents into
// documents that conform to the current résumé schema.
package normalize

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/jonathan/resume-editor/internal/templates"
	"github.com/jonathan/resume-editor/internal/types"
)

// Normalize merges candidate over DefaultResumeData and returns a document
// that is fully populated and shares no memory with candidate.
//
// candidate may be nil, a decoded JSON tree, raw JSON bytes, a
// types.ResumeData (or pointer to one), or any value that encodes to JSON.
// Normalize never fails: whatever cannot be interpreted falls back to the
// default, and an unknown metadata.template is replaced by templates.Default.
func Normalize(candidate any) types.ResumeData {
	result := DefaultResumeData()
	mergeInto(reflect.ValueOf(&result).Elem(), toTree(candidate))

	result.Metadata.Template = templates.Resolve(result.Metadata.Template)
	assignMissingIDs(&result)

	return result
}

// Item merges candidate over base with the same rules as Normalize and
// returns a value independent of both. Slices left nil by base become empty.
// It is used for single list items submitted from editor forms.
func Item[T any](base T, candidate any) T {
	var out T
	if raw, err := json.Marshal(base); err == nil {
		_ = json.Unmarshal(raw, &out)
	}
	v := reflect.ValueOf(&out).Elem()
	emptySlices(v)
	mergeInto(v, toTree(candidate))
	return out
}

// ParseCandidate decodes raw host input into a tree suitable for Normalize.
// Invalid JSON is reported so the caller can ignore the input.
func ParseCandidate(raw []byte) (any, error) {
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, &ParseError{Message: "candidate is not valid JSON", Cause: err}
	}
	return tree, nil
}

// ParseError reports host input that is not valid JSON.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// toTree converts candidate into the generic form produced by encoding/json.
// Values that cannot be converted become nil, which Normalize treats as absent.
func toTree(candidate any) any {
	switch c := candidate.(type) {
	case nil:
		return nil
	case json.RawMessage:
		return decodeTree(c)
	case []byte:
		return decodeTree(c)
	case string:
		return nil
	}

	raw, err := json.Marshal(candidate)
	if err != nil {
		return nil
	}
	return decodeTree(raw)
}

func decodeTree(raw []byte) any {
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil
	}
	return tree
}
