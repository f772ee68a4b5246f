package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-editor/internal/types"
)

// PathError is returned when a SetPath mutation cannot be applied.
type PathError struct {
	Path    string
	Message string
	Cause   error
}

func (e *PathError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("path %q: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("path %q: %s", e.Path, e.Message)
}

func (e *PathError) Unwrap() error {
	return e.Cause
}

// SetPath returns a mutator that replaces the value at a dotted path such as
// "basics.name" or "sections.skills.items.0.level". Object keys must already
// exist in the document and array indices must be in range. The draft is
// left untouched when the value does not fit the document shape.
func SetPath(path string, value json.RawMessage) func(*types.ResumeData) error {
	return func(draft *types.ResumeData) error {
		segments := strings.Split(path, ".")
		if path == "" || len(segments) == 0 {
			return &PathError{Path: path, Message: "path is empty"}
		}

		var parsed any
		if err := json.Unmarshal(value, &parsed); err != nil {
			return &PathError{Path: path, Message: "value is not valid JSON", Cause: err}
		}

		raw, err := json.Marshal(draft)
		if err != nil {
			return &PathError{Path: path, Message: "failed to encode document", Cause: err}
		}
		var tree any
		if err := json.Unmarshal(raw, &tree); err != nil {
			return &PathError{Path: path, Message: "failed to decode document", Cause: err}
		}

		if err := setIn(tree, segments, parsed); err != nil {
			return &PathError{Path: path, Message: err.Error()}
		}

		raw, err = json.Marshal(tree)
		if err != nil {
			return &PathError{Path: path, Message: "failed to encode document", Cause: err}
		}
		var next types.ResumeData
		if err := json.Unmarshal(raw, &next); err != nil {
			return &PathError{Path: path, Message: "value does not match the document shape", Cause: err}
		}
		*draft = next
		return nil
	}
}

func setIn(node any, segments []string, value any) error {
	seg := segments[0]
	last := len(segments) == 1

	switch n := node.(type) {
	case map[string]any:
		child, ok := n[seg]
		if !ok {
			return fmt.Errorf("unknown field %q", seg)
		}
		if last {
			n[seg] = value
			return nil
		}
		return setIn(child, segments[1:], value)
	case []any:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(n) {
			return fmt.Errorf("index %q out of range", seg)
		}
		if last {
			n[i] = value
			return nil
		}
		return setIn(n[i], segments[1:], value)
	default:
		return fmt.Errorf("cannot descend into %q", seg)
	}
}
