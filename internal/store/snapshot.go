package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/jonathan/resume-editor/internal/types"
)

// Snapshot is an immutable copy of a document. It keeps the canonical JSON
// encoding so that structural equality is a byte comparison and every
// reader decodes its own independent copy.
//
// The zero Snapshot is the history baseline marker and holds no document.
type Snapshot struct {
	raw []byte
}

// NewSnapshot encodes data into a snapshot.
func NewSnapshot(data *types.ResumeData) (Snapshot, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return Snapshot{raw: raw}, nil
}

// Data decodes a fresh copy of the document.
func (s Snapshot) Data() types.ResumeData {
	var data types.ResumeData
	if len(s.raw) > 0 {
		// raw always comes from json.Marshal of the same type.
		_ = json.Unmarshal(s.raw, &data)
	}
	return data
}

// JSON returns a copy of the canonical encoding.
func (s Snapshot) JSON() []byte {
	return slices.Clone(s.raw)
}

// MarshalJSON implements json.Marshaler.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return slices.Clone(s.raw), nil
}

// Equal reports whether both snapshots hold structurally equal documents.
func (s Snapshot) Equal(other Snapshot) bool {
	if s.IsZero() != other.IsZero() {
		return false
	}
	return bytes.Equal(s.raw, other.raw)
}

// IsZero reports whether s is the baseline marker.
func (s Snapshot) IsZero() bool {
	return s.raw == nil
}

// Size returns the length of the canonical encoding in bytes.
func (s Snapshot) Size() int {
	return len(s.raw)
}
