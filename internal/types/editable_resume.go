package types

import "strings"

// UntitledResumeName is shown when the document has no candidate name.
const UntitledResumeName = "Untitled Resume"

// LocalResumeID identifies a resume that has no backing record on the host.
const LocalResumeID = "local"

// EditableResume wraps the document with the host supplied attributes the
// editor needs. IsLocked is set by the host only; while it is true the
// store refuses every mutation.
type EditableResume struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Slug     string     `json:"slug"`
	Tags     []string   `json:"tags"`
	IsLocked bool       `json:"isLocked"`
	Data     ResumeData `json:"data"`
}

// DeriveName returns the display name for a document: the trimmed basics
// name, or UntitledResumeName when that is empty.
func DeriveName(data *ResumeData) string {
	if data == nil {
		return UntitledResumeName
	}
	if name := strings.TrimSpace(data.Basics.Name); name != "" {
		return name
	}
	return UntitledResumeName
}

// NewEditableResume wraps data in an unlocked local resume with a derived name.
func NewEditableResume(data ResumeData) *EditableResume {
	return &EditableResume{
		ID:   LocalResumeID,
		Name: DeriveName(&data),
		Tags: []string{},
		Data: data,
	}
}
