package normalize

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-editor/internal/types"
)

type identifiable[T any] interface {
	*T
	GetID() string
	SetID(string)
}

// assignMissingIDs gives every item without an identifier, or whose
// identifier repeats an earlier one in the same list, a stable one derived
// from its list and position, so normalizing the same legacy input twice
// yields the same document.
func assignMissingIDs(data *types.ResumeData) {
	fillIDs("basics.customFields", data.Basics.CustomFields)

	s := &data.Sections
	fillIDs("sections.summary", s.Summary.Items)
	fillIDs("sections.profiles", s.Profiles.Items)
	fillIDs("sections.experience", s.Experience.Items)
	fillIDs("sections.education", s.Education.Items)
	fillIDs("sections.projects", s.Projects.Items)
	fillIDs("sections.skills", s.Skills.Items)
	fillIDs("sections.languages", s.Languages.Items)
	fillIDs("sections.interests", s.Interests.Items)
	fillIDs("sections.awards", s.Awards.Items)
	fillIDs("sections.certifications", s.Certifications.Items)
	fillIDs("sections.publications", s.Publications.Items)
	fillIDs("sections.volunteer", s.Volunteer.Items)
	fillIDs("sections.references", s.References.Items)
	fillIDs("sections.coverLetter", s.CoverLetter.Items)

	fillIDs("customSections", data.CustomSections)
	for i := range data.CustomSections {
		fillIDs("customSections."+data.CustomSections[i].ID, data.CustomSections[i].Items)
	}
}

func fillIDs[T any, PT identifiable[T]](scope string, items []T) {
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		item := PT(&items[i])
		id := item.GetID()
		if _, dup := seen[id]; dup || strings.TrimSpace(id) == "" {
			id = derivedID(scope, i)
			for n := 1; ; n++ {
				if _, taken := seen[id]; !taken {
					break
				}
				id = derivedID(scope+"#"+strconv.Itoa(n), i)
			}
			item.SetID(id)
		}
		seen[id] = struct{}{}
	}
}

func derivedID(scope string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(scope+"/"+strconv.Itoa(index))).String()
}
