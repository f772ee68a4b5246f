package sections

import (
	"fmt"
	"slices"

	"github.com/jonathan/resume-editor/internal/types"
)

// Kind names a list of the document that dialogs and list rows operate on.
type Kind string

const (
	KindProfiles       Kind = "profiles"
	KindExperience     Kind = "experience"
	KindEducation      Kind = "education"
	KindSkills         Kind = "skills"
	KindProjects       Kind = "projects"
	KindCertifications Kind = "certifications"
	KindLanguages      Kind = "languages"
	KindPublications   Kind = "publications"
	KindAwards         Kind = "awards"
	KindInterests      Kind = "interests"
	KindVolunteer      Kind = "volunteer"
	KindReferences     Kind = "references"
	KindSummary        Kind = "summary"
	KindCoverLetter    Kind = "cover-letter"
	// KindCustom addresses the custom sections themselves.
	KindCustom Kind = "custom"
)

// Kinds lists every kind in the order they are offered to the user.
var Kinds = []Kind{
	KindProfiles, KindExperience, KindEducation, KindSkills, KindProjects,
	KindCertifications, KindLanguages, KindPublications, KindAwards,
	KindInterests, KindVolunteer, KindReferences, KindSummary,
	KindCoverLetter, KindCustom,
}

// ParseKind validates s as a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !slices.Contains(Kinds, k) {
		return "", fmt.Errorf("unknown section kind %q", s)
	}
	return k, nil
}

// LayoutID is the identifier the page layout uses for the kind's section.
func (k Kind) LayoutID() string {
	if k == KindCoverLetter {
		return "coverLetter"
	}
	return string(k)
}

// list is a kind-erased view of one typed item list.
type list interface {
	move(id string, to int) error
	remove(id string) error
	ids() []string
}

type typedList[T any, PT Item[T]] struct {
	items *[]T
}

func (l typedList[T, PT]) move(id string, to int) error { return Move[T, PT](l.items, id, to) }
func (l typedList[T, PT]) remove(id string) error        { return Remove[T, PT](l.items, id) }
func (l typedList[T, PT]) ids() []string                 { return IDs[T, PT](*l.items) }

func of[T any, PT Item[T]](items *[]T) list {
	return typedList[T, PT]{items: items}
}

func listFor(data *types.ResumeData, kind Kind) (list, error) {
	s := &data.Sections
	switch kind {
	case KindProfiles:
		return of[types.Profile](&s.Profiles.Items), nil
	case KindExperience:
		return of[types.Experience](&s.Experience.Items), nil
	case KindEducation:
		return of[types.Education](&s.Education.Items), nil
	case KindSkills:
		return of[types.Skill](&s.Skills.Items), nil
	case KindProjects:
		return of[types.Project](&s.Projects.Items), nil
	case KindCertifications:
		return of[types.Certification](&s.Certifications.Items), nil
	case KindLanguages:
		return of[types.Language](&s.Languages.Items), nil
	case KindPublications:
		return of[types.Publication](&s.Publications.Items), nil
	case KindAwards:
		return of[types.Award](&s.Awards.Items), nil
	case KindInterests:
		return of[types.Interest](&s.Interests.Items), nil
	case KindVolunteer:
		return of[types.Volunteer](&s.Volunteer.Items), nil
	case KindReferences:
		return of[types.Reference](&s.References.Items), nil
	case KindSummary:
		return of[types.SummaryItem](&s.Summary.Items), nil
	case KindCoverLetter:
		return of[types.CoverLetterItem](&s.CoverLetter.Items), nil
	case KindCustom:
		return of[types.CustomSection](&data.CustomSections), nil
	default:
		return nil, fmt.Errorf("unknown section kind %q", kind)
	}
}

// MoveItem reorders the item with the given id inside the kind's list.
func MoveItem(data *types.ResumeData, kind Kind, id string, to int) error {
	l, err := listFor(data, kind)
	if err != nil {
		return err
	}
	return l.move(id, to)
}

// RemoveItem deletes the item with the given id from the kind's list.
// Removing a custom section also drops it from the page layout.
func RemoveItem(data *types.ResumeData, kind Kind, id string) error {
	l, err := listFor(data, kind)
	if err != nil {
		return err
	}
	if err := l.remove(id); err != nil {
		return err
	}
	if kind == KindCustom {
		RemoveFromLayout(&data.Metadata.Layout, id)
	}
	return nil
}

// ItemIDs returns the identifiers of the kind's list in order.
func ItemIDs(data *types.ResumeData, kind Kind) ([]string, error) {
	l, err := listFor(data, kind)
	if err != nil {
		return nil, err
	}
	return l.ids(), nil
}

// AddToLayout appends id to the main column of the first page, creating
// the page when the layout has none. Ids already placed are left alone.
func AddToLayout(layout *types.Layout, id string) {
	for _, p := range layout.Pages {
		if slices.Contains(p.Main, id) || slices.Contains(p.Sidebar, id) {
			return
		}
	}
	if len(layout.Pages) == 0 {
		layout.Pages = append(layout.Pages, types.LayoutPage{Main: []string{}, Sidebar: []string{}})
	}
	layout.Pages[0].Main = append(layout.Pages[0].Main, id)
}

// RemoveFromLayout drops id from every page column.
func RemoveFromLayout(layout *types.Layout, id string) {
	drop := func(s string) bool { return s == id }
	for i := range layout.Pages {
		layout.Pages[i].Main = slices.DeleteFunc(layout.Pages[i].Main, drop)
		layout.Pages[i].Sidebar = slices.DeleteFunc(layout.Pages[i].Sidebar, drop)
	}
}
