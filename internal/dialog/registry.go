package dialog

import (
	"slices"

	"github.com/jonathan/resume-editor/internal/sections"
	"github.com/jonathan/resume-editor/internal/types"
)

// Factory builds the view for an intent. It returns nil when the intent
// cannot be rendered, for example an update intent without an item.
type Factory func(intent Intent, env Env) View

// Registry maps intent types to views.
type Registry struct {
	factories map[IntentType]Factory
}

// NewRegistry returns a registry with a view for every type in IntentTypes.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[IntentType]Factory)}

	registerSection(r, sections.KindProfiles, func(d *types.ResumeData) *[]types.Profile { return &d.Sections.Profiles.Items }, nil)
	registerSection(r, sections.KindExperience, func(d *types.ResumeData) *[]types.Experience { return &d.Sections.Experience.Items }, nil)
	registerSection(r, sections.KindEducation, func(d *types.ResumeData) *[]types.Education { return &d.Sections.Education.Items }, nil)
	registerSection(r, sections.KindSkills, func(d *types.ResumeData) *[]types.Skill { return &d.Sections.Skills.Items }, nil)
	registerSection(r, sections.KindProjects, func(d *types.ResumeData) *[]types.Project { return &d.Sections.Projects.Items }, nil)
	registerSection(r, sections.KindCertifications, func(d *types.ResumeData) *[]types.Certification { return &d.Sections.Certifications.Items }, nil)
	registerSection(r, sections.KindLanguages, func(d *types.ResumeData) *[]types.Language { return &d.Sections.Languages.Items }, nil)
	registerSection(r, sections.KindPublications, func(d *types.ResumeData) *[]types.Publication { return &d.Sections.Publications.Items }, nil)
	registerSection(r, sections.KindAwards, func(d *types.ResumeData) *[]types.Award { return &d.Sections.Awards.Items }, nil)
	registerSection(r, sections.KindInterests, func(d *types.ResumeData) *[]types.Interest { return &d.Sections.Interests.Items }, nil)
	registerSection(r, sections.KindVolunteer, func(d *types.ResumeData) *[]types.Volunteer { return &d.Sections.Volunteer.Items }, nil)
	registerSection(r, sections.KindReferences, func(d *types.ResumeData) *[]types.Reference { return &d.Sections.References.Items }, nil)
	registerSection(r, sections.KindSummary, func(d *types.ResumeData) *[]types.SummaryItem { return &d.Sections.Summary.Items }, nil)
	registerSection(r, sections.KindCoverLetter, func(d *types.ResumeData) *[]types.CoverLetterItem { return &d.Sections.CoverLetter.Items }, nil)
	registerSection(r, sections.KindCustom,
		func(d *types.ResumeData) *[]types.CustomSection { return &d.CustomSections },
		func(d *types.ResumeData, cs types.CustomSection) { sections.AddToLayout(&d.Metadata.Layout, cs.ID) },
	)

	r.Register(TemplateGallery, func(intent Intent, env Env) View {
		return &TemplateEditor{intent: intent, env: env}
	})

	return r
}

// Register maps t to f, replacing any previous mapping.
func (r *Registry) Register(t IntentType, f Factory) {
	r.factories[t] = f
}

// Render returns the view for intent, or nil when its type is not mapped.
func (r *Registry) Render(intent Intent, env Env) View {
	f, ok := r.factories[intent.Type]
	if !ok {
		return nil
	}
	return f(intent, env.withDefaults())
}

// Types returns the mapped intent types in sorted order.
func (r *Registry) Types() []IntentType {
	out := make([]IntentType, 0, len(r.factories))
	for t := range r.factories {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

func registerSection[T any, PT sections.Item[T]](
	r *Registry,
	kind sections.Kind,
	list func(*types.ResumeData) *[]T,
	afterCreate func(*types.ResumeData, T),
) {
	blank := blankItem[T]()

	r.Register(SectionIntent(kind, OpCreate), func(intent Intent, env Env) View {
		base, err := itemFrom(blank, intent.Data)
		if err != nil {
			return nil
		}
		return &ItemEditor[T, PT]{intent: intent, op: OpCreate, base: base, list: list, afterCreate: afterCreate, env: env}
	})

	r.Register(SectionIntent(kind, OpUpdate), func(intent Intent, env Env) View {
		if intent.Data == nil {
			return nil
		}
		base, err := itemFrom(blank, intent.Data)
		if err != nil || PT(&base).GetID() == "" {
			return nil
		}
		return &ItemEditor[T, PT]{intent: intent, op: OpUpdate, base: base, list: list, env: env}
	})
}

// blankItem returns the starting values for a new item of type T.
func blankItem[T any]() T {
	var blank T
	if cs, ok := any(&blank).(*types.CustomSection); ok {
		cs.Columns = 1
		cs.Type = "experience"
	}
	return blank
}
