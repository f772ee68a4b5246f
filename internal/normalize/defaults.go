package normalize

import (
	"github.com/jonathan/resume-editor/internal/templates"
	"github.com/jonathan/resume-editor/internal/types"
)

// DefaultResumeData returns the canonical empty document. Every call returns
// a fresh value; callers may mutate it freely.
func DefaultResumeData() types.ResumeData {
	return types.ResumeData{
		Picture: types.Picture{
			Size:        80,
			AspectRatio: 1,
			BorderColor: "rgba(0, 0, 0, 0.5)",
			ShadowColor: "rgba(0, 0, 0, 0.5)",
		},
		Basics: types.Basics{
			CustomFields: []types.CustomField{},
		},
		Sections: types.Sections{
			Summary:        section[types.SummaryItem]("Summary"),
			Profiles:       section[types.Profile]("Profiles"),
			Experience:     section[types.Experience]("Experience"),
			Education:      section[types.Education]("Education"),
			Projects:       section[types.Project]("Projects"),
			Skills:         section[types.Skill]("Skills"),
			Languages:      section[types.Language]("Languages"),
			Interests:      section[types.Interest]("Interests"),
			Awards:         section[types.Award]("Awards"),
			Certifications: section[types.Certification]("Certifications"),
			Publications:   section[types.Publication]("Publications"),
			Volunteer:      section[types.Volunteer]("Volunteer"),
			References:     section[types.Reference]("References"),
			CoverLetter:    section[types.CoverLetterItem]("Cover Letter"),
		},
		CustomSections: []types.CustomSection{},
		Metadata: types.Metadata{
			Template: templates.Default,
			Layout: types.Layout{
				SidebarWidth: 35,
				Pages: []types.LayoutPage{
					{
						Main:    []string{"profiles", "summary", "education", "experience", "projects", "volunteer", "references"},
						Sidebar: []string{"skills", "certifications", "awards", "languages", "interests", "publications"},
					},
				},
			},
			Page: types.Page{
				GapX:    4,
				GapY:    6,
				MarginX: 14,
				MarginY: 12,
				Format:  "a4",
				Locale:  "en-US",
			},
			Design: types.Design{
				Colors: types.Colors{
					Primary:    "rgba(220, 38, 38, 1)",
					Text:       "rgba(0, 0, 0, 1)",
					Background: "rgba(255, 255, 255, 1)",
				},
				Level: types.Level{Icon: "star", Type: "circle"},
			},
			Typography: types.Typography{
				Body:    types.Font{FontFamily: "IBM Plex Serif", FontWeights: []string{"400", "500"}, FontSize: 10, LineHeight: 1.5},
				Heading: types.Font{FontFamily: "IBM Plex Serif", FontWeights: []string{"600"}, FontSize: 14, LineHeight: 1.5},
			},
		},
	}
}

func section[T any](title string) types.Section[T] {
	return types.Section[T]{Title: title, Columns: 1, Items: []T{}}
}
