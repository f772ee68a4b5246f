// Package types provides type definitions for structured data used throughout the resume editor.
package types

// ResumeData is the canonical résumé document held by the editor.
// Field order is significant: snapshots are compared by their JSON encoding,
// so the types in this file must not introduce maps.
type ResumeData struct {
	Picture        Picture         `json:"picture"`
	Basics         Basics          `json:"basics"`
	Sections       Sections        `json:"sections"`
	CustomSections []CustomSection `json:"customSections"`
	Metadata       Metadata        `json:"metadata"`
}

// URL is a link with an optional display label.
type URL struct {
	URL   string `json:"url" validate:"omitempty,url"`
	Label string `json:"label"`
}

// Picture describes the profile picture and its framing.
type Picture struct {
	Hidden       bool    `json:"hidden"`
	URL          string  `json:"url"`
	Size         int     `json:"size"`
	Rotation     int     `json:"rotation"`
	AspectRatio  float64 `json:"aspectRatio"`
	BorderRadius int     `json:"borderRadius"`
	BorderColor  string  `json:"borderColor"`
	BorderWidth  int     `json:"borderWidth"`
	ShadowColor  string  `json:"shadowColor"`
	ShadowWidth  int     `json:"shadowWidth"`
}

// CustomField is an additional contact line shown under the basics.
type CustomField struct {
	ID   string `json:"id"`
	Icon string `json:"icon"`
	Text string `json:"text"`
	Link string `json:"link"`
}

// GetID returns the durable identifier of the field.
func (f CustomField) GetID() string { return f.ID }

// SetID assigns the durable identifier of the field.
func (f *CustomField) SetID(id string) { f.ID = id }

// Basics holds the scalar header fields of the résumé.
type Basics struct {
	Name         string        `json:"name"`
	Headline     string        `json:"headline"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Location     string        `json:"location"`
	Website      URL           `json:"website"`
	CustomFields []CustomField `json:"customFields"`
}

// Section is an ordered list of typed items plus its presentation settings.
type Section[T any] struct {
	Title   string `json:"title"`
	Columns int    `json:"columns"`
	Hidden  bool   `json:"hidden"`
	Items   []T    `json:"items"`
}

// Sections holds every built-in section of the document.
type Sections struct {
	Summary        Section[SummaryItem]     `json:"summary"`
	Profiles       Section[Profile]         `json:"profiles"`
	Experience     Section[Experience]      `json:"experience"`
	Education      Section[Education]       `json:"education"`
	Projects       Section[Project]         `json:"projects"`
	Skills         Section[Skill]           `json:"skills"`
	Languages      Section[Language]        `json:"languages"`
	Interests      Section[Interest]        `json:"interests"`
	Awards         Section[Award]           `json:"awards"`
	Certifications Section[Certification]   `json:"certifications"`
	Publications   Section[Publication]     `json:"publications"`
	Volunteer      Section[Volunteer]       `json:"volunteer"`
	References     Section[Reference]       `json:"references"`
	CoverLetter    Section[CoverLetterItem] `json:"coverLetter"`
}

// CustomSection is a user-defined section. Type names the built-in item
// kind whose layout the section borrows.
type CustomSection struct {
	ID      string       `json:"id" validate:"required"`
	Title   string       `json:"title" validate:"required"`
	Type    string       `json:"type"`
	Columns int          `json:"columns" validate:"gte=1,lte=6"`
	Hidden  bool         `json:"hidden"`
	Items   []CustomItem `json:"items"`
}

// GetID returns the durable identifier of the custom section.
func (c CustomSection) GetID() string { return c.ID }

// SetID assigns the durable identifier of the custom section.
func (c *CustomSection) SetID(id string) { c.ID = id }

// CustomItem is a free-form entry inside a custom section.
type CustomItem struct {
	ItemBase
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Website     URL    `json:"website"`
	Description string `json:"description"`
}

// LayoutPage lists the section identifiers rendered on one page.
type LayoutPage struct {
	FullWidth bool     `json:"fullWidth"`
	Main      []string `json:"main"`
	Sidebar   []string `json:"sidebar"`
}

// Layout controls how sections are distributed across pages.
type Layout struct {
	SidebarWidth int          `json:"sidebarWidth"`
	Pages        []LayoutPage `json:"pages"`
}

// CSS holds user supplied stylesheet overrides.
type CSS struct {
	Enabled bool   `json:"enabled"`
	Value   string `json:"value"`
}

// Page holds page geometry settings.
type Page struct {
	GapX      int    `json:"gapX"`
	GapY      int    `json:"gapY"`
	MarginX   int    `json:"marginX"`
	MarginY   int    `json:"marginY"`
	Format    string `json:"format"`
	Locale    string `json:"locale"`
	HideIcons bool   `json:"hideIcons"`
}

// Colors is the document color palette.
type Colors struct {
	Primary    string `json:"primary"`
	Text       string `json:"text"`
	Background string `json:"background"`
}

// Level controls how skill and language levels are drawn.
type Level struct {
	Icon string `json:"icon"`
	Type string `json:"type"`
}

// Design groups the visual design settings.
type Design struct {
	Colors Colors `json:"colors"`
	Level  Level  `json:"level"`
}

// Font describes a font family and its metrics.
type Font struct {
	FontFamily  string   `json:"fontFamily"`
	FontWeights []string `json:"fontWeights"`
	FontSize    float64  `json:"fontSize"`
	LineHeight  float64  `json:"lineHeight"`
}

// Typography holds the body and heading fonts.
type Typography struct {
	Body    Font `json:"body"`
	Heading Font `json:"heading"`
}

// Metadata holds template, layout and design settings.
type Metadata struct {
	Template   string     `json:"template"`
	Layout     Layout     `json:"layout"`
	CSS        CSS        `json:"css"`
	Page       Page       `json:"page"`
	Design     Design     `json:"design"`
	Typography Typography `json:"typography"`
	Notes      string     `json:"notes"`
}
