package types

// ItemBase carries the fields shared by every section item. ID is durable
// and independent of the item's position in its section.
type ItemBase struct {
	ID     string `json:"id" validate:"required"`
	Hidden bool   `json:"hidden"`
}

// GetID returns the durable identifier of the item.
func (b ItemBase) GetID() string { return b.ID }

// SetID assigns the durable identifier of the item.
func (b *ItemBase) SetID(id string) { b.ID = id }

// Profile is an online profile such as a social network account.
type Profile struct {
	ItemBase
	Icon     string `json:"icon"`
	Network  string `json:"network" validate:"required"`
	Username string `json:"username"`
	Website  URL    `json:"website"`
}

// Experience is a position held at a company.
type Experience struct {
	ItemBase
	Company     string `json:"company" validate:"required"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	Period      string `json:"period"`
	Website     URL    `json:"website"`
	Description string `json:"description"`
}

// Education is a course of study at a school.
type Education struct {
	ItemBase
	School      string `json:"school" validate:"required"`
	Degree      string `json:"degree"`
	Area        string `json:"area"`
	Grade       string `json:"grade"`
	Location    string `json:"location"`
	Period      string `json:"period"`
	Website     URL    `json:"website"`
	Description string `json:"description"`
}

// Project is a personal or professional project.
type Project struct {
	ItemBase
	Name        string `json:"name" validate:"required"`
	Period      string `json:"period"`
	Website     URL    `json:"website"`
	Description string `json:"description"`
}

// Skill is a named skill with an optional level from 0 to 5.
type Skill struct {
	ItemBase
	Icon        string   `json:"icon"`
	Name        string   `json:"name" validate:"required"`
	Proficiency string   `json:"proficiency"`
	Level       int      `json:"level" validate:"gte=0,lte=5"`
	Keywords    []string `json:"keywords"`
}

// Language is a spoken language with an optional level from 0 to 5.
type Language struct {
	ItemBase
	Language string `json:"language" validate:"required"`
	Fluency  string `json:"fluency"`
	Level    int    `json:"level" validate:"gte=0,lte=5"`
}

// Interest is a hobby or topic of interest.
type Interest struct {
	ItemBase
	Icon     string   `json:"icon"`
	Name     string   `json:"name" validate:"required"`
	Keywords []string `json:"keywords"`
}

// Award is an award or honor received.
type Award struct {
	ItemBase
	Title       string `json:"title" validate:"required"`
	Awarder     string `json:"awarder"`
	Date        string `json:"date"`
	Website     URL    `json:"website"`
	Description string `json:"description"`
}

// Certification is a certificate issued by an organization.
type Certification struct {
	ItemBase
	Title       string `json:"title" validate:"required"`
	Issuer      string `json:"issuer"`
	Date        string `json:"date"`
	Website     URL    `json:"website"`
	Description string `json:"description"`
}

// Publication is a published work.
type Publication struct {
	ItemBase
	Title       string `json:"title" validate:"required"`
	Publisher   string `json:"publisher"`
	Date        string `json:"date"`
	Website     URL    `json:"website"`
	Description string `json:"description"`
}

// Volunteer is volunteering work for an organization.
type Volunteer struct {
	ItemBase
	Organization string `json:"organization" validate:"required"`
	Location     string `json:"location"`
	Period       string `json:"period"`
	Website      URL    `json:"website"`
	Description  string `json:"description"`
}

// Reference is a person who can vouch for the candidate.
type Reference struct {
	ItemBase
	Name        string `json:"name" validate:"required"`
	Position    string `json:"position"`
	Website     URL    `json:"website"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}

// SummaryItem is one block of rich text in the summary section.
type SummaryItem struct {
	ItemBase
	Content string `json:"content" validate:"required"`
}

// CoverLetterItem is one letter addressed to a recipient.
type CoverLetterItem struct {
	ItemBase
	Recipient string `json:"recipient"`
	Content   string `json:"content" validate:"required"`
}
