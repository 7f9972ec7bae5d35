package models

// Identity is the stable key for an authenticated account. The rest of the
// system only cares about presence and equality, never its internals.
type Identity struct {
	Id    string `json:"id"`
	Email string `json:"email"`
}

func (i Identity) IsZero() bool {
	return i.Id == ""
}

type User struct {
	Id           string
	Email        string
	PasswordHash string
	Provider     string
	ProviderId   string
	Created      int64
}

func (u User) Identity() Identity {
	return Identity{Id: u.Id, Email: u.Email}
}

type EducationEntry struct {
	Degree      string `json:"degree"`
	School      string `json:"school"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type Skill struct {
	Name    string `json:"name"`
	Percent int    `json:"percent"`
}

type Contact struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

// PortfolioDocument is the unit of persistence: one per owner identity,
// addressable publicly through CustomSlug once published.
type PortfolioDocument struct {
	Name       string           `json:"name"`
	Title      string           `json:"title"`
	ProfilePic string           `json:"profilePic"` // data URI, empty means not set
	About      string           `json:"about"`
	Education  []EducationEntry `json:"education"`
	Work       []WorkEntry      `json:"work"`
	Skills     []Skill          `json:"skills"`
	Contact    Contact          `json:"contact"`
	CustomSlug string           `json:"customSlug,omitempty"`
	Views      int              `json:"views,omitempty"`
}

// EmptyPortfolio is the default shape handed to a fresh account: all strings
// empty, all collections empty but non-nil so JSON renders [] rather than null.
func EmptyPortfolio() PortfolioDocument {
	return PortfolioDocument{
		Education: []EducationEntry{},
		Work:      []WorkEntry{},
		Skills:    []Skill{},
	}
}

// Clone returns a deep copy. Publish mutates its copy (slug assignment)
// without leaking into references the caller still holds. Empty collections
// stay non-nil so a cloned default document still renders [] in JSON.
func (d PortfolioDocument) Clone() PortfolioDocument {
	out := d
	out.Education = append([]EducationEntry{}, d.Education...)
	out.Work = append([]WorkEntry{}, d.Work...)
	out.Skills = append([]Skill{}, d.Skills...)
	return out
}

// Normalize migrates legacy work entry shapes to the tagged variant and
// clamps skill percentages into [0,100]. Runs at load and save time so no
// render site has to branch on shape.
func (d *PortfolioDocument) Normalize() {
	if d.Education == nil {
		d.Education = []EducationEntry{}
	}
	if d.Skills == nil {
		d.Skills = []Skill{}
	}
	if d.Work == nil {
		d.Work = []WorkEntry{}
	}
	for i := range d.Work {
		d.Work[i].normalize()
	}
	for i, s := range d.Skills {
		if s.Percent < 0 {
			d.Skills[i].Percent = 0
		} else if s.Percent > 100 {
			d.Skills[i].Percent = 100
		}
	}
}

// PublishedPortfolio pairs a resolved document with the owner key that
// addresses it, so read-path callers can attribute views without a second
// lookup.
type PublishedPortfolio struct {
	OwnerId string            `json:"ownerId"`
	Doc     PortfolioDocument `json:"doc"`
}

type AccountTier struct {
	Tier string
}

const (
	TierBasic   = "BASIC"
	TierPremium = "PREMIUM"
)
