package dynamo

import (
	"github.com/skumar93/folio/models"
)

type dynamoUser struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	Id           string `dynamodbav:"Id"`
	Email        string `dynamodbav:"Email"`
	PasswordHash string `dynamodbav:"PasswordHash"`
	Provider     string `dynamodbav:"Provider"`
	ProviderId   string `dynamodbav:"ProviderId"`
	Created      int64  `dynamodbav:"Created"`
}

// Map domain User -> Dynamo
func userToDynamo(u models.User) dynamoUser {
	return dynamoUser{
		PK:           "ACCOUNT#" + u.Email,
		SK:           "PROFILE",
		Id:           u.Id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Provider:     u.Provider,
		ProviderId:   u.ProviderId,
		Created:      u.Created,
	}
}

// Map Dynamo -> domain User
func userFromDynamo(du dynamoUser) models.User {
	return models.User{
		Id:           du.Id,
		Email:        du.Email,
		PasswordHash: du.PasswordHash,
		Provider:     du.Provider,
		ProviderId:   du.ProviderId,
		Created:      du.Created,
	}
}

type dynamoEducation struct {
	Degree      string `dynamodbav:"Degree"`
	School      string `dynamodbav:"School"`
	Date        string `dynamodbav:"Date"`
	Description string `dynamodbav:"Description"`
}

type dynamoWorkEntry struct {
	Kind             string `dynamodbav:"Kind"`
	Company          string `dynamodbav:"Company"`
	Role             string `dynamodbav:"Role"`
	Date             string `dynamodbav:"Date"`
	Description      string `dynamodbav:"Description"`
	Responsibilities string `dynamodbav:"Responsibilities"`
	Accomplishments  string `dynamodbav:"Accomplishments"`
}

type dynamoSkill struct {
	Name    string `dynamodbav:"Name"`
	Percent int    `dynamodbav:"Percent"`
}

type dynamoContact struct {
	Phone    string `dynamodbav:"Phone"`
	Email    string `dynamodbav:"Email"`
	LinkedIn string `dynamodbav:"LinkedIn"`
	GitHub   string `dynamodbav:"GitHub"`
}

// dynamoPortfolio is the single-table record for a portfolio document.
// CustomSlug doubles as the partition key of GSI_Slug; Dynamo omits the item
// from the index while the attribute is empty, which is exactly what we want
// for unpublished portfolios.
type dynamoPortfolio struct {
	PK         string            `dynamodbav:"PK"`
	SK         string            `dynamodbav:"SK"`
	OwnerId    string            `dynamodbav:"OwnerId"`
	Name       string            `dynamodbav:"Name"`
	Title      string            `dynamodbav:"Title"`
	ProfilePic string            `dynamodbav:"ProfilePic"`
	About      string            `dynamodbav:"About"`
	Education  []dynamoEducation `dynamodbav:"Education"`
	Work       []dynamoWorkEntry `dynamodbav:"Work"`
	Skills     []dynamoSkill     `dynamodbav:"Skills"`
	Contact    dynamoContact     `dynamodbav:"Contact"`
	CustomSlug string            `dynamodbav:"CustomSlug,omitempty"`
	Views      int               `dynamodbav:"Views"`
}

func portfolioToDynamo(ownerId string, d models.PortfolioDocument) dynamoPortfolio {
	dp := dynamoPortfolio{
		PK:         portfolioPK(ownerId),
		SK:         "DOC",
		OwnerId:    ownerId,
		Name:       d.Name,
		Title:      d.Title,
		ProfilePic: d.ProfilePic,
		About:      d.About,
		Contact: dynamoContact{
			Phone:    d.Contact.Phone,
			Email:    d.Contact.Email,
			LinkedIn: d.Contact.LinkedIn,
			GitHub:   d.Contact.GitHub,
		},
		CustomSlug: d.CustomSlug,
		Views:      d.Views,
	}
	dp.Education = make([]dynamoEducation, 0, len(d.Education))
	for _, e := range d.Education {
		dp.Education = append(dp.Education, dynamoEducation(e))
	}
	dp.Work = make([]dynamoWorkEntry, 0, len(d.Work))
	for _, w := range d.Work {
		dp.Work = append(dp.Work, dynamoWorkEntry{
			Kind:             string(w.Kind),
			Company:          w.Company,
			Role:             w.Role,
			Date:             w.Date,
			Description:      w.Description,
			Responsibilities: w.Responsibilities,
			Accomplishments:  w.Accomplishments,
		})
	}
	dp.Skills = make([]dynamoSkill, 0, len(d.Skills))
	for _, s := range d.Skills {
		dp.Skills = append(dp.Skills, dynamoSkill(s))
	}
	return dp
}

func portfolioFromDynamo(dp dynamoPortfolio) models.PortfolioDocument {
	d := models.PortfolioDocument{
		Name:       dp.Name,
		Title:      dp.Title,
		ProfilePic: dp.ProfilePic,
		About:      dp.About,
		Contact: models.Contact{
			Phone:    dp.Contact.Phone,
			Email:    dp.Contact.Email,
			LinkedIn: dp.Contact.LinkedIn,
			GitHub:   dp.Contact.GitHub,
		},
		CustomSlug: dp.CustomSlug,
		Views:      dp.Views,
	}
	d.Education = make([]models.EducationEntry, 0, len(dp.Education))
	for _, e := range dp.Education {
		d.Education = append(d.Education, models.EducationEntry(e))
	}
	d.Work = make([]models.WorkEntry, 0, len(dp.Work))
	for _, w := range dp.Work {
		d.Work = append(d.Work, models.WorkEntry{
			Kind:             models.WorkEntryKind(w.Kind),
			Company:          w.Company,
			Role:             w.Role,
			Date:             w.Date,
			Description:      w.Description,
			Responsibilities: w.Responsibilities,
			Accomplishments:  w.Accomplishments,
		})
	}
	d.Skills = make([]models.Skill, 0, len(dp.Skills))
	for _, s := range dp.Skills {
		d.Skills = append(d.Skills, models.Skill(s))
	}
	// Old records may predate the Kind tag
	d.Normalize()
	return d
}

type dynamoTier struct {
	PK   string `dynamodbav:"PK"`
	SK   string `dynamodbav:"SK"`
	Tier string `dynamodbav:"Tier"`
}

func portfolioPK(ownerId string) string {
	return "PORTFOLIO#" + ownerId
}
