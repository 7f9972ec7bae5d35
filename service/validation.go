package service

import (
	"strings"

	"github.com/skumar93/folio/models"
)

// User-facing labels reported for missing required fields.
const (
	LabelName       = "Name"
	LabelTitle      = "Professional Title"
	LabelAbout      = "About"
	LabelEmail      = "Email"
	LabelPhone      = "Phone"
	LabelProfilePic = "Profile picture"
	LabelEducation  = "Education (at least one)"
	LabelWork       = "Work (at least one)"
	LabelSkills     = "Skills (at least one)"
)

type ValidationResult struct {
	Missing []string `json:"missing"`
	Ready   bool     `json:"ready"`
}

// ValidatePortfolio decides whether a portfolio can be previewed or
// published. Pure: no caching, recomputed on every call. Collection entries
// only need to exist; their content is not inspected.
func ValidatePortfolio(doc models.PortfolioDocument) ValidationResult {
	var missing []string

	if strings.TrimSpace(doc.Name) == "" {
		missing = append(missing, LabelName)
	}
	if strings.TrimSpace(doc.Title) == "" {
		missing = append(missing, LabelTitle)
	}
	if strings.TrimSpace(doc.About) == "" {
		missing = append(missing, LabelAbout)
	}
	if doc.ProfilePic == "" {
		missing = append(missing, LabelProfilePic)
	}
	if strings.TrimSpace(doc.Contact.Email) == "" {
		missing = append(missing, LabelEmail)
	}
	if strings.TrimSpace(doc.Contact.Phone) == "" {
		missing = append(missing, LabelPhone)
	}
	if len(doc.Education) == 0 {
		missing = append(missing, LabelEducation)
	}
	if len(doc.Work) == 0 {
		missing = append(missing, LabelWork)
	}
	if len(doc.Skills) == 0 {
		missing = append(missing, LabelSkills)
	}

	return ValidationResult{Missing: missing, Ready: len(missing) == 0}
}
