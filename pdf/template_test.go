package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skumar93/folio/models"
)

func sampleDoc() models.PortfolioDocument {
	return models.PortfolioDocument{
		Name:       "Jane Doe",
		Title:      "Software Engineer",
		ProfilePic: "data:image/png;base64,abc",
		About:      "I build things.",
		Education:  []models.EducationEntry{{Degree: "BSc", School: "State University", Date: "2018"}},
		Work: []models.WorkEntry{
			{Kind: models.WorkDescription, Company: "Acme", Role: "Engineer", Date: "2020-2023", Description: "Built the billing system"},
			{Kind: models.WorkDetailed, Company: "Globex", Role: "Senior Engineer", Responsibilities: "Owned payments", Accomplishments: "Cut costs 40%"},
		},
		Skills:  []models.Skill{{Name: "Go", Percent: 90}},
		Contact: models.Contact{Phone: "555-0100", Email: "jane@example.com", GitHub: "github.com/janedoe"},
	}
}

func TestRenderHTML_ContainsPortfolioFields(t *testing.T) {
	html, err := RenderHTML(sampleDoc(), false)
	assert.NoError(t, err)

	assert.Contains(t, html, "Jane Doe")
	assert.Contains(t, html, "Software Engineer")
	assert.Contains(t, html, "jane@example.com")
	assert.Contains(t, html, "State University")
	assert.Contains(t, html, "Built the billing system")
	assert.Contains(t, html, "Go")
}

func TestRenderHTML_WorkEntryKinds(t *testing.T) {
	html, err := RenderHTML(sampleDoc(), false)
	assert.NoError(t, err)

	// Detailed entries render the split sections, flat ones do not
	assert.Contains(t, html, "Owned payments")
	assert.Contains(t, html, "Cut costs 40%")
	assert.Contains(t, html, "Responsibilities")
}

func TestRenderHTML_Watermark(t *testing.T) {
	clean, err := RenderHTML(sampleDoc(), false)
	assert.NoError(t, err)
	assert.NotContains(t, clean, "background-image")

	marked, err := RenderHTML(sampleDoc(), true)
	assert.NoError(t, err)
	assert.Contains(t, marked, "background-image")
	assert.Contains(t, marked, "data:image/svg+xml;base64,")
}

func TestRenderHTML_EscapesUserContent(t *testing.T) {
	doc := sampleDoc()
	doc.Name = `<script>alert("x")</script>`

	html, err := RenderHTML(doc, false)
	assert.NoError(t, err)
	assert.NotContains(t, html, `<script>alert`)
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Jane Doe", "Jane_Doe_Resume.pdf"},
		{"Jane", "Jane_Resume.pdf"},
		{"  Jane   Q   Doe  ", "Jane_Q_Doe_Resume.pdf"},
		{"", "Resume.pdf"},
		{"   ", "Resume.pdf"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, FileName(tc.name), "name: %q", tc.name)
	}
}
