package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkEntryUnmarshal_LegacyString(t *testing.T) {
	var entry WorkEntry
	err := json.Unmarshal([]byte(`"Built the billing system at Acme"`), &entry)
	assert.NoError(t, err)
	assert.Equal(t, WorkDescription, entry.Kind)
	assert.Equal(t, "Built the billing system at Acme", entry.Description)
	assert.Empty(t, entry.Company)
}

func TestWorkEntryUnmarshal_TaggedObject(t *testing.T) {
	data := `{"kind":"detailed","company":"Acme","role":"Engineer","date":"2020-2023","responsibilities":"Owned billing","accomplishments":"Cut costs 40%"}`

	var entry WorkEntry
	err := json.Unmarshal([]byte(data), &entry)
	assert.NoError(t, err)
	assert.Equal(t, WorkDetailed, entry.Kind)
	assert.Equal(t, "Acme", entry.Company)
	assert.Equal(t, "Owned billing", entry.Responsibilities)
	assert.Equal(t, "Cut costs 40%", entry.Accomplishments)
}

func TestWorkEntryUnmarshal_UntaggedObject(t *testing.T) {
	tests := []struct {
		name string
		data string
		want WorkEntryKind
	}{
		{"Description Only", `{"company":"Acme","description":"Built things"}`, WorkDescription},
		{"Responsibilities Only", `{"company":"Acme","responsibilities":"Owned billing"}`, WorkDetailed},
		{"Accomplishments Only", `{"company":"Acme","accomplishments":"Shipped v2"}`, WorkDetailed},
		{"Nothing", `{"company":"Acme"}`, WorkDescription},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var entry WorkEntry
			err := json.Unmarshal([]byte(tc.data), &entry)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, entry.Kind)
		})
	}
}

func TestWorkEntryUnmarshal_MixedDocument(t *testing.T) {
	// A legacy document can hold string and object entries side by side
	data := `["Freelance consulting",{"kind":"description","company":"Acme","description":"Built things"}]`

	var entries []WorkEntry
	err := json.Unmarshal([]byte(data), &entries)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, WorkDescription, entries[0].Kind)
	assert.Equal(t, "Freelance consulting", entries[0].Description)
	assert.Equal(t, "Acme", entries[1].Company)
}

func TestNormalize_ClampsSkillPercent(t *testing.T) {
	doc := PortfolioDocument{
		Skills: []Skill{
			{Name: "Go", Percent: 150},
			{Name: "Rust", Percent: -5},
			{Name: "SQL", Percent: 70},
		},
	}
	doc.Normalize()

	assert.Equal(t, 100, doc.Skills[0].Percent)
	assert.Equal(t, 0, doc.Skills[1].Percent)
	assert.Equal(t, 70, doc.Skills[2].Percent)
}

func TestNormalize_NilCollections(t *testing.T) {
	var doc PortfolioDocument
	doc.Normalize()

	assert.NotNil(t, doc.Education)
	assert.NotNil(t, doc.Work)
	assert.NotNil(t, doc.Skills)

	// JSON renders [] rather than null
	data, err := json.Marshal(doc)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"education":[]`)
}

func TestClone_Independent(t *testing.T) {
	doc := PortfolioDocument{
		Name:   "Jane Doe",
		Skills: []Skill{{Name: "Go", Percent: 90}},
	}

	clone := doc.Clone()
	clone.Skills[0].Percent = 10
	clone.Name = "Someone Else"

	assert.Equal(t, 90, doc.Skills[0].Percent)
	assert.Equal(t, "Jane Doe", doc.Name)
}

func TestClone_PreservesEmptyCollections(t *testing.T) {
	clone := EmptyPortfolio().Clone()

	assert.NotNil(t, clone.Education)
	assert.NotNil(t, clone.Work)
	assert.NotNil(t, clone.Skills)

	data, err := json.Marshal(clone)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"education":[]`)
	assert.Contains(t, string(data), `"work":[]`)
	assert.Contains(t, string(data), `"skills":[]`)
}

func TestIdentity_IsZero(t *testing.T) {
	assert.True(t, Identity{}.IsZero())
	assert.True(t, Identity{Email: "jane@example.com"}.IsZero())
	assert.False(t, Identity{Id: "user1"}.IsZero())
}
