package models

import (
	"bytes"
	"encoding/json"
)

type WorkEntryKind string

const (
	// WorkDescription is a flat entry: company/role/date plus one free-text
	// description. Legacy raw-string entries migrate into this kind.
	WorkDescription WorkEntryKind = "description"
	// WorkDetailed splits the body into responsibilities and accomplishments.
	WorkDetailed WorkEntryKind = "detailed"
)

// WorkEntry is a tagged variant. Older documents stored work entries as bare
// strings or as objects carrying either a description or a
// responsibilities/accomplishments pair; UnmarshalJSON accepts all three and
// normalize collapses them to the two tagged kinds.
type WorkEntry struct {
	Kind             WorkEntryKind `json:"kind"`
	Company          string        `json:"company"`
	Role             string        `json:"role"`
	Date             string        `json:"date"`
	Description      string        `json:"description,omitempty"`
	Responsibilities string        `json:"responsibilities,omitempty"`
	Accomplishments  string        `json:"accomplishments,omitempty"`
}

type workEntryJSON struct {
	Kind             WorkEntryKind `json:"kind"`
	Company          string        `json:"company"`
	Role             string        `json:"role"`
	Date             string        `json:"date"`
	Description      string        `json:"description"`
	Responsibilities string        `json:"responsibilities"`
	Accomplishments  string        `json:"accomplishments"`
}

func (w *WorkEntry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		// Legacy string entry: the whole value is the description.
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*w = WorkEntry{Kind: WorkDescription, Description: s}
		return nil
	}

	var obj workEntryJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*w = WorkEntry{
		Kind:             obj.Kind,
		Company:          obj.Company,
		Role:             obj.Role,
		Date:             obj.Date,
		Description:      obj.Description,
		Responsibilities: obj.Responsibilities,
		Accomplishments:  obj.Accomplishments,
	}
	w.normalize()
	return nil
}

// normalize fixes up entries that predate the Kind tag.
func (w *WorkEntry) normalize() {
	if w.Kind == WorkDescription || w.Kind == WorkDetailed {
		return
	}
	if w.Responsibilities != "" || w.Accomplishments != "" {
		w.Kind = WorkDetailed
		return
	}
	w.Kind = WorkDescription
}
