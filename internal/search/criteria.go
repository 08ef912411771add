// Package search carries search criteria between pages through URL query
// parameters and builds outbound map links.
package search

import (
	"html"
	"net/url"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Query parameter names shared by every page.
const (
	ParamLocation   = "location"
	ParamType       = "type"
	ParamIssue      = "issue"
	ParamCareType   = "careType"
	ParamSpecialist = "specialist"
)

// ResultsPath is the page that renders listing results.
const ResultsPath = "/results"

const maxParamLength = 200

var (
	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

// Criteria are free-form strings; only presence is checked.
type Criteria struct {
	Location   string `json:"location,omitempty"`
	Type       string `json:"type,omitempty"`
	Issue      string `json:"issue,omitempty"`
	CareType   string `json:"careType,omitempty"`
	Specialist string `json:"specialist,omitempty"`
}

// FromQuery reads criteria from query parameters, stripping markup.
func FromQuery(q url.Values) Criteria {
	return Criteria{
		Location:   Clean(q.Get(ParamLocation)),
		Type:       Clean(q.Get(ParamType)),
		Issue:      Clean(q.Get(ParamIssue)),
		CareType:   Clean(q.Get(ParamCareType)),
		Specialist: Clean(q.Get(ParamSpecialist)),
	}
}

// Normalize cleans every field.
func (c Criteria) Normalize() Criteria {
	return Criteria{
		Location:   Clean(c.Location),
		Type:       Clean(c.Type),
		Issue:      Clean(c.Issue),
		CareType:   Clean(c.CareType),
		Specialist: Clean(c.Specialist),
	}
}

// IsEmpty reports whether no criterion is present.
func (c Criteria) IsEmpty() bool {
	return c == Criteria{}
}

// Query encodes the present criteria; blank ones are omitted.
func (c Criteria) Query() url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set(ParamLocation, c.Location)
	set(ParamType, c.Type)
	set(ParamIssue, c.Issue)
	set(ParamCareType, c.CareType)
	set(ParamSpecialist, c.Specialist)
	return q
}

// ResultsURL is the results page link for these criteria.
func (c Criteria) ResultsURL() string {
	encoded := c.Query().Encode()
	if encoded == "" {
		return ResultsPath
	}
	return ResultsPath + "?" + encoded
}

// Clean strips HTML, collapses whitespace and caps the length.
func Clean(raw string) string {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	cleaned := stripPolicy.Sanitize(raw)
	// StrictPolicy escapes entities; criteria are plain text.
	cleaned = html.UnescapeString(cleaned)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if r := []rune(cleaned); len(r) > maxParamLength {
		cleaned = string(r[:maxParamLength])
	}
	return cleaned
}
