// Package model defines the canonical lead row for the research table.
package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Categories a lead can belong to.
const (
	CategoryPodcast = "Podcast"
	CategoryZine    = "Zine"
	CategoryNetwork = "Network"
	CategoryEvent   = "Event"
	CategoryOther   = "Other"
)

// Statuses maintained downstream by the client.
const (
	StatusNew               = "New"
	StatusReviewed          = "Reviewed"
	StatusContactedByClient = "ContactedByClient"
	StatusDeclinedByClient  = "DeclinedByClient"
)

// ValidCategories is the closed set of lead categories.
var ValidCategories = map[string]bool{
	CategoryPodcast: true,
	CategoryZine:    true,
	CategoryNetwork: true,
	CategoryEvent:   true,
	CategoryOther:   true,
}

// ValidStatuses is the closed set of lead statuses.
var ValidStatuses = map[string]bool{
	StatusNew:               true,
	StatusReviewed:          true,
	StatusContactedByClient: true,
	StatusDeclinedByClient:  true,
}

// EmailRe is a basic local@domain.tld sanity check, not exhaustive.
var EmailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Columns is the canonical column set, in persisted order. The legacy
// ContactName/Role columns are intentionally absent; stores drop them on load.
var Columns = []string{
	"Company", "CompanyKey", "Website", "Email", "ContactFormURL",
	"Category", "WhyFit", "SourceURL", "Notes", "Status", "DateAdded", "Key",
}

// Lead is a research-only sponsorship lead. It carries no outreach/BD fields.
// Key is a deterministic hash of (Company|Website|Email) computed in
// internal/dedupe; CompanyKey is the normalized company slug from
// internal/normalize.
type Lead struct {
	Company        string `json:"company"`
	CompanyKey     string `json:"company_key"`
	Website        string `json:"website,omitempty"`
	Email          string `json:"email,omitempty"`
	ContactFormURL string `json:"contact_form_url,omitempty"`
	Category       string `json:"category"`
	WhyFit         string `json:"why_fit,omitempty"`
	SourceURL      string `json:"source_url,omitempty"`
	Notes          string `json:"notes,omitempty"`
	Status         string `json:"status"`
	DateAdded      string `json:"date_added"`
	Key            string `json:"key"`
}

// FromRecord builds a Lead from a column->value map with light normalization:
// values are trimmed, an invalid Category is coerced to Other, an invalid
// Status to New, and DateAdded defaults to today. Unknown columns (including
// legacy ContactName/Role) are ignored. Company is required.
//
// Note the deliberate asymmetry with validate.Row, which rejects an invalid
// Category outright instead of coercing it.
func FromRecord(rec map[string]string) (Lead, error) {
	get := func(k string) string { return strings.TrimSpace(rec[k]) }

	if get("Company") == "" {
		return Lead{}, eris.New("model: Company is required")
	}

	cat := get("Category")
	if cat == "" || !ValidCategories[cat] {
		cat = CategoryOther
	}
	status := get("Status")
	if status == "" || !ValidStatuses[status] {
		status = StatusNew
	}
	added := get("DateAdded")
	if added == "" {
		added = Today()
	}

	return Lead{
		Company:        get("Company"),
		CompanyKey:     get("CompanyKey"),
		Website:        get("Website"),
		Email:          get("Email"),
		ContactFormURL: get("ContactFormURL"),
		Category:       cat,
		WhyFit:         get("WhyFit"),
		SourceURL:      get("SourceURL"),
		Notes:          get("Notes"),
		Status:         status,
		DateAdded:      added,
		Key:            get("Key"),
	}, nil
}

// Field returns the value of the named canonical column. Unknown columns
// return "".
func (l Lead) Field(col string) string {
	switch col {
	case "Company":
		return l.Company
	case "CompanyKey":
		return l.CompanyKey
	case "Website":
		return l.Website
	case "Email":
		return l.Email
	case "ContactFormURL":
		return l.ContactFormURL
	case "Category":
		return l.Category
	case "WhyFit":
		return l.WhyFit
	case "SourceURL":
		return l.SourceURL
	case "Notes":
		return l.Notes
	case "Status":
		return l.Status
	case "DateAdded":
		return l.DateAdded
	case "Key":
		return l.Key
	}
	return ""
}

// SetField sets the named canonical column. Unknown columns are ignored,
// which is how legacy columns fall away during migration.
func (l *Lead) SetField(col, v string) {
	switch col {
	case "Company":
		l.Company = v
	case "CompanyKey":
		l.CompanyKey = v
	case "Website":
		l.Website = v
	case "Email":
		l.Email = v
	case "ContactFormURL":
		l.ContactFormURL = v
	case "Category":
		l.Category = v
	case "WhyFit":
		l.WhyFit = v
	case "SourceURL":
		l.SourceURL = v
	case "Notes":
		l.Notes = v
	case "Status":
		l.Status = v
	case "DateAdded":
		l.DateAdded = v
	case "Key":
		l.Key = v
	}
}

// Record returns the lead's values in canonical column order.
func (l Lead) Record() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = l.Field(c)
	}
	return out
}

// Map returns the lead as a column->value map.
func (l Lead) Map() map[string]string {
	out := make(map[string]string, len(Columns))
	for _, c := range Columns {
		out[c] = l.Field(c)
	}
	return out
}

// Today returns the current date in ISO format, the DateAdded convention.
func Today() string {
	return time.Now().Format("2006-01-02")
}
