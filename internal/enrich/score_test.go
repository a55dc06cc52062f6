package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		site  string
		want  int
	}{
		// press(65) + pr(60, substring of "press") + own domain(25) + brand inbox(40)
		{"press on own domain", "press@acme.com", "acme.com", 190},
		// noreply(-100) + own domain(25)
		{"noreply forced negative", "noreply@acme.com", "acme.com", -75},
		// partnership(100) + subdomain(25) + brand inbox(40)
		{"subdomain counts as own", "partnership@mail.acme.com", "acme.com", 165},
		// info(40), foreign domain, not a brand inbox exact match
		{"info elsewhere", "info.desk@other.com", "acme.com", 40},
		// keyword weights accumulate: brand(75) + media(70) + own domain(25)
		{"stacked keywords", "brandmedia@acme.com", "acme.com", 170},
		// press(65) + pr(60) + brand inbox(40); notacme.com is not a subdomain
		{"suffix domain is not subdomain", "press@notacme.com", "acme.com", 165},
		{"no site domain", "press@acme.com", "", 165},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreEmail(tt.email, tt.site))
		})
	}
}

func TestBestEmail_PicksStrictlyHighest(t *testing.T) {
	scores := map[string]int{
		"press@acme.com":   130,
		"noreply@acme.com": -75,
		"info@acme.com":    65,
	}
	order := []string{"noreply@acme.com", "info@acme.com", "press@acme.com"}
	assert.Equal(t, "press@acme.com", BestEmail(scores, order))
}

func TestBestEmail_TieGoesToFirstSeen(t *testing.T) {
	scores := map[string]int{"a@x.com": 40, "b@x.com": 40}
	assert.Equal(t, "b@x.com", BestEmail(scores, []string{"b@x.com", "a@x.com"}))
	assert.Equal(t, "a@x.com", BestEmail(scores, []string{"a@x.com", "b@x.com"}))
}

func TestBestEmail_Empty(t *testing.T) {
	assert.Equal(t, "", BestEmail(nil, nil))
}

func TestSortForms(t *testing.T) {
	forms := []string{
		"https://acme.com/contact",
		"https://acme.com/about",
		"https://acme.com/media-kit",
		"https://acme.com/advertise",
	}
	sorted := SortForms(forms)
	assert.Equal(t, []string{
		"https://acme.com/advertise",
		"https://acme.com/media-kit",
		"https://acme.com/contact",
		"https://acme.com/about",
	}, sorted)
	// input untouched
	assert.Equal(t, "https://acme.com/contact", forms[0])
}
