package harvest

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestEmails_VisibleText(t *testing.T) {
	emails := Emails(`<html><body>Reach us at press@acme.com or sales@acme.com.</body></html>`)
	assert.Equal(t, []string{"press@acme.com", "sales@acme.com"}, emails)
}

func TestEmails_MailtoLinks(t *testing.T) {
	emails := Emails(`<a href="mailto:hello@acme.com?subject=Hi">Email us</a>`)
	assert.Equal(t, []string{"hello@acme.com"}, emails)
}

func TestEmails_Deobfuscation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"info [at] acme [dot] com", "info@acme.com"},
		{"info (at) acme (dot) com", "info@acme.com"},
		{"info at acme dot com", "info@acme.com"},
		{"info&#64;acme.com", "info@acme.com"},
	}
	for _, tt := range tests {
		emails := Emails("<p>" + tt.in + "</p>")
		assert.Equal(t, []string{tt.want}, emails, "input %q", tt.in)
	}
}

func TestEmails_Dedupes(t *testing.T) {
	html := `<p>press@acme.com</p><a href="mailto:press@acme.com">mail</a>`
	assert.Equal(t, []string{"press@acme.com"}, Emails(html))
}

func TestEmails_Empty(t *testing.T) {
	assert.Nil(t, Emails(""))
	assert.Empty(t, Emails("<html><body>no contacts here</body></html>"))
}

func TestHasContactForm(t *testing.T) {
	formHTML := `<form action="/send"><input name="msg"></form>`
	emailInput := `<form><input type="email" name="e"></form>`

	assert.True(t, HasContactForm(formHTML, "https://acme.com/contact"))
	assert.True(t, HasContactForm(formHTML, "https://acme.com/support"))
	assert.False(t, HasContactForm(formHTML, "https://acme.com/about"))
	assert.True(t, HasContactForm(emailInput, "https://acme.com/anything"))
	assert.False(t, HasContactForm("", "https://acme.com/contact"))
}

func TestSiteMeta(t *testing.T) {
	html := `<html><head>
		<title>  Acme — Sponsorships </title>
		<meta name="description" content="Acme partners with creators.">
	</head><body></body></html>`

	m := SiteMeta(html)
	assert.Equal(t, "Acme — Sponsorships", m.Title)
	assert.Equal(t, "Acme partners with creators.", m.Description)
}

func TestSiteMeta_Truncates(t *testing.T) {
	long := strings.Repeat("x", 500)
	m := SiteMeta("<html><head><title>" + long + "</title></head></html>")
	assert.Len(t, m.Title, 200)
}

func TestSiteMeta_TruncatesOnRuneBoundary(t *testing.T) {
	// 100 three-byte runes: a naive 200-byte cut would land mid-rune.
	long := strings.Repeat("日", 100)
	m := SiteMeta("<html><head><title>" + long + "</title></head></html>")
	assert.True(t, utf8.ValidString(m.Title))
	assert.Equal(t, strings.Repeat("日", 66), m.Title)
}
