// Package harvest extracts contact signals from raw HTML: visible and
// mailto: email addresses (with basic de-obfuscation), contact-form hints,
// and page metadata.
package harvest

import (
	"html"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// De-obfuscation patterns for "name [at] domain [dot] com" style addresses.
var (
	atBracketRe  = regexp.MustCompile(`(?i)\[\s*at\s*\]|\(\s*at\s*\)`)
	dotBracketRe = regexp.MustCompile(`(?i)\[\s*dot\s*\]|\(\s*dot\s*\)`)
	atWordRe     = regexp.MustCompile(`(?i)\s+at\s+`)
	dotWordRe    = regexp.MustCompile(`(?i)\s+dot\s+`)
)

// Deobfuscate unescapes HTML entities and rewrites common email obfuscations
// so the address regex can match them.
func Deobfuscate(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(s)
	s = atBracketRe.ReplaceAllString(s, "@")
	s = dotBracketRe.ReplaceAllString(s, ".")
	s = atWordRe.ReplaceAllString(s, "@")
	s = dotWordRe.ReplaceAllString(s, ".")
	return s
}

// Emails returns the distinct email addresses found in the HTML, sorted.
// Both text matching the address shape and mailto: link targets are
// recognized, after de-obfuscation.
func Emails(htmlText string) []string {
	if htmlText == "" {
		return nil
	}
	clean := Deobfuscate(htmlText)

	found := make(map[string]bool)
	for _, m := range emailRe.FindAllString(clean, -1) {
		found[m] = true
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(clean))
	if err == nil {
		doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if !strings.HasPrefix(href, "mailto:") {
				return
			}
			addr := strings.TrimPrefix(href, "mailto:")
			if i := strings.IndexByte(addr, '?'); i >= 0 {
				addr = addr[:i]
			}
			if emailRe.MatchString(addr) {
				found[addr] = true
			}
		})
	}

	out := make([]string, 0, len(found))
	for e := range found {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// HasContactForm reports whether the page looks like it hosts a contact
// form: either a <form> on a contact/support URL, or any email input field.
func HasContactForm(htmlText, pageURL string) bool {
	if htmlText == "" {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return false
	}
	if doc.Find(`input[type="email"]`).Length() > 0 {
		return true
	}
	u := strings.ToLower(pageURL)
	if !strings.Contains(u, "contact") && !strings.Contains(u, "support") {
		return false
	}
	return doc.Find("form").Length() > 0
}

// Meta holds page metadata used by the site-meta enrichment pass.
type Meta struct {
	Title       string
	Description string
}

// SiteMeta extracts the page title and meta description, truncated to sane
// note lengths.
func SiteMeta(htmlText string) Meta {
	var m Meta
	if htmlText == "" {
		return m
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return m
	}
	m.Title = truncate(strings.TrimSpace(doc.Find("title").First().Text()), 200)
	desc, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	m.Description = truncate(strings.TrimSpace(desc), 300)
	return m
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
