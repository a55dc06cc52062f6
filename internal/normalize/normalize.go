// Package normalize canonicalizes free-text company names into stable
// identity keys tolerant of punctuation, diacritics, case, a leading "the",
// and stacked legal-entity suffixes.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// legalSuffixes are entity-form tokens stripped from the tail of a name.
// Punctuated variants ("inc.", "s.a.") collapse to these once punctuation
// is removed.
var legalSuffixes = map[string]bool{
	"inc": true, "llc": true, "co": true, "company": true,
	"corp": true, "corporation": true, "ltd": true, "plc": true,
	"gmbh": true, "sa": true, "bv": true,
}

// stripMarks removes combining marks after compatibility decomposition,
// folding diacritics to their base letters.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Company normalizes a company name to its canonical token form:
// lowercased, de-accented, punctuation stripped, "&" spelled out, every
// "the" dropped, and a trailing run of legal suffixes removed. Tokens are
// joined with single spaces. Pure and total; empty input yields "".
func Company(name string) string {
	s, _, err := transform.String(stripMarks, name)
	if err != nil {
		s = name
	}
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", " and ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	tokens := strings.Fields(b.String())
	kept := tokens[:0]
	for _, t := range tokens {
		if t != "the" {
			kept = append(kept, t)
		}
	}
	// Suffixes may stack ("Acme Holdings Ltd Inc"), so pop repeatedly.
	for len(kept) > 0 && legalSuffixes[kept[len(kept)-1]] {
		kept = kept[:len(kept)-1]
	}
	return strings.Join(kept, " ")
}

// CompanyKey returns the slug form of Company, the fuzzy identity key stored
// in the CompanyKey column.
func CompanyKey(name string) string {
	return strings.ReplaceAll(Company(name), " ", "-")
}
