package enrich

import (
	"sort"
	"strings"
)

// rank weights keywords found in an address local-part. Weights accumulate:
// an address can match several keywords. "noreply" is forced negative so a
// do-not-reply inbox never wins.
var rank = map[string]int{
	"partnership": 100,
	"sponsor":     95,
	"advert":      90,
	"marketing":   80,
	"brand":       75,
	"media":       70,
	"press":       65,
	"pr":          60,
	"podcast":     55,
	"audio":       50,
	"info":        40,
	"hello":       40,
	"contact":     35,
	"support":     20,
	"noreply":     -100,
}

// brandInboxes are local-parts that are themselves dedicated brand inboxes;
// an exact match earns a flat bonus on top of keyword weights.
var brandInboxes = map[string]bool{
	"partnership": true, "partnerships": true,
	"sponsor": true, "sponsors": true,
	"sponsorship": true, "sponsorships": true,
	"advert": true, "advertise": true, "advertising": true, "ads": true,
	"media": true, "mediarelations": true, "press": true, "pr": true,
	"marketing": true, "brand": true, "brandpartners": true,
	"podcast": true, "audio": true,
}

// ScoreEmail rates how promising an address is as a sponsorship contact.
// siteDomain, when non-empty, earns a bonus for addresses on the site's own
// domain or a subdomain of it.
func ScoreEmail(email, siteDomain string) int {
	local, dom, _ := strings.Cut(strings.ToLower(email), "@")

	score := 0
	for kw, w := range rank {
		if strings.Contains(local, kw) {
			score += w
		}
	}
	if siteDomain != "" && (dom == siteDomain || strings.HasSuffix(dom, "."+siteDomain)) {
		score += 25
	}
	if brandInboxes[local] {
		score += 40
	}
	return score
}

// BestEmail picks the address with the strictly highest score. Ties go to
// the earlier address in order (first seen wins). Returns "" for no input.
func BestEmail(scores map[string]int, order []string) string {
	best := ""
	bestScore := 0
	for _, e := range order {
		s, ok := scores[e]
		if !ok {
			continue
		}
		if best == "" || s > bestScore {
			best = e
			bestScore = s
		}
	}
	return best
}

// formPriority buckets a contact-form URL: advertising and sponsorship pages
// first, brand/media/press next, generic contact after, everything else last.
func formPriority(u string) int {
	lu := strings.ToLower(u)
	switch {
	case strings.Contains(lu, "advert") || strings.Contains(lu, "sponsor"):
		return 0
	case strings.Contains(lu, "brand") || strings.Contains(lu, "media") || strings.Contains(lu, "press"):
		return 1
	case strings.Contains(lu, "contact"):
		return 2
	default:
		return 3
	}
}

// SortForms orders form URLs by priority, preserving discovery order within
// a bucket.
func SortForms(forms []string) []string {
	out := append([]string(nil), forms...)
	sort.SliceStable(out, func(i, j int) bool {
		return formPriority(out[i]) < formPriority(out[j])
	})
	return out
}
