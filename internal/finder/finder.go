// Package finder extracts candidate leads from curated list or article pages
// ("brands that sponsor podcasts" roundups and the like). Results are raw
// candidate rows meant for review and the merge engine, not final data.
package finder

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/lead-lab/leadlab/internal/fetch"
)

// blockedDomains are link targets that are never sponsor candidates: social
// profiles and podcast directories that list pages link to constantly.
var blockedDomains = map[string]bool{
	"facebook.com":     true,
	"x.com":            true,
	"twitter.com":      true,
	"instagram.com":    true,
	"youtube.com":      true,
	"tiktok.com":       true,
	"linkedin.com":     true,
	"pinterest.com":    true,
	"itunes.apple.com": true,
}

var wsRe = regexp.MustCompile(`\s+`)

// Finder turns list/article pages into candidate lead rows.
type Finder struct {
	fetcher *fetch.Fetcher
}

func New(f *fetch.Fetcher) *Finder {
	return &Finder{fetcher: f}
}

// FromURLs fetches each page and extracts candidate rows from its external
// links. Pages that fail to fetch or parse are skipped with a warning.
func (f *Finder) FromURLs(ctx context.Context, urls []string, topic string) []map[string]string {
	var out []map[string]string
	category := categoryForTopic(topic)

	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		html := f.fetcher.Fetch(ctx, u)
		if html == "" {
			zap.L().Warn("finder: page failed", zap.String("url", u))
			continue
		}
		rows := FromHTML(html, u)
		for _, r := range rows {
			r["Category"] = category
			r["Status"] = "New"
		}
		zap.L().Info("finder: page scanned",
			zap.String("url", u),
			zap.Int("candidates", len(rows)),
		)
		out = append(out, rows...)
	}
	return out
}

// FromHTML extracts candidate rows from one page's markup. A candidate is any
// anchor with readable text pointing at an external http(s) domain outside
// the blocked set.
func FromHTML(html, sourceURL string) []map[string]string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		zap.L().Warn("finder: parse failed", zap.String("url", sourceURL), zap.Error(err))
		return nil
	}

	srcDom := fetch.Domain(sourceURL)
	var rows []map[string]string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		name := cleanName(a.Text())
		if len(name) < 2 || !strings.HasPrefix(href, "http") {
			return
		}
		dom := fetch.Domain(href)
		if dom == "" || dom == srcDom || blockedDomains[dom] {
			return
		}
		rows = append(rows, map[string]string{
			"Company":   name,
			"Website":   href,
			"WhyFit":    "Mentioned in sponsor/brands list on " + srcDom,
			"SourceURL": sourceURL,
		})
	})
	return rows
}

// cleanName collapses whitespace in anchor text and caps the length.
func cleanName(text string) string {
	t := wsRe.ReplaceAllString(strings.TrimSpace(text), " ")
	if len(t) > 80 {
		t = t[:80]
	}
	return t
}

func categoryForTopic(topic string) string {
	switch strings.ToLower(strings.TrimSpace(topic)) {
	case "podcast", "":
		return "Podcast"
	case "network":
		return "Network"
	default:
		return "Event"
	}
}
