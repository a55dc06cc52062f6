// Package enrich discovers public contact points for leads: a scored best
// email, a primary contact-form URL, and note annotations recording the
// alternatives.
package enrich

import (
	"context"
	"net/url"
	"sort"
	"strings"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/lead-lab/leadlab/internal/fetch"
	"github.com/lead-lab/leadlab/internal/harvest"
	"github.com/lead-lab/leadlab/internal/store"
)

// DefaultPages is the bounded candidate page set scanned per site.
var DefaultPages = []string{
	"/", "/contact", "/advertise", "/advertising", "/sponsor", "/sponsorship",
	"/partners", "/brand", "/brand-partnerships", "/brand-partners",
	"/media-kit", "/media", "/press", "/marketing", "/work-with-us",
}

// SiteContacts is everything harvested for one site domain.
type SiteContacts struct {
	// Emails maps address -> best score observed across pages. A repeat of
	// the same address never lowers its score.
	Emails map[string]int
	// Order records first-seen order for tie-breaking.
	Order []string
	// Forms are candidate contact-form URLs in discovery order.
	Forms []string
}

// Enricher scans sites for contact points. The per-domain result cache is
// scoped to the Enricher instance, so one batch invocation never sees stale
// results from another.
type Enricher struct {
	fetcher *fetch.Fetcher
	pages   []string
	cache   *gocache.Cache
}

// NewEnricher creates an Enricher. A nil pages slice means DefaultPages.
func NewEnricher(f *fetch.Fetcher, pages []string) *Enricher {
	if len(pages) == 0 {
		pages = DefaultPages
	}
	return &Enricher{
		fetcher: f,
		pages:   pages,
		cache:   gocache.New(gocache.NoExpiration, 0),
	}
}

// FindContacts scans the candidate pages of one website and scores what it
// finds. Results are cached per normalized domain for the life of the
// Enricher. A site yielding nothing is a valid empty result, not an error.
func (e *Enricher) FindContacts(ctx context.Context, website string) SiteContacts {
	out := SiteContacts{Emails: make(map[string]int)}

	base := fetch.NormalizeBase(website)
	siteDom := fetch.Domain(base)
	if siteDom == "" {
		return out
	}

	if cached, ok := e.cache.Get(siteDom); ok {
		zap.L().Debug("contact cache hit", zap.String("domain", siteDom))
		return cached.(SiteContacts)
	}

	zap.L().Info("scanning site",
		zap.String("domain", siteDom),
		zap.Int("pages", len(e.pages)),
	)

	baseURL, err := url.Parse(base)
	if err != nil {
		zap.L().Debug("bad website url", zap.String("website", website), zap.Error(err))
		return out
	}

	seen := make(map[string]bool)
	for _, p := range e.pages {
		// Absolute candidate paths resolve against the site root, so a
		// Website pointing at an article still scans example.com/contact,
		// not example.com/article/contact.
		ref, err := url.Parse(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		pageURL := strings.TrimRight(baseURL.ResolveReference(ref).String(), "/")
		if pageURL == "" || seen[pageURL] {
			continue
		}
		seen[pageURL] = true

		html := e.fetcher.Fetch(ctx, pageURL)
		if html == "" {
			zap.L().Debug("page miss", zap.String("url", pageURL))
			continue
		}

		for _, addr := range harvest.Emails(html) {
			s := ScoreEmail(addr, siteDom)
			if prev, ok := out.Emails[addr]; !ok {
				out.Emails[addr] = s
				out.Order = append(out.Order, addr)
			} else if s > prev {
				out.Emails[addr] = s
			}
		}

		if harvest.HasContactForm(html, pageURL) {
			out.Forms = append(out.Forms, pageURL)
		}
	}

	zap.L().Info("site scanned",
		zap.String("domain", siteDom),
		zap.Int("emails", len(out.Emails)),
		zap.Int("forms", len(out.Forms)),
	)
	e.cache.Set(siteDom, out, gocache.NoExpiration)
	return out
}

// ContactOptions bounds an EnrichContacts pass.
type ContactOptions struct {
	// Limit caps how many rows are processed; 0 means no cap.
	Limit int
	// OnlyBlank leaves rows that already have an Email untouched (their
	// form URL and notes may still be updated).
	OnlyBlank bool
}

// EnrichContacts scans the table's websites and returns the changed rows as
// candidate records to feed back through the merge engine. Rows carry their
// existing Key so they merge onto themselves.
func (e *Enricher) EnrichContacts(ctx context.Context, table store.Table, opts ContactOptions) []map[string]string {
	var updates []map[string]string
	processed := 0

	for _, row := range table {
		if opts.Limit > 0 && processed >= opts.Limit {
			break
		}
		if strings.TrimSpace(row.Website) == "" {
			continue
		}
		processed++

		res := e.FindContacts(ctx, row.Website)
		if len(res.Emails) == 0 && len(res.Forms) == 0 {
			continue
		}

		var extras []string
		changed := false

		if len(res.Forms) > 0 && strings.TrimSpace(row.ContactFormURL) == "" {
			row.ContactFormURL = SortForms(res.Forms)[0]
			changed = true
		}

		best := BestEmail(res.Emails, res.Order)
		if best != "" {
			current := strings.TrimSpace(row.Email)
			switch {
			case current == "":
				row.Email = best
				extras = append(extras, "FoundEmail:"+best)
			case !opts.OnlyBlank && !strings.EqualFold(best, current):
				row.Email = best
				extras = append(extras, "FoundEmail:"+best)
			}
		}

		if alts := alternates(res.Emails, best); len(alts) > 0 {
			extras = append(extras, "AltEmails:"+strings.Join(alts, ","))
		}
		if len(res.Forms) > 0 {
			n := len(res.Forms)
			if n > 3 {
				n = 3
			}
			extras = append(extras, "Forms:"+strings.Join(res.Forms[:n], ","))
		}

		if len(extras) > 0 {
			row.Notes = AppendNote(row.Notes, strings.Join(extras, " "))
			changed = true
		}
		if changed {
			updates = append(updates, row.Map())
		}
	}

	return updates
}

// alternates returns up to 4 addresses other than the chosen one, sorted.
func alternates(emails map[string]int, best string) []string {
	var alts []string
	for e := range emails {
		if e != best {
			alts = append(alts, e)
		}
	}
	sort.Strings(alts)
	if len(alts) > 4 {
		alts = alts[:4]
	}
	return alts
}

// AppendNote appends annotation text to existing free-text notes with a
// separator, never clobbering what is already there.
func AppendNote(notes, extra string) string {
	notes = strings.TrimSpace(notes)
	extra = strings.TrimSpace(extra)
	switch {
	case extra == "":
		return notes
	case notes == "":
		return extra
	default:
		return notes + " | " + extra
	}
}
