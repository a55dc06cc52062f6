package enrich

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/lead-lab/leadlab/internal/fetch"
	"github.com/lead-lab/leadlab/internal/harvest"
	"github.com/lead-lab/leadlab/internal/store"
)

// minNotesLen is the Notes length below which a row is considered
// unannotated and worth a site-meta pass.
const minNotesLen = 5

// SiteMeta fetches homepages for rows that have a Website but effectively no
// Notes, and annotates Notes with the page title. Returns the changed rows
// as candidate records for the merge engine.
func (e *Enricher) SiteMeta(ctx context.Context, table store.Table) []map[string]string {
	var updates []map[string]string

	for _, row := range table {
		website := strings.TrimSpace(row.Website)
		if website == "" || len(strings.TrimSpace(row.Notes)) >= minNotesLen {
			continue
		}

		html := e.fetcher.Fetch(ctx, fetch.NormalizeBase(website))
		if html == "" {
			continue
		}
		meta := harvest.SiteMeta(html)
		if meta.Title == "" {
			continue
		}

		row.Notes = AppendNote(row.Notes, "Title: "+meta.Title)
		updates = append(updates, row.Map())
		zap.L().Debug("site meta",
			zap.String("company", row.Company),
			zap.String("title", meta.Title),
		)
	}

	return updates
}
