// Package merge reconciles incoming candidate rows against the persisted
// lead table. A row is matched by either of two independent keys: the exact
// fingerprint of its (Company, Website, Email) triple, or the fuzzy
// normalized company slug. Matching on either trades a small false-merge
// risk for much higher recall of true duplicates, which suits a small,
// human-reviewed dataset.
package merge

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lead-lab/leadlab/internal/dedupe"
	"github.com/lead-lab/leadlab/internal/model"
	"github.com/lead-lab/leadlab/internal/normalize"
	"github.com/lead-lab/leadlab/internal/store"
	"github.com/lead-lab/leadlab/internal/validate"
)

// Report summarizes the outcome of one AddRows batch.
type Report struct {
	Inserted int
	Updated  int
	Skipped  int
}

// Engine applies batches of candidate rows to a Store.
type Engine struct {
	store store.Store
}

// NewEngine creates a merge engine on top of the given store.
func NewEngine(s store.Store) *Engine {
	return &Engine{store: s}
}

// AddRows validates, stamps, dedupes, and merges a batch of candidate rows,
// persisting the table exactly once at the end. Invalid rows are skipped and
// counted, never fatal to the batch; a persistence failure aborts the whole
// call, so either the entire batch is durable or none of it is.
func (e *Engine) AddRows(ctx context.Context, rows []map[string]string) (Report, error) {
	table, err := e.store.Load(ctx)
	if err != nil {
		return Report{}, eris.Wrap(err, "merge: load table")
	}

	var rep Report
	for _, raw := range rows {
		ok, reason := validate.Row(raw)
		if !ok {
			rep.Skipped++
			zap.L().Warn("skipping invalid row",
				zap.String("reason", reason),
				zap.String("company", raw["Company"]),
			)
			continue
		}

		lead := Stamp(leadFromRow(raw))

		var outcome Outcome
		table, outcome = UpsertLead(table, lead)
		switch outcome {
		case Inserted:
			rep.Inserted++
			zap.L().Info("inserted lead",
				zap.String("company", lead.Company),
				zap.String("company_key", lead.CompanyKey),
			)
		case Updated:
			rep.Updated++
			zap.L().Info("merged lead",
				zap.String("company", lead.Company),
				zap.String("company_key", lead.CompanyKey),
			)
		}
	}

	if err := e.store.Save(ctx, table); err != nil {
		return Report{}, eris.Wrap(err, "merge: save table")
	}

	zap.L().Info("add complete",
		zap.Int("inserted", rep.Inserted),
		zap.Int("updated", rep.Updated),
		zap.Int("skipped", rep.Skipped),
	)
	return rep, nil
}

// leadFromRow copies the canonical columns of a raw candidate row, trimmed,
// without any enum coercion. Coercion here would materialize Category/Status
// values the producer never supplied, and the merge would then overwrite
// curated stored values with defaults. Defaults are applied only when a row
// is inserted as new (see UpsertLead); model.FromRecord remains the coercing
// path for standalone construction.
func leadFromRow(raw map[string]string) model.Lead {
	var l model.Lead
	for _, col := range model.Columns {
		l.SetField(col, strings.TrimSpace(raw[col]))
	}
	return l
}

// defaultEnums fills the closed-set columns of a brand-new row. Rows merged
// onto an existing row never pass through here.
func defaultEnums(l model.Lead) model.Lead {
	if !model.ValidCategories[l.Category] {
		l.Category = model.CategoryOther
	}
	if !model.ValidStatuses[l.Status] {
		l.Status = model.StatusNew
	}
	return l
}

// Stamp fills the derived fields a candidate row may arrive without:
// DateAdded, CompanyKey, and Key.
func Stamp(l model.Lead) model.Lead {
	if l.DateAdded == "" {
		l.DateAdded = model.Today()
	}
	if l.CompanyKey == "" {
		l.CompanyKey = normalize.CompanyKey(l.Company)
	}
	if l.Key == "" {
		l.Key = dedupe.KeyForLead(l)
	}
	return l
}

// Outcome describes what UpsertLead did with a row.
type Outcome int

const (
	Inserted Outcome = iota
	Updated
)

// UpsertLead merges one stamped lead into the table and returns the new
// table value. A stored row matches when its Key equals the incoming Key or
// its CompanyKey equals the incoming CompanyKey; empty stored keys never
// match. The first match (stable table order) is the update target: every
// non-empty incoming field overwrites it, empty incoming fields leave it
// untouched. Any further matches are redundant duplicates for the same
// identity and are dropped after the merge; data unique to them is lost,
// which is accepted for this dataset. A row with no match is appended with
// its enum defaults filled in.
func UpsertLead(table store.Table, l model.Lead) (store.Table, Outcome) {
	var matches []int
	for i, row := range table {
		if (l.Key != "" && row.Key == l.Key) ||
			(l.CompanyKey != "" && row.CompanyKey == l.CompanyKey) {
			matches = append(matches, i)
		}
	}

	if len(matches) == 0 {
		return append(table, defaultEnums(l)), Inserted
	}

	target := matches[0]
	for _, col := range model.Columns {
		if v := l.Field(col); v != "" {
			table[target].SetField(col, v)
		}
	}

	if len(matches) > 1 {
		zap.L().Warn("collapsing duplicate rows",
			zap.String("company_key", l.CompanyKey),
			zap.Int("duplicates", len(matches)-1),
		)
		drop := make(map[int]bool, len(matches)-1)
		for _, i := range matches[1:] {
			drop[i] = true
		}
		kept := table[:0]
		for i, row := range table {
			if !drop[i] {
				kept = append(kept, row)
			}
		}
		table = kept
	}

	return table, Updated
}
