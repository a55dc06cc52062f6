// Package store persists the canonical lead table. Drivers share the same
// full-load/full-save contract: the table is read once at the start of a
// batch and written once at the end, single-process, single-writer.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/lead-lab/leadlab/internal/model"
	"github.com/lead-lab/leadlab/internal/normalize"
)

// Table is the in-memory lead table in stable storage order.
type Table []model.Lead

// Store is the persistence interface for the lead table.
type Store interface {
	// Init creates the backing table/file if it does not exist.
	Init(ctx context.Context) error
	// Load returns the full table, creating an empty store on first use.
	// Loaded rows always have the canonical column shape.
	Load(ctx context.Context) (Table, error)
	// Save replaces the persisted table with t (full rewrite, not append).
	Save(ctx context.Context, t Table) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverCSV      = "csv"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open creates a Store for the configured driver. dsn is the CSV file path
// or the sqlite/postgres connection string.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverCSV, "":
		return NewCSV(dsn), nil
	case DriverSQLite:
		return NewSQLite(dsn)
	case DriverPostgres:
		return NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}

// NormalizeTable enforces the canonical schema invariants on a loaded or
// about-to-be-saved table: every row with a non-empty Company gets a
// backfilled CompanyKey. Legacy columns never reach a Table (model.Lead has
// no slot for them), so dropping them is implicit in every load path.
func NormalizeTable(t Table) Table {
	for i := range t {
		if t[i].Company != "" && t[i].CompanyKey == "" {
			t[i].CompanyKey = normalize.CompanyKey(t[i].Company)
		}
	}
	return t
}
