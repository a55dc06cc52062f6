package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/lead-lab/leadlab/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id               TEXT PRIMARY KEY,
	position         INTEGER NOT NULL,
	company          TEXT NOT NULL,
	company_key      TEXT NOT NULL DEFAULT '',
	website          TEXT NOT NULL DEFAULT '',
	email            TEXT NOT NULL DEFAULT '',
	contact_form_url TEXT NOT NULL DEFAULT '',
	category         TEXT NOT NULL DEFAULT 'Other',
	why_fit          TEXT NOT NULL DEFAULT '',
	source_url       TEXT NOT NULL DEFAULT '',
	notes            TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT 'New',
	date_added       TEXT NOT NULL DEFAULT '',
	key              TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_leads_key ON leads(key);
CREATE INDEX IF NOT EXISTS idx_leads_company_key ON leads(company_key);
`

// Init creates the leads table if it does not exist.
func (s *SQLiteStore) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Load reads the full table in stable position order.
func (s *SQLiteStore) Load(ctx context.Context) (Table, error) {
	if err := s.Init(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT company, company_key, website, email, contact_form_url,
		       category, why_fit, source_url, notes, status, date_added, key
		FROM leads ORDER BY position`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: select leads")
	}
	defer func() { _ = rows.Close() }()

	var t Table
	for rows.Next() {
		var l model.Lead
		if err := rows.Scan(
			&l.Company, &l.CompanyKey, &l.Website, &l.Email, &l.ContactFormURL,
			&l.Category, &l.WhyFit, &l.SourceURL, &l.Notes, &l.Status,
			&l.DateAdded, &l.Key,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		t = append(t, l)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate leads")
	}

	return NormalizeTable(t), nil
}

// Save replaces the persisted table inside a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, t Table) error {
	if err := s.Init(ctx); err != nil {
		return err
	}
	t = NormalizeTable(t)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin save")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM leads`); err != nil {
		return eris.Wrap(err, "sqlite: clear leads")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO leads (id, position, company, company_key, website, email,
		                   contact_form_url, category, why_fit, source_url,
		                   notes, status, date_added, key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer func() { _ = stmt.Close() }()

	for i, l := range t {
		if _, err := stmt.ExecContext(ctx,
			uuid.New().String(), i,
			l.Company, l.CompanyKey, l.Website, l.Email, l.ContactFormURL,
			l.Category, l.WhyFit, l.SourceURL, l.Notes, l.Status,
			l.DateAdded, l.Key,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert lead %s", l.Company)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "sqlite: commit save")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
