package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/lead-lab/leadlab/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it
// for unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
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
)`

// Init creates the leads table if it does not exist.
func (s *PostgresStore) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

// Load reads the full table in stable position order.
func (s *PostgresStore) Load(ctx context.Context) (Table, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT company, company_key, website, email, contact_form_url,
		       category, why_fit, source_url, notes, status, date_added, key
		FROM leads ORDER BY position`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: select leads")
	}
	defer rows.Close()

	var t Table
	for rows.Next() {
		var l model.Lead
		if err := rows.Scan(
			&l.Company, &l.CompanyKey, &l.Website, &l.Email, &l.ContactFormURL,
			&l.Category, &l.WhyFit, &l.SourceURL, &l.Notes, &l.Status,
			&l.DateAdded, &l.Key,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		t = append(t, l)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate leads")
	}

	return NormalizeTable(t), nil
}

// Save replaces the persisted table inside a single transaction.
func (s *PostgresStore) Save(ctx context.Context, t Table) error {
	t = NormalizeTable(t)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin save")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM leads`); err != nil {
		return eris.Wrap(err, "postgres: clear leads")
	}

	for i, l := range t {
		if _, err := tx.Exec(ctx, `
			INSERT INTO leads (id, position, company, company_key, website, email,
			                   contact_form_url, category, why_fit, source_url,
			                   notes, status, date_added, key)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			uuid.New().String(), i,
			l.Company, l.CompanyKey, l.Website, l.Email, l.ContactFormURL,
			l.Category, l.WhyFit, l.SourceURL, l.Notes, l.Status,
			l.DateAdded, l.Key,
		); err != nil {
			return eris.Wrapf(err, "postgres: insert lead %s", l.Company)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "postgres: commit save")
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
