package store

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lead-lab/leadlab/internal/model"
)

// CSVStore persists the lead table as a single CSV file with the canonical
// header. This is the default driver and the original on-disk format.
type CSVStore struct {
	path string
}

// NewCSV creates a CSVStore for the given file path.
func NewCSV(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Init creates the CSV with the canonical header if it does not exist.
func (s *CSVStore) Init(_ context.Context) error {
	if _, err := os.Stat(s.path); err == nil {
		zap.L().Info("store already exists", zap.String("path", s.path))
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return eris.Wrap(err, "csv store: create data dir")
	}
	if err := s.writeAll(nil); err != nil {
		return err
	}
	zap.L().Info("initialized store", zap.String("path", s.path))
	return nil
}

// Load reads the full table. A missing file is created empty; a file without
// a header row is rewritten with the canonical header. Columns are matched by
// header name, so a legacy file carrying ContactName/Role loads cleanly and
// those columns are dropped on the next Save.
func (s *CSVStore) Load(ctx context.Context) (Table, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := s.Init(ctx); err != nil {
			return nil, err
		}
		return Table{}, nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, eris.Wrap(err, "csv store: open")
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		// Structurally empty: recreate with canonical columns.
		if err := s.writeAll(nil); err != nil {
			return nil, err
		}
		return Table{}, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv store: read header")
	}

	var t Table
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv store: read row")
		}
		var l model.Lead
		for i, col := range header {
			if i < len(rec) {
				l.SetField(col, rec[i])
			}
		}
		t = append(t, l)
	}

	return NormalizeTable(t), nil
}

// Save rewrites the whole file with the canonical column set. The write goes
// to a temp file first and is renamed into place, so an interrupted save
// never leaves a half-written table behind.
func (s *CSVStore) Save(_ context.Context, t Table) error {
	if err := s.writeAll(NormalizeTable(t)); err != nil {
		return err
	}
	zap.L().Info("saved table", zap.Int("rows", len(t)), zap.String("path", s.path))
	return nil
}

func (s *CSVStore) Close() error { return nil }

func (s *CSVStore) writeAll(t Table) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return eris.Wrap(err, "csv store: create data dir")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".leads-*.csv")
	if err != nil {
		return eris.Wrap(err, "csv store: create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	w := csv.NewWriter(tmp)
	if err := w.Write(model.Columns); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "csv store: write header")
	}
	for _, l := range t {
		if err := w.Write(l.Record()); err != nil {
			_ = tmp.Close()
			return eris.Wrap(err, "csv store: write row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "csv store: flush")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "csv store: close temp file")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return eris.Wrap(err, "csv store: replace file")
	}
	return nil
}
