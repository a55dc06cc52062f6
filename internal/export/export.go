// Package export defines the export backend contract and the mock backend
// used when no external service is configured.
package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lead-lab/leadlab/internal/model"
)

// Exporter pushes lead rows to an external destination. Implementations are
// expected to be idempotent on Key: repeated exports update rather than
// duplicate.
type Exporter interface {
	SetupSchema(ctx context.Context) error
	UpsertRows(ctx context.Context, rows []map[string]string, keyField string) error
}

// Mock writes exports to a local CSV file instead of calling any service.
// It is the default backend so the tool works with zero credentials.
type Mock struct {
	Path string
}

// NewMock creates a mock exporter. An empty path means the default
// data/exports/latest_export.csv.
func NewMock(path string) *Mock {
	if path == "" {
		path = filepath.Join("data", "exports", "latest_export.csv")
	}
	return &Mock{Path: path}
}

// SetupSchema is a no-op for the mock backend.
func (m *Mock) SetupSchema(_ context.Context) error {
	zap.L().Info("mock backend: setup is a no-op")
	return nil
}

// UpsertRows rewrites the export file with the given rows under the canonical
// header. The key field is unused: a full rewrite is already idempotent.
func (m *Mock) UpsertRows(_ context.Context, rows []map[string]string, _ string) error {
	if len(rows) == 0 {
		zap.L().Info("mock export: no rows to write")
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(m.Path), 0o755); err != nil {
		return eris.Wrap(err, "export: create export dir")
	}

	f, err := os.Create(m.Path)
	if err != nil {
		return eris.Wrap(err, "export: create export file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(model.Columns); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, row := range rows {
		rec := make([]string, len(model.Columns))
		for i, col := range model.Columns {
			rec[i] = row[col]
		}
		if err := w.Write(rec); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush")
	}

	zap.L().Info("mock export written",
		zap.Int("rows", len(rows)),
		zap.String("path", m.Path),
	)
	return nil
}
