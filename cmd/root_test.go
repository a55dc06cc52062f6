package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lead-lab/leadlab/internal/config"
	"github.com/lead-lab/leadlab/internal/export"
)

// testConfig points cfg at a throwaway CSV store.
func testConfig(t *testing.T) {
	t.Helper()
	orig := cfg
	cfg = &config.Config{
		Store: config.StoreConfig{
			Driver:  "csv",
			CSVPath: filepath.Join(t.TempDir(), "leads.csv"),
		},
		Export: config.ExportConfig{
			Backend:  "mock",
			MockPath: filepath.Join(t.TempDir(), "export.csv"),
		},
		Enrich: config.EnrichConfig{TimeoutSecs: 1},
	}
	t.Cleanup(func() { cfg = orig })
}

func TestInitStoreAndAddRows(t *testing.T) {
	testConfig(t)
	ctx := context.Background()

	st, err := initStore(ctx)
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	err = addRows(ctx, st, []map[string]string{
		{"Company": "Acme", "Website": "https://acme.com"},
		{"Website": "https://no-name.com"}, // skipped, no Company
	})
	require.NoError(t, err)

	table, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, "Acme", table[0].Company)
	assert.NotEmpty(t, table[0].Key)
}

func TestNewExporterBackends(t *testing.T) {
	testConfig(t)
	ctx := context.Background()

	exp, err := newExporter(ctx)
	require.NoError(t, err)
	_, ok := exp.(*export.Mock)
	assert.True(t, ok)

	cfg.Export.Backend = "notion"
	_, err = newExporter(ctx)
	require.Error(t, err, "notion needs a token")

	cfg.Export.Backend = "sheets"
	_, err = newExporter(ctx)
	require.Error(t, err, "sheets needs a spreadsheet id")

	cfg.Export.Backend = "fax"
	_, err = newExporter(ctx)
	assert.Error(t, err)
}

func TestPromptRow(t *testing.T) {
	in := strings.NewReader("Globex\n\n\nZine\n\n\n\n")
	var out strings.Builder

	row, err := promptRow(in, &out)
	require.NoError(t, err)
	assert.Equal(t, "Globex", row["Company"])
	assert.Equal(t, exampleRow["Website"], row["Website"], "blank answer takes the default")
	assert.Equal(t, "Zine", row["Category"])
	assert.Contains(t, out.String(), "Company [Acme Brand]:")
}

func TestReadURLsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	data := "https://a.com\n\n# comment\nhttps://b.com\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	urls, err := readURLsFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, urls)
}
