package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_LoadEmpty(t *testing.T) {
	s := newTestSQLite(t)

	table, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestSQLiteStore_SaveLoadRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	in := Table{
		{Company: "Acme", CompanyKey: "acme", Website: "https://a.com", Category: "Podcast", Status: "New", DateAdded: "2026-08-01", Key: "abc123"},
		{Company: "Beta Zine", CompanyKey: "beta-zine", Email: "hi@beta.com", Category: "Zine", Status: "Reviewed", DateAdded: "2026-08-02", Key: "def456"},
	}
	require.NoError(t, s.Save(ctx, in))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSQLiteStore_SaveIsFullRewrite(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, Table{
		{Company: "Old", Key: "old"},
		{Company: "Older", Key: "older"},
	}))
	require.NoError(t, s.Save(ctx, Table{{Company: "Only", Key: "only"}}))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Only", out[0].Company)
}

func TestSQLiteStore_SaveBackfillsCompanyKey(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, Table{{Company: "The Acme, LLC", Key: "k"}}))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "acme", out[0].CompanyKey)
}
