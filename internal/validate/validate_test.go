package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lead-lab/leadlab/internal/model"
)

func TestRow(t *testing.T) {
	tests := []struct {
		name   string
		rec    map[string]string
		ok     bool
		reason string
	}{
		{"valid minimal", map[string]string{"Company": "Acme"}, true, "OK"},
		{"valid full", map[string]string{"Company": "Acme", "Category": "Podcast", "Email": "x@a.com"}, true, "OK"},
		{"missing company", map[string]string{"Website": "https://a.com"}, false, "Missing required field: Company"},
		{"blank company", map[string]string{"Company": "   "}, false, "Missing required field: Company"},
		{"invalid category", map[string]string{"Company": "Acme", "Category": "Bogus"}, false, "Invalid Category: Bogus"},
		{"empty category ok", map[string]string{"Company": "Acme", "Category": ""}, true, "OK"},
		{"invalid email", map[string]string{"Company": "Acme", "Email": "not-an-email"}, false, "Invalid Email format: not-an-email"},
		{"email no tld", map[string]string{"Company": "Acme", "Email": "x@acme"}, false, "Invalid Email format: x@acme"},
		{"category checked before email", map[string]string{"Company": "Acme", "Category": "Bogus", "Email": "bad"}, false, "Invalid Category: Bogus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := Row(tt.rec)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

// The validator rejects what row construction coerces. Both call sites are
// intentional; this pins the asymmetry so neither side gets "unified" by
// accident.
func TestRow_RejectsWhatConstructionCoerces(t *testing.T) {
	rec := map[string]string{"Company": "Acme", "Category": "Bogus"}

	ok, reason := Row(rec)
	assert.False(t, ok)
	assert.Equal(t, "Invalid Category: Bogus", reason)

	l, err := model.FromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryOther, l.Category)
}
