package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lead-lab/leadlab/internal/model"
)

func TestComputeKey_Deterministic(t *testing.T) {
	a := ComputeKey("Acme", "https://a.com", "x@a.com")
	b := ComputeKey("Acme", "https://a.com", "x@a.com")
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}

func TestComputeKey_CaseAndWhitespaceInsensitive(t *testing.T) {
	a := ComputeKey("Acme", "https://a.com", "x@a.com")
	b := ComputeKey("  ACME ", " HTTPS://A.COM", "X@A.COM  ")
	assert.Equal(t, a, b)
}

func TestComputeKey_DistinctTriples(t *testing.T) {
	a := ComputeKey("Acme", "https://a.com", "")
	b := ComputeKey("Acme", "", "x@a.com")
	assert.NotEqual(t, a, b)
}

func TestKeyForLead(t *testing.T) {
	l := model.Lead{Company: "Acme", Website: "https://a.com", Email: "x@a.com"}
	assert.Equal(t, ComputeKey("Acme", "https://a.com", "x@a.com"), KeyForLead(l))
}
