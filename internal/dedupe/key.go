// Package dedupe computes the deterministic fingerprint used for
// exact-duplicate detection of lead rows.
package dedupe

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/lead-lab/leadlab/internal/model"
)

// keyLen is the hex prefix length of the fingerprint: 64 bits, plenty for a
// human-reviewed dataset, not sized for large corpora.
const keyLen = 16

// ComputeKey returns the fingerprint of the (Company, Website, Email)
// identity triple. Values are trimmed and lowercased first, so case and
// surrounding whitespace never change the result. Pure and total.
func ComputeKey(company, website, email string) string {
	parts := []string{company, website, email}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:keyLen]
}

// KeyForLead computes the fingerprint for a lead's identity fields.
func KeyForLead(l model.Lead) string {
	return ComputeKey(l.Company, l.Website, l.Email)
}
