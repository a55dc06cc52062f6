// Package validate gates candidate rows before they enter the table.
package validate

import (
	"fmt"
	"strings"

	"github.com/lead-lab/leadlab/internal/model"
)

// Row checks required-field and format constraints on a candidate row.
// Checks run in order and the first failure short-circuits:
//
//  1. Company must be present and non-empty after trimming.
//  2. Category, if present, must be one of the valid categories. Unlike
//     model.FromRecord, an unknown category is rejected here, not coerced.
//  3. Email, if present, must look like local@domain.tld.
//
// Returns (true, "OK") when all checks pass.
func Row(rec map[string]string) (bool, string) {
	company := strings.TrimSpace(rec["Company"])
	if company == "" {
		return false, "Missing required field: Company"
	}

	cat := strings.TrimSpace(rec["Category"])
	if cat != "" && !model.ValidCategories[cat] {
		return false, fmt.Sprintf("Invalid Category: %s", cat)
	}

	email := strings.TrimSpace(rec["Email"])
	if email != "" && !model.EmailRe.MatchString(email) {
		return false, fmt.Sprintf("Invalid Email format: %s", email)
	}

	return true, "OK"
}
