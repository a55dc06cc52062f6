package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompany(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Acme", "acme"},
		{"punctuated suffix", "Acme, Inc.", "acme"},
		{"upper suffix", "ACME INC", "acme"},
		{"leading the", "The Acme Inc.", "acme"},
		{"stacked suffixes", "Acme Holdings Ltd Inc", "acme holdings"},
		{"ampersand", "Smith & Sons", "smith and sons"},
		{"diacritics", "Café Olé GmbH", "cafe ole"},
		{"interior the dropped", "The War of the Worlds Co", "war of worlds"},
		{"suffix not stripped mid-name", "Inc Magazine", "inc magazine"},
		{"empty", "", ""},
		{"only suffixes", "Inc. LLC", ""},
		{"digits kept", "Studio 54 Ltd", "studio 54"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Company(tt.in))
		})
	}
}

func TestCompanyKey_Slug(t *testing.T) {
	assert.Equal(t, "acme-brand", CompanyKey("The Acme Brand, LLC"))
	assert.Equal(t, CompanyKey("Acme, Inc."), CompanyKey("ACME INC"))
	assert.Equal(t, "", CompanyKey(""))
}

func TestCompany_Stable(t *testing.T) {
	in := "Überbrand & Friends, S.A."
	assert.Equal(t, Company(in), Company(Company(in)+" inc"))
}
