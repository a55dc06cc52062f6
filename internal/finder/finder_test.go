package finder

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lead-lab/leadlab/internal/fetch"
)

const listPage = `<html><body>
	<h1>Brands that sponsor shows</h1>
	<a href="https://acme.com">Acme   Audio</a>
	<a href="https://www.globex.io/partners">Globex</a>
	<a href="https://facebook.com/acme">Acme on Facebook</a>
	<a href="https://twitter.com/acme">@acme</a>
	<a href="/about">About us</a>
	<a href="https://elsewhere.com"> </a>
	<a href="https://elsewhere.com">x</a>
</body></html>`

func TestFromHTML(t *testing.T) {
	rows := FromHTML(listPage, "https://lists.example.com/top-sponsors")
	require.Len(t, rows, 2)

	assert.Equal(t, "Acme Audio", rows[0]["Company"], "whitespace collapsed")
	assert.Equal(t, "https://acme.com", rows[0]["Website"])
	assert.Equal(t, "Mentioned in sponsor/brands list on lists.example.com", rows[0]["WhyFit"])
	assert.Equal(t, "https://lists.example.com/top-sponsors", rows[0]["SourceURL"])

	assert.Equal(t, "Globex", rows[1]["Company"])
	assert.Equal(t, "https://www.globex.io/partners", rows[1]["Website"])
}

func TestFromHTML_SkipsInternalAndBlocked(t *testing.T) {
	rows := FromHTML(listPage, "https://lists.example.com/top-sponsors")
	for _, r := range rows {
		assert.NotContains(t, r["Website"], "facebook")
		assert.NotContains(t, r["Website"], "twitter")
		assert.NotContains(t, r["Website"], "/about")
	}
}

func TestFromHTML_SameDomainLinksDropped(t *testing.T) {
	html := `<a href="https://lists.example.com/page2">Next page</a>`
	rows := FromHTML(html, "https://lists.example.com/top-sponsors")
	assert.Empty(t, rows)
}

func TestCleanName_CapsLength(t *testing.T) {
	long := strings.Repeat("a", 200)
	assert.Len(t, cleanName(long), 80)
}

func TestCategoryForTopic(t *testing.T) {
	assert.Equal(t, "Podcast", categoryForTopic("podcast"))
	assert.Equal(t, "Podcast", categoryForTopic(""))
	assert.Equal(t, "Network", categoryForTopic("Network"))
	assert.Equal(t, "Event", categoryForTopic("conference"))
}

func TestFromURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/dead" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = fmt.Fprint(w, `<html><body><a href="https://acme.com">Acme</a></body></html>`)
	}))
	defer srv.Close()

	f := New(fetch.New(fetch.Options{}))
	rows := f.FromURLs(context.Background(), []string{srv.URL + "/list", srv.URL + "/dead", ""}, "network")

	require.Len(t, rows, 1, "dead page skipped, not fatal")
	assert.Equal(t, "Acme", rows[0]["Company"])
	assert.Equal(t, "Network", rows[0]["Category"])
	assert.Equal(t, "New", rows[0]["Status"])
}
