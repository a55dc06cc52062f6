// Package fetch provides the polite HTTP fetcher used by enrichment and the
// finder. Failures degrade to empty content and are logged, never propagated:
// a dead page must not abort a scan.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultUserAgent = "LeadLab/1.0 (research-only; public contact discovery)"

// maxBodyBytes caps how much of a page is read.
const maxBodyBytes = 1 << 20

// Options configures a Fetcher.
type Options struct {
	Timeout       time.Duration // per-request timeout, default 5s
	Delay         time.Duration // minimum gap between requests, 0 = none
	UserAgent     string
	RespectRobots bool // consult robots.txt before each fetch
}

// Fetcher fetches pages sequentially with a fixed delay between requests.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string

	robots   bool
	robotsMu sync.Mutex
	groups   map[string]*robotstxt.Group // host -> robots group, nil = allow all
}

// New creates a Fetcher.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.Delay), 1)
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
		limiter:   limiter,
		userAgent: opts.UserAgent,
		robots:    opts.RespectRobots,
		groups:    make(map[string]*robotstxt.Group),
	}
}

// Fetch retrieves a page body, or "" on any failure. The inter-request delay
// is enforced before the request goes out.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) string {
	if err := f.limiter.Wait(ctx); err != nil {
		return ""
	}

	if f.robots && !f.allowed(ctx, rawURL) {
		zap.L().Debug("robots denied", zap.String("url", rawURL))
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		zap.L().Debug("fetch fail", zap.String("url", rawURL), zap.Error(err))
		return ""
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		zap.L().Debug("fetch fail", zap.String("url", rawURL), zap.Error(err))
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		zap.L().Debug("fetch non-2xx",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
		)
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		zap.L().Debug("fetch read fail", zap.String("url", rawURL), zap.Error(err))
		return ""
	}
	return string(body)
}

// allowed consults the host's robots.txt, caching per host. Unreachable or
// malformed robots.txt allows by default.
func (f *Fetcher) allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	f.robotsMu.Lock()
	group, seen := f.groups[u.Host]
	f.robotsMu.Unlock()

	if !seen {
		group = f.fetchRobots(ctx, u)
		f.robotsMu.Lock()
		f.groups[u.Host] = group
		f.robotsMu.Unlock()
	}

	if group == nil {
		return true
	}
	return group.Test(u.Path)
}

func (f *Fetcher) fetchRobots(ctx context.Context, u *url.URL) *robotstxt.Group {
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data.FindGroup(f.userAgent)
}

// NormalizeBase ensures a website value has a scheme so it can be joined
// with candidate paths.
func NormalizeBase(website string) string {
	if website == "" {
		return ""
	}
	if !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		return "https://" + website
	}
	return website
}

// Domain extracts the lowercased host of a URL, with any leading "www."
// stripped. Returns "" when the URL does not parse to a host.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	// Ports stay in: distinct local hosts must not collide.
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
