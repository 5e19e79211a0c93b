// Package fetch retrieves the documentation pages and ISO mirrors a catalog
// record points at, and checks that they are still reachable.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// MaxBodyBytes bounds how much of a page URL reads.
const MaxBodyBytes = 2 << 20

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; DistroCatalog/1.0)"

// noiseSelector matches page chrome that never holds documentation text.
const noiseSelector = "nav, footer, header, script, style, noscript, .sidebar, .cookie-banner, .popup, .breadcrumb, .toc"

// Result is the response to a single request.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error describes a failed request. Cause is set for transport failures and
// empty for unexpected status codes.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures requests.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

func (o *Options) client() *http.Client {
	return &http.Client{Timeout: o.Timeout}
}

// withHeader returns a copy of o with one extra request header.
func (o *Options) withHeader(key, value string) *Options {
	cp := *o
	cp.Headers = make(map[string]string, len(o.Headers)+1)
	for k, v := range o.Headers {
		cp.Headers[k] = v
	}
	cp.Headers[key] = value
	return &cp
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &Error{URL: raw, Message: "invalid URL", Cause: err}
	}
	return nil
}

func do(ctx context.Context, client *http.Client, method, rawURL string, opts *Options) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	return resp, nil
}

// URL downloads a page. A non-200 status returns the Result alongside the error.
func URL(ctx context.Context, rawURL string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := checkURL(rawURL); err != nil {
		return nil, err
	}

	resp, err := do(ctx, opts.client(), http.MethodGet, rawURL, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	// Docs pages are small; a mislabelled ISO link must not be downloaded whole
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to read response body", Cause: err}
	}

	result := &Result{
		URL:         rawURL,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return result, &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return result, nil
}

// Head checks that a URL answers without downloading its body. Servers that
// reject HEAD are retried with a one-byte ranged GET.
func Head(ctx context.Context, rawURL string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := checkURL(rawURL); err != nil {
		return nil, err
	}

	client := opts.client()
	resp, err := do(ctx, client, http.MethodHead, rawURL, opts)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented {
		_ = resp.Body.Close()
		resp, err = do(ctx, client, http.MethodGet, rawURL, opts.withHeader("Range", "bytes=0-0"))
		if err != nil {
			return nil, err
		}
	}
	defer func() { _ = resp.Body.Close() }()

	result := &Result{
		URL:         rawURL,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return result, &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return result, nil
}

// PageTitle returns the trimmed <title> of an HTML document, or "" when it has none.
func PageTitle(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	return strings.TrimSpace(doc.Find("head title").First().Text()), nil
}

// ExtractMainText returns the text of the first element matching one of
// contentSelectors, or of <body> when none match. Page chrome (navigation,
// scripts, sidebars) is dropped first. Blank lines are removed and the
// remaining lines trimmed.
func ExtractMainText(html string, contentSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find(noiseSelector).Remove()

	main := doc.Find("body")
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			main = sel.First()
			break
		}
	}

	var lines []string
	for _, line := range strings.Split(main.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// DocsSelectors lists where documentation sites usually keep their content.
func DocsSelectors() []string {
	return []string{
		"main",
		"article",
		".documentation",
		"#docs",
		".content",
		"#content",
		".main-content",
		"#main-content",
	}
}
