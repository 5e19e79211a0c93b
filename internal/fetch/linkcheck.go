package fetch

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/distro-catalog/internal/logging"
	"github.com/jonathan/distro-catalog/internal/types"
)

// LinkKind says which field of a record a link came from.
type LinkKind string

const (
	LinkDocs       LinkKind = "docs"
	LinkISO        LinkKind = "iso"
	LinkScreenshot LinkKind = "screenshot"
)

// DefaultConcurrency is the number of links checked at once.
const DefaultConcurrency = 8

// LinkResult is the outcome of checking one link.
type LinkResult struct {
	DistroID   string   `json:"distro_id"`
	Kind       LinkKind `json:"kind"`
	URL        string   `json:"url"`
	OK         bool     `json:"ok"`
	Skipped    bool     `json:"skipped,omitempty"`
	StatusCode int      `json:"status_code,omitempty"`
	Title      string   `json:"title,omitempty"`
	Error      string   `json:"error,omitempty"`
	DurationMS int64    `json:"duration_ms"`
}

// CheckOptions configures CheckLinks.
type CheckOptions struct {
	Fetch       *Options
	Concurrency int
}

type link struct {
	distroID string
	kind     LinkKind
	url      string
}

func collectLinks(records []*types.Distro) []link {
	var links []link
	for _, d := range records {
		if d == nil {
			continue
		}
		if d.OfficialDocsURL != "" {
			links = append(links, link{d.ID, LinkDocs, d.OfficialDocsURL})
		}
		for _, iso := range d.ISOFiles {
			links = append(links, link{d.ID, LinkISO, iso.URL})
		}
		for _, s := range d.Screenshots {
			links = append(links, link{d.ID, LinkScreenshot, s})
		}
	}
	return links
}

// CheckLinks verifies every docs, ISO and screenshot URL in records.
// Docs pages are fetched and their title recorded; everything else is
// checked with HEAD. Links that are not http(s), such as torrents, are
// reported as skipped. Results are sorted by distro id, kind and URL.
// Only context cancellation is returned as an error; unreachable links are
// reported in their LinkResult.
func CheckLinks(ctx context.Context, records []*types.Distro, opts CheckOptions) ([]LinkResult, error) {
	links := collectLinks(records)
	results := make([]LinkResult, len(links))

	if opts.Fetch == nil {
		opts.Fetch = DefaultOptions()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, l := range links {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = checkOne(gctx, l, opts.Fetch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.DistroID != b.DistroID {
			return a.DistroID < b.DistroID
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.URL < b.URL
	})

	broken := 0
	for _, r := range results {
		if !r.OK && !r.Skipped {
			broken++
		}
	}
	logging.Debug().Int("links", len(results)).Int("broken", broken).Msg("link check finished")

	return results, nil
}

func checkOne(ctx context.Context, l link, opts *Options) LinkResult {
	res := LinkResult{DistroID: l.distroID, Kind: l.kind, URL: l.url}

	if u, err := url.Parse(l.url); err == nil && u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "" {
		res.Skipped = true
		return res
	}

	start := time.Now()
	var (
		fetched *Result
		err     error
	)
	if l.kind == LinkDocs {
		fetched, err = URL(ctx, l.url, opts)
	} else {
		fetched, err = Head(ctx, l.url, opts)
	}
	res.DurationMS = time.Since(start).Milliseconds()

	if fetched != nil {
		res.StatusCode = fetched.StatusCode
	}
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.OK = true

	if l.kind == LinkDocs {
		res.Title = docsTitle(fetched.HTML)
	}
	return res
}

// docsTitle prefers the page <title> and falls back to the first line of
// the main content for pages that render without one.
func docsTitle(html string) string {
	if title, err := PageTitle(html); err == nil && title != "" {
		return title
	}
	text, err := ExtractMainText(html, DocsSelectors()...)
	if err != nil || text == "" {
		return ""
	}
	first, _, _ := strings.Cut(text, "\n")
	if len(first) > 80 {
		first = first[:77] + "..."
	}
	return first
}
