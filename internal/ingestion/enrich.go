// Package ingestion enriches warehouse articles with their full body text.
// The RSS feed only carries a title and a short snippet; qualification needs
// the actual article, so this stage fetches each URL and extracts the main
// content.
package ingestion

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/sync/errgroup"

	"github.com/opubliq/leadgen/internal/fetch"
	"github.com/opubliq/leadgen/internal/types"
)

// DefaultConcurrency is the number of articles fetched in parallel.
const DefaultConcurrency = 4

// DefaultMaxBodyRunes caps the stored body length. Extraction occasionally
// returns entire site navigation dumps; anything past this point adds prompt
// cost without adding signal.
const DefaultMaxBodyRunes = 20000

// Options configures the enrichment pass.
type Options struct {
	Fetch          *fetch.Options
	Concurrency    int
	MaxBodyRunes   int
	UseBrowser     bool
	BrowserTimeout time.Duration
	Verbose        bool
}

// DefaultOptions returns the defaults used by the CLI.
func DefaultOptions() *Options {
	return &Options{
		Fetch:          fetch.DefaultOptions(),
		Concurrency:    DefaultConcurrency,
		MaxBodyRunes:   DefaultMaxBodyRunes,
		BrowserTimeout: 30 * time.Second,
	}
}

// Failure records one article that could not be enriched. The article itself
// keeps whatever body the feed provided; the failure is informational.
type Failure struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// Result summarizes one enrichment pass.
type Result struct {
	Enriched int       `json:"enriched"`
	Failed   int       `json:"failed"`
	Failures []Failure `json:"failures,omitempty"`
}

// EnrichArticles fetches each article's URL and replaces its body with the
// extracted main text. Articles are updated in place. A failed fetch or
// extraction keeps the feed snippet as the body and is recorded in the
// result; it never aborts the pass. The only returned error is context
// cancellation.
func EnrichArticles(ctx context.Context, articles []types.Article, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	failures := make([]*Failure, len(articles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range articles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			body, err := enrichOne(gctx, &articles[i], opts)
			if err != nil {
				failures[i] = &Failure{URL: articles[i].URL, Reason: err.Error()}
				return nil
			}
			articles[i].Body = capRunes(body, opts.MaxBodyRunes)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{}
	for _, f := range failures {
		if f != nil {
			result.Failed++
			result.Failures = append(result.Failures, *f)
			continue
		}
		result.Enriched++
	}
	return result, nil
}

// enrichOne fetches one article and extracts its main text. It tries
// readability first, falls back to selector-based extraction, and finally
// renders the page in a headless browser when the static HTML is too thin.
func enrichOne(ctx context.Context, article *types.Article, opts *Options) (string, error) {
	res, err := fetch.URL(ctx, article.URL, opts.Fetch)
	if err != nil {
		return "", err
	}

	text := extractText(res.HTML, article.URL)

	if fetch.ShouldUseBrowser(text) && opts.UseBrowser {
		html, berr := fetch.WithBrowser(ctx, article.URL, opts.BrowserTimeout, opts.Verbose)
		if berr == nil {
			if rendered := extractText(html, article.URL); len(rendered) > len(text) {
				text = rendered
			}
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no extractable content at %s", article.URL)
	}
	return text, nil
}

// extractText returns the best main-text extraction for the page, preferring
// readability's article detection over the generic selector walk.
func extractText(html, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err == nil {
		if art, rerr := readability.FromReader(strings.NewReader(html), parsed); rerr == nil {
			if text := strings.TrimSpace(art.TextContent); text != "" {
				return text
			}
		}
	}

	text, err := fetch.ExtractMainText(html, fetch.ArticleSelectors())
	if err != nil {
		return ""
	}
	return text
}

func capRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
