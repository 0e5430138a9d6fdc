// Package extraction turns enriched articles into a deduplicated registry of
// organizations acting in public affairs. Articles are sent to the model in
// chunks so one bad batch cannot sink a whole collection date.
package extraction

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/opubliq/leadgen/internal/llm"
	"github.com/opubliq/leadgen/internal/prompts"
	"github.com/opubliq/leadgen/internal/types"
)

// DefaultChunkSize is the number of articles per model call. Larger chunks
// save calls but degrade extraction quality on long article bodies.
const DefaultChunkSize = 5

// DefaultConcurrency is the number of chunks processed in parallel.
const DefaultConcurrency = 4

// Options configures an extraction pass.
type Options struct {
	ChunkSize   int
	Concurrency int
	Policy      llm.RetryPolicy
}

// DefaultOptions returns the defaults used by the CLI.
func DefaultOptions() *Options {
	return &Options{
		ChunkSize:   DefaultChunkSize,
		Concurrency: DefaultConcurrency,
		Policy:      llm.DefaultRetryPolicy(),
	}
}

type orgExtraction struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Action  string `json:"action"`
	Issue   string `json:"issue"`
	Quote   string `json:"quote"`
	Summary string `json:"summary"`
}

type articleExtraction struct {
	URL           string          `json:"url"`
	Summary       string          `json:"summary"`
	Organizations []orgExtraction `json:"organizations"`
}

type extractionResponse struct {
	Articles []articleExtraction `json:"articles"`
}

// Extract runs the model over the articles in chunks and merges the results
// into one registry for the collection date. A chunk that exhausts its
// retries is recorded in FailedChunks; its articles are simply absent from
// the registry. Extract returns an error only when the model produced
// nothing at all (every chunk failed) or the context was cancelled.
func Extract(ctx context.Context, client llm.Client, articles []types.Article, collectionDate string, opts *Options) (*types.OrganizationRegistry, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	registry := &types.OrganizationRegistry{
		CollectionDate: collectionDate,
		Organizations:  []types.Organization{},
	}
	if len(articles) == 0 {
		registry.Stats = map[string]int{"articles_processed": 0, "chunks": 0, "chunks_failed": 0, "organizations": 0}
		return registry, nil
	}

	template := prompts.MustGet("extraction.json", "extract-organizations")
	chunks := chunkArticles(articles, chunkSize)

	responses := make([]*extractionResponse, len(chunks))
	failures := make([]*types.ChunkFailure, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, chunk := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			prompt := prompts.Format(template, map[string]string{
				"Articles": renderChunk(chunk),
			})

			var resp extractionResponse
			if err := llm.CallJSON(gctx, client, prompt, llm.TierStandard, opts.Policy, &resp); err != nil {
				failures[i] = &types.ChunkFailure{
					Chunk:       i,
					ArticleURLs: chunkURLs(chunk),
					Reason:      err.Error(),
				}
				return nil
			}
			responses[i] = &resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merger := newMerger(articles)
	succeeded := 0
	for i, resp := range responses {
		if resp == nil {
			registry.FailedChunks = append(registry.FailedChunks, *failures[i])
			continue
		}
		succeeded++
		merger.addResponse(resp)
	}

	registry.Organizations = merger.organizations()
	registry.Summaries = merger.summaries()
	registry.Stats = map[string]int{
		"articles_processed": len(articles),
		"chunks":             len(chunks),
		"chunks_failed":      len(registry.FailedChunks),
		"organizations":      len(registry.Organizations),
	}

	if succeeded == 0 {
		return registry, fmt.Errorf("all %d extraction chunks failed", len(chunks))
	}
	return registry, nil
}

func chunkArticles(articles []types.Article, size int) [][]types.Article {
	var chunks [][]types.Article
	for start := 0; start < len(articles); start += size {
		end := min(start+size, len(articles))
		chunks = append(chunks, articles[start:end])
	}
	return chunks
}

func chunkURLs(chunk []types.Article) []string {
	urls := make([]string, len(chunk))
	for i, a := range chunk {
		urls[i] = a.URL
	}
	return urls
}

// renderChunk lays the articles out as numbered blocks for the prompt.
func renderChunk(chunk []types.Article) string {
	var b strings.Builder
	for i, a := range chunk {
		fmt.Fprintf(&b, "--- ARTICLE %d ---\n", i+1)
		fmt.Fprintf(&b, "URL: %s\n", a.URL)
		fmt.Fprintf(&b, "Titre: %s\n", a.Title)
		if a.Source != "" {
			fmt.Fprintf(&b, "Source: %s\n", a.Source)
		}
		fmt.Fprintf(&b, "Contenu:\n%s\n\n", a.Body)
	}
	return strings.TrimRight(b.String(), "\n")
}
