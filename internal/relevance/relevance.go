// Package relevance implements the triage stage: a cheap model pass that
// scores every collected headline so only articles likely to surface public
// affairs activity reach the expensive extraction stage.
package relevance

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/opubliq/leadgen/internal/llm"
	"github.com/opubliq/leadgen/internal/prompts"
	"github.com/opubliq/leadgen/internal/types"
)

// DefaultThreshold is the minimum relevance score an article needs to be
// retained for extraction.
const DefaultThreshold = 4

// NeutralScore is assigned when the model cannot be reached for an article.
// It sits below the default threshold, so a flaky model degrades to fewer
// articles rather than to garbage extractions.
const NeutralScore = 3

// DefaultConcurrency is the number of articles scored in parallel.
const DefaultConcurrency = 4

// Options configures a triage pass.
type Options struct {
	Threshold   int
	Concurrency int
	Policy      llm.RetryPolicy
}

// DefaultOptions returns the defaults used by the CLI.
func DefaultOptions() *Options {
	return &Options{
		Threshold:   DefaultThreshold,
		Concurrency: DefaultConcurrency,
		Policy:      llm.DefaultRetryPolicy(),
	}
}

// Failure records one article the model could not score.
type Failure struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// Result summarizes one triage pass.
type Result struct {
	Scored   int       `json:"scored"`
	Failed   int       `json:"failed"`
	Retained int       `json:"retained"`
	Failures []Failure `json:"failures,omitempty"`
}

type scoreResponse struct {
	Score int `json:"score"`
}

// ScoreArticles asks the model to rate every article's relevance and writes
// the score into the article in place. A failed call assigns NeutralScore and
// is recorded; it never aborts the pass. The only returned error is context
// cancellation.
func ScoreArticles(ctx context.Context, client llm.Client, articles []types.Article, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	template := prompts.MustGet("triage.json", "score-relevance")
	failures := make([]*Failure, len(articles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range articles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			prompt := prompts.Format(template, map[string]string{
				"Title":  articles[i].Title,
				"Source": articles[i].Source,
			})

			var resp scoreResponse
			if err := llm.CallJSON(gctx, client, prompt, llm.TierLite, opts.Policy, &resp); err != nil {
				articles[i].Relevance = NeutralScore
				failures[i] = &Failure{URL: articles[i].URL, Reason: err.Error()}
				return nil
			}
			articles[i].Relevance = clampScore(resp.Score)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{}
	for i, f := range failures {
		if f != nil {
			result.Failed++
			result.Failures = append(result.Failures, *f)
		} else {
			result.Scored++
		}
		if articles[i].Relevance >= threshold(opts) {
			result.Retained++
		}
	}
	return result, nil
}

// Filter returns the articles whose relevance meets the threshold, in their
// original order.
func Filter(articles []types.Article, thresholdScore int) []types.Article {
	var kept []types.Article
	for _, a := range articles {
		if a.Relevance >= thresholdScore {
			kept = append(kept, a)
		}
	}
	return kept
}

func threshold(opts *Options) int {
	if opts.Threshold <= 0 {
		return DefaultThreshold
	}
	return opts.Threshold
}

// clampScore forces a model score into the 1-5 band. Models occasionally
// answer 0 or 10 despite the prompt.
func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 5 {
		return 5
	}
	return score
}

// Describe renders a short human-readable summary for CLI output.
func (r *Result) Describe() string {
	return fmt.Sprintf("%d scored, %d failed, %d retained", r.Scored, r.Failed, r.Retained)
}
