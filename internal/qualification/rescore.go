package qualification

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/opubliq/leadgen/internal/extraction"
	"github.com/opubliq/leadgen/internal/llm"
	"github.com/opubliq/leadgen/internal/prompts"
	"github.com/opubliq/leadgen/internal/types"
)

type rescoreEntry struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type rescoreResponse struct {
	Scores []rescoreEntry `json:"scores"`
}

// Rescore runs the global comparative pass over the scored candidates. The
// per-organization scores were assigned independently and tend to cluster;
// this pass sees the whole cohort at once and spreads it across the 6-10
// band. For each candidate the model covers, Score is overwritten with the
// comparative value and the absolute score is preserved as InitialScore.
//
// Rescore is best-effort. On model failure, or for candidates the response
// does not mention, the absolute scores stand untouched.
func Rescore(ctx context.Context, client llm.Client, candidates []*types.QualifiedLead, policy llm.RetryPolicy) {
	template := prompts.MustGet("qualification.json", "rescore-candidates")
	prompt := prompts.Format(template, map[string]string{
		"Candidates": renderCandidates(candidates),
	})

	var resp rescoreResponse
	if err := llm.CallJSON(ctx, client, prompt, llm.TierAdvanced, policy, &resp); err != nil {
		log.Printf("[WARNING] global rescore failed, keeping absolute scores: %v", err)
		return
	}

	byKey := make(map[string]*types.QualifiedLead, len(candidates))
	for _, c := range candidates {
		byKey[extraction.NormalizeKey(c.Organization.Name)] = c
	}

	for _, entry := range resp.Scores {
		c, ok := byKey[extraction.NormalizeKey(entry.Name)]
		if !ok {
			continue
		}
		c.InitialScore = c.Score
		c.Score = clampScore(entry.Score)
	}
}

func renderCandidates(candidates []*types.QualifiedLead) string {
	var b strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s (type: %s, mentions: %d)\n", i+1,
			c.Organization.Name, c.Organization.Type, c.Organization.Mentions)
		fmt.Fprintf(&b, "   Score initial: %.1f | Urgence: %s\n", c.Score, c.Urgency)
		if c.Rationale != "" {
			fmt.Fprintf(&b, "   Justification: %s\n", c.Rationale)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
