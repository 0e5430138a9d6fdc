package qualification

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/opubliq/leadgen/internal/llm"
	"github.com/opubliq/leadgen/internal/prompts"
	"github.com/opubliq/leadgen/internal/types"
)

// DefaultThreshold is the minimum qualification score a lead needs.
const DefaultThreshold = 6.0

// DefaultTopN caps the final lead list.
const DefaultTopN = 10

// DefaultConcurrency is the number of organizations scored in parallel.
const DefaultConcurrency = 4

// DefaultStageTimeout is the wall-clock budget for the whole qualification
// stage, rescore included.
const DefaultStageTimeout = 30 * time.Minute

// Options configures a qualification pass.
type Options struct {
	Rubric       *Rubric
	Threshold    float64
	TopN         int
	Concurrency  int
	Policy       llm.RetryPolicy
	StageTimeout time.Duration
	SkipRescore  bool
}

// DefaultOptions returns the defaults used by the CLI.
func DefaultOptions() *Options {
	return &Options{
		Rubric:       DefaultRubric(),
		Threshold:    DefaultThreshold,
		TopN:         DefaultTopN,
		Concurrency:  DefaultConcurrency,
		Policy:       llm.DefaultRetryPolicy(),
		StageTimeout: DefaultStageTimeout,
	}
}

type qualifyResponse struct {
	IsLead    bool    `json:"is_lead"`
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
	Service   string  `json:"service"`
	Urgency   string  `json:"urgency"`
	Note      string  `json:"note"`
}

// Qualify scores each registry organization independently, refines the scores
// with a global rescoring pass, then filters and ranks the survivors into the
// final lead list. One failed scoring call downgrades that organization to
// unscored and continues; a failed rescore leaves the absolute scores in
// place. The only returned error is context cancellation before any work.
func Qualify(ctx context.Context, client llm.Client, registry *types.OrganizationRegistry, opts *Options) (*types.QualifiedLeadList, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	rubric := opts.Rubric
	if rubric == nil {
		rubric = DefaultRubric()
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if opts.StageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.StageTimeout)
		defer cancel()
	}

	list := &types.QualifiedLeadList{
		CollectionDate: registry.CollectionDate,
		TotalAnalyzed:  len(registry.Organizations),
		Threshold:      threshold,
		RubricVersion:  rubric.Version,
		Leads:          []types.QualifiedLead{},
	}

	// Exclusion classes never reach the model. The firm cannot take them as
	// clients no matter how active they are.
	var eligible []types.Organization
	for _, org := range registry.Organizations {
		if rubric.Excludes(org.Type) {
			org.Status = types.StatusExcluded
			list.Excluded = append(list.Excluded, org.Name)
			continue
		}
		eligible = append(eligible, org)
	}

	template := prompts.MustGet("qualification.json", "qualify-organization")

	candidates := make([]*types.QualifiedLead, len(eligible))
	unscored := make([]*types.UnscoredOrg, len(eligible))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range eligible {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			org := eligible[i]
			prompt := prompts.Format(template, map[string]string{
				"Rubric":   rubric.Text,
				"Name":     org.Name,
				"Type":     string(org.Type),
				"Mentions": strconv.Itoa(org.Mentions),
				"Context":  renderContext(&org),
			})

			var resp qualifyResponse
			if err := llm.CallJSON(gctx, client, prompt, llm.TierStandard, opts.Policy, &resp); err != nil {
				unscored[i] = &types.UnscoredOrg{Name: org.Name, Reason: err.Error()}
				return nil
			}

			org.Status = types.StatusScored
			candidates[i] = &types.QualifiedLead{
				Organization: org,
				Score:        clampScore(resp.Score),
				Rationale:    resp.Rationale,
				Urgency:      types.NormalizeUrgency(resp.Urgency),
				Service:      normalizeService(resp.Service, rubric),
				Note:         resp.Note,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var scored []*types.QualifiedLead
	for i := range eligible {
		if u := unscored[i]; u != nil {
			list.Unscored = append(list.Unscored, *u)
			continue
		}
		scored = append(scored, candidates[i])
	}

	if len(eligible) > 0 && len(scored) == 0 {
		return list, fmt.Errorf("all %d qualification calls failed", len(eligible))
	}

	if !opts.SkipRescore && len(scored) >= 2 {
		// Non-fatal: the absolute scores stand when the comparative pass
		// cannot run.
		Rescore(ctx, client, scored, opts.Policy)
	}

	list.Leads = rank(scored, threshold, opts.TopN)
	return list, nil
}

// renderContext lays an organization's source references out for the prompt.
func renderContext(org *types.Organization) string {
	var b strings.Builder
	for _, ref := range org.Sources {
		fmt.Fprintf(&b, "- Article: %s", ref.Title)
		if ref.Source != "" {
			fmt.Fprintf(&b, " (%s)", ref.Source)
		}
		b.WriteString("\n")
		if ref.Action != "" || ref.Issue != "" {
			fmt.Fprintf(&b, "  Action: %s | Enjeu: %s\n", ref.Action, ref.Issue)
		}
		if ref.Quote != "" {
			fmt.Fprintf(&b, "  Extrait: %s\n", ref.Quote)
		}
		if ref.Summary != "" {
			fmt.Fprintf(&b, "  Implication: %s\n", ref.Summary)
		}
	}
	if len(org.Issues) > 0 {
		fmt.Fprintf(&b, "Enjeux récurrents: %s\n", strings.Join(org.Issues, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// normalizeService maps the model's service answer onto the rubric's
// categories. Unrecognized answers are kept verbatim rather than dropped so
// the analyst still sees the model's suggestion.
func normalizeService(raw string, rubric *Rubric) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "aucun") {
		return ""
	}
	for _, service := range rubric.Services {
		if strings.EqualFold(raw, service) {
			return service
		}
	}
	return raw
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
