package extraction

import (
	"sort"
	"strings"

	"github.com/opubliq/leadgen/internal/types"
)

// merger aggregates per-article extractions into deduplicated organizations.
// Two mentions merge when their normalized keys match; the first-seen casing
// of the name is kept for display.
type merger struct {
	byURL     map[string]*types.Article
	orgs      map[string]*types.Organization
	orgOrder []string
	rows     []types.ArticleSummary
	seenSumm map[string]bool
}

func newMerger(articles []types.Article) *merger {
	byURL := make(map[string]*types.Article, len(articles))
	for i := range articles {
		byURL[articles[i].URL] = &articles[i]
	}
	return &merger{
		byURL:    byURL,
		orgs:     make(map[string]*types.Organization),
		seenSumm: make(map[string]bool),
	}
}

func (m *merger) addResponse(resp *extractionResponse) {
	for _, art := range resp.Articles {
		m.addArticle(art)
	}
}

func (m *merger) addArticle(art articleExtraction) {
	source := m.byURL[art.URL]

	if summary := strings.TrimSpace(art.Summary); summary != "" && !m.seenSumm[art.URL] {
		m.seenSumm[art.URL] = true
		entry := types.ArticleSummary{URL: art.URL, Summary: summary}
		if source != nil {
			entry.Title = source.Title
			entry.Source = source.Source
			entry.Signal = source.Signal
		}
		m.rows = append(m.rows, entry)
	}

	for _, extracted := range art.Organizations {
		name := strings.TrimSpace(extracted.Name)
		if name == "" {
			continue
		}
		key := NormalizeKey(name)

		org, exists := m.orgs[key]
		if !exists {
			org = &types.Organization{
				Name:   name,
				Key:    key,
				Type:   types.NormalizeOrgType(extracted.Type),
				Status: types.StatusExtracted,
			}
			m.orgs[key] = org
			m.orgOrder = append(m.orgOrder, key)
		}

		org.Mentions++
		addIssue(org, extracted.Issue)
		addStance(org, extracted.Action)

		ref := types.SourceRef{
			ArticleURL: art.URL,
			Action:     strings.TrimSpace(extracted.Action),
			Issue:      strings.TrimSpace(extracted.Issue),
			Quote:      strings.TrimSpace(extracted.Quote),
			Summary:    strings.TrimSpace(extracted.Summary),
		}
		if source != nil {
			ref.Title = source.Title
			ref.Source = source.Source
			ref.Signal = source.Signal
		}
		org.Sources = append(org.Sources, ref)
	}
}

// organizations returns the merged entries, most-mentioned first so the
// noisiest actors of the day lead the registry. Ties keep first-seen order.
func (m *merger) organizations() []types.Organization {
	out := make([]types.Organization, 0, len(m.orgOrder))
	for _, key := range m.orgOrder {
		out = append(out, *m.orgs[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Mentions > out[j].Mentions
	})
	return out
}

func (m *merger) summaries() []types.ArticleSummary {
	return m.rows
}

func addIssue(org *types.Organization, issue string) {
	issue = strings.TrimSpace(issue)
	if issue == "" {
		return
	}
	for _, existing := range org.Issues {
		if strings.EqualFold(existing, issue) {
			return
		}
	}
	org.Issues = append(org.Issues, issue)
}

// addStance accumulates the distinct actions an organization took across
// articles into one display string.
func addStance(org *types.Organization, action string) {
	action = strings.TrimSpace(action)
	if action == "" {
		return
	}
	for _, existing := range strings.Split(org.Stance, "; ") {
		if strings.EqualFold(existing, action) {
			return
		}
	}
	if org.Stance == "" {
		org.Stance = action
	} else {
		org.Stance += "; " + action
	}
}
