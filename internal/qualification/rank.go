package qualification

import (
	"sort"

	"github.com/opubliq/leadgen/internal/types"
)

// rank filters the scored candidates against the threshold, orders them by
// score descending with urgency then original extraction order as
// tie-breakers, truncates to topN, and marks the survivors qualified.
//
// The input slice is in extraction order; the stable sort keeps that order
// as the final tie-breaker.
func rank(scored []*types.QualifiedLead, threshold float64, topN int) []types.QualifiedLead {
	if topN <= 0 {
		topN = DefaultTopN
	}

	var kept []types.QualifiedLead
	for _, c := range scored {
		if c.Score >= threshold {
			kept = append(kept, *c)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return kept[i].Urgency.Rank() > kept[j].Urgency.Rank()
	})

	if len(kept) > topN {
		kept = kept[:topN]
	}

	for i := range kept {
		kept[i].Organization.Status = types.StatusQualified
	}
	if kept == nil {
		kept = []types.QualifiedLead{}
	}
	return kept
}
