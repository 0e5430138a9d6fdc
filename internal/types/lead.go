package types

import "strings"

// Urgency is the lead urgency tier assigned by the qualifier.
type Urgency string

// Urgency tier constants.
const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// Rank orders urgency tiers for tie-breaking: high > medium > low. Unknown
// values rank below low so a malformed tier never wins a tie.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyHigh:
		return 3
	case UrgencyMedium:
		return 2
	case UrgencyLow:
		return 1
	default:
		return 0
	}
}

// NormalizeUrgency maps model output (French or English) to a tier.
func NormalizeUrgency(raw string) Urgency {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high", "haute", "élevée", "elevee":
		return UrgencyHigh
	case "medium", "moyenne":
		return UrgencyMedium
	case "low", "basse", "faible":
		return UrgencyLow
	default:
		return UrgencyLow
	}
}

// QualifiedLead is one organization that passed the qualification filter.
// Score is on a 0-10 scale. When the global rescore pass runs, Score holds the
// refined comparative value and InitialScore preserves the absolute score from
// the independent per-organization pass.
type QualifiedLead struct {
	Organization Organization `json:"organization"`
	Score        float64      `json:"score"`
	InitialScore float64      `json:"initial_score,omitempty"`
	Rationale    string       `json:"rationale"`
	Urgency      Urgency      `json:"urgency"`
	Service      string       `json:"service,omitempty"`
	Note         string       `json:"note,omitempty"`
}

// UnscoredOrg records an organization whose qualification call failed. It is
// excluded from the lead list but surfaced so a short list is distinguishable
// from a silently lossy one.
type UnscoredOrg struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// QualifiedLeadList is the Lead Qualifier's output artifact for one collection
// date, sorted by score descending with urgency then extraction order as
// tie-breakers. Read-only downstream.
type QualifiedLeadList struct {
	CollectionDate string          `json:"collection_date"`
	TotalAnalyzed  int             `json:"total_analyzed"`
	Threshold      float64         `json:"threshold"`
	RubricVersion  string          `json:"rubric_version,omitempty"`
	Leads          []QualifiedLead `json:"leads"`
	Unscored       []UnscoredOrg   `json:"unscored,omitempty"`
	Excluded       []string        `json:"excluded,omitempty"`
}
