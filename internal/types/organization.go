package types

import "strings"

// OrgType is the controlled set of organization categories the extractor emits.
type OrgType string

// Organization type constants.
const (
	OrgTypeAssociation OrgType = "association"
	OrgTypeSyndicat    OrgType = "syndicat"
	OrgTypeOrdre       OrgType = "ordre professionnel"
	OrgTypeOBNL        OrgType = "obnl"
	OrgTypeCoalition   OrgType = "coalition"
	OrgTypeParti       OrgType = "parti politique"
	OrgTypeGouv        OrgType = "gouvernement"
	OrgTypeEntreprise  OrgType = "entreprise"
	OrgTypeOther       OrgType = "other"
)

// NormalizeOrgType maps a free-text type string from the model to the
// controlled set. Unrecognized values fall back to OrgTypeOther rather than
// failing the extraction.
func NormalizeOrgType(raw string) OrgType {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "syndicat"), strings.Contains(s, "fédération des travailleurs"):
		return OrgTypeSyndicat
	case strings.Contains(s, "ordre"):
		return OrgTypeOrdre
	case strings.Contains(s, "obnl"), strings.Contains(s, "sans but lucratif"), strings.Contains(s, "organisme communautaire"):
		return OrgTypeOBNL
	case strings.Contains(s, "coalition"):
		return OrgTypeCoalition
	case strings.Contains(s, "parti"):
		return OrgTypeParti
	case strings.Contains(s, "gouvernement"), strings.Contains(s, "ministère"), strings.Contains(s, "ministere"),
		strings.Contains(s, "municipalité"), strings.Contains(s, "municipalite"), strings.Contains(s, "organisme public"):
		return OrgTypeGouv
	case strings.Contains(s, "entreprise"), strings.Contains(s, "compagnie"), strings.Contains(s, "société"):
		return OrgTypeEntreprise
	case strings.Contains(s, "association"), strings.Contains(s, "fédération"), strings.Contains(s, "federation"),
		strings.Contains(s, "regroupement"):
		return OrgTypeAssociation
	default:
		return OrgTypeOther
	}
}

// OrgStatus tracks an organization through the pipeline state machine:
// mentioned -> extracted -> {unscored | scored} -> {qualified | excluded}.
type OrgStatus string

// Organization status constants.
const (
	StatusMentioned OrgStatus = "mentioned"
	StatusExtracted OrgStatus = "extracted"
	StatusScored    OrgStatus = "scored"
	StatusUnscored  OrgStatus = "unscored"
	StatusQualified OrgStatus = "qualified"
	StatusExcluded  OrgStatus = "excluded"
)

// SourceRef ties an organization back to one article that mentioned it,
// together with what the organization did there.
type SourceRef struct {
	ArticleURL string `json:"article_url"`
	Title      string `json:"title,omitempty"`
	Source     string `json:"source,omitempty"`
	Signal     string `json:"signal,omitempty"`
	Action     string `json:"action,omitempty"`
	Issue      string `json:"issue,omitempty"`
	Quote      string `json:"quote,omitempty"`
	Summary    string `json:"summary,omitempty"`
}

// Organization is one deduplicated entry in the registry for a collection
// date. Name keeps the first-seen casing; Key is the normalized dedup key.
type Organization struct {
	Name     string      `json:"name"`
	Key      string      `json:"key"`
	Type     OrgType     `json:"type"`
	Stance   string      `json:"stance,omitempty"`
	Mentions int         `json:"mentions"`
	Issues   []string    `json:"issues,omitempty"`
	Sources  []SourceRef `json:"sources"`
	Status   OrgStatus   `json:"status"`
}

// ChunkFailure records one extraction chunk that exhausted its retries.
type ChunkFailure struct {
	Chunk       int      `json:"chunk"`
	ArticleURLs []string `json:"article_urls"`
	Reason      string   `json:"reason"`
}

// OrganizationRegistry is the Organization Extractor's output artifact for one
// collection date. The next run supersedes it entirely; registries are never
// merged across dates. Organization order carries no meaning beyond display.
type OrganizationRegistry struct {
	CollectionDate string           `json:"collection_date"`
	Organizations  []Organization   `json:"organizations"`
	FailedChunks   []ChunkFailure   `json:"failed_chunks,omitempty"`
	Summaries      []ArticleSummary `json:"summaries,omitempty"`
	Stats          map[string]int   `json:"stats,omitempty"`
}
