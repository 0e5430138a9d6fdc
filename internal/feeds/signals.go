// Package feeds fetches and parses the Google News RSS signals that feed the
// pipeline. Each signal is a saved search tuned to surface a category of
// public-affairs activity by Quebec organizations.
package feeds

import "net/url"

// Signal is one named Google News search query.
type Signal struct {
	Name        string `json:"name"`
	Query       string `json:"query"`
	Description string `json:"description"`
}

// BaseURL is the Google News RSS search endpoint. Variable so tests can point
// feeds at a local server.
var BaseURL = "https://news.google.com/rss/search"

// DefaultSignals returns the weekly signal set. Queries are scoped to the
// last 7 days so a weekly run sees exactly one collection window.
func DefaultSignals() []Signal {
	return []Signal{
		{
			Name:        "organisations_reactives",
			Query:       "(association OR fédération OR coalition) (dénonce OR réagit OR demande OR s'oppose OR appelle) Québec when:7d",
			Description: "Organisations prenant position publiquement",
		},
		{
			Name:        "enjeux_legislatifs",
			Query:       "(projet de loi OR règlement OR consultation publique OR mémoire OR commission parlementaire) (industrie OR secteur OR entreprise OR organisation) Québec when:7d",
			Description: "Organisations engagées dans processus législatifs",
		},
		{
			Name:        "financement_gouvernemental",
			Query:       "(subvention OR financement OR aide gouvernementale OR investissement public) (annonce OR obtient OR reçoit) Québec when:7d",
			Description: "Relations financières avec le gouvernement",
		},
		{
			Name:        "recrutement_affaires_publiques",
			Query:       "(embauche OR recherche OR recrutement) (affaires publiques OR relations gouvernementales OR lobbying OR communications) Québec when:7d",
			Description: "Besoins directs en services d'affaires publiques",
		},
		{
			Name:        "gestion_crise",
			Query:       "(controverse OR critique OR enquête OR scandale) (organisation OR entreprise OR association) Québec when:7d",
			Description: "Organisations en situation de crise potentielle",
		},
	}
}

// FeedURL builds the Google News RSS URL for a query, localized to
// French-Canadian results.
func FeedURL(query string) string {
	params := url.Values{}
	params.Set("hl", "fr-CA")
	params.Set("gl", "CA")
	params.Set("ceid", "CA:fr")
	params.Set("q", query)
	return BaseURL + "?" + params.Encode()
}
