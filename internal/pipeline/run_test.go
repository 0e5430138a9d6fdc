package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opubliq/leadgen/internal/feeds"
	"github.com/opubliq/leadgen/internal/llm"
	"github.com/opubliq/leadgen/internal/store"
	"github.com/opubliq/leadgen/internal/types"
)

const testDate = "2025-11-06"

// MockLLMClient implements llm.Client, answering each pipeline stage by
// recognizing its prompt.
type MockLLMClient struct {
	ExtractionJSON string
	FailTriage     bool
}

func (m *MockLLMClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	switch {
	case tier == llm.TierAdvanced:
		return `{"scores": [{"name": "Coalition santé", "score": 9}, {"name": "FTQ", "score": 7}]}`, nil
	case strings.Contains(prompt, "Critères de pertinence"):
		if m.FailTriage {
			return "", fmt.Errorf("service unavailable")
		}
		return `{"score": 5}`, nil
	case strings.Contains(prompt, "ORGANISATION À ÉVALUER"):
		if strings.Contains(prompt, "NOM: FTQ") {
			return `{"is_lead": true, "score": 7, "rationale": "mobilisation active", "service": "affaires publiques", "urgency": "moyenne"}`, nil
		}
		return `{"is_lead": true, "score": 8, "rationale": "opposition structurée", "service": "sondage", "urgency": "haute"}`, nil
	case strings.Contains(prompt, "ARTICLES:"):
		return m.ExtractionJSON, nil
	default:
		return "", fmt.Errorf("unexpected prompt")
	}
}

func (m *MockLLMClient) GetModel(_ llm.ModelTier) string { return "mock-model" }
func (m *MockLLMClient) Close() error                    { return nil }

func withTestBaseURL(t *testing.T, url string) {
	t.Helper()
	old := feeds.BaseURL
	feeds.BaseURL = url
	t.Cleanup(func() { feeds.BaseURL = old })
}

func articleHTML(body string) string {
	return fmt.Sprintf(`<html><body><article><p>%s</p></article></body></html>`,
		strings.Repeat(body+" ", 30))
}

// newsServer serves both the RSS feeds and the linked article pages.
func newsServer(t *testing.T) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/article/sante"):
			fmt.Fprint(w, articleHTML("La Coalition santé réclame un réinvestissement massif du ministère."))
		case strings.HasPrefix(r.URL.Path, "/article/travail"):
			fmt.Fprint(w, articleHTML("La FTQ dénonce le projet de loi sur le régime de retraite."))
		default:
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Recherche</title>
<item><title>La Coalition santé interpelle Québec</title><link>%s/article/sante</link><pubDate>Wed, 05 Nov 2025 10:00:00 GMT</pubDate><source url="https://ledevoir.com">Le Devoir</source></item>
<item><title>La FTQ s'oppose au projet de loi</title><link>%s/article/travail</link><pubDate>Wed, 05 Nov 2025 11:00:00 GMT</pubDate><source url="https://lapresse.ca">La Presse</source></item>
</channel></rss>`, server.URL, server.URL)
		}
	}))
	return server
}

func extractionJSON(serverURL string) string {
	return fmt.Sprintf(`{"articles": [
		{"url": "%s/article/sante", "summary": "La Coalition santé demande un réinvestissement.",
		 "organizations": [
			{"name": "Coalition santé", "type": "coalition", "action": "réclame", "issue": "financement de la santé"},
			{"name": "Ministère de la Santé", "type": "ministère", "action": "annonce", "issue": "budget"}]},
		{"url": "%s/article/travail", "summary": "La FTQ s'oppose au projet de loi.",
		 "organizations": [
			{"name": "FTQ", "type": "syndicat", "action": "dénonce", "issue": "régime de retraite"}]}
	]}`, serverURL, serverURL)
}

func TestRun_FullPipeline(t *testing.T) {
	server := newsServer(t)
	defer server.Close()
	withTestBaseURL(t, server.URL)

	dataDir := t.TempDir()
	client := &MockLLMClient{ExtractionJSON: extractionJSON(server.URL)}

	err := Run(context.Background(), RunOptions{
		CollectionDate: testDate,
		DataDir:        dataDir,
		Client:         client,
		Signals:        []feeds.Signal{{Name: "test_signal", Query: "affaires publiques"}},
	})
	require.NoError(t, err)

	st := store.New(dataDir)

	status, err := st.ReadRunStatus(testDate)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, types.RunCompleted, status.Status)
	assert.Equal(t, 2, status.Counts["articles_ingested"])
	assert.Equal(t, 2, status.Counts["articles_relevant"])

	registry, err := st.ReadRegistry(testDate)
	require.NoError(t, err)
	names := make([]string, 0, len(registry.Organizations))
	for _, org := range registry.Organizations {
		names = append(names, org.Name)
	}
	assert.Contains(t, names, "Coalition santé")
	assert.Contains(t, names, "FTQ")

	leads, err := st.ReadLeads(testDate)
	require.NoError(t, err)
	require.Len(t, leads.Leads, 2)
	assert.Equal(t, "Coalition santé", leads.Leads[0].Organization.Name, "rescore ranks the coalition first")
	assert.Equal(t, 9.0, leads.Leads[0].Score)
	assert.Equal(t, 8.0, leads.Leads[0].InitialScore)
	assert.Contains(t, leads.Excluded, "Ministère de la Santé", "government bodies are excluded by class")

	summaries, err := st.ReadSummaries(testDate)
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
}

func TestRun_EmptyLakeIsFailedRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()
	withTestBaseURL(t, server.URL)

	dataDir := t.TempDir()

	err := Run(context.Background(), RunOptions{
		CollectionDate: testDate,
		DataDir:        dataDir,
		Client:         &MockLLMClient{},
		Signals:        []feeds.Signal{{Name: "test_signal", Query: "affaires publiques"}},
	})
	require.Error(t, err)

	status, serr := store.New(dataDir).ReadRunStatus(testDate)
	require.NoError(t, serr)
	require.NotNil(t, status, "a failed run must leave an explicit marker")
	assert.Equal(t, types.RunFailed, status.Status)
	assert.Equal(t, StageScrape, status.Stage)
	assert.NotEmpty(t, status.Diagnostic)
}

func TestRun_ModelUnreachableIsFailedRun(t *testing.T) {
	server := newsServer(t)
	defer server.Close()
	withTestBaseURL(t, server.URL)

	dataDir := t.TempDir()

	err := Run(context.Background(), RunOptions{
		CollectionDate: testDate,
		DataDir:        dataDir,
		Client:         &MockLLMClient{FailTriage: true},
		Signals:        []feeds.Signal{{Name: "test_signal", Query: "affaires publiques"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "triage")

	status, serr := store.New(dataDir).ReadRunStatus(testDate)
	require.NoError(t, serr)
	require.NotNil(t, status)
	assert.Equal(t, types.RunFailed, status.Status)
}

func TestRun_InvalidDate(t *testing.T) {
	err := Run(context.Background(), RunOptions{
		CollectionDate: "06/11/2025",
		DataDir:        t.TempDir(),
		Client:         &MockLLMClient{},
	})
	require.Error(t, err)
}

func TestRun_MissingClient(t *testing.T) {
	err := Run(context.Background(), RunOptions{
		CollectionDate: testDate,
		DataDir:        t.TempDir(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM client")
}
