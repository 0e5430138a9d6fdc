package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTestBaseURL(t *testing.T, url string) {
	t.Helper()
	old := BaseURL
	BaseURL = url
	t.Cleanup(func() { BaseURL = old })
}

func TestScrape_WritesOneFilePerSignal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer server.Close()
	withTestBaseURL(t, server.URL)

	signals := []Signal{
		{Name: "organisations_reactives", Query: "association Québec"},
		{Name: "gestion_crise", Query: "controverse Québec"},
	}

	dir := t.TempDir()
	result, err := Scrape(context.Background(), dir, signals, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Fetched)
	assert.Empty(t, result.Failures)

	for _, signal := range signals {
		data, err := os.ReadFile(filepath.Join(dir, signal.Name+".xml"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "<rss")
	}
}

func TestScrape_PartialFailureContinues(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer server.Close()
	withTestBaseURL(t, server.URL)

	signals := []Signal{
		{Name: "premier", Query: "a"},
		{Name: "second", Query: "b"},
	}

	dir := t.TempDir()
	result, err := Scrape(context.Background(), dir, signals, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Fetched)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "premier")
}

func TestScrape_AllSignalsFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()
	withTestBaseURL(t, server.URL)

	result, err := Scrape(context.Background(), t.TempDir(), []Signal{{Name: "seul", Query: "q"}}, nil)
	require.Error(t, err)
	assert.Equal(t, 0, result.Fetched)
	assert.Contains(t, err.Error(), "all 1 signal feeds failed")
}
