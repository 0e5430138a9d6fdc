package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>bonjour</body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, result.HTML, "bonjour")
	assert.Contains(t, result.ContentType, "text/html")
}

func TestURL_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	// Result is still returned so callers can inspect the status.
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "404")
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "invalid URL", fetchErr.Message)
}

func TestExtractMainText_ArticleSelector(t *testing.T) {
	html := `<html><body>
		<nav>menu</nav>
		<article><p>La coalition dénonce le projet de loi.</p></article>
		<footer>pied de page</footer>
	</body></html>`

	text, err := ExtractMainText(html, ArticleSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "La coalition dénonce le projet de loi.")
	assert.NotContains(t, text, "menu")
	assert.NotContains(t, text, "pied de page")
}

func TestExtractMainText_BodyFallback(t *testing.T) {
	html := `<html><body><div><p>Texte sans article.</p></div></body></html>`

	text, err := ExtractMainText(html, ArticleSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Texte sans article.")
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("court"))
	assert.True(t, ShouldUseBrowser("   "))

	long := make([]byte, MinContentLength+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, ShouldUseBrowser(string(long)))
}
