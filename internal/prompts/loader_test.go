package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("extraction.json", "extract-organizations")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "organisations")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("extraction.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		prompt := MustGet("qualification.json", "qualify-organization")
		assert.NotEmpty(t, prompt)
	})
}

func TestFormat(t *testing.T) {
	template := "Titre: {{.Title}}\nSource: {{.Source}}"
	data := map[string]string{
		"Title":  "La FTQ dénonce le projet de loi",
		"Source": "Le Devoir",
	}

	result := Format(template, data)
	assert.Equal(t, "Titre: La FTQ dénonce le projet de loi\nSource: Le Devoir", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	data := map[string]string{}

	result := Format(template, data)
	assert.Equal(t, template, result) // Placeholder remains
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("qualification.json")
	require.NoError(t, err)
	assert.Contains(t, keys, "qualify-organization")
	assert.Contains(t, keys, "rescore-candidates")
}

func TestCaching(t *testing.T) {
	ClearCache()

	// First call loads from file
	prompt1, err := Get("triage.json", "score-relevance")
	require.NoError(t, err)

	// Second call should use cache
	prompt2, err := Get("triage.json", "score-relevance")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
