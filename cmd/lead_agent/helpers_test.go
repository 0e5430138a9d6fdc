package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDate(t *testing.T) {
	date, err := resolveDate("2025-11-03")
	require.NoError(t, err)
	assert.Equal(t, "2025-11-03", date)

	_, err = resolveDate("03/11/2025")
	assert.Error(t, err)

	_, err = resolveDate("")
	assert.Error(t, err)
}

func TestResolveAPIKey_FlagWins(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")

	key, err := resolveAPIKey("from-flag")
	require.NoError(t, err)
	assert.Equal(t, "from-flag", key)
}

func TestResolveAPIKey_EnvFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")

	key, err := resolveAPIKey("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}

func TestResolveAPIKey_Missing(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := resolveAPIKey("")
	assert.ErrorContains(t, err, "GEMINI_API_KEY")
}

func TestSubcommandsRegistered(t *testing.T) {
	expected := []string{
		"scrape", "ingest", "enrich", "triage",
		"extract-orgs", "qualify-leads", "run", "schedule", "status",
	}

	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range expected {
		assert.True(t, registered[name], "command %q should be registered", name)
	}
}
