package db

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_InvalidURL(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, "not-a-connection-string")
	require.Error(t, err)
}

func TestSchemaCoversBothTables(t *testing.T) {
	assert.True(t, strings.Contains(Schema, "leadgen_runs"))
	assert.True(t, strings.Contains(Schema, "leadgen_artifacts"))
	assert.True(t, strings.Contains(Schema, "ON DELETE CASCADE"),
		"deleting a run must delete its artifacts")
}
