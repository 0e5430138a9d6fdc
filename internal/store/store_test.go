package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opubliq/leadgen/internal/types"
)

func TestRegistryRoundTrip(t *testing.T) {
	s := testStore(t)

	registry := &types.OrganizationRegistry{
		CollectionDate: testDate,
		Organizations: []types.Organization{
			{Name: "Fédération des médecins", Key: "federation des medecins", Type: types.OrgTypeAssociation, Mentions: 2, Status: types.StatusExtracted},
		},
		FailedChunks: []types.ChunkFailure{
			{Chunk: 3, ArticleURLs: []string{"https://example.com/x"}, Reason: "model call failed after 3 attempts"},
		},
	}

	require.NoError(t, s.WriteRegistry(registry))

	loaded, err := s.ReadRegistry(testDate)
	require.NoError(t, err)
	assert.Equal(t, registry, loaded)
}

func TestRegistryOverwriteReplacesPartition(t *testing.T) {
	s := testStore(t)

	first := &types.OrganizationRegistry{
		CollectionDate: testDate,
		Organizations:  []types.Organization{{Name: "A", Key: "a"}, {Name: "B", Key: "b"}},
	}
	require.NoError(t, s.WriteRegistry(first))

	// A re-run fully replaces the partition, never appends.
	second := &types.OrganizationRegistry{
		CollectionDate: testDate,
		Organizations:  []types.Organization{{Name: "C", Key: "c"}},
	}
	require.NoError(t, s.WriteRegistry(second))

	loaded, err := s.ReadRegistry(testDate)
	require.NoError(t, err)
	require.Len(t, loaded.Organizations, 1)
	assert.Equal(t, "C", loaded.Organizations[0].Name)
}

func TestLeadsRoundTrip(t *testing.T) {
	s := testStore(t)

	leads := &types.QualifiedLeadList{
		CollectionDate: testDate,
		TotalAnalyzed:  12,
		Threshold:      6,
		Leads: []types.QualifiedLead{
			{
				Organization: types.Organization{Name: "FTQ", Key: "ftq", Type: types.OrgTypeSyndicat},
				Score:        9,
				Rationale:    "Syndicat en négociation active",
				Urgency:      types.UrgencyHigh,
				Service:      "affaires publiques",
			},
		},
		Unscored: []types.UnscoredOrg{{Name: "Coalition X", Reason: "model call timed out"}},
	}

	require.NoError(t, s.WriteLeads(leads))

	loaded, err := s.ReadLeads(testDate)
	require.NoError(t, err)
	assert.Equal(t, leads, loaded)
}

func TestRunStatus(t *testing.T) {
	s := testStore(t)

	// No marker yet: nil, not an error.
	status, err := s.ReadRunStatus(testDate)
	require.NoError(t, err)
	assert.Nil(t, status)

	written := &types.RunStatus{
		CollectionDate: testDate,
		Stage:          "qualify",
		Status:         types.RunFailed,
		Diagnostic:     "LLM service unreachable",
		FinishedAt:     time.Date(2025, 11, 6, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.WriteRunStatus(written))

	status, err = s.ReadRunStatus(testDate)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, types.RunFailed, status.Status)
	assert.Equal(t, "LLM service unreachable", status.Diagnostic)
}

func TestSummariesRoundTrip(t *testing.T) {
	s := testStore(t)

	summaries := []types.ArticleSummary{
		{URL: "https://example.com/a", Title: "Titre", Summary: "Résumé de l'article."},
	}
	require.NoError(t, s.WriteSummaries(testDate, summaries))

	loaded, err := s.ReadSummaries(testDate)
	require.NoError(t, err)
	assert.Equal(t, summaries, loaded)
}

func TestReadArticles_MissingPartition(t *testing.T) {
	s := testStore(t)

	_, err := s.ReadArticles("2030-01-01")
	require.Error(t, err)
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate("2025-11-06"))
	assert.Error(t, ValidateDate("2025/11/06"))
	assert.Error(t, ValidateDate("novembre"))
	assert.Error(t, ValidateDate(""))
}
