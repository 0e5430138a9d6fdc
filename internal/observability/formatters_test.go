package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opubliq/leadgen/internal/types"
)

func TestPrintIngestResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintIngestResult(&types.StoreResult{
		AcceptedCount:   12,
		RejectedCount:   2,
		RejectedReasons: []string{"entry 3: missing url", "entry 7: missing title"},
	})

	out := buf.String()
	assert.Contains(t, out, "INGESTED ARTICLES")
	assert.Contains(t, out, "Accepted: 12")
	assert.Contains(t, out, "Rejected: 2")
	assert.Contains(t, out, "missing url")
}

func TestPrintIngestResult_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintIngestResult(nil)
	assert.Empty(t, buf.String())
}

func TestPrintRegistry(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRegistry(&types.OrganizationRegistry{
		CollectionDate: "2025-11-06",
		Organizations: []types.Organization{
			{Name: "FTQ", Type: types.OrgTypeSyndicat, Mentions: 3, Issues: []string{"santé"}},
			{Name: "Coalition climat", Type: types.OrgTypeCoalition, Mentions: 1},
		},
		FailedChunks: []types.ChunkFailure{{Chunk: 2, Reason: "quota"}},
	})

	out := buf.String()
	assert.Contains(t, out, "ORGANIZATION REGISTRY")
	assert.Contains(t, out, "FTQ")
	assert.Contains(t, out, "Mentions: 3")
	assert.Contains(t, out, "1 extraction chunks failed")
}

func TestPrintLeadList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintLeadList(&types.QualifiedLeadList{
		CollectionDate: "2025-11-06",
		TotalAnalyzed:  8,
		Threshold:      6,
		Leads: []types.QualifiedLead{
			{
				Organization: types.Organization{Name: "FTQ", Type: types.OrgTypeSyndicat},
				Score:        9.5,
				InitialScore: 8,
				Urgency:      types.UrgencyHigh,
				Service:      "affaires publiques",
			},
		},
		Unscored: []types.UnscoredOrg{{Name: "Org X", Reason: "timeout"}},
	})

	out := buf.String()
	assert.Contains(t, out, "QUALIFIED LEADS")
	assert.Contains(t, out, "FTQ")
	assert.Contains(t, out, "Score: 9.5 (initial: 8.0)")
	assert.Contains(t, out, "1 organizations unscored")
}

func TestPrintLeadList_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintLeadList(&types.QualifiedLeadList{TotalAnalyzed: 4, Threshold: 6})

	out := buf.String()
	assert.Contains(t, out, "No leads passed the threshold")
	assert.Contains(t, out, "Analyzed: 4")
}

func TestPrintRunStatus(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunStatus(&types.RunStatus{
		CollectionDate: "2025-11-06",
		Status:         types.RunCompleted,
	})
	assert.Contains(t, buf.String(), "RUN COMPLETED (2025-11-06)")

	buf.Reset()
	p.PrintRunStatus(&types.RunStatus{
		CollectionDate: "2025-11-06",
		Stage:          "extract",
		Status:         types.RunFailed,
		Diagnostic:     "all chunks failed",
	})
	assert.Contains(t, buf.String(), "RUN FAILED")
	assert.Contains(t, buf.String(), "all chunks failed")
}
