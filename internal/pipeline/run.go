// Package pipeline provides the high-level orchestration for the weekly lead
// generation run: scrape, ingest, enrich, triage, extract, qualify, report.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/opubliq/leadgen/internal/db"
	"github.com/opubliq/leadgen/internal/extraction"
	"github.com/opubliq/leadgen/internal/feeds"
	"github.com/opubliq/leadgen/internal/ingestion"
	"github.com/opubliq/leadgen/internal/llm"
	"github.com/opubliq/leadgen/internal/observability"
	"github.com/opubliq/leadgen/internal/qualification"
	"github.com/opubliq/leadgen/internal/relevance"
	"github.com/opubliq/leadgen/internal/schemas"
	"github.com/opubliq/leadgen/internal/store"
	"github.com/opubliq/leadgen/internal/types"
)

// Stage names used in run status markers and persisted artifacts.
const (
	StageScrape  = "scrape"
	StageIngest  = "ingest"
	StageEnrich  = "enrich"
	StageTriage  = "triage"
	StageExtract = "extract"
	StageQualify = "qualify"
	StageReport  = "report"
)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	CollectionDate  string
	DataDir         string
	Client          llm.Client // Required: model access for triage/extraction/qualification
	Signals         []feeds.Signal
	TriageThreshold int
	LeadThreshold   float64
	TopN            int
	ChunkSize       int
	Concurrency     int
	RubricPath      string
	UseBrowser      bool
	Verbose         bool
	DatabaseURL     string
	SkipScrape      bool // Reuse an existing lake partition
}

// Run orchestrates the full lead generation pipeline for one collection date.
// Partial failures inside a stage (one feed, one article, one chunk, one
// organization) are absorbed by the stage; a fatal error writes a failed run
// status marker before returning so an empty mart is never mistaken for a
// quiet news week.
func Run(ctx context.Context, opts RunOptions) error {
	if err := store.ValidateDate(opts.CollectionDate); err != nil {
		return err
	}
	if opts.Client == nil {
		return fmt.Errorf("pipeline requires an LLM client")
	}

	printer := observability.NewPrinter(os.Stdout)
	st := store.New(opts.DataDir)

	// Initialize database connection if configured
	var database *db.DB
	var runID uuid.UUID
	if opts.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without database persistence...\n")
			database = nil
		} else {
			defer database.Close()
			if err := database.EnsureSchema(ctx); err != nil {
				fmt.Printf("Warning: %v\n", err)
			}
			if runID, err = database.CreateRun(ctx, opts.CollectionDate); err != nil {
				fmt.Printf("Warning: Failed to create database run: %v\n", err)
			} else if opts.Verbose {
				fmt.Printf("[VERBOSE] Created database run: %s\n", runID)
			}
		}
	}

	fail := func(stage string, cause error) error {
		status := &types.RunStatus{
			CollectionDate: opts.CollectionDate,
			Stage:          stage,
			Status:         types.RunFailed,
			Diagnostic:     cause.Error(),
			FinishedAt:     time.Now().UTC(),
		}
		if err := st.WriteRunStatus(status); err != nil {
			fmt.Printf("Warning: Failed to write run status: %v\n", err)
		}
		if database != nil && runID != uuid.Nil {
			_ = database.CompleteRun(ctx, runID, types.RunFailed, cause.Error())
		}
		printer.PrintRunStatus(status)
		return fmt.Errorf("%s stage failed: %w", stage, cause)
	}

	counts := map[string]int{}

	// Step 1/6: Collect signal feeds into the lake
	lakeDir := st.LakePartition(opts.CollectionDate)
	if opts.SkipScrape {
		fmt.Printf("Step 1/6: Reusing existing lake partition: %s\n", lakeDir)
	} else {
		fmt.Printf("Step 1/6: Scraping signal feeds for %s...\n", opts.CollectionDate)
		signals := opts.Signals
		if len(signals) == 0 {
			signals = feeds.DefaultSignals()
		}
		scraped, err := feeds.Scrape(ctx, lakeDir, signals, nil)
		if err != nil {
			return fail(StageScrape, err)
		}
		for _, failure := range scraped.Failures {
			fmt.Printf("Warning: feed failed: %s\n", failure)
		}
		counts["feeds"] = scraped.Fetched
	}

	// Step 2/6: Normalize lake entries into the article warehouse
	fmt.Printf("Step 2/6: Ingesting articles...\n")
	entries, parseFailures, err := feeds.ParseLake(lakeDir)
	if err != nil {
		return fail(StageIngest, err)
	}
	for _, failure := range parseFailures {
		fmt.Printf("Warning: feed unparseable: %s\n", failure)
	}

	ingestResult, articles, err := st.Ingest(entries, opts.CollectionDate)
	if err != nil {
		return fail(StageIngest, err)
	}
	if opts.Verbose {
		printer.PrintIngestResult(ingestResult)
	}
	if len(articles) == 0 {
		return fail(StageIngest, fmt.Errorf("zero articles ingested for %s", opts.CollectionDate))
	}
	counts["articles_ingested"] = ingestResult.AcceptedCount
	if database != nil && runID != uuid.Nil {
		_ = database.SaveArtifact(ctx, runID, StageIngest, ingestResult)
	}

	// Step 3/6: Fetch article bodies
	fmt.Printf("Step 3/6: Enriching %d articles with full text...\n", len(articles))
	enrichOpts := ingestion.DefaultOptions()
	enrichOpts.UseBrowser = opts.UseBrowser
	enrichOpts.Verbose = opts.Verbose
	if opts.Concurrency > 0 {
		enrichOpts.Concurrency = opts.Concurrency
	}
	enriched, err := ingestion.EnrichArticles(ctx, articles, enrichOpts)
	if err != nil {
		return fail(StageEnrich, err)
	}
	fmt.Printf("  Enriched %d, kept feed snippet for %d\n", enriched.Enriched, enriched.Failed)
	if err := st.WriteArticles(opts.CollectionDate, articles); err != nil {
		return fail(StageEnrich, err)
	}
	counts["articles_enriched"] = enriched.Enriched

	// Step 4/6: Relevance triage
	fmt.Printf("Step 4/6: Scoring article relevance...\n")
	triageOpts := relevance.DefaultOptions()
	if opts.TriageThreshold > 0 {
		triageOpts.Threshold = opts.TriageThreshold
	}
	if opts.Concurrency > 0 {
		triageOpts.Concurrency = opts.Concurrency
	}
	triage, err := relevance.ScoreArticles(ctx, opts.Client, articles, triageOpts)
	if err != nil {
		return fail(StageTriage, err)
	}
	if triage.Failed == len(articles) {
		return fail(StageTriage, fmt.Errorf("model unreachable: all %d triage calls failed", len(articles)))
	}
	if err := st.WriteArticles(opts.CollectionDate, articles); err != nil {
		return fail(StageTriage, err)
	}
	relevant := relevance.Filter(articles, triageOpts.Threshold)
	fmt.Printf("  %s, %d relevant\n", triage.Describe(), len(relevant))
	counts["articles_relevant"] = len(relevant)
	if database != nil && runID != uuid.Nil {
		_ = database.SaveArtifact(ctx, runID, StageTriage, triage)
	}

	// Step 5/6: Organization extraction
	fmt.Printf("Step 5/6: Extracting organizations from %d articles...\n", len(relevant))
	extractOpts := extraction.DefaultOptions()
	if opts.ChunkSize > 0 {
		extractOpts.ChunkSize = opts.ChunkSize
	}
	if opts.Concurrency > 0 {
		extractOpts.Concurrency = opts.Concurrency
	}
	registry, err := extraction.Extract(ctx, opts.Client, relevant, opts.CollectionDate, extractOpts)
	if err != nil {
		return fail(StageExtract, err)
	}
	if err := st.WriteRegistry(registry); err != nil {
		return fail(StageExtract, err)
	}
	if err := st.WriteSummaries(opts.CollectionDate, registry.Summaries); err != nil {
		return fail(StageExtract, err)
	}
	warnOnSchema(schemas.ValidateRegistryJSON, registry, "organization registry")
	if opts.Verbose {
		printer.PrintRegistry(registry)
	}
	counts["organizations"] = len(registry.Organizations)
	counts["chunks_failed"] = len(registry.FailedChunks)
	if database != nil && runID != uuid.Nil {
		_ = database.SaveArtifact(ctx, runID, StageExtract, registry)
	}

	// Step 6/6: Qualification and final lead list
	fmt.Printf("Step 6/6: Qualifying %d organizations...\n", len(registry.Organizations))
	qualifyOpts := qualification.DefaultOptions()
	if opts.RubricPath != "" {
		rubric, err := qualification.LoadRubric(opts.RubricPath)
		if err != nil {
			return fail(StageQualify, err)
		}
		qualifyOpts.Rubric = rubric
	}
	if opts.LeadThreshold > 0 {
		qualifyOpts.Threshold = opts.LeadThreshold
	}
	if opts.TopN > 0 {
		qualifyOpts.TopN = opts.TopN
	}
	if opts.Concurrency > 0 {
		qualifyOpts.Concurrency = opts.Concurrency
	}
	leads, err := qualification.Qualify(ctx, opts.Client, registry, qualifyOpts)
	if err != nil {
		return fail(StageQualify, err)
	}
	if err := st.WriteLeads(leads); err != nil {
		return fail(StageQualify, err)
	}
	warnOnSchema(schemas.ValidateLeadListJSON, leads, "qualified leads")
	printer.PrintLeadList(leads)
	counts["leads"] = len(leads.Leads)
	counts["unscored"] = len(leads.Unscored)
	if database != nil && runID != uuid.Nil {
		_ = database.SaveArtifact(ctx, runID, StageQualify, leads)
	}

	status := &types.RunStatus{
		CollectionDate: opts.CollectionDate,
		Stage:          StageReport,
		Status:         types.RunCompleted,
		Counts:         counts,
		FinishedAt:     time.Now().UTC(),
	}
	if err := st.WriteRunStatus(status); err != nil {
		return fail(StageReport, err)
	}
	if database != nil && runID != uuid.Nil {
		_ = database.CompleteRun(ctx, runID, types.RunCompleted, "")
	}

	printer.PrintRunStatus(status)
	fmt.Printf("Done! Artifacts stored in %s\n", st.MartsPartition(opts.CollectionDate))
	return nil
}

// warnOnSchema validates an artifact against its schema and reports
// violations without blocking the run.
func warnOnSchema(validate func(string) error, artifact any, label string) {
	data, err := json.Marshal(artifact)
	if err != nil {
		return
	}
	if err := validate(string(data)); err != nil {
		fmt.Printf("Warning: %s artifact does not match schema:\n%v\n", label, err)
	}
}
