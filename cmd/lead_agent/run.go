package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opubliq/leadgen/internal/config"
	"github.com/opubliq/leadgen/internal/extraction"
	"github.com/opubliq/leadgen/internal/pipeline"
	"github.com/opubliq/leadgen/internal/qualification"
	"github.com/opubliq/leadgen/internal/relevance"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Execute the full lead generation pipeline",
	Long:  "Runs every stage for one collection date: scrape signal feeds, ingest and enrich articles, triage for relevance, extract organizations, qualify leads, and write the run status marker. Flags override values from the config file.",
	RunE:  runRunCmd,
}

var (
	runDate        string
	runConfigPath  string
	runDataDir     string
	runRubricPath  string
	runTriage      int
	runThreshold   float64
	runTopN        int
	runChunkSize   int
	runConcurrency int
	runBrowser     bool
	runVerbose     bool
	runDatabaseURL string
	runSkipScrape  bool
	runAPIKey      string
)

func init() {
	runCommand.Flags().StringVar(&runDate, "date", defaultDate(), "Collection date (YYYY-MM-DD)")
	runCommand.Flags().StringVarP(&runConfigPath, "config", "c", "", "Path to a JSON config file")
	runCommand.Flags().StringVar(&runDataDir, "data-dir", "", "Root directory for pipeline artifacts")
	runCommand.Flags().StringVar(&runRubricPath, "rubric", "", "Path to a rubric JSON file (default: built-in rubric)")
	runCommand.Flags().IntVar(&runTriage, "triage-threshold", 0, "Minimum relevance score (1-5)")
	runCommand.Flags().Float64Var(&runThreshold, "lead-threshold", 0, "Minimum lead score (0-10)")
	runCommand.Flags().IntVar(&runTopN, "top-n", 0, "Maximum leads in the final list")
	runCommand.Flags().IntVar(&runChunkSize, "chunk-size", 0, "Articles per extraction call")
	runCommand.Flags().IntVar(&runConcurrency, "concurrency", 0, "Parallel model/fetch calls")
	runCommand.Flags().BoolVar(&runBrowser, "browser", false, "Fall back to a headless browser for thin pages")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed progress")
	runCommand.Flags().StringVar(&runDatabaseURL, "database-url", "", "PostgreSQL URL for run persistence (overrides DATABASE_URL)")
	runCommand.Flags().BoolVar(&runSkipScrape, "skip-scrape", false, "Reuse an existing lake partition instead of fetching feeds")
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY)")

	rootCmd.AddCommand(runCommand)
}

// runConfig assembles the effective configuration: file values first, then
// explicit flag overrides, then built-in defaults for whatever is left.
func runConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{}
	if runConfigPath != "" {
		loaded, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = runDataDir
	}
	if cmd.Flags().Changed("rubric") {
		cfg.RubricPath = runRubricPath
	}
	if cmd.Flags().Changed("triage-threshold") {
		cfg.TriageThreshold = runTriage
	}
	if cmd.Flags().Changed("lead-threshold") {
		cfg.LeadThreshold = runThreshold
	}
	if cmd.Flags().Changed("top-n") {
		cfg.TopN = runTopN
	}
	if cmd.Flags().Changed("chunk-size") {
		cfg.ChunkSize = runChunkSize
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = runConcurrency
	}
	if cmd.Flags().Changed("browser") {
		cfg.UseBrowser = runBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if cmd.Flags().Changed("database-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	merged := cfg.MergeWithDefaults(config.Config{
		DataDir:         "data",
		TriageThreshold: relevance.DefaultThreshold,
		LeadThreshold:   qualification.DefaultThreshold,
		TopN:            qualification.DefaultTopN,
		ChunkSize:       extraction.DefaultChunkSize,
		Concurrency:     relevance.DefaultConcurrency,
	})

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

func runRunCmd(cmd *cobra.Command, _ []string) error {
	date, err := resolveDate(runDate)
	if err != nil {
		return err
	}

	cfg, err := runConfig(cmd)
	if err != nil {
		return err
	}

	apiKey, err := resolveAPIKey(cfg.APIKey)
	if err != nil {
		return err
	}

	client, err := newLLMClient(cmd.Context(), apiKey)
	if err != nil {
		return err
	}
	defer client.Close()

	return pipeline.Run(cmd.Context(), pipeline.RunOptions{
		CollectionDate:  date,
		DataDir:         cfg.DataDir,
		Client:          client,
		TriageThreshold: cfg.TriageThreshold,
		LeadThreshold:   cfg.LeadThreshold,
		TopN:            cfg.TopN,
		ChunkSize:       cfg.ChunkSize,
		Concurrency:     cfg.Concurrency,
		RubricPath:      cfg.RubricPath,
		UseBrowser:      cfg.UseBrowser,
		Verbose:         cfg.Verbose,
		DatabaseURL:     cfg.DatabaseURL,
		SkipScrape:      runSkipScrape,
	})
}
