package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opubliq/leadgen/internal/ingestion"
	"github.com/opubliq/leadgen/internal/store"
)

var enrichCommand = &cobra.Command{
	Use:   "enrich",
	Short: "Replace RSS snippets with full article text",
	Long:  "Fetches each warehouse article's URL and swaps the RSS snippet for the extracted page body. Articles whose pages cannot be fetched keep their snippet.",
	RunE:  runEnrichCmd,
}

var (
	enrichDate        string
	enrichDataDir     string
	enrichConcurrency int
	enrichBrowser     bool
	enrichVerbose     bool
)

func init() {
	enrichCommand.Flags().StringVar(&enrichDate, "date", defaultDate(), "Collection date (YYYY-MM-DD)")
	enrichCommand.Flags().StringVar(&enrichDataDir, "data-dir", "data", "Root directory for pipeline artifacts")
	enrichCommand.Flags().IntVar(&enrichConcurrency, "concurrency", ingestion.DefaultConcurrency, "Parallel page fetches")
	enrichCommand.Flags().BoolVar(&enrichBrowser, "browser", false, "Fall back to a headless browser for thin pages")
	enrichCommand.Flags().BoolVarP(&enrichVerbose, "verbose", "v", false, "Print per-article fetch progress")

	rootCmd.AddCommand(enrichCommand)
}

func runEnrichCmd(cmd *cobra.Command, _ []string) error {
	date, err := resolveDate(enrichDate)
	if err != nil {
		return err
	}

	st := store.New(enrichDataDir)
	articles, err := st.ReadArticles(date)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		return fmt.Errorf("no articles in warehouse for %s; run ingest first", date)
	}

	opts := ingestion.DefaultOptions()
	opts.Concurrency = enrichConcurrency
	opts.UseBrowser = enrichBrowser
	opts.Verbose = enrichVerbose

	result, err := ingestion.EnrichArticles(cmd.Context(), articles, opts)
	if err != nil {
		return err
	}
	for _, failure := range result.Failures {
		fmt.Printf("Warning: %s: %s\n", failure.URL, failure.Reason)
	}

	if err := st.WriteArticles(date, articles); err != nil {
		return err
	}

	fmt.Printf("Enriched %d/%d articles.\n", result.Enriched, len(articles))
	return nil
}
