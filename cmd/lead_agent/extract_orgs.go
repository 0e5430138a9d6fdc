package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opubliq/leadgen/internal/extraction"
	"github.com/opubliq/leadgen/internal/observability"
	"github.com/opubliq/leadgen/internal/relevance"
	"github.com/opubliq/leadgen/internal/store"
)

var extractOrgsCommand = &cobra.Command{
	Use:   "extract-orgs",
	Short: "Extract named organizations from relevant articles",
	Long:  "Sends relevant warehouse articles to the model in chunks, merges the organizations it finds across articles, and writes the registry and per-article summaries to the marts partition.",
	RunE:  runExtractOrgsCmd,
}

var (
	extractDate        string
	extractDataDir     string
	extractThreshold   int
	extractChunkSize   int
	extractConcurrency int
	extractAPIKey      string
)

func init() {
	extractOrgsCommand.Flags().StringVar(&extractDate, "date", defaultDate(), "Collection date (YYYY-MM-DD)")
	extractOrgsCommand.Flags().StringVar(&extractDataDir, "data-dir", "data", "Root directory for pipeline artifacts")
	extractOrgsCommand.Flags().IntVar(&extractThreshold, "threshold", relevance.DefaultThreshold, "Minimum relevance score for inclusion (1-5)")
	extractOrgsCommand.Flags().IntVar(&extractChunkSize, "chunk-size", extraction.DefaultChunkSize, "Articles per extraction call")
	extractOrgsCommand.Flags().IntVar(&extractConcurrency, "concurrency", extraction.DefaultConcurrency, "Parallel extraction calls")
	extractOrgsCommand.Flags().StringVar(&extractAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY)")

	rootCmd.AddCommand(extractOrgsCommand)
}

func runExtractOrgsCmd(cmd *cobra.Command, _ []string) error {
	date, err := resolveDate(extractDate)
	if err != nil {
		return err
	}
	apiKey, err := resolveAPIKey(extractAPIKey)
	if err != nil {
		return err
	}

	st := store.New(extractDataDir)
	articles, err := st.ReadArticles(date)
	if err != nil {
		return err
	}
	relevant := relevance.Filter(articles, extractThreshold)
	if len(relevant) == 0 {
		return fmt.Errorf("no relevant articles for %s; run triage first", date)
	}

	client, err := newLLMClient(cmd.Context(), apiKey)
	if err != nil {
		return err
	}
	defer client.Close()

	opts := extraction.DefaultOptions()
	opts.ChunkSize = extractChunkSize
	opts.Concurrency = extractConcurrency
	registry, err := extraction.Extract(cmd.Context(), client, relevant, date, opts)
	if registry != nil {
		if writeErr := st.WriteRegistry(registry); writeErr != nil {
			return writeErr
		}
		if writeErr := st.WriteSummaries(date, registry.Summaries); writeErr != nil {
			return writeErr
		}
	}
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintRegistry(registry)
	fmt.Printf("Registry stored in %s\n", st.WarehousePartition(date))
	return nil
}
