package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opubliq/leadgen/internal/relevance"
	"github.com/opubliq/leadgen/internal/store"
)

var triageCommand = &cobra.Command{
	Use:   "triage",
	Short: "Score warehouse articles for commercial relevance",
	Long:  "Asks the model to rate each article 1-5 for lead potential and writes the scores back to the warehouse. Articles the model cannot score receive the neutral score of 3.",
	RunE:  runTriageCmd,
}

var (
	triageDate        string
	triageDataDir     string
	triageThreshold   int
	triageConcurrency int
	triageAPIKey      string
)

func init() {
	triageCommand.Flags().StringVar(&triageDate, "date", defaultDate(), "Collection date (YYYY-MM-DD)")
	triageCommand.Flags().StringVar(&triageDataDir, "data-dir", "data", "Root directory for pipeline artifacts")
	triageCommand.Flags().IntVar(&triageThreshold, "threshold", relevance.DefaultThreshold, "Minimum score to count as relevant (1-5)")
	triageCommand.Flags().IntVar(&triageConcurrency, "concurrency", relevance.DefaultConcurrency, "Parallel scoring calls")
	triageCommand.Flags().StringVar(&triageAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY)")

	rootCmd.AddCommand(triageCommand)
}

func runTriageCmd(cmd *cobra.Command, _ []string) error {
	date, err := resolveDate(triageDate)
	if err != nil {
		return err
	}
	apiKey, err := resolveAPIKey(triageAPIKey)
	if err != nil {
		return err
	}

	st := store.New(triageDataDir)
	articles, err := st.ReadArticles(date)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		return fmt.Errorf("no articles in warehouse for %s; run ingest first", date)
	}

	client, err := newLLMClient(cmd.Context(), apiKey)
	if err != nil {
		return err
	}
	defer client.Close()

	opts := relevance.DefaultOptions()
	opts.Threshold = triageThreshold
	opts.Concurrency = triageConcurrency
	result, err := relevance.ScoreArticles(cmd.Context(), client, articles, opts)
	if err != nil {
		return err
	}
	for _, failure := range result.Failures {
		fmt.Printf("Warning: %s: %s\n", failure.URL, failure.Reason)
	}

	if err := st.WriteArticles(date, articles); err != nil {
		return err
	}

	fmt.Println(result.Describe())
	return nil
}
