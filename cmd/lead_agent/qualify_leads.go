package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opubliq/leadgen/internal/observability"
	"github.com/opubliq/leadgen/internal/qualification"
	"github.com/opubliq/leadgen/internal/store"
)

var qualifyLeadsCommand = &cobra.Command{
	Use:   "qualify-leads",
	Short: "Score extracted organizations against the service rubric",
	Long:  "Evaluates each registry organization as a potential client, refines the scores with a comparative pass, and writes the ranked lead list to the marts partition. Excluded classes (political parties, government bodies) are set aside without a model call.",
	RunE:  runQualifyLeadsCmd,
}

var (
	qualifyDate        string
	qualifyDataDir     string
	qualifyRubricPath  string
	qualifyThreshold   float64
	qualifyTopN        int
	qualifyConcurrency int
	qualifySkipRescore bool
	qualifyAPIKey      string
)

func init() {
	qualifyLeadsCommand.Flags().StringVar(&qualifyDate, "date", defaultDate(), "Collection date (YYYY-MM-DD)")
	qualifyLeadsCommand.Flags().StringVar(&qualifyDataDir, "data-dir", "data", "Root directory for pipeline artifacts")
	qualifyLeadsCommand.Flags().StringVar(&qualifyRubricPath, "rubric", "", "Path to a rubric JSON file (default: built-in rubric)")
	qualifyLeadsCommand.Flags().Float64Var(&qualifyThreshold, "threshold", qualification.DefaultThreshold, "Minimum lead score (0-10)")
	qualifyLeadsCommand.Flags().IntVar(&qualifyTopN, "top-n", qualification.DefaultTopN, "Maximum leads in the final list")
	qualifyLeadsCommand.Flags().IntVar(&qualifyConcurrency, "concurrency", qualification.DefaultConcurrency, "Parallel qualification calls")
	qualifyLeadsCommand.Flags().BoolVar(&qualifySkipRescore, "skip-rescore", false, "Skip the comparative rescoring pass")
	qualifyLeadsCommand.Flags().StringVar(&qualifyAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY)")

	rootCmd.AddCommand(qualifyLeadsCommand)
}

func runQualifyLeadsCmd(cmd *cobra.Command, _ []string) error {
	date, err := resolveDate(qualifyDate)
	if err != nil {
		return err
	}
	apiKey, err := resolveAPIKey(qualifyAPIKey)
	if err != nil {
		return err
	}

	rubric := qualification.DefaultRubric()
	if qualifyRubricPath != "" {
		rubric, err = qualification.LoadRubric(qualifyRubricPath)
		if err != nil {
			return err
		}
	}

	st := store.New(qualifyDataDir)
	registry, err := st.ReadRegistry(date)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("no organization registry for %s; run extract-orgs first", date)
	}
	if err != nil {
		return err
	}

	client, err := newLLMClient(cmd.Context(), apiKey)
	if err != nil {
		return err
	}
	defer client.Close()

	opts := qualification.DefaultOptions()
	opts.Rubric = rubric
	opts.Threshold = qualifyThreshold
	opts.TopN = qualifyTopN
	opts.Concurrency = qualifyConcurrency
	opts.SkipRescore = qualifySkipRescore
	list, err := qualification.Qualify(cmd.Context(), client, registry, opts)
	if list != nil {
		if writeErr := st.WriteLeads(list); writeErr != nil {
			return writeErr
		}
	}
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintLeadList(list)
	fmt.Printf("Lead list stored in %s\n", st.MartsPartition(date))
	return nil
}
