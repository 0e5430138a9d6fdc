package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opubliq/leadgen/internal/feeds"
	"github.com/opubliq/leadgen/internal/observability"
	"github.com/opubliq/leadgen/internal/store"
)

var ingestCommand = &cobra.Command{
	Use:   "ingest",
	Short: "Normalize lake RSS entries into the article warehouse",
	Long:  "Parses the raw RSS files in the lake partition and writes the normalized article set to the warehouse partition. Entries without a URL or title are rejected with a reason; duplicate URLs within the batch keep the last occurrence.",
	RunE:  runIngestCmd,
}

var (
	ingestDate    string
	ingestDataDir string
	ingestVerbose bool
)

func init() {
	ingestCommand.Flags().StringVar(&ingestDate, "date", defaultDate(), "Collection date (YYYY-MM-DD)")
	ingestCommand.Flags().StringVar(&ingestDataDir, "data-dir", "data", "Root directory for pipeline artifacts")
	ingestCommand.Flags().BoolVarP(&ingestVerbose, "verbose", "v", false, "Print detailed ingestion summary")

	rootCmd.AddCommand(ingestCommand)
}

func runIngestCmd(_ *cobra.Command, _ []string) error {
	date, err := resolveDate(ingestDate)
	if err != nil {
		return err
	}

	st := store.New(ingestDataDir)

	entries, failures, err := feeds.ParseLake(st.LakePartition(date))
	if err != nil {
		return err
	}
	for _, failure := range failures {
		fmt.Printf("Warning: feed unparseable: %s\n", failure)
	}

	result, _, err := st.Ingest(entries, date)
	if err != nil {
		return err
	}

	if ingestVerbose {
		observability.NewPrinter(os.Stdout).PrintIngestResult(result)
	}
	fmt.Printf("Ingested %d articles (%d rejected) into %s\n",
		result.AcceptedCount, result.RejectedCount, st.WarehousePartition(date))
	return nil
}
