package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opubliq/leadgen/internal/feeds"
	"github.com/opubliq/leadgen/internal/store"
)

var scrapeCommand = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch the signal RSS feeds into the lake partition",
	Long:  "Downloads each configured Google News search feed and stores the raw XML under the lake partition for the collection date. Later stages read from the lake, never from the network, so a collection date can be reprocessed offline.",
	RunE:  runScrapeCmd,
}

var (
	scrapeDate    string
	scrapeDataDir string
)

func init() {
	scrapeCommand.Flags().StringVar(&scrapeDate, "date", defaultDate(), "Collection date (YYYY-MM-DD)")
	scrapeCommand.Flags().StringVar(&scrapeDataDir, "data-dir", "data", "Root directory for pipeline artifacts")

	rootCmd.AddCommand(scrapeCommand)
}

func runScrapeCmd(_ *cobra.Command, _ []string) error {
	date, err := resolveDate(scrapeDate)
	if err != nil {
		return err
	}

	st := store.New(scrapeDataDir)
	lakeDir := st.LakePartition(date)

	fmt.Printf("Scraping %d signal feeds into %s...\n", len(feeds.DefaultSignals()), lakeDir)

	result, err := feeds.Scrape(context.Background(), lakeDir, feeds.DefaultSignals(), nil)
	if err != nil {
		return err
	}

	for _, failure := range result.Failures {
		fmt.Printf("Warning: feed failed: %s\n", failure)
	}
	fmt.Printf("Fetched %d feeds.\n", result.Fetched)
	return nil
}
