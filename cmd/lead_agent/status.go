package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opubliq/leadgen/internal/observability"
	"github.com/opubliq/leadgen/internal/store"
)

var statusCommand = &cobra.Command{
	Use:   "status",
	Short: "Show the run status for a collection date",
	RunE:  runStatusCmd,
}

var (
	statusDate    string
	statusDataDir string
)

func init() {
	statusCommand.Flags().StringVar(&statusDate, "date", defaultDate(), "Collection date (YYYY-MM-DD)")
	statusCommand.Flags().StringVar(&statusDataDir, "data-dir", "data", "Root directory for pipeline artifacts")

	rootCmd.AddCommand(statusCommand)
}

func runStatusCmd(_ *cobra.Command, _ []string) error {
	date, err := resolveDate(statusDate)
	if err != nil {
		return err
	}

	st := store.New(statusDataDir)
	status, err := st.ReadRunStatus(date)
	if err != nil {
		return err
	}
	if status == nil {
		return fmt.Errorf("no run recorded for %s", date)
	}

	observability.NewPrinter(os.Stdout).PrintRunStatus(status)
	return nil
}
