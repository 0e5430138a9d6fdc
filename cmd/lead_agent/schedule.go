package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/opubliq/leadgen/internal/pipeline"
)

var scheduleCommand = &cobra.Command{
	Use:   "schedule",
	Short: "Run the pipeline on a recurring schedule",
	Long:  "Starts a scheduler that executes the full pipeline on a cron expression, using the run date of each trigger as the collection date. Runs until interrupted. A failed run is logged and does not stop the scheduler.",
	RunE:  runScheduleCmd,
}

var scheduleCron string

func init() {
	scheduleCommand.Flags().StringVar(&scheduleCron, "cron", "0 7 * * 1", "Cron expression for pipeline runs (default: Mondays at 07:00)")
	scheduleCommand.Flags().StringVarP(&runConfigPath, "config", "c", "", "Path to a JSON config file")

	rootCmd.AddCommand(scheduleCommand)
}

func runScheduleCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := runConfig(cmd)
	if err != nil {
		return err
	}
	apiKey, err := resolveAPIKey(cfg.APIKey)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := cron.New()
	_, err = scheduler.AddFunc(scheduleCron, func() {
		date := time.Now().Format("2006-01-02")
		fmt.Printf("Scheduled run triggered for %s\n", date)

		client, err := newLLMClient(ctx, apiKey)
		if err != nil {
			fmt.Printf("Warning: scheduled run skipped, model client unavailable: %v\n", err)
			return
		}
		defer client.Close()

		if err := pipeline.Run(ctx, pipeline.RunOptions{
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
		}); err != nil {
			fmt.Printf("Warning: scheduled run for %s failed: %v\n", date, err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", scheduleCron, err)
	}

	scheduler.Start()
	fmt.Printf("Scheduler started (%s). Press Ctrl+C to stop.\n", scheduleCron)

	<-ctx.Done()
	waitCtx := scheduler.Stop()
	<-waitCtx.Done()
	fmt.Println("Scheduler stopped.")
	return nil
}
