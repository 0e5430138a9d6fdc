package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/opubliq/leadgen/internal/llm"
	"github.com/opubliq/leadgen/internal/store"
)

// defaultDate returns today's date. This is the only place the pipeline
// touches ambient time; every component below the CLI receives the
// collection date as an explicit parameter.
func defaultDate() string {
	return time.Now().Format("2006-01-02")
}

// resolveDate validates the --date flag value.
func resolveDate(date string) (string, error) {
	if err := store.ValidateDate(date); err != nil {
		return "", err
	}
	return date, nil
}

// resolveAPIKey returns the flag value or falls back to GEMINI_API_KEY.
func resolveAPIKey(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
}

// newLLMClient builds the Gemini client used by the model-backed stages.
func newLLMClient(ctx context.Context, apiKey string) (llm.Client, error) {
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	return client, nil
}
