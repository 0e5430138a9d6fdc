package feeds

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opubliq/leadgen/internal/fetch"
)

// ScrapeResult reports the outcome of one feed collection pass.
type ScrapeResult struct {
	Fetched  int
	Failures []string
}

// Scrape fetches every signal feed and writes the raw XML into the lake
// partition, one file per signal. A signal that fails to fetch is recorded
// and skipped. Scrape only errors when every signal fails, since a run with
// zero feeds has nothing downstream to work with.
func Scrape(ctx context.Context, lakeDir string, signals []Signal, opts *fetch.Options) (*ScrapeResult, error) {
	if err := os.MkdirAll(lakeDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lake partition %s: %w", lakeDir, err)
	}

	result := &ScrapeResult{}
	for _, signal := range signals {
		res, err := fetch.URL(ctx, FeedURL(signal.Query), opts)
		if err != nil {
			result.Failures = append(result.Failures, fmt.Sprintf("%s: %v", signal.Name, err))
			continue
		}

		path := filepath.Join(lakeDir, signal.Name+".xml")
		if err := os.WriteFile(path, []byte(res.HTML), 0644); err != nil {
			result.Failures = append(result.Failures, fmt.Sprintf("%s: %v", signal.Name, err))
			continue
		}
		result.Fetched++
	}

	if result.Fetched == 0 {
		return result, fmt.Errorf("all %d signal feeds failed: %v", len(signals), result.Failures)
	}
	return result, nil
}
