package types

import "time"

// Run status values. A partition with no status marker, or a failed one, must
// never be read as "no leads found".
const (
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// RunStatus is the explicit per-partition marker distinguishing an empty
// result from a failed run. Each stage updates Counts for its own output.
type RunStatus struct {
	CollectionDate string         `json:"collection_date"`
	Stage          string         `json:"stage"`
	Status         string         `json:"status"`
	Diagnostic     string         `json:"diagnostic,omitempty"`
	Counts         map[string]int `json:"counts,omitempty"`
	FinishedAt     time.Time      `json:"finished_at"`
}
