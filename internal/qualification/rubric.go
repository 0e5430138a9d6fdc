// Package qualification scores extracted organizations against the firm's
// client rubric and produces the final ranked lead list for a collection date.
package qualification

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/opubliq/leadgen/internal/types"
)

//go:embed rubric.json
var rubricFS embed.FS

// Rubric is the qualification criteria document. It is data, not code: the
// inclusion signals and service categories live in the prompt text, and the
// exclusion classes drive the type filter, so the criteria can change without
// touching control flow. Version pins which rubric produced a lead list.
type Rubric struct {
	Version       string   `json:"version"`
	ExcludedTypes []string `json:"excluded_types"`
	Services      []string `json:"services"`
	Text          string   `json:"text"`
}

// DefaultRubric returns the embedded rubric shipped with the binary.
func DefaultRubric() *Rubric {
	data, err := rubricFS.ReadFile("rubric.json")
	if err != nil {
		panic(fmt.Sprintf("embedded rubric missing: %v", err))
	}
	rubric, err := parseRubric(data)
	if err != nil {
		panic(fmt.Sprintf("embedded rubric invalid: %v", err))
	}
	return rubric
}

// LoadRubric reads a rubric override from disk, for pinning a historical
// version or testing criteria changes without a rebuild.
func LoadRubric(path string) (*Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rubric %s: %w", path, err)
	}
	return parseRubric(data)
}

func parseRubric(data []byte) (*Rubric, error) {
	var rubric Rubric
	if err := json.Unmarshal(data, &rubric); err != nil {
		return nil, fmt.Errorf("failed to parse rubric: %w", err)
	}
	if rubric.Version == "" || rubric.Text == "" {
		return nil, fmt.Errorf("rubric must carry a version and criteria text")
	}
	return &rubric, nil
}

// Excludes reports whether the organization type is an exclusion class.
func (r *Rubric) Excludes(orgType types.OrgType) bool {
	for _, excluded := range r.ExcludedTypes {
		if string(orgType) == excluded {
			return true
		}
	}
	return false
}
