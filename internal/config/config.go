// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Paths
	DataDir    string `json:"data_dir,omitempty"`    // Root for lake/warehouse/marts partitions
	RubricPath string `json:"rubric_path,omitempty"` // Qualification rubric override

	// Tuning
	TriageThreshold int     `json:"triage_threshold,omitempty" validate:"omitempty,min=1,max=5"` // Minimum relevance score (1-5)
	LeadThreshold   float64 `json:"lead_threshold,omitempty" validate:"omitempty,min=0,max=10"`  // Minimum qualification score (0-10)
	TopN            int     `json:"top_n,omitempty" validate:"omitempty,min=1"`                  // Lead list cap
	ChunkSize       int     `json:"chunk_size,omitempty" validate:"omitempty,min=1"`             // Articles per extraction call
	Concurrency     int     `json:"concurrency,omitempty" validate:"omitempty,min=1,max=32"`     // Parallel model/fetch calls

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	UseBrowser  bool   `json:"use_browser,omitempty"`  // Headless browser fallback for JS-rendered articles
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"` // Optional PostgreSQL run persistence
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Required fields
// are not checked here; flag validation handles those after merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			first := invalid[0]
			return fmt.Errorf("config error: field %q fails constraint %q", first.Field(), first.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.RubricPath != "" {
		if _, err := os.Stat(c.RubricPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: rubric file not found: %s", c.RubricPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.RubricPath == "" {
		result.RubricPath = defaults.RubricPath
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Numeric fields: use default if zero
	if result.TriageThreshold == 0 {
		result.TriageThreshold = defaults.TriageThreshold
	}
	if result.LeadThreshold == 0 {
		result.LeadThreshold = defaults.LeadThreshold
	}
	if result.TopN == 0 {
		result.TopN = defaults.TopN
	}
	if result.ChunkSize == 0 {
		result.ChunkSize = defaults.ChunkSize
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
