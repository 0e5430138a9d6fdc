// Package store manages the date-partitioned artifact tree: raw feeds in the
// lake, normalized articles and the organization registry in the warehouse,
// qualified leads in the marts. Each stage owns and fully overwrites its own
// artifact for a collection date, so re-running a date is idempotent.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/opubliq/leadgen/internal/types"
)

// Artifact file names within a partition.
const (
	articlesFile  = "articles.json"
	registryFile  = "organizations.json"
	leadsFile     = "leads.json"
	summariesFile = "summaries.json"
	statusFile    = "run_status.json"
)

// Store resolves and reads/writes date-partitioned artifacts under a root
// directory.
type Store struct {
	root string
}

// New creates a Store rooted at dir. The directory tree is created lazily on
// first write.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the data root directory.
func (s *Store) Root() string {
	return s.root
}

// ValidateDate checks that a collection date is a well-formed YYYY-MM-DD day.
func ValidateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid collection date %q (want YYYY-MM-DD): %w", date, err)
	}
	return nil
}

// LakePartition returns the raw-feed directory for a collection date.
func (s *Store) LakePartition(date string) string {
	return filepath.Join(s.root, "lake", "google_news_rss", date)
}

// WarehousePartition returns the normalized-article directory for a date.
func (s *Store) WarehousePartition(date string) string {
	return filepath.Join(s.root, "warehouse", date)
}

// MartsPartition returns the finalized-lead directory for a date.
func (s *Store) MartsPartition(date string) string {
	return filepath.Join(s.root, "marts", date)
}

// WriteArticles overwrites the article partition for a collection date.
func (s *Store) WriteArticles(date string, articles []types.Article) error {
	return s.writeJSON(filepath.Join(s.WarehousePartition(date), articlesFile), articles)
}

// ReadArticles loads the article partition for a collection date.
func (s *Store) ReadArticles(date string) ([]types.Article, error) {
	var articles []types.Article
	if err := s.readJSON(filepath.Join(s.WarehousePartition(date), articlesFile), &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// WriteRegistry overwrites the organization registry for a collection date.
func (s *Store) WriteRegistry(registry *types.OrganizationRegistry) error {
	path := filepath.Join(s.WarehousePartition(registry.CollectionDate), registryFile)
	return s.writeJSON(path, registry)
}

// ReadRegistry loads the organization registry for a collection date.
func (s *Store) ReadRegistry(date string) (*types.OrganizationRegistry, error) {
	var registry types.OrganizationRegistry
	if err := s.readJSON(filepath.Join(s.WarehousePartition(date), registryFile), &registry); err != nil {
		return nil, err
	}
	return &registry, nil
}

// WriteLeads overwrites the qualified-lead list for a collection date.
func (s *Store) WriteLeads(leads *types.QualifiedLeadList) error {
	path := filepath.Join(s.MartsPartition(leads.CollectionDate), leadsFile)
	return s.writeJSON(path, leads)
}

// ReadLeads loads the qualified-lead list for a collection date.
func (s *Store) ReadLeads(date string) (*types.QualifiedLeadList, error) {
	var leads types.QualifiedLeadList
	if err := s.readJSON(filepath.Join(s.MartsPartition(date), leadsFile), &leads); err != nil {
		return nil, err
	}
	return &leads, nil
}

// WriteSummaries overwrites the companion news summaries for a date.
func (s *Store) WriteSummaries(date string, summaries []types.ArticleSummary) error {
	return s.writeJSON(filepath.Join(s.MartsPartition(date), summariesFile), summaries)
}

// ReadSummaries loads the companion news summaries for a date.
func (s *Store) ReadSummaries(date string) ([]types.ArticleSummary, error) {
	var summaries []types.ArticleSummary
	if err := s.readJSON(filepath.Join(s.MartsPartition(date), summariesFile), &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// WriteRunStatus records the explicit run marker for a date. A missing or
// failed marker means downstream consumers must not treat the partition as a
// valid "no leads found" result.
func (s *Store) WriteRunStatus(status *types.RunStatus) error {
	path := filepath.Join(s.MartsPartition(status.CollectionDate), statusFile)
	return s.writeJSON(path, status)
}

// ReadRunStatus loads the run marker for a date, or nil if none was written.
func (s *Store) ReadRunStatus(date string) (*types.RunStatus, error) {
	path := filepath.Join(s.MartsPartition(date), statusFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	var status types.RunStatus
	if err := s.readJSON(path, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *Store) writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create partition directory %s: %w", filepath.Dir(path), err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	return nil
}

func (s *Store) readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	return nil
}
