// Package types defines the shared data structures flowing through the lead pipeline.
package types

import "time"

// RawEntry is a scraped item as it arrives from a signal source. Fields vary by
// source; only URL and Title are required for ingestion. Extra holds any
// source-specific fields opaquely so new scrapers stay forward-compatible.
type RawEntry struct {
	URL         string            `json:"url"`
	Title       string            `json:"title"`
	Source      string            `json:"source,omitempty"`
	Signal      string            `json:"signal,omitempty"`
	PublishedAt *time.Time        `json:"published_at,omitempty"`
	Snippet     string            `json:"snippet,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// Article is a normalized row in the warehouse. Immutable once stored for a
// collection date; the same URL collected on a later date is a new row.
type Article struct {
	URL            string     `json:"url"`
	Title          string     `json:"title"`
	Source         string     `json:"source,omitempty"`
	Signal         string     `json:"signal,omitempty"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	Body           string     `json:"body,omitempty"`
	Relevance      int        `json:"relevance,omitempty"`
	CollectionDate string     `json:"collection_date"`
}

// StoreResult summarizes one ingestion batch.
type StoreResult struct {
	AcceptedCount   int      `json:"accepted_count"`
	RejectedCount   int      `json:"rejected_count"`
	RejectedReasons []string `json:"rejected_reasons,omitempty"`
}

// ArticleSummary is the companion news-context record handed to the report
// renderer alongside the qualified leads.
type ArticleSummary struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Source  string `json:"source,omitempty"`
	Signal  string `json:"signal,omitempty"`
	Summary string `json:"summary"`
}
