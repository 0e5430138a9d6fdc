package feeds

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/opubliq/leadgen/internal/types"
)

type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Source      string `xml:"source"`
	Description string `xml:"description"`
}

// ParseRSS parses one RSS XML document into raw entries tagged with the
// signal that produced them. Timestamps come in whatever format the publisher
// chose; unparsable ones are dropped from the entry, not fatal.
func ParseRSS(data []byte, signal string) ([]types.RawEntry, error) {
	var doc rssDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse RSS XML: %w", err)
	}

	entries := make([]types.RawEntry, 0, len(doc.Channel.Items))
	for _, item := range doc.Channel.Items {
		entry := types.RawEntry{
			URL:     strings.TrimSpace(item.Link),
			Title:   strings.TrimSpace(item.Title),
			Source:  strings.TrimSpace(item.Source),
			Signal:  signal,
			Snippet: strings.TrimSpace(item.Description),
		}
		if ts := parsePubDate(item.PubDate); ts != nil {
			entry.PublishedAt = ts
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// ParseLake reads every *.xml file in a lake partition and returns the
// combined raw entries. The file stem is the signal name, matching how the
// scrape stage lays files down. A file that fails to parse is reported in the
// returned reasons and skipped; one bad feed never loses the others.
func ParseLake(lakeDir string) ([]types.RawEntry, []string, error) {
	matches, err := filepath.Glob(filepath.Join(lakeDir, "*.xml"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list lake partition %s: %w", lakeDir, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no RSS files found in %s; run the scrape step first", lakeDir)
	}
	sort.Strings(matches)

	var all []types.RawEntry
	var failures []string
	for _, path := range matches {
		signal := strings.TrimSuffix(filepath.Base(path), ".xml")

		data, err := os.ReadFile(path)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", signal, err))
			continue
		}

		entries, err := ParseRSS(data, signal)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", signal, err))
			continue
		}
		all = append(all, entries...)
	}

	return all, failures, nil
}

func parsePubDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	ts, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil
	}
	return &ts
}
