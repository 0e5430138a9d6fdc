package store

import (
	"fmt"
	"strings"

	"github.com/opubliq/leadgen/internal/types"
)

// Ingest normalizes a heterogeneous batch of scraped entries into the Article
// shape and overwrites the warehouse partition for the collection date.
//
// Entries missing a URL or title (the identity fields) are rejected with a
// reason; the batch continues. Within one batch the last entry wins on a URL
// collision. The same URL ingested under a different collection date is a
// separate historical row and is NOT deduplicated, because a story can
// resurface and regain relevance.
func (s *Store) Ingest(entries []types.RawEntry, collectionDate string) (*types.StoreResult, []types.Article, error) {
	if err := ValidateDate(collectionDate); err != nil {
		return nil, nil, err
	}

	result := &types.StoreResult{}
	byURL := make(map[string]int)
	var articles []types.Article

	for i, entry := range entries {
		url := strings.TrimSpace(entry.URL)
		title := strings.TrimSpace(entry.Title)

		if url == "" || title == "" {
			result.RejectedCount++
			result.RejectedReasons = append(result.RejectedReasons,
				rejectReason(i, url, title))
			continue
		}

		article := types.Article{
			URL:            url,
			Title:          title,
			Source:         strings.TrimSpace(entry.Source),
			Signal:         entry.Signal,
			PublishedAt:    entry.PublishedAt,
			Body:           entry.Snippet,
			CollectionDate: collectionDate,
		}

		// Last write wins within the batch; the row keeps its original
		// position so ingestion order stays deterministic.
		if pos, seen := byURL[url]; seen {
			articles[pos] = article
			continue
		}
		byURL[url] = len(articles)
		articles = append(articles, article)
		result.AcceptedCount++
	}

	if err := s.WriteArticles(collectionDate, articles); err != nil {
		return nil, nil, err
	}

	return result, articles, nil
}

func rejectReason(index int, url, title string) string {
	switch {
	case url == "" && title == "":
		return fmt.Sprintf("entry %d: missing url and title", index)
	case url == "":
		return fmt.Sprintf("entry %d (%q): missing url", index, truncate(title, 60))
	default:
		return fmt.Sprintf("entry %d (%s): missing title", index, url)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
