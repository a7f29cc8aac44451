package db

import "github.com/kailas-cloud/vidshare/internal/domain/filter"

// Query is the input for FT.SEARCH. Text and Filters are combined with AND;
// with neither set every document of the index matches.
type Query struct {
	IndexName string
	// Text is free text; terms are OR-ed and escaped by the driver.
	Text string
	// TextFields restricts Text to these field aliases. Empty means all TEXT fields.
	TextFields   []string
	Filters      filter.Expression
	SortBy       string
	SortDesc     bool
	Offset       int
	Limit        int
	WithScores   bool
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
