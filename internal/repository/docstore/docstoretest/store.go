// Package docstoretest provides an in-memory docstore.Store for repository tests.
package docstoretest

import (
	"context"
	"encoding/json"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/kailas-cloud/vidshare/internal/db"
	"github.com/kailas-cloud/vidshare/internal/domain/filter"
)

// Store keeps JSON documents in memory and records every call that reaches it.
// Search and Count evaluate tag filters by exact string match; free text is ignored.
type Store struct {
	mu sync.Mutex

	docs map[string][]byte

	Queries []db.Query
	Counts  []db.Query
	Batches [][]db.JSONSetItem
	Deleted [][]string
	Indexes []string
}

// New returns an empty store.
func New() *Store { return &Store{docs: map[string][]byte{}} }

// Seed stores v as JSON under key without recording a write.
func (s *Store) Seed(t testing.TB, key string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("seed %s: %v", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = data
}

// Decode unmarshals the document stored under key into v.
func (s *Store) Decode(t testing.TB, key string, v any) {
	t.Helper()
	s.mu.Lock()
	data, ok := s.docs[key]
	s.mu.Unlock()
	if !ok {
		t.Fatalf("no document at %s", key)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode %s: %v", key, err)
	}
}

// Has reports whether a document is stored under key.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[key]
	return ok
}

// LastQuery returns the most recent search, or the zero query when none ran.
func (s *Store) LastQuery() db.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Queries) == 0 {
		return db.Query{}
	}
	return s.Queries[len(s.Queries)-1]
}

func (s *Store) JSONSet(_ context.Context, key, _ string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = data
	return nil
}

func (s *Store) JSONSetMulti(_ context.Context, items []db.JSONSetItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Batches = append(s.Batches, slices.Clone(items))
	for _, it := range items {
		s.docs[it.Key] = it.Data
	}
	return nil
}

func (s *Store) JSONGet(_ context.Context, key string, _ ...string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return wrap(data), nil
}

func (s *Store) JSONGetMulti(_ context.Context, keys []string, _ string) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(keys))
	for i, k := range keys {
		if data, ok := s.docs[k]; ok {
			out[i] = wrap(data)
		}
	}
	return out, nil
}

func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, []string{key})
	delete(s.docs, key)
	return nil
}

func (s *Store) DelMulti(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, slices.Clone(keys))
	for _, k := range keys {
		delete(s.docs, k)
	}
	return nil
}

func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	return s.Has(key), nil
}

func (s *Store) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.Indexes, def.Name) {
		return db.ErrIndexExists
	}
	s.Indexes = append(s.Indexes, def.Name)
	return nil
}

func (s *Store) Search(_ context.Context, q *db.Query) (*db.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Queries = append(s.Queries, *q)

	keys := s.match(q)
	res := &db.SearchResult{Total: len(keys)}
	if q.Offset >= len(keys) {
		return res, nil
	}
	for _, k := range keys[q.Offset:min(q.Offset+q.Limit, len(keys))] {
		res.Entries = append(res.Entries, db.SearchEntry{Key: k, Fields: map[string]string{"$": string(s.docs[k])}})
	}
	return res, nil
}

func (s *Store) Count(_ context.Context, q *db.Query) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Counts = append(s.Counts, *q)
	return len(s.match(q)), nil
}

// match returns the keys under the index prefix that satisfy q, in q's sort order.
func (s *Store) match(q *db.Query) []string {
	prefix := strings.TrimSuffix(q.IndexName, "idx")
	var (
		keys   []string
		fields = map[string]map[string]any{}
	)
	for k, data := range s.docs {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		var doc map[string]any
		if json.Unmarshal(data, &doc) != nil || !matches(doc, q.Filters) {
			continue
		}
		keys = append(keys, k)
		fields[k] = doc
	}
	sort.Slice(keys, func(i, j int) bool {
		if q.SortBy != "" {
			a, _ := fields[keys[i]][q.SortBy].(float64)
			b, _ := fields[keys[j]][q.SortBy].(float64)
			if a != b {
				return (a > b) == q.SortDesc
			}
		}
		return keys[i] < keys[j]
	})
	return keys
}

func matches(doc map[string]any, f filter.Expression) bool {
	if f.MatchesNone() {
		return false
	}
	for _, c := range f.Must() {
		v, _ := doc[c.Key()].(string)
		if !slices.Contains(c.Values(), v) {
			return false
		}
	}
	for _, c := range f.MustNot() {
		v, _ := doc[c.Key()].(string)
		if slices.Contains(c.Values(), v) {
			return false
		}
	}
	return true
}

// wrap mimics JSON.GET on the "$" path, which answers with a one-element array.
func wrap(data []byte) []byte {
	out := make([]byte, 0, len(data)+2)
	out = append(out, '[')
	out = append(out, data...)
	return append(out, ']')
}
