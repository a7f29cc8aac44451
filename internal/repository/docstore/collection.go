// Package docstore maps typed entities onto JSON documents indexed by RediSearch.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/vidshare/internal/db"
	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/domain/filter"
)

// batchSize bounds the page size used when walking a whole collection.
const batchSize = 500

// Store is the consumer interface for JSON collections (ISP).
type Store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONGetMulti(ctx context.Context, keys []string, path string) ([][]byte, error)
	Del(ctx context.Context, key string) error
	DelMulti(ctx context.Context, keys []string) error
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	Search(ctx context.Context, q *db.Query) (*db.SearchResult, error)
	Count(ctx context.Context, q *db.Query) (int, error)
}

// Schema adds the collection's indexed attributes to the builder.
type Schema func(b *db.IndexBuilder) *db.IndexBuilder

// Query selects a page of documents.
type Query struct {
	Filter   filter.Expression
	SortBy   string
	SortDesc bool
	Offset   int
	Limit    int
}

// Collection stores values of T at <prefix><name>:<id>.
// Every collection indexes "id" as a TAG in addition to its schema.
type Collection[T any] struct {
	store  Store
	name   string
	prefix string
	index  *db.IndexDefinition
	idOf   func(*T) string
}

// New creates a collection. It panics if schema produces an invalid index definition.
func New[T any](s Store, keyPrefix, name string, idOf func(*T) string, schema Schema) *Collection[T] {
	prefix := keyPrefix + name + ":"
	b := db.NewIndex(prefix+"idx", prefix).Tag("id")
	if schema != nil {
		b = schema(b)
	}
	return &Collection[T]{
		store:  s,
		name:   name,
		prefix: prefix,
		index:  b.MustBuild(),
		idOf:   idOf,
	}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string { return c.name }

// Index returns the FT index definition backing the collection.
func (c *Collection[T]) Index() *db.IndexDefinition { return c.index }

// IndexName returns the name of the FT index.
func (c *Collection[T]) IndexName() string { return c.index.Name }

// EnsureIndex creates the FT index unless it already exists.
func (c *Collection[T]) EnsureIndex(ctx context.Context) error {
	if err := c.store.CreateIndex(ctx, c.index); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", c.index.Name, err)
	}
	return nil
}

// Put creates or replaces a document.
func (c *Collection[T]) Put(ctx context.Context, doc *T) error {
	id := c.idOf(doc)
	if id == "" {
		return fmt.Errorf("put %s: empty id", c.name)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", c.name, err)
	}
	if err := c.store.JSONSet(ctx, c.key(id), "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", c.key(id), err)
	}
	return nil
}

// PutMany writes documents in one pipelined round-trip.
func (c *Collection[T]) PutMany(ctx context.Context, docs []T) error {
	if len(docs) == 0 {
		return nil
	}
	items := make([]db.JSONSetItem, len(docs))
	for i := range docs {
		data, err := json.Marshal(&docs[i])
		if err != nil {
			return fmt.Errorf("marshal %s: %w", c.name, err)
		}
		items[i] = db.JSONSetItem{Key: c.key(c.idOf(&docs[i])), Path: "$", Data: data}
	}
	if err := c.store.JSONSetMulti(ctx, items); err != nil {
		return fmt.Errorf("json.set %s batch: %w", c.name, err)
	}
	return nil
}

// Get returns the document with id or domain.ErrNotFound.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	raw, err := c.store.JSONGet(ctx, c.key(id), "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return zero, fmt.Errorf("%s %s: %w", c.name, id, domain.ErrNotFound)
		}
		return zero, fmt.Errorf("json.get %s: %w", c.key(id), err)
	}
	doc, err := decodeRoot[T](raw)
	if err != nil {
		return zero, fmt.Errorf("decode %s: %w", c.key(id), err)
	}
	return doc, nil
}

// GetMany returns the documents found for ids keyed by id. Missing ids are absent from the map.
func (c *Collection[T]) GetMany(ctx context.Context, ids []string) (map[string]T, error) {
	uniq := dedupe(ids)
	out := make(map[string]T, len(uniq))
	if len(uniq) == 0 {
		return out, nil
	}

	keys := make([]string, len(uniq))
	for i, id := range uniq {
		keys[i] = c.key(id)
	}
	raws, err := c.store.JSONGetMulti(ctx, keys, "$")
	if err != nil {
		return nil, fmt.Errorf("json.get %s batch: %w", c.name, err)
	}
	for i, raw := range raws {
		if raw == nil {
			continue
		}
		doc, err := decodeRoot[T](raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", keys[i], err)
		}
		out[uniq[i]] = doc
	}
	return out, nil
}

// Exists reports whether a document with id is stored.
func (c *Collection[T]) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := c.store.Exists(ctx, c.key(id))
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", c.key(id), err)
	}
	return ok, nil
}

// Delete removes the document with id or returns domain.ErrNotFound.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	ok, err := c.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s %s: %w", c.name, id, domain.ErrNotFound)
	}
	if err := c.store.Del(ctx, c.key(id)); err != nil {
		return fmt.Errorf("del %s: %w", c.key(id), err)
	}
	return nil
}

// DeleteMany removes documents by id; ids that do not exist are ignored.
func (c *Collection[T]) DeleteMany(ctx context.Context, ids []string) error {
	uniq := dedupe(ids)
	if len(uniq) == 0 {
		return nil
	}
	keys := make([]string, len(uniq))
	for i, id := range uniq {
		keys[i] = c.key(id)
	}
	if err := c.store.DelMulti(ctx, keys); err != nil {
		return fmt.Errorf("del %s batch: %w", c.name, err)
	}
	return nil
}

// Find returns one page of documents matching q and the total match count.
func (c *Collection[T]) Find(ctx context.Context, q Query) ([]T, int, error) {
	if q.Filter.MatchesNone() || q.Limit <= 0 {
		return nil, 0, nil
	}
	res, err := c.store.Search(ctx, &db.Query{
		IndexName:    c.index.Name,
		Filters:      q.Filter,
		SortBy:       q.SortBy,
		SortDesc:     q.SortDesc,
		Offset:       q.Offset,
		Limit:        q.Limit,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("search %s: %w", c.name, err)
	}
	docs, err := decodeEntries[T](res.Entries)
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", c.name, err)
	}
	return docs, res.Total, nil
}

// FindOne returns the first document matching f or domain.ErrNotFound.
func (c *Collection[T]) FindOne(ctx context.Context, f filter.Expression) (T, error) {
	var zero T
	docs, _, err := c.Find(ctx, Query{Filter: f, Limit: 1})
	if err != nil {
		return zero, err
	}
	if len(docs) == 0 {
		return zero, fmt.Errorf("%s: %w", c.name, domain.ErrNotFound)
	}
	return docs[0], nil
}

// Count returns the number of documents matching f.
func (c *Collection[T]) Count(ctx context.Context, f filter.Expression) (int, error) {
	if f.MatchesNone() {
		return 0, nil
	}
	n, err := c.store.Count(ctx, &db.Query{IndexName: c.index.Name, Filters: f})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", c.name, err)
	}
	return n, nil
}

// All walks every document matching f, ordered by sortBy ascending when set.
func (c *Collection[T]) All(ctx context.Context, f filter.Expression, sortBy string) ([]T, error) {
	var out []T
	for offset := 0; ; offset += batchSize {
		docs, total, err := c.Find(ctx, Query{Filter: f, SortBy: sortBy, Offset: offset, Limit: batchSize})
		if err != nil {
			return nil, err
		}
		out = append(out, docs...)
		if len(docs) < batchSize || offset+batchSize >= total {
			return out, nil
		}
	}
}

// Search runs a scored full-text query over fields restricted by f.
func (c *Collection[T]) Search(
	ctx context.Context, text string, fields []string, f filter.Expression, offset, limit int,
) ([]domain.Scored[T], int, error) {
	if f.MatchesNone() || limit <= 0 || strings.TrimSpace(text) == "" {
		return nil, 0, nil
	}
	res, err := c.store.Search(ctx, &db.Query{
		IndexName:    c.index.Name,
		Text:         text,
		TextFields:   fields,
		Filters:      f,
		Offset:       offset,
		Limit:        limit,
		WithScores:   true,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("text search %s: %w", c.name, err)
	}
	out := make([]domain.Scored[T], 0, len(res.Entries))
	for _, e := range res.Entries {
		doc, err := decodeObject[T](e)
		if err != nil {
			return nil, 0, fmt.Errorf("decode %s: %w", e.Key, err)
		}
		out = append(out, domain.Scored[T]{Item: doc, Score: e.Score})
	}
	return out, res.Total, nil
}

// Clear deletes every document of the collection and returns how many were removed.
func (c *Collection[T]) Clear(ctx context.Context) (int, error) {
	docs, err := c.All(ctx, filter.New(), "")
	if err != nil {
		return 0, err
	}
	ids := make([]string, len(docs))
	for i := range docs {
		ids[i] = c.idOf(&docs[i])
	}
	if err := c.DeleteMany(ctx, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (c *Collection[T]) key(id string) string { return c.prefix + id }

// decodeRoot unwraps the single-element array JSON.GET returns for the "$" path.
func decodeRoot[T any](raw []byte) (T, error) {
	var wrapped []T
	var zero T
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return zero, err
	}
	if len(wrapped) == 0 {
		return zero, errors.New("empty document")
	}
	return wrapped[0], nil
}

func decodeObject[T any](e db.SearchEntry) (T, error) {
	var doc T
	raw, ok := e.Fields["$"]
	if !ok {
		return doc, errors.New("missing document body")
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return doc, err
	}
	return doc, nil
}

func decodeEntries[T any](entries []db.SearchEntry) ([]T, error) {
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		doc, err := decodeObject[T](e)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Key, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
