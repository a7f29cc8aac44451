package db

import (
	"context"
	"time"
)

// Store is everything the Redis driver offers. Repositories and services depend on
// the narrow interfaces below instead.
//
//nolint:interfacebloat // facade; consumers declare the narrow sub-interface they need
type Store interface {
	Pinger
	JSONStore
	KVStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// JSONSetItem holds a single key+path+data triple for pipelined JSON.SET.
type JSONSetItem struct {
	Key  string
	Path string
	Data []byte
}

// JSONStore provides JSON document operations.
type JSONStore interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONSetMulti(ctx context.Context, items []JSONSetItem) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	// JSONGetMulti returns one entry per key, nil where the key is missing.
	JSONGetMulti(ctx context.Context, keys []string, path string) ([][]byte, error)
	Del(ctx context.Context, key string) error
	DelMulti(ctx context.Context, keys []string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// KVStore provides counter operations used for fixed-window limits.
type KVStore interface {
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// IndexManager creates and enumerates FT indexes. Indexes are never dropped by the
// application; schema changes go through a fresh key prefix.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	ListIndexes(ctx context.Context) ([]string, error)
}

// Searcher provides query operations over FT indexes.
type Searcher interface {
	Search(ctx context.Context, q *Query) (*SearchResult, error)
	Count(ctx context.Context, q *Query) (int, error)
}
