package redis

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vidshare/internal/db"
)

// CreateIndex runs FT.CREATE for def. An existing index of the same name yields db.ErrIndexExists
// and is left untouched, even if its schema differs.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(def.CreateArgs()...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// ListIndexes returns the names of every FT index on the server (FT._LIST).
func (s *Store) ListIndexes(ctx context.Context) ([]string, error) {
	names, err := s.do(ctx, s.b().Arbitrary("FT._LIST").Build()).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpListIndexes, Err: err}
	}
	return names, nil
}
