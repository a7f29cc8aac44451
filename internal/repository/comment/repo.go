package comment

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vidshare/internal/db"
	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/domain/filter"
	"github.com/kailas-cloud/vidshare/internal/repository/docstore"
)

const collection = "comments"

// Repo stores top-level comments.
type Repo struct {
	c *docstore.Collection[domain.Comment]
}

// New creates a comment repository.
func New(s docstore.Store, keyPrefix string) *Repo {
	return &Repo{c: docstore.New(s, keyPrefix, collection,
		func(c *domain.Comment) string { return c.ID },
		func(b *db.IndexBuilder) *db.IndexBuilder {
			return b.
				Text("text", 0).
				Tag("videoId").
				Tag("userId").
				Numeric("createdAt").Sortable()
		})}
}

// EnsureIndex creates the comments index.
func (r *Repo) EnsureIndex(ctx context.Context) error { return r.c.EnsureIndex(ctx) }

// IndexName returns the name of the FT index backing the repository.
func (r *Repo) IndexName() string { return r.c.Index().Name }

// Save creates or replaces a comment.
func (r *Repo) Save(ctx context.Context, c *domain.Comment) error { return r.c.Put(ctx, c) }

// Get returns a comment by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.Comment, error) {
	return r.c.Get(ctx, id)
}

// Delete removes a comment.
func (r *Repo) Delete(ctx context.Context, id string) error { return r.c.Delete(ctx, id) }

// ListByVideo returns a video's comments newest first.
func (r *Repo) ListByVideo(ctx context.Context, videoID string, offset, limit int) ([]domain.Comment, int, error) {
	return r.c.Find(ctx, docstore.Query{
		Filter:   filter.New().Eq("videoId", videoID),
		SortBy:   "createdAt",
		SortDesc: true,
		Offset:   offset,
		Limit:    limit,
	})
}

// CountByVideo returns the number of comments on a video.
func (r *Repo) CountByVideo(ctx context.Context, videoID string) (int, error) {
	return r.c.Count(ctx, filter.New().Eq("videoId", videoID))
}

// DeleteByVideo removes every comment of a video and returns their ids.
func (r *Repo) DeleteByVideo(ctx context.Context, videoID string) ([]string, error) {
	comments, err := r.c.All(ctx, filter.New().Eq("videoId", videoID), "")
	if err != nil {
		return nil, fmt.Errorf("list video comments: %w", err)
	}
	ids := make([]string, len(comments))
	for i := range comments {
		ids[i] = comments[i].ID
	}
	if err := r.c.DeleteMany(ctx, ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// All returns every comment, oldest first.
func (r *Repo) All(ctx context.Context) ([]domain.Comment, error) {
	return r.c.All(ctx, filter.New(), "createdAt")
}

// Clear removes every comment.
func (r *Repo) Clear(ctx context.Context) (int, error) { return r.c.Clear(ctx) }
