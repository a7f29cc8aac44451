package feeling

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vidshare/internal/db"
	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/domain/filter"
	"github.com/kailas-cloud/vidshare/internal/repository/docstore"
)

const collection = "feelings"

// Repo stores likes and dislikes.
type Repo struct {
	c *docstore.Collection[domain.Feeling]
}

// New creates a feeling repository.
func New(s docstore.Store, keyPrefix string) *Repo {
	return &Repo{c: docstore.New(s, keyPrefix, collection,
		func(f *domain.Feeling) string { return f.ID },
		func(b *db.IndexBuilder) *db.IndexBuilder {
			return b.
				Tag("type").
				Tag("videoId").
				Tag("userId").
				Numeric("createdAt").Sortable()
		})}
}

// EnsureIndex creates the feelings index.
func (r *Repo) EnsureIndex(ctx context.Context) error { return r.c.EnsureIndex(ctx) }

// IndexName returns the name of the FT index backing the repository.
func (r *Repo) IndexName() string { return r.c.Index().Name }

// Save creates or replaces a feeling.
func (r *Repo) Save(ctx context.Context, f *domain.Feeling) error { return r.c.Put(ctx, f) }

// Delete removes a feeling.
func (r *Repo) Delete(ctx context.Context, id string) error { return r.c.Delete(ctx, id) }

// Find returns the feeling of userID about videoID, or domain.ErrNotFound.
func (r *Repo) Find(ctx context.Context, userID, videoID string) (domain.Feeling, error) {
	return r.c.FindOne(ctx, filter.New().Eq("userId", userID).Eq("videoId", videoID))
}

// CountByVideo counts feelings of type t on a video.
func (r *Repo) CountByVideo(ctx context.Context, videoID string, t domain.FeelingType) (int, error) {
	return r.c.Count(ctx, filter.New().Eq("videoId", videoID).Eq("type", string(t)))
}

// ListByUser returns a user's feelings of type t, newest first.
func (r *Repo) ListByUser(
	ctx context.Context, userID string, t domain.FeelingType, offset, limit int,
) ([]domain.Feeling, int, error) {
	return r.c.Find(ctx, docstore.Query{
		Filter:   filter.New().Eq("userId", userID).Eq("type", string(t)),
		SortBy:   "createdAt",
		SortDesc: true,
		Offset:   offset,
		Limit:    limit,
	})
}

// DeleteByVideo removes every feeling about a video.
func (r *Repo) DeleteByVideo(ctx context.Context, videoID string) error {
	feelings, err := r.c.All(ctx, filter.New().Eq("videoId", videoID), "")
	if err != nil {
		return fmt.Errorf("list video feelings: %w", err)
	}
	ids := make([]string, len(feelings))
	for i := range feelings {
		ids[i] = feelings[i].ID
	}
	return r.c.DeleteMany(ctx, ids)
}

// All returns every feeling, oldest first.
func (r *Repo) All(ctx context.Context) ([]domain.Feeling, error) {
	return r.c.All(ctx, filter.New(), "createdAt")
}

// Clear removes every feeling.
func (r *Repo) Clear(ctx context.Context) (int, error) { return r.c.Clear(ctx) }
