package video

import (
	"context"

	"github.com/kailas-cloud/vidshare/internal/db"
	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/domain/filter"
	"github.com/kailas-cloud/vidshare/internal/repository/docstore"
)

const collection = "videos"

// Repo stores video metadata.
type Repo struct {
	c *docstore.Collection[domain.Video]
}

// New creates a video repository. Titles weigh more than descriptions in text search.
func New(s docstore.Store, keyPrefix string) *Repo {
	return &Repo{c: docstore.New(s, keyPrefix, collection,
		func(v *domain.Video) string { return v.ID },
		func(b *db.IndexBuilder) *db.IndexBuilder {
			return b.
				Text("title", 2).
				Text("description", 0).
				Tag("status").
				Tag("userId").
				Tag("categoryId").
				Numeric("views").Sortable().
				Numeric("createdAt").Sortable()
		})}
}

// EnsureIndex creates the videos index.
func (r *Repo) EnsureIndex(ctx context.Context) error { return r.c.EnsureIndex(ctx) }

// IndexName returns the name of the FT index backing the repository.
func (r *Repo) IndexName() string { return r.c.Index().Name }

// Save creates or replaces a video.
func (r *Repo) Save(ctx context.Context, v *domain.Video) error { return r.c.Put(ctx, v) }

// Get returns a video by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.Video, error) {
	return r.c.Get(ctx, id)
}

// GetMany returns videos keyed by id.
func (r *Repo) GetMany(ctx context.Context, ids []string) (map[string]domain.Video, error) {
	return r.c.GetMany(ctx, ids)
}

// Delete removes a video record.
func (r *Repo) Delete(ctx context.Context, id string) error { return r.c.Delete(ctx, id) }

// List returns videos matching f, newest first.
func (r *Repo) List(ctx context.Context, f domain.VideoFilter, offset, limit int) ([]domain.Video, int, error) {
	return r.c.Find(ctx, docstore.Query{
		Filter:   toExpression(f),
		SortBy:   "createdAt",
		SortDesc: true,
		Offset:   offset,
		Limit:    limit,
	})
}

// SearchPublic ranks public videos by title and description relevance.
func (r *Repo) SearchPublic(ctx context.Context, text string, offset, limit int) ([]domain.Scored[domain.Video], int, error) {
	return r.c.Search(ctx, text, []string{"title", "description"},
		filter.New().Eq("status", string(domain.StatusPublic)), offset, limit)
}

// All returns every video, oldest first.
func (r *Repo) All(ctx context.Context) ([]domain.Video, error) {
	return r.c.All(ctx, filter.New(), "createdAt")
}

// Clear removes every video record.
func (r *Repo) Clear(ctx context.Context) (int, error) { return r.c.Clear(ctx) }

func toExpression(f domain.VideoFilter) filter.Expression {
	e := filter.New().
		Eq("status", string(f.Status)).
		Eq("userId", f.OwnerID).
		Eq("categoryId", f.CategoryID).
		NotEq("id", f.ExcludeID)
	if f.RestrictChannels {
		e = e.In("userId", f.ChannelIDs...)
	}
	return e
}
