package history

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vidshare/internal/db"
	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/domain/filter"
	"github.com/kailas-cloud/vidshare/internal/repository/docstore"
)

const collection = "histories"

// Repo stores watch and search history.
type Repo struct {
	c *docstore.Collection[domain.History]
}

// New creates a history repository.
func New(s docstore.Store, keyPrefix string) *Repo {
	return &Repo{c: docstore.New(s, keyPrefix, collection,
		func(h *domain.History) string { return h.ID },
		func(b *db.IndexBuilder) *db.IndexBuilder {
			return b.
				Tag("type").
				Tag("userId").
				Tag("videoId").
				Numeric("createdAt").Sortable()
		})}
}

// EnsureIndex creates the histories index.
func (r *Repo) EnsureIndex(ctx context.Context) error { return r.c.EnsureIndex(ctx) }

// IndexName returns the name of the FT index backing the repository.
func (r *Repo) IndexName() string { return r.c.Index().Name }

// Save creates or replaces a history entry.
func (r *Repo) Save(ctx context.Context, h *domain.History) error { return r.c.Put(ctx, h) }

// Get returns a history entry by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.History, error) {
	return r.c.Get(ctx, id)
}

// Delete removes a history entry.
func (r *Repo) Delete(ctx context.Context, id string) error { return r.c.Delete(ctx, id) }

// ListByUser returns a user's entries of type t, newest first.
func (r *Repo) ListByUser(
	ctx context.Context, userID string, t domain.HistoryType, offset, limit int,
) ([]domain.History, int, error) {
	return r.c.Find(ctx, docstore.Query{
		Filter:   filter.New().Eq("userId", userID).Eq("type", string(t)),
		SortBy:   "createdAt",
		SortDesc: true,
		Offset:   offset,
		Limit:    limit,
	})
}

// DeleteByUser removes a user's entries of type t and returns how many were removed.
func (r *Repo) DeleteByUser(ctx context.Context, userID string, t domain.HistoryType) (int, error) {
	entries, err := r.c.All(ctx, filter.New().Eq("userId", userID).Eq("type", string(t)), "")
	if err != nil {
		return 0, fmt.Errorf("list history: %w", err)
	}
	ids := make([]string, len(entries))
	for i := range entries {
		ids[i] = entries[i].ID
	}
	if err := r.c.DeleteMany(ctx, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// DetachVideo clears the video reference of every entry pointing at videoID.
func (r *Repo) DetachVideo(ctx context.Context, videoID string) error {
	entries, err := r.c.All(ctx, filter.New().Eq("videoId", videoID), "")
	if err != nil {
		return fmt.Errorf("list video history: %w", err)
	}
	for i := range entries {
		entries[i].VideoID = ""
	}
	return r.c.PutMany(ctx, entries)
}

// All returns every history entry, oldest first.
func (r *Repo) All(ctx context.Context) ([]domain.History, error) {
	return r.c.All(ctx, filter.New(), "createdAt")
}

// Clear removes every history entry.
func (r *Repo) Clear(ctx context.Context) (int, error) { return r.c.Clear(ctx) }
