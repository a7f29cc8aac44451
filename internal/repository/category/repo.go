package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/vidshare/internal/db"
	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/domain/filter"
	"github.com/kailas-cloud/vidshare/internal/repository/docstore"
)

const collection = "categories"

// Repo stores categories; titles are unique case-insensitively via titleKey.
type Repo struct {
	c *docstore.Collection[domain.Category]
}

// New creates a category repository.
func New(s docstore.Store, keyPrefix string) *Repo {
	return &Repo{c: docstore.New(s, keyPrefix, collection,
		func(c *domain.Category) string { return c.ID },
		func(b *db.IndexBuilder) *db.IndexBuilder {
			return b.
				Text("title", 0).
				Tag("titleKey").
				Tag("userId").
				Numeric("createdAt").Sortable()
		})}
}

// EnsureIndex creates the categories index.
func (r *Repo) EnsureIndex(ctx context.Context) error { return r.c.EnsureIndex(ctx) }

// IndexName returns the name of the FT index backing the repository.
func (r *Repo) IndexName() string { return r.c.Index().Name }

// Create stores a new category. A taken title yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, c *domain.Category) error {
	if err := r.ensureTitleFree(ctx, c.TitleKey, c.ID); err != nil {
		return err
	}
	return r.c.Put(ctx, c)
}

// Update replaces a stored category, keeping titles unique.
func (r *Repo) Update(ctx context.Context, c *domain.Category) error {
	if err := r.ensureTitleFree(ctx, c.TitleKey, c.ID); err != nil {
		return err
	}
	return r.c.Put(ctx, c)
}

// Get returns a category by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.Category, error) {
	return r.c.Get(ctx, id)
}

// GetMany returns categories keyed by id.
func (r *Repo) GetMany(ctx context.Context, ids []string) (map[string]domain.Category, error) {
	return r.c.GetMany(ctx, ids)
}

// FindByTitle looks a category up by title, ignoring case and surrounding space.
func (r *Repo) FindByTitle(ctx context.Context, title string) (domain.Category, error) {
	return r.c.FindOne(ctx, filter.New().Eq("titleKey", domain.CategoryKey(title)))
}

// List returns categories newest first.
func (r *Repo) List(ctx context.Context, offset, limit int) ([]domain.Category, int, error) {
	return r.c.Find(ctx, docstore.Query{SortBy: "createdAt", SortDesc: true, Offset: offset, Limit: limit})
}

// Delete removes a category.
func (r *Repo) Delete(ctx context.Context, id string) error { return r.c.Delete(ctx, id) }

// All returns every category, oldest first.
func (r *Repo) All(ctx context.Context) ([]domain.Category, error) {
	return r.c.All(ctx, filter.New(), "createdAt")
}

// Clear removes every category.
func (r *Repo) Clear(ctx context.Context) (int, error) { return r.c.Clear(ctx) }

func (r *Repo) ensureTitleFree(ctx context.Context, key, selfID string) error {
	existing, err := r.c.FindOne(ctx, filter.New().Eq("titleKey", key))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("lookup title: %w", err)
	case existing.ID != selfID:
		return fmt.Errorf("category %q: %w", key, domain.ErrAlreadyExists)
	}
	return nil
}
