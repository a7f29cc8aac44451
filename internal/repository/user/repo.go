package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/vidshare/internal/db"
	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/domain/filter"
	"github.com/kailas-cloud/vidshare/internal/repository/docstore"
)

const collection = "users"

// Repo stores users as JSON documents; emails are unique.
type Repo struct {
	c *docstore.Collection[domain.User]
}

// New creates a user repository.
func New(s docstore.Store, keyPrefix string) *Repo {
	return &Repo{c: docstore.New(s, keyPrefix, collection,
		func(u *domain.User) string { return u.ID },
		func(b *db.IndexBuilder) *db.IndexBuilder {
			return b.
				Text("channelName", 0).
				Tag("email").
				Tag("role").
				Numeric("createdAt").Sortable()
		})}
}

// EnsureIndex creates the users index.
func (r *Repo) EnsureIndex(ctx context.Context) error { return r.c.EnsureIndex(ctx) }

// IndexName returns the name of the FT index backing the repository.
func (r *Repo) IndexName() string { return r.c.Index().Name }

// Create stores a new user. A taken email yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, u *domain.User) error {
	if err := r.ensureEmailFree(ctx, u.Email, u.ID); err != nil {
		return err
	}
	return r.c.Put(ctx, u)
}

// Update replaces a stored user, keeping emails unique.
func (r *Repo) Update(ctx context.Context, u *domain.User) error {
	if err := r.ensureEmailFree(ctx, u.Email, u.ID); err != nil {
		return err
	}
	return r.c.Put(ctx, u)
}

// Get returns a user by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.User, error) {
	return r.c.Get(ctx, id)
}

// GetMany returns users keyed by id.
func (r *Repo) GetMany(ctx context.Context, ids []string) (map[string]domain.User, error) {
	return r.c.GetMany(ctx, ids)
}

// FindByEmail looks a user up by normalised email.
func (r *Repo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.c.FindOne(ctx, filter.New().Eq("email", email))
}

// List returns users newest first.
func (r *Repo) List(ctx context.Context, offset, limit int) ([]domain.User, int, error) {
	return r.c.Find(ctx, docstore.Query{SortBy: "createdAt", SortDesc: true, Offset: offset, Limit: limit})
}

// Delete removes a user.
func (r *Repo) Delete(ctx context.Context, id string) error { return r.c.Delete(ctx, id) }

// Search ranks users by channel name relevance.
func (r *Repo) Search(ctx context.Context, text string, offset, limit int) ([]domain.Scored[domain.User], int, error) {
	return r.c.Search(ctx, text, []string{"channelName"}, filter.New(), offset, limit)
}

// All returns every user, oldest first.
func (r *Repo) All(ctx context.Context) ([]domain.User, error) {
	return r.c.All(ctx, filter.New(), "createdAt")
}

// Clear removes every user.
func (r *Repo) Clear(ctx context.Context) (int, error) { return r.c.Clear(ctx) }

func (r *Repo) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := r.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("lookup email: %w", err)
	case existing.ID != selfID:
		return fmt.Errorf("email %s: %w", email, domain.ErrAlreadyExists)
	}
	return nil
}
