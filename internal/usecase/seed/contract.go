package seed

import (
	"context"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

// Clearer empties a collection and reports how many records it removed.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// UserStore stores fixture users.
type UserStore interface {
	Clearer
	Create(ctx context.Context, u *domain.User) error
	All(ctx context.Context) ([]domain.User, error)
}

// CategoryStore stores fixture categories.
type CategoryStore interface {
	Clearer
	Create(ctx context.Context, c *domain.Category) error
	All(ctx context.Context) ([]domain.Category, error)
}

// Store saves and lists one entity type.
type Store[T any] interface {
	Clearer
	Save(ctx context.Context, v *T) error
	All(ctx context.Context) ([]T, error)
}

// PasswordHasher hashes fixture passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
}
