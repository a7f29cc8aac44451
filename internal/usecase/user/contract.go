package user

import (
	"context"

	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/media"
)

// Repository defines the storage contract for users.
type Repository interface {
	Get(ctx context.Context, id string) (domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
	Delete(ctx context.Context, id string) error
}

// MediaReleaser frees uploaded avatars.
type MediaReleaser interface {
	Release(ctx context.Context, id string, kind media.Kind) error
}
