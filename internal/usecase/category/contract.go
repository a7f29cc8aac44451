package category

import (
	"context"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

// Repository defines the storage contract for categories.
type Repository interface {
	Create(ctx context.Context, c *domain.Category) error
	Update(ctx context.Context, c *domain.Category) error
	Get(ctx context.Context, id string) (domain.Category, error)
	List(ctx context.Context, offset, limit int) ([]domain.Category, int, error)
	Delete(ctx context.Context, id string) error
}

// VideoLister lists populated videos.
type VideoLister interface {
	List(ctx context.Context, f domain.VideoFilter, page domain.PageRequest) (domain.Page[domain.VideoDetails], error)
}
