package history

import (
	"context"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

// Repository defines the storage contract for history entries.
type Repository interface {
	Save(ctx context.Context, h *domain.History) error
	Get(ctx context.Context, id string) (domain.History, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, t domain.HistoryType, offset, limit int) ([]domain.History, int, error)
	DeleteByUser(ctx context.Context, userID string, t domain.HistoryType) (int, error)
}

// VideoReader loads watched videos.
type VideoReader interface {
	Get(ctx context.Context, id string) (domain.Video, error)
	GetMany(ctx context.Context, ids []string) (map[string]domain.Video, error)
}

// VideoPopulator resolves video references.
type VideoPopulator interface {
	Populate(ctx context.Context, videos []domain.Video) ([]domain.VideoDetails, error)
}
