package feeling

import (
	"context"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

// Repository defines the storage contract for feelings.
type Repository interface {
	Find(ctx context.Context, userID, videoID string) (domain.Feeling, error)
	Save(ctx context.Context, f *domain.Feeling) error
	Delete(ctx context.Context, id string) error
	CountByVideo(ctx context.Context, videoID string, t domain.FeelingType) (int, error)
	ListByUser(ctx context.Context, userID string, t domain.FeelingType, offset, limit int) ([]domain.Feeling, int, error)
}

// VideoReader loads reacted videos.
type VideoReader interface {
	Get(ctx context.Context, id string) (domain.Video, error)
	GetMany(ctx context.Context, ids []string) (map[string]domain.Video, error)
}

// VideoPopulator resolves video references.
type VideoPopulator interface {
	Populate(ctx context.Context, videos []domain.Video) ([]domain.VideoDetails, error)
}
