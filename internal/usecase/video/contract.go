package video

import (
	"context"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

// Repository defines the storage contract for videos.
type Repository interface {
	Save(ctx context.Context, v *domain.Video) error
	Get(ctx context.Context, id string) (domain.Video, error)
	GetMany(ctx context.Context, ids []string) (map[string]domain.Video, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f domain.VideoFilter, offset, limit int) ([]domain.Video, int, error)
}

// UserReader resolves video owners.
type UserReader interface {
	GetMany(ctx context.Context, ids []string) (map[string]domain.User, error)
}

// CategoryReader resolves video categories.
type CategoryReader interface {
	Get(ctx context.Context, id string) (domain.Category, error)
	GetMany(ctx context.Context, ids []string) (map[string]domain.Category, error)
}

// FeelingStore counts and cascades reactions.
type FeelingStore interface {
	CountByVideo(ctx context.Context, videoID string, t domain.FeelingType) (int, error)
	DeleteByVideo(ctx context.Context, videoID string) error
}

// CommentStore counts and cascades comments.
type CommentStore interface {
	CountByVideo(ctx context.Context, videoID string) (int, error)
	DeleteByVideo(ctx context.Context, videoID string) ([]string, error)
}

// ReplyStore cascades replies of deleted comments.
type ReplyStore interface {
	DeleteByComments(ctx context.Context, commentIDs []string) error
}

// HistoryStore detaches watch history from deleted videos.
type HistoryStore interface {
	DetachVideo(ctx context.Context, videoID string) error
}

// SubscriberCounter counts a channel's subscribers.
type SubscriberCounter interface {
	CountByChannel(ctx context.Context, channelID string) (int, error)
}
