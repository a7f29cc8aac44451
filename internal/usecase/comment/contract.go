package comment

import (
	"context"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

// Repository defines the storage contract for comments.
type Repository interface {
	Save(ctx context.Context, c *domain.Comment) error
	Get(ctx context.Context, id string) (domain.Comment, error)
	Delete(ctx context.Context, id string) error
	ListByVideo(ctx context.Context, videoID string, offset, limit int) ([]domain.Comment, int, error)
}

// ReplyRepository defines the storage contract for replies.
type ReplyRepository interface {
	Save(ctx context.Context, r *domain.Reply) error
	Get(ctx context.Context, id string) (domain.Reply, error)
	Delete(ctx context.Context, id string) error
	ListByComments(ctx context.Context, commentIDs []string) ([]domain.Reply, error)
	DeleteByComments(ctx context.Context, commentIDs []string) error
}

// VideoReader checks that commented videos exist.
type VideoReader interface {
	Get(ctx context.Context, id string) (domain.Video, error)
}

// UserReader resolves comment authors.
type UserReader interface {
	GetMany(ctx context.Context, ids []string) (map[string]domain.User, error)
}
