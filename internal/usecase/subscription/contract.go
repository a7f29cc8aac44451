package subscription

import (
	"context"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

// Repository defines the storage contract for subscriptions.
type Repository interface {
	Find(ctx context.Context, subscriberID, channelID string) (domain.Subscription, error)
	Save(ctx context.Context, s *domain.Subscription) error
	Delete(ctx context.Context, id string) error
	CountByChannel(ctx context.Context, channelID string) (int, error)
	ListByChannel(ctx context.Context, channelID string, offset, limit int) ([]domain.Subscription, int, error)
	ListBySubscriber(ctx context.Context, subscriberID string, offset, limit int) ([]domain.Subscription, int, error)
	ChannelIDs(ctx context.Context, subscriberID string) ([]string, error)
}

// UserReader resolves channels.
type UserReader interface {
	Get(ctx context.Context, id string) (domain.User, error)
	GetMany(ctx context.Context, ids []string) (map[string]domain.User, error)
}

// VideoLister lists populated videos.
type VideoLister interface {
	List(ctx context.Context, f domain.VideoFilter, page domain.PageRequest) (domain.Page[domain.VideoDetails], error)
}
