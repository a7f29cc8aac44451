package subscription

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vidshare/internal/db"
	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/domain/filter"
	"github.com/kailas-cloud/vidshare/internal/repository/docstore"
)

const collection = "subscriptions"

// Repo stores subscriber to channel links.
type Repo struct {
	c *docstore.Collection[domain.Subscription]
}

// New creates a subscription repository.
func New(s docstore.Store, keyPrefix string) *Repo {
	return &Repo{c: docstore.New(s, keyPrefix, collection,
		func(s *domain.Subscription) string { return s.ID },
		func(b *db.IndexBuilder) *db.IndexBuilder {
			return b.
				Tag("subscriberId").
				Tag("channelId").
				Numeric("createdAt").Sortable()
		})}
}

// EnsureIndex creates the subscriptions index.
func (r *Repo) EnsureIndex(ctx context.Context) error { return r.c.EnsureIndex(ctx) }

// IndexName returns the name of the FT index backing the repository.
func (r *Repo) IndexName() string { return r.c.Index().Name }

// Save creates or replaces a subscription.
func (r *Repo) Save(ctx context.Context, s *domain.Subscription) error { return r.c.Put(ctx, s) }

// Delete removes a subscription.
func (r *Repo) Delete(ctx context.Context, id string) error { return r.c.Delete(ctx, id) }

// Find returns the subscription of subscriberID to channelID, or domain.ErrNotFound.
func (r *Repo) Find(ctx context.Context, subscriberID, channelID string) (domain.Subscription, error) {
	return r.c.FindOne(ctx, filter.New().Eq("subscriberId", subscriberID).Eq("channelId", channelID))
}

// CountByChannel returns the subscriber count of a channel.
func (r *Repo) CountByChannel(ctx context.Context, channelID string) (int, error) {
	return r.c.Count(ctx, filter.New().Eq("channelId", channelID))
}

// ListByChannel returns a channel's subscriptions, newest first.
func (r *Repo) ListByChannel(ctx context.Context, channelID string, offset, limit int) ([]domain.Subscription, int, error) {
	return r.list(ctx, filter.New().Eq("channelId", channelID), offset, limit)
}

// ListBySubscriber returns the subscriptions a user holds, newest first.
func (r *Repo) ListBySubscriber(
	ctx context.Context, subscriberID string, offset, limit int,
) ([]domain.Subscription, int, error) {
	return r.list(ctx, filter.New().Eq("subscriberId", subscriberID), offset, limit)
}

// ChannelIDs returns every channel a user is subscribed to.
func (r *Repo) ChannelIDs(ctx context.Context, subscriberID string) ([]string, error) {
	subs, err := r.c.All(ctx, filter.New().Eq("subscriberId", subscriberID), "")
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	ids := make([]string, len(subs))
	for i := range subs {
		ids[i] = subs[i].ChannelID
	}
	return ids, nil
}

// All returns every subscription, oldest first.
func (r *Repo) All(ctx context.Context) ([]domain.Subscription, error) {
	return r.c.All(ctx, filter.New(), "createdAt")
}

// Clear removes every subscription.
func (r *Repo) Clear(ctx context.Context) (int, error) { return r.c.Clear(ctx) }

func (r *Repo) list(ctx context.Context, f filter.Expression, offset, limit int) ([]domain.Subscription, int, error) {
	return r.c.Find(ctx, docstore.Query{Filter: f, SortBy: "createdAt", SortDesc: true, Offset: offset, Limit: limit})
}
