package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

const countParallelism = 8

// State is the caller's subscription to a channel after a change.
type State struct {
	Subscribed  bool
	Subscribers int
}

// Service manages channel subscriptions.
type Service struct {
	repo   Repository
	users  UserReader
	videos VideoLister
	now    func() time.Time
}

// New creates a subscription service.
func New(repo Repository, users UserReader, videos VideoLister) *Service {
	return &Service{repo: repo, users: users, videos: videos, now: time.Now}
}

// Toggle subscribes the caller to a channel, or unsubscribes when already subscribed.
func (s *Service) Toggle(ctx context.Context, p domain.Principal, rawChannelID string) (State, error) {
	channelID, err := s.channel(ctx, rawChannelID)
	if err != nil {
		return State{}, err
	}

	existing, err := s.repo.Find(ctx, p.UserID, channelID)
	subscribed := false
	switch {
	case errors.Is(err, domain.ErrNotFound):
		sub := domain.Subscription{
			ID:           domain.NewID(),
			SubscriberID: p.UserID,
			ChannelID:    channelID,
			CreatedAt:    s.now().UnixMilli(),
		}
		if err := sub.Validate(); err != nil {
			return State{}, fmt.Errorf("validate subscription: %w", err)
		}
		if err := s.repo.Save(ctx, &sub); err != nil {
			return State{}, fmt.Errorf("save subscription: %w", err)
		}
		subscribed = true
	case err != nil:
		return State{}, fmt.Errorf("find subscription: %w", err)
	default:
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			return State{}, fmt.Errorf("delete subscription: %w", err)
		}
	}
	return s.state(ctx, channelID, subscribed)
}

// Check reports whether the caller is subscribed to a channel.
func (s *Service) Check(ctx context.Context, p domain.Principal, rawChannelID string) (State, error) {
	channelID, err := s.channel(ctx, rawChannelID)
	if err != nil {
		return State{}, err
	}
	_, err = s.repo.Find(ctx, p.UserID, channelID)
	switch {
	case err == nil:
		return s.state(ctx, channelID, true)
	case errors.Is(err, domain.ErrNotFound):
		return s.state(ctx, channelID, false)
	default:
		return State{}, fmt.Errorf("find subscription: %w", err)
	}
}

// Subscribers lists the channels subscribed to the caller, newest first.
func (s *Service) Subscribers(ctx context.Context, p domain.Principal, page domain.PageRequest) (domain.Page[domain.Channel], error) {
	subs, total, err := s.repo.ListByChannel(ctx, p.UserID, page.Offset(), page.Limit)
	if err != nil {
		return domain.Page[domain.Channel]{}, fmt.Errorf("list subscribers: %w", err)
	}
	ids := make([]string, len(subs))
	for i := range subs {
		ids[i] = subs[i].SubscriberID
	}
	return s.channels(ctx, ids, total, page)
}

// Channels lists the channels the caller is subscribed to, newest first.
func (s *Service) Channels(ctx context.Context, p domain.Principal, page domain.PageRequest) (domain.Page[domain.Channel], error) {
	subs, total, err := s.repo.ListBySubscriber(ctx, p.UserID, page.Offset(), page.Limit)
	if err != nil {
		return domain.Page[domain.Channel]{}, fmt.Errorf("list channels: %w", err)
	}
	ids := make([]string, len(subs))
	for i := range subs {
		ids[i] = subs[i].ChannelID
	}
	return s.channels(ctx, ids, total, page)
}

// Videos is the caller's feed: public videos of subscribed channels, newest first.
func (s *Service) Videos(ctx context.Context, p domain.Principal, page domain.PageRequest) (domain.Page[domain.VideoDetails], error) {
	ids, err := s.repo.ChannelIDs(ctx, p.UserID)
	if err != nil {
		return domain.Page[domain.VideoDetails]{}, fmt.Errorf("list channels: %w", err)
	}
	return s.videos.List(ctx, domain.VideoFilter{
		Status:           domain.StatusPublic,
		ChannelIDs:       ids,
		RestrictChannels: true,
	}, page)
}

// channels resolves ids in order with subscriber counts. Deleted users are skipped.
func (s *Service) channels(ctx context.Context, ids []string, total int, page domain.PageRequest) (domain.Page[domain.Channel], error) {
	users, err := s.users.GetMany(ctx, ids)
	if err != nil {
		return domain.Page[domain.Channel]{}, fmt.Errorf("load channels: %w", err)
	}
	out := make([]domain.Channel, 0, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			out = append(out, u.Channel())
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(countParallelism)
	for i := range out {
		g.Go(func() error {
			n, err := s.repo.CountByChannel(gctx, out[i].ID)
			if err != nil {
				return fmt.Errorf("count subscribers of %s: %w", out[i].ID, err)
			}
			out[i].Subscribers = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Page[domain.Channel]{}, err
	}
	return domain.NewPage(out, total, page), nil
}

func (s *Service) state(ctx context.Context, channelID string, subscribed bool) (State, error) {
	n, err := s.repo.CountByChannel(ctx, channelID)
	if err != nil {
		return State{}, fmt.Errorf("count subscribers: %w", err)
	}
	return State{Subscribed: subscribed, Subscribers: n}, nil
}

func (s *Service) channel(ctx context.Context, rawID string) (string, error) {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return "", err
	}
	if _, err := s.users.Get(ctx, id); err != nil {
		return "", fmt.Errorf("get channel: %w", err)
	}
	return id, nil
}
