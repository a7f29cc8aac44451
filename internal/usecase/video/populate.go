package video

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

// countConcurrency bounds parallel count queries during population.
const countConcurrency = 8

// Populate resolves category and owner references and counts engagement for each video.
// Missing references are left nil; order is preserved.
func (s *Service) Populate(ctx context.Context, videos []domain.Video) ([]domain.VideoDetails, error) {
	if len(videos) == 0 {
		return []domain.VideoDetails{}, nil
	}

	ownerIDs := make([]string, 0, len(videos))
	categoryIDs := make([]string, 0, len(videos))
	for i := range videos {
		ownerIDs = append(ownerIDs, videos[i].UserID)
		if videos[i].CategoryID != "" {
			categoryIDs = append(categoryIDs, videos[i].CategoryID)
		}
	}

	var (
		owners     map[string]domain.User
		categories map[string]domain.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		owners, err = s.users.GetMany(gctx, ownerIDs)
		if err != nil {
			return fmt.Errorf("load owners: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.categories.GetMany(gctx, categoryIDs)
		if err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.VideoDetails, len(videos))
	channels := make(map[string]*domain.Channel, len(owners))
	for id, u := range owners {
		ch := u.Channel()
		channels[id] = &ch
	}

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(countConcurrency)
	for id, ch := range channels {
		g.Go(func() error {
			n, err := s.subscribers.CountByChannel(gctx, id)
			if err != nil {
				return fmt.Errorf("count subscribers: %w", err)
			}
			ch.Subscribers = n
			return nil
		})
	}
	for i := range videos {
		d := &out[i]
		d.Video = videos[i]
		if c, ok := categories[videos[i].CategoryID]; ok {
			d.Category = &domain.CategoryRef{ID: c.ID, Title: c.Title}
		}
		d.Channel = channels[videos[i].UserID]
		g.Go(func() error { return s.countEngagement(gctx, d) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// PopulateOne is Populate for a single video.
func (s *Service) PopulateOne(ctx context.Context, v domain.Video) (domain.VideoDetails, error) {
	out, err := s.Populate(ctx, []domain.Video{v})
	if err != nil {
		return domain.VideoDetails{}, err
	}
	return out[0], nil
}

func (s *Service) countEngagement(ctx context.Context, d *domain.VideoDetails) error {
	var err error
	if d.Likes, err = s.feelings.CountByVideo(ctx, d.ID, domain.FeelingLike); err != nil {
		return fmt.Errorf("count likes: %w", err)
	}
	if d.Dislikes, err = s.feelings.CountByVideo(ctx, d.ID, domain.FeelingDislike); err != nil {
		return fmt.Errorf("count dislikes: %w", err)
	}
	if d.Comments, err = s.comments.CountByVideo(ctx, d.ID); err != nil {
		return fmt.Errorf("count comments: %w", err)
	}
	return nil
}
