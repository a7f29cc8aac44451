package feeling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

// State is the caller's reaction to a video after a change, with fresh counts.
// Type is empty when the caller has no reaction.
type State struct {
	Type     domain.FeelingType
	Likes    int
	Dislikes int
}

// Service toggles likes and dislikes.
type Service struct {
	repo      Repository
	videos    VideoReader
	populator VideoPopulator
	now       func() time.Time
}

// New creates a feeling service.
func New(repo Repository, videos VideoReader, populator VideoPopulator) *Service {
	return &Service{repo: repo, videos: videos, populator: populator, now: time.Now}
}

// Toggle applies a reaction: repeating the current one removes it,
// the opposite one replaces it, and a first one creates it.
func (s *Service) Toggle(ctx context.Context, p domain.Principal, rawVideoID string, t domain.FeelingType) (State, error) {
	if !t.IsValid() {
		return State{}, domain.NewValidationError("type", "must be like or dislike")
	}
	videoID, err := s.visibleVideo(ctx, p, rawVideoID)
	if err != nil {
		return State{}, err
	}

	existing, err := s.repo.Find(ctx, p.UserID, videoID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		f := domain.Feeling{
			ID:        domain.NewID(),
			Type:      t,
			VideoID:   videoID,
			UserID:    p.UserID,
			CreatedAt: s.now().UnixMilli(),
		}
		if err := f.Validate(); err != nil {
			return State{}, fmt.Errorf("validate feeling: %w", err)
		}
		if err := s.repo.Save(ctx, &f); err != nil {
			return State{}, fmt.Errorf("save feeling: %w", err)
		}
	case err != nil:
		return State{}, fmt.Errorf("find feeling: %w", err)
	case existing.Type == t:
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			return State{}, fmt.Errorf("delete feeling: %w", err)
		}
		t = ""
	default:
		existing.Type = t
		if err := s.repo.Save(ctx, &existing); err != nil {
			return State{}, fmt.Errorf("save feeling: %w", err)
		}
	}
	return s.state(ctx, videoID, t)
}

// Check returns the caller's reaction to a video with current counts.
func (s *Service) Check(ctx context.Context, p domain.Principal, rawVideoID string) (State, error) {
	videoID, err := s.visibleVideo(ctx, p, rawVideoID)
	if err != nil {
		return State{}, err
	}
	var t domain.FeelingType
	f, err := s.repo.Find(ctx, p.UserID, videoID)
	switch {
	case err == nil:
		t = f.Type
	case !errors.Is(err, domain.ErrNotFound):
		return State{}, fmt.Errorf("find feeling: %w", err)
	}
	return s.state(ctx, videoID, t)
}

// LikedVideos returns the caller's liked videos, most recently liked first.
// Videos deleted or hidden since are skipped but still counted in the total.
func (s *Service) LikedVideos(ctx context.Context, p domain.Principal, page domain.PageRequest) (domain.Page[domain.VideoDetails], error) {
	feelings, total, err := s.repo.ListByUser(ctx, p.UserID, domain.FeelingLike, page.Offset(), page.Limit)
	if err != nil {
		return domain.Page[domain.VideoDetails]{}, fmt.Errorf("list likes: %w", err)
	}
	ids := make([]string, len(feelings))
	for i := range feelings {
		ids[i] = feelings[i].VideoID
	}
	found, err := s.videos.GetMany(ctx, ids)
	if err != nil {
		return domain.Page[domain.VideoDetails]{}, fmt.Errorf("load videos: %w", err)
	}
	videos := make([]domain.Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := found[id]; ok && (v.IsPublic() || p.CanModify(v.UserID)) {
			videos = append(videos, v)
		}
	}
	details, err := s.populator.Populate(ctx, videos)
	if err != nil {
		return domain.Page[domain.VideoDetails]{}, fmt.Errorf("populate videos: %w", err)
	}
	return domain.NewPage(details, total, page), nil
}

func (s *Service) state(ctx context.Context, videoID string, t domain.FeelingType) (State, error) {
	likes, err := s.repo.CountByVideo(ctx, videoID, domain.FeelingLike)
	if err != nil {
		return State{}, fmt.Errorf("count likes: %w", err)
	}
	dislikes, err := s.repo.CountByVideo(ctx, videoID, domain.FeelingDislike)
	if err != nil {
		return State{}, fmt.Errorf("count dislikes: %w", err)
	}
	return State{Type: t, Likes: likes, Dislikes: dislikes}, nil
}

func (s *Service) visibleVideo(ctx context.Context, p domain.Principal, rawID string) (string, error) {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return "", err
	}
	v, err := s.videos.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get video: %w", err)
	}
	if !v.IsPublic() && !p.CanModify(v.UserID) {
		return "", fmt.Errorf("video %s: %w", id, domain.ErrNotFound)
	}
	return id, nil
}
