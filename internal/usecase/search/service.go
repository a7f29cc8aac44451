package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/usecase/history"
)

// Service searches channels and public videos together.
type Service struct {
	users   UserSearcher
	videos  VideoSearcher
	history HistoryRecorder
	logger  *zap.Logger
	maxScan int
}

// New creates a search service. maxScan caps how many hits are read from each
// collection per request, which bounds the deepest reachable page.
func New(users UserSearcher, videos VideoSearcher, hist HistoryRecorder, logger *zap.Logger, maxScan int) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, videos: videos, history: hist, logger: logger, maxScan: maxScan}
}

// Search ranks users and public videos matching text. Each collection is read
// up to the end of the requested page, the two rankings are merged, and the
// page is cut from the merged list. Total is the sum of both match counts,
// capped at maxScan so pagination never points past the scanned hits.
func (s *Service) Search(
	ctx context.Context, p domain.Principal, text string, page domain.PageRequest,
) (domain.Page[Hit], error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Page[Hit]{}, domain.NewValidationError("text", "is required")
	}

	scan := page.Offset() + page.Limit
	if s.maxScan > 0 && scan > s.maxScan {
		scan = s.maxScan
	}

	var (
		users       []domain.Scored[domain.User]
		videos      []domain.Scored[domain.Video]
		usersTotal  int
		videosTotal int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, usersTotal, err = s.users.Search(gctx, text, 0, scan)
		if err != nil {
			return fmt.Errorf("search users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		videos, videosTotal, err = s.videos.SearchPublic(gctx, text, 0, scan)
		if err != nil {
			return fmt.Errorf("search videos: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Page[Hit]{}, err
	}

	videoHits, err := s.videoHits(ctx, videos)
	if err != nil {
		return domain.Page[Hit]{}, err
	}
	userHits := make([]Hit, len(users))
	for i, u := range users {
		userHits[i] = Hit{Kind: KindUser, Score: u.Score, Channel: channelHit(u.Item)}
	}

	merged := merge(videoHits, userHits)
	total := usersTotal + videosTotal
	if s.maxScan > 0 {
		// Only the first maxScan merged hits are ranked exactly; nothing past them is served.
		merged = merged[:min(len(merged), s.maxScan)]
		total = min(total, s.maxScan)
	}
	items := window(merged, page.Offset(), page.Limit)
	s.record(ctx, p, text)
	return domain.NewPage(items, total, page), nil
}

func (s *Service) videoHits(ctx context.Context, videos []domain.Scored[domain.Video]) ([]Hit, error) {
	ownerIDs := make([]string, 0, len(videos))
	seen := make(map[string]bool, len(videos))
	for _, v := range videos {
		if id := v.Item.UserID; !seen[id] {
			seen[id] = true
			ownerIDs = append(ownerIDs, id)
		}
	}
	owners, err := s.users.GetMany(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("load owners: %w", err)
	}

	hits := make([]Hit, len(videos))
	for i, sv := range videos {
		v := sv.Item
		vh := &VideoHit{
			ID:           v.ID,
			Title:        v.Title,
			Description:  v.Description,
			ThumbnailURL: v.ThumbnailURL,
			Views:        v.Views,
			CreatedAt:    v.CreatedAt,
		}
		if u, ok := owners[v.UserID]; ok {
			vh.Owner = channelHit(u)
		}
		hits[i] = Hit{Kind: KindVideo, Score: sv.Score, Video: vh}
	}
	return hits, nil
}

// record stores the query in the caller's search history. Failures are logged only.
func (s *Service) record(ctx context.Context, p domain.Principal, text string) {
	if s.history == nil || p.UserID == "" {
		return
	}
	if _, err := s.history.Record(ctx, p, history.Input{Type: domain.HistorySearch, SearchText: text}); err != nil {
		s.logger.Warn("record search history failed", zap.String("user_id", p.UserID), zap.Error(err))
	}
}

func channelHit(u domain.User) *ChannelHit {
	return &ChannelHit{ID: u.ID, ChannelName: u.ChannelName, PhotoURL: u.PhotoURL, CreatedAt: u.CreatedAt}
}
