package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

// Input is a history entry to record. VideoID is used by watches, SearchText by searches.
type Input struct {
	Type       domain.HistoryType
	VideoID    string
	SearchText string
}

// Service records and lists watch and search history.
type Service struct {
	repo      Repository
	videos    VideoReader
	populator VideoPopulator
	now       func() time.Time
}

// New creates a history service.
func New(repo Repository, videos VideoReader, populator VideoPopulator) *Service {
	return &Service{repo: repo, videos: videos, populator: populator, now: time.Now}
}

// Record stores a history entry owned by the caller.
func (s *Service) Record(ctx context.Context, p domain.Principal, in Input) (domain.History, error) {
	h := domain.History{
		ID:        domain.NewID(),
		Type:      in.Type,
		UserID:    p.UserID,
		CreatedAt: s.now().UnixMilli(),
	}
	switch in.Type {
	case domain.HistoryWatch:
		id, err := domain.ParseID(in.VideoID)
		if err != nil {
			return domain.History{}, err
		}
		v, err := s.videos.Get(ctx, id)
		if err != nil {
			return domain.History{}, fmt.Errorf("get video: %w", err)
		}
		if !v.IsPublic() && !p.CanModify(v.UserID) {
			return domain.History{}, fmt.Errorf("video %s: %w", id, domain.ErrNotFound)
		}
		h.VideoID = id
	case domain.HistorySearch:
		h.SearchText = strings.TrimSpace(in.SearchText)
	}
	if err := h.Validate(); err != nil {
		return domain.History{}, fmt.Errorf("validate history: %w", err)
	}
	if err := s.repo.Save(ctx, &h); err != nil {
		return domain.History{}, fmt.Errorf("save history: %w", err)
	}
	return h, nil
}

// List returns the caller's entries of type t, newest first. Watches carry
// their video when it still exists and is visible to the caller.
func (s *Service) List(
	ctx context.Context, p domain.Principal, t domain.HistoryType, page domain.PageRequest,
) (domain.Page[domain.HistoryEntry], error) {
	if !t.IsValid() {
		return domain.Page[domain.HistoryEntry]{}, domain.NewValidationError("type", "must be watch or search")
	}
	items, total, err := s.repo.ListByUser(ctx, p.UserID, t, page.Offset(), page.Limit)
	if err != nil {
		return domain.Page[domain.HistoryEntry]{}, fmt.Errorf("list history: %w", err)
	}
	entries := make([]domain.HistoryEntry, len(items))
	for i := range items {
		entries[i].History = items[i]
	}
	if t != domain.HistoryWatch {
		return domain.NewPage(entries, total, page), nil
	}

	details, err := s.videoDetails(ctx, p, items)
	if err != nil {
		return domain.Page[domain.HistoryEntry]{}, err
	}
	for i := range entries {
		if d, ok := details[entries[i].VideoID]; ok {
			entries[i].Video = &d
		}
	}
	return domain.NewPage(entries, total, page), nil
}

// Delete removes one entry. Only its owner or an admin may delete it.
func (s *Service) Delete(ctx context.Context, p domain.Principal, rawID string) error {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return err
	}
	h, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get history: %w", err)
	}
	if !p.CanModify(h.UserID) {
		return fmt.Errorf("history %s: %w", id, domain.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	return nil
}

// Clear removes all the caller's entries of type t and returns how many were removed.
func (s *Service) Clear(ctx context.Context, p domain.Principal, t domain.HistoryType) (int, error) {
	if !t.IsValid() {
		return 0, domain.NewValidationError("type", "must be watch or search")
	}
	n, err := s.repo.DeleteByUser(ctx, p.UserID, t)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return n, nil
}

func (s *Service) videoDetails(
	ctx context.Context, p domain.Principal, items []domain.History,
) (map[string]domain.VideoDetails, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for i := range items {
		if id := items[i].VideoID; id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	found, err := s.videos.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load videos: %w", err)
	}
	videos := make([]domain.Video, 0, len(found))
	for _, id := range ids {
		if v, ok := found[id]; ok && (v.IsPublic() || p.CanModify(v.UserID)) {
			videos = append(videos, v)
		}
	}
	details, err := s.populator.Populate(ctx, videos)
	if err != nil {
		return nil, fmt.Errorf("populate videos: %w", err)
	}
	out := make(map[string]domain.VideoDetails, len(details))
	for _, d := range details {
		out[d.ID] = d
	}
	return out, nil
}
