package category

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

// Input carries the writable category fields.
type Input struct {
	Title       string
	Description string
}

// Patch is a partial category update. Nil fields are left unchanged.
type Patch struct {
	Title       *string
	Description *string
}

// Service handles category CRUD.
type Service struct {
	repo   Repository
	videos VideoLister
	now    func() time.Time
}

// New creates a category service.
func New(repo Repository, videos VideoLister) *Service {
	return &Service{repo: repo, videos: videos, now: time.Now}
}

// Create validates and stores a category owned by the caller.
func (s *Service) Create(ctx context.Context, p domain.Principal, in Input) (domain.Category, error) {
	now := s.now().UnixMilli()
	c := domain.Category{
		ID:          domain.NewID(),
		Title:       in.Title,
		Description: in.Description,
		UserID:      p.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.Validate(); err != nil {
		return domain.Category{}, fmt.Errorf("validate category: %w", err)
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return domain.Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// Get retrieves a category by id.
func (s *Service) Get(ctx context.Context, rawID string) (domain.Category, error) {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return domain.Category{}, err
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// List returns a page of categories, newest first.
func (s *Service) List(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Category], error) {
	items, total, err := s.repo.List(ctx, page.Offset(), page.Limit)
	if err != nil {
		return domain.Page[domain.Category]{}, fmt.Errorf("list categories: %w", err)
	}
	return domain.NewPage(items, total, page), nil
}

// Update applies a partial update. Only the creator or an admin may update.
func (s *Service) Update(ctx context.Context, p domain.Principal, rawID string, patch Patch) (domain.Category, error) {
	c, err := s.Get(ctx, rawID)
	if err != nil {
		return domain.Category{}, err
	}
	if !p.CanModify(c.UserID) {
		return domain.Category{}, fmt.Errorf("category %s: %w", c.ID, domain.ErrForbidden)
	}
	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if err := c.Validate(); err != nil {
		return domain.Category{}, fmt.Errorf("validate category: %w", err)
	}
	c.UpdatedAt = s.now().UnixMilli()
	if err := s.repo.Update(ctx, &c); err != nil {
		return domain.Category{}, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// Delete removes a category. Videos keep their reference and populate without a category.
func (s *Service) Delete(ctx context.Context, p domain.Principal, rawID string) error {
	c, err := s.Get(ctx, rawID)
	if err != nil {
		return err
	}
	if !p.CanModify(c.UserID) {
		return fmt.Errorf("category %s: %w", c.ID, domain.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// Videos lists public videos, optionally narrowed to one category.
func (s *Service) Videos(ctx context.Context, rawCategoryID string, page domain.PageRequest) (domain.Page[domain.VideoDetails], error) {
	f := domain.VideoFilter{Status: domain.StatusPublic}
	if rawCategoryID != "" {
		id, err := domain.ParseID(rawCategoryID)
		if err != nil {
			return domain.Page[domain.VideoDetails]{}, err
		}
		f.CategoryID = id
	}
	out, err := s.videos.List(ctx, f, page)
	if err != nil {
		return domain.Page[domain.VideoDetails]{}, fmt.Errorf("category videos: %w", err)
	}
	return out, nil
}
