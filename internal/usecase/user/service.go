package user

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/media"
)

// Patch is a partial user update. Nil fields are left unchanged.
type Patch struct {
	ChannelName *string
	Email       *string
	Role        *domain.Role
}

// Service is the admin surface over user accounts.
type Service struct {
	repo   Repository
	media  MediaReleaser
	logger *zap.Logger
	now    func() time.Time
}

// New creates a user service.
func New(repo Repository, m MediaReleaser, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, media: m, logger: logger, now: time.Now}
}

// List returns users newest first.
func (s *Service) List(ctx context.Context, p domain.Principal, page domain.PageRequest) (domain.Page[domain.User], error) {
	if !p.IsAdmin() {
		return domain.Page[domain.User]{}, domain.ErrForbidden
	}
	users, total, err := s.repo.List(ctx, page.Offset(), page.Limit)
	if err != nil {
		return domain.Page[domain.User]{}, fmt.Errorf("list users: %w", err)
	}
	return domain.NewPage(users, total, page), nil
}

// Get returns one user.
func (s *Service) Get(ctx context.Context, p domain.Principal, rawID string) (domain.User, error) {
	if !p.IsAdmin() {
		return domain.User{}, domain.ErrForbidden
	}
	id, err := domain.ParseID(rawID)
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Update applies a partial update. A taken email yields domain.ErrAlreadyExists.
func (s *Service) Update(ctx context.Context, p domain.Principal, rawID string, patch Patch) (domain.User, error) {
	u, err := s.Get(ctx, p, rawID)
	if err != nil {
		return domain.User{}, err
	}
	if patch.ChannelName != nil {
		u.ChannelName = *patch.ChannelName
	}
	if patch.Email != nil {
		u.Email = domain.NormalizeEmail(*patch.Email)
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if err := u.Validate(); err != nil {
		return domain.User{}, fmt.Errorf("validate user: %w", err)
	}
	u.UpdatedAt = s.now().UnixMilli()
	if err := s.repo.Update(ctx, &u); err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// Delete removes a user and releases an uploaded avatar. Content owned by the
// user is left in place.
func (s *Service) Delete(ctx context.Context, p domain.Principal, rawID string) error {
	u, err := s.Get(ctx, p, rawID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, u.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if u.PhotoMediaID != "" && s.media != nil {
		if err := s.media.Release(ctx, u.PhotoMediaID, media.KindImage); err != nil {
			s.logger.Warn("Orphaned avatar", zap.String("user_id", u.ID), zap.Error(err))
		}
	}
	return nil
}
