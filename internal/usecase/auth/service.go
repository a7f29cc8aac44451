package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/media"
)

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)

// avatarResize is applied to uploaded profile photos.
var avatarResize = media.Transform{Width: 200, Height: 200, Crop: "fill", Gravity: "face"}

// RegisterInput is a new account.
type RegisterInput struct {
	ChannelName string
	Email       string
	Password    string
}

// DetailsPatch is a partial update of the caller's own account.
type DetailsPatch struct {
	ChannelName *string
	Email       *string
}

// Session is an authenticated user with a signed token.
type Session struct {
	User  domain.User
	Token string
}

// Service registers and authenticates accounts and edits the caller's profile.
type Service struct {
	users        UserRepository
	hasher       PasswordHasher
	tokens       TokenIssuer
	media        media.Host
	avatarFolder string
	logger       *zap.Logger
	now          func() time.Time
}

// New creates an auth service.
func New(
	users UserRepository, hasher PasswordHasher, tokens TokenIssuer,
	host media.Host, avatarFolder string, logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:        users,
		hasher:       hasher,
		tokens:       tokens,
		media:        host,
		avatarFolder: avatarFolder,
		logger:       logger,
		now:          time.Now,
	}
}

// Register creates a regular user and signs a token for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	if err := domain.ValidatePassword(in.Password); err != nil {
		return Session{}, err
	}
	now := s.now().UnixMilli()
	u := domain.User{
		ID:          domain.NewID(),
		ChannelName: strings.TrimSpace(in.ChannelName),
		Email:       domain.NormalizeEmail(in.Email),
		Role:        domain.RoleUser,
		PhotoURL:    domain.DefaultPhotoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return Session{}, err
	}
	u.PasswordHash = hash
	if err := u.Validate(); err != nil {
		return Session{}, fmt.Errorf("validate user: %w", err)
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return Session{}, fmt.Errorf("create user: %w", err)
	}
	return s.session(u)
}

// Login checks credentials and signs a token.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return Session{}, domain.NewValidationError("", "please provide an email and password")
	}
	u, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return Session{}, ErrInvalidCredentials
	case err != nil:
		return Session{}, fmt.Errorf("find user: %w", err)
	}
	ok, err := s.hasher.Compare(u.PasswordHash, password)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, ErrInvalidCredentials
	}
	return s.session(u)
}

// Me returns the caller's account.
func (s *Service) Me(ctx context.Context, p domain.Principal) (domain.User, error) {
	u, err := s.users.Get(ctx, p.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		// The token outlived its account.
		return domain.User{}, fmt.Errorf("%w: account no longer exists", domain.ErrUnauthenticated)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdateDetails edits the caller's channel name and email.
func (s *Service) UpdateDetails(ctx context.Context, p domain.Principal, patch DetailsPatch) (domain.User, error) {
	u, err := s.Me(ctx, p)
	if err != nil {
		return domain.User{}, err
	}
	if patch.ChannelName != nil {
		u.ChannelName = strings.TrimSpace(*patch.ChannelName)
	}
	if patch.Email != nil {
		u.Email = domain.NormalizeEmail(*patch.Email)
	}
	if err := u.Validate(); err != nil {
		return domain.User{}, fmt.Errorf("validate user: %w", err)
	}
	u.UpdatedAt = s.now().UnixMilli()
	if err := s.users.Update(ctx, &u); err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// UploadAvatar replaces the caller's photo. The previous uploaded photo is
// released after the account is updated. The staged file is removed on every path.
func (s *Service) UploadAvatar(ctx context.Context, p domain.Principal, f *media.File) (domain.User, error) {
	defer func() {
		if err := f.Remove(); err != nil {
			s.logger.Warn("Staged upload not removed", zap.String("path", f.Path), zap.Error(err))
		}
	}()

	if !strings.HasPrefix(f.ContentType, "image/") {
		return domain.User{}, domain.NewValidationError("avatar", "please upload an image file")
	}
	u, err := s.Me(ctx, p)
	if err != nil {
		return domain.User{}, err
	}

	asset, err := s.media.Upload(ctx, media.UploadRequest{
		Path:        f.Path,
		Name:        f.Name,
		Folder:      s.avatarFolder,
		Kind:        media.KindImage,
		ContentType: f.ContentType,
		Size:        f.Size,
		Resize:      avatarResize,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("upload avatar: %w", err)
	}

	oldID := u.PhotoMediaID
	u.PhotoURL, u.PhotoMediaID = asset.URL, asset.ID
	u.UpdatedAt = s.now().UnixMilli()
	if err := s.users.Update(ctx, &u); err != nil {
		s.release(ctx, asset.ID)
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	if oldID != "" {
		s.release(ctx, oldID)
	}
	return u, nil
}

func (s *Service) session(u domain.User) (Session, error) {
	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return Session{}, err
	}
	return Session{User: u, Token: token}, nil
}

func (s *Service) release(ctx context.Context, id string) {
	if err := s.media.Release(ctx, id, media.KindImage); err != nil {
		s.logger.Warn("Orphaned media asset", zap.String("media_id", id), zap.Error(err))
	}
}
