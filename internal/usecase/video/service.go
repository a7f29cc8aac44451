package video

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/media"
)

const (
	// untitled is used when the uploaded file name has no base name.
	untitled = "Untitled"
	// maxTitle mirrors the title limit of domain.Video.
	maxTitle = 100
)

// Folders names the media host folders used for uploads.
type Folders struct {
	Videos     string
	Thumbnails string
}

// Deps groups the collaborators of the video service.
type Deps struct {
	Videos      Repository
	Users       UserReader
	Categories  CategoryReader
	Feelings    FeelingStore
	Comments    CommentStore
	Replies     ReplyStore
	Histories   HistoryStore
	Subscribers SubscriberCounter
	Media       media.Host
	Logger      *zap.Logger

	Folders           Folders
	StockThumbnailURL string // assigned to new videos, never released
}

// Patch is a partial video update. Nil fields are left unchanged.
type Patch struct {
	Title       *string
	Description *string
	Status      *domain.VideoStatus
	CategoryID  *string
}

// Service handles video CRUD, uploads and population.
type Service struct {
	videos      Repository
	users       UserReader
	categories  CategoryReader
	feelings    FeelingStore
	comments    CommentStore
	replies     ReplyStore
	histories   HistoryStore
	subscribers SubscriberCounter
	media       media.Host
	logger      *zap.Logger
	folders     Folders
	stockThumb  string
	now         func() time.Time
}

// New creates a video service.
func New(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		videos:      d.Videos,
		users:       d.Users,
		categories:  d.Categories,
		feelings:    d.Feelings,
		comments:    d.Comments,
		replies:     d.Replies,
		histories:   d.Histories,
		subscribers: d.Subscribers,
		media:       d.Media,
		logger:      logger,
		folders:     d.Folders,
		stockThumb:  d.StockThumbnailURL,
		now:         time.Now,
	}
}

// Upload forwards a staged video to the media host and stores a private video owned by the caller.
// The staged file is removed on every path.
func (s *Service) Upload(ctx context.Context, p domain.Principal, f *media.File) (domain.Video, error) {
	defer s.removeStaged(f)

	if !strings.HasPrefix(f.ContentType, "video/") {
		return domain.Video{}, domain.NewValidationError("video", "please upload a video file")
	}

	asset, err := s.media.Upload(ctx, media.UploadRequest{
		Path:        f.Path,
		Name:        f.Name,
		Folder:      s.folders.Videos,
		Kind:        media.KindVideo,
		ContentType: f.ContentType,
		Size:        f.Size,
		Derived:     media.VideoThumbnails,
	})
	if err != nil {
		return domain.Video{}, fmt.Errorf("upload video: %w", err)
	}

	now := s.now().UnixMilli()
	v := domain.Video{
		ID:           domain.NewID(),
		Title:        titleFromFile(f),
		URL:          asset.URL,
		MediaID:      asset.ID,
		ThumbnailURL: s.stockThumb,
		DerivedURLs:  asset.Derived,
		Status:       domain.StatusPrivate,
		UserID:       p.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := v.Validate(); err != nil {
		s.releaseQuietly(ctx, asset.ID, media.KindVideo)
		return domain.Video{}, fmt.Errorf("validate video: %w", err)
	}
	if err := s.videos.Save(ctx, &v); err != nil {
		s.releaseQuietly(ctx, asset.ID, media.KindVideo)
		return domain.Video{}, fmt.Errorf("save video: %w", err)
	}
	return v, nil
}

// Get returns a populated video. Private videos are only visible to their owner and admins.
func (s *Service) Get(ctx context.Context, p domain.Principal, rawID string) (domain.VideoDetails, error) {
	v, err := s.visible(ctx, p, rawID)
	if err != nil {
		return domain.VideoDetails{}, err
	}
	d, err := s.PopulateOne(ctx, v)
	if err != nil {
		return domain.VideoDetails{}, fmt.Errorf("populate video: %w", err)
	}
	return d, nil
}

// List returns a populated page of videos matching f, newest first.
func (s *Service) List(ctx context.Context, f domain.VideoFilter, page domain.PageRequest) (domain.Page[domain.VideoDetails], error) {
	videos, total, err := s.videos.List(ctx, f, page.Offset(), page.Limit)
	if err != nil {
		return domain.Page[domain.VideoDetails]{}, fmt.Errorf("list videos: %w", err)
	}
	details, err := s.Populate(ctx, videos)
	if err != nil {
		return domain.Page[domain.VideoDetails]{}, fmt.Errorf("populate videos: %w", err)
	}
	return domain.NewPage(details, total, page), nil
}

// ListPublic lists public videos, optionally narrowed to a category and excluding one video.
func (s *Service) ListPublic(
	ctx context.Context, categoryID, excludeID string, page domain.PageRequest,
) (domain.Page[domain.VideoDetails], error) {
	f := domain.VideoFilter{Status: domain.StatusPublic}
	var err error
	if categoryID != "" {
		if f.CategoryID, err = domain.ParseID(categoryID); err != nil {
			return domain.Page[domain.VideoDetails]{}, err
		}
	}
	if excludeID != "" {
		if f.ExcludeID, err = domain.ParseID(excludeID); err != nil {
			return domain.Page[domain.VideoDetails]{}, err
		}
	}
	return s.List(ctx, f, page)
}

// ListOwn lists the caller's videos, optionally restricted to one status.
func (s *Service) ListOwn(
	ctx context.Context, p domain.Principal, status domain.VideoStatus, page domain.PageRequest,
) (domain.Page[domain.VideoDetails], error) {
	return s.List(ctx, domain.VideoFilter{OwnerID: p.UserID, Status: status}, page)
}

// Update applies a partial update. Only the owner or an admin may update.
func (s *Service) Update(ctx context.Context, p domain.Principal, rawID string, patch Patch) (domain.VideoDetails, error) {
	v, err := s.owned(ctx, p, rawID)
	if err != nil {
		return domain.VideoDetails{}, err
	}

	if patch.Title != nil {
		v.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		v.Description = *patch.Description
	}
	if patch.Status != nil {
		v.Status = *patch.Status
	}
	if patch.CategoryID != nil {
		if v.CategoryID, err = s.resolveCategory(ctx, *patch.CategoryID); err != nil {
			return domain.VideoDetails{}, err
		}
	}
	if err := v.Validate(); err != nil {
		return domain.VideoDetails{}, fmt.Errorf("validate video: %w", err)
	}
	v.UpdatedAt = s.now().UnixMilli()

	if err := s.videos.Save(ctx, &v); err != nil {
		return domain.VideoDetails{}, fmt.Errorf("save video: %w", err)
	}
	d, err := s.PopulateOne(ctx, v)
	if err != nil {
		return domain.VideoDetails{}, fmt.Errorf("populate video: %w", err)
	}
	return d, nil
}

// IncrementViews adds one view with a read-modify-write round trip.
// Concurrent increments of the same video may collapse into one.
func (s *Service) IncrementViews(ctx context.Context, p domain.Principal, rawID string) (domain.Video, error) {
	v, err := s.visible(ctx, p, rawID)
	if err != nil {
		return domain.Video{}, err
	}
	v.Views++
	if err := s.videos.Save(ctx, &v); err != nil {
		return domain.Video{}, fmt.Errorf("save video: %w", err)
	}
	return v, nil
}

// UploadThumbnail replaces the video's thumbnail and returns its URL.
// The previous thumbnail is released after the record is updated.
func (s *Service) UploadThumbnail(ctx context.Context, p domain.Principal, rawID string, f *media.File) (string, error) {
	defer s.removeStaged(f)

	if !strings.HasPrefix(f.ContentType, "image/") {
		return "", domain.NewValidationError("thumbnail", "please upload an image file")
	}
	v, err := s.owned(ctx, p, rawID)
	if err != nil {
		return "", err
	}

	asset, err := s.media.Upload(ctx, media.UploadRequest{
		Path:        f.Path,
		Name:        f.Name,
		Folder:      s.folders.Thumbnails,
		Kind:        media.KindImage,
		ContentType: f.ContentType,
		Size:        f.Size,
		Resize:      media.ThumbnailResize,
	})
	if err != nil {
		return "", fmt.Errorf("upload thumbnail: %w", err)
	}

	oldID, oldURL := v.ThumbnailMediaID, v.ThumbnailURL
	v.ThumbnailURL, v.ThumbnailMediaID = asset.URL, asset.ID
	v.UpdatedAt = s.now().UnixMilli()
	if err := s.videos.Save(ctx, &v); err != nil {
		s.releaseQuietly(ctx, asset.ID, media.KindImage)
		return "", fmt.Errorf("save video: %w", err)
	}

	if oldID != "" && oldURL != s.stockThumb {
		s.releaseQuietly(ctx, oldID, media.KindImage)
	}
	return asset.URL, nil
}

// Delete releases the video's media, then removes the record and its dependents.
// A release failure aborts before the record is touched.
func (s *Service) Delete(ctx context.Context, p domain.Principal, rawID string) error {
	v, err := s.owned(ctx, p, rawID)
	if err != nil {
		return err
	}

	if v.MediaID != "" {
		if err := s.media.Release(ctx, v.MediaID, media.KindVideo); err != nil {
			return fmt.Errorf("release video %s: %w", v.ID, err)
		}
	}
	if v.ThumbnailMediaID != "" && v.ThumbnailURL != s.stockThumb {
		if err := s.media.Release(ctx, v.ThumbnailMediaID, media.KindImage); err != nil {
			return fmt.Errorf("release thumbnail %s: %w", v.ID, err)
		}
	}

	if err := s.videos.Delete(ctx, v.ID); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	if err := s.cascade(ctx, v.ID); err != nil {
		s.logger.Warn("Video cascade incomplete", zap.String("video_id", v.ID), zap.Error(err))
	}
	return nil
}

// cascade removes comments, their replies and feelings, and detaches history.
func (s *Service) cascade(ctx context.Context, videoID string) error {
	var errs []error
	commentIDs, err := s.comments.DeleteByVideo(ctx, videoID)
	if err != nil {
		errs = append(errs, fmt.Errorf("comments: %w", err))
	}
	if len(commentIDs) > 0 {
		if err := s.replies.DeleteByComments(ctx, commentIDs); err != nil {
			errs = append(errs, fmt.Errorf("replies: %w", err))
		}
	}
	if err := s.feelings.DeleteByVideo(ctx, videoID); err != nil {
		errs = append(errs, fmt.Errorf("feelings: %w", err))
	}
	if err := s.histories.DetachVideo(ctx, videoID); err != nil {
		errs = append(errs, fmt.Errorf("histories: %w", err))
	}
	return errors.Join(errs...)
}

// visible loads a video the caller may see; hidden private videos read as not found.
func (s *Service) visible(ctx context.Context, p domain.Principal, rawID string) (domain.Video, error) {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return domain.Video{}, err
	}
	v, err := s.videos.Get(ctx, id)
	if err != nil {
		return domain.Video{}, fmt.Errorf("get video: %w", err)
	}
	if !v.IsPublic() && !p.CanModify(v.UserID) {
		return domain.Video{}, fmt.Errorf("video %s: %w", id, domain.ErrNotFound)
	}
	return v, nil
}

// owned loads a video the caller may modify.
func (s *Service) owned(ctx context.Context, p domain.Principal, rawID string) (domain.Video, error) {
	v, err := s.visible(ctx, p, rawID)
	if err != nil {
		return domain.Video{}, err
	}
	if !p.CanModify(v.UserID) {
		return domain.Video{}, fmt.Errorf("video %s: %w", v.ID, domain.ErrForbidden)
	}
	return v, nil
}

// resolveCategory validates a category reference; an empty value clears it.
func (s *Service) resolveCategory(ctx context.Context, raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	id, err := domain.ParseID(raw)
	if err != nil {
		return "", err
	}
	if _, err := s.categories.Get(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.NewValidationError("categoryId", "category does not exist")
		}
		return "", fmt.Errorf("get category: %w", err)
	}
	return id, nil
}

func (s *Service) releaseQuietly(ctx context.Context, id string, kind media.Kind) {
	if err := s.media.Release(ctx, id, kind); err != nil {
		s.logger.Warn("Orphaned media asset", zap.String("media_id", id), zap.Error(err))
	}
}

func (s *Service) removeStaged(f *media.File) {
	if err := f.Remove(); err != nil {
		s.logger.Warn("Staged upload not removed", zap.String("path", f.Path), zap.Error(err))
	}
}

func titleFromFile(f *media.File) string {
	title := strings.TrimSpace(f.BaseName())
	if title == "" {
		return untitled
	}
	if utf8.RuneCountInString(title) > maxTitle {
		title = string([]rune(title)[:maxTitle])
	}
	return title
}
