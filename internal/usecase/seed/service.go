// Package seed imports, exports and destroys fixture data.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/metrics"
)

// Deps groups the stores the seeder writes to.
type Deps struct {
	Users         UserStore
	Categories    CategoryStore
	Videos        Store[domain.Video]
	Comments      Store[domain.Comment]
	Replies       Store[domain.Reply]
	Feelings      Store[domain.Feeling]
	Histories     Store[domain.History]
	Subscriptions Store[domain.Subscription]
	Hasher        PasswordHasher
	Logger        *zap.Logger

	StockThumbnailURL string
}

// Report summarises an import.
type Report struct {
	Counts    map[string]int
	Fallbacks []string
	Skipped   []string
}

// Service loads fixtures into the store.
type Service struct {
	d   Deps
	now func() time.Time
}

// New creates a seed service.
func New(d Deps) *Service {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Service{d: d, now: time.Now}
}

func (s *Service) clearers() []struct {
	name string
	c    Clearer
} {
	return []struct {
		name string
		c    Clearer
	}{
		{"subscriptions", s.d.Subscriptions},
		{"histories", s.d.Histories},
		{"feelings", s.d.Feelings},
		{"replies", s.d.Replies},
		{"comments", s.d.Comments},
		{"videos", s.d.Videos},
		{"categories", s.d.Categories},
		{"users", s.d.Users},
	}
}

// Destroy removes every record of every collection and returns the removed counts.
func (s *Service) Destroy(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	var errs []error
	for _, c := range s.clearers() {
		n, err := c.c.Clear(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("clear %s: %w", c.name, err))
			continue
		}
		counts[c.name] = n
		metrics.SeedRecordsTotal.WithLabelValues(c.name, "destroyed").Add(float64(n))
	}
	return counts, errors.Join(errs...)
}

// importer carries the natural-key maps built while importing.
type importer struct {
	s      *Service
	report *Report
	base   int64
	seq    int64

	users      map[string]string // email → id
	userOrder  []string
	categories map[string]string // title → id
	catOrder   []string
	videos     map[string]string // title → id
	videoOrder []string
	comments   map[string]string // text → id
}

// Import replaces the store contents with fx. Parents are created first and
// recorded by natural key; dependents whose parent key does not resolve fall
// back to the first created parent, except replies, which are skipped.
func (s *Service) Import(ctx context.Context, fx Fixtures) (Report, error) {
	if _, err := s.Destroy(ctx); err != nil {
		return Report{}, err
	}

	im := &importer{
		s:          s,
		report:     &Report{Counts: make(map[string]int)},
		base:       s.now().UnixMilli(),
		users:      make(map[string]string),
		categories: make(map[string]string),
		videos:     make(map[string]string),
		comments:   make(map[string]string),
	}

	steps := []struct {
		name string
		run  func(context.Context, Fixtures) error
	}{
		{"users", im.importUsers},
		{"categories", im.importCategories},
		{"videos", im.importVideos},
		{"comments", im.importComments},
		{"replies", im.importReplies},
		{"feelings", im.importFeelings},
		{"histories", im.importHistories},
		{"subscriptions", im.importSubscriptions},
	}
	for _, st := range steps {
		if err := st.run(ctx, fx); err != nil {
			return *im.report, fmt.Errorf("import %s: %w", st.name, err)
		}
		s.d.Logger.Info("Imported fixtures",
			zap.String("collection", st.name),
			zap.Int("count", im.report.Counts[st.name]),
		)
	}
	return *im.report, nil
}

// createdAt hands out strictly increasing timestamps so fixture order is kept.
func (im *importer) createdAt() int64 {
	im.seq++
	return im.base + im.seq
}

func (im *importer) created(collection string) {
	im.report.Counts[collection]++
	metrics.SeedRecordsTotal.WithLabelValues(collection, "imported").Inc()
}

func (im *importer) fallback(collection, format string, args ...any) {
	im.report.Fallbacks = append(im.report.Fallbacks, collection+": "+fmt.Sprintf(format, args...))
	metrics.SeedRecordsTotal.WithLabelValues(collection, "fallback").Inc()
}

func (im *importer) skip(collection, format string, args ...any) {
	im.report.Skipped = append(im.report.Skipped, collection+": "+fmt.Sprintf(format, args...))
	metrics.SeedRecordsTotal.WithLabelValues(collection, "skipped").Inc()
}

// resolve maps key through m, falling back to order[idx] when it does not resolve.
func (im *importer) resolve(
	collection, what, key string, m map[string]string, order []string, idx int,
) (string, error) {
	if id, ok := m[key]; ok {
		return id, nil
	}
	if idx >= len(order) {
		return "", fmt.Errorf("%s %q not found and no default exists", what, key)
	}
	im.fallback(collection, "%s %q not found, using default", what, key)
	return order[idx], nil
}

func (im *importer) user(collection, email string) (string, error) {
	return im.resolve(collection, "user", domain.NormalizeEmail(email), im.users, im.userOrder, 0)
}

func (im *importer) video(collection, title string) (string, error) {
	return im.resolve(collection, "video", title, im.videos, im.videoOrder, 0)
}

func (im *importer) importUsers(ctx context.Context, fx Fixtures) error {
	for i, f := range fx.Users {
		hash := f.PasswordHash
		if f.Password != "" {
			if err := domain.ValidatePassword(f.Password); err != nil {
				return fmt.Errorf("user %d: %w", i, err)
			}
			h, err := im.s.d.Hasher.Hash(f.Password)
			if err != nil {
				return err
			}
			hash = h
		}
		role := domain.Role(f.Role)
		if role == "" {
			role = domain.RoleUser
		}
		photo := f.PhotoURL
		if photo == "" {
			photo = domain.DefaultPhotoURL
		}
		now := im.createdAt()
		u := domain.User{
			ID:           domain.NewID(),
			ChannelName:  f.ChannelName,
			Email:        domain.NormalizeEmail(f.Email),
			PasswordHash: hash,
			Role:         role,
			PhotoURL:     photo,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := u.Validate(); err != nil {
			return fmt.Errorf("user %d: %w", i, err)
		}
		if err := im.s.d.Users.Create(ctx, &u); err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}
		im.users[u.Email] = u.ID
		im.userOrder = append(im.userOrder, u.ID)
		im.created("users")
	}
	return nil
}

func (im *importer) importCategories(ctx context.Context, fx Fixtures) error {
	for i, f := range fx.Categories {
		owner, err := im.user("categories", f.UserID)
		if err != nil {
			return fmt.Errorf("category %d: %w", i, err)
		}
		now := im.createdAt()
		c := domain.Category{
			ID:          domain.NewID(),
			Title:       f.Title,
			Description: f.Description,
			UserID:      owner,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("category %d: %w", i, err)
		}
		if err := im.s.d.Categories.Create(ctx, &c); err != nil {
			return fmt.Errorf("category %s: %w", c.Title, err)
		}
		im.categories[c.Title] = c.ID
		im.catOrder = append(im.catOrder, c.ID)
		im.created("categories")
	}
	return nil
}

func (im *importer) importVideos(ctx context.Context, fx Fixtures) error {
	for i, f := range fx.Videos {
		owner, err := im.user("videos", f.UserID)
		if err != nil {
			return fmt.Errorf("video %d: %w", i, err)
		}
		var category string
		if len(im.catOrder) > 0 {
			if category, err = im.resolve("videos", "category", f.CategoryID, im.categories, im.catOrder, 0); err != nil {
				return fmt.Errorf("video %d: %w", i, err)
			}
		}
		status := domain.VideoStatus(f.Status)
		if status == "" {
			status = domain.StatusPrivate
		}
		thumb := f.ThumbnailURL
		if thumb == "" {
			thumb = im.s.d.StockThumbnailURL
		}
		now := im.createdAt()
		v := domain.Video{
			ID:           domain.NewID(),
			Title:            f.Title,
			Description:      f.Description,
			URL:              f.URL,
			MediaID:          f.MediaID,
			ThumbnailURL:     thumb,
			ThumbnailMediaID: f.ThumbnailMediaID,
			Views:            f.Views,
			Status:           status,
			UserID:           owner,
			CategoryID:       category,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := v.Validate(); err != nil {
			return fmt.Errorf("video %d: %w", i, err)
		}
		if err := im.s.d.Videos.Save(ctx, &v); err != nil {
			return fmt.Errorf("video %s: %w", v.Title, err)
		}
		im.videos[v.Title] = v.ID
		im.videoOrder = append(im.videoOrder, v.ID)
		im.created("videos")
	}
	return nil
}

func (im *importer) importComments(ctx context.Context, fx Fixtures) error {
	for i, f := range fx.Comments {
		author, err := im.user("comments", f.UserID)
		if err != nil {
			return fmt.Errorf("comment %d: %w", i, err)
		}
		videoID, err := im.video("comments", f.VideoID)
		if err != nil {
			return fmt.Errorf("comment %d: %w", i, err)
		}
		now := im.createdAt()
		c := domain.Comment{
			ID: domain.NewID(), Text: f.Text, VideoID: videoID, UserID: author,
			CreatedAt: now, UpdatedAt: now,
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("comment %d: %w", i, err)
		}
		if err := im.s.d.Comments.Save(ctx, &c); err != nil {
			return fmt.Errorf("comment %d: %w", i, err)
		}
		im.comments[c.Text] = c.ID
		im.created("comments")
	}
	return nil
}

func (im *importer) importReplies(ctx context.Context, fx Fixtures) error {
	for i, f := range fx.Replies {
		commentID, ok := im.comments[f.CommentID]
		if !ok {
			im.skip("replies", "comment %q not found for reply %q", f.CommentID, f.Text)
			continue
		}
		author, err := im.user("replies", f.UserID)
		if err != nil {
			return fmt.Errorf("reply %d: %w", i, err)
		}
		now := im.createdAt()
		r := domain.Reply{
			ID: domain.NewID(), Text: f.Text, CommentID: commentID, UserID: author,
			CreatedAt: now, UpdatedAt: now,
		}
		if err := r.Validate(); err != nil {
			return fmt.Errorf("reply %d: %w", i, err)
		}
		if err := im.s.d.Replies.Save(ctx, &r); err != nil {
			return fmt.Errorf("reply %d: %w", i, err)
		}
		im.created("replies")
	}
	return nil
}

func (im *importer) importFeelings(ctx context.Context, fx Fixtures) error {
	seen := make(map[[2]string]bool)
	for i, f := range fx.Feelings {
		userID, err := im.user("feelings", f.UserID)
		if err != nil {
			return fmt.Errorf("feeling %d: %w", i, err)
		}
		videoID, err := im.video("feelings", f.VideoID)
		if err != nil {
			return fmt.Errorf("feeling %d: %w", i, err)
		}
		pair := [2]string{userID, videoID}
		if seen[pair] {
			im.skip("feelings", "duplicate feeling of %q on %q", f.UserID, f.VideoID)
			continue
		}
		fe := domain.Feeling{
			ID: domain.NewID(), Type: domain.FeelingType(f.Type), VideoID: videoID, UserID: userID,
			CreatedAt: im.createdAt(),
		}
		if err := fe.Validate(); err != nil {
			return fmt.Errorf("feeling %d: %w", i, err)
		}
		if err := im.s.d.Feelings.Save(ctx, &fe); err != nil {
			return fmt.Errorf("feeling %d: %w", i, err)
		}
		seen[pair] = true
		im.created("feelings")
	}
	return nil
}

func (im *importer) importHistories(ctx context.Context, fx Fixtures) error {
	for i, f := range fx.Histories {
		userID, err := im.user("histories", f.UserID)
		if err != nil {
			return fmt.Errorf("history %d: %w", i, err)
		}
		h := domain.History{
			ID: domain.NewID(), Type: domain.HistoryType(f.Type), SearchText: f.SearchText,
			UserID: userID, CreatedAt: im.createdAt(),
		}
		switch {
		case f.VideoID != "":
			if h.VideoID, err = im.video("histories", f.VideoID); err != nil {
				return fmt.Errorf("history %d: %w", i, err)
			}
		case h.Type == domain.HistoryWatch:
			im.fallback("histories", "watch history of %q kept without a video", f.UserID)
		}
		if err := h.ValidateDetached(); err != nil {
			return fmt.Errorf("history %d: %w", i, err)
		}
		if err := im.s.d.Histories.Save(ctx, &h); err != nil {
			return fmt.Errorf("history %d: %w", i, err)
		}
		im.created("histories")
	}
	return nil
}

func (im *importer) importSubscriptions(ctx context.Context, fx Fixtures) error {
	seen := make(map[[2]string]bool)
	for i, f := range fx.Subscriptions {
		subscriber, err := im.user("subscriptions", f.SubscriberID)
		if err != nil {
			return fmt.Errorf("subscription %d: %w", i, err)
		}
		channel, err := im.resolve("subscriptions", "channel",
			domain.NormalizeEmail(f.ChannelID), im.users, im.userOrder, 1)
		if err != nil {
			return fmt.Errorf("subscription %d: %w", i, err)
		}
		pair := [2]string{subscriber, channel}
		if subscriber == channel || seen[pair] {
			im.skip("subscriptions", "%q to %q is a self or duplicate subscription", f.SubscriberID, f.ChannelID)
			continue
		}
		sub := domain.Subscription{
			ID: domain.NewID(), SubscriberID: subscriber, ChannelID: channel, CreatedAt: im.createdAt(),
		}
		if err := im.s.d.Subscriptions.Save(ctx, &sub); err != nil {
			return fmt.Errorf("subscription %d: %w", i, err)
		}
		seen[pair] = true
		im.created("subscriptions")
	}
	return nil
}
