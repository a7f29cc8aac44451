package seed

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vidshare/internal/metrics"
)

// Export reads the store back into fixtures keyed by natural keys.
// Passwords are exported as hashes. References to missing records are left empty.
func (s *Service) Export(ctx context.Context) (Fixtures, error) {
	var fx Fixtures

	users, err := s.d.Users.All(ctx)
	if err != nil {
		return Fixtures{}, fmt.Errorf("export users: %w", err)
	}
	emails := make(map[string]string, len(users))
	for _, u := range users {
		emails[u.ID] = u.Email
		fx.Users = append(fx.Users, User{
			ChannelName:  u.ChannelName,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Role:         string(u.Role),
			PhotoURL:     u.PhotoURL,
		})
	}

	categories, err := s.d.Categories.All(ctx)
	if err != nil {
		return Fixtures{}, fmt.Errorf("export categories: %w", err)
	}
	catTitles := make(map[string]string, len(categories))
	for _, c := range categories {
		catTitles[c.ID] = c.Title
		fx.Categories = append(fx.Categories, Category{
			Title: c.Title, Description: c.Description, UserID: emails[c.UserID],
		})
	}

	videos, err := s.d.Videos.All(ctx)
	if err != nil {
		return Fixtures{}, fmt.Errorf("export videos: %w", err)
	}
	videoTitles := make(map[string]string, len(videos))
	for _, v := range videos {
		videoTitles[v.ID] = v.Title
		fx.Videos = append(fx.Videos, Video{
			Title:            v.Title,
			Description:      v.Description,
			URL:              v.URL,
			MediaID:          v.MediaID,
			ThumbnailURL:     v.ThumbnailURL,
			ThumbnailMediaID: v.ThumbnailMediaID,
			Views:            v.Views,
			Status:           string(v.Status),
			UserID:           emails[v.UserID],
			CategoryID:       catTitles[v.CategoryID],
		})
	}

	comments, err := s.d.Comments.All(ctx)
	if err != nil {
		return Fixtures{}, fmt.Errorf("export comments: %w", err)
	}
	commentTexts := make(map[string]string, len(comments))
	for _, c := range comments {
		commentTexts[c.ID] = c.Text
		fx.Comments = append(fx.Comments, Comment{
			Text: c.Text, VideoID: videoTitles[c.VideoID], UserID: emails[c.UserID],
		})
	}

	replies, err := s.d.Replies.All(ctx)
	if err != nil {
		return Fixtures{}, fmt.Errorf("export replies: %w", err)
	}
	for _, r := range replies {
		fx.Replies = append(fx.Replies, Reply{
			Text: r.Text, CommentID: commentTexts[r.CommentID], UserID: emails[r.UserID],
		})
	}

	feelings, err := s.d.Feelings.All(ctx)
	if err != nil {
		return Fixtures{}, fmt.Errorf("export feelings: %w", err)
	}
	for _, f := range feelings {
		fx.Feelings = append(fx.Feelings, Feeling{
			Type: string(f.Type), VideoID: videoTitles[f.VideoID], UserID: emails[f.UserID],
		})
	}

	histories, err := s.d.Histories.All(ctx)
	if err != nil {
		return Fixtures{}, fmt.Errorf("export histories: %w", err)
	}
	for _, h := range histories {
		fx.Histories = append(fx.Histories, History{
			Type: string(h.Type), VideoID: videoTitles[h.VideoID], SearchText: h.SearchText, UserID: emails[h.UserID],
		})
	}

	subs, err := s.d.Subscriptions.All(ctx)
	if err != nil {
		return Fixtures{}, fmt.Errorf("export subscriptions: %w", err)
	}
	for _, sub := range subs {
		fx.Subscriptions = append(fx.Subscriptions, Subscription{
			SubscriberID: emails[sub.SubscriberID], ChannelID: emails[sub.ChannelID],
		})
	}

	for _, f := range fx.files() {
		metrics.SeedRecordsTotal.WithLabelValues(f.name, "exported").Add(float64(count(f.ptr)))
	}
	return fx, nil
}

func count(ptr any) int {
	switch v := ptr.(type) {
	case *[]User:
		return len(*v)
	case *[]Category:
		return len(*v)
	case *[]Video:
		return len(*v)
	case *[]Comment:
		return len(*v)
	case *[]Reply:
		return len(*v)
	case *[]Feeling:
		return len(*v)
	case *[]History:
		return len(*v)
	case *[]Subscription:
		return len(*v)
	}
	return 0
}
