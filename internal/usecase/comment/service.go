package comment

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

// Service handles comments and their replies.
type Service struct {
	comments Repository
	replies  ReplyRepository
	videos   VideoReader
	users    UserReader
	now      func() time.Time
}

// New creates a comment service.
func New(comments Repository, replies ReplyRepository, videos VideoReader, users UserReader) *Service {
	return &Service{comments: comments, replies: replies, videos: videos, users: users, now: time.Now}
}

// Create adds a comment by the caller to a visible video.
func (s *Service) Create(ctx context.Context, p domain.Principal, rawVideoID, text string) (domain.Comment, error) {
	videoID, err := s.visibleVideo(ctx, p, rawVideoID)
	if err != nil {
		return domain.Comment{}, err
	}
	now := s.now().UnixMilli()
	c := domain.Comment{
		ID:        domain.NewID(),
		Text:      text,
		VideoID:   videoID,
		UserID:    p.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Validate(); err != nil {
		return domain.Comment{}, fmt.Errorf("validate comment: %w", err)
	}
	if err := s.comments.Save(ctx, &c); err != nil {
		return domain.Comment{}, fmt.Errorf("save comment: %w", err)
	}
	return c, nil
}

// ListByVideo returns a page of comment threads, newest comment first, replies oldest first.
func (s *Service) ListByVideo(
	ctx context.Context, p domain.Principal, rawVideoID string, page domain.PageRequest,
) (domain.Page[domain.CommentThread], error) {
	videoID, err := s.visibleVideo(ctx, p, rawVideoID)
	if err != nil {
		return domain.Page[domain.CommentThread]{}, err
	}
	comments, total, err := s.comments.ListByVideo(ctx, videoID, page.Offset(), page.Limit)
	if err != nil {
		return domain.Page[domain.CommentThread]{}, fmt.Errorf("list comments: %w", err)
	}

	commentIDs := make([]string, len(comments))
	for i := range comments {
		commentIDs[i] = comments[i].ID
	}
	replies, err := s.replies.ListByComments(ctx, commentIDs)
	if err != nil {
		return domain.Page[domain.CommentThread]{}, fmt.Errorf("list replies: %w", err)
	}

	authorIDs := make([]string, 0, len(comments)+len(replies))
	for i := range comments {
		authorIDs = append(authorIDs, comments[i].UserID)
	}
	for i := range replies {
		authorIDs = append(authorIDs, replies[i].UserID)
	}
	authors, err := s.users.GetMany(ctx, authorIDs)
	if err != nil {
		return domain.Page[domain.CommentThread]{}, fmt.Errorf("load authors: %w", err)
	}

	byComment := make(map[string][]domain.ReplyDetails, len(comments))
	for _, r := range replies {
		byComment[r.CommentID] = append(byComment[r.CommentID], domain.ReplyDetails{Reply: r, Author: channelOf(authors, r.UserID)})
	}
	threads := make([]domain.CommentThread, len(comments))
	for i, c := range comments {
		threads[i] = domain.CommentThread{
			Comment: c,
			Author:  channelOf(authors, c.UserID),
			Replies: byComment[c.ID],
		}
	}
	return domain.NewPage(threads, total, page), nil
}

// Update changes a comment's text. Only the author or an admin may update.
func (s *Service) Update(ctx context.Context, p domain.Principal, rawID, text string) (domain.Comment, error) {
	c, err := s.ownedComment(ctx, p, rawID)
	if err != nil {
		return domain.Comment{}, err
	}
	c.Text = text
	if err := c.Validate(); err != nil {
		return domain.Comment{}, fmt.Errorf("validate comment: %w", err)
	}
	c.UpdatedAt = s.now().UnixMilli()
	if err := s.comments.Save(ctx, &c); err != nil {
		return domain.Comment{}, fmt.Errorf("save comment: %w", err)
	}
	return c, nil
}

// Delete removes a comment and its replies.
func (s *Service) Delete(ctx context.Context, p domain.Principal, rawID string) error {
	c, err := s.ownedComment(ctx, p, rawID)
	if err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if err := s.replies.DeleteByComments(ctx, []string{c.ID}); err != nil {
		return fmt.Errorf("delete replies: %w", err)
	}
	return nil
}

// CreateReply answers an existing comment.
func (s *Service) CreateReply(ctx context.Context, p domain.Principal, rawCommentID, text string) (domain.Reply, error) {
	commentID, err := domain.ParseID(rawCommentID)
	if err != nil {
		return domain.Reply{}, err
	}
	if _, err := s.comments.Get(ctx, commentID); err != nil {
		return domain.Reply{}, fmt.Errorf("get comment: %w", err)
	}
	now := s.now().UnixMilli()
	r := domain.Reply{
		ID:        domain.NewID(),
		Text:      text,
		CommentID: commentID,
		UserID:    p.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.Validate(); err != nil {
		return domain.Reply{}, fmt.Errorf("validate reply: %w", err)
	}
	if err := s.replies.Save(ctx, &r); err != nil {
		return domain.Reply{}, fmt.Errorf("save reply: %w", err)
	}
	return r, nil
}

// UpdateReply changes a reply's text. Only the author or an admin may update.
func (s *Service) UpdateReply(ctx context.Context, p domain.Principal, rawID, text string) (domain.Reply, error) {
	r, err := s.ownedReply(ctx, p, rawID)
	if err != nil {
		return domain.Reply{}, err
	}
	r.Text = text
	if err := r.Validate(); err != nil {
		return domain.Reply{}, fmt.Errorf("validate reply: %w", err)
	}
	r.UpdatedAt = s.now().UnixMilli()
	if err := s.replies.Save(ctx, &r); err != nil {
		return domain.Reply{}, fmt.Errorf("save reply: %w", err)
	}
	return r, nil
}

// DeleteReply removes a reply.
func (s *Service) DeleteReply(ctx context.Context, p domain.Principal, rawID string) error {
	r, err := s.ownedReply(ctx, p, rawID)
	if err != nil {
		return err
	}
	if err := s.replies.Delete(ctx, r.ID); err != nil {
		return fmt.Errorf("delete reply: %w", err)
	}
	return nil
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

func (s *Service) ownedComment(ctx context.Context, p domain.Principal, rawID string) (domain.Comment, error) {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return domain.Comment{}, err
	}
	c, err := s.comments.Get(ctx, id)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("get comment: %w", err)
	}
	if !p.CanModify(c.UserID) {
		return domain.Comment{}, fmt.Errorf("comment %s: %w", id, domain.ErrForbidden)
	}
	return c, nil
}

func (s *Service) ownedReply(ctx context.Context, p domain.Principal, rawID string) (domain.Reply, error) {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return domain.Reply{}, err
	}
	r, err := s.replies.Get(ctx, id)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("get reply: %w", err)
	}
	if !p.CanModify(r.UserID) {
		return domain.Reply{}, fmt.Errorf("reply %s: %w", id, domain.ErrForbidden)
	}
	return r, nil
}

func channelOf(users map[string]domain.User, id string) *domain.Channel {
	u, ok := users[id]
	if !ok {
		return nil
	}
	ch := u.Channel()
	return &ch
}
