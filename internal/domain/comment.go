package domain

// Comment is a top-level remark on a video.
type Comment struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	VideoID   string `json:"videoId"`
	UserID    string `json:"userId"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Validate checks the comment fields.
func (c *Comment) Validate() error {
	if err := requireText("text", c.Text, 1000); err != nil {
		return err
	}
	if err := requireRef("videoId", c.VideoID); err != nil {
		return err
	}
	return requireRef("userId", c.UserID)
}

// Reply answers a comment.
type Reply struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CommentID string `json:"commentId"`
	UserID    string `json:"userId"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Validate checks the reply fields.
func (r *Reply) Validate() error {
	if err := requireText("text", r.Text, 1000); err != nil {
		return err
	}
	if err := requireRef("commentId", r.CommentID); err != nil {
		return err
	}
	return requireRef("userId", r.UserID)
}

// ReplyDetails is a reply with its author.
type ReplyDetails struct {
	Reply
	Author *Channel
}

// CommentThread is a comment with its author and replies, oldest reply first.
type CommentThread struct {
	Comment
	Author  *Channel
	Replies []ReplyDetails
}
