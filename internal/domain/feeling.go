package domain

// FeelingType is a like or a dislike.
type FeelingType string

const (
	// FeelingLike is a thumbs up.
	FeelingLike FeelingType = "like"
	// FeelingDislike is a thumbs down.
	FeelingDislike FeelingType = "dislike"
)

// IsValid checks if the feeling type is supported.
func (t FeelingType) IsValid() bool { return t == FeelingLike || t == FeelingDislike }

// Feeling is a user's reaction to a video. At most one exists per (user, video).
type Feeling struct {
	ID        string      `json:"id"`
	Type      FeelingType `json:"type"`
	VideoID   string      `json:"videoId"`
	UserID    string      `json:"userId"`
	CreatedAt int64       `json:"createdAt"`
}

// Validate checks the feeling fields.
func (f *Feeling) Validate() error {
	if !f.Type.IsValid() {
		return NewValidationError("type", "must be like or dislike")
	}
	if err := requireRef("videoId", f.VideoID); err != nil {
		return err
	}
	return requireRef("userId", f.UserID)
}
