package domain

// VideoStatus controls whether a video shows up in public listings.
type VideoStatus string

const (
	// StatusPublic videos are listed and searchable.
	StatusPublic VideoStatus = "public"
	// StatusPrivate videos are only visible to their owner and admins.
	StatusPrivate VideoStatus = "private"
)

// IsValid checks if the status is supported.
func (s VideoStatus) IsValid() bool { return s == StatusPublic || s == StatusPrivate }

// Video is an uploaded media item. The bytes live on the media host;
// only URLs and media ids are stored here.
type Video struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	URL              string      `json:"url"`
	MediaID          string      `json:"mediaId"`
	ThumbnailURL     string      `json:"thumbnailUrl"`
	ThumbnailMediaID string      `json:"thumbnailMediaId,omitempty"`
	DerivedURLs      []string    `json:"derivedUrls,omitempty"`
	Views            int64       `json:"views"`
	Status           VideoStatus `json:"status"`
	UserID           string      `json:"userId"`
	CategoryID       string      `json:"categoryId,omitempty"`
	CreatedAt        int64       `json:"createdAt"`
	UpdatedAt        int64       `json:"updatedAt"`
}

// Validate checks the video fields.
func (v *Video) Validate() error {
	if err := requireText("title", v.Title, 100); err != nil {
		return err
	}
	if err := limitText("description", v.Description, 5000); err != nil {
		return err
	}
	if !v.Status.IsValid() {
		return NewValidationError("status", "must be public or private")
	}
	if v.Views < 0 {
		return NewValidationError("views", "must not be negative")
	}
	if err := requireRef("url", v.URL); err != nil {
		return err
	}
	return requireRef("userId", v.UserID)
}

// IsPublic reports whether the video appears in public listings.
func (v *Video) IsPublic() bool { return v.Status == StatusPublic }

// CategoryRef is the populated category of a video.
type CategoryRef struct {
	ID    string
	Title string
}

// VideoDetails is a video with its references resolved and engagement counted.
type VideoDetails struct {
	Video
	Category *CategoryRef
	Channel  *Channel
	Likes    int
	Dislikes int
	Comments int
}

// VideoFilter narrows a video listing. Zero fields do not constrain.
type VideoFilter struct {
	Status     VideoStatus
	OwnerID    string
	CategoryID string
	ExcludeID  string
	// ChannelIDs restricts owners when RestrictChannels is set; an empty set matches nothing.
	ChannelIDs       []string
	RestrictChannels bool
}
