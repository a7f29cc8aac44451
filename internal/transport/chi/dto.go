package chi

import (
	"github.com/kailas-cloud/vidshare/internal/domain"
	searchuc "github.com/kailas-cloud/vidshare/internal/usecase/search"
)

// --- Envelopes ---

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type pageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type pagination struct {
	Next *pageRef `json:"next,omitempty"`
	Prev *pageRef `json:"prev,omitempty"`
}

type listResponse struct {
	Success     bool       `json:"success"`
	Count       int        `json:"count"`
	Total       int        `json:"total"`
	TotalPages  int        `json:"totalPages"`
	CurrentPage int        `json:"currentPage"`
	Pagination  pagination `json:"pagination"`
	Data        any        `json:"data"`
}

type authResponse struct {
	Success bool    `json:"success"`
	Token   string  `json:"token"`
	Data    userDTO `json:"data"`
}

type healthResponse struct {
	Status         string            `json:"status"`
	Checks         map[string]string `json:"checks"`
	MissingIndexes []string          `json:"missingIndexes,omitempty"`
}

// --- Requests ---

type registerRequest struct {
	ChannelName string `json:"channelName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type detailsRequest struct {
	ChannelName *string `json:"channelName"`
	Email       *string `json:"email"`
}

type userPatchRequest struct {
	ChannelName *string `json:"channelName"`
	Email       *string `json:"email"`
	Role        *string `json:"role"`
}

type categoryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type categoryPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type videoPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	CategoryID  *string `json:"categoryId"`
}

type commentRequest struct {
	VideoID string `json:"videoId"`
	Text    string `json:"text"`
}

type replyRequest struct {
	CommentID string `json:"commentId"`
	Text      string `json:"text"`
}

type textRequest struct {
	Text string `json:"text"`
}

type feelingRequest struct {
	VideoID string `json:"videoId"`
	Type    string `json:"type"`
}

type videoRefRequest struct {
	VideoID string `json:"videoId"`
}

type channelRequest struct {
	ChannelID string `json:"channelId"`
}

type historyRequest struct {
	Type       string `json:"type"`
	VideoID    string `json:"videoId"`
	SearchText string `json:"searchText"`
}

type searchRequest struct {
	Text string `json:"text"`
}

// --- Resources ---

// userDTO never carries the password hash.
type userDTO struct {
	ID          string `json:"id"`
	ChannelName string `json:"channelName"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	PhotoURL    string `json:"photoUrl"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

func userToDTO(u domain.User) userDTO {
	return userDTO{
		ID:          u.ID,
		ChannelName: u.ChannelName,
		Email:       u.Email,
		Role:        string(u.Role),
		PhotoURL:    u.PhotoURL,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type channelDTO struct {
	ID          string `json:"id"`
	ChannelName string `json:"channelName"`
	PhotoURL    string `json:"photoUrl"`
	Subscribers int    `json:"subscribers"`
}

func channelToDTO(c domain.Channel) channelDTO {
	return channelDTO{ID: c.ID, ChannelName: c.ChannelName, PhotoURL: c.PhotoURL, Subscribers: c.Subscribers}
}

func channelPtr(c *domain.Channel) *channelDTO {
	if c == nil {
		return nil
	}
	d := channelToDTO(*c)
	return &d
}

type categoryDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	UserID      string `json:"userId"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

func categoryToDTO(c domain.Category) categoryDTO {
	return categoryDTO{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		UserID:      c.UserID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type categoryRefDTO struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// videoDTO is a video as clients see it; media ids stay server-side.
type videoDTO struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	URL          string          `json:"url"`
	ThumbnailURL string          `json:"thumbnailUrl"`
	DerivedURLs  []string        `json:"derivedUrls,omitempty"`
	Views        int64           `json:"views"`
	Status       string          `json:"status"`
	UserID       string          `json:"userId"`
	CategoryID   string          `json:"categoryId,omitempty"`
	CreatedAt    int64           `json:"createdAt"`
	UpdatedAt    int64           `json:"updatedAt"`
	Category     *categoryRefDTO `json:"category,omitempty"`
	Channel      *channelDTO     `json:"channel,omitempty"`
	Likes        *int            `json:"likes,omitempty"`
	Dislikes     *int            `json:"dislikes,omitempty"`
	Comments     *int            `json:"comments,omitempty"`
}

func videoToDTO(v domain.Video) videoDTO {
	return videoDTO{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		URL:          v.URL,
		ThumbnailURL: v.ThumbnailURL,
		DerivedURLs:  v.DerivedURLs,
		Views:        v.Views,
		Status:       string(v.Status),
		UserID:       v.UserID,
		CategoryID:   v.CategoryID,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func videoDetailsToDTO(d domain.VideoDetails) videoDTO {
	out := videoToDTO(d.Video)
	if d.Category != nil {
		out.Category = &categoryRefDTO{ID: d.Category.ID, Title: d.Category.Title}
	}
	out.Channel = channelPtr(d.Channel)
	likes, dislikes, comments := d.Likes, d.Dislikes, d.Comments
	out.Likes, out.Dislikes, out.Comments = &likes, &dislikes, &comments
	return out
}

type replyDTO struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	CommentID string      `json:"commentId"`
	UserID    string      `json:"userId"`
	CreatedAt int64       `json:"createdAt"`
	UpdatedAt int64       `json:"updatedAt"`
	User      *channelDTO `json:"user,omitempty"`
}

func replyToDTO(r domain.Reply) replyDTO {
	return replyDTO{
		ID:        r.ID,
		Text:      r.Text,
		CommentID: r.CommentID,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type commentDTO struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	VideoID   string      `json:"videoId"`
	UserID    string      `json:"userId"`
	CreatedAt int64       `json:"createdAt"`
	UpdatedAt int64       `json:"updatedAt"`
	User      *channelDTO `json:"user,omitempty"`
	Replies   []replyDTO  `json:"replies,omitempty"`
}

func commentToDTO(c domain.Comment) commentDTO {
	return commentDTO{
		ID:        c.ID,
		Text:      c.Text,
		VideoID:   c.VideoID,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func threadToDTO(t domain.CommentThread) commentDTO {
	out := commentToDTO(t.Comment)
	out.User = channelPtr(t.Author)
	out.Replies = make([]replyDTO, len(t.Replies))
	for i, r := range t.Replies {
		out.Replies[i] = replyToDTO(r.Reply)
		out.Replies[i].User = channelPtr(r.Author)
	}
	return out
}

type feelingStateDTO struct {
	Feeling  string `json:"feeling"`
	Likes    int    `json:"likes"`
	Dislikes int    `json:"dislikes"`
}

type subscriptionStateDTO struct {
	Subscribed  bool `json:"subscribed"`
	Subscribers int  `json:"subscribers"`
}

type historyDTO struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	VideoID    *string   `json:"videoId"`
	SearchText string    `json:"searchText,omitempty"`
	UserID     string    `json:"userId"`
	CreatedAt  int64     `json:"createdAt"`
	Video      *videoDTO `json:"video,omitempty"`
}

// historyToDTO renders a missing video id as null.
func historyToDTO(h domain.History) historyDTO {
	out := historyDTO{
		ID:         h.ID,
		Type:       string(h.Type),
		SearchText: h.SearchText,
		UserID:     h.UserID,
		CreatedAt:  h.CreatedAt,
	}
	if h.VideoID != "" {
		id := h.VideoID
		out.VideoID = &id
	}
	return out
}

func historyEntryToDTO(e domain.HistoryEntry) historyDTO {
	out := historyToDTO(e.History)
	if e.Video != nil {
		v := videoDetailsToDTO(*e.Video)
		out.Video = &v
	}
	return out
}

// searchHitDTO flattens both hit kinds; Type tells them apart.
type searchHitDTO struct {
	Type         string       `json:"type"`
	Score        float64      `json:"score"`
	ID           string       `json:"id"`
	Title        string       `json:"title,omitempty"`
	Description  string       `json:"description,omitempty"`
	ThumbnailURL string       `json:"thumbnailUrl,omitempty"`
	Views        *int64       `json:"views,omitempty"`
	ChannelName  string       `json:"channelName,omitempty"`
	PhotoURL     string       `json:"photoUrl,omitempty"`
	CreatedAt    int64        `json:"createdAt"`
	Channel      *searchOwner `json:"channel,omitempty"`
}

type searchOwner struct {
	ID          string `json:"id"`
	ChannelName string `json:"channelName"`
	PhotoURL    string `json:"photoUrl"`
}

func searchHitToDTO(h searchuc.Hit) searchHitDTO {
	out := searchHitDTO{Type: string(h.Kind), Score: h.Score}
	switch {
	case h.Video != nil:
		v := h.Video
		views := v.Views
		out.ID, out.Title, out.Description = v.ID, v.Title, v.Description
		out.ThumbnailURL, out.Views, out.CreatedAt = v.ThumbnailURL, &views, v.CreatedAt
		if v.Owner != nil {
			out.Channel = &searchOwner{ID: v.Owner.ID, ChannelName: v.Owner.ChannelName, PhotoURL: v.Owner.PhotoURL}
		}
	case h.Channel != nil:
		c := h.Channel
		out.ID, out.ChannelName, out.PhotoURL, out.CreatedAt = c.ID, c.ChannelName, c.PhotoURL, c.CreatedAt
	}
	return out
}
