package domain

// HistoryType distinguishes watched videos from past searches.
type HistoryType string

const (
	// HistoryWatch records a watched video.
	HistoryWatch HistoryType = "watch"
	// HistorySearch records a search query.
	HistorySearch HistoryType = "search"
)

// IsValid checks if the history type is supported.
func (t HistoryType) IsValid() bool { return t == HistoryWatch || t == HistorySearch }

// History is one entry of a user's watch or search history.
// VideoID is empty for searches and for watches of since-deleted videos.
type History struct {
	ID         string      `json:"id"`
	Type       HistoryType `json:"type"`
	VideoID    string      `json:"videoId"`
	SearchText string      `json:"searchText,omitempty"`
	UserID     string      `json:"userId"`
	CreatedAt  int64       `json:"createdAt"`
}

// Validate checks a new history entry. A watch must name its video.
func (h *History) Validate() error { return h.validate(true) }

// ValidateDetached is Validate for stored entries, whose watched video may have been
// deleted since (see DetachVideo on the history repository).
func (h *History) ValidateDetached() error { return h.validate(false) }

func (h *History) validate(requireVideo bool) error {
	if !h.Type.IsValid() {
		return NewValidationError("type", "must be watch or search")
	}
	switch h.Type {
	case HistorySearch:
		if err := requireText("searchText", h.SearchText, 200); err != nil {
			return err
		}
	case HistoryWatch:
		if requireVideo || h.VideoID != "" {
			if err := requireRef("videoId", h.VideoID); err != nil {
				return err
			}
		}
	}
	return requireRef("userId", h.UserID)
}

// HistoryEntry is a history item with its video resolved, when still present.
type HistoryEntry struct {
	History
	Video *VideoDetails
}
