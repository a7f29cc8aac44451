package domain

import "strings"

// Category groups videos. Titles are unique case-insensitively.
type Category struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	TitleKey    string `json:"titleKey"`
	Description string `json:"description"`
	UserID      string `json:"userId"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

// Validate checks the category fields and refreshes TitleKey.
func (c *Category) Validate() error {
	if err := requireText("title", c.Title, 50); err != nil {
		return err
	}
	if err := requireText("description", c.Description, 500); err != nil {
		return err
	}
	if err := requireRef("userId", c.UserID); err != nil {
		return err
	}
	c.TitleKey = CategoryKey(c.Title)
	return nil
}

// CategoryKey is the uniqueness key derived from a title.
func CategoryKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
