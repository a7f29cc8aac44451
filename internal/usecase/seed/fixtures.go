package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Fixture files reference each other by natural key instead of id:
// users by email, categories by title, videos by title, comments by text.

// User is a fixture account. PasswordHash is used as is when Password is empty.
type User struct {
	ChannelName  string `json:"channelName" yaml:"channelName"`
	Email        string `json:"email" yaml:"email"`
	Password     string `json:"password,omitempty" yaml:"password,omitempty"`
	PasswordHash string `json:"passwordHash,omitempty" yaml:"passwordHash,omitempty"`
	Role         string `json:"role,omitempty" yaml:"role,omitempty"`
	PhotoURL     string `json:"photoUrl,omitempty" yaml:"photoUrl,omitempty"`
}

// Category is a fixture category; UserID is the owner's email.
type Category struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	UserID      string `json:"userId" yaml:"userId"`
}

// Video is a fixture video; UserID is an email and CategoryID a category title.
// MediaID and ThumbnailMediaID keep exported assets releasable after a re-import.
type Video struct {
	Title            string `json:"title" yaml:"title"`
	Description      string `json:"description,omitempty" yaml:"description,omitempty"`
	URL              string `json:"url" yaml:"url"`
	MediaID          string `json:"mediaId,omitempty" yaml:"mediaId,omitempty"`
	ThumbnailURL     string `json:"thumbnailUrl,omitempty" yaml:"thumbnailUrl,omitempty"`
	ThumbnailMediaID string `json:"thumbnailMediaId,omitempty" yaml:"thumbnailMediaId,omitempty"`
	Views            int64  `json:"views,omitempty" yaml:"views,omitempty"`
	Status           string `json:"status,omitempty" yaml:"status,omitempty"`
	UserID           string `json:"userId" yaml:"userId"`
	CategoryID       string `json:"categoryId,omitempty" yaml:"categoryId,omitempty"`
}

// Comment is a fixture comment; VideoID is a video title.
type Comment struct {
	Text    string `json:"text" yaml:"text"`
	VideoID string `json:"videoId" yaml:"videoId"`
	UserID  string `json:"userId" yaml:"userId"`
}

// Reply is a fixture reply; CommentID is the parent comment's text.
type Reply struct {
	Text      string `json:"text" yaml:"text"`
	CommentID string `json:"commentId" yaml:"commentId"`
	UserID    string `json:"userId" yaml:"userId"`
}

// Feeling is a fixture like or dislike.
type Feeling struct {
	Type    string `json:"type" yaml:"type"`
	VideoID string `json:"videoId" yaml:"videoId"`
	UserID  string `json:"userId" yaml:"userId"`
}

// History is a fixture history entry.
type History struct {
	Type       string `json:"type" yaml:"type"`
	VideoID    string `json:"videoId,omitempty" yaml:"videoId,omitempty"`
	SearchText string `json:"searchText,omitempty" yaml:"searchText,omitempty"`
	UserID     string `json:"userId" yaml:"userId"`
}

// Subscription is a fixture subscription between two emails.
type Subscription struct {
	SubscriberID string `json:"subscriberId" yaml:"subscriberId"`
	ChannelID    string `json:"channelId" yaml:"channelId"`
}

// Fixtures is the content of a fixture directory.
type Fixtures struct {
	Users         []User
	Categories    []Category
	Videos        []Video
	Comments      []Comment
	Replies       []Reply
	Feelings      []Feeling
	Histories     []History
	Subscriptions []Subscription
}

// Format is a fixture file encoding.
type Format string

const (
	// FormatJSON writes <name>.json files.
	FormatJSON Format = "json"
	// FormatYAML writes <name>.yaml files.
	FormatYAML Format = "yaml"
)

var extensions = []string{".json", ".yaml", ".yml"}

type file struct {
	name string
	ptr  any
}

func (f *Fixtures) files() []file {
	return []file{
		{"users", &f.Users},
		{"categories", &f.Categories},
		{"videos", &f.Videos},
		{"comments", &f.Comments},
		{"replies", &f.Replies},
		{"feelings", &f.Feelings},
		{"histories", &f.Histories},
		{"subscriptions", &f.Subscriptions},
	}
}

// LoadDir reads every fixture file found in dir. A collection without a file is empty.
func LoadDir(dir string) (Fixtures, error) {
	var fx Fixtures
	for _, f := range fx.files() {
		if err := loadOne(dir, f); err != nil {
			return Fixtures{}, err
		}
	}
	return fx, nil
}

func loadOne(dir string, f file) error {
	for _, ext := range extensions {
		path := filepath.Join(dir, f.name+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if ext == ".json" {
			err = json.Unmarshal(data, f.ptr)
		} else {
			err = yaml.Unmarshal(data, f.ptr)
		}
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}
	return nil
}

// WriteDir writes one file per collection into dir.
func WriteDir(dir string, fx Fixtures, format Format) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	for _, f := range fx.files() {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatYAML:
			data, err = yaml.Marshal(f.ptr)
		case FormatJSON:
			data, err = json.MarshalIndent(f.ptr, "", "  ")
		default:
			return fmt.Errorf("unsupported fixture format %q", format)
		}
		if err != nil {
			return fmt.Errorf("encode %s: %w", f.name, err)
		}
		path := filepath.Join(dir, f.name+"."+string(format))
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
