// Package media is the contract with the external media host that stores video and image bytes.
package media

import (
	"context"
	"strconv"
	"strings"
)

// Kind selects how the media host treats an asset.
type Kind string

const (
	// KindVideo is a video asset.
	KindVideo Kind = "video"
	// KindImage is an image asset (thumbnails, avatars).
	KindImage Kind = "image"
)

// Transform describes a derived rendition or an in-place resize.
type Transform struct {
	Width   int
	Height  int
	Crop    string // "pad", "crop", "scale"
	Gravity string
	Muted   bool
}

// String renders the transform in the media host's URL syntax, e.g. "w_300,h_300,c_pad,ac_none".
func (t Transform) String() string {
	var parts []string
	if t.Width > 0 {
		parts = append(parts, "w_"+strconv.Itoa(t.Width))
	}
	if t.Height > 0 {
		parts = append(parts, "h_"+strconv.Itoa(t.Height))
	}
	if t.Crop != "" {
		parts = append(parts, "c_"+t.Crop)
	}
	if t.Gravity != "" {
		parts = append(parts, "g_"+t.Gravity)
	}
	if t.Muted {
		parts = append(parts, "ac_none")
	}
	return strings.Join(parts, ",")
}

// IsZero reports whether the transform changes nothing.
func (t Transform) IsZero() bool { return t == Transform{} }

// UploadRequest is a staged local file to forward to the media host.
type UploadRequest struct {
	Path        string
	Name        string
	Folder      string
	Kind        Kind
	ContentType string
	Size        int64
	// Resize is applied to the stored asset itself.
	Resize Transform
	// Derived renditions are requested asynchronously; backends that cannot derive ignore them.
	Derived []Transform
}

// Asset is what the media host returned for an upload.
type Asset struct {
	URL     string
	ID      string
	Derived []string
}

// Host uploads and releases assets.
type Host interface {
	Upload(ctx context.Context, req UploadRequest) (Asset, error)
	Release(ctx context.Context, id string, kind Kind) error
}

// Video renditions requested on upload.
var VideoThumbnails = []Transform{
	{Width: 300, Height: 300, Crop: "pad", Muted: true},
	{Width: 160, Height: 100, Crop: "crop", Gravity: "south", Muted: true},
}

// ThumbnailResize scales uploaded thumbnails and avatars.
var ThumbnailResize = Transform{Width: 300, Crop: "scale"}
