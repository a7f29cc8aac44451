// Package cloudinary implements media.Host on the Cloudinary upload API.
package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/kailas-cloud/vidshare/internal/media"
)

// uploadAPI is the consumer interface over the SDK's uploader (ISP).
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// Config holds the account credentials.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Host uploads to and releases from a Cloudinary account.
type Host struct {
	api uploadAPI
}

// New creates a host from credentials.
func New(cfg Config) (*Host, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary client: %w", err)
	}
	return &Host{api: &cld.Upload}, nil
}

func newWithAPI(a uploadAPI) *Host { return &Host{api: a} }

// Upload sends the staged file. Videos get derived renditions generated asynchronously.
func (h *Host) Upload(ctx context.Context, req media.UploadRequest) (media.Asset, error) {
	params := uploader.UploadParams{
		Folder:       req.Folder,
		ResourceType: resourceType(req.Kind),
	}
	if !req.Resize.IsZero() {
		params.Transformation = req.Resize.String()
	}
	if len(req.Derived) > 0 {
		params.Eager = eager(req.Derived)
		params.EagerAsync = api.Bool(true)
	}

	res, err := h.api.Upload(ctx, req.Path, params)
	if err != nil {
		return media.Asset{}, fmt.Errorf("upload %s: %w", req.Name, err)
	}
	if res.Error.Message != "" {
		return media.Asset{}, fmt.Errorf("upload %s: %s", req.Name, res.Error.Message)
	}
	if res.SecureURL == "" {
		return media.Asset{}, errors.New("upload returned no url")
	}

	asset := media.Asset{URL: res.SecureURL, ID: res.PublicID}
	for _, e := range res.Eager {
		if e.SecureURL != "" {
			asset.Derived = append(asset.Derived, e.SecureURL)
		}
	}
	return asset, nil
}

// Release destroys an asset. "not found" counts as released.
func (h *Host) Release(ctx context.Context, id string, kind media.Kind) error {
	res, err := h.api.Destroy(ctx, uploader.DestroyParams{
		PublicID:     id,
		ResourceType: resourceType(kind),
		Invalidate:   api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("destroy %s: %w", id, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("destroy %s: %s", id, res.Error.Message)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("destroy %s: unexpected result %q", id, res.Result)
	}
	return nil
}

func resourceType(k media.Kind) string {
	if k == media.KindVideo {
		return "video"
	}
	return "image"
}

func eager(ts []media.Transform) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, "|")
}
