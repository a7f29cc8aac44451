// Package minio implements media.Host on an S3-compatible bucket.
package minio

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kailas-cloud/vidshare/internal/media"
)

// objectAPI is the consumer interface over the minio client (ISP).
type objectAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	FPutObject(
		ctx context.Context, bucket, object, filePath string, opts minio.PutObjectOptions,
	) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error
}

// Config holds the endpoint, credentials and the public URL objects are served from.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
	PublicURL string // e.g. https://cdn.example.com/vidshare
}

// Host stores assets as objects <folder>/<uuid><ext> in one bucket.
// Derived renditions are not generated.
type Host struct {
	api       objectAPI
	bucket    string
	region    string
	publicURL string

	once      sync.Once
	bucketErr error
}

// New creates a host from config.
func New(cfg Config) (*Host, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return newWithAPI(client, cfg), nil
}

func newWithAPI(a objectAPI, cfg Config) *Host {
	return &Host{
		api:       a,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
	}
}

// Upload puts the staged file into the bucket. The asset id is the object name.
func (h *Host) Upload(ctx context.Context, req media.UploadRequest) (media.Asset, error) {
	if err := h.ensureBucket(ctx); err != nil {
		return media.Asset{}, err
	}

	object := path.Join(req.Folder, uuid.NewString()+strings.ToLower(filepath.Ext(req.Name)))
	if _, err := h.api.FPutObject(ctx, h.bucket, object, req.Path, minio.PutObjectOptions{
		ContentType: req.ContentType,
	}); err != nil {
		return media.Asset{}, fmt.Errorf("put %s: %w", object, err)
	}
	return media.Asset{URL: h.publicURL + "/" + object, ID: object}, nil
}

// Release removes the object. Removing a missing object is not an error.
func (h *Host) Release(ctx context.Context, id string, _ media.Kind) error {
	if err := h.api.RemoveObject(ctx, h.bucket, id, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	return nil
}

// ensureBucket creates the bucket on first use.
func (h *Host) ensureBucket(ctx context.Context) error {
	h.once.Do(func() {
		exists, err := h.api.BucketExists(ctx, h.bucket)
		if err != nil {
			h.bucketErr = fmt.Errorf("check bucket %s: %w", h.bucket, err)
			return
		}
		if exists {
			return
		}
		if err := h.api.MakeBucket(ctx, h.bucket, minio.MakeBucketOptions{Region: h.region}); err != nil {
			h.bucketErr = fmt.Errorf("create bucket %s: %w", h.bucket, err)
		}
	})
	return h.bucketErr
}
