package media

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/metrics"
)

// InstrumentedHost wraps a Host with logging, metrics and domain error mapping.
type InstrumentedHost struct {
	inner   Host
	backend string
	logger  *zap.Logger
}

// NewInstrumentedHost wraps inner; backend labels metrics and log lines.
func NewInstrumentedHost(inner Host, backend string, logger *zap.Logger) *InstrumentedHost {
	return &InstrumentedHost{inner: inner, backend: backend, logger: logger}
}

// Upload forwards the request and wraps failures in domain.ErrMediaUpload.
func (h *InstrumentedHost) Upload(ctx context.Context, req UploadRequest) (Asset, error) {
	start := time.Now()
	asset, err := h.inner.Upload(ctx, req)
	duration := time.Since(start)
	metrics.MediaRequestDuration.WithLabelValues(h.backend, "upload").Observe(duration.Seconds())

	if err != nil {
		metrics.MediaRequestsTotal.WithLabelValues(h.backend, "upload", "error").Inc()
		h.logger.Error("Media upload failed",
			zap.String("backend", h.backend),
			zap.String("folder", req.Folder),
			zap.String("kind", string(req.Kind)),
			zap.Int64("size", req.Size),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return Asset{}, fmt.Errorf("%w: %w", domain.ErrMediaUpload, err)
	}

	metrics.MediaRequestsTotal.WithLabelValues(h.backend, "upload", "ok").Inc()
	metrics.MediaUploadBytes.WithLabelValues(h.backend, string(req.Kind)).Add(float64(req.Size))
	h.logger.Debug("Media upload completed",
		zap.String("backend", h.backend),
		zap.String("media_id", asset.ID),
		zap.Int("derived", len(asset.Derived)),
		zap.Duration("duration", duration),
	)
	return asset, nil
}

// Release forwards the request and wraps failures in domain.ErrMediaRelease.
func (h *InstrumentedHost) Release(ctx context.Context, id string, kind Kind) error {
	start := time.Now()
	err := h.inner.Release(ctx, id, kind)
	metrics.MediaRequestDuration.WithLabelValues(h.backend, "release").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.MediaRequestsTotal.WithLabelValues(h.backend, "release", "error").Inc()
		h.logger.Error("Media release failed",
			zap.String("backend", h.backend),
			zap.String("media_id", id),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %w", domain.ErrMediaRelease, err)
	}
	metrics.MediaRequestsTotal.WithLabelValues(h.backend, "release", "ok").Inc()
	return nil
}
