package chi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/media"
)

// multipartOverhead is the allowance for boundaries and headers around the file part.
const multipartOverhead = 1 << 20

// Uploads get a read deadline sized for maxBytes at minUploadRate instead of the
// server-wide ReadTimeout, never shorter than minUploadWindow.
const (
	minUploadRate   = 256 << 10 // bytes per second
	minUploadWindow = time.Minute
)

// uploadWindow is how long a client may take to send maxBytes.
func uploadWindow(maxBytes int64) time.Duration {
	d := time.Duration((maxBytes+multipartOverhead)/minUploadRate) * time.Second
	return max(d, minUploadWindow)
}

// extendDeadlines pushes the connection's read and write deadlines past the upload
// window. Writers that do not expose deadlines (recorders, HTTP/2 shims) are left alone.
func extendDeadlines(w http.ResponseWriter, maxBytes int64) error {
	window := uploadWindow(maxBytes)
	rc := http.NewResponseController(w)
	if err := rc.SetReadDeadline(time.Now().Add(window)); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return fmt.Errorf("set read deadline: %w", err)
	}
	// Processing and the remote upload follow the body, so the response gets the same slack.
	if err := rc.SetWriteDeadline(time.Now().Add(2 * window)); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return fmt.Errorf("set write deadline: %w", err)
	}
	return nil
}

// tooLarge reports an oversized part as a validation failure on field.
func tooLarge(field string, maxBytes int64) error {
	ve := domain.NewValidationError(field, "please upload a file smaller than "+humanize.IBytes(uint64(maxBytes)))
	return fmt.Errorf("%w: %w", ve, media.ErrTooLarge)
}

// stageUpload streams the multipart part named field to a temp file without
// buffering the body in memory. The caller owns the returned file; the use cases
// remove it on every path.
func (s *Server) stageUpload(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (*media.File, error) {
	if err := extendDeadlines(w, maxBytes); err != nil {
		return nil, err
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, domain.NewValidationError(field, "please upload a file")
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, domain.NewValidationError(field, "please upload a file")
		}
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, tooLarge(field, maxBytes)
		}
		if err != nil {
			return nil, fmt.Errorf("read multipart: %w", err)
		}
		if part.FormName() != field || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		f, err := media.Stage(part, s.opts.TempDir, part.FileName(), part.Header.Get("Content-Type"), maxBytes)
		_ = part.Close()
		if errors.Is(err, media.ErrTooLarge) || errors.As(err, &mbe) {
			return nil, tooLarge(field, maxBytes)
		}
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", field, err)
		}
		return f, nil
	}
}
