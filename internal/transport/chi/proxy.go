package chi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vidshare/internal/metrics"
)

// upstreamMessage is the client-visible body of every proxy failure past the allow-list.
const upstreamMessage = "Error fetching video"

// passthroughHeaders are copied from the media host response.
var passthroughHeaders = []string{"Content-Length", "Accept-Ranges", "Content-Range", "ETag", "Last-Modified"}

// MediaProxy streams media host objects through this origin so browsers can play
// them under the API's CORS and CSP rules. No retry, no caching.
type MediaProxy struct {
	base     *url.URL
	prefixes []string
	client   *http.Client
	logger   *zap.Logger
}

// NewMediaProxy creates a proxy for objects under baseURL. Only suffixes starting with
// one of prefixes are fetched; an empty prefix list allows every object.
func NewMediaProxy(baseURL string, prefixes []string, timeout time.Duration, logger *zap.Logger) (*MediaProxy, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid media proxy base url %q", baseURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout
	return &MediaProxy{
		base:     base,
		prefixes: prefixes,
		client:   &http.Client{Transport: transport},
		logger:   logger,
	}, nil
}

// Origin is the scheme and host of the media host, for the content security policy.
func (p *MediaProxy) Origin() string { return p.base.Scheme + "://" + p.base.Host }

// ServeHTTP handles GET /media/*.
func (p *MediaProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	suffix := gochi.URLParam(r, "*")
	if !p.allowed(suffix) {
		metrics.ProxyRequestsTotal.WithLabelValues("denied").Inc()
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	target := *p.base
	target.Path = p.base.Path + "/" + suffix
	target.RawPath = ""
	target.RawQuery = ""

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target.String(), http.NoBody)
	if err != nil {
		p.fail(w, suffix, err)
		return
	}
	if rg := r.Header.Get("Range"); rg != "" {
		req.Header.Set("Range", rg)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.fail(w, suffix, err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.fail(w, suffix, fmt.Errorf("upstream status %d", resp.StatusCode))
		return
	}

	h := w.Header()
	h.Set("Content-Type", "video/mp4")
	for _, name := range passthroughHeaders {
		if v := resp.Header.Get(name); v != "" {
			h.Set(name, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	metrics.ProxyRequestsTotal.WithLabelValues("ok").Inc()

	if _, err := io.Copy(w, resp.Body); err != nil && !errors.Is(err, r.Context().Err()) {
		p.logger.Warn("media proxy stream interrupted", zap.String("object", suffix), zap.Error(err))
	}
}

func (p *MediaProxy) fail(w http.ResponseWriter, suffix string, err error) {
	metrics.ProxyRequestsTotal.WithLabelValues("upstream_error").Inc()
	p.logger.Error("media proxy fetch failed", zap.String("object", suffix), zap.Error(err))
	writeError(w, http.StatusInternalServerError, upstreamMessage)
}

// allowed rejects traversal and anything outside the configured prefixes.
// A leading delivery version segment (v<digits>/) is ignored when matching.
func (p *MediaProxy) allowed(suffix string) bool {
	if suffix == "" || strings.HasPrefix(suffix, "/") || strings.Contains(suffix, "\\") {
		return false
	}
	for _, seg := range strings.Split(suffix, "/") {
		if seg == ".." || seg == "." {
			return false
		}
	}
	if len(p.prefixes) == 0 {
		return true
	}
	key := stripVersion(suffix)
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

func stripVersion(s string) string {
	seg, rest, ok := strings.Cut(s, "/")
	if !ok || len(seg) < 2 || seg[0] != 'v' {
		return s
	}
	for _, c := range seg[1:] {
		if c < '0' || c > '9' {
			return s
		}
	}
	return rest
}
