package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vidshare/internal/domain"
	logpkg "github.com/kailas-cloud/vidshare/internal/logger"
	"github.com/kailas-cloud/vidshare/internal/media"
	authuc "github.com/kailas-cloud/vidshare/internal/usecase/auth"
	categoryuc "github.com/kailas-cloud/vidshare/internal/usecase/category"
	commentuc "github.com/kailas-cloud/vidshare/internal/usecase/comment"
	feelinguc "github.com/kailas-cloud/vidshare/internal/usecase/feeling"
	healthuc "github.com/kailas-cloud/vidshare/internal/usecase/health"
	historyuc "github.com/kailas-cloud/vidshare/internal/usecase/history"
	searchuc "github.com/kailas-cloud/vidshare/internal/usecase/search"
	subscriptionuc "github.com/kailas-cloud/vidshare/internal/usecase/subscription"
	useruc "github.com/kailas-cloud/vidshare/internal/usecase/user"
	videouc "github.com/kailas-cloud/vidshare/internal/usecase/video"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Services groups the use cases behind the HTTP API.
type Services struct {
	Auth          *authuc.Service
	Users         *useruc.Service
	Categories    *categoryuc.Service
	Videos        *videouc.Service
	Comments      *commentuc.Service
	Feelings      *feelinguc.Service
	Subscriptions *subscriptionuc.Service
	Histories     *historyuc.Service
	Search        *searchuc.Service
	Health        *healthuc.Service
}

// PageSizes are the default page sizes per listing.
type PageSizes struct {
	Videos     int
	Categories int
	Comments   int
	Search     int
	Default    int
	Max        int
}

// Options holds the request limits and cookie settings of the API.
type Options struct {
	Pages         PageSizes
	MaxJSONBytes  int64
	MaxVideoBytes int64
	MaxImageBytes int64
	TempDir       string
	CookieName    string
	CookieSecure  bool
	// TokenTTL is the lifetime of the auth cookie; it matches the token expiry.
	TokenTTL time.Duration
}

// Server serves the vidshare REST API.
type Server struct {
	svc           Services
	tokens        TokenVerifier
	users         UserLookup
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler

	loginLimit func(http.Handler) http.Handler
	proxy      http.Handler
}

// NewServer creates an HTTP API server. users resolves token subjects to live accounts.
func NewServer(svc Services, tokens TokenVerifier, users UserLookup, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.CookieName == "" {
		opts.CookieName = "token"
	}
	if opts.MaxJSONBytes <= 0 {
		opts.MaxJSONBytes = 1 << 20
	}
	s := &Server{svc: svc, tokens: tokens, users: users, opts: opts, logger: logger}
	s.errorHandlers = []errorHandler{
		validationHandler,
		tooLargeHandler,
		sentinelHandler(domain.ErrInvalidID, http.StatusBadRequest),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusBadRequest),
		sentinelHandler(domain.ErrUnauthenticated, http.StatusUnauthorized),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests),
		sentinelHandler(domain.ErrMediaUpload, http.StatusBadGateway),
		sentinelHandler(domain.ErrMediaRelease, http.StatusInternalServerError),
		sentinelHandler(domain.ErrUpstream, http.StatusInternalServerError),
	}
	return s
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.svc.Health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:         string(report.Status),
		Checks:         checks,
		MissingIndexes: report.Missing,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Error: message})
}

// writeData writes a single-resource success envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dataResponse{Success: true, Data: data})
}

// writePage writes a list envelope for p with its items converted by fn.
func writePage[T, U any](w http.ResponseWriter, p domain.Page[T], fn func(T) U) {
	items := domain.MapPage(p, fn).Items
	resp := listResponse{
		Success:     true,
		Count:       len(items),
		Total:       p.Total,
		TotalPages:  p.TotalPages(),
		CurrentPage: p.Page,
		Data:        items,
	}
	if p.HasNext() {
		resp.Pagination.Next = &pageRef{Page: p.Page + 1, Limit: p.Limit}
	}
	if p.HasPrev() {
		resp.Pagination.Prev = &pageRef{Page: p.Page - 1, Limit: p.Limit}
	}
	writeJSON(w, http.StatusOK, resp)
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	sentinels := []error{
		authuc.ErrInvalidCredentials,
		media.ErrTooLarge,
		domain.ErrInvalidID,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrUnauthenticated,
		domain.ErrForbidden,
		domain.ErrRateLimited,
		domain.ErrMediaUpload,
		domain.ErrMediaRelease,
		domain.ErrUpstream,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

// validationHandler answers field validation failures with 400 and the field message.
func validationHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrValidation) {
		return false
	}
	writeError(w, http.StatusBadRequest, msg)
	return true
}

// tooLargeHandler answers oversized uploads with 400, like any other rejected field.
func tooLargeHandler(w http.ResponseWriter, err error, _ string) bool {
	var mbe *http.MaxBytesError
	if !errors.Is(err, media.ErrTooLarge) && !errors.As(err, &mbe) {
		return false
	}
	writeError(w, http.StatusBadRequest, media.ErrTooLarge.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context(), s.logger)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
