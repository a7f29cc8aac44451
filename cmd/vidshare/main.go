package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vidshare/internal/auth"
	"github.com/kailas-cloud/vidshare/internal/config"
	dbRedis "github.com/kailas-cloud/vidshare/internal/db/redis"
	logpkg "github.com/kailas-cloud/vidshare/internal/logger"
	"github.com/kailas-cloud/vidshare/internal/media"
	"github.com/kailas-cloud/vidshare/internal/media/cloudinary"
	"github.com/kailas-cloud/vidshare/internal/media/minio"
	"github.com/kailas-cloud/vidshare/internal/metrics"
	categoryrepo "github.com/kailas-cloud/vidshare/internal/repository/category"
	commentrepo "github.com/kailas-cloud/vidshare/internal/repository/comment"
	"github.com/kailas-cloud/vidshare/internal/repository/docstore"
	feelingrepo "github.com/kailas-cloud/vidshare/internal/repository/feeling"
	historyrepo "github.com/kailas-cloud/vidshare/internal/repository/history"
	"github.com/kailas-cloud/vidshare/internal/repository/ratelimit"
	replyrepo "github.com/kailas-cloud/vidshare/internal/repository/reply"
	subscriptionrepo "github.com/kailas-cloud/vidshare/internal/repository/subscription"
	userrepo "github.com/kailas-cloud/vidshare/internal/repository/user"
	videorepo "github.com/kailas-cloud/vidshare/internal/repository/video"
	chiTransport "github.com/kailas-cloud/vidshare/internal/transport/chi"
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
	"github.com/kailas-cloud/vidshare/internal/version"
)

func main() {
	// Runs last, after the deferred store and logger cleanup.
	exitCode := 0
	defer func() {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level,
		zap.String("service", "vidshare"),
		zap.String("version", version.Version),
	)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting vidshare API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("media_driver", cfg.Media.Driver),
	)

	if cfg.Database.Driver != "redis" {
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Database.Addrs,
		Username:   cfg.Database.Username,
		Password:   cfg.Database.Password,
		DB:         cfg.Database.DB,
		ClientName: "vidshare-api",
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.Register()

	prefix := cfg.Database.KeyPrefix
	users := userrepo.New(store, prefix)
	categories := categoryrepo.New(store, prefix)
	videos := videorepo.New(store, prefix)
	comments := commentrepo.New(store, prefix)
	replies := replyrepo.New(store, prefix)
	feelings := feelingrepo.New(store, prefix)
	histories := historyrepo.New(store, prefix)
	subscriptions := subscriptionrepo.New(store, prefix)

	indexed := []docstore.Indexed{users, categories, videos, comments, replies, feelings, histories, subscriptions}
	if err := docstore.EnsureIndexes(ctx, indexed...); err != nil {
		logger.Fatal("Failed to create search indexes", zap.Error(err))
	}

	host, err := buildMediaHost(cfg.Media, logger)
	if err != nil {
		logger.Fatal("Failed to create media host", zap.Error(err))
	}

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL(), cfg.Auth.Issuer)
	if err != nil {
		logger.Fatal("Failed to create token signer", zap.Error(err))
	}
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)

	// Create use case services
	videoSvc := videouc.New(videouc.Deps{
		Videos:      videos,
		Users:       users,
		Categories:  categories,
		Feelings:    feelings,
		Comments:    comments,
		Replies:     replies,
		Histories:   histories,
		Subscribers: subscriptions,
		Media:       host,
		Logger:      logger,
		Folders: videouc.Folders{
			Videos:     cfg.Media.Folders.Videos,
			Thumbnails: cfg.Media.Folders.Thumbnails,
		},
		StockThumbnailURL: cfg.Media.StockThumbnailURL,
	})
	historySvc := historyuc.New(histories, videos, videoSvc)

	services := chiTransport.Services{
		Auth:          authuc.New(users, hasher, tokens, host, cfg.Media.Folders.Avatars, logger),
		Users:         useruc.New(users, host, logger),
		Categories:    categoryuc.New(categories, videoSvc),
		Videos:        videoSvc,
		Comments:      commentuc.New(comments, replies, videos, users),
		Feelings:      feelinguc.New(feelings, videos, videoSvc),
		Subscriptions: subscriptionuc.New(subscriptions, users, videoSvc),
		Histories:     historySvc,
		Search:        searchuc.New(users, videos, historySvc, logger, cfg.Pagination.SearchWindow),
		Health:        healthuc.New(store, store, docstore.IndexNames(indexed...)),
	}

	server := chiTransport.NewServer(services, tokens, users, chiTransport.Options{
		Pages: chiTransport.PageSizes{
			Videos:     cfg.Pagination.Videos,
			Categories: cfg.Pagination.Categories,
			Comments:   cfg.Pagination.Comments,
			Search:     cfg.Pagination.Search,
			Default:    cfg.Pagination.Default,
			Max:        cfg.Pagination.MaxPageSize,
		},
		MaxJSONBytes:  cfg.HTTP.MaxJSONBytes,
		MaxVideoBytes: cfg.Media.MaxVideoBytes,
		MaxImageBytes: cfg.Media.MaxImageBytes,
		TempDir:       cfg.Media.TempDir,
		CookieName:    cfg.Auth.CookieName,
		CookieSecure:  cfg.Auth.CookieSecure,
		TokenTTL:      tokens.TTL(),
	}, logger)

	if cfg.Auth.LoginLimit > 0 {
		server.WithLoginLimiter(ratelimit.New(store, prefix, "login", cfg.Auth.LoginLimit, cfg.Auth.LoginWindow()))
	}

	var mediaOrigin string
	if cfg.Media.Proxy.BaseURL != "" {
		proxy, err := chiTransport.NewMediaProxy(
			cfg.Media.Proxy.BaseURL, cfg.Media.Proxy.AllowedPrefixes,
			time.Duration(cfg.Media.Proxy.TimeoutSec)*time.Second, logger,
		)
		if err != nil {
			logger.Fatal("Failed to create media proxy", zap.Error(err))
		}
		server.WithMediaProxy(proxy)
		mediaOrigin = proxy.Origin()
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	if cfg.HTTP.TrustProxy {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.Use(chiTransport.CORS(cfg.CORS.AllowedOrigins))
	r.Use(chiTransport.SecurityHeaders(mediaOrigin))
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	if err := serve(srv, quit, time.Duration(cfg.HTTP.ShutdownSec)*time.Second, logger); err != nil {
		exitCode = 1
		return
	}
	logger.Info("Server stopped gracefully")
}

// serve runs srv until a signal arrives on stop or the listener fails, then shuts it
// down within shutdownTimeout. The listener error, if any, is returned.
func serve(srv *http.Server, stop <-chan os.Signal, shutdownTimeout time.Duration, logger *zap.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var failure error
	select {
	case <-stop:
		logger.Info("Received shutdown signal")
	case err := <-serveErr:
		logger.Error("HTTP server error", zap.Error(err))
		failure = fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	return failure
}

// buildMediaHost selects the media backend and wraps it with metrics and logging.
func buildMediaHost(cfg config.MediaConfig, logger *zap.Logger) (media.Host, error) {
	var (
		inner media.Host
		err   error
	)
	switch cfg.Driver {
	case "cloudinary":
		inner, err = cloudinary.New(cloudinary.Config{
			CloudName: cfg.Cloudinary.CloudName,
			APIKey:    cfg.Cloudinary.APIKey,
			APISecret: cfg.Cloudinary.APISecret,
		})
	case "minio":
		inner, err = minio.New(minio.Config{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			UseSSL:    cfg.Minio.UseSSL,
			Bucket:    cfg.Minio.Bucket,
			Region:    cfg.Minio.Region,
			PublicURL: cfg.Minio.PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return media.NewInstrumentedHost(inner, cfg.Driver, logger), nil
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   msg,
	})
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					writeJSONError(w, http.StatusInternalServerError, "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request. Media streams can be long; latency covers the whole body.
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
