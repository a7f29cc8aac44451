// Seeder loads fixture files into the vidshare store, wipes it, or exports it.
//
// Usage:
//
//	seeder -i -dir _data          import fixtures
//	seeder -d                     destroy every collection
//	seeder -e -dir out -format yaml
//
// The store and key prefix come from the same config file as the API (ENV selects it).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vidshare/internal/auth"
	"github.com/kailas-cloud/vidshare/internal/config"
	dbRedis "github.com/kailas-cloud/vidshare/internal/db/redis"
	logpkg "github.com/kailas-cloud/vidshare/internal/logger"
	categoryrepo "github.com/kailas-cloud/vidshare/internal/repository/category"
	commentrepo "github.com/kailas-cloud/vidshare/internal/repository/comment"
	"github.com/kailas-cloud/vidshare/internal/repository/docstore"
	feelingrepo "github.com/kailas-cloud/vidshare/internal/repository/feeling"
	historyrepo "github.com/kailas-cloud/vidshare/internal/repository/history"
	replyrepo "github.com/kailas-cloud/vidshare/internal/repository/reply"
	subscriptionrepo "github.com/kailas-cloud/vidshare/internal/repository/subscription"
	userrepo "github.com/kailas-cloud/vidshare/internal/repository/user"
	videorepo "github.com/kailas-cloud/vidshare/internal/repository/video"
	"github.com/kailas-cloud/vidshare/internal/usecase/seed"
	"github.com/kailas-cloud/vidshare/internal/version"
)

type options struct {
	dir     string
	format  string
	doImp   bool
	doDel   bool
	doExp   bool
	timeout time.Duration
}

func main() {
	opts := parseFlags()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level,
		zap.String("service", "vidshare-seeder"),
		zap.String("version", version.Version),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg, opts, logger); err != nil {
		cancel()
		logger.Fatal("Seeder failed", zap.Error(err))
	}
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.dir, "dir", "_data", "fixture directory")
	flag.StringVar(&o.format, "format", "json", "export format: json or yaml")
	flag.BoolVar(&o.doImp, "i", false, "import fixtures from -dir")
	flag.BoolVar(&o.doDel, "d", false, "delete every record")
	flag.BoolVar(&o.doExp, "e", false, "export every record to -dir")
	flag.DurationVar(&o.timeout, "timeout", 5*time.Minute, "overall deadline")
	flag.Parse()
	return o
}

func run(ctx context.Context, cfg config.Config, o options, logger *zap.Logger) error {
	modes := 0
	for _, on := range []bool{o.doImp, o.doDel, o.doExp} {
		if on {
			modes++
		}
	}
	if modes != 1 {
		return errors.New("exactly one of -i, -d or -e is required")
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Database.Addrs,
		Username:   cfg.Database.Username,
		Password:   cfg.Database.Password,
		DB:         cfg.Database.DB,
		ClientName: "vidshare-seeder",
	})
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	defer store.Close()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return err
	}

	prefix := cfg.Database.KeyPrefix
	users := userrepo.New(store, prefix)
	categories := categoryrepo.New(store, prefix)
	videos := videorepo.New(store, prefix)
	comments := commentrepo.New(store, prefix)
	replies := replyrepo.New(store, prefix)
	feelings := feelingrepo.New(store, prefix)
	histories := historyrepo.New(store, prefix)
	subscriptions := subscriptionrepo.New(store, prefix)

	if err := docstore.EnsureIndexes(ctx,
		users, categories, videos, comments, replies, feelings, histories, subscriptions,
	); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	svc := seed.New(seed.Deps{
		Users:             users,
		Categories:        categories,
		Videos:            videos,
		Comments:          comments,
		Replies:           replies,
		Feelings:          feelings,
		Histories:         histories,
		Subscriptions:     subscriptions,
		Hasher:            auth.NewHasher(cfg.Auth.BcryptCost),
		Logger:            logger,
		StockThumbnailURL: cfg.Media.StockThumbnailURL,
	})

	switch {
	case o.doImp:
		fx, err := seed.LoadDir(o.dir)
		if err != nil {
			return err
		}
		report, err := svc.Import(ctx, fx)
		if err != nil {
			return err
		}
		for name, n := range report.Counts {
			logger.Info("Imported", zap.String("collection", name), zap.Int("count", n))
		}
		for _, f := range report.Fallbacks {
			logger.Warn("Fixture fallback", zap.String("detail", f))
		}
		for _, s := range report.Skipped {
			logger.Warn("Fixture skipped", zap.String("detail", s))
		}
		logger.Info("Data imported", zap.String("dir", o.dir))

	case o.doDel:
		counts, err := svc.Destroy(ctx)
		if err != nil {
			return err
		}
		for name, n := range counts {
			logger.Info("Destroyed", zap.String("collection", name), zap.Int("count", n))
		}
		logger.Info("Data destroyed")

	case o.doExp:
		fx, err := svc.Export(ctx)
		if err != nil {
			return err
		}
		if err := seed.WriteDir(o.dir, fx, seed.Format(o.format)); err != nil {
			return err
		}
		logger.Info("Data exported", zap.String("dir", o.dir), zap.String("format", o.format))
	}
	return nil
}
