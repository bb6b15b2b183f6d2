package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/memarch/internal/config"
	"github.com/MrSnakeDoc/memarch/internal/crm"
	"github.com/MrSnakeDoc/memarch/internal/httpserver"
	"github.com/MrSnakeDoc/memarch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/memarch/internal/logger"
	"github.com/MrSnakeDoc/memarch/internal/metrics"
	"github.com/MrSnakeDoc/memarch/internal/notify"
	"github.com/MrSnakeDoc/memarch/internal/persist"
	"github.com/MrSnakeDoc/memarch/internal/redis"
	"github.com/MrSnakeDoc/memarch/internal/sources/seed"
	"github.com/MrSnakeDoc/memarch/internal/storage"
	redisstore "github.com/MrSnakeDoc/memarch/internal/storage/redis"
	"github.com/MrSnakeDoc/memarch/internal/storage/sqlite"
	"github.com/MrSnakeDoc/memarch/internal/version"
)

type App struct {
	cfg       *config.Config
	logger    logger.Logger
	kv        storage.KV
	store     *crm.Store
	scheduler *notify.Local
	server    *httpserver.Server
}

// New loads configuration from the environment and builds the application.
func New(ctx context.Context) (*App, error) {
	cfg := config.Load()
	return Build(ctx, cfg, logger.New(cfg.LogLevel, cfg.PrettyLog))
}

// Build wires every component from cfg. The store is loaded and, when a seed
// file is configured and the store is empty, seeded.
func Build(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	kv, err := openStorage(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	scheduler := notify.NewLocal(notify.LocalOptions{
		Permitted: cfg.NotificationsPermitted,
		Interval:  cfg.DispatchInterval,
	}, loggerClient.With(logger.String("component", "reminders")), m)

	feed := notify.NewFeed(cfg.NoticeLimit, loggerClient.With(logger.String("component", "notices")))

	store := crm.New(persist.NewAdapter(kv, loggerClient, m), scheduler, feed, loggerClient, m)
	if err := store.Open(ctx); err != nil {
		_ = kv.Close()
		return nil, err
	}

	if cfg.SeedFile != "" {
		loggerClient.Info("seed file configured", logger.String("file", cfg.SeedFile))
		if _, err := seed.LoadAndImport(ctx, cfg.SeedFile, time.Local, store, loggerClient); err != nil {
			_ = kv.Close()
			return nil, fmt.Errorf("failed to import seed file: %w", err)
		}
	}

	// Dependencies passed to routes.
	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		TimeNow:      time.Now,
		Location:     time.Local,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		CORSOrigins:  cfg.CORSOrigins,
		Store:        store,
		Scheduler:    scheduler,
		Dispatcher:   scheduler,
		Notices:      feed,
		KV:           kv,
		Backend:      cfg.Storage,
		Metrics:      m,
		Gatherer:     reg,
	}

	return &App{
		cfg:       cfg,
		logger:    loggerClient,
		kv:        kv,
		store:     store,
		scheduler: scheduler,
		server:    httpserver.New(cfg, loggerClient, d),
	}, nil
}

func openStorage(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (storage.KV, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		loggerClient.Warn("using in-memory storage, data is lost on exit")
		return storage.NewMemory(), nil

	case config.StorageRedis:
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
		}, loggerClient)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		loggerClient.Info("Redis initialized successfully")
		return redisstore.NewKV(client), nil

	case config.StorageSQLite:
		kv, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		loggerClient.Info("SQLite opened", logger.String("path", cfg.SQLitePath))
		return kv, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
}

// Store exposes the domain store, mainly for tests and tools.
func (a *App) Store() *crm.Store { return a.store }

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Memory Architect v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("memarch %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if err := a.scheduler.Start(gctx); err != nil {
		return fmt.Errorf("failed to start reminder dispatcher: %w", err)
	}
	a.logger.Info("reminder dispatcher started",
		logger.Duration("interval", a.cfg.DispatchInterval))

	g.Go(func() error {
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("⏳ Shutting down gracefully...")

		a.scheduler.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
		return nil
	})

	err := g.Wait()

	if cerr := a.kv.Close(); cerr != nil {
		a.logger.Warnf("failed to close storage: %v", cerr)
	} else {
		a.logger.Info("✅ Storage closed cleanly")
	}
	_ = a.logger.Sync()

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.logger.Info("✅ Memory Architect stopped cleanly")
	return nil
}
