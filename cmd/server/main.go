package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/minigames/internal/config"
	"github.com/playperu/minigames/internal/database"
	"github.com/playperu/minigames/internal/handler/health"
	"github.com/playperu/minigames/internal/migrations"
	"github.com/playperu/minigames/internal/minigame"
	"github.com/playperu/minigames/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	applied, err := migrations.Run(ctx, db)
	if err != nil {
		return err
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath, "migrations_applied", applied)

	store := server.NewSQLiteStore(db)
	created, err := store.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("ensuring admin: %w", err)
	}
	if created {
		logger.Info("admin account created", "email", cfg.AdminEmail)
	}
	if cfg.SeedDemo {
		if err := server.SeedDemo(ctx, logger, store); err != nil {
			return fmt.Errorf("seeding demo games: %w", err)
		}
	}

	checks := map[string]health.Checker{
		"sqlite": database.Checker{DB: db},
	}

	// --- Redis (optional result outbox) ---
	var outbox server.Outbox
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		logger.Info("connected to redis", "stream", cfg.ResultStream)

		outbox = server.NewRedisOutbox(rdb, cfg.ResultStream)
		checks["redis"] = health.CheckerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	// --- Plays ---
	broker := server.NewBroker()
	sink := server.NewSink(logger, store, outbox)
	plays := server.NewPlays(logger, minigame.NewDispatcher(), broker, sink, cfg.PlayIdleTimeout)

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Admin:       store,
		Games:       store,
		Results:     store,
		Plays:       plays,
		Broker:      broker,
		Tickets:     server.NewTickets(cfg.PlayTokenSecret, cfg.PlayTokenTTL),
		CORSOrigins: cfg.CORSOrigins,
	}, func(r chi.Router) {
		r.Mount("/healthz", health.NewHandler(logger, checks).Routes())
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	// The sink outlives the play runner so results delivered while plays
	// unmount on shutdown are still recorded.
	sinkCtx, stopSink := context.WithCancel(context.WithoutCancel(ctx))
	defer stopSink()

	g.Go(func() error {
		defer stopSink()
		logger.Info("starting play runner", "tick", cfg.TickInterval, "idle_timeout", cfg.PlayIdleTimeout)
		return plays.Run(gctx, cfg.TickInterval)
	})

	g.Go(func() error {
		return sink.Run(sinkCtx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
