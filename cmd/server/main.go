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

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/pickup/internal/config"
	"github.com/playperu/pickup/internal/database"
	"github.com/playperu/pickup/internal/games"
	"github.com/playperu/pickup/internal/handler/health"
	"github.com/playperu/pickup/internal/migrations"
	"github.com/playperu/pickup/internal/server"
	"github.com/playperu/pickup/internal/store"
	"github.com/playperu/pickup/internal/xp"
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
	if database.IsFile(cfg.DBPath) {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	version, err := migrations.Version(ctx, db)
	if err != nil {
		return err
	}
	// Hosted URLs carry an auth token, keep them out of the log.
	where := cfg.DBPath
	if database.IsRemote(where) {
		where = "remote"
	}
	logger.Info("connected to sqlite", "path", where, "schema_version", version)

	st := store.New(db, cfg.CASRetries)
	checks := map[string]health.Checker{
		"sqlite": health.CheckerFunc(st.Ping),
		"redis":  nil,
	}

	// --- Redis (XP) ---
	var awarder xp.Awarder = xp.Noop{}
	var totals server.XPTotals
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		logger.Info("connected to redis")

		redisXP := xp.NewRedisAwarder(rdb)
		async := xp.NewAsync(redisXP, cfg.XPTimeout, logger)
		defer async.Wait()
		awarder, totals = async, redisXP
		checks["redis"] = health.CheckerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	} else {
		logger.Info("redis not configured, xp awards disabled")
	}

	svc := games.NewService(st, st, awarder, logger)

	if cfg.SeedDemo {
		if err := server.SeedDemo(ctx, logger, st, svc); err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Games:    svc,
		Sessions: st,
		XP:       totals,
		Checks:   checks,

		PublicURL:   cfg.PublicURL,
		CORSOrigins: cfg.CORSOrigins,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
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
