package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/myflix/movie-api/internal/api"
	"github.com/myflix/movie-api/internal/api/handler"
	"github.com/myflix/movie-api/internal/core/service"
	"github.com/myflix/movie-api/internal/infrastructure/config"
	mongostore "github.com/myflix/movie-api/internal/infrastructure/db/mongo"
	redisstore "github.com/myflix/movie-api/internal/infrastructure/db/redis"
	"github.com/myflix/movie-api/internal/infrastructure/queue"
	"github.com/myflix/movie-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Connects to MongoDB and Redis, starts the login audit workers and
serves the API until SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "myflix",
	})

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Infrastructure ---
	users := mongostore.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}
	movies := mongostore.NewMovieRepository(db)
	images, err := mongostore.NewImageStore(db)
	if err != nil {
		return fmt.Errorf("open image bucket: %w", err)
	}
	cache := redisstore.NewMovieCache(rdb, cfg.Redis.CacheTTL)

	auditCtx, stopAudit := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, mongostore.NewAuthEventRepository(db), log)
	dispatcher.Start(auditCtx)
	defer func() {
		stopAudit()
		dispatcher.Wait()
	}()

	// --- Core ---
	hasher, err := service.NewBcryptHasher(cfg.Auth.BcryptCost, cfg.Auth.HashConcurrency)
	if err != nil {
		return err
	}
	codec, err := service.NewJWTCodec(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.Deps{
		Auth:   service.NewAuthService(users, hasher, codec, cfg.Auth.TokenTTL, dispatcher, log),
		Guard:  service.NewAccessGuard(codec, users),
		Users:  service.NewUserService(users, movies, hasher, log),
		Movies: service.NewMovieService(movies, cache, log),
		Images: images,
		Checks: map[string]handler.CheckFunc{
			"mongodb": func(ctx context.Context) error {
				return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
			},
			"redis": func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		},
		Log:         log,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		PublicDir:   cfg.HTTP.PublicDir,
		Gatherer:    prometheus.DefaultGatherer,
	})

	return listen(ctx, router, ":"+cfg.Port, log)
}

// listen serves until ctx is cancelled, then drains in-flight requests.
func listen(ctx context.Context, srv interface {
	Start(address string) error
	Shutdown(ctx context.Context) error
}, addr string, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
