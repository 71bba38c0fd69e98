package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/quillpost/blog-api/internal/api"
	"github.com/quillpost/blog-api/internal/api/handler"
	"github.com/quillpost/blog-api/internal/core/ports"
	"github.com/quillpost/blog-api/internal/core/service"
	"github.com/quillpost/blog-api/internal/infrastructure/cache"
	mongodb "github.com/quillpost/blog-api/internal/infrastructure/db/mongo"
	redisstore "github.com/quillpost/blog-api/internal/infrastructure/db/redis"
	"github.com/quillpost/blog-api/internal/infrastructure/eventbroker"
	"github.com/quillpost/blog-api/internal/infrastructure/queue"
	"github.com/quillpost/blog-api/internal/infrastructure/security"
	"github.com/quillpost/blog-api/internal/pkg/config"
	"github.com/quillpost/blog-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                       Blog API
// @version                     1.0
// @description                 User accounts, sessions, follow graph and moderation for the blog platform.
// @BasePath                    /
// @securityDefinitions.apikey  SessionCookie
// @in                          cookie
// @name                        jwt
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "blog-api",
	})

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	accountStore := mongodb.NewAccountRepository(db)
	follows := mongodb.NewFollowRepository(db)
	if err := mongodb.EnsureIndexes(ctx, accountStore, follows); err != nil {
		return err
	}
	accounts := cache.NewAccountCache(accountStore, cfg.AccountCacheTTL)
	checks := []handler.DependencyCheck{handler.MongoCheck(db)}

	// --- Presence ---
	presenceLog := logger.Component("presence")
	var (
		publisher ports.PresencePublisher
		tracker   ports.PresenceTracker
	)
	switch cfg.Presence.Backend {
	case config.PresenceRedis:
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		presence := redisstore.NewPresence(rdb, cfg.Presence.OnlineTTL)
		publisher, tracker = presence, presence
		checks = append(checks, handler.RedisCheck(rdb))
	case config.PresenceNats:
		nc, err := eventbroker.Connect(cfg.Nats.URL)
		if err != nil {
			return err
		}
		defer func() { _ = nc.Drain() }()
		publisher = eventbroker.NewNatsPublisher(nc)
		checks = append(checks, handler.NatsCheck(nc))
	default:
		publisher = eventbroker.NewLogPublisher(presenceLog)
	}

	dispatcher := queue.NewDispatcher(cfg.Presence.Workers, publisher, presenceLog)
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	// --- Services ---
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.SessionTTL)
	social := service.NewSocialService(follows, accounts, logger.Component("social"))

	e := api.NewRouter(api.Dependencies{
		Auth:          service.NewAuthService(accounts, hasher, dispatcher, logger.Component("auth")),
		Users:         service.NewUserService(accounts, hasher, social, tracker, logger.Component("users")),
		Social:        social,
		Moderation:    service.NewModerationService(accounts, logger.Component("moderation")),
		Accounts:      accounts,
		Signer:        signer,
		Health:        handler.NewHealthHandler(checks...),
		Log:           logger.Component("http"),
		SecureCookies: !cfg.IsDevelopment(),
	})

	// --- HTTP server ---
	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("presence", cfg.Presence.Backend).
			Msg("starting HTTP server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info().Msg("HTTP server gracefully stopped")
	return nil
}
