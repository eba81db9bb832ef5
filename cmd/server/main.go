// Command server runs the poll backend HTTP service.
//
// Startup order: load .env, parse configuration, configure logging and
// tracing, open the database and run migrations, connect the optional
// Redis cache and RabbitMQ publisher, then serve HTTP until SIGINT or
// SIGTERM arrives and a graceful drain completes.
//
//	@title        Poll Backend API
//	@version      1.0
//	@description  REST API for creating polls, managing options, casting votes, and reading aggregated results.
//	@BasePath     /api/v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/pollkit/go-poll-backend/docs"
	"github.com/pollkit/go-poll-backend/internal/cache"
	"github.com/pollkit/go-poll-backend/internal/config"
	"github.com/pollkit/go-poll-backend/internal/events"
	httpapi "github.com/pollkit/go-poll-backend/internal/http"
	"github.com/pollkit/go-poll-backend/internal/observability"
	"github.com/pollkit/go-poll-backend/internal/repo"
	"github.com/pollkit/go-poll-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx := context.Background()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.Open(cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", cfg.DBDSN).Msg("database open failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	// Optional results cache; nil disables it.
	c := cache.New(cfg.RedisAddr, cfg.ResultsCacheTTL)
	if c != nil {
		if err := c.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, caching disabled")
			c = nil
		}
	}

	// Optional event stream; fall back to a no-op publisher.
	var ev events.Publisher = events.Nop{}
	var amqpPub *events.AMQPPublisher
	if cfg.AMQPURL != "" {
		amqpPub, err = events.Connect(cfg.AMQPURL)
		if err != nil {
			log.Warn().Err(err).Msg("amqp unreachable, event publishing disabled")
		} else {
			ev = amqpPub
		}
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, c, ev, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	drainCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}

	if amqpPub != nil {
		_ = amqpPub.Close()
	}
	if c != nil {
		_ = c.Close()
	}
	if err := shutdownOTel(drainCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown failed")
	}

	log.Info().Msg("bye")
}
