// Command guardian runs the moderation core: it opens the engagement
// store, builds the per-message pipeline, and serves the read-only status
// dashboard. The chat-platform transport is expected to embed this
// process's services (Pipeline, WarnService, Greeter) and feed them inbound
// events; guardian itself stays platform-agnostic.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nqAtomic/my-discord-bott/internal/config"
	"github.com/nqAtomic/my-discord-bott/internal/domain"
	httpapi "github.com/nqAtomic/my-discord-bott/internal/http"
	"github.com/nqAtomic/my-discord-bott/internal/moderation"
	"github.com/nqAtomic/my-discord-bott/internal/observability"
	"github.com/nqAtomic/my-discord-bott/internal/repo"
	"github.com/nqAtomic/my-discord-bott/internal/services"
	"github.com/nqAtomic/my-discord-bott/internal/sysutil"
)

const version = "0.3.0"

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	// Logging
	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownOTel(shCtx)
	}()

	// Store
	db, err := repo.OpenSQLite(cfg.DBPath, cfg.OTEL.Enabled)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open store failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate store failed")
	}
	log.Info().Str("path", cfg.DBPath).Msg("store ready")

	// Moderation core. The transport layer wires its Notifier and
	// Dispatcher implementations into the pipeline; until then the no-op
	// collaborators keep the core runnable.
	filter := moderation.NewFilter(cfg.Moderation.ProhibitedTerms)
	spam := moderation.NewTracker(cfg.Moderation.SpamWindow, cfg.Moderation.SpamThreshold)
	pipeline := services.NewPipeline(db, filter, spam, nil, nil, cfg.Moderation.XPPerLevel, log.Logger)

	// Inbound events flow through this queue; the platform adapter owns
	// the producing side.
	events := make(chan domain.MessageEvent, 256)
	go pipeline.Run(ctx, events)

	log.Info().
		Int("terms", len(cfg.Moderation.ProhibitedTerms)).
		Dur("spam_window", cfg.Moderation.SpamWindow).
		Int("spam_threshold", cfg.Moderation.SpamThreshold).
		Int("xp_per_level", cfg.Moderation.XPPerLevel).
		Str("log_channel", cfg.Moderation.LogChannel).
		Str("welcome_channel", cfg.Moderation.WelcomeChannel).
		Str("prefix", cfg.Moderation.CommandPrefix).
		Msg("moderation pipeline ready")

	// Status page
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, cfg)

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
		log.Info().Str("addr", srv.Addr).Msg("dashboard listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
