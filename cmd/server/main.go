package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/carebridge/sessiongate/internal/adapters/http"
	wssignal "github.com/carebridge/sessiongate/internal/adapters/signal"
	"github.com/carebridge/sessiongate/internal/app"
	"github.com/carebridge/sessiongate/internal/auth"
	"github.com/carebridge/sessiongate/internal/config"
	"github.com/carebridge/sessiongate/internal/core"
	"github.com/carebridge/sessiongate/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	var verifier auth.Verifier
	switch cfg.AuthStrategy {
	case "provider":
		verifier = auth.NewProviderVerifier(cfg.ProviderURL, cfg.ProviderTimeout)
	default:
		verifier = auth.NewTokenVerifier(cfg.TokenSecret, cfg.TokenIssuer)
	}

	var consultations store.ConsultationStore
	switch cfg.StoreMode {
	case "memory":
		consultations = store.NewMemoryStore()
	default:
		consultations = store.NewHTTPStore(cfg.StoreURL, cfg.StoreTimeout)
	}

	connections := app.NewConnectionRegistry()
	rooms := core.NewRoomRegistry()
	access := app.NewAccessVerifier(consultations)
	limiter := app.NewJoinLimiter(cfg.JoinRateLimit, cfg.JoinRateInterval)

	coordinator := app.NewCoordinator(connections, rooms, access, limiter)
	presence := app.NewPresence(connections, rooms)
	gate := wssignal.NewGate(verifier)
	controller := wssignal.NewController(coordinator, presence, gate, cfg.ReadLimit, cfg.PingPeriod)

	r := router.SetupRouter(ctx, cfg, controller, rooms)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Str("auth", cfg.AuthStrategy).Str("store", cfg.StoreMode).Msg("session gateway started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited gracefully")
}
