package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/scythe504/bluffr-backend/internal/config"
	"github.com/scythe504/bluffr-backend/internal/database"
	"github.com/scythe504/bluffr-backend/internal/game"
	"github.com/scythe504/bluffr-backend/internal/questions"
	"github.com/scythe504/bluffr-backend/internal/server"
	"github.com/scythe504/bluffr-backend/internal/websockets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Setup logging
	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *database.Service
	if cfg.DatabaseURL != "" {
		db, err = database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
	}

	bank := loadBank(ctx, cfg, db)

	hub := websockets.NewHub()
	mgr := game.NewManager(cfg.GameConfig(), bank, clockwork.NewRealClock(), hub)

	wsCfg := websockets.DefaultConfig()
	wsCfg.AllowedOrigins = []string{cfg.FrontendURL}
	wsHandler := websockets.NewHandler(hub, mgr, wsCfg)

	// A nil *database.Service must not reach the server as a non-nil interface.
	var health server.HealthChecker
	if db != nil {
		health = db
	}
	srv := server.NewServer(cfg.Port, cfg.FrontendURL, mgr, wsHandler, health)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Int("questions", bank.Len()).
			Str("frontend_url", cfg.FrontendURL).
			Msg("[main] HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("[main] received shutdown signal")
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("[main] HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("[main] HTTP server shutdown failed")
	}
	mgr.Shutdown()
	hub.Close()

	log.Info().Msg("[main] shutdown complete")
}

// loadBank picks the question source: database first, then QUESTIONS_FILE,
// then the bank compiled into the binary.
func loadBank(ctx context.Context, cfg config.Config, db *database.Service) *questions.Bank {
	if db != nil {
		qs, err := db.Questions(ctx)
		if err == nil {
			bank, err := questions.New(qs)
			if err == nil {
				log.Info().Int("questions", bank.Len()).Msg("[loadBank] using database question bank")
				return bank
			}
			log.Warn().Err(err).Msg("[loadBank] database question bank unusable")
		} else {
			log.Warn().Err(err).Msg("[loadBank] failed to read questions from database")
		}
	}

	if cfg.QuestionsFile != "" {
		bank, err := questions.LoadFile(cfg.QuestionsFile)
		if err == nil {
			log.Info().Str("file", cfg.QuestionsFile).Int("questions", bank.Len()).Msg("[loadBank] using question file")
			return bank
		}
		log.Warn().Err(err).Str("file", cfg.QuestionsFile).Msg("[loadBank] failed to load question file")
	}

	log.Info().Msg("[loadBank] using built-in question bank")
	return questions.Default()
}
