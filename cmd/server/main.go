package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/flashdeck/internal/api"
	"github.com/vytor/flashdeck/internal/config"
	"github.com/vytor/flashdeck/internal/db"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/jobs"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/review"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/session"
	"github.com/vytor/flashdeck/internal/wiki"
	"github.com/vytor/flashdeck/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
		logger.WithJSON(cfg.LogFormat == "json"),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("FlashDeck Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("session_ttl=%v", cfg.SessionTTL)
	log.Debug("stale_card_policy=%s", cfg.StaleCardPolicy)
	log.Debug("learning_steps=%v", cfg.LearningSteps)
	log.Debug("import_worker_count=%d", cfg.ImportWorkerCount)
	log.Debug("import_queue_size=%d", cfg.ImportQueueSize)
	log.Debug("wiki_language=%s", cfg.WikiLanguage)
	if cfg.SessionSecret == config.DevSessionSecret {
		log.Warn("SESSION_SECRET not set, using the development secret")
	}

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	profileRepo := sqlite.NewProfileRepository(database.DB)
	deckRepo := sqlite.NewDeckRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)

	// Deck import runs in the background
	var translator wiki.Translator = wiki.Identity{}
	if cfg.TranslateURL != "" {
		lt := wiki.NewLibreTranslate(cfg.TranslateURL, cfg.WikiLanguage, cfg.TranslateTarget)
		lt.APIKey = cfg.TranslateAPIKey
		translator = lt
		log.Info("translating imported words via %s", cfg.TranslateURL)
	}
	importPool := worker.NewPool(cfg.ImportWorkerCount, cfg.ImportQueueSize)
	queue := jobs.NewWorkerQueue(importPool, cardRepo, wiki.NewClient(cfg.WikiLanguage), translator, cfg.ImportTopWords)

	sessions := session.NewMemoryStore(cfg.SessionTTL)

	// Initialize services
	profileService := services.NewProfileService(profileRepo)
	deckService := services.NewDeckService(deckRepo, cardRepo, nil)
	reviewService := services.NewReviewService(services.ReviewConfig{
		Decks:     deckRepo,
		Cards:     cardRepo,
		Sessions:  sessions,
		Sequencer: review.NewSequencer(nil),
		Scheduler: flashcard.New(flashcard.WithLearningSteps(cfg.LearningSteps...)),
		Policy:    services.StalePolicy(cfg.StaleCardPolicy),
	})
	importService := services.NewImportService(deckRepo, queue, cfg.WikiLanguage, nil)

	srv := &api.Server{
		ProfileService:     profileService,
		DeckService:        deckService,
		ReviewService:      reviewService,
		ImportService:      importService,
		Tokens:             session.NewTokens(cfg.SessionSecret, cfg.SessionTTL),
		DB:                 database,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		SecureCookies:      cfg.SecureCookies,
		SessionTTL:         cfg.SessionTTL,
		RequestTimeout:     cfg.RequestTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	importPool.Start(ctx)
	sessions.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Cancel background work
	cancel()
	log.Debug("stopping import pool")
	importPool.Stop()
	log.Debug("stopping session janitor")
	sessions.Stop()

	log.Info("===========================================")
	log.Info("FlashDeck Server Stopped")
	log.Info("===========================================")
}
