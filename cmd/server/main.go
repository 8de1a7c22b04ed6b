package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"flashdeck/internal/app"
	"flashdeck/internal/config"
	"flashdeck/internal/handlers"
	"flashdeck/internal/logging"
	"flashdeck/internal/middleware"
	"flashdeck/internal/repository"
	"flashdeck/internal/router"
	"flashdeck/internal/services"
	"flashdeck/internal/websocket"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("✗ Logger initialization failed: %v", err)
	}
	defer logger.Sync()

	logger.Info("🚀 Starting Flashdeck...")
	logger.Info("✓ Environment variables loaded")

	ctx := context.Background()

	// ──── Step 2: Open Deck Storage ────
	storage, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("✗ Storage initialization failed", zap.Error(err))
	}
	defer storage.Close()

	deckStore := repository.NewDeckStore(storage.kv, cfg.DeckStoreKey, logger)

	// ──── Step 3: Session Registry ────
	sessions := app.NewRegistry(deckStore, app.Options{
		BatchSize:        cfg.CardsBatchSize,
		QuizDefaultCount: cfg.QuizDefaultCount,
		IdleTTL:          time.Duration(cfg.SessionIdleMinutes) * time.Minute,
	}, logger)
	sessions.StartEviction(time.Minute)
	defer sessions.Stop()

	// ──── Step 4: Services ────
	auth := middleware.NewSessionAuth(cfg.SessionSecret)
	importer := services.NewImporter(logger.Named("import"), os.TempDir())
	packager := services.NewPackager(cfg.FrontendURL)

	// ──── Step 5: WebSocket Hub ────
	wsHub := websocket.NewHub(storage.pubsub, auth, sessions.Screen, logger.Named("ws"))
	sessions.SetPublisher(wsHub)
	logger.Info("✓ WebSocket hub started", zap.Bool("redis_fanout", storage.pubsub != nil))

	// ──── Step 6: Handlers ────
	maxUpload := cfg.MaxUploadBytes()
	sessionHandler := handlers.NewSessionHandler(sessions, auth)
	screenHandler := handlers.NewScreenHandler(sessions)
	deckHandler := handlers.NewDeckHandler(sessions, packager, maxUpload, logger)
	importHandler := handlers.NewImportHandler(sessions, importer, maxUpload)
	quizHandler := handlers.NewQuizHandler(sessions)

	limiters := router.Limiters{
		Session: middleware.NewRateLimiter(30, time.Minute),
		Import:  middleware.NewRateLimiter(cfg.ImportRatePerMin, time.Minute),
	}
	defer limiters.Session.Stop()
	defer limiters.Import.Stop()

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		auth,
		sessionHandler,
		screenHandler,
		deckHandler,
		importHandler,
		quizHandler,
		wsHub,
		limiters,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	logger.Info(fmt.Sprintf("✓ Flashdeck ready on http://localhost:%s", cfg.Port))
	logger.Info(fmt.Sprintf("  API: http://localhost:%s/api/v1", cfg.Port))
	logger.Info(fmt.Sprintf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port))

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("Server error", zap.Error(err))
	}
}
