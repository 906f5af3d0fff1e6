package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lmittmann/tint"

	"github.com/minhthuy266/gemini-tarot/internal/adapters/catalog"
	"github.com/minhthuy266/gemini-tarot/internal/adapters/llm/gemini"
	"github.com/minhthuy266/gemini-tarot/internal/adapters/storage"
	"github.com/minhthuy266/gemini-tarot/internal/app"
	"github.com/minhthuy266/gemini-tarot/internal/config"

	httpadapter "github.com/minhthuy266/gemini-tarot/internal/adapters/http"
)

// stdRNG delegates to math/rand/v2 (auto-seeded).
type stdRNG struct{}

func (stdRNG) Intn(n int) int { return rand.IntN(n) }

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = tint.NewHandler(os.Stdout, &tint.Options{Level: cfg.LogLevel})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cards := catalog.NewEmbeddedCatalog()
	if err := cards.Load(); err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath, logger)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	store := storage.NewStore(db, logger)

	llmClient := gemini.NewClient(
		&http.Client{Timeout: cfg.LLMTimeout},
		cfg.GeminiAPIKey,
		cfg.GeminiBaseURL,
		cfg.GeminiModel,
		logger,
	)

	svc := app.NewTarotService(cards, llmClient, store, stdRNG{}, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadapter.NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(httpadapter.RequestIDMiddleware())
	e.Use(httpadapter.LoggingMiddleware(logger))

	handlerV1 := httpadapter.NewHandler(svc)
	handlerV1.Register(e)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr)
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
