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

	"minichat-backend/internal/config"
	"minichat-backend/internal/gemini"
	"minichat-backend/internal/handlers"
	"minichat-backend/internal/ratelimit"
	"minichat-backend/internal/router"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)
	logger.Info().Str("env", cfg.Env).Str("model", cfg.Model).Msg("starting minichat backend")

	// ──── Step 2: Rate Limiter ────
	limiter := ratelimit.New(cfg.RateLimitMaxPerWindow, time.Duration(cfg.RateLimitWindowSeconds)*time.Second)
	defer limiter.Stop()
	logger.Info().
		Int("max_per_window", cfg.RateLimitMaxPerWindow).
		Int("window_seconds", cfg.RateLimitWindowSeconds).
		Msg("rate limiter ready")

	// ──── Step 3: Gemini Client ────
	upstreamTimeout := time.Duration(cfg.UpstreamTimeoutSeconds) * time.Second
	client := gemini.NewClient(gemini.ClientConfig{
		APIKey:          cfg.GeminiAPIKey,
		Model:           cfg.Model,
		MaxOutputTokens: cfg.MaxOutputTokens,
		Temperature:     cfg.Temperature,
		Timeout:         upstreamTimeout,
	}, logger.With().Str("component", "gemini").Logger())
	logger.Info().Msg("gemini client initialized")

	// ──── Step 4: Handlers & Router ────
	chatHandler := handlers.NewChatHandler(limiter, client, cfg.MaxHistoryTurns,
		logger.With().Str("component", "chat").Logger())

	r := router.New(chatHandler, cfg.FrontendDir, cfg.AllowedOrigin, logger)

	// ──── Step 5: HTTP Server ────
	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// Must outlast the upstream call or in-flight replies get cut off.
		WriteTimeout: upstreamTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info().Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	logger.Info().Str("addr", server.Addr).Msg("minichat backend ready")

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func newLogger(level string) zerolog.Logger {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		l = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	return zerolog.New(output).Level(l).With().Timestamp().Logger()
}
