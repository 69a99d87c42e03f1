// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/litbot/litbot/internal/config"
	"github.com/litbot/litbot/internal/feedback"
	"github.com/litbot/litbot/internal/handler"
	"github.com/litbot/litbot/internal/middleware"
	"github.com/litbot/litbot/internal/rag"
	"github.com/litbot/litbot/pkg/logger"
	"github.com/litbot/litbot/pkg/tracing"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "litbot", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing")
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Initialize the retrieval-augmented generator. The vector index
	// connection itself is established lazily on the first request.
	generator, err := rag.NewLangChainGenerator(cfg, log)
	if err != nil {
		log.Error("failed to create generator", zap.Error(err))
		os.Exit(1)
	}

	// Feedback sink: always log, publish to NATS when configured
	var sink feedback.Sink = feedback.NewLogSink(log)
	var natsSink *feedback.NATSSink
	if cfg.NATSURL != "" {
		natsSink, err = feedback.NewNATSSink(cfg.NATSURL, cfg.NATSSubject, log)
		if err != nil {
			log.Warn("failed to connect feedback sink, falling back to log only", zap.Error(err))
		} else {
			defer natsSink.Close()
			sink = feedback.Multi{sink, natsSink}
		}
	}

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(natsSink)
	chatHandler := handler.NewChatHandler(generator, log)
	feedbackHandler := handler.NewFeedbackHandler(sink, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Post("/chat", chatHandler.Chat)
		r.Post("/feedback", feedbackHandler.Record)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
