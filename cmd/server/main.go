package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fraudlens/fraudlens-go/internal/analysis"
	"github.com/fraudlens/fraudlens-go/internal/config"
	"github.com/fraudlens/fraudlens-go/internal/ratelimit"
	"github.com/fraudlens/fraudlens-go/internal/scoring"
	"github.com/fraudlens/fraudlens-go/internal/server"
	"github.com/fraudlens/fraudlens-go/internal/web"
)

func main() {
	cfg := config.Load()

	logger := server.SetupLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init components
	client := scoring.NewClient(cfg.ScoringURL, cfg.ScoringTimeout, logger)
	watcher := scoring.NewWatcher(client, cfg.HealthInterval, logger)
	controller := analysis.NewController(client, logger)
	limiter := ratelimit.New()
	handler := web.NewHandler(controller, client, watcher, limiter, logger)

	// Build router
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(corsMiddleware)

	r.Get("/", handler.Index)
	r.Post("/analyze", handler.AnalyzeForm)
	r.Get("/healthz", handler.Healthz)

	// JSON API mirroring the scoring service's surface
	r.Post("/api/analyze", handler.APIAnalyze)
	r.Get("/api/analyze/{address}", handler.APIAnalyzeGet)

	// Background reachability probe
	go server.RunWithRecovery(ctx, logger, "scoring-watcher", watcher.Run)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ScoringTimeout + 5*time.Second, // analyze renders after the upstream call
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "err", err)
		}
	}()

	logger.Info("server starting", "addr", cfg.ListenAddr, "scoring_url", cfg.ScoringURL, "env", cfg.Env)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// corsMiddleware allows browser clients served from another origin to hit the
// JSON API, matching the scoring service's own CORS posture.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
