package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/triviadeck/backend/internal/api"
	"github.com/triviadeck/backend/internal/infrastructure/config"
	"github.com/triviadeck/backend/internal/selector"
	"github.com/triviadeck/backend/internal/service"
	"github.com/triviadeck/backend/internal/store"
)

// @title           TriviaDeck Engine API
// @version         1.0
// @description     Quiz content selection and analytics engine — serves under-exposed questions, tracks quiz sessions, and maintains rolling usage statistics.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	sel := selector.New(db, logger)
	sessions := service.NewSessionTracker(db, logger)
	analytics := service.NewAnalytics(db, logger)
	rollover := service.NewRollover(db, logger, cfg.DailyRetentionDays, cfg.SessionRetentionDays)
	handler := api.NewHandler(sel, sessions, analytics, rollover, logger)

	if err := rollover.Schedule(cfg.RolloverSchedule); err != nil {
		logger.Error("failed to schedule rollover", "error", err)
		os.Exit(1)
	}
	defer rollover.Stop()

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
