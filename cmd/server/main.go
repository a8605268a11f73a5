package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drillroom/backend/internal/api"
	"github.com/drillroom/backend/internal/catalog"
	"github.com/drillroom/backend/internal/grader"
	"github.com/drillroom/backend/internal/infrastructure/config"
	"github.com/drillroom/backend/internal/service"
	"github.com/drillroom/backend/internal/store"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	cat, err := catalog.Load(cfg.DataDir, cfg.CatalogWorkers, logger)
	if err != nil {
		return fmt.Errorf("load question data: %w", err)
	}

	progress := service.NewProgressService(db, cat, grader.LetterGrader{}, logger)
	handler := api.NewHandler(cat, progress, cfg.AllowedTokens, logger)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, handler)

	// ── Server: Logging → CORS → mux ────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           api.Logging(logger)(api.CORS(mux)),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "address", cfg.ServerAddress)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	return nil
}
