package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/quizdata/internal/config"
	"github.com/JonMunkholm/quizdata/internal/core"
	"github.com/JonMunkholm/quizdata/internal/logging"
	"github.com/JonMunkholm/quizdata/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if loaded, err := config.LoadEnvFiles(); err != nil {
		slog.Error("failed to read .env file", "error", err)
		os.Exit(1)
	} else if loaded {
		slog.Info("loaded .env file (overwriting existing env vars)")
	} else {
		slog.Info("no .env file found, using environment variables")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"dataset", cfg.Dataset.Path,
		"watch", cfg.Dataset.Watch,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"api_key_required", cfg.Security.RequireAPIKey,
	)

	history := core.NewHistory(cfg.History.Size)
	store := core.NewStore(cfg.Dataset.Path,
		core.WithLogger(logger),
		core.WithHistory(history),
	)

	// A missing or unreadable file still yields an empty table; the store
	// has already logged why.
	if _, err := store.Load(); err != nil {
		slog.Warn("starting with an empty table", "path", store.Path(), "reason", core.FormatUserError(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Dataset.Watch {
		onReload := func() {
			slog.Info("table replaced from disk", "rows", store.Len())
		}
		if err := core.Watch(ctx, store, cfg.Dataset.WatchDebounce, onReload); err != nil {
			// The UI still works without live reload.
			slog.Warn("file watching disabled", "path", store.Path(), "error", err)
		}
	}

	server := web.NewServer(store, history, cfg)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
