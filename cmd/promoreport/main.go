package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dittomusic-JK/promo-report-dashboard/api"
	"github.com/dittomusic-JK/promo-report-dashboard/api/middleware"
	"github.com/dittomusic-JK/promo-report-dashboard/config"
	"github.com/dittomusic-JK/promo-report-dashboard/render"
	"github.com/dittomusic-JK/promo-report-dashboard/store"
	"github.com/dittomusic-JK/promo-report-dashboard/verify"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("promo report dashboard starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"auth", cfg.Auth.Password != "",
		"webhook", cfg.Webhook.URL != "",
	)

	// ── 3. Initialise stores ─────────────────────────────────────────
	reports, err := store.NewReportStore(cfg.Store.DataDir)
	if err != nil {
		slog.Error("failed to open report store", "error", err)
		os.Exit(1)
	}
	assets, err := store.NewAssetStore(cfg.Store.AssetDir)
	if err != nil {
		slog.Error("failed to open asset store", "error", err)
		os.Exit(1)
	}

	// ── 4. Renderer, prober, sessions ────────────────────────────────
	// No browser is launched here; every extraction call owns its own.
	renderer := render.NewRenderer(cfg.Browser, cfg.Render)
	prober := verify.NewProber(cfg.Browser.Proxy)
	sessions := middleware.NewSessionStore(cfg.Auth.SessionTTL)

	// ── 5. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(renderer, prober, reports, assets, sessions, cfg, startTime)

	// ── 6. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight report builds 10 seconds to finish; their browser
	// processes die with their calls.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("promo report dashboard stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
