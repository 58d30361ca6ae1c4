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

	"github.com/wishhunt/wishsense/api"
	"github.com/wishhunt/wishsense/cache"
	"github.com/wishhunt/wishsense/config"
	"github.com/wishhunt/wishsense/imagefetch"
	"github.com/wishhunt/wishsense/llm"
	"github.com/wishhunt/wishsense/storage"
	"github.com/wishhunt/wishsense/textstore"
	"github.com/wishhunt/wishsense/vision"
	"github.com/wishhunt/wishsense/wish"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("wishsense starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"textProvider", cfg.Text.Configured(),
		"visionProviders", len(cfg.Vision),
	)

	// ── 3. Build inference analyzers ─────────────────────────────────
	client := llm.NewClient(nil)
	wishAnalyzer := wish.NewAnalyzer(client, cfg.Text)
	visionAnalyzer := vision.NewAnalyzer(client, cfg.Vision)

	// ── 4. Build supporting services ─────────────────────────────────
	store := textstore.New(cfg.TextStore.TTL)
	cc := cache.New(cfg.Cache.MaxEntries)
	uploads := storage.New(cfg.Storage, nil)
	fetcher := imagefetch.New(cfg.Fetch.Proxy, cfg.Fetch.Timeout)

	// ── 5. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(cfg, api.Deps{
		Store:          store,
		WishAnalyzer:   wishAnalyzer,
		VisionAnalyzer: visionAnalyzer,
		Cache:          cc,
		Fetcher:        fetcher,
		Storage:        uploads,
		StartTime:      startTime,
	})

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

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("wishsense stopped")
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
