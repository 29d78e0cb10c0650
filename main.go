package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ekaya-inc/ekaya-preview/pkg/config"
	"github.com/ekaya-inc/ekaya-preview/pkg/handlers"
	"github.com/ekaya-inc/ekaya-preview/pkg/i18n"
	"github.com/ekaya-inc/ekaya-preview/pkg/logging"
	"github.com/ekaya-inc/ekaya-preview/pkg/middleware"
	"github.com/ekaya-inc/ekaya-preview/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Configuration loaded",
		zap.String("version", cfg.Version),
		zap.String("base_url", cfg.BaseURL),
		zap.String("default_locale", cfg.I18n.DefaultLocale),
		zap.String("translations", cfg.I18n.BundlePath),
		zap.Bool("watch_translations", cfg.I18n.Watch),
		zap.Int64("max_request_bytes", cfg.Preview.MaxRequestBytes))

	catalog, err := i18n.NewCatalog(cfg.I18n.DefaultLocale)
	if err != nil {
		return err
	}
	if cfg.I18n.BundlePath != "" {
		bundle, err := i18n.LoadBundle(cfg.I18n.BundlePath)
		if err != nil {
			return err
		}
		if err := catalog.Replace(bundle); err != nil {
			return err
		}
		logger.Info("Translations loaded", zap.Strings("locales", catalog.Locales()))
	}

	previewService := services.NewPreviewService(catalog, cfg.Preview, logger)

	mux := http.NewServeMux()

	// Register handlers
	healthHandler := handlers.NewHealthHandler(cfg, catalog, logger)
	healthHandler.RegisterRoutes(mux)

	previewHandler := handlers.NewPreviewHandler(previewService, cfg.Preview, logger)
	previewHandler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting ekaya-preview", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.I18n.Watch {
		g.Go(func() error {
			return catalog.Watch(ctx, cfg.I18n.BundlePath, logger.Named("i18n"))
		})
	}

	return g.Wait()
}
