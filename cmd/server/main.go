// Package main provides the Messenger help bot server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/snapframe/helpbot-go/internal/buildinfo"
	"github.com/snapframe/helpbot-go/internal/config"
	"github.com/snapframe/helpbot-go/internal/logger"
	"github.com/snapframe/helpbot-go/internal/menu"
	"github.com/snapframe/helpbot-go/internal/messenger"
	"github.com/snapframe/helpbot-go/internal/metrics"
	"github.com/snapframe/helpbot-go/internal/ratelimit"
	"github.com/snapframe/helpbot-go/internal/webhook"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewWithOptions(logger.Options{
		Level:               cfg.LogLevel,
		BetterstackToken:    cfg.BetterstackToken,
		BetterstackEndpoint: cfg.BetterstackEndpoint,
	})
	log.WithField("version", buildinfo.Version).
		WithField("commit", buildinfo.Commit).
		Info("Starting SnapFrame help bot server")

	// Initialize Sentry error tracking (optional)
	sentryEnabled := cfg.SentryDSN != ""
	if sentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			AttachStacktrace: true,
		}); err != nil {
			log.WithError(err).Warn("Failed to initialize Sentry, error tracking disabled")
			sentryEnabled = false
		} else {
			log.WithField("environment", cfg.Environment).Info("Sentry initialized")
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Create Prometheus registry
	registry := prometheus.NewRegistry()

	// Register Go and process collectors
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	// Create metrics
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Create Send API client
	client := messenger.NewClient(messenger.ClientConfig{
		BaseURL:     cfg.GraphAPIBaseURL,
		AccessToken: cfg.PageAccessToken,
		Timeout:     cfg.SendTimeout,
		RateRPS:     cfg.SendRateRPS,
		RateBurst:   cfg.SendRateBurst,
		Metrics:     m,
		Logger:      log,
	})
	log.WithField("base_url", cfg.GraphAPIBaseURL).Info("Send API client created")

	// Create menu state machine
	mode, err := menu.ParseMode(cfg.MenuMode)
	if err != nil {
		log.WithError(err).Fatal("Invalid menu mode")
	}
	catalog := menu.NewCatalog(cfg.AssetBaseURL())
	machine := menu.NewMachine(mode, catalog, m, log)
	log.WithField("mode", mode.String()).
		WithField("asset_base_url", cfg.AssetBaseURL()).
		Info("Menu state machine created")

	// Create per-sender flood limiter
	limiter := ratelimit.NewSenderLimiter(ratelimit.SenderConfig{
		Burst:      cfg.UserRateBurst,
		RefillRate: cfg.UserRateRefill,
		Metrics:    m,
	})
	defer limiter.Stop()
	log.WithField("burst", cfg.UserRateBurst).
		WithField("refill_per_sec", cfg.UserRateRefill).
		Info("Flood limiter created")

	// Create webhook handler
	webhookHandler := webhook.NewHandler(webhook.HandlerConfig{
		AppSecret:   cfg.AppSecret,
		VerifyToken: cfg.VerifyToken,
		Client:      client,
		Machine:     machine,
		Limiter:     limiter,
		Metrics:     m,
		Logger:      log,
	})
	log.Info("Webhook handler created")

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	if sentryEnabled {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(log))

	// Setup routes
	setupRoutes(router, webhookHandler, machine, registry, cfg)

	// Create HTTP server with timeouts sized for webhook acknowledgment
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  config.WebhookHTTPRead,
		WriteTimeout: config.WebhookHTTPWrite,
		IdleTimeout:  config.WebhookHTTPIdle,
	}

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Drain in-flight webhook event processing before closing the listener
	if err := webhookHandler.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Timeout draining webhook event processing")
	}

	// Shutdown server gracefully
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server stopped")
}
