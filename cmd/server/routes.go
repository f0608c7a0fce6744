// Package main provides the Messenger help bot server entry point.
package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/snapframe/helpbot-go/internal/buildinfo"
	"github.com/snapframe/helpbot-go/internal/config"
	"github.com/snapframe/helpbot-go/internal/menu"
	"github.com/snapframe/helpbot-go/internal/webhook"
)

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, webhookHandler *webhook.Handler, machine *menu.Machine, registry *prometheus.Registry, cfg *config.Config) {
	// Root endpoint - minimal service identity
	rootHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "snapframe-helpbot",
			"status":  "ok",
			"version": buildinfo.Version,
		})
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Liveness probe - only that the process is running, never dependencies
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness probe. The bot is stateless so readiness reduces to having a
	// fully built menu; topic counts make degraded catalogs visible.
	readyHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ready",
			"menu": gin.H{
				"mode":   machine.Mode().String(),
				"topics": len(menu.Topics),
			},
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Step screenshots referenced by menu replies
	router.Static("/assets/screenshots", "./assets/screenshots")

	// Messenger webhook endpoints: GET for the subscription handshake,
	// POST for event callbacks
	router.GET("/webhook", webhookHandler.HandleVerify)
	router.POST("/webhook", webhookHandler.HandleEvents)

	// Prometheus metrics endpoint, behind Basic Auth when a password is set
	metricsHandler := gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if cfg.MetricsPassword != "" {
		authorized := router.Group("/", gin.BasicAuth(gin.Accounts{
			cfg.MetricsUsername: cfg.MetricsPassword,
		}))
		authorized.GET("/metrics", metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}
}
