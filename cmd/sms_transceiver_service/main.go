package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aradsms/sms_transceiver/internal/gateway/provider"
	"github.com/aradsms/sms_transceiver/internal/platform/config"
	"github.com/aradsms/sms_transceiver/internal/platform/logger"
	"github.com/aradsms/sms_transceiver/internal/transceiver/app"
	httptransport "github.com/aradsms/sms_transceiver/internal/transceiver/transport/http"
)

const serviceName = "sms_transceiver_service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration is invalid", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.NewWithWriter(os.Stdout, cfg.LogLevel, cfg.LogFormat).With("service", serviceName)
	appLogger.Info("SMS transceiver service starting...", "port", cfg.HTTPPort, "gateway", cfg.Gateway)

	httpClient := &http.Client{Timeout: time.Duration(cfg.HTTPClientTimeoutSeconds) * time.Second}

	gw, err := provider.New(cfg, appLogger, httpClient)
	if err != nil {
		appLogger.Error("Failed to create SMS gateway", "gateway", cfg.Gateway, "error", err)
		os.Exit(1)
	}

	transceiver := app.NewTransceiver(gw, appLogger)
	if cfg.DefaultFrom != "" {
		if err := transceiver.SetDefaultFromString(cfg.DefaultFrom); err != nil {
			appLogger.Error("Invalid DEFAULT_FROM", "value", cfg.DefaultFrom, "error", err)
			os.Exit(1)
		}
	}
	appLogger.Info("SMS gateway ready", "gateway", gw.GetName())
	if cfg.APIJWTSecret == "" {
		appLogger.Warn("API_JWT_SECRET is empty; the send endpoints will reject every request")
	}

	r := chi.NewRouter()
	r.Use(httptransport.RequestIDHeader)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(httptransport.PrometheusMetricsMiddleware)

	validate := validator.New()
	messageHandler := httptransport.NewMessageHandler(transceiver, appLogger, validate)
	webhookHandler := httptransport.NewWebhookHandler(transceiver, appLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "gateway": gw.GetName()})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(sendRouter chi.Router) {
		sendRouter.Use(httptransport.AuthMiddleware(cfg.APIJWTSecret, appLogger))
		messageHandler.RegisterRoutes(sendRouter)
	})
	// Providers cannot authenticate, so the webhooks stay open.
	webhookHandler.RegisterRoutes(r)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed to serve", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutdown signal received, shutting down HTTP server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		appLogger.Error("HTTP server shutdown failed", "error", err)
	} else {
		appLogger.Info("HTTP server shut down gracefully.")
	}
}
