package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wolfman30/voice-booking-demo/internal/app/bootstrap"
	appconfig "github.com/wolfman30/voice-booking-demo/internal/config"
	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

func main() {
	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting voice-booking-demo API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)
	logStartupWarnings(cfg, logger)

	app := bootstrap.Build(context.Background(), cfg, logger)
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close app resources", "error", err)
		}
	}()

	srv := newServer(cfg, app.Handler())

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func newServer(cfg *appconfig.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// logStartupWarnings reports optional settings that are missing. None of
// them stops the server; the affected routes fail when used.
func logStartupWarnings(cfg *appconfig.Config, logger *logging.Logger) {
	if _, err := cfg.RequireAPIKey(); err != nil {
		logger.Warn("assistant and call routes disabled", "error", err)
	}
	if _, err := cfg.RequireAssistantID(); err != nil {
		logger.Warn("no default assistant", "error", err)
	}
	if cfg.SessionSecret == "" {
		logger.Warn("SESSION_SECRET not set; session routes will reject every request")
	}
	if cfg.ResolvedBookingWebhookURL() == "" && cfg.VapiToolID == "" {
		logger.Warn("no booking endpoint: set PUBLIC_BASE_URL, BOOKING_WEBHOOK_URL or VAPI_TOOL_ID")
	}
}
