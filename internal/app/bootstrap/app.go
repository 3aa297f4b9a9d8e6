package bootstrap

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/voice-booking-demo/internal/api/router"
	"github.com/wolfman30/voice-booking-demo/internal/assistant"
	"github.com/wolfman30/voice-booking-demo/internal/booking"
	"github.com/wolfman30/voice-booking-demo/internal/calls"
	appconfig "github.com/wolfman30/voice-booking-demo/internal/config"
	"github.com/wolfman30/voice-booking-demo/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/voice-booking-demo/internal/http/middleware"
	"github.com/wolfman30/voice-booking-demo/internal/observability/metrics"
	"github.com/wolfman30/voice-booking-demo/internal/personas"
	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

// App holds the long-lived services shared by the HTTP server and the
// Lambda entrypoint.
type App struct {
	Config    *appconfig.Config
	Logger    *logging.Logger
	Registry  *prometheus.Registry
	Metrics   *metrics.BookingMetrics
	Platform  Platform
	Catalog   *personas.Catalog
	Store     personas.CustomizationStore
	Publisher *assistant.Publisher
	Initiator *calls.Initiator
	Booking   *booking.Service

	redis *redis.Client
}

// Build wires every service from cfg. It never fails: a missing platform
// key or an unreachable redis degrades the affected feature only.
func Build(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *App {
	if logger == nil {
		logger = logging.Default()
	}
	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)

	platform := BuildPlatform(cfg, bookingMetrics, logger)
	catalog := personas.DefaultCatalog()
	store, redisClient := BuildCustomizationStore(ctx, cfg, logger)

	publisher := assistant.NewPublisher(platform, catalog, assistant.Options{
		ToolID:            cfg.VapiToolID,
		BookingWebhookURL: cfg.ResolvedBookingWebhookURL(),
		ModelProvider:     cfg.VapiModelProvider,
		Model:             cfg.VapiModel,
		VoiceID:           cfg.VapiVoiceID,
		VoiceProvider:     cfg.VapiVoiceProvider,
	}, logger)

	forwarder := booking.NewForwarder(booking.ForwarderConfig{
		SinkURL: cfg.SinkWebhookURL,
		Timeout: cfg.SinkTimeout,
		Logger:  logger,
	})
	if !forwarder.Configured() {
		logger.Warn("downstream sink not configured; bookings are logged only")
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		Registry:  registry,
		Metrics:   bookingMetrics,
		Platform:  platform,
		Catalog:   catalog,
		Store:     store,
		Publisher: publisher,
		Initiator: calls.NewInitiator(platform, logger),
		Booking:   booking.NewService(forwarder, bookingMetrics, logger),
		redis:     redisClient,
	}
}

// Handler composes the HTTP surface.
func (a *App) Handler() http.Handler {
	cfg := a.Config
	return router.New(&router.Config{
		Logger:         a.Logger,
		BookingWebhook: handlers.NewBookingWebhookHandler(a.Booking, a.Logger),
		Assistant: handlers.NewAssistantHandler(handlers.AssistantHandlerConfig{
			Publisher:   a.Publisher,
			Catalog:     a.Catalog,
			Store:       a.Store,
			AssistantID: cfg.VapiAssistantID,
			Logger:      a.Logger,
		}),
		Calls:              handlers.NewCallsHandler(a.Initiator, cfg.VapiAssistantID, cfg.VapiPhoneNumberID, a.Logger),
		Personas:           handlers.NewPersonasHandler(a.Catalog, a.Store, a.Logger),
		Auth:               handlers.NewAuthHandler(cfg.SessionSecret, cfg.SessionTTL, cfg.Env == "production", a.Logger),
		SessionSecret:      cfg.SessionSecret,
		WebhookRateLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		MetricsHandler:     promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
}

// Close releases the redis connection, if any.
func (a *App) Close() error {
	if a.redis == nil {
		return nil
	}
	return a.redis.Close()
}
