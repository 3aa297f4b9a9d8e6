package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wolfman30/voice-booking-demo/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/voice-booking-demo/internal/http/middleware"
	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	BookingWebhook     *handlers.BookingWebhookHandler
	Assistant          *handlers.AssistantHandler
	Calls              *handlers.CallsHandler
	Personas           *handlers.PersonasHandler
	Auth               *handlers.AuthHandler
	SessionSecret      string
	WebhookRateLimiter *httpmiddleware.RateLimiter
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (webhooks, health checks, login)
	r.Group(func(public chi.Router) {
		public.Get("/health", handlers.Health)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.BookingWebhook != nil {
			public.Group(func(webhook chi.Router) {
				if cfg.WebhookRateLimiter != nil {
					webhook.Use(httpmiddleware.RateLimit(cfg.WebhookRateLimiter))
				}
				webhook.Post("/api/webhook/booking", cfg.BookingWebhook.Handle)
				// Legacy automation-platform path.
				webhook.Post("/api/webhook/make", cfg.BookingWebhook.Handle)
			})
		}
		if cfg.Auth != nil {
			public.Post("/api/auth/login", cfg.Auth.Login)
		}
		if cfg.Personas != nil {
			public.Get("/api/personas", cfg.Personas.List)
		}
	})

	// Session routes. An empty secret rejects every request with 401.
	r.Group(func(session chi.Router) {
		session.Use(httpmiddleware.SessionJWT(cfg.SessionSecret))
		if cfg.Personas != nil {
			const customization = "/api/personas/{personaID}/customization"
			session.Get(customization, cfg.Personas.GetCustomization)
			session.Put(customization, cfg.Personas.PutCustomization)
			session.Delete(customization, cfg.Personas.DeleteCustomization)
		}
		if cfg.Assistant != nil {
			session.Patch("/api/vapi/update-assistant", cfg.Assistant.UpdateAssistant)
			session.Post("/api/vapi/setup-assistant", cfg.Assistant.SetupAssistant)
			session.Get("/api/vapi/assistant", cfg.Assistant.GetAssistant)
		}
		if cfg.Calls != nil {
			session.Post("/api/vapi/create-call", cfg.Calls.CreateCall)
		}
	})

	return r
}
