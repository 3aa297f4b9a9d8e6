package config

import (
	"testing"
	"time"

	"github.com/wolfman30/voice-booking-demo/internal/apperr"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "PUBLIC_BASE_URL", "VAPI_API_KEY", "VAPI_BASE_URL",
		"VAPI_ASSISTANT_ID", "VAPI_TOOL_ID", "VAPI_PHONE_NUMBER_ID", "VAPI_MODEL",
		"VAPI_TIMEOUT", "BOOKING_WEBHOOK_URL", "SINK_WEBHOOK_URL", "MAKE_COM_WEBHOOK_URL",
		"SESSION_SECRET", "CUSTOMIZATION_STORE", "CORS_ALLOWED_ORIGINS", "RATE_LIMIT_RPS",
		"RATE_LIMIT_BURST", "CUSTOMIZATION_TABLE", "AWS_REGION", "AWS_ENDPOINT_OVERRIDE",
		"VAPI_VOICE_ID", "VAPI_VOICE_PROVIDER",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.VapiBaseURL != "https://api.vapi.ai" {
		t.Fatalf("expected default platform url, got %s", cfg.VapiBaseURL)
	}
	if cfg.VapiModelProvider != "openai" || cfg.VapiModel != "gpt-3.5-turbo" {
		t.Fatalf("unexpected model defaults %s/%s", cfg.VapiModelProvider, cfg.VapiModel)
	}
	if cfg.VapiTimeout != 15*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.VapiTimeout)
	}
	if cfg.VapiVoiceID != "" || cfg.VapiVoiceProvider != "11labs" {
		t.Fatalf("unexpected voice defaults %q/%q", cfg.VapiVoiceID, cfg.VapiVoiceProvider)
	}
	if cfg.CustomizationStore != "memory" {
		t.Fatalf("expected memory customization store, got %s", cfg.CustomizationStore)
	}
	if cfg.SinkWebhookURL != "" {
		t.Fatalf("expected empty sink url, got %s", cfg.SinkWebhookURL)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no cors origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRPS != 10 || cfg.RateLimitBurst != 20 {
		t.Fatalf("unexpected rate limit defaults %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.CustomizationTable != "voice-booking-customizations" || cfg.AWSRegion != "us-east-1" {
		t.Fatalf("unexpected dynamodb defaults %s/%s", cfg.CustomizationTable, cfg.AWSRegion)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("PUBLIC_BASE_URL", "https://demo.example.com/")
	t.Setenv("VAPI_TOOL_ID", "tool_123")
	t.Setenv("VAPI_TIMEOUT", "3s")
	t.Setenv("MAKE_COM_WEBHOOK_URL", "https://hook.make.com/abc")
	t.Setenv("CUSTOMIZATION_STORE", " Redis ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.PublicBaseURL != "https://demo.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.PublicBaseURL)
	}
	if cfg.VapiToolID != "tool_123" {
		t.Fatalf("expected tool id override, got %s", cfg.VapiToolID)
	}
	if cfg.VapiTimeout != 3*time.Second {
		t.Fatalf("expected timeout override, got %s", cfg.VapiTimeout)
	}
	if cfg.SinkWebhookURL != "https://hook.make.com/abc" {
		t.Fatalf("expected legacy sink variable to be honored, got %s", cfg.SinkWebhookURL)
	}
	if cfg.CustomizationStore != "redis" {
		t.Fatalf("expected normalized store name, got %s", cfg.CustomizationStore)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected two cors origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rate override, got %v", cfg.RateLimitRPS)
	}
}

func TestSinkWebhookURLPrefersNewVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv("SINK_WEBHOOK_URL", "https://sink.example.com")
	t.Setenv("MAKE_COM_WEBHOOK_URL", "https://hook.make.com/abc")
	if got := Load().SinkWebhookURL; got != "https://sink.example.com" {
		t.Fatalf("expected SINK_WEBHOOK_URL to win, got %s", got)
	}
}

func TestResolvedBookingWebhookURL(t *testing.T) {
	cfg := &Config{PublicBaseURL: "https://demo.example.com"}
	if got := cfg.ResolvedBookingWebhookURL(); got != "https://demo.example.com/api/webhook/booking" {
		t.Fatalf("unexpected derived url %s", got)
	}
	cfg.BookingWebhookURL = "https://override.example.com/hook"
	if got := cfg.ResolvedBookingWebhookURL(); got != "https://override.example.com/hook" {
		t.Fatalf("expected override, got %s", got)
	}
	if got := (&Config{}).ResolvedBookingWebhookURL(); got != "" {
		t.Fatalf("expected empty url, got %s", got)
	}
}

func TestRequireSettings(t *testing.T) {
	cfg := &Config{}
	if _, err := cfg.RequireAPIKey(); !apperr.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := cfg.RequireAssistantID(); !apperr.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	cfg.VapiAPIKey = "key"
	cfg.VapiAssistantID = "asst_1"
	if key, err := cfg.RequireAPIKey(); err != nil || key != "key" {
		t.Fatalf("unexpected api key result %q %v", key, err)
	}
	if id, err := cfg.RequireAssistantID(); err != nil || id != "asst_1" {
		t.Fatalf("unexpected assistant id result %q %v", id, err)
	}
}
