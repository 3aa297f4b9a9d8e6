package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/wolfman30/voice-booking-demo/internal/apperr"
)

const bookingWebhookPath = "/api/webhook/booking"

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	// Voice-AI platform
	VapiAPIKey        string
	VapiBaseURL       string
	VapiAssistantID   string
	VapiToolID        string
	VapiPhoneNumberID string
	VapiModelProvider string
	VapiModel         string
	VapiVoiceID       string
	VapiVoiceProvider string
	VapiTimeout       time.Duration

	// BookingWebhookURL overrides the serverUrl attached to the inline
	// confirm_booking function. Empty means derive it from PublicBaseURL.
	BookingWebhookURL string

	// Downstream scheduling automation
	SinkWebhookURL string
	SinkTimeout    time.Duration

	// Session gate
	SessionSecret string
	SessionTTL    time.Duration

	// Customization store
	CustomizationStore string
	CustomizationTTL   time.Duration
	RedisAddr          string
	RedisPassword      string
	RedisTLS           bool
	CustomizationTable string

	// AWS (DynamoDB customization store)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// Load reads configuration from environment variables, after merging a local
// .env file when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		VapiAPIKey:        getEnv("VAPI_API_KEY", ""),
		VapiBaseURL:       getEnv("VAPI_BASE_URL", "https://api.vapi.ai"),
		VapiAssistantID:   getEnv("VAPI_ASSISTANT_ID", ""),
		VapiToolID:        getEnv("VAPI_TOOL_ID", ""),
		VapiPhoneNumberID: getEnv("VAPI_PHONE_NUMBER_ID", ""),
		VapiModelProvider: getEnv("VAPI_MODEL_PROVIDER", "openai"),
		VapiModel:         getEnv("VAPI_MODEL", "gpt-3.5-turbo"),
		VapiVoiceID:       getEnv("VAPI_VOICE_ID", ""),
		VapiVoiceProvider: getEnv("VAPI_VOICE_PROVIDER", "11labs"),
		VapiTimeout:       getEnvAsDuration("VAPI_TIMEOUT", 15*time.Second),

		BookingWebhookURL: getEnv("BOOKING_WEBHOOK_URL", ""),

		SinkWebhookURL: getEnv("SINK_WEBHOOK_URL", getEnv("MAKE_COM_WEBHOOK_URL", "")),
		SinkTimeout:    getEnvAsDuration("SINK_TIMEOUT", 10*time.Second),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		CustomizationStore: strings.ToLower(strings.TrimSpace(getEnv("CUSTOMIZATION_STORE", "memory"))),
		CustomizationTTL:   getEnvAsDuration("CUSTOMIZATION_TTL", 12*time.Hour),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),
		CustomizationTable: getEnv("CUSTOMIZATION_TABLE", "voice-booking-customizations"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
	}
}

// ResolvedBookingWebhookURL returns the public booking endpoint handed to the
// voice-AI platform: the explicit override, or PublicBaseURL plus the
// booking webhook path. Empty when neither is set.
func (c *Config) ResolvedBookingWebhookURL() string {
	if c.BookingWebhookURL != "" {
		return c.BookingWebhookURL
	}
	if c.PublicBaseURL == "" {
		return ""
	}
	return c.PublicBaseURL + bookingWebhookPath
}

// RequireAPIKey returns the platform API key or a ConfigurationError.
func (c *Config) RequireAPIKey() (string, error) {
	if strings.TrimSpace(c.VapiAPIKey) == "" {
		return "", &apperr.ConfigurationError{Setting: "VAPI_API_KEY"}
	}
	return c.VapiAPIKey, nil
}

// RequireAssistantID returns the default assistant id or a ConfigurationError.
func (c *Config) RequireAssistantID() (string, error) {
	if strings.TrimSpace(c.VapiAssistantID) == "" {
		return "", &apperr.ConfigurationError{
			Setting: "VAPI_ASSISTANT_ID",
			Hint:    "Set it in .env or run assistant-setup setup to create one",
		}
	}
	return c.VapiAssistantID, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
