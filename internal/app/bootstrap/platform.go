package bootstrap

import (
	"context"

	"github.com/wolfman30/voice-booking-demo/internal/assistant"
	"github.com/wolfman30/voice-booking-demo/internal/calls"
	appconfig "github.com/wolfman30/voice-booking-demo/internal/config"
	"github.com/wolfman30/voice-booking-demo/internal/vapi"
	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

// Platform is the full set of voice-AI platform operations used by the
// server and the operator CLI.
type Platform interface {
	assistant.Platform
	calls.CallCreator
	ClearFunctions(ctx context.Context, assistantID string) error
	ListCalls(ctx context.Context, assistantID string, limit int) ([]vapi.Call, error)
}

var (
	_ Platform = (*vapi.Client)(nil)
	_ Platform = vapi.Unavailable{}
)

// BuildPlatform returns the platform client, or a stand-in that fails every
// call with the ConfigurationError when VAPI_API_KEY is missing.
func BuildPlatform(cfg *appconfig.Config, observer vapi.RequestObserver, logger *logging.Logger) Platform {
	if logger == nil {
		logger = logging.Default()
	}
	client, err := vapi.New(vapi.Config{
		BaseURL:  cfg.VapiBaseURL,
		APIKey:   cfg.VapiAPIKey,
		Timeout:  cfg.VapiTimeout,
		Logger:   logger,
		Observer: observer,
	})
	if err != nil {
		logger.Warn("voice-ai platform disabled", "error", err)
		return vapi.Unavailable{Err: err}
	}
	return client
}
