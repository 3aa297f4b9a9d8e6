package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfman30/voice-booking-demo/internal/http/middleware"
	"github.com/wolfman30/voice-booking-demo/internal/vapi"
)

type fakePlatform struct {
	updates []vapi.AssistantConfig
	creates []vapi.AssistantConfig
	calls   []vapi.CallRequest
	remote  *vapi.Assistant
	err     error
}

func (f *fakePlatform) GetAssistant(_ context.Context, id string) (*vapi.Assistant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.remote, nil
}

func (f *fakePlatform) UpdateAssistant(_ context.Context, id string, cfg vapi.AssistantConfig) (*vapi.Assistant, error) {
	f.updates = append(f.updates, cfg)
	if f.err != nil {
		return nil, f.err
	}
	return &vapi.Assistant{ID: id, Name: cfg.Name}, nil
}

func (f *fakePlatform) CreateAssistant(_ context.Context, cfg vapi.AssistantConfig) (*vapi.Assistant, error) {
	f.creates = append(f.creates, cfg)
	if f.err != nil {
		return nil, f.err
	}
	return &vapi.Assistant{ID: "asst_new"}, nil
}

func (f *fakePlatform) CreateCall(_ context.Context, req vapi.CallRequest) (*vapi.Call, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &vapi.Call{ID: "call_1", Status: "queued"}, nil
}

// withSession returns a request carrying session claims for sessionID.
func withSession(t *testing.T, method, target, body, sessionID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	claims := middleware.SessionClaims{}
	claims.Subject = sessionID
	require.NotEmpty(t, sessionID)
	return req.WithContext(middleware.WithSession(req.Context(), claims))
}
