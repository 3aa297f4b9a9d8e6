package vapi

import "context"

// Unavailable stands in for a Client when the platform is not configured.
// Every call fails with Err, so the configuration error surfaces at the
// point of use instead of at process start.
type Unavailable struct {
	Err error
}

func (u Unavailable) GetAssistant(context.Context, string) (*Assistant, error) {
	return nil, u.Err
}

func (u Unavailable) UpdateAssistant(context.Context, string, AssistantConfig) (*Assistant, error) {
	return nil, u.Err
}

func (u Unavailable) CreateAssistant(context.Context, AssistantConfig) (*Assistant, error) {
	return nil, u.Err
}

func (u Unavailable) CreateCall(context.Context, CallRequest) (*Call, error) {
	return nil, u.Err
}

func (u Unavailable) ClearFunctions(context.Context, string) error {
	return u.Err
}

func (u Unavailable) ListCalls(context.Context, string, int) ([]Call, error) {
	return nil, u.Err
}
