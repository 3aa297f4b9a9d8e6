package vapi

import (
	"encoding/json"
	"time"
)

// ParameterSchema describes one JSON-schema property of a function parameter.
type ParameterSchema struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// FunctionParameters is the JSON-schema object for a function's arguments.
type FunctionParameters struct {
	Type       string                     `json:"type"`
	Properties map[string]ParameterSchema `json:"properties"`
	Required   []string                   `json:"required,omitempty"`
}

// FunctionSpec is a legacy inline function definition on an assistant.
type FunctionSpec struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  FunctionParameters `json:"parameters"`
	ServerURL   string             `json:"serverUrl,omitempty"`
}

// Model selects the LLM behind an assistant.
type Model struct {
	Provider     string   `json:"provider"`
	Model        string   `json:"model"`
	SystemPrompt string   `json:"systemPrompt,omitempty"`
	ToolIDs      []string `json:"toolIds,omitempty"`
}

// Voice selects the TTS voice. It is only sent when creating an assistant.
type Voice struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

// AssistantConfig is the full-replacement document sent on create and update.
// Functions is always serialized so an empty list clears stale definitions.
type AssistantConfig struct {
	Name         string         `json:"name"`
	Model        Model          `json:"model"`
	Functions    []FunctionSpec `json:"functions"`
	FirstMessage string         `json:"firstMessage"`
	Voice        *Voice         `json:"voice,omitempty"`
}

// Assistant is the platform's assistant resource.
type Assistant struct {
	ID           string         `json:"id"`
	Name         string         `json:"name,omitempty"`
	Model        *Model         `json:"model,omitempty"`
	FirstMessage string         `json:"firstMessage,omitempty"`
	Functions    []FunctionSpec `json:"functions,omitempty"`
	CreatedAt    time.Time      `json:"createdAt,omitempty"`
	UpdatedAt    time.Time      `json:"updatedAt,omitempty"`
}

// ToolIDs returns the registered tool references, if any.
func (a *Assistant) ToolIDs() []string {
	if a == nil || a.Model == nil {
		return nil
	}
	return a.Model.ToolIDs
}

// Customer is the party an outbound call dials.
type Customer struct {
	Number string `json:"number"`
}

// CallRequest asks the platform to place an outbound call.
type CallRequest struct {
	AssistantID   string    `json:"assistantId"`
	Customer      *Customer `json:"customer,omitempty"`
	PhoneNumberID string    `json:"phoneNumberId,omitempty"`
}

// CallMessage is one transcript entry of a call.
type CallMessage struct {
	Role         string          `json:"role"`
	Message      string          `json:"message,omitempty"`
	ToolCalls    json.RawMessage `json:"toolCalls,omitempty"`
	FunctionCall json.RawMessage `json:"function_call,omitempty"`
}

// Call is the platform's call resource.
type Call struct {
	ID          string        `json:"id"`
	Status      string        `json:"status"`
	AssistantID string        `json:"assistantId,omitempty"`
	CreatedAt   time.Time     `json:"createdAt,omitempty"`
	Messages    []CallMessage `json:"messages,omitempty"`
}

// UsedTools reports whether any transcript entry records a tool or function call.
func (c Call) UsedTools() bool {
	for _, m := range c.Messages {
		if m.Role == "tool_calls" || len(m.ToolCalls) > 0 || len(m.FunctionCall) > 0 {
			return true
		}
	}
	return false
}
