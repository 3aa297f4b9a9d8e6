// Package assistant builds the voice-AI assistant document for a persona and
// publishes it to the platform.
package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/voice-booking-demo/internal/apperr"
	"github.com/wolfman30/voice-booking-demo/internal/personas"
	"github.com/wolfman30/voice-booking-demo/internal/vapi"
	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

var tracer = otel.Tracer("voicebooking.internal.assistant")

const (
	defaultModelProvider = "openai"
	defaultModel         = "gpt-3.5-turbo"
	defaultVoiceProvider = "11labs"
	greeting             = "Hello there!"
)

var companyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bfor ([^,\n]+),`),
	regexp.MustCompile(`(?i)\bfrom ([^,\n]+),`),
}

// Platform is the slice of the platform client the publisher needs.
type Platform interface {
	GetAssistant(ctx context.Context, assistantID string) (*vapi.Assistant, error)
	UpdateAssistant(ctx context.Context, assistantID string, cfg vapi.AssistantConfig) (*vapi.Assistant, error)
	CreateAssistant(ctx context.Context, cfg vapi.AssistantConfig) (*vapi.Assistant, error)
}

// Options carries the deployment settings that shape every document.
type Options struct {
	// ToolID is the optional pre-registered booking tool.
	ToolID string
	// BookingWebhookURL is the serverUrl of the inline booking function.
	BookingWebhookURL string
	ModelProvider     string
	Model             string
	// VoiceID, when set, selects the TTS voice of newly created assistants.
	VoiceID           string
	VoiceProvider     string
}

// Publisher turns personas into assistant documents and pushes them.
type Publisher struct {
	platform Platform
	catalog  *personas.Catalog
	prompts  *personas.PromptBuilder
	opts     Options
	logger   *logging.Logger
}

// NewPublisher creates a Publisher over the given catalog.
func NewPublisher(platform Platform, catalog *personas.Catalog, opts Options, logger *logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.Default()
	}
	if opts.ModelProvider == "" {
		opts.ModelProvider = defaultModelProvider
	}
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	if opts.VoiceProvider == "" {
		opts.VoiceProvider = defaultVoiceProvider
	}
	return &Publisher{
		platform: platform,
		catalog:  catalog,
		prompts:  personas.NewPromptBuilder(catalog),
		opts:     opts,
		logger:   logger,
	}
}

// Binding returns the tool binding the publisher would attach.
func (p *Publisher) Binding(includeLegacyFunction bool) ToolBinding {
	return SelectBinding(p.opts.ToolID, includeLegacyFunction, p.opts.BookingWebhookURL)
}

// BuildDocument derives the full assistant document for persona and an
// optional customization. It never touches the platform.
func (p *Publisher) BuildDocument(persona personas.Persona, c *personas.Customization, includeLegacyFunction bool) vapi.AssistantConfig {
	base := p.prompts.Base(persona, c)
	doc := vapi.AssistantConfig{
		Name: persona.AssistantName,
		Model: vapi.Model{
			Provider:     p.opts.ModelProvider,
			Model:        p.opts.Model,
			SystemPrompt: p.prompts.BuildPrompt(persona, c),
		},
		FirstMessage: FirstMessage(persona.AssistantName, CompanyFromPrompt(base, persona.DisplayName)),
	}
	p.Binding(includeLegacyFunction).apply(&doc)
	return doc
}

// PublishResult is the document sent and the platform's view afterwards.
type PublishResult struct {
	Document  vapi.AssistantConfig
	Binding   string
	Assistant *vapi.Assistant
}

// Publish overwrites the remote assistant with the persona's document. It is
// a full replacement on every call and is never retried.
func (p *Publisher) Publish(ctx context.Context, assistantID string, persona personas.Persona, c *personas.Customization, includeLegacyFunction bool) (*PublishResult, error) {
	ctx, span := tracer.Start(ctx, "assistant.publish")
	defer span.End()

	if strings.TrimSpace(assistantID) == "" {
		return nil, &apperr.ConfigurationError{Setting: "VAPI_ASSISTANT_ID"}
	}
	binding := p.Binding(includeLegacyFunction)
	doc := p.BuildDocument(persona, c, includeLegacyFunction)
	span.SetAttributes(
		attribute.String("voicebooking.assistant_id", assistantID),
		attribute.String("voicebooking.persona_id", persona.ID),
		attribute.String("voicebooking.tool_binding", binding.Kind()),
	)
	p.warnMissingServerURL(binding)

	remote, err := p.platform.UpdateAssistant(ctx, assistantID, doc)
	if err != nil {
		span.RecordError(err)
		p.logger.Error("assistant: publish failed",
			"assistant_id", assistantID,
			"persona_id", persona.ID,
			"error", err,
		)
		return nil, fmt.Errorf("assistant: publish: %w", err)
	}
	p.logger.Info("assistant: published",
		"assistant_id", assistantID,
		"persona_id", persona.ID,
		"tool_binding", binding.Kind(),
	)
	return &PublishResult{Document: doc, Binding: binding.Kind(), Assistant: remote}, nil
}

// SetupResult reports what Setup did.
type SetupResult struct {
	AssistantID string `json:"assistantId"`
	Created     bool   `json:"created"`
	Message     string `json:"message"`
}

// Setup configures the default persona on assistantID, or creates a new
// assistant when assistantID is empty.
func (p *Publisher) Setup(ctx context.Context, assistantID string) (*SetupResult, error) {
	persona := p.catalog.Default()
	defaults := personas.Effective(persona, nil)

	if strings.TrimSpace(assistantID) != "" {
		if _, err := p.Publish(ctx, assistantID, persona, &defaults, true); err != nil {
			return nil, err
		}
		return &SetupResult{
			AssistantID: assistantID,
			Message:     fmt.Sprintf("Assistant %s configured successfully with %s (%s binding)", assistantID, personas.ConfirmBookingTool, p.Binding(true).Kind()),
		}, nil
	}

	ctx, span := tracer.Start(ctx, "assistant.create")
	defer span.End()
	doc := p.BuildDocument(persona, &defaults, true)
	if p.opts.VoiceID != "" {
		doc.Voice = &vapi.Voice{Provider: p.opts.VoiceProvider, VoiceID: p.opts.VoiceID}
	}
	p.warnMissingServerURL(p.Binding(true))
	created, err := p.platform.CreateAssistant(ctx, doc)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("assistant: setup: %w", err)
	}
	p.logger.Info("assistant: created", "assistant_id", created.ID, "persona_id", persona.ID)
	return &SetupResult{
		AssistantID: created.ID,
		Created:     true,
		Message:     fmt.Sprintf("New assistant created with ID: %s. Set VAPI_ASSISTANT_ID=%s in your .env", created.ID, created.ID),
	}, nil
}

// Status summarizes how a remote assistant is wired for booking.
type Status struct {
	Assistant      *vapi.Assistant `json:"assistant"`
	ToolIDs        []string        `json:"toolIds"`
	FunctionNames  []string        `json:"functionNames"`
	BookingEnabled bool            `json:"bookingEnabled"`
	Conflict       bool            `json:"conflict"`
}

// Check fetches the remote assistant and reports its booking wiring.
func (p *Publisher) Check(ctx context.Context, assistantID string) (*Status, error) {
	if strings.TrimSpace(assistantID) == "" {
		return nil, &apperr.ConfigurationError{Setting: "VAPI_ASSISTANT_ID"}
	}
	remote, err := p.platform.GetAssistant(ctx, assistantID)
	if err != nil {
		return nil, fmt.Errorf("assistant: check: %w", err)
	}
	st := &Status{Assistant: remote, ToolIDs: remote.ToolIDs()}
	for _, fn := range remote.Functions {
		st.FunctionNames = append(st.FunctionNames, fn.Name)
		if fn.Name == personas.ConfirmBookingTool {
			st.BookingEnabled = true
		}
	}
	if len(st.ToolIDs) > 0 {
		st.BookingEnabled = true
	}
	st.Conflict = len(st.ToolIDs) > 0 && len(st.FunctionNames) > 0
	return st, nil
}

func (p *Publisher) warnMissingServerURL(b ToolBinding) {
	if fn, ok := b.(InlineFunction); ok && fn.Spec.ServerURL == "" {
		p.logger.Warn("assistant: inline booking function has no serverUrl; set PUBLIC_BASE_URL or BOOKING_WEBHOOK_URL")
	}
}

// CompanyFromPrompt extracts the business name from a "for X," or
// "from X," phrase, falling back to fallback.
func CompanyFromPrompt(prompt, fallback string) string {
	for _, re := range companyPatterns {
		if m := re.FindStringSubmatch(prompt); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				return name
			}
		}
	}
	return fallback
}

// FirstMessage renders the assistant's opening line.
func FirstMessage(assistantName, companyName string) string {
	return fmt.Sprintf("%s This is %s from %s. How can I help you today?", greeting, assistantName, companyName)
}
