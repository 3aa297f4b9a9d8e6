package assistant

import (
	"github.com/wolfman30/voice-booking-demo/internal/personas"
	"github.com/wolfman30/voice-booking-demo/internal/vapi"
)

// ToolBinding decides how the booking capability is attached to an
// assistant document. Inline functions and registered tool ids are mutually
// exclusive on the platform, so each variant writes both fields.
type ToolBinding interface {
	Kind() string
	apply(doc *vapi.AssistantConfig)
}

// InlineFunction attaches a legacy inline function definition.
type InlineFunction struct {
	Spec vapi.FunctionSpec
}

func (InlineFunction) Kind() string { return "inline" }

func (b InlineFunction) apply(doc *vapi.AssistantConfig) {
	doc.Model.ToolIDs = nil
	doc.Functions = []vapi.FunctionSpec{b.Spec}
}

// RegisteredTool references a tool registered on the platform beforehand.
type RegisteredTool struct {
	ID string
}

func (RegisteredTool) Kind() string { return "registered" }

func (b RegisteredTool) apply(doc *vapi.AssistantConfig) {
	doc.Model.ToolIDs = []string{b.ID}
	doc.Functions = []vapi.FunctionSpec{}
}

// NoTool attaches nothing and clears any stale inline functions.
type NoTool struct{}

func (NoTool) Kind() string { return "none" }

func (NoTool) apply(doc *vapi.AssistantConfig) {
	doc.Model.ToolIDs = nil
	doc.Functions = []vapi.FunctionSpec{}
}

// SelectBinding applies the deployment rule: a configured tool id always
// wins; otherwise the inline function is attached only when requested.
func SelectBinding(toolID string, includeLegacyFunction bool, serverURL string) ToolBinding {
	switch {
	case toolID != "":
		return RegisteredTool{ID: toolID}
	case includeLegacyFunction:
		return InlineFunction{Spec: ConfirmBookingFunction(serverURL)}
	default:
		return NoTool{}
	}
}

// ConfirmBookingFunction is the inline booking function definition. Its
// serverUrl points at this deployment's booking webhook.
func ConfirmBookingFunction(serverURL string) vapi.FunctionSpec {
	return vapi.FunctionSpec{
		Name:        personas.ConfirmBookingTool,
		Description: "Confirm and book an appointment for a customer. Use this when the customer wants to schedule an appointment.",
		Parameters: vapi.FunctionParameters{
			Type: "object",
			Properties: map[string]vapi.ParameterSchema{
				"customer_name": {
					Type:        "string",
					Description: "The customer's full name",
				},
				"appointment_time": {
					Type:        "string",
					Description: "The appointment date and time in ISO 8601 format (e.g., 2024-01-15T10:00:00-05:00 for Eastern Time)",
				},
				"shop_name": {
					Type:        "string",
					Description: "The name of the business/shop",
				},
			},
			Required: []string{"customer_name", "appointment_time", "shop_name"},
		},
		ServerURL: serverURL,
	}
}
