package personas

import (
	"fmt"
	"sort"
	"strings"
)

// Locale and tool names shared by the prompt and the assistant document.
const (
	ConfirmBookingTool = "confirm_booking"
	DefaultCity        = "Toronto"
	DefaultProvince    = "Ontario"
	DefaultAddress     = "downtown " + DefaultCity
)

// PromptBuilder specializes persona templates for one business.
type PromptBuilder struct {
	// legacyNames are literal business names that older stored templates
	// embed instead of CompanyPlaceholder, longest first.
	legacyNames []string
}

// NewPromptBuilder derives the legacy name list from the catalog.
func NewPromptBuilder(catalog *Catalog) *PromptBuilder {
	names := catalog.DisplayNames()
	sort.SliceStable(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	return &PromptBuilder{legacyNames: names}
}

// Effective fills customization gaps from persona defaults.
func Effective(p Persona, c *Customization) Customization {
	out := Customization{CompanyName: p.DisplayName, Service: p.Description}
	if c == nil {
		return out
	}
	if v := strings.TrimSpace(c.CompanyName); v != "" {
		out.CompanyName = v
	}
	if v := strings.TrimSpace(c.Service); v != "" {
		out.Service = v
	}
	out.Address = strings.TrimSpace(c.Address)
	out.PhoneNumber = strings.TrimSpace(c.PhoneNumber)
	return out
}

// BuildPrompt returns the persona's base template specialized for the
// customization, followed by the locale, tool-usage and service blocks.
// A nil customization means persona defaults throughout.
func (b *PromptBuilder) BuildPrompt(p Persona, c *Customization) string {
	return b.Base(p, c) + "\n\n" + instructionBlock(Effective(p, c))
}

// Base returns only the specialized base template, without the appended
// instruction block.
func (b *PromptBuilder) Base(p Persona, c *Customization) string {
	return b.templateOf(p).RenderBase(Effective(p, c).CompanyName)
}

// templateOf rewrites literal business names in a legacy template into
// CompanyPlaceholder so that substitution happens exactly once.
func (b *PromptBuilder) templateOf(p Persona) Persona {
	tmpl := p.SystemPrompt
	for _, name := range append([]string{p.DisplayName}, b.legacyNames...) {
		if name != "" {
			tmpl = strings.ReplaceAll(tmpl, name, CompanyPlaceholder)
		}
	}
	p.SystemPrompt = tmpl
	return p
}

func instructionBlock(eff Customization) string {
	location := eff.Address
	if location == "" {
		location = DefaultAddress
	}

	var sb strings.Builder
	sb.WriteString("IMPORTANT - Use Canadian English and Toronto-specific details:\n")
	sb.WriteString(`- Always use polite, friendly Canadian tone - say "please", "thanks so much", "sounds good", "no worries"` + "\n")
	fmt.Fprintf(&sb, "- Reference %s, %s when relevant (e.g., \"here in Toronto\", \"in the GTA\")\n", DefaultCity, DefaultProvince)
	sb.WriteString(`- Use Eastern Time (ET) for all time references - say "Eastern Time" or "ET" when mentioning times` + "\n")
	sb.WriteString(`- Use Canadian date format: day-month-year (e.g., "15 January 2024" not "January 15th, 2024")` + "\n")
	fmt.Fprintf(&sb, "- For addresses, use Canadian format: Street Name, %s, ON Postal Code (e.g., \"123 Queen Street West, Toronto, ON M5H 2M9\")\n", DefaultCity)
	fmt.Fprintf(&sb, "- Be extra polite and accommodating - this is how we do business in %s\n", DefaultCity)
	sb.WriteString(`- Use friendly phrases like "That works great!", "Perfect, thanks!", "No worries at all", "Absolutely!", "Sounds perfect!"` + "\n")
	sb.WriteString(`- When confirming times, say things like "That's perfect for us" or "We can absolutely do that"` + "\n")
	sb.WriteString(`- Use "eh" sparingly and naturally` + "\n")
	sb.WriteString(`- Say "sorry" when appropriate` + "\n")
	if eff.PhoneNumber != "" {
		fmt.Fprintf(&sb, "- Our phone number is %s if customers need to call back\n", eff.PhoneNumber)
	}
	if eff.Address != "" {
		fmt.Fprintf(&sb, "- We're located at %s in %s, %s\n", eff.Address, DefaultCity, DefaultProvince)
	}

	sb.WriteString("\nCRITICAL - TOOL USAGE:\n")
	fmt.Fprintf(&sb, "- You have access to a tool called '%s'.\n", ConfirmBookingTool)
	sb.WriteString("- Once you have the customer's name, appointment time, and shop name, you MUST call this tool.\n")
	fmt.Fprintf(&sb, "- DO NOT say \"I have booked the appointment\" until you have successfully called the '%s' tool.\n", ConfirmBookingTool)
	sb.WriteString("- Call the tool silently; do not tell the user \"I am calling the tool\". Just call it.\n")
	sb.WriteString("- After the tool runs, confirm the success to the user.\n")

	sb.WriteString("\nService Details:\n")
	fmt.Fprintf(&sb, "- Main service: %s\n", eff.Service)
	fmt.Fprintf(&sb, "- Company: %s\n", eff.CompanyName)
	fmt.Fprintf(&sb, "- Location: %s\n", location)
	return sb.String()
}
