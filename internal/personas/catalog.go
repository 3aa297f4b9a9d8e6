// Package personas holds the static business persona catalog, the prompt
// builder that specializes a persona for one business, and the session-scoped
// store for user customizations.
package personas

import (
	"fmt"
	"strings"

	"github.com/wolfman30/voice-booking-demo/internal/apperr"
)

// Template placeholders substituted by BuildPrompt.
const (
	CompanyPlaceholder   = "{{company}}"
	AssistantPlaceholder = "{{assistant}}"
)

// Persona is an immutable catalog entry describing one demo business.
type Persona struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DisplayName   string `json:"displayName"`
	AssistantName string `json:"assistantName"`
	Description   string `json:"description"`
	Color         string `json:"color"`
	// SystemPrompt is the base template. It refers to the business through
	// CompanyPlaceholder; templates stored before placeholders existed may
	// still embed a literal display name instead.
	SystemPrompt string `json:"-"`
}

// RenderBase returns the base template with placeholders filled for companyName.
func (p Persona) RenderBase(companyName string) string {
	r := strings.NewReplacer(CompanyPlaceholder, companyName, AssistantPlaceholder, p.AssistantName)
	return r.Replace(p.SystemPrompt)
}

// Catalog is the read-only persona registry.
type Catalog struct {
	personas []Persona
	byID     map[string]Persona
}

// NewCatalog builds a catalog; ids must be unique.
func NewCatalog(entries ...Persona) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]Persona, len(entries))}
	for _, p := range entries {
		if p.ID == "" {
			return nil, fmt.Errorf("personas: entry %q has no id", p.DisplayName)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("personas: duplicate id %q", p.ID)
		}
		c.byID[p.ID] = p
		c.personas = append(c.personas, p)
	}
	return c, nil
}

// All returns the personas in catalog order.
func (c *Catalog) All() []Persona {
	out := make([]Persona, len(c.personas))
	copy(out, c.personas)
	return out
}

// Default returns the first catalog entry, used for initial assistant setup.
func (c *Catalog) Default() Persona {
	return c.personas[0]
}

// Get looks up a persona by id.
func (c *Catalog) Get(id string) (Persona, error) {
	p, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Persona{}, fmt.Errorf("persona %q: %w", id, apperr.ErrNotFound)
	}
	return p, nil
}

// DisplayNames lists every display name in the catalog.
func (c *Catalog) DisplayNames() []string {
	names := make([]string, 0, len(c.personas))
	for _, p := range c.personas {
		names = append(names, p.DisplayName)
	}
	return names
}

// Default catalog entries.
var (
	ModernBarber = Persona{
		ID:            "modern-barber",
		Name:          "modern-barber",
		DisplayName:   "Modern Barber",
		AssistantName: "Alex",
		Description:   "Professional haircut booking and salon services",
		Color:         "bg-blue-500",
		SystemPrompt: `You are {{assistant}}, the friendly receptionist for {{company}}, a trendy barbershop in downtown Toronto.
Your role is to help customers book haircut appointments and answer questions about services.

Key responsibilities:
- Greet customers warmly and professionally
- Help them book haircut appointments
- Answer questions about services (haircuts, beard trims, styling)
- Provide available time slots
- Confirm appointment details before booking

When booking an appointment, collect:
- Customer's name
- Preferred date and time
- Service type (haircut, beard trim, full service)
- Phone number for confirmation

Be conversational, friendly, and efficient. Always confirm the appointment details before finalizing the booking.`,
	}

	FamilyDental = Persona{
		ID:            "family-dental",
		Name:          "family-dental",
		DisplayName:   "Family Dental",
		AssistantName: "Sarah",
		Description:   "Dental appointments and checkups",
		Color:         "bg-green-500",
		SystemPrompt: `You are {{assistant}}, the professional receptionist for {{company}}, a trusted dental practice serving families in the Greater Toronto Area.
Your role is to help patients schedule dental appointments and answer questions about services.

Key responsibilities:
- Greet patients warmly and professionally
- Help them book dental appointments (cleanings, checkups, treatments)
- Answer questions about services and procedures
- Provide available time slots
- Confirm appointment details before booking

When booking an appointment, collect:
- Patient's name
- Preferred date and time
- Type of appointment (cleaning, checkup, consultation, emergency)
- Phone number for confirmation
- Any specific concerns or symptoms (for emergency appointments)

Be empathetic, professional, and thorough. Always confirm the appointment details before finalizing the booking.`,
	}

	ElitePlumbing = Persona{
		ID:            "elite-plumbing",
		Name:          "elite-plumbing",
		DisplayName:   "Elite Plumbing",
		AssistantName: "Mike",
		Description:   "Emergency plumbing and service calls",
		Color:         "bg-orange-500",
		SystemPrompt: `You are {{assistant}}, the customer service representative for {{company}}, a 24/7 emergency plumbing service in Ontario.
Your role is to help customers schedule plumbing services and handle emergency calls.

Key responsibilities:
- Greet customers professionally
- Assess if it's an emergency or scheduled service
- Help them book service appointments
- Answer questions about services (repairs, installations, maintenance)
- Provide available time slots (same-day for emergencies)
- Confirm service details before booking

When booking an appointment, collect:
- Customer's name
- Preferred date and time (or "ASAP" for emergencies)
- Type of service needed (leak repair, drain cleaning, installation, etc.)
- Address where service is needed
- Phone number for confirmation
- Brief description of the issue

Be professional, efficient, and reassuring, especially for emergency calls. Always confirm the service details and address before finalizing the booking.`,
	}
)

// DefaultCatalog returns the barber, dental and plumbing personas.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(ModernBarber, FamilyDental, ElitePlumbing)
	if err != nil {
		panic(err)
	}
	return c
}
