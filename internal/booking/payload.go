package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EnrichedPayload is the record plus derived calendar fields, as posted to
// the downstream sink.
type EnrichedPayload struct {
	EventID         string    `json:"event_id"`
	CustomerName    string    `json:"customer_name"`
	AppointmentTime string    `json:"appointment_time"`
	ShopName        string    `json:"shop_name"`
	Start           string    `json:"start"`
	End             string    `json:"end"`
	Summary         string    `json:"summary"`
	Description     string    `json:"description"`
	ReceivedAt      time.Time `json:"received_at"`
}

// Enrich derives the calendar fields and human-readable text for rec.
func Enrich(rec Record, receivedAt time.Time) EnrichedPayload {
	cal := Derive(rec)
	return EnrichedPayload{
		EventID:         uuid.NewString(),
		CustomerName:    rec.CustomerName,
		AppointmentTime: rec.AppointmentTime,
		ShopName:        rec.ShopName,
		Start:           cal.Start,
		End:             cal.End,
		Summary:         fmt.Sprintf("Appointment: %s at %s", rec.CustomerName, rec.ShopName),
		Description: fmt.Sprintf("Booked by voice assistant for %s at %s. Requested time: %s.",
			rec.CustomerName, rec.ShopName, rec.AppointmentTime),
		ReceivedAt: receivedAt.UTC(),
	}
}
