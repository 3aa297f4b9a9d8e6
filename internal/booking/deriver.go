package booking

import (
	"strings"
	"time"
)

// AppointmentDuration is the fixed length of a derived calendar slot.
const AppointmentDuration = time.Hour

// CalendarTimeFormat is the canonical UTC form of derived start/end values.
const CalendarTimeFormat = "2006-01-02T15:04:05.000Z"

// CalendarFields is the derived start/end pair.
type CalendarFields struct {
	Start string `json:"start"`
	End   string `json:"end"`
	// Parsed reports whether the appointment time was understood.
	Parsed bool `json:"-"`
}

// Derive computes start/end from the record's appointment time. When the
// time cannot be parsed both fields carry the raw string unchanged.
func Derive(rec Record) CalendarFields {
	t, ok := parseAppointmentTime(rec.AppointmentTime)
	if !ok {
		return CalendarFields{Start: rec.AppointmentTime, End: rec.AppointmentTime}
	}
	start := t.UTC()
	return CalendarFields{
		Start:  start.Format(CalendarTimeFormat),
		End:    start.Add(AppointmentDuration).Format(CalendarTimeFormat),
		Parsed: true,
	}
}

// appointmentLayouts are the ISO-8601 forms accepted, tried in order.
// Layouts without an offset are read as UTC.
var appointmentLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseAppointmentTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range appointmentLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
