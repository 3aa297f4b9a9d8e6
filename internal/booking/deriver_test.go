package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	cases := []struct {
		name      string
		raw       string
		wantStart string
		wantEnd   string
		parsed    bool
	}{
		{"offset normalized to utc", "2024-01-15T10:00:00-05:00", "2024-01-15T15:00:00.000Z", "2024-01-15T16:00:00.000Z", true},
		{"already utc", "2024-01-15T15:00:00Z", "2024-01-15T15:00:00.000Z", "2024-01-15T16:00:00.000Z", true},
		{"fractional seconds", "2024-01-15T15:00:00.123Z", "2024-01-15T15:00:00.123Z", "2024-01-15T16:00:00.123Z", true},
		{"crosses midnight", "2024-12-31T23:30:00Z", "2024-12-31T23:30:00.000Z", "2025-01-01T00:30:00.000Z", true},
		{"local time without offset read as utc", "2024-01-15T10:00:00", "2024-01-15T10:00:00.000Z", "2024-01-15T11:00:00.000Z", true},
		{"minutes precision", "2024-01-15T10:00", "2024-01-15T10:00:00.000Z", "2024-01-15T11:00:00.000Z", true},
		{"date only", "2024-01-15", "2024-01-15T00:00:00.000Z", "2024-01-15T01:00:00.000Z", true},
		{"basic format offset", "2024-01-15T10:00:00-0500", "2024-01-15T15:00:00.000Z", "2024-01-15T16:00:00.000Z", true},
		{"space separated with offset", "2024-01-15 10:00:00-05:00", "2024-01-15T15:00:00.000Z", "2024-01-15T16:00:00.000Z", true},
		{"unparsable passes through", "bad-date", "bad-date", "bad-date", false},
		{"natural language passes through", "tomorrow at 4pm", "tomorrow at 4pm", "tomorrow at 4pm", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Derive(Record{AppointmentTime: tc.raw})
			assert.Equal(t, tc.wantStart, got.Start)
			assert.Equal(t, tc.wantEnd, got.End)
			assert.Equal(t, tc.parsed, got.Parsed)
		})
	}
}

func TestDeriveIsStableOnItsOwnOutput(t *testing.T) {
	first := Derive(Record{AppointmentTime: "2024-01-15T10:00:00-05:00"})
	second := Derive(Record{AppointmentTime: first.Start})
	assert.Equal(t, first.Start, second.Start)
	assert.Equal(t, first.End, second.End)
}

func TestEnrich(t *testing.T) {
	received := time.Date(2024, 1, 10, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))
	p := Enrich(janeDoe, received)

	assert.NotEmpty(t, p.EventID)
	assert.Equal(t, janeDoe.CustomerName, p.CustomerName)
	assert.Equal(t, janeDoe.AppointmentTime, p.AppointmentTime)
	assert.Equal(t, janeDoe.ShopName, p.ShopName)
	assert.Equal(t, "2024-01-15T15:00:00.000Z", p.Start)
	assert.Equal(t, "2024-01-15T16:00:00.000Z", p.End)
	assert.Contains(t, p.Summary, "Jane Doe")
	assert.Contains(t, p.Summary, "Modern Barber")
	assert.Contains(t, p.Description, janeDoe.AppointmentTime)
	assert.Equal(t, time.UTC, p.ReceivedAt.Location())

	assert.NotEqual(t, p.EventID, Enrich(janeDoe, received).EventID)
}
