package queue

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLine(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	tourID := uint64(9)
	line := FormatLine(BookingEvent{Type: EventBookingCreated, BookingID: 3, TourID: &tourID, TourName: "Char Dham",
		CustomerName: "Asha", NumberOfPeople: 2, Amount: 90000, OccurredAt: at})
	assert.Equal(t, "[2026-03-04T05:06:07Z] Booking created | booking_id=3 | tour_id=9 | tour=\"Char Dham\" | customer=\"Asha\" | people=2 | amount=90000.00\n", line)

	line = FormatLine(BookingEvent{Type: EventBookingStatusChanged, BookingID: 3, PreviousStatus: "pending", Status: "confirmed", ChangedBy: "ops@example.com", OccurredAt: at})
	assert.Equal(t, "[2026-03-04T05:06:07Z] Booking status changed | booking_id=3 | pending -> confirmed | by=\"ops@example.com\"\n", line)
}

func TestHandleAppends(t *testing.T) {
	dir := t.TempDir()
	c := Consumer{Dir: filepath.Join(dir, "logs")}

	body, err := json.Marshal(BookingEvent{Type: EventBookingCreated, BookingID: 1})
	require.NoError(t, err)
	require.NoError(t, c.Handle(body))
	require.NoError(t, c.Handle(body))

	raw, err := os.ReadFile(filepath.Join(dir, "logs", "booking.log"))
	require.NoError(t, err)
	assert.Equal(t, 2, len(splitLines(string(raw))))

	assert.Error(t, c.Handle([]byte("{not json")))
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}

func TestNewPublisherWithoutURLIsNoop(t *testing.T) {
	p := NewPublisher("")
	_, ok := p.(NoopPublisher)
	assert.True(t, ok)
	assert.NoError(t, p.Publish(context.Background(), BookingEvent{}))
}
