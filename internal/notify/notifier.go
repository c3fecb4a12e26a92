package notify

import (
	"context"
	"time"
)

// BookingConfirmation carries everything the email needs about a booked slot.
type BookingConfirmation struct {
	StartTime       time.Time
	DurationMinutes int
	MeetLink        string
}

// Notifier sends a booking confirmation through one channel. Sends are
// best-effort: a failed notification never affects the chat reply.
type Notifier interface {
	Send(ctx context.Context, confirmation BookingConfirmation) error
	IsConfigured() bool
	Name() string
}
