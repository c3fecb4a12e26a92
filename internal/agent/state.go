package agent

import (
	"context"
	"time"
)

// Intent is the classified user goal for a message.
type Intent string

const (
	IntentBookSlot       Intent = "book_slot"
	IntentSuggestSlots   Intent = "suggest_slots"
	IntentRescheduleSlot Intent = "reschedule_slot"
	IntentCancelSlot     Intent = "cancel_slot"
)

// ParseIntent maps a model-provided intent string onto the known set,
// falling back to suggest_slots for anything unrecognized.
func ParseIntent(s string) Intent {
	switch Intent(s) {
	case IntentBookSlot, IntentSuggestSlots, IntentRescheduleSlot, IntentCancelSlot:
		return Intent(s)
	default:
		return IntentSuggestSlots
	}
}

// AvailabilityStatus tags the outcome of the availability check.
type AvailabilityStatus string

const (
	AvailabilityUnknown     AvailabilityStatus = ""
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
	AvailabilityError       AvailabilityStatus = "error"
)

// Availability is the tagged result of the availability check.
type Availability struct {
	Status AvailabilityStatus
	Err    string // set only when Status == AvailabilityError
}

// BookingStatus tags the outcome of the booking attempt.
type BookingStatus string

const (
	BookingNone   BookingStatus = ""
	BookingBooked BookingStatus = "booked"
	BookingFailed BookingStatus = "failed"
)

// Booking is the tagged result of the booking attempt.
type Booking struct {
	Status   BookingStatus
	MeetLink string // set only when Status == BookingBooked; may be empty
	Reason   string // set only when Status == BookingFailed
}

// State is the single record threaded through the pipeline. Stages receive a
// State and return a modified clone; a stage never mutates the copy its caller
// still holds.
type State struct {
	Messages        []string
	Intent          Intent
	RequestedTime   *time.Time
	DurationMinutes int
	Availability    Availability
	SuggestedTime   *time.Time
	Booking         Booking
}

// NewState creates the initial state for one inbound message.
func NewState(message string) State {
	return State{
		Messages:        []string{message},
		Intent:          IntentSuggestSlots,
		DurationMinutes: 30,
	}
}

// Clone returns a copy with its own Messages slice so appends in one stage
// never alias another stage's transcript.
func (s State) Clone() State {
	next := s
	next.Messages = append([]string(nil), s.Messages...)
	return next
}

// Duration returns the slot length as a time.Duration.
func (s State) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// Reply returns the last transcript entry, which after a completed run is the
// assistant's reply.
func (s State) Reply() string {
	if len(s.Messages) == 0 {
		return ""
	}
	return s.Messages[len(s.Messages)-1]
}

// CompletionClient is the language-model collaborator. Its output is treated
// as best-effort structured data and is always validated.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
	IsConfigured() bool
}

// CalendarEvent is one event returned from a list-events query.
type CalendarEvent struct {
	ID      string
	Summary string
	Start   time.Time
	End     time.Time
}

// EventInput is the payload for creating a calendar event.
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// CreatedEvent is the calendar's response to a create request.
type CreatedEvent struct {
	ID       string
	MeetLink string // empty when the calendar provisioned no conference link
}

// Calendar is the calendar collaborator, already scoped to one calendar ID.
type Calendar interface {
	ListEvents(ctx context.Context, start, end time.Time) ([]CalendarEvent, error)
	CreateEvent(ctx context.Context, input EventInput) (*CreatedEvent, error)
}
