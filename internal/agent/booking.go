package agent

import (
	"context"
	"fmt"
	"time"
)

const eventSummary = "TailorTalk Call"

// Suggester finds the next free window after a given time. Satisfied by
// *Checker; split out so the booker can be tested with a fake.
type Suggester interface {
	NextFree(ctx context.Context, from time.Time, duration time.Duration) (time.Time, error)
}

// Booker creates the calendar event for a confirmed free window.
type Booker struct {
	cal       Calendar
	suggester Suggester
}

// NewBooker creates a booking executor. suggester may be nil, in which case a
// lost race simply reports the conflict without proposing an alternative.
func NewBooker(cal Calendar, suggester Suggester) *Booker {
	return &Booker{cal: cal, suggester: suggester}
}

// Book submits the create request for the requested window. It re-validates
// the window immediately before the insert: two users can race for the same
// slot, and the calendar backend will happily double-book. A conflict found
// here downgrades the state to unavailable instead of booking. Any failure is
// captured in the returned state; Book never lets an error escape.
func (b *Booker) Book(ctx context.Context, state State) State {
	next := state.Clone()

	if state.Availability.Status != AvailabilityAvailable || state.RequestedTime == nil {
		next.Booking = Booking{Status: BookingFailed, Reason: "no confirmed slot to book"}
		return next
	}

	start := *state.RequestedTime
	end := start.Add(state.Duration())

	// Re-check just before the write to shrink the double-booking window. A
	// failed re-check falls through to the insert, since availability was
	// already confirmed once.
	events, err := b.cal.ListEvents(ctx, start, end)
	if err != nil {
		fmt.Printf("Warning: pre-booking availability re-check failed: %v\n", err)
	}
	if err == nil && len(events) > 0 {
		next.Availability = Availability{Status: AvailabilityUnavailable}
		if b.suggester != nil {
			if suggested, serr := b.suggester.NextFree(ctx, start, state.Duration()); serr == nil {
				next.SuggestedTime = &suggested
			}
		}
		return next
	}

	created, err := b.cal.CreateEvent(ctx, EventInput{
		Summary:     eventSummary,
		Description: fmt.Sprintf("Scheduled TailorTalk call for %d minutes.", state.DurationMinutes),
		Start:       start,
		End:         end,
	})
	if err != nil {
		next.Booking = Booking{Status: BookingFailed, Reason: err.Error()}
		return next
	}

	next.Booking = Booking{Status: BookingBooked, MeetLink: created.MeetLink}
	return next
}
