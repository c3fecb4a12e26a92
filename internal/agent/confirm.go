package agent

import (
	"fmt"

	"github.com/tailortalk/tailortalk/internal/timeutil"
)

// Compose turns the final pipeline state into the user-facing reply. It is a
// pure function and total: every reachable combination of state fields maps to
// a non-empty message, including runs where no booking was ever attempted.
func Compose(state State) string {
	switch {
	case state.Booking.Status == BookingBooked:
		when := "the requested time"
		if state.RequestedTime != nil {
			when = timeutil.FormatLong(*state.RequestedTime)
		}
		msg := fmt.Sprintf("✅ Your call is scheduled on %s for %d minutes.", when, state.DurationMinutes)
		if state.Booking.MeetLink != "" {
			msg += fmt.Sprintf("\nMeet link: %s", state.Booking.MeetLink)
		}
		return msg

	case state.Booking.Status == BookingFailed:
		msg := fmt.Sprintf("❌ Booking failed: %s", state.Booking.Reason)
		if state.SuggestedTime != nil {
			msg += fmt.Sprintf("\n💡 Suggested: %s", timeutil.FormatShort(*state.SuggestedTime))
		}
		return msg

	case state.Availability.Status == AvailabilityUnavailable:
		msg := "❌ That time is not available."
		if state.SuggestedTime != nil {
			msg += fmt.Sprintf("\n💡 Suggested: %s", timeutil.FormatShort(*state.SuggestedTime))
		}
		return msg

	case state.Availability.Status == AvailabilityError:
		return fmt.Sprintf("❌ %s", state.Availability.Err)

	default:
		return "Please tell me a date and time for your call, e.g. \"tomorrow afternoon\" or \"2025-07-01 15:00\"."
	}
}
