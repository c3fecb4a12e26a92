package agent

import (
	"context"
	"fmt"
	"time"
)

const (
	searchStep        = 30 * time.Minute
	defaultSearchDays = 14
)

// Checker queries the calendar for conflicts and, on a conflict, searches
// forward for the next free window.
type Checker struct {
	cal          Calendar
	maxLookahead time.Duration
}

// NewChecker creates an availability checker. searchDays bounds the forward
// search; values <= 0 fall back to the default cap.
func NewChecker(cal Calendar, searchDays int) *Checker {
	if searchDays <= 0 {
		searchDays = defaultSearchDays
	}
	return &Checker{
		cal:          cal,
		maxLookahead: time.Duration(searchDays) * 24 * time.Hour,
	}
}

// Check resolves the availability of the requested window. It makes no
// calendar call unless the intent is book_slot with a concrete time; in that
// case the composer will ask the user for one. Calendar failures become an
// error-tagged result, never a panic or returned error.
func (c *Checker) Check(ctx context.Context, state State) State {
	next := state.Clone()

	if state.Intent != IntentBookSlot || state.RequestedTime == nil {
		return next
	}

	start := *state.RequestedTime
	events, err := c.cal.ListEvents(ctx, start, start.Add(state.Duration()))
	if err != nil {
		next.Availability = Availability{
			Status: AvailabilityError,
			Err:    fmt.Sprintf("Error checking availability: %v", err),
		}
		return next
	}

	if len(events) == 0 {
		next.Availability = Availability{Status: AvailabilityAvailable}
		return next
	}

	next.Availability = Availability{Status: AvailabilityUnavailable}
	suggested, err := c.NextFree(ctx, start, state.Duration())
	if err != nil {
		next.Availability = Availability{
			Status: AvailabilityError,
			Err:    fmt.Sprintf("Error finding an alternative slot: %v", err),
		}
		return next
	}
	next.SuggestedTime = &suggested

	return next
}

// NextFree returns the earliest 30-minute increment after from whose window of
// the given duration has no overlapping events. The search is capped at the
// configured lookahead; exhausting the cap is an error, never an unbounded
// loop.
func (c *Checker) NextFree(ctx context.Context, from time.Time, duration time.Duration) (time.Time, error) {
	steps := int(c.maxLookahead / searchStep)
	for i := 1; i <= steps; i++ {
		candidate := from.Add(time.Duration(i) * searchStep)
		events, err := c.cal.ListEvents(ctx, candidate, candidate.Add(duration))
		if err != nil {
			return time.Time{}, fmt.Errorf("probing %s: %w", candidate.Format(time.RFC3339), err)
		}
		if len(events) == 0 {
			return candidate, nil
		}
	}
	return time.Time{}, fmt.Errorf("no free slot within %d days of the requested time", int(c.maxLookahead.Hours()/24))
}
