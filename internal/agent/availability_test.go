package agent_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailortalk/tailortalk/internal/agent"
	"github.com/tailortalk/tailortalk/internal/testutil"
)

func bookingState(t *testing.T, start time.Time, durationMinutes int) agent.State {
	t.Helper()
	state := agent.NewState("book it")
	state.Intent = agent.IntentBookSlot
	state.RequestedTime = &start
	state.DurationMinutes = durationMinutes
	return state
}

func istTime(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return time.Date(2025, 7, 1, hour, minute, 0, 0, loc)
}

func TestCheckShortCircuits(t *testing.T) {
	start := istTime(t, 15, 0)

	tests := []struct {
		name  string
		state func() agent.State
	}{
		{
			name: "intent is not book_slot",
			state: func() agent.State {
				s := bookingState(t, start, 30)
				s.Intent = agent.IntentSuggestSlots
				return s
			},
		},
		{
			name: "no requested time",
			state: func() agent.State {
				s := bookingState(t, start, 30)
				s.RequestedTime = nil
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := testutil.NewMockCalendar()
			checker := agent.NewChecker(cal, 14)

			result := checker.Check(context.Background(), tt.state())

			assert.Equal(t, agent.AvailabilityUnknown, result.Availability.Status)
			assert.Zero(t, cal.ListCalls(), "no calendar call may be made without a concrete booking request")
		})
	}
}

func TestCheckAvailable(t *testing.T) {
	start := istTime(t, 15, 0)
	cal := testutil.NewMockCalendar()
	checker := agent.NewChecker(cal, 14)

	result := checker.Check(context.Background(), bookingState(t, start, 30))

	assert.Equal(t, agent.AvailabilityAvailable, result.Availability.Status)
	assert.Nil(t, result.SuggestedTime)
	assert.Equal(t, 1, cal.ListCalls())
}

func TestCheckUnavailableSuggestsEarliestFreeIncrement(t *testing.T) {
	start := istTime(t, 15, 0)

	t.Run("next increment is free", func(t *testing.T) {
		cal := testutil.NewMockCalendar()
		cal.AddEvent(agent.CalendarEvent{ID: "busy", Start: istTime(t, 15, 0), End: istTime(t, 15, 30)})
		checker := agent.NewChecker(cal, 14)

		result := checker.Check(context.Background(), bookingState(t, start, 30))

		assert.Equal(t, agent.AvailabilityUnavailable, result.Availability.Status)
		require.NotNil(t, result.SuggestedTime)
		assert.True(t, istTime(t, 15, 30).Equal(*result.SuggestedTime))
	})

	t.Run("skips increments still overlapping the conflict", func(t *testing.T) {
		cal := testutil.NewMockCalendar()
		cal.AddEvent(agent.CalendarEvent{ID: "busy", Start: istTime(t, 14, 0), End: istTime(t, 16, 15)})
		checker := agent.NewChecker(cal, 14)

		result := checker.Check(context.Background(), bookingState(t, start, 30))

		assert.Equal(t, agent.AvailabilityUnavailable, result.Availability.Status)
		require.NotNil(t, result.SuggestedTime)
		// 15:30 and 16:00 windows still overlap the conflict; 16:30 is the
		// earliest free 30-minute increment.
		assert.True(t, istTime(t, 16, 30).Equal(*result.SuggestedTime))
	})

	t.Run("suggestion is never earlier than the requested time", func(t *testing.T) {
		cal := testutil.NewMockCalendar()
		cal.AddEvent(agent.CalendarEvent{ID: "busy", Start: istTime(t, 15, 0), End: istTime(t, 15, 45)})
		checker := agent.NewChecker(cal, 14)

		result := checker.Check(context.Background(), bookingState(t, start, 30))

		require.NotNil(t, result.SuggestedTime)
		assert.False(t, result.SuggestedTime.Before(start))
	})
}

func TestCheckForwardSearchIsCapped(t *testing.T) {
	start := istTime(t, 15, 0)

	// Wall-to-wall busy calendar: every probe overlaps.
	cal := testutil.NewMockCalendar()
	cal.AddEvent(agent.CalendarEvent{
		ID:    "wall",
		Start: start.AddDate(0, 0, -1),
		End:   start.AddDate(0, 1, 0),
	})
	checker := agent.NewChecker(cal, 1)

	result := checker.Check(context.Background(), bookingState(t, start, 30))

	assert.Equal(t, agent.AvailabilityError, result.Availability.Status)
	assert.Contains(t, result.Availability.Err, "no free slot within 1 days")
	assert.Nil(t, result.SuggestedTime)
	// 1 initial check + 48 capped probes for a one-day lookahead.
	assert.Equal(t, 49, cal.ListCalls())
}

func TestCheckCalendarFailure(t *testing.T) {
	start := istTime(t, 15, 0)
	cal := testutil.NewMockCalendar()
	cal.SetListError(fmt.Errorf("googleapi: Error 403: quota exceeded"))
	checker := agent.NewChecker(cal, 14)

	result := checker.Check(context.Background(), bookingState(t, start, 30))

	assert.Equal(t, agent.AvailabilityError, result.Availability.Status)
	assert.Contains(t, result.Availability.Err, "quota exceeded")
}
