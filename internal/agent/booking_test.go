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

func availableState(t *testing.T, start time.Time, durationMinutes int) agent.State {
	t.Helper()
	state := bookingState(t, start, durationMinutes)
	state.Availability = agent.Availability{Status: agent.AvailabilityAvailable}
	return state
}

func TestBookCreatesEventWithMeetLink(t *testing.T) {
	start := istTime(t, 15, 0)
	cal := testutil.NewMockCalendar()
	booker := agent.NewBooker(cal, agent.NewChecker(cal, 14))

	result := booker.Book(context.Background(), availableState(t, start, 45))

	assert.Equal(t, agent.BookingBooked, result.Booking.Status)
	assert.Equal(t, "https://meet.google.com/mock-link", result.Booking.MeetLink)

	created := cal.Created()
	require.Len(t, created, 1)
	assert.Equal(t, "TailorTalk Call", created[0].Summary)
	assert.Contains(t, created[0].Description, "45 minutes")
	assert.True(t, start.Equal(created[0].Start))
	assert.True(t, start.Add(45*time.Minute).Equal(created[0].End))
}

func TestBookEmptyMeetLink(t *testing.T) {
	start := istTime(t, 15, 0)
	cal := testutil.NewMockCalendar()
	cal.SetMeetLink("")
	booker := agent.NewBooker(cal, nil)

	result := booker.Book(context.Background(), availableState(t, start, 30))

	assert.Equal(t, agent.BookingBooked, result.Booking.Status)
	assert.Empty(t, result.Booking.MeetLink)
}

func TestBookFailureIsCaptured(t *testing.T) {
	start := istTime(t, 15, 0)
	cal := testutil.NewMockCalendar()
	cal.SetCreateError(fmt.Errorf("googleapi: Error 403: insufficient permissions"))
	booker := agent.NewBooker(cal, nil)

	result := booker.Book(context.Background(), availableState(t, start, 30))

	assert.Equal(t, agent.BookingFailed, result.Booking.Status)
	assert.Contains(t, result.Booking.Reason, "insufficient permissions")
}

func TestBookWithoutConfirmedSlot(t *testing.T) {
	start := istTime(t, 15, 0)
	cal := testutil.NewMockCalendar()
	booker := agent.NewBooker(cal, nil)

	state := bookingState(t, start, 30) // availability never resolved
	result := booker.Book(context.Background(), state)

	assert.Equal(t, agent.BookingFailed, result.Booking.Status)
	assert.Empty(t, cal.Created())
}

func TestBookProceedsWhenRecheckFails(t *testing.T) {
	start := istTime(t, 15, 0)
	cal := testutil.NewMockCalendar()
	cal.SetListError(fmt.Errorf("googleapi: Error 500: backend error"))
	booker := agent.NewBooker(cal, nil)

	// Availability was already confirmed once; a failed re-check must not
	// block the insert.
	result := booker.Book(context.Background(), availableState(t, start, 30))

	assert.Equal(t, agent.BookingBooked, result.Booking.Status)
	assert.Len(t, cal.Created(), 1)
}

func TestBookLostRaceDowngradesToUnavailable(t *testing.T) {
	start := istTime(t, 15, 0)
	cal := testutil.NewMockCalendar()
	booker := agent.NewBooker(cal, agent.NewChecker(cal, 14))

	// The slot was free at check time but a competing booking landed before
	// the insert.
	cal.AddEvent(agent.CalendarEvent{ID: "rival", Start: start, End: start.Add(30 * time.Minute)})

	result := booker.Book(context.Background(), availableState(t, start, 30))

	assert.Equal(t, agent.AvailabilityUnavailable, result.Availability.Status)
	assert.Equal(t, agent.BookingNone, result.Booking.Status)
	require.NotNil(t, result.SuggestedTime)
	assert.True(t, istTime(t, 15, 30).Equal(*result.SuggestedTime))
	assert.Empty(t, cal.Created(), "no event may be created after losing the race")
}
