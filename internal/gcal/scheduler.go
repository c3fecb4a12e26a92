package gcal

import (
	"context"
	"time"

	"github.com/tailortalk/tailortalk/internal/agent"
)

const listWindowMax = 5

// Scheduler scopes a Client to a single calendar and timezone and satisfies
// agent.Calendar.
type Scheduler struct {
	client     *Client
	calendarID string
	timezone   string
}

// NewScheduler creates the pipeline-facing calendar adapter.
func NewScheduler(client *Client, calendarID, timezone string) *Scheduler {
	return &Scheduler{
		client:     client,
		calendarID: calendarID,
		timezone:   timezone,
	}
}

func (s *Scheduler) ListEvents(ctx context.Context, start, end time.Time) ([]agent.CalendarEvent, error) {
	events, err := s.client.ListEventsInRange(ctx, s.calendarID, start, end, listWindowMax)
	if err != nil {
		return nil, err
	}

	result := make([]agent.CalendarEvent, 0, len(events))
	for _, e := range events {
		result = append(result, agent.CalendarEvent{
			ID:      e.ID,
			Summary: e.Summary,
			Start:   e.Start,
			End:     e.End,
		})
	}
	return result, nil
}

func (s *Scheduler) CreateEvent(ctx context.Context, input agent.EventInput) (*agent.CreatedEvent, error) {
	id, link, err := s.client.CreateConferenceEvent(ctx, s.calendarID, input.Summary, input.Description, input.Start, input.End, s.timezone)
	if err != nil {
		return nil, err
	}
	return &agent.CreatedEvent{ID: id, MeetLink: link}, nil
}
