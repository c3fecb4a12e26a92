package gcal

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
)

// EventDetails represents a single Google Calendar event.
type EventDetails struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

func parseEventTimes(item *calendar.Event, loc *time.Location) (time.Time, time.Time, error) {
	if item == nil || item.Start == nil || item.End == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("event is missing start or end")
	}

	// All-day events use Date instead of DateTime.
	if item.Start.Date != "" {
		startDate, err := time.ParseInLocation("2006-01-02", item.Start.Date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("failed to parse all-day start date: %w", err)
		}
		endDate, err := time.ParseInLocation("2006-01-02", item.End.Date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("failed to parse all-day end date: %w", err)
		}
		return startDate, endDate, nil
	}

	if item.Start.DateTime == "" || item.End.DateTime == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("event datetime is missing")
	}

	startTime, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse start datetime: %w", err)
	}
	endTime, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse end datetime: %w", err)
	}

	return startTime, endTime, nil
}

// ListEventsInRange returns non-cancelled events overlapping the window.
// maxResults bounds the query; availability probes only care whether the
// window is empty, so a small bound keeps the forward search cheap.
func (c *Client) ListEventsInRange(ctx context.Context, calendarID string, timeMin, timeMax time.Time, maxResults int64) ([]EventDetails, error) {
	if c.service == nil {
		return nil, fmt.Errorf("calendar service not initialized")
	}
	if timeMax.Before(timeMin) {
		return nil, fmt.Errorf("invalid range: time_max is before time_min")
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	events, err := c.service.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		MaxResults(maxResults).
		SingleEvents(true).
		ShowDeleted(false).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events in range: %w", err)
	}

	result := make([]EventDetails, 0, len(events.Items))
	for _, item := range events.Items {
		if item == nil || item.Status == "cancelled" {
			continue
		}

		start, end, parseErr := parseEventTimes(item, timeMin.Location())
		if parseErr != nil {
			// Skip malformed events rather than failing the whole query.
			continue
		}

		result = append(result, EventDetails{
			ID:          item.Id,
			Summary:     item.Summary,
			Description: item.Description,
			Start:       start,
			End:         end,
		})
	}

	return result, nil
}

// CreateConferenceEvent creates an event with an auto-generated Meet link and
// returns the event ID and the link. The link is empty when Google did not
// provision one.
func (c *Client) CreateConferenceEvent(ctx context.Context, calendarID, summary, description string, start, end time.Time, timezone string) (string, string, error) {
	if c.service == nil {
		return "", "", fmt.Errorf("calendar service not initialized")
	}
	if calendarID == "" {
		calendarID = "primary"
	}

	event := &calendar.Event{
		Summary:     summary,
		Description: description,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: timezone,
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: fmt.Sprintf("tailortalk-%d", time.Now().UnixNano()),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
	}

	created, err := c.service.Events.Insert(calendarID, event).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", "", fmt.Errorf("failed to create event: %w", err)
	}

	return created.Id, created.HangoutLink, nil
}
