package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tailortalk/tailortalk/internal/agent"
)

// MockCalendar simulates the calendar collaborator for testing. It stores
// events in memory and answers overlap queries the way Google Calendar does
// for a timeMin/timeMax window.
type MockCalendar struct {
	mu        sync.Mutex
	events    []agent.CalendarEvent
	created   []agent.EventInput
	meetLink  string
	listErr   error
	createErr error
	listCalls int
}

// NewMockCalendar creates an empty mock calendar that provisions Meet links.
func NewMockCalendar() *MockCalendar {
	return &MockCalendar{meetLink: "https://meet.google.com/mock-link"}
}

// AddEvent adds an event to the mock
func (m *MockCalendar) AddEvent(event agent.CalendarEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// SetListError makes every ListEvents call fail
func (m *MockCalendar) SetListError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

// SetCreateError makes every CreateEvent call fail
func (m *MockCalendar) SetCreateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createErr = err
}

// SetMeetLink overrides the link returned for created events
func (m *MockCalendar) SetMeetLink(link string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meetLink = link
}

// ListCalls returns how many overlap queries were made
func (m *MockCalendar) ListCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

// Created returns the events submitted via CreateEvent
func (m *MockCalendar) Created() []agent.EventInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]agent.EventInput{}, m.created...)
}

func (m *MockCalendar) ListEvents(_ context.Context, start, end time.Time) ([]agent.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}

	var overlapping []agent.CalendarEvent
	for _, e := range m.events {
		if e.Start.Before(end) && e.End.After(start) {
			overlapping = append(overlapping, e)
		}
	}
	return overlapping, nil
}

func (m *MockCalendar) CreateEvent(_ context.Context, input agent.EventInput) (*agent.CreatedEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return nil, m.createErr
	}

	m.created = append(m.created, input)
	m.events = append(m.events, agent.CalendarEvent{
		ID:      fmt.Sprintf("evt-%d", len(m.created)),
		Summary: input.Summary,
		Start:   input.Start,
		End:     input.End,
	})
	return &agent.CreatedEvent{
		ID:       fmt.Sprintf("evt-%d", len(m.created)),
		MeetLink: m.meetLink,
	}, nil
}

// MockCompletionClient simulates the language model with a scripted completion.
type MockCompletionClient struct {
	mu         sync.Mutex
	completion string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

// NewMockCompletionClient creates a mock that returns the given completion.
func NewMockCompletionClient(completion string) *MockCompletionClient {
	return &MockCompletionClient{completion: completion}
}

// SetError makes every Complete call fail
func (m *MockCompletionClient) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many completions were requested
func (m *MockCompletionClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastPrompt returns the system and user prompts of the last call
func (m *MockCompletionClient) LastPrompt() (string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSystem, m.lastUser
}

func (m *MockCompletionClient) Complete(_ context.Context, system, user string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.lastSystem = system
	m.lastUser = user
	if m.err != nil {
		return "", m.err
	}
	return m.completion, nil
}

func (m *MockCompletionClient) IsConfigured() bool {
	return true
}
