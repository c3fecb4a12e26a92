package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailortalk/tailortalk/internal/agent"
	"github.com/tailortalk/tailortalk/internal/database"
	"github.com/tailortalk/tailortalk/internal/gcal"
)

// fakeRunner returns a scripted final state for any message.
type fakeRunner struct {
	state agent.State
	calls int
}

func (f *fakeRunner) Run(_ context.Context, message string) agent.State {
	f.calls++
	final := f.state
	final.Messages = append([]string{message}, final.Messages...)
	return final
}

func replyState(reply string) agent.State {
	return agent.State{
		Messages:        []string{reply},
		Intent:          agent.IntentSuggestSlots,
		DurationMinutes: 30,
	}
}

func newTestServer(runner PipelineRunner, db *database.DB) *Server {
	return New(ServerConfig{Runner: runner, DB: db, Port: 0})
}

func postChat(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestHandleChat(t *testing.T) {
	runner := &fakeRunner{state: replyState("Please tell me a date and time for your call.")}
	s := newTestServer(runner, database.NewTestDB(t))

	rr := postChat(t, s, `{"message": "hello"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp chatResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Please tell me a date and time for your call.", resp.Response)
	assert.Equal(t, 1, runner.calls)
}

func TestHandleChatRecordsAudit(t *testing.T) {
	db := database.NewTestDB(t)
	runner := &fakeRunner{state: replyState("noted")}
	s := newTestServer(runner, db)

	rr := postChat(t, s, `{"message": "book something"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	turns, err := db.ListRecentTurns(10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "book something", turns[0].UserMessage)
	assert.Equal(t, "noted", turns[0].Reply)
	assert.Equal(t, "suggest_slots", turns[0].Intent)
}

func TestHandleChatRecordsBooking(t *testing.T) {
	db := database.NewTestDB(t)
	start := time.Date(2025, 7, 1, 15, 0, 0, 0, time.UTC)
	state := agent.State{
		Messages:        []string{"✅ Your call is scheduled."},
		Intent:          agent.IntentBookSlot,
		RequestedTime:   &start,
		DurationMinutes: 45,
		Availability:    agent.Availability{Status: agent.AvailabilityAvailable},
		Booking:         agent.Booking{Status: agent.BookingBooked, MeetLink: "https://meet.google.com/abc"},
	}
	s := newTestServer(&fakeRunner{state: state}, db)

	rr := postChat(t, s, `{"message": "book July 1st at 3pm"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	bookings, err := db.ListBookings(10)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.True(t, start.Equal(bookings[0].StartTime))
	assert.Equal(t, 45, bookings[0].DurationMinutes)
	assert.Equal(t, "https://meet.google.com/abc", bookings[0].MeetLink)
}

func TestHandleChatBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{"message": `},
		{name: "missing message", body: `{}`},
		{name: "blank message", body: `{"message": "   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{state: replyState("unused")}
			s := newTestServer(runner, nil)

			rr := postChat(t, s, tt.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Zero(t, runner.calls, "pipeline must not run for a rejected request")
		})
	}
}

func TestHandleChatWithoutRunner(t *testing.T) {
	s := newTestServer(nil, nil)

	rr := postChat(t, s, `{"message": "hello"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestHandleHistory(t *testing.T) {
	db := database.NewTestDB(t)
	for _, msg := range []string{"first", "second", "third"} {
		_, err := db.RecordChatTurn(msg, "reply to "+msg, "suggest_slots")
		require.NoError(t, err)
	}
	s := newTestServer(nil, db)

	req := httptest.NewRequest("GET", "/api/history?limit=2", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Turns []database.ChatTurn `json:"turns"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Turns, 2)
	assert.Equal(t, "third", resp.Turns[0].UserMessage)
}

func TestHandleHistoryWithoutDB(t *testing.T) {
	s := newTestServer(nil, nil)

	req := httptest.NewRequest("GET", "/api/history", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestHandleHealthCheck(t *testing.T) {
	s := newTestServer(nil, database.NewTestDB(t))

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var status map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status["status"])
	assert.Equal(t, "unconfigured", status["model"])
	assert.Equal(t, "disconnected", status["calendar"])
	assert.Equal(t, "connected", status["database"])
}

func TestHandleOAuthCallback(t *testing.T) {
	get := func(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest("GET", target, nil)
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, req)
		return rr
	}

	t.Run("without calendar client", func(t *testing.T) {
		s := newTestServer(nil, nil)

		rr := get(t, s, "/oauth/callback?code=abc")
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("missing code", func(t *testing.T) {
		s := New(ServerConfig{GCalClient: &gcal.Client{}})

		rr := get(t, s, "/oauth/callback")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "missing authorization code")
	})

	t.Run("consent denied", func(t *testing.T) {
		s := New(ServerConfig{GCalClient: &gcal.Client{}})

		rr := get(t, s, "/oauth/callback?error=access_denied")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "access_denied")
	})
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(nil, nil)

	req := httptest.NewRequest("OPTIONS", "/api/chat", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), "POST"))
}
