package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tailortalk/tailortalk/internal/agent"
	"github.com/tailortalk/tailortalk/internal/notify"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// handleChat runs the scheduling pipeline for one message. The pipeline never
// returns an error; the only failure modes here are malformed requests.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.runner == nil {
		respondError(w, http.StatusServiceUnavailable, "assistant is not initialized")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	final := s.runner.Run(r.Context(), req.Message)
	reply := final.Reply()

	s.audit(req.Message, reply, final)
	s.notifyBooking(final)

	respondJSON(w, http.StatusOK, chatResponse{Response: reply})
}

// audit writes the completed turn to the log; failures are reported but never
// affect the reply.
func (s *Server) audit(message, reply string, final agent.State) {
	if s.db == nil {
		return
	}

	if _, err := s.db.RecordChatTurn(message, reply, string(final.Intent)); err != nil {
		fmt.Printf("Warning: failed to record chat turn: %v\n", err)
	}

	if final.Booking.Status == agent.BookingBooked && final.RequestedTime != nil {
		if _, err := s.db.RecordBooking(*final.RequestedTime, final.DurationMinutes, final.Booking.MeetLink); err != nil {
			fmt.Printf("Warning: failed to record booking: %v\n", err)
		}
	}
}

// notifyBooking fires the confirmation email for a booked slot, best-effort
// and off the request path.
func (s *Server) notifyBooking(final agent.State) {
	if s.notifier == nil || !s.notifier.IsConfigured() {
		return
	}
	if final.Booking.Status != agent.BookingBooked || final.RequestedTime == nil {
		return
	}

	confirmation := notify.BookingConfirmation{
		StartTime:       *final.RequestedTime,
		DurationMinutes: final.DurationMinutes,
		MeetLink:        final.Booking.MeetLink,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.notifier.Send(ctx, confirmation); err != nil {
			fmt.Printf("Warning: %s notification failed: %v\n", s.notifier.Name(), err)
		}
	}()
}

// handleHistory returns the most recent chat turns from the audit log.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		respondError(w, http.StatusServiceUnavailable, "history is not available")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	turns, err := s.db.ListRecentTurns(limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"turns": turns})
}

// handleOAuthCallback completes the Google Calendar authorization flow. Google
// redirects here after the operator approves the consent screen; the code is
// exchanged for a token and persisted for future restarts.
func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	if s.gcalClient == nil {
		respondError(w, http.StatusServiceUnavailable, "calendar client is not initialized")
		return
	}

	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("authorization denied: %s", errMsg))
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		respondError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	if err := s.gcalClient.ExchangeCode(r.Context(), code); err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("token exchange failed: %v", err))
		return
	}

	fmt.Println("Google Calendar connected")
	respondJSON(w, http.StatusOK, map[string]string{"status": "calendar connected"})
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":   "healthy",
		"model":    "unconfigured",
		"calendar": "disconnected",
		"database": "disconnected",
	}

	if s.llm != nil && s.llm.IsConfigured() {
		status["model"] = "configured"
	}
	if s.gcalClient != nil && s.gcalClient.IsAuthenticated() {
		status["calendar"] = "connected"
	}
	if s.db != nil {
		if err := s.db.Ping(); err == nil {
			status["database"] = "connected"
		}
	}

	respondJSON(w, http.StatusOK, status)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("Error encoding JSON response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
