package database

import (
	"fmt"
	"time"
)

// ChatTurn is one recorded user message and the assistant's reply.
type ChatTurn struct {
	ID          int64     `json:"id"`
	UserMessage string    `json:"user_message"`
	Reply       string    `json:"reply"`
	Intent      string    `json:"intent"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookingRecord is one successfully booked slot.
type BookingRecord struct {
	ID              int64     `json:"id"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	MeetLink        string    `json:"meet_link"`
	CreatedAt       time.Time `json:"created_at"`
}

// RecordChatTurn appends one completed chat exchange to the audit log.
func (d *DB) RecordChatTurn(userMessage, reply, intent string) (int64, error) {
	result, err := d.Exec(`
		INSERT INTO chat_turns (user_message, reply, intent)
		VALUES (?, ?, ?)
	`, userMessage, reply, intent)
	if err != nil {
		return 0, fmt.Errorf("failed to record chat turn: %w", err)
	}
	return result.LastInsertId()
}

// ListRecentTurns returns the last N chat turns, newest first.
func (d *DB) ListRecentTurns(limit int) ([]ChatTurn, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := d.Query(`
		SELECT id, user_message, reply, intent, created_at
		FROM chat_turns
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat turns: %w", err)
	}
	defer rows.Close()

	var turns []ChatTurn
	for rows.Next() {
		var t ChatTurn
		if err := rows.Scan(&t.ID, &t.UserMessage, &t.Reply, &t.Intent, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// RecordBooking appends one successful booking to the audit log.
func (d *DB) RecordBooking(start time.Time, durationMinutes int, meetLink string) (int64, error) {
	result, err := d.Exec(`
		INSERT INTO bookings (start_time, duration_minutes, meet_link)
		VALUES (?, ?, ?)
	`, start, durationMinutes, meetLink)
	if err != nil {
		return 0, fmt.Errorf("failed to record booking: %w", err)
	}
	return result.LastInsertId()
}

// ListBookings returns the last N recorded bookings, newest first.
func (d *DB) ListBookings(limit int) ([]BookingRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := d.Query(`
		SELECT id, start_time, duration_minutes, meet_link, created_at
		FROM bookings
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []BookingRecord
	for rows.Next() {
		var b BookingRecord
		if err := rows.Scan(&b.ID, &b.StartTime, &b.DurationMinutes, &b.MeetLink, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
