package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tailortalk/tailortalk/internal/timeutil"
)

// IntentRecord is the structured result of intent extraction.
type IntentRecord struct {
	Intent          Intent
	RequestedTime   *time.Time
	DurationMinutes int
}

// intentPayload mirrors the JSON object the model is instructed to emit.
type intentPayload struct {
	Intent   string  `json:"intent"`
	DateTime *string `json:"date_time"`
	Duration int     `json:"duration"`
}

// Extractor turns free-text user input into an IntentRecord via one model
// call. Every failure mode degrades to the default record; Extract never
// returns an error.
type Extractor struct {
	llm             CompletionClient
	location        *time.Location
	defaultDuration int
	now             func() time.Time
}

// NewExtractor creates an intent extractor bound to the fixed timezone.
func NewExtractor(llm CompletionClient, location *time.Location, defaultDuration int) *Extractor {
	if location == nil {
		location = time.UTC
	}
	if defaultDuration <= 0 {
		defaultDuration = 30
	}
	return &Extractor{
		llm:             llm,
		location:        location,
		defaultDuration: defaultDuration,
		now:             time.Now,
	}
}

// Extract classifies the user's text. Transport errors, prose-wrapped or
// truncated completions, and unparseable timestamps all recover to defaults
// rather than aborting the pipeline.
func (e *Extractor) Extract(ctx context.Context, userText string) IntentRecord {
	record := IntentRecord{
		Intent:          IntentSuggestSlots,
		DurationMinutes: e.defaultDuration,
	}

	completion, err := e.llm.Complete(ctx, intentSystemPrompt, fmt.Sprintf("User input: %q", userText))
	if err != nil {
		fmt.Printf("Intent extraction: model call failed, using defaults: %v\n", err)
	} else if jsonStr := extractJSON(completion); jsonStr != "" {
		var payload intentPayload
		if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
			fmt.Printf("Intent extraction: could not parse completion JSON: %v\n", err)
		} else {
			record.Intent = ParseIntent(payload.Intent)
			if payload.Duration > 0 {
				record.DurationMinutes = payload.Duration
			}
			if payload.DateTime != nil {
				if t, err := timeutil.ParseDateTime(*payload.DateTime, e.location); err == nil {
					record.RequestedTime = &t
				}
				// Unparseable timestamps are treated as absent, not fatal.
			}
		}
	}

	// Phrase fallback: the model alone is unreliable at grounding coarse
	// phrases like "tomorrow afternoon", so a deterministic table gets the
	// last word when the model produced no usable timestamp. A hit also
	// forces book_slot, on the heuristic that naming a time means wanting it.
	if record.RequestedTime == nil {
		if t := ResolvePhrase(userText, e.now().In(e.location)); t != nil {
			record.RequestedTime = t
			record.Intent = IntentBookSlot
		}
	}

	return record
}

// extractJSON pulls the first top-level {...} block out of a completion that
// may wrap it in prose or a markdown fence. Returns "" when no balanced block
// exists.
func extractJSON(text string) string {
	start := -1
	for i := 0; i < len(text); i++ {
		if text[i] == '{' {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
