package agent

import (
	"context"
	"fmt"
	"time"
)

// Options configures a Pipeline.
type Options struct {
	// Location is the fixed civil timezone all times are interpreted and
	// displayed in. Defaults to UTC.
	Location *time.Location
	// DefaultDurationMinutes is the slot length when the user names none.
	DefaultDurationMinutes int
	// SearchDays caps the forward search for an alternative slot.
	SearchDays int
}

// Pipeline wires the extractor, checker, booker and composer into the
// intent-to-booking workflow: extract -> check -> (book iff available) ->
// compose. One run per inbound message; the single branch is decided once from
// the tagged availability result and never re-entered.
type Pipeline struct {
	extractor *Extractor
	checker   *Checker
	booker    *Booker
}

// NewPipeline builds a pipeline around the injected collaborators. This
// constructor is the only place an error can surface to the caller; once a
// pipeline exists, Run always produces a reply.
func NewPipeline(llm CompletionClient, cal Calendar, opts Options) (*Pipeline, error) {
	if llm == nil {
		return nil, fmt.Errorf("completion client is required")
	}
	if cal == nil {
		return nil, fmt.Errorf("calendar is required")
	}

	checker := NewChecker(cal, opts.SearchDays)
	return &Pipeline{
		extractor: NewExtractor(llm, opts.Location, opts.DefaultDurationMinutes),
		checker:   checker,
		booker:    NewBooker(cal, checker),
	}, nil
}

// Run processes one user message to completion and returns the final state.
// The reply is the last transcript entry (State.Reply). Every stage degrades
// failures into state fields, so Run has no error return.
func (p *Pipeline) Run(ctx context.Context, message string) State {
	state := NewState(message)

	record := p.extractor.Extract(ctx, message)
	state.Intent = record.Intent
	state.RequestedTime = record.RequestedTime
	if record.DurationMinutes > 0 {
		state.DurationMinutes = record.DurationMinutes
	}

	state = p.checker.Check(ctx, state)

	if state.Availability.Status == AvailabilityAvailable {
		state = p.booker.Book(ctx, state)
	}

	state.Messages = append(state.Messages, Compose(state))
	return state
}
