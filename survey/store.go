// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"context"
	"sync"

	"github.com/JayRathod341997/poll-quiz/models"
)

// AnswerStore is an append-only table of response records.
// Implemented by db.AnswerStore, csvstore.AnswerStore and sheetstore.AnswerStore.
type AnswerStore interface {
	// Initialize creates the table with its header when missing. It never truncates.
	Initialize(ctx context.Context) error
	// Append validates answer against the schema and appends one timestamped record.
	Append(ctx context.Context, respondentID, questionID, answer string) error
	// LoadAll returns every record in storage order.
	LoadAll(ctx context.Context) ([]models.Record, error)
}

// Guard is the durable authority on who completed the survey.
type Guard interface {
	Initialize(ctx context.Context) error
	HasSubmitted(ctx context.Context, respondentID string) (bool, error)
	// MarkSubmitted is idempotent.
	MarkSubmitted(ctx context.Context, respondentID string) error
}

// SessionGuard remembers submissions in memory only. It backs the anonymous
// mode, where records carry no respondent id; its state is lost on restart,
// so a respondent can submit again after the process restarts.
type SessionGuard struct {
	mu        sync.Mutex
	submitted map[string]bool
}

func NewSessionGuard() *SessionGuard {
	return &SessionGuard{submitted: map[string]bool{}}
}

func (g *SessionGuard) Initialize(ctx context.Context) error { return nil }

func (g *SessionGuard) HasSubmitted(ctx context.Context, respondentID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.submitted[respondentID], nil
}

func (g *SessionGuard) MarkSubmitted(ctx context.Context, respondentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.submitted[respondentID] = true
	return nil
}
