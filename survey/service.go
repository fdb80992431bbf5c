// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JayRathod341997/poll-quiz/metrics"
	"github.com/JayRathod341997/poll-quiz/models"
	"github.com/JayRathod341997/poll-quiz/poll"
	"github.com/JayRathod341997/poll-quiz/surveyerr"
)

const (
	MessageThanks           = "Thank you for your submission!"
	MessageAlreadySubmitted = "You've already submitted your responses."
)

// Service runs the submission flow: guard check, validation, append, mark.
type Service struct {
	schema    *poll.Schema
	store     AnswerStore
	guard     Guard
	anonymous bool
	metrics   *metrics.Metrics
	now       func() time.Time

	// mu serializes whole submissions so check-append-mark is atomic in-process
	mu sync.Mutex

	inflightMu sync.Mutex
	inflight   map[string]bool
}

type Option func(*Service)

// Anonymous stores records without the respondent id. The guard still gates
// re-submission by respondent (session) id.
func Anonymous() Option {
	return func(s *Service) { s.anonymous = true }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(schema *poll.Schema, store AnswerStore, guard Guard, opts ...Option) *Service {
	s := &Service{
		schema:   schema,
		store:    store,
		guard:    guard,
		now:      time.Now,
		inflight: map[string]bool{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Schema() *poll.Schema {
	return s.schema
}

// Initialize prepares the answer table and the submission log. Safe on every start.
func (s *Service) Initialize(ctx context.Context) error {
	if err := s.store.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize answer store: %w", err)
	}
	if err := s.guard.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize submission guard: %w", err)
	}
	return nil
}

// Status reads the guard on every call.
func (s *Service) Status(ctx context.Context, respondentID string) (models.State, error) {
	if s.isInflight(respondentID) {
		return models.StateSubmitting, nil
	}
	done, err := s.guard.HasSubmitted(ctx, respondentID)
	if err != nil {
		s.metrics.StorageFailed("status")
		return "", fmt.Errorf("failed to check submission: %w", err)
	}
	if done {
		return models.StateSubmitted, nil
	}
	return models.StateNotSubmitted, nil
}

// Open presents the form. A respondent who already submitted gets a
// read-only acknowledgment without questions.
func (s *Service) Open(ctx context.Context, respondentID string) (models.FormResponse, error) {
	state, err := s.Status(ctx, respondentID)
	if err != nil {
		return models.FormResponse{}, err
	}
	if state == models.StateSubmitted {
		return models.FormResponse{State: models.StateSubmitted, Message: MessageAlreadySubmitted}, nil
	}
	return models.FormResponse{State: models.StateSubmitting, Questions: s.schema.Questions()}, nil
}

// Submit records one complete answer set for respondentID.
//
// Returns a *surveyerr.ValidationError when any question is unanswered, unknown
// or has a value outside its options, and ErrDuplicateSubmission when the
// respondent already submitted; in both cases nothing is written. Answers are
// appended in schema order and the guard is marked only after all of them
// were stored.
func (s *Service) Submit(ctx context.Context, respondentID string, answers map[string]string) (models.SubmitResponse, error) {
	if respondentID == "" {
		return models.SubmitResponse{}, surveyerr.NewValidationError("respondent id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.setInflight(respondentID, true)
	defer s.setInflight(respondentID, false)

	done, err := s.guard.HasSubmitted(ctx, respondentID)
	if err != nil {
		s.metrics.StorageFailed("submit")
		return models.SubmitResponse{}, fmt.Errorf("failed to check submission: %w", err)
	}
	if done {
		s.metrics.Duplicate()
		slog.Info("duplicate submission refused", "respondent_id", respondentID)
		return models.SubmitResponse{}, surveyerr.NewDuplicateSubmission(respondentID)
	}

	if err := s.schema.CheckAll(answers); err != nil {
		s.metrics.ValidationFailed()
		return models.SubmitResponse{}, err
	}

	recordID := respondentID
	if s.anonymous {
		recordID = ""
	}
	for _, q := range s.schema.Questions() {
		if err := s.store.Append(ctx, recordID, q.ID, answers[q.ID]); err != nil {
			s.metrics.StorageFailed("submit")
			slog.Error("failed to store answer", "respondent_id", respondentID, "question_id", q.ID, "error", err)
			return models.SubmitResponse{}, fmt.Errorf("failed to store answer for %s: %w", q.ID, err)
		}
	}

	if err := s.guard.MarkSubmitted(ctx, respondentID); err != nil {
		s.metrics.StorageFailed("submit")
		slog.Error("answers stored but submission not marked", "respondent_id", respondentID, "error", err)
		return models.SubmitResponse{}, fmt.Errorf("failed to mark submission: %w", err)
	}

	s.metrics.Submitted(answers)
	slog.Info("survey submitted", "respondent_id", respondentID, "answers", len(answers))

	return models.SubmitResponse{
		State:       models.StateSubmitted,
		Message:     MessageThanks,
		Answers:     len(answers),
		SubmittedAt: s.now().UTC(),
	}, nil
}

func (s *Service) isInflight(respondentID string) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	return s.inflight[respondentID]
}

func (s *Service) setInflight(respondentID string, v bool) {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if v {
		s.inflight[respondentID] = true
	} else {
		delete(s.inflight, respondentID)
	}
}
