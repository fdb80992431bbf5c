// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/JayRathod341997/poll-quiz/models"
	"github.com/JayRathod341997/poll-quiz/poll"
	"github.com/JayRathod341997/poll-quiz/surveyerr"
)

// AnswerStore keeps one row per answered question in the response table.
type AnswerStore struct {
	db      *sql.DB
	dialect Dialect
	schema  *poll.Schema
	now     func() time.Time
}

func NewAnswerStore(db *sql.DB, dialect Dialect, schema *poll.Schema) *AnswerStore {
	return &AnswerStore{db: db, dialect: dialect, schema: schema, now: time.Now}
}

// WithClock replaces the timestamp source, for tests.
func (s *AnswerStore) WithClock(now func() time.Time) *AnswerStore {
	s.now = now
	return s
}

func (s *AnswerStore) Initialize(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return surveyerr.NewStorageError("database unreachable", err)
	}
	if err := CreateSchema(s.db, s.dialect); err != nil {
		return surveyerr.NewStorageError("failed to initialize response table", err)
	}
	return nil
}

func (s *AnswerStore) Append(ctx context.Context, respondentID, questionID, answer string) error {
	if err := s.schema.Check(questionID, answer); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, rebind(s.dialect, `
		INSERT INTO response (respondent_id, submitted_at, question_id, answer)
		VALUES (?, ?, ?, ?)
	`), respondentID, s.now().UTC(), questionID, answer)
	if err != nil {
		return surveyerr.NewStorageError("failed to insert response", err)
	}
	return nil
}

func (s *AnswerStore) LoadAll(ctx context.Context) ([]models.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT respondent_id, submitted_at, question_id, answer
		FROM response
		ORDER BY id
	`)
	if err != nil {
		return nil, surveyerr.NewStorageError("failed to query responses", err)
	}
	defer rows.Close()

	records := []models.Record{}
	for rows.Next() {
		var rec models.Record
		if err := rows.Scan(&rec.RespondentID, &rec.Timestamp, &rec.QuestionID, &rec.Answer); err != nil {
			return nil, surveyerr.NewStorageError("failed to scan response", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, surveyerr.NewStorageError("failed to read responses", err)
	}

	return records, nil
}

// Guard stores one submission row per completed respondent.
type Guard struct {
	db      *sql.DB
	dialect Dialect
}

func NewGuard(db *sql.DB, dialect Dialect) *Guard {
	return &Guard{db: db, dialect: dialect}
}

func (g *Guard) Initialize(ctx context.Context) error {
	if err := CreateSchema(g.db, g.dialect); err != nil {
		return surveyerr.NewStorageError("failed to initialize submission table", err)
	}
	return nil
}

func (g *Guard) HasSubmitted(ctx context.Context, respondentID string) (bool, error) {
	var exists bool
	err := g.db.QueryRowContext(ctx, rebind(g.dialect, `
		SELECT EXISTS(
			SELECT 1 FROM submission WHERE respondent_id = ?
		)
	`), respondentID).Scan(&exists)
	if err != nil {
		return false, surveyerr.NewStorageError("failed to query submission", err)
	}
	return exists, nil
}

// MarkSubmitted is idempotent: the primary key plus ON CONFLICT keeps one row per respondent.
func (g *Guard) MarkSubmitted(ctx context.Context, respondentID string) error {
	_, err := g.db.ExecContext(ctx, rebind(g.dialect, `
		INSERT INTO submission (respondent_id, submitted_at)
		VALUES (?, ?)
		ON CONFLICT (respondent_id) DO NOTHING
	`), respondentID, time.Now().UTC())
	if err != nil {
		return surveyerr.NewStorageError("failed to insert submission", err)
	}
	return nil
}

// Count returns the number of submission markers.
func (g *Guard) Count(ctx context.Context) (int, error) {
	var n int
	if err := g.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submission`).Scan(&n); err != nil {
		return 0, surveyerr.NewStorageError("failed to count submissions", err)
	}
	return n, nil
}
