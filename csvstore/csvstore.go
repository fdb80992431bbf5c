// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package csvstore keeps survey answers and submission markers in flat CSV files.
package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/JayRathod341997/poll-quiz/models"
	"github.com/JayRathod341997/poll-quiz/poll"
	"github.com/JayRathod341997/poll-quiz/surveyerr"
)

const (
	ColRespondentID = "respondent_id"
	ColTimestamp    = "timestamp"
	ColQuestionID   = "question_id"
	ColAnswer       = "answer"
)

var (
	trackedHeader   = []string{ColRespondentID, ColTimestamp, ColQuestionID, ColAnswer}
	anonymousHeader = []string{ColTimestamp, ColQuestionID, ColAnswer}
	submissionsHead = []string{ColRespondentID}

	errNoRespondentColumn = errors.New("file has no respondent_id column")
)

// AnswerStore appends one CSV row per answered question.
type AnswerStore struct {
	mu        sync.Mutex
	path      string
	schema    *poll.Schema
	anonymous bool
	now       func() time.Time
}

type Option func(*AnswerStore)

// WithoutRespondent writes the identity-free layout (timestamp, question_id, answer).
func WithoutRespondent() Option {
	return func(s *AnswerStore) { s.anonymous = true }
}

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *AnswerStore) { s.now = now }
}

func NewAnswerStore(path string, schema *poll.Schema, opts ...Option) *AnswerStore {
	s := &AnswerStore{path: path, schema: schema, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AnswerStore) header() []string {
	if s.anonymous {
		return anonymousHeader
	}
	return trackedHeader
}

func (s *AnswerStore) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ensureHeader(s.path, s.header()); err != nil {
		return surveyerr.NewStorageError("failed to initialize "+s.path, err)
	}
	return nil
}

// Append writes one row in the column layout of the header already in the
// file, so switching the anonymous option on an existing file never mixes row
// widths. A respondent id cannot go into a file without a respondent_id column;
// that is a storage error and nothing is written.
func (s *AnswerStore) Append(ctx context.Context, respondentID, questionID, answer string) error {
	if err := s.schema.Check(questionID, answer); err != nil {
		return err
	}
	if s.anonymous {
		respondentID = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ensureHeader(s.path, s.header()); err != nil {
		return surveyerr.NewStorageError("failed to initialize "+s.path, err)
	}
	header, err := readHeader(s.path)
	if err != nil {
		return surveyerr.NewStorageError("failed to read header of "+s.path, err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return surveyerr.NewStorageError("corrupt header in "+s.path, err)
	}
	if cols.respondent < 0 && respondentID != "" {
		return surveyerr.NewStorageError("cannot append to "+s.path, errNoRespondentColumn)
	}

	row := make([]string, len(header))
	if cols.respondent >= 0 {
		row[cols.respondent] = respondentID
	}
	row[cols.timestamp] = s.now().UTC().Format(time.RFC3339Nano)
	row[cols.question] = questionID
	row[cols.answer] = answer

	if err := writeRows(s.path, os.O_WRONLY|os.O_APPEND, [][]string{row}); err != nil {
		return surveyerr.NewStorageError("failed to append to "+s.path, err)
	}
	return nil
}

// LoadAll reads every row. A file that does not exist yet loads as empty.
// Both the tracked and the anonymous column layouts are accepted.
func (s *AnswerStore) LoadAll(ctx context.Context) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := readRows(s.path)
	if err != nil {
		return nil, surveyerr.NewStorageError("failed to read "+s.path, err)
	}
	records := []models.Record{}
	if len(rows) == 0 {
		return records, nil
	}

	cols, err := columnIndex(rows[0])
	if err != nil {
		return nil, surveyerr.NewStorageError("corrupt header in "+s.path, err)
	}

	for i, row := range rows[1:] {
		rec, err := parseRecord(cols, row)
		if err != nil {
			return nil, surveyerr.NewStorageError(fmt.Sprintf("corrupt row %d in %s", i+2, s.path), err)
		}
		records = append(records, rec)
	}
	return records, nil
}

type columns struct {
	respondent, timestamp, question, answer int
}

func columnIndex(header []string) (columns, error) {
	cols := columns{
		respondent: slices.Index(header, ColRespondentID),
		timestamp:  slices.Index(header, ColTimestamp),
		question:   slices.Index(header, ColQuestionID),
		answer:     slices.Index(header, ColAnswer),
	}
	if cols.timestamp < 0 || cols.question < 0 || cols.answer < 0 {
		return columns{}, fmt.Errorf("missing columns in header %v", header)
	}
	return cols, nil
}

func parseRecord(cols columns, row []string) (models.Record, error) {
	var rec models.Record
	if cols.respondent >= 0 {
		rec.RespondentID = row[cols.respondent]
	}
	ts, err := time.Parse(time.RFC3339Nano, row[cols.timestamp])
	if err != nil {
		return rec, fmt.Errorf("bad timestamp: %w", err)
	}
	rec.Timestamp = ts
	rec.QuestionID = row[cols.question]
	rec.Answer = row[cols.answer]
	return rec, nil
}

func formatRecord(rec models.Record) []string {
	return []string{rec.RespondentID, rec.Timestamp.UTC().Format(time.RFC3339Nano), rec.QuestionID, rec.Answer}
}

// WriteRecords writes records as CSV with the respondent_id,timestamp,question_id,answer header.
func WriteRecords(w io.Writer, records []models.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(trackedHeader); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(formatRecord(rec)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Guard keeps a single-column submissions file.
type Guard struct {
	mu   sync.Mutex
	path string
}

func NewGuard(path string) *Guard {
	return &Guard{path: path}
}

func (g *Guard) Initialize(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := ensureHeader(g.path, submissionsHead); err != nil {
		return surveyerr.NewStorageError("failed to initialize "+g.path, err)
	}
	return nil
}

func (g *Guard) HasSubmitted(ctx context.Context, respondentID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.contains(respondentID)
}

// MarkSubmitted appends a marker unless one exists.
func (g *Guard) MarkSubmitted(ctx context.Context, respondentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	found, err := g.contains(respondentID)
	if err != nil {
		return err
	}
	if found {
		return nil
	}
	if err := appendRow(g.path, submissionsHead, []string{respondentID}); err != nil {
		return surveyerr.NewStorageError("failed to append to "+g.path, err)
	}
	return nil
}

// Count returns the number of markers.
func (g *Guard) Count(ctx context.Context) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	rows, err := readRows(g.path)
	if err != nil {
		return 0, surveyerr.NewStorageError("failed to read "+g.path, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return len(rows) - 1, nil
}

func (g *Guard) contains(respondentID string) (bool, error) {
	rows, err := readRows(g.path)
	if err != nil {
		return false, surveyerr.NewStorageError("failed to read "+g.path, err)
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) > 0 && row[0] == respondentID {
			return true, nil
		}
	}
	return false, nil
}

// ensureHeader creates path with header when missing or empty, leaving existing rows alone.
func ensureHeader(path string, header []string) error {
	info, err := os.Stat(path)
	if err == nil && info.Size() > 0 {
		return nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return writeRows(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, [][]string{header})
}

func appendRow(path string, header, row []string) error {
	if err := ensureHeader(path, header); err != nil {
		return err
	}
	return writeRows(path, os.O_WRONLY|os.O_APPEND, [][]string{row})
}

func writeRows(path string, flag int, rows [][]string) error {
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// readHeader returns the first row of path.
func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.Read()
}

func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
