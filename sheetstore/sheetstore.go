// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package sheetstore keeps survey answers and submission markers in a Google
// Sheets spreadsheet, one worksheet per table.
package sheetstore

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/JayRathod341997/poll-quiz/models"
	"github.com/JayRathod341997/poll-quiz/poll"
	"github.com/JayRathod341997/poll-quiz/surveyerr"
)

const (
	ResponsesSheet   = "Responses"
	SubmissionsSheet = "Submissions"
)

var (
	responsesHeader   = []string{"respondent_id", "timestamp", "question_id", "answer"}
	submissionsHeader = []string{"respondent_id"}
)

// NewService builds a Sheets client. With an empty credentialsFile the
// application-default credentials are used.
func NewService(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*sheets.Service, error) {
	if credentialsFile != "" {
		data, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse credentials: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	} else if len(opts) == 0 {
		client, err := google.DefaultClient(ctx, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("failed to load default credentials: %w", err)
		}
		opts = append(opts, option.WithHTTPClient(client))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return svc, nil
}

// Client wraps one spreadsheet.
type Client struct {
	service       *sheets.Service
	spreadsheetID string
}

func New(service *sheets.Service, spreadsheetID string) *Client {
	return &Client{service: service, spreadsheetID: spreadsheetID}
}

// ensureSheet adds the worksheet when missing and writes its header when empty.
func (c *Client) ensureSheet(ctx context.Context, title string, header []string) error {
	ss, err := c.service.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return surveyerr.NewStorageError("failed to get spreadsheet", err)
	}

	found := false
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			found = true
			break
		}
	}
	if !found {
		_, err := c.service.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: title},
				},
			}},
		}).Context(ctx).Do()
		if err != nil {
			return surveyerr.NewStorageError("failed to add worksheet "+title, err)
		}
	}

	rows, err := c.rows(ctx, title)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return c.appendRow(ctx, title, header)
	}
	return nil
}

func (c *Client) rows(ctx context.Context, title string) ([][]string, error) {
	vr, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, title).Context(ctx).Do()
	if err != nil {
		return nil, surveyerr.NewStorageError("failed to read worksheet "+title, err)
	}

	rows := make([][]string, 0, len(vr.Values))
	for _, cells := range vr.Values {
		row := make([]string, len(cells))
		for i, cell := range cells {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *Client) appendRow(ctx context.Context, title string, row []string) error {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}

	_, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, title, &sheets.ValueRange{
		Values: [][]interface{}{cells},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return surveyerr.NewStorageError("failed to append to worksheet "+title, err)
	}
	return nil
}

// AnswerStore appends one row per answered question to the Responses worksheet.
type AnswerStore struct {
	client *Client
	schema *poll.Schema
	now    func() time.Time
}

func NewAnswerStore(client *Client, schema *poll.Schema) *AnswerStore {
	return &AnswerStore{client: client, schema: schema, now: time.Now}
}

// WithClock replaces the timestamp source, for tests.
func (s *AnswerStore) WithClock(now func() time.Time) *AnswerStore {
	s.now = now
	return s
}

func (s *AnswerStore) Initialize(ctx context.Context) error {
	return s.client.ensureSheet(ctx, ResponsesSheet, responsesHeader)
}

func (s *AnswerStore) Append(ctx context.Context, respondentID, questionID, answer string) error {
	if err := s.schema.Check(questionID, answer); err != nil {
		return err
	}
	ts := s.now().UTC().Format(time.RFC3339Nano)
	return s.client.appendRow(ctx, ResponsesSheet, []string{respondentID, ts, questionID, answer})
}

func (s *AnswerStore) LoadAll(ctx context.Context) ([]models.Record, error) {
	rows, err := s.client.rows(ctx, ResponsesSheet)
	if err != nil {
		return nil, err
	}

	records := []models.Record{}
	if len(rows) == 0 {
		return records, nil
	}

	header := rows[0]
	col := func(name string) int { return slices.Index(header, name) }
	respCol, tsCol, qCol, aCol := col("respondent_id"), col("timestamp"), col("question_id"), col("answer")
	if tsCol < 0 || qCol < 0 || aCol < 0 {
		return nil, surveyerr.NewStorageError("corrupt header in worksheet "+ResponsesSheet, fmt.Errorf("header %v", header))
	}

	// Sheets drops trailing empty cells, so short rows read as empty strings
	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}
	for i, row := range rows[1:] {
		ts, err := time.Parse(time.RFC3339Nano, cell(row, tsCol))
		if err != nil {
			return nil, surveyerr.NewStorageError(fmt.Sprintf("corrupt row %d in worksheet %s", i+2, ResponsesSheet), err)
		}
		records = append(records, models.Record{
			RespondentID: cell(row, respCol),
			Timestamp:    ts,
			QuestionID:   cell(row, qCol),
			Answer:       cell(row, aCol),
		})
	}
	return records, nil
}

// Guard keeps one row per completed respondent in the Submissions worksheet.
type Guard struct {
	mu     sync.Mutex
	client *Client
}

func NewGuard(client *Client) *Guard {
	return &Guard{client: client}
}

func (g *Guard) Initialize(ctx context.Context) error {
	return g.client.ensureSheet(ctx, SubmissionsSheet, submissionsHeader)
}

func (g *Guard) HasSubmitted(ctx context.Context, respondentID string) (bool, error) {
	rows, err := g.client.rows(ctx, SubmissionsSheet)
	if err != nil {
		return false, err
	}
	for i, row := range rows {
		if i > 0 && len(row) > 0 && row[0] == respondentID {
			return true, nil
		}
	}
	return false, nil
}

// MarkSubmitted is check-then-append, serialized within this process.
func (g *Guard) MarkSubmitted(ctx context.Context, respondentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	found, err := g.HasSubmitted(ctx, respondentID)
	if err != nil {
		return err
	}
	if found {
		return nil
	}
	return g.client.appendRow(ctx, SubmissionsSheet, []string{respondentID})
}
