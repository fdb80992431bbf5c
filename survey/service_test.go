package survey

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	_ "modernc.org/sqlite"

	"github.com/JayRathod341997/poll-quiz/db"
	"github.com/JayRathod341997/poll-quiz/metrics"
	"github.com/JayRathod341997/poll-quiz/models"
	"github.com/JayRathod341997/poll-quiz/poll"
	"github.com/JayRathod341997/poll-quiz/surveyerr"
)

// fakeStore keeps records in memory and fails on demand.
type fakeStore struct {
	mu        sync.Mutex
	records   []models.Record
	loadErr   error
	appendErr error
	failAfter int // appends that succeed before appendErr is returned
	appends   int
}

func (f *fakeStore) Initialize(ctx context.Context) error { return nil }

func (f *fakeStore) Append(ctx context.Context, respondentID, questionID, answer string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appends++
	if f.appendErr != nil && f.appends > f.failAfter {
		return f.appendErr
	}
	f.records = append(f.records, models.Record{
		RespondentID: respondentID,
		Timestamp:    time.Now().UTC(),
		QuestionID:   questionID,
		Answer:       answer,
	})
	return nil
}

func (f *fakeStore) LoadAll(ctx context.Context) ([]models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]models.Record(nil), f.records...), nil
}

type failingGuard struct{ err error }

func (g failingGuard) Initialize(ctx context.Context) error { return nil }
func (g failingGuard) HasSubmitted(ctx context.Context, id string) (bool, error) {
	return false, g.err
}
func (g failingGuard) MarkSubmitted(ctx context.Context, id string) error { return g.err }

func allAnswers() map[string]string {
	return map[string]string{
		"q1": "Python",
		"q2": "Daily",
		"q3": "VSCode",
		"q4": "AI/ML",
		"q5": "Docs",
		"q6": "4-6",
		"q7": "Go",
	}
}

func sqliteService(t *testing.T, opts ...Option) (*Service, *sql.DB) {
	t.Helper()

	conn, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "poll.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	schema := poll.Default()
	svc := NewService(schema,
		db.NewAnswerStore(conn, db.DialectSQLite, schema),
		db.NewGuard(conn, db.DialectSQLite),
		opts...)
	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return svc, conn
}

func TestSubmit_EndToEnd(t *testing.T) {
	svc, conn := sqliteService(t)
	ctx := context.Background()

	state, err := svc.Status(ctx, "u1")
	if err != nil || state != models.StateNotSubmitted {
		t.Fatalf("Status() = %q, %v, want not_submitted", state, err)
	}

	got, err := svc.Submit(ctx, "u1", allAnswers())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got.State != models.StateSubmitted || got.Message != MessageThanks || got.Answers != 7 {
		t.Errorf("Submit() = %+v", got)
	}

	_, err = svc.Submit(ctx, "u1", allAnswers())
	if !errors.Is(err, surveyerr.ErrDuplicateSubmission) {
		t.Fatalf("second Submit() error = %v, want ErrDuplicateSubmission", err)
	}

	var rows int
	if err := conn.QueryRow("SELECT COUNT(*) FROM response WHERE respondent_id = ?", "u1").Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != 7 {
		t.Errorf("stored rows = %d, want 7", rows)
	}

	state, _ = svc.Status(ctx, "u1")
	if state != models.StateSubmitted {
		t.Errorf("Status() after submit = %q, want submitted", state)
	}

	results, err := NewAggregator(svc.Schema(), db.NewAnswerStore(conn, db.DialectSQLite, svc.Schema()), nil).Aggregate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	q7, _ := results.SeriesFor("q7")
	if q7.Count("Go") != 1 || q7.Total != 1 {
		t.Errorf("q7 = %+v, want Go:1", q7.Counts)
	}
}

func TestSubmit_StoresInSchemaOrder(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(poll.Default(), store, NewSessionGuard())

	if _, err := svc.Submit(context.Background(), "u1", allAnswers()); err != nil {
		t.Fatal(err)
	}
	for i, r := range store.records {
		want := poll.Default().Questions()[i].ID
		if r.QuestionID != want {
			t.Errorf("record %d question = %s, want %s", i, r.QuestionID, want)
		}
	}
}

func TestSubmit_ValidationLeavesStoreUntouched(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"missing answer", func(a map[string]string) { delete(a, "q4") }},
		{"empty answer", func(a map[string]string) { a["q4"] = "" }},
		{"value not offered", func(a map[string]string) { a["q1"] = "Rust" }},
		{"unknown question", func(a map[string]string) { a["q99"] = "x" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			guard := NewSessionGuard()
			reg := prometheus.NewRegistry()
			svc := NewService(poll.Default(), store, guard, WithMetrics(metrics.New(reg)))

			answers := allAnswers()
			tt.mutate(answers)

			_, err := svc.Submit(context.Background(), "u1", answers)
			if !errors.Is(err, surveyerr.ErrValidation) {
				t.Fatalf("Submit() error = %v, want ErrValidation", err)
			}
			if len(surveyerr.Problems(err)) == 0 {
				t.Error("expected validation problems to be reported")
			}
			if len(store.records) != 0 {
				t.Errorf("stored %d records, want 0", len(store.records))
			}
			if done, _ := guard.HasSubmitted(context.Background(), "u1"); done {
				t.Error("respondent marked submitted after a rejected submission")
			}
		})
	}
}

func TestSubmit_StorageFailureDoesNotMark(t *testing.T) {
	store := &fakeStore{appendErr: surveyerr.NewStorageError("disk full", errors.New("ENOSPC")), failAfter: 3}
	guard := NewSessionGuard()
	reg := prometheus.NewRegistry()
	svc := NewService(poll.Default(), store, guard, WithMetrics(metrics.New(reg)))

	_, err := svc.Submit(context.Background(), "u1", allAnswers())
	if !errors.Is(err, surveyerr.ErrStorageUnavailable) {
		t.Fatalf("Submit() error = %v, want ErrStorageUnavailable", err)
	}
	if done, _ := guard.HasSubmitted(context.Background(), "u1"); done {
		t.Error("respondent marked submitted after a storage failure")
	}
	if n, err := testutil.GatherAndCount(reg, "pollquiz_storage_errors_total"); err != nil || n != 1 {
		t.Errorf("storage error series = %d, %v, want 1", n, err)
	}

	// Retrying once storage recovers succeeds.
	store.appendErr = nil
	if _, err := svc.Submit(context.Background(), "u1", allAnswers()); err != nil {
		t.Errorf("retry Submit() error = %v", err)
	}
}

func TestSubmit_GuardUnavailable(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(poll.Default(), store, failingGuard{err: surveyerr.NewStorageError("guard", errors.New("down"))})

	_, err := svc.Submit(context.Background(), "u1", allAnswers())
	if !errors.Is(err, surveyerr.ErrStorageUnavailable) {
		t.Errorf("Submit() error = %v, want ErrStorageUnavailable", err)
	}
	if len(store.records) != 0 {
		t.Errorf("stored %d records with the guard down", len(store.records))
	}
	if _, err := svc.Status(context.Background(), "u1"); !errors.Is(err, surveyerr.ErrStorageUnavailable) {
		t.Errorf("Status() error = %v, want ErrStorageUnavailable", err)
	}
}

func TestSubmit_EmptyRespondent(t *testing.T) {
	svc := NewService(poll.Default(), &fakeStore{}, NewSessionGuard())

	_, err := svc.Submit(context.Background(), "", allAnswers())
	if !errors.Is(err, surveyerr.ErrValidation) {
		t.Errorf("Submit() error = %v, want ErrValidation", err)
	}
}

func TestOpen(t *testing.T) {
	svc := NewService(poll.Default(), &fakeStore{}, NewSessionGuard())
	ctx := context.Background()

	form, err := svc.Open(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if form.State != models.StateSubmitting || len(form.Questions) != 7 {
		t.Errorf("Open() before submit = %+v", form)
	}

	if _, err := svc.Submit(ctx, "u1", allAnswers()); err != nil {
		t.Fatal(err)
	}

	form, err = svc.Open(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if form.State != models.StateSubmitted || form.Message != MessageAlreadySubmitted {
		t.Errorf("Open() after submit = %+v", form)
	}
	if len(form.Questions) != 0 {
		t.Errorf("Open() after submit returned %d questions, want none", len(form.Questions))
	}
}

func TestSubmit_Anonymous(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(poll.Default(), store, NewSessionGuard(), Anonymous())
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "session-1", allAnswers()); err != nil {
		t.Fatal(err)
	}
	for _, r := range store.records {
		if r.RespondentID != "" {
			t.Fatalf("anonymous record carries respondent id %q", r.RespondentID)
		}
	}

	if _, err := svc.Submit(ctx, "session-1", allAnswers()); !errors.Is(err, surveyerr.ErrDuplicateSubmission) {
		t.Errorf("second anonymous Submit() error = %v, want ErrDuplicateSubmission", err)
	}
	if _, err := svc.Submit(ctx, "session-2", allAnswers()); err != nil {
		t.Errorf("other session Submit() error = %v", err)
	}
	if len(store.records) != 14 {
		t.Errorf("stored %d records, want 14", len(store.records))
	}
}

func TestSubmit_ConcurrentDuplicates(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(poll.Default(), store, NewSessionGuard())

	const workers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dupes     int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(context.Background(), "u1", allAnswers())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, surveyerr.ErrDuplicateSubmission):
				dupes++
			default:
				t.Errorf("Submit() unexpected error = %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 || dupes != workers-1 {
		t.Errorf("successes = %d, duplicates = %d, want 1 and %d", successes, dupes, workers-1)
	}
	if len(store.records) != 7 {
		t.Errorf("stored %d records, want 7", len(store.records))
	}
}
