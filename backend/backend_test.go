package backend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/api/option"

	"github.com/JayRathod341997/poll-quiz/cliparse"
	"github.com/JayRathod341997/poll-quiz/csvstore"
	"github.com/JayRathod341997/poll-quiz/db"
	"github.com/JayRathod341997/poll-quiz/poll"
	"github.com/JayRathod341997/poll-quiz/sheetstore"
	"github.com/JayRathod341997/poll-quiz/survey"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := cliparse.Storage{
		Backend:     cliparse.BackendSQLite,
		DatabaseURL: "file:" + filepath.Join(t.TempDir(), "poll.db"),
	}

	b, err := Open(ctx, cfg, poll.Default(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer b.Close()

	if _, ok := b.Store.(*db.AnswerStore); !ok {
		t.Errorf("Store = %T, want *db.AnswerStore", b.Store)
	}
	if _, ok := b.Guard.(*db.Guard); !ok {
		t.Errorf("Guard = %T, want *db.Guard", b.Guard)
	}

	svc := survey.NewService(poll.Default(), b.Store, b.Guard)
	if err := svc.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	records, err := b.Store.LoadAll(ctx)
	if err != nil || len(records) != 0 {
		t.Errorf("LoadAll() = %d records, %v; want empty", len(records), err)
	}
}

func TestOpen_CSV(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	b, err := Open(ctx, cliparse.Storage{Backend: cliparse.BackendCSV, CSVDir: dir}, poll.Default(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, ok := b.Store.(*csvstore.AnswerStore); !ok {
		t.Errorf("Store = %T, want *csvstore.AnswerStore", b.Store)
	}
	if _, ok := b.Guard.(*csvstore.Guard); !ok {
		t.Errorf("Guard = %T, want *csvstore.Guard", b.Guard)
	}
	if err := b.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if err := b.Store.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, ResponsesFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "respondent_id,") {
		t.Errorf("header = %q, want respondent column first", data)
	}
}

func TestOpen_CSVAnonymous(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b, err := Open(ctx, cliparse.Storage{Backend: cliparse.BackendCSV, CSVDir: dir}, poll.Default(), true)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, ok := b.Guard.(*survey.SessionGuard); !ok {
		t.Errorf("Guard = %T, want *survey.SessionGuard", b.Guard)
	}

	if err := b.Store.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, ResponsesFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "timestamp,question_id,answer") {
		t.Errorf("header = %q, want anonymous layout", data)
	}
}

func TestOpen_Sheets(t *testing.T) {
	cfg := cliparse.Storage{Backend: cliparse.BackendSheets, SheetID: "sheet-1"}

	b, err := Open(context.Background(), cfg, poll.Default(), false,
		option.WithEndpoint("http://127.0.0.1:1/"), option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, ok := b.Store.(*sheetstore.AnswerStore); !ok {
		t.Errorf("Store = %T, want *sheetstore.AnswerStore", b.Store)
	}
	if _, ok := b.Guard.(*sheetstore.Guard); !ok {
		t.Errorf("Guard = %T, want *sheetstore.Guard", b.Guard)
	}
}

func TestOpen_SheetsMissingCredentials(t *testing.T) {
	cfg := cliparse.Storage{
		Backend:         cliparse.BackendSheets,
		SheetID:         "sheet-1",
		CredentialsFile: filepath.Join(t.TempDir(), "missing.json"),
	}
	if _, err := Open(context.Background(), cfg, poll.Default(), false); err == nil {
		t.Error("expected error for unreadable credentials file")
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), cliparse.Storage{Backend: "mongo"}, poll.Default(), false); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestLoadSchema(t *testing.T) {
	schema, err := LoadSchema("")
	if err != nil {
		t.Fatal(err)
	}
	if schema.Title() != poll.DefaultTitle {
		t.Errorf("Title() = %q, want default", schema.Title())
	}

	path := filepath.Join(t.TempDir(), "poll.yaml")
	yaml := "title: Lunch\nquestions:\n  - id: food\n    prompt: What for lunch?\n    options: [Pizza, Salad]\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	schema, err = LoadSchema(path)
	if err != nil {
		t.Fatalf("LoadSchema() error = %v", err)
	}
	if schema.Title() != "Lunch" || schema.Len() != 1 {
		t.Errorf("LoadSchema() = %q with %d questions", schema.Title(), schema.Len())
	}

	if _, err := LoadSchema(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing schema file")
	}
}
