// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package backend opens the answer store and submission guard selected by
// configuration.
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	"google.golang.org/api/option"
	_ "modernc.org/sqlite"

	"github.com/JayRathod341997/poll-quiz/cliparse"
	"github.com/JayRathod341997/poll-quiz/csvstore"
	"github.com/JayRathod341997/poll-quiz/db"
	"github.com/JayRathod341997/poll-quiz/poll"
	"github.com/JayRathod341997/poll-quiz/sheetstore"
	"github.com/JayRathod341997/poll-quiz/survey"
)

const (
	ResponsesFile   = "responses.csv"
	SubmissionsFile = "submissions.csv"
)

// Backend holds an opened store and guard. Close releases the connection, if any.
type Backend struct {
	Store survey.AnswerStore
	Guard survey.Guard
	close func() error
}

func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open connects to the configured storage. In anonymous mode the guard is a
// survey.SessionGuard regardless of the backend.
// Extra Sheets client options are passed through to the sheets backend.
func Open(ctx context.Context, cfg cliparse.Storage, schema *poll.Schema, anonymous bool, sheetOpts ...option.ClientOption) (*Backend, error) {
	var b *Backend
	var err error

	switch cfg.Backend {
	case cliparse.BackendSQLite:
		b, err = openSQL(db.DialectSQLite, cfg.DatabaseURL, schema)
	case cliparse.BackendPostgres:
		b, err = openSQL(db.DialectPostgres, cfg.DatabaseURL, schema)
	case cliparse.BackendCSV:
		b, err = openCSV(cfg.CSVDir, schema, anonymous)
	case cliparse.BackendSheets:
		b, err = openSheets(ctx, cfg, schema, sheetOpts)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if anonymous {
		b.Guard = survey.NewSessionGuard()
	}
	slog.Info("storage opened", "backend", cfg.Backend, "anonymous", anonymous)
	return b, nil
}

func openSQL(dialect db.Dialect, url string, schema *poll.Schema) (*Backend, error) {
	conn, err := sql.Open(dialect.DriverName(), url)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if dialect == db.DialectSQLite {
		// SQLite allows a single writer
		conn.SetMaxOpenConns(1)
	}
	return &Backend{
		Store: db.NewAnswerStore(conn, dialect, schema),
		Guard: db.NewGuard(conn, dialect),
		close: conn.Close,
	}, nil
}

func openCSV(dir string, schema *poll.Schema, anonymous bool) (*Backend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create csv directory: %w", err)
	}
	var opts []csvstore.Option
	if anonymous {
		opts = append(opts, csvstore.WithoutRespondent())
	}
	return &Backend{
		Store: csvstore.NewAnswerStore(filepath.Join(dir, ResponsesFile), schema, opts...),
		Guard: csvstore.NewGuard(filepath.Join(dir, SubmissionsFile)),
	}, nil
}

func openSheets(ctx context.Context, cfg cliparse.Storage, schema *poll.Schema, opts []option.ClientOption) (*Backend, error) {
	svc, err := sheetstore.NewService(ctx, cfg.CredentialsFile, opts...)
	if err != nil {
		return nil, err
	}
	client := sheetstore.New(svc, cfg.SheetID)
	return &Backend{
		Store: sheetstore.NewAnswerStore(client, schema),
		Guard: sheetstore.NewGuard(client),
	}, nil
}

// LoadSchema reads the poll schema from path, or returns the built-in
// developer poll when path is empty.
func LoadSchema(path string) (*poll.Schema, error) {
	if path == "" {
		return poll.Default(), nil
	}
	schema, err := poll.LoadFile(path)
	if err != nil {
		return nil, err
	}
	slog.Info("poll schema loaded", "path", path, "questions", schema.Len())
	return schema, nil
}
