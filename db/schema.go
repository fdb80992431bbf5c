// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects driver-specific DDL and placeholders.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DriverName returns the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect Dialect) error {
	stmts := sqliteSchema
	if dialect == DialectPostgres {
		stmts = postgresSchema
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// rebind rewrites ? placeholders to $n for postgres
func rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS response (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		respondent_id TEXT NOT NULL DEFAULT '',
		submitted_at TIMESTAMP NOT NULL,
		question_id TEXT NOT NULL,
		answer TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_response_question_id ON response(question_id)`,
	`CREATE INDEX IF NOT EXISTS idx_response_respondent_id ON response(respondent_id)`,
	`CREATE TABLE IF NOT EXISTS submission (
		respondent_id TEXT PRIMARY KEY,
		submitted_at TIMESTAMP NOT NULL
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS response (
		id BIGSERIAL PRIMARY KEY,
		respondent_id TEXT NOT NULL DEFAULT '',
		submitted_at TIMESTAMP NOT NULL DEFAULT NOW(),
		question_id TEXT NOT NULL,
		answer TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_response_question_id ON response(question_id)`,
	`CREATE INDEX IF NOT EXISTS idx_response_respondent_id ON response(respondent_id)`,
	`CREATE TABLE IF NOT EXISTS submission (
		respondent_id TEXT PRIMARY KEY,
		submitted_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,
}
