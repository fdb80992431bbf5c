// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db stores survey answers and submission markers in SQL tables.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, db.DialectSQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Dialects

Two drivers are supported:

  - sqlite: modernc.org/sqlite (pure Go, default)
  - postgres: github.com/lib/pq

Queries are written with ? placeholders and rebound to $n for postgres.

# Tables

  - response: one row per answered question (respondent_id, submitted_at, question_id, answer)
  - submission: one row per respondent who completed the survey

Storage order is the response.id autoincrement.

# Stores

	store := db.NewAnswerStore(conn, db.DialectSQLite, schema)
	guard := db.NewGuard(conn, db.DialectSQLite)

AnswerStore validates every answer against the poll schema before inserting.
Guard.MarkSubmitted is idempotent (ON CONFLICT DO NOTHING).
*/
package db
