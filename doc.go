// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the poll-quiz API server.

poll-quiz serves a fixed multiple-choice poll, accepts one complete answer
set per respondent, and reports per-question counts as JSON, CSV, HTML
charts and Prometheus metrics.

# Starting the Server

	SESSION_SALT=change-me go run .

Or with flags:

	go run . -p 3318 -session-salt change-me -backend csv -csv-dir ./data

Variables from a .env file in the working directory are loaded first;
flags win over the environment.

# Configuration

Required settings:

  - SESSION_SALT (-session-salt): Secret for respondent token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - STORAGE_BACKEND (-backend): sqlite, postgres, csv or sheets (default: sqlite)
  - DATABASE_URL (-d): SQL connection string (default: file:poll.db)
  - CSV_DIR (-csv-dir): Directory for responses.csv and submissions.csv
  - SHEET_ID (-sheet-id), GOOGLE_CREDENTIALS (-credentials): Google Sheets
  - POLL_SCHEMA (-schema): YAML poll definition (default: built-in developer poll)
  - ANONYMOUS (-anonymous): Store answers without respondent ids
  - ADMIN_KEY (-admin-key): Protects GET /results/raw
  - CORS_ORIGIN (-cors-origin): Allowed browser origin
  - LOG_LEVEL (-log-level): debug, info, warn or error

# Architecture

  - handlers: HTTP request handlers (respondents, survey, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - survey: Submission flow and aggregation
  - poll: Question schema and validation
  - db, csvstore, sheetstore: Storage backends
  - backend: Backend selection
  - charts, report: HTML dashboard and terminal report
  - metrics: Prometheus counters
  - auth: Respondent tokens and admin key check
  - cliparse: Configuration parsing

The terminal report lives in cmd/pollreport.
*/
package main
