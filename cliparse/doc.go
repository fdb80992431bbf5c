// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns the server Config, ParseReportFlags the pollreport one:

	if err := cliparse.LoadDotEnv(); err != nil { ... }   // optional .env
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p             Server port (default: 3318)
	-backend       sqlite, postgres, csv or sheets (default: sqlite)
	-d             Database URL (default for sqlite: file:poll.db)
	-csv-dir       Directory holding responses.csv and submissions.csv
	-sheet-id      Google Sheets spreadsheet id
	-credentials   Service account JSON (default: application default credentials)
	-schema        Poll schema YAML file (default: built-in developer poll)
	-session-salt  Respondent token salt
	-admin-key     Admin key for the raw export
	-anonymous     Store answers without respondent ids
	-cors-origin   Allowed CORS origin
	-log-level     debug, info, warn or error

# Environment Variables

Flags fall back to environment variables:

	PORT               → -p
	STORAGE_BACKEND    → -backend
	DATABASE_URL       → -d
	CSV_DIR            → -csv-dir
	SHEET_ID           → -sheet-id
	GOOGLE_CREDENTIALS → -credentials
	POLL_SCHEMA        → -schema
	SESSION_SALT       → -session-salt
	ADMIN_KEY          → -admin-key
	ANONYMOUS          → -anonymous
	CORS_ORIGIN        → -cors-origin
	LOG_LEVEL          → -log-level

CLI flags take precedence over environment variables, which take precedence
over a .env file.

# Validation

ParseFlags returns an error if:

  - SESSION_SALT is missing
  - the backend is unknown
  - postgres has no DATABASE_URL
  - sheets has no SHEET_ID
*/
package cliparse
