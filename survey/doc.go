// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package survey implements the submission and aggregation pipeline.

# Storage

AnswerStore and Guard abstract the backing medium. Implementations live in
db (SQLite/PostgreSQL), csvstore (flat files) and sheetstore (Google Sheets).
SessionGuard is an in-memory Guard for the anonymous mode.

# Submission Flow

A respondent moves through not_submitted → submitting → submitted:

	svc := survey.NewService(schema, store, guard, survey.WithMetrics(m))
	form, err := svc.Open(ctx, respondentID)       // questions, or acknowledgment
	receipt, err := svc.Submit(ctx, respondentID, answers)

Submit holds a mutex for the whole check → append → mark sequence, so two
requests in one process cannot both record answers for the same respondent.
The guard is re-read on every call; nothing is cached per process.

# Aggregation

	agg := survey.NewAggregator(schema, store, m)
	results, err := agg.Aggregate(ctx)

Every allowed value gets a count (zero included) in the schema's option order.
Tally is the pure function behind Aggregate.
*/
package survey
