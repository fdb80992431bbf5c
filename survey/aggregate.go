// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JayRathod341997/poll-quiz/metrics"
	"github.com/JayRathod341997/poll-quiz/models"
	"github.com/JayRathod341997/poll-quiz/poll"
)

// Aggregator turns the stored records into per-question count series.
type Aggregator struct {
	schema  *poll.Schema
	store   AnswerStore
	metrics *metrics.Metrics
}

func NewAggregator(schema *poll.Schema, store AnswerStore, m *metrics.Metrics) *Aggregator {
	return &Aggregator{schema: schema, store: store, metrics: m}
}

func (a *Aggregator) Schema() *poll.Schema {
	return a.schema
}

// Aggregate reloads the whole table and tallies it. Storage errors are returned,
// never replaced by empty results.
func (a *Aggregator) Aggregate(ctx context.Context) (models.Results, error) {
	records, err := a.store.LoadAll(ctx)
	if err != nil {
		a.metrics.StorageFailed("aggregate")
		return models.Results{}, fmt.Errorf("failed to load responses: %w", err)
	}
	return Tally(a.schema, records), nil
}

// Records returns the raw table, unfiltered.
func (a *Aggregator) Records(ctx context.Context) ([]models.Record, error) {
	records, err := a.store.LoadAll(ctx)
	if err != nil {
		a.metrics.StorageFailed("export")
		return nil, fmt.Errorf("failed to load responses: %w", err)
	}
	return records, nil
}

// Tally counts every allowed value of every question, in schema order.
// Values never chosen count zero. Records whose question or value is not in
// the schema are skipped.
func Tally(schema *poll.Schema, records []models.Record) models.Results {
	questions := schema.Questions()

	counts := make(map[string]map[string]int, len(questions))
	for _, q := range questions {
		counts[q.ID] = make(map[string]int, len(q.Options))
	}

	results := models.Results{Title: schema.Title()}
	respondents := map[string]bool{}
	skipped := 0
	for _, rec := range records {
		byValue, ok := counts[rec.QuestionID]
		if !ok || !schema.MustLookup(rec.QuestionID).Allows(rec.Answer) {
			skipped++
			continue
		}
		byValue[rec.Answer]++
		results.Responses++
		if rec.RespondentID != "" {
			respondents[rec.RespondentID] = true
		}
		if results.LastResponseAt == nil || rec.Timestamp.After(*results.LastResponseAt) {
			ts := rec.Timestamp
			results.LastResponseAt = &ts
		}
	}
	if skipped > 0 {
		slog.Debug("skipped records outside the poll schema", "count", skipped)
	}
	results.Respondents = len(respondents)

	results.Series = make([]models.Series, 0, len(questions))
	for _, q := range questions {
		series := models.Series{
			QuestionID: q.ID,
			Title:      q.Title(),
			Prompt:     q.Prompt,
			Chart:      q.Chart,
			Counts:     make([]models.ValueCount, len(q.Options)),
		}
		for i, opt := range q.Options {
			n := counts[q.ID][opt]
			series.Counts[i] = models.ValueCount{Value: opt, Count: n}
			series.Total += n
		}
		results.Series = append(results.Series, series)
	}

	return results
}
