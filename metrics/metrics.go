// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes Prometheus counters for the submission flow.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	submissions        prometheus.Counter
	duplicates         prometheus.Counter
	validationFailures prometheus.Counter
	storageErrors      *prometheus.CounterVec
	answers            *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		submissions: f.NewCounter(prometheus.CounterOpts{
			Namespace: "pollquiz",
			Name:      "submissions_total",
			Help:      "Completed survey submissions.",
		}),
		duplicates: f.NewCounter(prometheus.CounterOpts{
			Namespace: "pollquiz",
			Name:      "duplicate_submissions_total",
			Help:      "Submissions refused because the respondent already submitted.",
		}),
		validationFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "pollquiz",
			Name:      "validation_failures_total",
			Help:      "Submissions rejected by answer validation.",
		}),
		storageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pollquiz",
			Name:      "storage_errors_total",
			Help:      "Operations aborted because the backing store was unavailable.",
		}, []string{"op"}),
		answers: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pollquiz",
			Name:      "answers_total",
			Help:      "Stored answers by question and value.",
		}, []string{"question", "answer"}),
	}
}

func (m *Metrics) Submitted(answers map[string]string) {
	if m == nil {
		return
	}
	m.submissions.Inc()
	for q, a := range answers {
		m.answers.WithLabelValues(q, a).Inc()
	}
}

func (m *Metrics) Duplicate() {
	if m == nil {
		return
	}
	m.duplicates.Inc()
}

func (m *Metrics) ValidationFailed() {
	if m == nil {
		return
	}
	m.validationFailures.Inc()
}

// StorageFailed counts a storage error for op (submit, status, aggregate).
func (m *Metrics) StorageFailed(op string) {
	if m == nil {
		return
	}
	m.storageErrors.WithLabelValues(op).Inc()
}
