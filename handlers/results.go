// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/JayRathod341997/poll-quiz/auth"
	"github.com/JayRathod341997/poll-quiz/charts"
	"github.com/JayRathod341997/poll-quiz/cliparse"
	"github.com/JayRathod341997/poll-quiz/csvstore"
	"github.com/JayRathod341997/poll-quiz/middleware"
	"github.com/JayRathod341997/poll-quiz/models"
	"github.com/JayRathod341997/poll-quiz/survey"
)

type ResultsHandler struct {
	agg *survey.Aggregator
	cfg cliparse.Config
}

func NewResultsHandler(agg *survey.Aggregator, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{agg: agg, cfg: cfg}
}

// GetResults handles GET /results
// Returns one count series per question, zero-filled, in schema order
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.agg.Aggregate(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to aggregate results", "")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, results)
}

// GetRaw handles GET /results/raw
// Returns the stored records verbatim as JSON, or CSV with ?format=csv.
// Requires X-Admin-Key when an admin key is configured
func (h *ResultsHandler) GetRaw(w http.ResponseWriter, r *http.Request) {
	if err := auth.ValidateAdminKey(r.Header.Get(AdminKeyHeader), h.cfg.AdminKey); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "format must be json or csv")
		return
	}

	records, err := h.agg.Records(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to export responses", "")
		return
	}

	if format == "csv" {
		var buf bytes.Buffer
		if err := csvstore.WriteRecords(&buf, records); err != nil {
			slog.Error("failed to encode CSV export", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to export responses")
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="responses.csv"`)
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RawResponse{
		Records: records,
		Count:   len(records),
	})
}

// GetDashboard handles GET /dashboard
// Renders one chart per question. A storage error is a 503, never an empty dashboard
func (h *ResultsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	results, err := h.agg.Aggregate(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to aggregate results", "")
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderDashboard(&buf, results); err != nil {
		slog.Error("failed to render dashboard", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to render dashboard")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
