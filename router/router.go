// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JayRathod341997/poll-quiz/cliparse"
	"github.com/JayRathod341997/poll-quiz/handlers"
	"github.com/JayRathod341997/poll-quiz/middleware"
	"github.com/JayRathod341997/poll-quiz/survey"
)

func NewRouter(svc *survey.Service, agg *survey.Aggregator, cfg cliparse.Config, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	respondentHandler := handlers.NewRespondentHandler(cfg)
	surveyHandler := handlers.NewSurveyHandler(svc, cfg)
	resultsHandler := handlers.NewResultsHandler(agg, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Respondent identity
	mux.HandleFunc("POST /respondents", middleware.WithLogging(respondentHandler.Register))

	// Survey (requires respondent token except GET /poll)
	mux.HandleFunc("GET /poll", middleware.WithLogging(surveyHandler.GetPoll))
	mux.HandleFunc("GET /form", middleware.WithLogging(surveyHandler.GetForm))
	mux.HandleFunc("GET /responses/status", middleware.WithLogging(surveyHandler.GetStatus))
	mux.HandleFunc("POST /responses", middleware.WithLogging(surveyHandler.Submit))

	// Results (public, raw export needs X-Admin-Key)
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /results/raw", middleware.WithLogging(resultsHandler.GetRaw))
	mux.HandleFunc("GET /dashboard", middleware.WithLogging(resultsHandler.GetDashboard))

	// Prometheus scrape endpoint
	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("poll-quiz API v1"))
	})

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.CORSOrigin)(handler)
	handler = chimw.Recoverer(handler)
	handler = chimw.RealIP(handler)
	handler = chimw.RequestID(handler)
	return handler
}
