// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the poll-quiz API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints and wraps it
with request id, real IP, panic recovery and CORS middleware:

	handler := router.NewRouter(svc, agg, cfg, registry)

# Endpoints

Health:

	GET /health

Respondent identity:

	POST /respondents - Issue or confirm a respondent token

Survey (requires X-Respondent-Token or the respondent cookie):

	GET  /poll              - Poll title and questions (public)
	GET  /form              - Form, or acknowledgment once submitted
	GET  /responses/status  - Submission state
	POST /responses         - Submit all answers

Results:

	GET /results     - Per-question counts
	GET /results/raw - Raw records, JSON or CSV (requires X-Admin-Key)
	GET /dashboard   - HTML charts

Metrics:

	GET /metrics - Prometheus exposition, when a gatherer is given
*/
package router
