// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the poll-quiz API.

# Handler Types

Each handler is a struct with its service and config dependencies:

  - RespondentHandler: Respondent identity (signed token and cookie)
  - SurveyHandler: Poll definition, form, status and submission
  - ResultsHandler: Aggregated results, raw export and chart dashboard

Handlers are created via constructor functions:

	surveyHandler := handlers.NewSurveyHandler(svc, cfg)
	resultsHandler := handlers.NewResultsHandler(agg, cfg)

# Respondent Identity

	POST /respondents → Register (returns token, sets cookie)

The token is "<uuid>.<hmac>" signed with SESSION_SALT. It is read from the
X-Respondent-Token header first, then from the respondent cookie.

# Submission Flow

	GET  /poll              → GetPoll
	GET  /form              → GetForm (questions, or read-only acknowledgment)
	GET  /responses/status  → GetStatus
	POST /responses         → Submit

Submit answers all questions at once. Status codes:

	201 stored
	200 already submitted, nothing stored
	400 invalid answers (details lists every problem)
	401 missing or invalid respondent token
	503 storage unavailable

# Results

	GET /results     → GetResults (zero-filled count series)
	GET /results/raw → GetRaw (JSON or ?format=csv, requires X-Admin-Key)
	GET /dashboard   → GetDashboard (HTML charts)
*/
package handlers
