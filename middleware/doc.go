// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs completion with method, path, status, duration_ms and the chi request id
(set by chi's RequestID middleware in the router).

# CORS Middleware

Enable cross-origin requests for the form frontend:

	handler := middleware.CORS(cfg.CORSOrigin)(mux)

An empty origin reflects the request's Origin header. Allows GET, POST and
OPTIONS with headers Content-Type, X-Respondent-Token and X-Admin-Key.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.ErrorResponseWithDetails(w, http.StatusBadRequest, "invalid answers", problems)

Parse JSON request bodies:

	var req models.SubmitRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
