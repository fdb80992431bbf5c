// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JayRathod341997/poll-quiz/cliparse"
	"github.com/JayRathod341997/poll-quiz/middleware"
	"github.com/JayRathod341997/poll-quiz/models"
	"github.com/JayRathod341997/poll-quiz/survey"
	"github.com/JayRathod341997/poll-quiz/surveyerr"
)

type SurveyHandler struct {
	svc *survey.Service
	cfg cliparse.Config
}

func NewSurveyHandler(svc *survey.Service, cfg cliparse.Config) *SurveyHandler {
	return &SurveyHandler{svc: svc, cfg: cfg}
}

// GetPoll handles GET /poll
// Returns the poll title and questions; no respondent needed
func (h *SurveyHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	schema := h.svc.Schema()
	middleware.JSONResponse(w, http.StatusOK, models.PollResponse{
		Title:     schema.Title(),
		Questions: schema.Questions(),
	})
}

// GetForm handles GET /form
// Returns the questions, or a read-only acknowledgment if already submitted
func (h *SurveyHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	id, ok := requireRespondent(w, r, h.cfg.SessionSalt)
	if !ok {
		return
	}

	form, err := h.svc.Open(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to open form", id)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, form)
}

// GetStatus handles GET /responses/status
func (h *SurveyHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := requireRespondent(w, r, h.cfg.SessionSalt)
	if !ok {
		return
	}

	state, err := h.svc.Status(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to check submission status", id)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{
		RespondentID: id,
		State:        state,
	})
}

// Submit handles POST /responses
// Stores one complete answer set. A respondent who already submitted gets
// 200 with the acknowledgment and nothing is stored
func (h *SurveyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := requireRespondent(w, r, h.cfg.SessionSalt)
	if !ok {
		return
	}

	var req models.SubmitRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := h.svc.Submit(r.Context(), id, req.Answers)
	if errors.Is(err, surveyerr.ErrDuplicateSubmission) {
		middleware.JSONResponse(w, http.StatusOK, models.SubmitResponse{
			State:   models.StateSubmitted,
			Message: survey.MessageAlreadySubmitted,
		})
		return
	}
	if err != nil {
		writeServiceError(w, err, "failed to submit responses", id)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// writeServiceError maps the error categories to HTTP statuses
func writeServiceError(w http.ResponseWriter, err error, msg, respondentID string) {
	switch {
	case errors.Is(err, surveyerr.ErrValidation):
		middleware.ErrorResponseWithDetails(w, http.StatusBadRequest, "Invalid answers", surveyerr.Problems(err))
	case errors.Is(err, surveyerr.ErrStorageUnavailable):
		slog.Error(msg, "respondent_id", respondentID, "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Storage unavailable, please try again later")
	default:
		slog.Error(msg, "respondent_id", respondentID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}
