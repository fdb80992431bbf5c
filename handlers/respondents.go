// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JayRathod341997/poll-quiz/auth"
	"github.com/JayRathod341997/poll-quiz/cliparse"
	"github.com/JayRathod341997/poll-quiz/middleware"
	"github.com/JayRathod341997/poll-quiz/models"
)

const (
	RespondentHeader = "X-Respondent-Token"
	RespondentCookie = "respondent"
	AdminKeyHeader   = "X-Admin-Key"

	respondentCookieMaxAge = 365 * 24 * 60 * 60
)

var errNoToken = errors.New("respondent token required")

type RespondentHandler struct {
	cfg cliparse.Config
}

func NewRespondentHandler(cfg cliparse.Config) *RespondentHandler {
	return &RespondentHandler{cfg: cfg}
}

// Register handles POST /respondents
// Returns the caller's respondent id and token, issuing a new one when the
// request carries no valid token
func (h *RespondentHandler) Register(w http.ResponseWriter, r *http.Request) {
	id, err := respondentFromRequest(r, h.cfg.SessionSalt)
	if err == nil {
		slog.Info("respondent registered (existing)", "respondent_id", id)
		token := auth.SignRespondent(id, h.cfg.SessionSalt)
		setRespondentCookie(w, token)
		middleware.JSONResponse(w, http.StatusOK, models.RegisterRespondentResponse{
			RespondentID: id,
			Token:        token,
			IsNew:        false,
		})
		return
	}
	if !errors.Is(err, errNoToken) {
		// A forged or stale token is replaced rather than rejected
		slog.Warn("replacing invalid respondent token", "error", err)
	}

	id = auth.GenerateRespondentID()
	token := auth.SignRespondent(id, h.cfg.SessionSalt)
	setRespondentCookie(w, token)

	slog.Info("respondent registered (new)", "respondent_id", id)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterRespondentResponse{
		RespondentID: id,
		Token:        token,
		IsNew:        true,
	})
}

// respondentFromRequest verifies the respondent token from the header, or
// from the cookie when no header is present
func respondentFromRequest(r *http.Request, salt string) (string, error) {
	token := r.Header.Get(RespondentHeader)
	if token == "" {
		if c, err := r.Cookie(RespondentCookie); err == nil {
			token = c.Value
		}
	}
	if token == "" {
		return "", errNoToken
	}
	return auth.VerifyRespondentToken(token, salt)
}

// requireRespondent writes a 401 and returns false when the request has no valid token
func requireRespondent(w http.ResponseWriter, r *http.Request, salt string) (string, bool) {
	id, err := respondentFromRequest(r, salt)
	if errors.Is(err, errNoToken) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Respondent token required (POST /respondents first)")
		return "", false
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid respondent token")
		return "", false
	}
	return id, true
}

func setRespondentCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RespondentCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   respondentCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
