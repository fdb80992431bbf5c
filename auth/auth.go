// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrInvalidToken    = errors.New("invalid respondent token")
)

// GenerateRespondentID creates a random UUIDv4 identifying one respondent.
func GenerateRespondentID() string {
	return uuid.NewString()
}

// SignRespondent returns the token handed to the browser: "<id>.<mac>".
// The MAC binds the id to the session salt so ids cannot be forged.
func SignRespondent(respondentID, salt string) string {
	return respondentID + "." + mac(respondentID, salt)
}

// VerifyRespondentToken checks the token's MAC and returns the respondent id.
func VerifyRespondentToken(token, salt string) (string, error) {
	id, sig, ok := strings.Cut(token, ".")
	if !ok || id == "" || sig == "" {
		return "", ErrInvalidToken
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrInvalidToken
	}
	if !hmac.Equal([]byte(sig), []byte(mac(id, salt))) {
		return "", ErrInvalidToken
	}
	return id, nil
}

// ValidateAdminKey compares the provided key to the configured one in constant time.
// An empty expected key disables the check.
func ValidateAdminKey(provided, expected string) error {
	if expected == "" {
		return nil
	}
	if !hmac.Equal([]byte(provided), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

func mac(id, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(id))
	// URL-safe base64 without padding so the token fits in a cookie as-is
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
