// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides respondent identity and admin key checks.

# Respondent Tokens

Each browser gets a random UUIDv4 respondent id, signed with the session salt:

	id := auth.GenerateRespondentID()
	token := auth.SignRespondent(id, salt)   // "<id>.<hmac>"

The token travels in the X-Respondent-Token header or the respondent cookie.
VerifyRespondentToken recovers the id and rejects forged or tampered tokens:

	id, err := auth.VerifyRespondentToken(token, salt)

The MAC is HMAC-SHA256, URL-safe base64 without padding.

# Admin Key

The raw export is guarded by a static admin key from configuration:

	err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), cfg.AdminKey)

An empty configured key leaves the export open.
*/
package auth
