// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package surveyerr defines the error categories shared by the survey stores,
// the submission facade and the HTTP handlers.
package surveyerr

import (
	"errors"
	"strings"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrDuplicateSubmission = errors.New("duplicate submission")
)

type wrapError struct {
	underlying error
	msg        string
	cause      error
}

var _ error = (*wrapError)(nil)

// NewStorageError reports an unreachable or corrupt backing table.
func NewStorageError(msg string, cause error) error {
	return &wrapError{
		underlying: ErrStorageUnavailable,
		msg:        msg,
		cause:      cause,
	}
}

// NewDuplicateSubmission reports a respondent that already holds a submission marker.
func NewDuplicateSubmission(respondentID string) error {
	return &wrapError{
		underlying: ErrDuplicateSubmission,
		msg:        "respondent " + respondentID + " already submitted",
	}
}

func (err *wrapError) Error() string {
	if err == nil {
		return "(*wrapError)(nil)"
	}
	message := err.underlying.Error() + ": " + err.msg
	if err.cause != nil {
		message += ": " + err.cause.Error()
	}
	return message
}

func (err *wrapError) Unwrap() []error {
	if err.cause == nil {
		return []error{err.underlying}
	}
	return []error{err.underlying, err.cause}
}

// ValidationError lists every problem found in one submission.
type ValidationError struct {
	Problems []string
}

var _ error = (*ValidationError)(nil)

func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (err *ValidationError) Error() string {
	if err == nil {
		return "(*ValidationError)(nil)"
	}
	if len(err.Problems) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(err.Problems, "; ")
}

func (err *ValidationError) Unwrap() error { return ErrValidation }

// Problems extracts the validation problems from err, nil if err is not a validation error.
func Problems(err error) []string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Problems
	}
	return nil
}
