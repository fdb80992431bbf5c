// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Question: id, label, prompt, options and chart kind
  - Record: one stored answer (respondent_id, timestamp, question_id, answer)
  - Series: per-question counts in option order, zero included
  - Results: all series plus response and respondent totals

# Request Types

  - SubmitRequest: answers (question_id → option)

# Response Types

  - PollResponse: title, questions
  - RegisterRespondentResponse: respondent_id, token, is_new
  - FormResponse: state, message, questions
  - StatusResponse: respondent_id, state
  - SubmitResponse: state, message, answers, submitted_at
  - RawResponse: records, count
  - ErrorResponse: error, message, details

# Constants

Submission states:

	StateNotSubmitted = "not_submitted"
	StateSubmitting   = "submitting"
	StateSubmitted    = "submitted"

Chart kinds:

	ChartBar = "bar"
	ChartPie = "pie"
*/
package models
