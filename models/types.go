package models

import "time"

// Chart kinds
type ChartKind string

const (
	ChartBar ChartKind = "bar"
	ChartPie ChartKind = "pie"
)

// Submission states
type State string

const (
	StateNotSubmitted State = "not_submitted"
	StateSubmitting   State = "submitting"
	StateSubmitted    State = "submitted"
)

// Domain types

type Question struct {
	ID      string    `json:"id" yaml:"id"`
	Label   string    `json:"label" yaml:"label"`
	Prompt  string    `json:"prompt" yaml:"prompt"`
	Options []string  `json:"options" yaml:"options"`
	Chart   ChartKind `json:"chart" yaml:"chart"`
}

// Title is the short chart heading, falling back to the prompt
func (q Question) Title() string {
	if q.Label != "" {
		return q.Label
	}
	return q.Prompt
}

// Allows reports whether value is one of the question's options
func (q Question) Allows(value string) bool {
	for _, opt := range q.Options {
		if opt == value {
			return true
		}
	}
	return false
}

type Record struct {
	RespondentID string    `json:"respondent_id"`
	Timestamp    time.Time `json:"timestamp"`
	QuestionID   string    `json:"question_id"`
	Answer       string    `json:"answer"`
}

type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Series is the per-question histogram. Counts follows the question's option order
// and has one entry per option, zero included.
type Series struct {
	QuestionID string       `json:"question_id"`
	Title      string       `json:"title"`
	Prompt     string       `json:"prompt"`
	Chart      ChartKind    `json:"chart"`
	Counts     []ValueCount `json:"counts"`
	Total      int          `json:"total"`
}

// Count returns the count for value, zero when the value is not on the axis
func (s Series) Count(value string) int {
	for _, vc := range s.Counts {
		if vc.Value == value {
			return vc.Count
		}
	}
	return 0
}

type Results struct {
	Title          string     `json:"title"`
	Series         []Series   `json:"series"`
	Responses      int        `json:"responses"`
	Respondents    int        `json:"respondents"`
	LastResponseAt *time.Time `json:"last_response_at,omitempty"`
}

// SeriesFor returns the series of questionID
func (r Results) SeriesFor(questionID string) (Series, bool) {
	for _, s := range r.Series {
		if s.QuestionID == questionID {
			return s, true
		}
	}
	return Series{}, false
}

// Request types

// question_id -> chosen option
type SubmitRequest struct {
	Answers map[string]string `json:"answers"`
}

// Response types

type PollResponse struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

type RegisterRespondentResponse struct {
	RespondentID string `json:"respondent_id"`
	Token        string `json:"token"`
	IsNew        bool   `json:"is_new"`
}

// FormResponse carries the questions while the respondent may still submit.
// Once submitted it is a read-only acknowledgment with no questions.
type FormResponse struct {
	State     State      `json:"state"`
	Message   string     `json:"message,omitempty"`
	Questions []Question `json:"questions,omitempty"`
}

type StatusResponse struct {
	RespondentID string `json:"respondent_id"`
	State        State  `json:"state"`
}

type SubmitResponse struct {
	State       State     `json:"state"`
	Message     string    `json:"message"`
	Answers     int       `json:"answers,omitempty"`
	SubmittedAt time.Time `json:"submitted_at,omitzero"`
}

type RawResponse struct {
	Records []Record `json:"records"`
	Count   int      `json:"count"`
}

// Error response

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}
