package charts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/JayRathod341997/poll-quiz/models"
	"github.com/JayRathod341997/poll-quiz/poll"
	"github.com/JayRathod341997/poll-quiz/survey"
)

func TestRenderDashboard_Empty(t *testing.T) {
	results := survey.Tally(poll.Default(), nil)

	var buf bytes.Buffer
	if err := RenderDashboard(&buf, results); err != nil {
		t.Fatalf("RenderDashboard() error = %v", err)
	}

	html := buf.String()
	if !strings.Contains(html, EmptyMessage) {
		t.Errorf("expected empty-state message, got:\n%s", html)
	}
	if !strings.Contains(html, "Developer Poll Results") {
		t.Error("expected poll title in page")
	}
	if strings.Contains(html, "echarts") {
		t.Error("empty dashboard should not load chart scripts")
	}
}

func TestRenderDashboard_Charts(t *testing.T) {
	records := []models.Record{
		{RespondentID: "u1", QuestionID: "q1", Answer: "Python"},
		{RespondentID: "u1", QuestionID: "q2", Answer: "Daily"},
		{RespondentID: "u2", QuestionID: "q1", Answer: "C++"},
	}
	results := survey.Tally(poll.Default(), records)

	var buf bytes.Buffer
	if err := RenderDashboard(&buf, results); err != nil {
		t.Fatalf("RenderDashboard() error = %v", err)
	}

	html := buf.String()
	for _, want := range []string{
		"Developer Poll Results",
		"Favorite Programming Language",
		"Coding Frequency",
		"Backend Language Preference",
		"JavaScript", // zero-count values still get an axis slot
		`"type":"pie"`,
		`"type":"bar"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
	if strings.Contains(html, EmptyMessage) {
		t.Error("dashboard with responses rendered the empty state")
	}
}

func TestRenderDashboard_EscapesTitle(t *testing.T) {
	results := models.Results{Title: "<script>alert(1)</script>"}

	var buf bytes.Buffer
	if err := RenderDashboard(&buf, results); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<script>alert(1)</script>") {
		t.Error("title was not escaped")
	}
}
