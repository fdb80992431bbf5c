// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package report prints aggregated results to a terminal: bar rows for bar
// questions, percentage slices for pie questions.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/JayRathod341997/poll-quiz/models"
)

const (
	barWidth     = 30
	EmptyMessage = "No poll data found."
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	promptStyle  = lipgloss.NewStyle().Faint(true)

	barColor = color.New(color.FgCyan)
	pieColor = color.New(color.FgGreen)
)

// Render writes results as a text dashboard. now anchors the relative
// "last response" time.
func Render(w io.Writer, results models.Results, now time.Time) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(results.Title+" Results") + "\n")

	if results.Responses == 0 {
		b.WriteString(color.YellowString(EmptyMessage) + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	summary := fmt.Sprintf("%s answers from %s respondents", humanize.Comma(int64(results.Responses)), humanize.Comma(int64(results.Respondents)))
	if results.Respondents == 0 {
		summary = humanize.Comma(int64(results.Responses)) + " anonymous answers"
	}
	if results.LastResponseAt != nil {
		summary += ", last " + humanize.RelTime(*results.LastResponseAt, now, "ago", "from now")
	}
	b.WriteString(summary + "\n\n")

	for _, s := range results.Series {
		b.WriteString(headingStyle.Render(s.Title) + "\n")
		b.WriteString(promptStyle.Render(s.Prompt) + "\n")
		if s.Chart == models.ChartPie {
			writePie(&b, s)
		} else {
			writeBars(&b, s)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeBars(b *strings.Builder, s models.Series) {
	labelW, maxCount := 0, 0
	for _, vc := range s.Counts {
		labelW = max(labelW, lipgloss.Width(vc.Value))
		maxCount = max(maxCount, vc.Count)
	}
	for _, vc := range s.Counts {
		n := 0
		if maxCount > 0 {
			n = vc.Count * barWidth / maxCount
		}
		fmt.Fprintf(b, "  %-*s %s %s\n", labelW, vc.Value, barColor.Sprint(strings.Repeat("█", n)), humanize.Comma(int64(vc.Count)))
	}
}

func writePie(b *strings.Builder, s models.Series) {
	labelW := 0
	for _, vc := range s.Counts {
		labelW = max(labelW, lipgloss.Width(vc.Value))
	}
	for _, vc := range s.Counts {
		pct := 0.0
		if s.Total > 0 {
			pct = float64(vc.Count) * 100 / float64(s.Total)
		}
		slice := strings.Repeat("●", int(pct/10+0.5))
		fmt.Fprintf(b, "  %-*s %5.1f%% %s\n", labelW, vc.Value, pct, pieColor.Sprint(slice))
	}
}

// RenderRaw writes the raw record table in storage order.
func RenderRaw(w io.Writer, records []models.Record) error {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Raw responses") + "\n")
	if len(records) == 0 {
		b.WriteString(color.YellowString(EmptyMessage) + "\n")
	}
	for _, rec := range records {
		id := rec.RespondentID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(&b, "%-36s  %s  %-4s %s\n", id, rec.Timestamp.UTC().Format(time.RFC3339), rec.QuestionID, rec.Answer)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
