// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package charts renders the results dashboard: one bar or pie chart per
// question, in schema order.
package charts

import (
	"fmt"
	"html/template"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/JayRathod341997/poll-quiz/models"
)

const (
	SeriesName   = "Responses"
	EmptyMessage = "No responses yet."
)

var emptyPage = template.Must(template.New("empty").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}} Results</title></head>
<body>
<h1>{{.Title}} Results</h1>
<p class="empty">{{.Message}}</p>
</body>
</html>
`))

// RenderDashboard writes the HTML dashboard for results. With no responses
// stored it writes the empty-state page instead of zero-height charts.
func RenderDashboard(w io.Writer, results models.Results) error {
	if results.Responses == 0 {
		return emptyPage.Execute(w, struct{ Title, Message string }{results.Title, EmptyMessage})
	}

	page := components.NewPage()
	page.PageTitle = results.Title + " Results"
	page.SetLayout(components.PageFlexLayout)

	for _, s := range results.Series {
		switch s.Chart {
		case models.ChartPie:
			page.AddCharts(pieChart(s))
		default:
			page.AddCharts(barChart(s))
		}
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	return nil
}

func barChart(s models.Series) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: s.Title, Subtitle: s.Prompt}),
	)

	values := make([]string, len(s.Counts))
	items := make([]opts.BarData, len(s.Counts))
	for i, vc := range s.Counts {
		values[i] = vc.Value
		items[i] = opts.BarData{Name: vc.Value, Value: vc.Count}
	}
	bar.SetXAxis(values).AddSeries(SeriesName, items)
	return bar
}

func pieChart(s models.Series) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: s.Title, Subtitle: s.Prompt}),
	)

	items := make([]opts.PieData, len(s.Counts))
	for i, vc := range s.Counts {
		items[i] = opts.PieData{Name: vc.Value, Value: vc.Count}
	}
	pie.AddSeries(SeriesName, items).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Formatter: "{b}: {d}%"}))
	return pie
}
