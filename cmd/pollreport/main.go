// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command pollreport prints the poll results to the terminal: a bar or pie
// breakdown per question, and optionally the raw response table.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/JayRathod341997/poll-quiz/backend"
	"github.com/JayRathod341997/poll-quiz/cliparse"
	"github.com/JayRathod341997/poll-quiz/report"
	"github.com/JayRathod341997/poll-quiz/survey"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "pollreport: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	status := color.New(color.FgCyan)

	if err := cliparse.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := cliparse.ParseReportFlags(args)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	schema, err := backend.LoadSchema(cfg.SchemaFile)
	if err != nil {
		return fmt.Errorf("poll schema: %w", err)
	}

	ctx := context.Background()
	status.Fprintf(os.Stderr, "Reading %s storage...\n", cfg.Storage.Backend)
	store, err := backend.Open(ctx, cfg.Storage, schema, false)
	if err != nil {
		return err
	}
	defer store.Close()

	// Read only: a missing CSV file loads as empty, SQL needs its tables
	if cfg.Storage.Backend == cliparse.BackendSQLite || cfg.Storage.Backend == cliparse.BackendPostgres {
		if err := store.Store.Initialize(ctx); err != nil {
			return err
		}
	}

	agg := survey.NewAggregator(schema, store.Store, nil)
	results, err := agg.Aggregate(ctx)
	if err != nil {
		return err
	}
	if err := report.Render(os.Stdout, results, time.Now()); err != nil {
		return err
	}

	if cfg.ShowRaw {
		records, err := agg.Records(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout)
		if err := report.RenderRaw(os.Stdout, records); err != nil {
			return err
		}
	}
	return nil
}
