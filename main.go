// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JayRathod341997/poll-quiz/backend"
	"github.com/JayRathod341997/poll-quiz/cliparse"
	"github.com/JayRathod341997/poll-quiz/metrics"
	"github.com/JayRathod341997/poll-quiz/router"
	"github.com/JayRathod341997/poll-quiz/survey"
)

func main() {
	var err error

	if err := cliparse.LoadDotEnv(); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	schema, err := backend.LoadSchema(cfg.SchemaFile)
	if err != nil {
		slog.Error("poll schema invalid", "file", cfg.SchemaFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Poll loaded", "title", schema.Title(), "questions", len(schema.Questions()))

	ctx := context.Background()

	// Open storage
	store, err := backend.Open(ctx, cfg.Storage, schema, cfg.Anonymous)
	if err != nil {
		slog.Error("storage open failed", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	opts := []survey.Option{survey.WithMetrics(m)}
	if cfg.Anonymous {
		opts = append(opts, survey.Anonymous())
	}
	svc := survey.NewService(schema, store.Store, store.Guard, opts...)

	// Create tables and headers
	if err := svc.Initialize(ctx); err != nil {
		slog.Error("storage initialization failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Storage ready", "backend", cfg.Storage.Backend)

	// Create router
	handler := router.NewRouter(svc, survey.NewAggregator(schema, store.Store, m), cfg, reg)

	// Create server
	server := http.Server{
		Handler: handler,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "anonymous", cfg.Anonymous)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
