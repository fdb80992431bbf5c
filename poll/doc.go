// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package poll holds the survey's question schema.

# Schema

A Schema is an ordered, immutable list of single-choice questions:

	schema := poll.Default()
	for _, q := range schema.Questions() {
		fmt.Println(q.ID, q.Prompt, q.Options)
	}

Custom schemas are loaded from YAML:

	schema, err := poll.LoadFile("poll.yaml")

# Chart Kind

Each question declares how the dashboard draws it (bar or pie). The default
poll draws "coding frequency" (q2) as a pie and everything else as bars.

# Validation

Check validates a single answer and CheckAll a complete submission. Both
return *surveyerr.ValidationError. MustLookup panics for ids that are not in
the schema.
*/
package poll
