// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poll

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JayRathod341997/poll-quiz/models"
	"github.com/JayRathod341997/poll-quiz/surveyerr"
)

// Schema is the fixed, ordered question list. It is immutable after construction.
type Schema struct {
	title     string
	questions []models.Question
	index     map[string]int
}

type schemaFile struct {
	Title     string            `yaml:"title"`
	Questions []models.Question `yaml:"questions"`
}

// New validates questions and builds a Schema. Chart kinds default to bar.
func New(title string, questions []models.Question) (*Schema, error) {
	if len(questions) == 0 {
		return nil, errors.New("schema must have at least one question")
	}

	s := &Schema{
		title:     title,
		questions: make([]models.Question, 0, len(questions)),
		index:     make(map[string]int, len(questions)),
	}
	for i, q := range questions {
		q.ID = strings.TrimSpace(q.ID)
		if q.ID == "" {
			return nil, fmt.Errorf("question %d: id is required", i+1)
		}
		if _, dup := s.index[q.ID]; dup {
			return nil, fmt.Errorf("question %s: duplicate id", q.ID)
		}
		if strings.TrimSpace(q.Prompt) == "" {
			return nil, fmt.Errorf("question %s: prompt is required", q.ID)
		}
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("question %s: at least one option is required", q.ID)
		}
		seen := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			if opt == "" {
				return nil, fmt.Errorf("question %s: empty option", q.ID)
			}
			if seen[opt] {
				return nil, fmt.Errorf("question %s: duplicate option %q", q.ID, opt)
			}
			seen[opt] = true
		}
		switch q.Chart {
		case "":
			q.Chart = models.ChartBar
		case models.ChartBar, models.ChartPie:
		default:
			return nil, fmt.Errorf("question %s: unknown chart kind %q", q.ID, q.Chart)
		}

		q.Options = append([]string(nil), q.Options...)
		s.index[q.ID] = len(s.questions)
		s.questions = append(s.questions, q)
	}

	return s, nil
}

// LoadFile reads a YAML schema:
//
//	title: Developer Poll
//	questions:
//	  - id: q1
//	    label: Favorite Programming Language
//	    prompt: What is your favorite programming language?
//	    options: [Python, JavaScript, Java, C++]
//	    chart: bar
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var f schemaFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse schema file %s: %w", path, err)
	}

	s, err := New(f.Title, f.Questions)
	if err != nil {
		return nil, fmt.Errorf("invalid schema file %s: %w", path, err)
	}
	return s, nil
}

func (s *Schema) Title() string {
	return s.title
}

func (s *Schema) Len() int {
	return len(s.questions)
}

// Questions returns the questions in declared order. The slice is a copy.
func (s *Schema) Questions() []models.Question {
	out := make([]models.Question, len(s.questions))
	for i, q := range s.questions {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

func (s *Schema) Lookup(id string) (models.Question, bool) {
	i, ok := s.index[id]
	if !ok {
		return models.Question{}, false
	}
	q := s.questions[i]
	q.Options = append([]string(nil), q.Options...)
	return q, true
}

// MustLookup panics on an unknown id. Use it only with ids taken from the schema itself.
func (s *Schema) MustLookup(id string) models.Question {
	q, ok := s.Lookup(id)
	if !ok {
		panic("poll: unknown question id " + id)
	}
	return q
}

// Check validates one answer against its question.
func (s *Schema) Check(questionID, answer string) error {
	if problem := s.problem(questionID, answer); problem != "" {
		return surveyerr.NewValidationError(problem)
	}
	return nil
}

// CheckAll validates a complete answer set: every question answered exactly once,
// no unknown question ids, every value allowed. All problems are reported together.
func (s *Schema) CheckAll(answers map[string]string) error {
	var problems []string
	for _, q := range s.questions {
		answer, ok := answers[q.ID]
		if !ok || answer == "" {
			problems = append(problems, q.ID+": answer is required")
			continue
		}
		if !q.Allows(answer) {
			problems = append(problems, fmt.Sprintf("%s: %q is not an allowed answer", q.ID, answer))
		}
	}
	for id := range answers {
		if _, ok := s.index[id]; !ok {
			problems = append(problems, id+": unknown question")
		}
	}
	if len(problems) > 0 {
		return surveyerr.NewValidationError(problems...)
	}
	return nil
}

func (s *Schema) problem(questionID, answer string) string {
	q, ok := s.Lookup(questionID)
	if !ok {
		return questionID + ": unknown question"
	}
	if !q.Allows(answer) {
		return fmt.Sprintf("%s: %q is not an allowed answer", questionID, answer)
	}
	return ""
}
