// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poll

import "github.com/JayRathod341997/poll-quiz/models"

const DefaultTitle = "Developer Poll"

// Default returns the built-in developer poll.
func Default() *Schema {
	s, err := New(DefaultTitle, []models.Question{
		{
			ID:      "q1",
			Label:   "Favorite Programming Language",
			Prompt:  "What is your favorite programming language?",
			Options: []string{"Python", "JavaScript", "Java", "C++"},
		},
		{
			ID:      "q2",
			Label:   "Coding Frequency",
			Prompt:  "How often do you code?",
			Options: []string{"Daily", "Weekly", "Monthly", "Rarely"},
			Chart:   models.ChartPie,
		},
		{
			ID:      "q3",
			Label:   "Preferred IDE",
			Prompt:  "Which IDE do you prefer?",
			Options: []string{"VSCode", "PyCharm", "Jupyter", "Sublime", "Other"},
		},
		{
			ID:      "q4",
			Label:   "Area of Interest",
			Prompt:  "What area are you most interested in?",
			Options: []string{"Web Dev", "Data Science", "AI/ML", "Cybersecurity", "Mobile Dev"},
		},
		{
			ID:      "q5",
			Label:   "Learning Style",
			Prompt:  "How do you prefer to learn?",
			Options: []string{"YouTube", "Blogs", "Courses", "Books", "Docs"},
		},
		{
			ID:      "q6",
			Label:   "Coding Experience (Years)",
			Prompt:  "How many years of coding experience do you have?",
			Options: []string{"0-1", "2-3", "4-6", "7+"},
		},
		{
			ID:      "q7",
			Label:   "Backend Language Preference",
			Prompt:  "What is your preferred backend language?",
			Options: []string{"Node.js", "Python", "Java", "PHP", "Go"},
		},
	})
	if err != nil {
		panic(err)
	}
	return s
}
