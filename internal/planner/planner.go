// Package planner turns a free-text prompt into a draft task tree.
//
// The adapter is a single pure function type so the simulated backend can
// be swapped for a real generative planner without touching the service
// or store layers. Planner calls happen strictly before any persistence
// transaction begins.
package planner

import (
	"context"
	"strings"

	"github.com/taskmill/taskmill/internal/models"
)

// Plan is an unpersisted project draft: a name plus an id-less task tree
// awaiting identity assignment by the repository.
type Plan struct {
	Name  string
	Tasks []*models.TaskDraft
}

// PlanFunc produces a draft plan for a prompt.
type PlanFunc func(ctx context.Context, prompt string) (*Plan, error)

// Simulated is the built-in planning backend. It recognizes the Flask
// weather-app prompt and returns a detailed hardcoded plan for it; any
// other prompt yields a generic four-phase breakdown.
func Simulated(_ context.Context, prompt string) (*Plan, error) {
	if strings.Contains(strings.ToLower(prompt), "flask weather app") {
		return flaskWeatherPlan(), nil
	}
	return genericPlan(), nil
}

func flaskWeatherPlan() *Plan {
	return &Plan{
		Name: "Flask Weather App (from Prompt)",
		Tasks: []*models.TaskDraft{
			{
				Title:      "Set up the project environment",
				Complexity: models.ComplexitySimple,
				SubTasks: []*models.TaskDraft{
					{Title: "Create a project directory", Complexity: models.ComplexitySimple},
					{Title: "Initialize a virtual environment", Complexity: models.ComplexitySimple},
					{Title: "Install necessary libraries (Flask, requests)", Complexity: models.ComplexitySimple},
				},
			},
			{
				Title:      "Develop the backend server",
				Complexity: models.ComplexityMedium,
				SubTasks: []*models.TaskDraft{
					{Title: "Create the main app.py file", Complexity: models.ComplexitySimple},
					{Title: "Implement the basic Flask app structure", Complexity: models.ComplexityMedium},
					{Ref: "create-api-route", Title: "Create an API route that accepts a city name", Complexity: models.ComplexityMedium},
				},
			},
			{
				Title:        "Integrate with the OpenWeatherMap API",
				Complexity:   models.ComplexityMedium,
				Dependencies: []string{"create-api-route"},
				SubTasks: []*models.TaskDraft{
					{Title: "Write a function to fetch weather data", Complexity: models.ComplexityMedium},
					{Title: "Handle API keys securely (do not hardcode)", Complexity: models.ComplexitySimple},
					{Title: "Parse the JSON response from the API", Complexity: models.ComplexityMedium},
				},
			},
		},
	}
}

func genericPlan() *Plan {
	return &Plan{
		Name: "Generic Project (from Prompt)",
		Tasks: []*models.TaskDraft{
			{Title: "Understand Requirements", Complexity: models.ComplexitySimple},
			{Title: "Design Solution", Complexity: models.ComplexityMedium},
			{
				Title:      "Implement Feature X",
				Complexity: models.ComplexityComplex,
				SubTasks: []*models.TaskDraft{
					{Title: "Sub-task X.1"},
					{Title: "Sub-task X.2"},
				},
			},
			{Title: "Test Feature X", Complexity: models.ComplexityMedium},
		},
	}
}
