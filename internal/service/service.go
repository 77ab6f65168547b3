// Package service is the thin orchestration layer between the transport
// surfaces (HTTP, CLI) and the repository. It validates preconditions
// that the store would otherwise reject less informatively and passes
// domain errors through unchanged for the boundary to translate.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskmill/taskmill/internal/models"
	"github.com/taskmill/taskmill/internal/planner"
	"github.com/taskmill/taskmill/internal/store"
)

// Service wires the repository to a planning adapter.
type Service struct {
	db   *sql.DB
	plan planner.PlanFunc
}

// New returns a Service using the given planning adapter. A nil plan
// falls back to the simulated backend.
func New(db *sql.DB, plan planner.PlanFunc) *Service {
	if plan == nil {
		plan = planner.Simulated
	}
	return &Service{db: db, plan: plan}
}

// GeneratePlan turns a prompt into a persisted project with its initial
// task tree. The planner runs first; only its finished draft enters the
// single persistence transaction.
func (s *Service) GeneratePlan(ctx context.Context, prompt string) (*models.Project, error) {
	if prompt == "" {
		return nil, &models.ValidationError{Field: "prompt", Reason: "must not be empty"}
	}

	plan, err := s.plan(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}

	project, err := store.CreateProject(s.db, plan.Name, prompt, plan.Tasks)
	if err != nil {
		return nil, err
	}

	slog.Info("project generated",
		"project_id", project.ID, "name", project.Name, "tasks", project.TaskCount())
	return project, nil
}

// Project returns a project with its full nested task tree.
func (s *Service) Project(ctx context.Context, projectID string) (*models.Project, error) {
	return store.GetProject(s.db, projectID)
}

// Projects lists project headers, newest first.
func (s *Service) Projects(ctx context.Context) ([]*models.Project, error) {
	return store.ListProjects(s.db)
}

// DeleteProject removes a project and all of its tasks.
func (s *Service) DeleteProject(ctx context.Context, projectID string) error {
	return store.DeleteProject(s.db, projectID)
}

// AddTask creates a single task under an existing project. The project
// existence check runs first so callers get a clear "project not found"
// rather than a parent-resolution error.
func (s *Service) AddTask(ctx context.Context, projectID string, draft *models.TaskDraft) (*models.Task, error) {
	if _, err := store.GetProject(s.db, projectID); err != nil {
		return nil, err
	}
	return store.AddTask(s.db, projectID, draft)
}

// Task returns a task with its nested sub-task subtree.
func (s *Service) Task(ctx context.Context, taskID string) (*models.Task, error) {
	return store.GetTask(s.db, taskID)
}

// SetTaskStatus updates a task's status. Status changes never propagate
// to dependent tasks.
func (s *Service) SetTaskStatus(ctx context.Context, taskID string, status models.TaskStatus) (*models.Task, error) {
	return store.UpdateTaskStatus(s.db, taskID, status)
}

// UpdateTask applies a partial update to a task.
func (s *Service) UpdateTask(ctx context.Context, taskID string, update models.TaskUpdate) (*models.Task, error) {
	return store.UpdateTaskFields(s.db, taskID, update)
}

// DeleteTask removes a task, its transitive sub-tasks, and every
// dependency reference to them. Returns false if the task did not exist.
func (s *Service) DeleteTask(ctx context.Context, taskID string) (bool, error) {
	return store.DeleteTask(s.db, taskID)
}
