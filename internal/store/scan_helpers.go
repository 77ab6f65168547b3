package store

import (
	"database/sql"

	"github.com/taskmill/taskmill/internal/models"
)

// scanNullString converts sql.NullString to string (empty if NULL)
func scanNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// taskColumns is the canonical column list for task queries; keep in sync
// with taskRowScanner.scan.
const taskColumns = `id, project_id, parent_id, title, description, status, complexity, estimated_time, created_at, updated_at`

// taskRowScanner encapsulates the common task row scanning logic.
type taskRowScanner struct {
	task          models.Task
	parentID      sql.NullString
	description   sql.NullString
	complexity    sql.NullString
	estimatedTime sql.NullString
}

func (s *taskRowScanner) scan(row interface {
	Scan(dest ...any) error
}) error {
	return row.Scan(
		&s.task.ID,
		&s.task.ProjectID,
		&s.parentID,
		&s.task.Title,
		&s.description,
		&s.task.Status,
		&s.complexity,
		&s.estimatedTime,
		&s.task.CreatedAt,
		&s.task.UpdatedAt,
	)
}

func (s *taskRowScanner) hydrate() {
	s.task.ParentID = scanNullString(s.parentID)
	s.task.Description = scanNullString(s.description)
	s.task.Complexity = models.TaskComplexity(scanNullString(s.complexity))
	s.task.EstimatedTime = scanNullString(s.estimatedTime)
}

func (s *taskRowScanner) getTask() *models.Task {
	return &s.task
}

// scanTaskRow is a helper that scans and hydrates a task from a single row.
func scanTaskRow(row interface {
	Scan(dest ...any) error
}) (*models.Task, error) {
	scanner := &taskRowScanner{}
	if err := scanner.scan(row); err != nil {
		return nil, err
	}
	scanner.hydrate()
	return scanner.getTask(), nil
}

// nullIfEmpty converts "" to NULL for optional text columns.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
