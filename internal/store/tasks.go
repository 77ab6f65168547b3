package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskmill/taskmill/internal/models"
	"github.com/taskmill/taskmill/internal/tree"
)

// AddTask creates a single task in an existing project. The draft may name
// a parent task; the parent must exist in the same project or the call
// fails with InvalidParentError and nothing is persisted. Status defaults
// to pending. Dependency ids that do not resolve within the project are
// dropped with a warning (lenient import policy).
func AddTask(db *sql.DB, projectID string, draft *models.TaskDraft) (*models.Task, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	var taskID string
	err := Transact(db, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM projects WHERE id = ?`, projectID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to verify project: %w", err)
		}
		if exists == 0 {
			return &models.NotFoundError{Entity: "project", ID: projectID}
		}

		if draft.ParentID != "" {
			var parentCount int
			if err := tx.QueryRow(`
				SELECT COUNT(*) FROM tasks WHERE id = ? AND project_id = ?
			`, draft.ParentID, projectID).Scan(&parentCount); err != nil {
				return fmt.Errorf("failed to verify parent task: %w", err)
			}
			if parentCount == 0 {
				return &models.InvalidParentError{ParentID: draft.ParentID, ProjectID: projectID}
			}
		}

		id, err := insertTaskTx(tx, projectID, draft.ParentID, draft)
		if err != nil {
			return err
		}
		taskID = id

		kept := resolveDependenciesTx(tx, projectID, id, draft.Dependencies)
		return insertDependencyEdgesTx(tx, id, kept)
	})
	if err != nil {
		return nil, err
	}

	return GetTask(db, taskID)
}

// insertTaskTx inserts one flat task record and returns its new ID.
// It does not touch dependencies; callers resolve those once all task IDs
// in the batch are known.
func insertTaskTx(tx *sql.Tx, projectID, parentID string, draft *models.TaskDraft) (string, error) {
	status := draft.Status
	if status == "" {
		status = models.TaskStatusPending
	}
	if !status.Valid() {
		return "", &models.ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("%q is not one of %s", draft.Status, strings.Join(models.TaskStatusValues(), ", ")),
		}
	}
	if !draft.Complexity.Valid() {
		return "", &models.ValidationError{
			Field:  "complexity",
			Reason: fmt.Sprintf("unrecognized value %q", draft.Complexity),
		}
	}
	if draft.Title == "" {
		return "", &models.ValidationError{Field: "title", Reason: "must not be empty"}
	}

	taskID := GenerateTaskID()
	now := time.Now().UTC()

	result, err := tx.Exec(`
		INSERT INTO tasks (id, project_id, parent_id, title, description, status, complexity, estimated_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, taskID, projectID, nullIfEmpty(parentID), draft.Title, nullIfEmpty(draft.Description),
		string(status), nullIfEmpty(string(draft.Complexity)), nullIfEmpty(draft.EstimatedTime), now, now)
	if err != nil {
		return "", fmt.Errorf("failed to insert task: %w", err)
	}
	if ra, err := result.RowsAffected(); err != nil {
		return "", fmt.Errorf("failed to get rows affected: %w", err)
	} else if ra == 0 {
		return "", errors.New("failed to insert task: no rows affected")
	}

	return taskID, nil
}

func validateDraft(draft *models.TaskDraft) error {
	if draft == nil {
		return &models.ValidationError{Field: "task", Reason: "missing body"}
	}
	if draft.Title == "" {
		return &models.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	return nil
}

// GetTask retrieves a task by its globally unique ID, with its own nested
// sub-task subtree rendered the same way as inside a project read.
func GetTask(db *sql.DB, taskID string) (*models.Task, error) {
	var task *models.Task

	err := RetryWithBackoff(func() error {
		t, err := getTaskByQuerier(db, taskID)
		if err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func getTaskTx(tx *sql.Tx, taskID string) (*models.Task, error) {
	return getTaskByQuerier(tx, taskID)
}

func getTaskByQuerier(q Querier, taskID string) (*models.Task, error) {
	row := q.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, taskID)
	task, err := scanTaskRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Entity: "task", ID: taskID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query task: %w", err)
	}

	// Render the subtree from the project's flat rows, same as a project read.
	flat, err := loadProjectTaskRows(q, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if sub := tree.ReconstructSubtree(flat, taskID); sub != nil {
		return sub, nil
	}
	return task, nil
}

// UpdateTaskStatus sets a task's status and bumps updated_at. No side
// effects on dependents: a blocked dependency does not auto-block tasks
// that depend on it. Last write wins.
func UpdateTaskStatus(db *sql.DB, taskID string, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, &models.ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("%q is not one of %s", status, strings.Join(models.TaskStatusValues(), ", ")),
		}
	}

	err := Transact(db, func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?
		`, string(status), time.Now().UTC(), taskID)
		if err != nil {
			return fmt.Errorf("failed to update task status: %w", err)
		}
		ra, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if ra == 0 {
			return &models.NotFoundError{Entity: "task", ID: taskID}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetTask(db, taskID)
}

// UpdateTaskFields applies a partial update: only non-nil fields are
// touched. A present Dependencies field replaces the entire set, with the
// same lenient resolution as create. Bumps updated_at.
func UpdateTaskFields(db *sql.DB, taskID string, update models.TaskUpdate) (*models.Task, error) {
	if err := validateUpdate(update); err != nil {
		return nil, err
	}

	err := Transact(db, func(tx *sql.Tx) error {
		current, err := getTaskTx(tx, taskID)
		if err != nil {
			return err
		}

		sets := []string{"updated_at = ?"}
		args := []any{time.Now().UTC()}
		if update.Title != nil {
			sets = append(sets, "title = ?")
			args = append(args, *update.Title)
		}
		if update.Description != nil {
			sets = append(sets, "description = ?")
			args = append(args, nullIfEmpty(*update.Description))
		}
		if update.Status != nil {
			sets = append(sets, "status = ?")
			args = append(args, string(*update.Status))
		}
		if update.Complexity != nil {
			sets = append(sets, "complexity = ?")
			args = append(args, nullIfEmpty(string(*update.Complexity)))
		}
		if update.EstimatedTime != nil {
			sets = append(sets, "estimated_time = ?")
			args = append(args, nullIfEmpty(*update.EstimatedTime))
		}
		args = append(args, taskID)

		// sets contains only fixed column assignments, no user input.
		query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		if update.Dependencies != nil {
			kept := resolveDependenciesTx(tx, current.ProjectID, taskID, *update.Dependencies)
			if err := replaceDependencyEdgesTx(tx, taskID, kept); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetTask(db, taskID)
}

func validateUpdate(update models.TaskUpdate) error {
	if update.Empty() {
		return &models.ValidationError{Field: "update", Reason: "no fields provided"}
	}
	if update.Title != nil && *update.Title == "" {
		return &models.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if update.Status != nil && !update.Status.Valid() {
		return &models.ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("%q is not one of %s", *update.Status, strings.Join(models.TaskStatusValues(), ", ")),
		}
	}
	if update.Complexity != nil && !update.Complexity.Valid() {
		return &models.ValidationError{
			Field:  "complexity",
			Reason: fmt.Sprintf("unrecognized value %q", *update.Complexity),
		}
	}
	return nil
}
