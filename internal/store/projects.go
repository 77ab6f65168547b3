package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/taskmill/taskmill/internal/models"
	"github.com/taskmill/taskmill/internal/tree"
)

// CreateProject materializes a draft task tree as a new project in a single
// transaction: either the project and every task persist, or none do.
//
// Each draft task (recursively) is assigned a fresh task ID with parent_id
// resolved to the newly assigned parent, never the draft's placeholder.
// Draft dependencies may name sibling drafts by Ref or existing task IDs;
// entries that resolve to nothing are dropped with a warning.
func CreateProject(db *sql.DB, name, originalPrompt string, drafts []*models.TaskDraft) (*models.Project, error) {
	if name == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	var project *models.Project
	err := Transact(db, func(tx *sql.Tx) error {
		created, err := createProjectTx(tx, name, originalPrompt, drafts)
		if err != nil {
			return err
		}
		project = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func createProjectTx(tx *sql.Tx, name, originalPrompt string, drafts []*models.TaskDraft) (*models.Project, error) {
	projectID := GenerateProjectID()
	now := time.Now().UTC()

	result, err := tx.Exec(`
		INSERT INTO projects (id, name, original_prompt, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, projectID, name, nullIfEmpty(originalPrompt), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}
	if ra, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	} else if ra == 0 {
		return nil, errors.New("failed to insert project: no rows affected")
	}

	// First pass: insert every task, assigning IDs and recording which refs
	// and IDs exist so dependencies can be resolved afterwards.
	res := newDepResolution()
	for _, draft := range drafts {
		if err := insertDraftTreeTx(tx, projectID, "", draft, res); err != nil {
			return nil, err
		}
	}

	// Second pass: dependency edges, now that every task ID is known.
	if err := res.applyTx(tx, projectID); err != nil {
		return nil, err
	}

	return getProjectTx(tx, projectID)
}

// insertDraftTreeTx inserts draft and its sub-tasks depth-first, accumulating
// dependency declarations in res for later resolution.
func insertDraftTreeTx(tx *sql.Tx, projectID, parentID string, draft *models.TaskDraft, res *depResolution) error {
	taskID, err := insertTaskTx(tx, projectID, parentID, draft)
	if err != nil {
		return err
	}
	res.record(draft.Ref, taskID, draft.Dependencies)

	for _, sub := range draft.SubTasks {
		if err := insertDraftTreeTx(tx, projectID, taskID, sub, res); err != nil {
			return err
		}
	}
	return nil
}

// GetProject reads all flat task records for the project and reconstructs
// the nested tree. Returns NotFoundError if the project does not exist.
func GetProject(db *sql.DB, projectID string) (*models.Project, error) {
	var project *models.Project

	err := RetryWithBackoff(func() error {
		p, err := getProjectByQuerier(db, projectID)
		if err != nil {
			return err
		}
		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func getProjectTx(tx *sql.Tx, projectID string) (*models.Project, error) {
	return getProjectByQuerier(tx, projectID)
}

func getProjectByQuerier(q Querier, projectID string) (*models.Project, error) {
	project, err := scanProjectRow(q.QueryRow(`
		SELECT id, name, original_prompt, created_at, updated_at
		FROM projects WHERE id = ?
	`, projectID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Entity: "project", ID: projectID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query project: %w", err)
	}

	flat, err := loadProjectTaskRows(q, projectID)
	if err != nil {
		return nil, err
	}

	project.Tasks = tree.Reconstruct(flat)
	return project, nil
}

// loadProjectTaskRows returns the flat task records of a project with
// dependencies populated, ordered by creation (id as tie-break: IDs embed
// a nanosecond timestamp, so the lexical order matches insertion order).
func loadProjectTaskRows(q Querier, projectID string) ([]*models.Task, error) {
	rows, err := q.Query(`
		SELECT `+taskColumns+`
		FROM tasks WHERE project_id = ?
		ORDER BY created_at ASC, id ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query project tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var flat []*models.Task
	var taskIDs []string
	for rows.Next() {
		scanner := &taskRowScanner{}
		if scanErr := scanner.scan(rows); scanErr != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", scanErr)
		}
		scanner.hydrate()
		task := scanner.getTask()
		flat = append(flat, task)
		taskIDs = append(taskIDs, task.ID)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", rowsErr)
	}

	if len(taskIDs) > 0 {
		depsMap, depsErr := batchLoadTaskDependencies(q, taskIDs)
		if depsErr != nil {
			return nil, fmt.Errorf("failed to batch-load dependencies: %w", depsErr)
		}
		for _, task := range flat {
			task.Dependencies = depsMap[task.ID]
		}
	}

	return flat, nil
}

func scanProjectRow(row *sql.Row) (*models.Project, error) {
	var project models.Project
	var prompt sql.NullString
	if err := row.Scan(&project.ID, &project.Name, &prompt, &project.CreatedAt, &project.UpdatedAt); err != nil {
		return nil, err
	}
	project.OriginalPrompt = scanNullString(prompt)
	return &project, nil
}

// ListProjects retrieves all projects (header rows only, no task trees)
// ordered by creation time, newest first.
func ListProjects(db *sql.DB) ([]*models.Project, error) {
	var projects []*models.Project

	err := RetryWithBackoff(func() error {
		rows, err := db.Query(`
			SELECT id, name, original_prompt, created_at, updated_at
			FROM projects
			ORDER BY created_at DESC
		`)
		if err != nil {
			return fmt.Errorf("failed to query projects: %w", err)
		}
		defer func() { _ = rows.Close() }()

		projects = make([]*models.Project, 0)
		for rows.Next() {
			var p models.Project
			var prompt sql.NullString
			if err := rows.Scan(&p.ID, &p.Name, &prompt, &p.CreatedAt, &p.UpdatedAt); err != nil {
				return fmt.Errorf("failed to scan project row: %w", err)
			}
			p.OriginalPrompt = scanNullString(prompt)
			projects = append(projects, &p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}
