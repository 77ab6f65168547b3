package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskmill/taskmill/internal/models"
)

// DeleteProject deletes a project and cascades to all of its tasks and
// their dependency edges in one transaction. Returns NotFoundError if the
// project does not exist.
func DeleteProject(db *sql.DB, projectID string) error {
	return Transact(db, func(tx *sql.Tx) error {
		taskIDs, err := queryStringColumn(tx, `SELECT id FROM tasks WHERE project_id = ?`, projectID)
		if err != nil {
			return fmt.Errorf("failed to collect project tasks: %w", err)
		}
		if len(taskIDs) > 0 {
			if err := deleteTaskSetTx(tx, taskIDs); err != nil {
				return err
			}
		}

		result, err := tx.Exec(`DELETE FROM projects WHERE id = ?`, projectID)
		if err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		ra, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check rows affected: %w", err)
		}
		if ra == 0 {
			return &models.NotFoundError{Entity: "project", ID: projectID}
		}

		slog.Debug("project cascade delete", "project_id", projectID, "tasks_removed", len(taskIDs))
		return nil
	})
}
