package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

// DeleteTask deletes a task together with all transitive sub-tasks and
// removes the deleted ids from every other task's dependency set.
// Returns false (no error) if the task does not exist. The cascade runs
// in one transaction: it fully succeeds or the whole deletion rolls back.
func DeleteTask(db *sql.DB, taskID string) (bool, error) {
	found := false
	err := Transact(db, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM tasks WHERE id = ?`, taskID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check task: %w", err)
		}
		if exists == 0 {
			return nil
		}
		found = true

		doomed, err := collectDescendantsTx(tx, taskID)
		if err != nil {
			return err
		}
		if err := deleteTaskSetTx(tx, doomed); err != nil {
			return err
		}

		slog.Debug("task cascade delete", "task_id", taskID, "removed", len(doomed))
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// collectDescendantsTx walks parent back-edges breadth-first from rootID
// and returns the root plus every transitive sub-task id.
func collectDescendantsTx(tx *sql.Tx, rootID string) ([]string, error) {
	all := []string{rootID}
	frontier := []string{rootID}

	for len(frontier) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(frontier)), ",")
		args := make([]any, len(frontier))
		for i, id := range frontier {
			args[i] = id
		}

		// placeholders contains only '?' and ',' — no user input.
		children, err := queryStringColumn(tx, fmt.Sprintf(`
			SELECT id FROM tasks WHERE parent_id IN (%s)
		`, placeholders), args...)
		if err != nil {
			return nil, fmt.Errorf("failed to collect sub-tasks: %w", err)
		}

		all = append(all, children...)
		frontier = children
	}

	return all, nil
}

// deleteTaskSetTx removes the given tasks and every dependency edge that
// touches them, in either direction (referential cleanup for tasks that
// depended on a deleted one).
func deleteTaskSetTx(tx *sql.Tx, taskIDs []string) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(taskIDs)), ",")
	args := make([]any, len(taskIDs))
	for i, id := range taskIDs {
		args[i] = id
	}

	edgeArgs := append(append([]any{}, args...), args...)
	if _, err := tx.Exec(fmt.Sprintf(`
		DELETE FROM task_dependencies
		WHERE task_id IN (%s) OR depends_on_task_id IN (%s)
	`, placeholders, placeholders), edgeArgs...); err != nil {
		return fmt.Errorf("failed to delete dependency edges: %w", err)
	}

	if _, err := tx.Exec(fmt.Sprintf(`
		DELETE FROM tasks WHERE id IN (%s)
	`, placeholders), args...); err != nil {
		return fmt.Errorf("failed to delete tasks: %w", err)
	}

	return nil
}
