package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Dependencies are a many-to-many edge set over task ids, independent of
// the parent/sub-task tree. Edges are stored as plain id pairs and never
// expanded into objects, so "remove all edges touching X" stays a single
// delete and serialization can never recurse through the graph.

// depResolution accumulates dependency declarations while a draft tree is
// being inserted, then resolves them once every task ID is known.
//
// A declaration may name a sibling draft's Ref placeholder or an already
// assigned task ID. Anything else is dropped with a warning, matching the
// lenient import policy: a bad dependency never fails the whole create.
type depResolution struct {
	refs    map[string]string // draft Ref -> assigned task ID
	created map[string]bool   // assigned task IDs in this batch
	pending []pendingDeps
}

type pendingDeps struct {
	taskID string
	deps   []string
}

func newDepResolution() *depResolution {
	return &depResolution{
		refs:    make(map[string]string),
		created: make(map[string]bool),
	}
}

func (r *depResolution) record(ref, taskID string, deps []string) {
	if ref != "" {
		r.refs[ref] = taskID
	}
	r.created[taskID] = true
	if len(deps) > 0 {
		r.pending = append(r.pending, pendingDeps{taskID: taskID, deps: deps})
	}
}

// applyTx resolves and inserts all recorded dependency edges.
func (r *depResolution) applyTx(tx *sql.Tx, projectID string) error {
	for _, p := range r.pending {
		var kept []string
		for _, dep := range p.deps {
			target := dep
			if id, ok := r.refs[dep]; ok {
				target = id
			}
			if !r.created[target] || target == p.taskID {
				slog.Warn("dropping unresolvable task dependency",
					"project_id", projectID, "task_id", p.taskID, "dependency", dep)
				continue
			}
			kept = append(kept, target)
		}
		if err := insertDependencyEdgesTx(tx, p.taskID, kept); err != nil {
			return err
		}
	}
	return nil
}

// resolveDependenciesTx filters candidate dependency ids for a single task
// against the tasks that exist in the same project. Self-references and
// ids from other projects are unresolvable and dropped with a warning.
func resolveDependenciesTx(tx *sql.Tx, projectID, taskID string, candidates []string) []string {
	var kept []string
	for _, dep := range candidates {
		if dep == taskID {
			slog.Warn("dropping self-referential task dependency",
				"project_id", projectID, "task_id", taskID)
			continue
		}
		var exists int
		if err := tx.QueryRow(`
			SELECT COUNT(*) FROM tasks WHERE id = ? AND project_id = ?
		`, dep, projectID).Scan(&exists); err != nil || exists == 0 {
			slog.Warn("dropping unresolvable task dependency",
				"project_id", projectID, "task_id", taskID, "dependency", dep)
			continue
		}
		kept = append(kept, dep)
	}
	return kept
}

// insertDependencyEdgesTx inserts edges idempotently (duplicates ignored).
func insertDependencyEdgesTx(tx *sql.Tx, taskID string, deps []string) error {
	now := time.Now().UTC()
	for _, dep := range deps {
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO task_dependencies (task_id, depends_on_task_id, created_at)
			VALUES (?, ?, ?)
		`, taskID, dep, now); err != nil {
			return fmt.Errorf("failed to insert dependency edge: %w", err)
		}
	}
	return nil
}

// replaceDependencyEdgesTx replaces the entire dependency set of a task.
// Updating dependencies is never a merge.
func replaceDependencyEdgesTx(tx *sql.Tx, taskID string, deps []string) error {
	if _, err := tx.Exec(`DELETE FROM task_dependencies WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("failed to clear dependency edges: %w", err)
	}
	return insertDependencyEdgesTx(tx, taskID, deps)
}

// GetTaskDependencies returns the list of task IDs the given task depends on.
func GetTaskDependencies(db *sql.DB, taskID string) ([]string, error) {
	var ids []string
	err := RetryWithBackoff(func() error {
		out, err := queryStringColumn(db, `
			SELECT depends_on_task_id
			FROM task_dependencies
			WHERE task_id = ?
			ORDER BY created_at ASC, depends_on_task_id ASC
		`, taskID)
		if err != nil {
			return fmt.Errorf("failed to query dependencies: %w", err)
		}
		ids = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// batchLoadTaskDependencies loads dependencies for multiple tasks in batches,
// respecting SQLite's SQLITE_MAX_VARIABLE_NUMBER limit (999).
func batchLoadTaskDependencies(q Querier, taskIDs []string) (map[string][]string, error) {
	depsMap := make(map[string][]string)

	// SQLite default SQLITE_MAX_VARIABLE_NUMBER is 999
	const batchSize = 999

	for i := 0; i < len(taskIDs); i += batchSize {
		end := i + batchSize
		if end > len(taskIDs) {
			end = len(taskIDs)
		}
		batch := taskIDs[i:end]

		// placeholders contains only '?' and ',' — no user input.
		placeholders := make([]byte, 0, len(batch)*2)
		for j := range batch {
			if j > 0 {
				placeholders = append(placeholders, ',')
			}
			placeholders = append(placeholders, '?')
		}

		query := fmt.Sprintf(`
			SELECT task_id, depends_on_task_id
			FROM task_dependencies
			WHERE task_id IN (%s)
			ORDER BY task_id, created_at ASC, depends_on_task_id ASC
		`, string(placeholders))

		queryArgs := make([]any, len(batch))
		for j, id := range batch {
			queryArgs[j] = id
		}

		if scanErr := func() error {
			rows, err := q.Query(query, queryArgs...)
			if err != nil {
				return fmt.Errorf("failed to query task dependencies batch: %w", err)
			}
			defer func() { _ = rows.Close() }()

			for rows.Next() {
				var taskID, depID string
				if err := rows.Scan(&taskID, &depID); err != nil {
					return fmt.Errorf("failed to scan task dependency: %w", err)
				}
				depsMap[taskID] = append(depsMap[taskID], depID)
			}
			return rows.Err()
		}(); scanErr != nil {
			return nil, scanErr
		}
	}

	return depsMap, nil
}
