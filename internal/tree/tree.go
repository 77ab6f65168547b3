// Package tree converts between the flat persisted task representation
// (each row carrying project id, optional parent id, dependency id list)
// and the nested in-memory tree (sub-tasks embedded). Both directions are
// pure: no storage access, no mutation of the input.
package tree

import (
	"github.com/taskmill/taskmill/internal/models"
)

// Flatten walks a nested task tree depth-first and returns flat records
// suitable for persistence. Each child record carries its parent's ID in
// ParentID; SubTasks on the returned records is nil. Dependency ids are
// copied through unchanged.
func Flatten(tasks []*models.Task) []*models.Task {
	var flat []*models.Task
	for _, t := range tasks {
		flat = flattenInto(flat, t, t.ParentID)
	}
	return flat
}

func flattenInto(flat []*models.Task, t *models.Task, parentID string) []*models.Task {
	rec := *t
	rec.ParentID = parentID
	rec.SubTasks = nil
	if len(t.Dependencies) > 0 {
		rec.Dependencies = append([]string(nil), t.Dependencies...)
	}
	flat = append(flat, &rec)
	for _, sub := range t.SubTasks {
		flat = flattenInto(flat, sub, t.ID)
	}
	return flat
}

// Reconstruct groups flat records by ParentID and rebuilds the nested
// tree. Roots are records with no ParentID. Children keep the relative
// order of the input slice, so callers control ordering with their query
// (created_at, id). Records whose parent is absent from the input are
// dropped: a subtree read passes only the subtree's rows and the root is
// re-parented by the caller.
//
// Dependency ids are plain references and are copied through as-is;
// they are never resolved to embedded objects, which keeps arbitrary
// dependency graphs (including cycles) safe to serialize.
func Reconstruct(flat []*models.Task) []*models.Task {
	byParent := make(map[string][]*models.Task, len(flat))
	ids := make(map[string]bool, len(flat))
	for _, rec := range flat {
		ids[rec.ID] = true
	}
	for _, rec := range flat {
		parent := rec.ParentID
		if parent != "" && !ids[parent] {
			continue
		}
		byParent[parent] = append(byParent[parent], rec)
	}

	var build func(parentID string) []*models.Task
	build = func(parentID string) []*models.Task {
		var out []*models.Task
		for _, rec := range byParent[parentID] {
			node := *rec
			if len(rec.Dependencies) > 0 {
				node.Dependencies = append([]string(nil), rec.Dependencies...)
			}
			node.SubTasks = build(rec.ID)
			out = append(out, &node)
		}
		return out
	}

	return build("")
}

// ReconstructSubtree rebuilds the nested view rooted at rootID from flat
// records that contain the root and (any superset of) its descendants.
// Returns nil if rootID is not present in the input.
func ReconstructSubtree(flat []*models.Task, rootID string) *models.Task {
	var root *models.Task
	for _, rec := range flat {
		if rec.ID == rootID {
			root = rec
			break
		}
	}
	if root == nil {
		return nil
	}

	// Re-root: treat the subtree root as a top-level record so Reconstruct
	// does not drop it for having an out-of-slice parent.
	reRooted := make([]*models.Task, 0, len(flat))
	for _, rec := range flat {
		if rec.ID == rootID && rec.ParentID != "" {
			clone := *rec
			clone.ParentID = ""
			reRooted = append(reRooted, &clone)
			continue
		}
		reRooted = append(reRooted, rec)
	}

	for _, node := range Reconstruct(reRooted) {
		if node.ID == rootID {
			node.ParentID = root.ParentID
			return node
		}
	}
	return nil
}
