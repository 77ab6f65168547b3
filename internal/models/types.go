package models

import (
	"time"
)

// ID Strategy:
// - Projects and Tasks use string IDs with distributed generation
//   (e.g., "task_1234567890_a3f9"). Task IDs are globally unique across
//   all projects: the flat id-indexed lookup is the canonical access path.

// TaskStatus represents the current state of a task.
type TaskStatus string

// Task status constants.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// Valid returns true if s is a recognized task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusBlocked:
		return true
	}
	return false
}

// IsTerminal returns true if the task is in a completed state.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted
}

// TaskStatusValues returns the allowed status values, for error messages.
func TaskStatusValues() []string {
	return []string{
		string(TaskStatusPending),
		string(TaskStatusInProgress),
		string(TaskStatusCompleted),
		string(TaskStatusBlocked),
	}
}

// TaskComplexity is a rough effort classification. The empty string means
// the complexity has not been assessed.
type TaskComplexity string

// Task complexity constants.
const (
	ComplexityUnset   TaskComplexity = ""
	ComplexitySimple  TaskComplexity = "simple"
	ComplexityMedium  TaskComplexity = "medium"
	ComplexityComplex TaskComplexity = "complex"
)

// Valid returns true if c is a recognized complexity (or unset).
func (c TaskComplexity) Valid() bool {
	switch c {
	case ComplexityUnset, ComplexitySimple, ComplexityMedium, ComplexityComplex:
		return true
	}
	return false
}

// Task is a unit of work: a node in a per-project tree via ParentID, plus
// non-hierarchical dependency edges to other tasks.
//
// SubTasks is a derived view reconstructed from parent back-references on
// read; it is never stored directly. Dependencies hold plain task IDs, not
// embedded objects, so serializing a task can never recurse through the
// dependency graph.
//
// Wire names are camelCase; that is the external contract of the API.
type Task struct {
	ID            string         `json:"id"`
	ProjectID     string         `json:"projectId"`
	ParentID      string         `json:"parentId,omitempty"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Status        TaskStatus     `json:"status"`
	Complexity    TaskComplexity `json:"complexity,omitempty"`
	EstimatedTime string         `json:"estimatedTime,omitempty"` // freeform, e.g. "2h", "1d"
	Dependencies  []string       `json:"dependencies,omitempty"`
	SubTasks      []*Task        `json:"subTasks,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// IsTopLevel returns true if the task sits directly under its project.
func (t *Task) IsTopLevel() bool {
	return t.ParentID == ""
}

// Walk calls fn for t and every descendant, depth-first in SubTask order.
func (t *Task) Walk(fn func(*Task)) {
	fn(t)
	for _, sub := range t.SubTasks {
		sub.Walk(fn)
	}
}

// Project is the top-level container owning a tree of tasks plus the
// prompt it was generated from. Tasks holds only top-level tasks in
// nested form; it is a derived view reconstructed on read.
type Project struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	OriginalPrompt string    `json:"originalPrompt,omitempty"`
	Tasks          []*Task   `json:"tasks"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TaskCount returns the total number of tasks in the project, including
// nested sub-tasks.
func (p *Project) TaskCount() int {
	n := 0
	for _, t := range p.Tasks {
		t.Walk(func(*Task) { n++ })
	}
	return n
}

// TaskDraft is an unpersisted, id-less task produced by the planning
// adapter or by API callers, awaiting identity assignment.
//
// Ref is an optional placeholder id local to one draft tree; other drafts
// in the same tree may name it in Dependencies. During materialization
// refs are resolved to the newly assigned task IDs. Dependency entries
// that resolve to neither a ref nor an existing task in the project are
// dropped (lenient import policy), never a hard failure.
type TaskDraft struct {
	Ref           string         `json:"ref,omitempty"`
	ParentID      string         `json:"parentId,omitempty"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Status        TaskStatus     `json:"status,omitempty"`
	Complexity    TaskComplexity `json:"complexity,omitempty"`
	EstimatedTime string         `json:"estimatedTime,omitempty"`
	Dependencies  []string       `json:"dependencies,omitempty"`
	SubTasks      []*TaskDraft   `json:"subTasks,omitempty"`
}

// TaskUpdate carries a partial task mutation. Nil fields are left
// untouched (PATCH semantics). A non-nil Dependencies pointer replaces
// the entire dependency set, it is never merged.
type TaskUpdate struct {
	Title         *string         `json:"title,omitempty"`
	Description   *string         `json:"description,omitempty"`
	Status        *TaskStatus     `json:"status,omitempty"`
	Complexity    *TaskComplexity `json:"complexity,omitempty"`
	EstimatedTime *string         `json:"estimatedTime,omitempty"`
	Dependencies  *[]string       `json:"dependencies,omitempty"`
}

// Empty returns true if the update would touch nothing.
func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.Complexity == nil && u.EstimatedTime == nil && u.Dependencies == nil
}
