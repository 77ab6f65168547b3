package models

import (
	"fmt"
)

// DomainError is implemented by enriched errors that carry a stable code
// and structured context. The API and output packages use this interface
// to map errors onto transport responses without import cycles.
type DomainError interface {
	error
	ErrorCode() string
	Context() map[string]string
}

// NotFoundError indicates a project or task id did not resolve.
type NotFoundError struct {
	Entity string // "project" or "task"
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}
func (e *NotFoundError) ErrorCode() string { return "NOT_FOUND" }
func (e *NotFoundError) Context() map[string]string {
	return map[string]string{"entity": e.Entity, "id": e.ID}
}

// InvalidParentError indicates a parent_id that is unset, unknown, or
// belongs to a different project.
type InvalidParentError struct {
	ParentID  string
	ProjectID string
}

func (e *InvalidParentError) Error() string {
	return fmt.Sprintf("parent task %s not found in project %s", e.ParentID, e.ProjectID)
}
func (e *InvalidParentError) ErrorCode() string { return "INVALID_PARENT" }
func (e *InvalidParentError) Context() map[string]string {
	return map[string]string{"parent_id": e.ParentID, "project_id": e.ProjectID}
}

// ValidationError indicates a missing or malformed required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
func (e *ValidationError) ErrorCode() string { return "VALIDATION" }
func (e *ValidationError) Context() map[string]string {
	return map[string]string{"field": e.Field, "reason": e.Reason}
}

// PersistenceError wraps a transaction or commit failure. The enclosing
// operation has been rolled back; no partial state was left behind.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}
func (e *PersistenceError) ErrorCode() string { return "PERSISTENCE" }
func (e *PersistenceError) Context() map[string]string {
	return map[string]string{"op": e.Op}
}
func (e *PersistenceError) Unwrap() error { return e.Err }
