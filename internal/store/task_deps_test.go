package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskmill/taskmill/internal/models"
)

func TestAddTask_DropsUnresolvableDependencies(t *testing.T) {
	db := setupTestDB(t)
	projectA := createTestProject(t, db, "A")
	projectB := createTestProject(t, db, "B")

	inA, err := AddTask(db, projectA.ID, &models.TaskDraft{Title: "In A"})
	require.NoError(t, err)
	inB, err := AddTask(db, projectB.ID, &models.TaskDraft{Title: "In B"})
	require.NoError(t, err)

	// Cross-project and unknown ids are dropped, same-project ids kept.
	sibling, err := AddTask(db, projectA.ID, &models.TaskDraft{
		Title:        "Depends",
		Dependencies: []string{inA.ID, inB.ID, "task_unknown"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{inA.ID}, sibling.Dependencies)
}

func TestUpdateTaskFields_ReplacesDependencySet(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db, "Demo")

	t1, err := AddTask(db, project.ID, &models.TaskDraft{Title: "T1"})
	require.NoError(t, err)
	t2, err := AddTask(db, project.ID, &models.TaskDraft{Title: "T2"})
	require.NoError(t, err)
	t3, err := AddTask(db, project.ID, &models.TaskDraft{
		Title:        "T3",
		Dependencies: []string{t1.ID},
	})
	require.NoError(t, err)
	require.Equal(t, []string{t1.ID}, t3.Dependencies)

	// Replacement is total: the old edge to t1 goes away.
	deps := []string{t2.ID}
	updated, err := UpdateTaskFields(db, t3.ID, models.TaskUpdate{Dependencies: &deps})
	require.NoError(t, err)
	require.Equal(t, []string{t2.ID}, updated.Dependencies)

	stored, err := GetTaskDependencies(db, t3.ID)
	require.NoError(t, err)
	require.Equal(t, []string{t2.ID}, stored)
}

func TestUpdateTaskFields_ClearDependencies(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db, "Demo")

	t1, err := AddTask(db, project.ID, &models.TaskDraft{Title: "T1"})
	require.NoError(t, err)
	t2, err := AddTask(db, project.ID, &models.TaskDraft{
		Title:        "T2",
		Dependencies: []string{t1.ID},
	})
	require.NoError(t, err)

	empty := []string{}
	updated, err := UpdateTaskFields(db, t2.ID, models.TaskUpdate{Dependencies: &empty})
	require.NoError(t, err)
	require.Empty(t, updated.Dependencies)
}

func TestUpdateTaskFields_SelfDependencyDropped(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db, "Demo")

	task, err := AddTask(db, project.ID, &models.TaskDraft{Title: "Loner"})
	require.NoError(t, err)

	deps := []string{task.ID}
	updated, err := UpdateTaskFields(db, task.ID, models.TaskUpdate{Dependencies: &deps})
	require.NoError(t, err)
	require.Empty(t, updated.Dependencies)
}

func TestGetTaskDependencies_InsertionOrder(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db, "Demo")

	t1, err := AddTask(db, project.ID, &models.TaskDraft{Title: "T1"})
	require.NoError(t, err)
	t2, err := AddTask(db, project.ID, &models.TaskDraft{Title: "T2"})
	require.NoError(t, err)
	t3, err := AddTask(db, project.ID, &models.TaskDraft{
		Title:        "T3",
		Dependencies: []string{t1.ID, t2.ID},
	})
	require.NoError(t, err)

	deps, err := GetTaskDependencies(db, t3.ID)
	require.NoError(t, err)
	require.Equal(t, []string{t1.ID, t2.ID}, deps)
}
