package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaskStatusValid(t *testing.T) {
	for _, s := range []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusBlocked} {
		require.True(t, s.Valid(), "expected %q to be valid", s)
	}
	require.False(t, TaskStatus("in_progress").Valid())
	require.False(t, TaskStatus("").Valid())
}

func TestTaskStatusIsTerminal(t *testing.T) {
	require.True(t, TaskStatusCompleted.IsTerminal())
	require.False(t, TaskStatusBlocked.IsTerminal())
	require.False(t, TaskStatusPending.IsTerminal())
}

func TestTaskComplexityValid(t *testing.T) {
	require.True(t, ComplexityUnset.Valid())
	require.True(t, ComplexityComplex.Valid())
	require.False(t, TaskComplexity("epic").Valid())
}

func TestTaskWalkAndCount(t *testing.T) {
	project := &Project{
		Tasks: []*Task{
			{ID: "t1", SubTasks: []*Task{{ID: "t2"}, {ID: "t3", SubTasks: []*Task{{ID: "t4"}}}}},
			{ID: "t5"},
		},
	}
	require.Equal(t, 5, project.TaskCount())

	var order []string
	project.Tasks[0].Walk(func(task *Task) { order = append(order, task.ID) })
	require.Equal(t, []string{"t1", "t2", "t3", "t4"}, order)
}

func TestTaskUpdateEmpty(t *testing.T) {
	require.True(t, TaskUpdate{}.Empty())

	title := "x"
	require.False(t, TaskUpdate{Title: &title}.Empty())

	deps := []string{}
	require.False(t, TaskUpdate{Dependencies: &deps}.Empty())
}

func TestTaskJSONWireNames(t *testing.T) {
	task := &Task{
		ID:        "task_1",
		ProjectID: "proj_1",
		ParentID:  "task_0",
		Title:     "T",
		Status:    TaskStatusPending,
	}
	b, err := json.Marshal(task)
	require.NoError(t, err)

	s := string(b)
	require.Contains(t, s, `"projectId":"proj_1"`)
	require.Contains(t, s, `"parentId":"task_0"`)
	require.NotContains(t, s, "project_id")

	// Unset optional fields are omitted entirely.
	require.NotContains(t, s, "subTasks")
	require.NotContains(t, s, "dependencies")
	require.NotContains(t, s, "estimatedTime")
}
