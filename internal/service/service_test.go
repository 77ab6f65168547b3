package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskmill/taskmill/internal/models"
	"github.com/taskmill/taskmill/internal/planner"
	"github.com/taskmill/taskmill/internal/store"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.InitDBWithPath(t.TempDir() + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestGeneratePlan_EmptyPrompt(t *testing.T) {
	svc := New(setupTestDB(t), nil)

	_, err := svc.GeneratePlan(context.Background(), "")
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "prompt", ve.Field)
}

func TestGeneratePlan_UsesInjectedPlanner(t *testing.T) {
	var gotPrompt string
	plan := func(ctx context.Context, prompt string) (*planner.Plan, error) {
		gotPrompt = prompt
		return &planner.Plan{
			Name: "Custom Plan",
			Tasks: []*models.TaskDraft{
				{Title: "Only task", SubTasks: []*models.TaskDraft{{Title: "Only sub-task"}}},
			},
		}, nil
	}
	svc := New(setupTestDB(t), plan)

	project, err := svc.GeneratePlan(context.Background(), "do the thing")
	require.NoError(t, err)
	require.Equal(t, "do the thing", gotPrompt)
	require.Equal(t, "Custom Plan", project.Name)
	require.Equal(t, "do the thing", project.OriginalPrompt)
	require.Equal(t, 2, project.TaskCount())
}

func TestGeneratePlan_PlannerErrorNothingPersisted(t *testing.T) {
	db := setupTestDB(t)
	plan := func(ctx context.Context, prompt string) (*planner.Plan, error) {
		return nil, errors.New("backend unavailable")
	}
	svc := New(db, plan)

	_, err := svc.GeneratePlan(context.Background(), "doomed")
	require.Error(t, err)

	projects, err := svc.Projects(context.Background())
	require.NoError(t, err)
	require.Empty(t, projects)
}

func TestGeneratePlan_DefaultSimulatedPlanner(t *testing.T) {
	svc := New(setupTestDB(t), nil)

	project, err := svc.GeneratePlan(context.Background(), "Create a Flask weather app")
	require.NoError(t, err)
	require.NotEmpty(t, project.Tasks)

	// The simulated backend nests sub-tasks under each phase.
	require.NotEmpty(t, project.Tasks[0].SubTasks)
}

func TestServiceLifecycle(t *testing.T) {
	svc := New(setupTestDB(t), nil)
	ctx := context.Background()

	project, err := svc.GeneratePlan(ctx, "end to end")
	require.NoError(t, err)

	added, err := svc.AddTask(ctx, project.ID, &models.TaskDraft{Title: "Extra"})
	require.NoError(t, err)

	updated, err := svc.SetTaskStatus(ctx, added.ID, models.TaskStatusCompleted)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusCompleted, updated.Status)

	found, err := svc.DeleteTask(ctx, added.ID)
	require.NoError(t, err)
	require.True(t, found)

	require.NoError(t, svc.DeleteProject(ctx, project.ID))

	_, err = svc.Project(ctx, project.ID)
	var nfe *models.NotFoundError
	require.ErrorAs(t, err, &nfe)
}
