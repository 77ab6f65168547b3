package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskmill/taskmill/internal/models"
	"github.com/taskmill/taskmill/internal/output"
	"github.com/taskmill/taskmill/internal/service"
)

// NewTaskCmd creates the task command group
func NewTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
		Long:  "Query and update tasks. Valid statuses: pending, in-progress, completed, blocked",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newTaskShowCmd())
	cmd.AddCommand(newTaskSetStatusCmd())
	cmd.AddCommand(newTaskDeleteCmd())

	return cmd
}

func taskIDFromFlagOrArg(cmd *cobra.Command, args []string) (string, error) {
	taskID, _ := cmd.Flags().GetString("id")
	if taskID != "" && len(args) == 1 {
		return "", errors.New("provide either --id or a positional task id, not both")
	}
	if taskID == "" && len(args) == 1 {
		taskID = args[0]
	}
	if taskID == "" {
		return "", errors.New("--id is required")
	}
	return taskID, nil
}

func newTaskShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a task and its sub-task tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := taskIDFromFlagOrArg(cmd, args)
			if err != nil {
				return cmdErr(err)
			}

			var task *models.Task
			if err := withDB(func(db *DB) error {
				t, err := service.New(db, nil).Task(cmd.Context(), taskID)
				if err != nil {
					return err
				}
				task = t
				return nil
			}); err != nil {
				return err
			}

			return output.PrintSuccess(task)
		},
	}

	cmd.Flags().String("id", "", "Task ID (required)")

	return cmd
}

func newTaskSetStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Set a task's status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := taskIDFromFlagOrArg(cmd, args)
			if err != nil {
				return cmdErr(err)
			}

			statusStr, _ := cmd.Flags().GetString("status")
			status := models.TaskStatus(statusStr)
			if !status.Valid() {
				return cmdErr(fmt.Errorf("invalid status %q (valid: %v)", statusStr, models.TaskStatusValues()))
			}

			var task *models.Task
			if err := withDB(func(db *DB) error {
				t, err := service.New(db, nil).SetTaskStatus(cmd.Context(), taskID, status)
				if err != nil {
					return err
				}
				task = t
				return nil
			}); err != nil {
				return err
			}

			return output.PrintSuccess(task)
		},
	}

	cmd.Flags().String("id", "", "Task ID (required)")
	cmd.Flags().String("status", "", "New status (required)")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}

func newTaskDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a task and its sub-task subtree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := taskIDFromFlagOrArg(cmd, args)
			if err != nil {
				return cmdErr(err)
			}

			var found bool
			if err := withDB(func(db *DB) error {
				ok, err := service.New(db, nil).DeleteTask(cmd.Context(), taskID)
				if err != nil {
					return err
				}
				found = ok
				return nil
			}); err != nil {
				return err
			}

			if !found {
				return cmdErr(&models.NotFoundError{Entity: "task", ID: taskID})
			}

			type resp struct {
				Deleted bool   `json:"deleted"`
				TaskID  string `json:"task_id"`
			}
			return output.PrintSuccess(resp{Deleted: true, TaskID: taskID})
		},
	}

	cmd.Flags().String("id", "", "Task ID (required)")

	return cmd
}
