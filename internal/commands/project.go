package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskmill/taskmill/internal/models"
	"github.com/taskmill/taskmill/internal/output"
	"github.com/taskmill/taskmill/internal/service"
)

// NewProjectCmd creates the project command group.
func NewProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
		Long:  "Generate, query, and delete projects with their task trees",
	}

	cmd.AddCommand(newProjectGenerateCmd())
	cmd.AddCommand(newProjectShowCmd())
	cmd.AddCommand(newProjectListCmd())
	cmd.AddCommand(newProjectDeleteCmd())

	return cmd
}

func newProjectGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [prompt...]",
		Short: "Generate a project plan from a prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")

			var project *models.Project
			if err := withDB(func(db *DB) error {
				p, err := service.New(db, nil).GeneratePlan(cmd.Context(), prompt)
				if err != nil {
					return err
				}
				project = p
				return nil
			}); err != nil {
				return err
			}

			return output.PrintSuccess(project)
		},
	}

	return cmd
}

func newProjectShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a project and its task tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("id")
			if projectID != "" && len(args) == 1 {
				return cmdErr(errors.New("provide either --id or a positional project id, not both"))
			}
			if projectID == "" && len(args) == 1 {
				projectID = args[0]
			}
			if projectID == "" {
				return cmdErr(errors.New("--id is required"))
			}

			var project *models.Project
			if err := withDB(func(db *DB) error {
				p, err := service.New(db, nil).Project(cmd.Context(), projectID)
				if err != nil {
					return err
				}
				project = p
				return nil
			}); err != nil {
				return err
			}

			return output.PrintSuccess(project)
		},
	}

	cmd.Flags().String("id", "", "Project ID (required)")

	return cmd
}

func newProjectListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			var projects []*models.Project
			if err := withDB(func(db *DB) error {
				ps, err := service.New(db, nil).Projects(cmd.Context())
				if err != nil {
					return err
				}
				projects = ps
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Projects []*models.Project `json:"projects"`
				Count    int               `json:"count"`
			}
			return output.PrintSuccess(resp{Projects: projects, Count: len(projects)})
		},
	}

	return cmd
}

func newProjectDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a project and all of its tasks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("id")
			if projectID == "" && len(args) == 1 {
				projectID = args[0]
			}
			if projectID == "" {
				return cmdErr(errors.New("--id is required"))
			}

			if err := withDB(func(db *DB) error {
				return service.New(db, nil).DeleteProject(cmd.Context(), projectID)
			}); err != nil {
				return err
			}

			type resp struct {
				Deleted   bool   `json:"deleted"`
				ProjectID string `json:"project_id"`
			}
			return output.PrintSuccess(resp{Deleted: true, ProjectID: projectID})
		},
	}

	cmd.Flags().String("id", "", "Project ID (required)")

	return cmd
}
