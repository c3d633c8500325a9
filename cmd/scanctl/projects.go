package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/vedsatt/scan-dashboard/internal/models"
)

func (a *app) projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "p"},
		Short:   "List and manage projects",
	}

	var filter models.ProjectFilter
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter.Status = strings.ToUpper(filter.Status)
			projects, err := a.api.ListProjects(ctxOf(cmd), filter)
			if err != nil {
				return err
			}
			renderProjects(cmd.OutOrStdout(), projects)
			return nil
		},
	}
	listCmd.Flags().StringVar(&filter.Status, "status", "", "Only projects with this status")
	listCmd.Flags().StringVar(&filter.Search, "search", "", "Match name or sonar key")

	showCmd := &cobra.Command{
		Use:   "show PROJECT_ID",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project id", args[0])
			if err != nil {
				return err
			}
			project, err := a.api.GetProject(ctxOf(cmd), id)
			if err != nil {
				return err
			}
			renderProject(cmd.OutOrStdout(), project)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete PROJECT_ID",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project id", args[0])
			if err != nil {
				return err
			}
			if err := a.api.DeleteProject(ctxOf(cmd), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "project %d deleted\n", id)
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, a.createProjectCmd(), deleteCmd)
	return cmd
}

func (a *app) createProjectCmd() *cobra.Command {
	req := models.CreateProjectRequest{}
	var description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.InputType = strings.ToUpper(req.InputType)
			if description != "" {
				req.Description = &description
			}

			project, err := a.api.CreateProject(ctxOf(cmd), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s project %d\n", color.GreenString("created"), project.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Project name")
	cmd.Flags().StringVar(&req.SonarProjectKey, "key", "", "Sonar project key")
	cmd.Flags().StringVar(&req.InputType, "input-type", models.InputTypeGit, "GIT or UPLOAD")
	cmd.Flags().StringVar(&req.Status, "status", models.ProjectScanCompleted, "Initial status")
	cmd.Flags().StringVar(&req.DeploymentStatus, "deployment-status", models.DeploymentStatusPending, "Initial deployment status")
	cmd.Flags().StringVar(&description, "description", "", "Free text description")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func (a *app) issuesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "issues PROJECT_ID",
		Short: "List a project's issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project id", args[0])
			if err != nil {
				return err
			}
			issues, err := a.api.ListIssues(ctxOf(cmd), id)
			if err != nil {
				return err
			}
			renderIssues(cmd.OutOrStdout(), issues)
			return nil
		},
	}
}

func (a *app) fixesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fixes PROJECT_ID",
		Short: "List a project's generated fixes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project id", args[0])
			if err != nil {
				return err
			}
			fixes, err := a.api.ListLlmFixes(ctxOf(cmd), id)
			if err != nil {
				return err
			}
			renderFixes(cmd.OutOrStdout(), fixes)
			return nil
		},
	}
}

func (a *app) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [PROJECT_ID]",
		Short: "Show action history, for one project or all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var history []models.History
			var err error
			if len(args) == 0 {
				history, err = a.api.ListHistory(ctxOf(cmd))
			} else {
				var id int
				if id, err = parseID("project id", args[0]); err != nil {
					return err
				}
				history, err = a.api.ListProjectHistory(ctxOf(cmd), id)
			}
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), history)
			return nil
		},
	}
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := a.api.GetStats(ctxOf(cmd))
			if err != nil {
				return err
			}
			renderStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}
