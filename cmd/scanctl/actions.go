package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/vedsatt/scan-dashboard/internal/models"
)

func (a *app) scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Start, follow and cancel scans",
	}

	req := models.StartScanRequest{}
	startCmd := &cobra.Command{
		Use:   "start PROJECT_ID",
		Short: "Start a scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project id", args[0])
			if err != nil {
				return err
			}
			resp, err := a.api.StartScan(ctxOf(cmd), id, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scan %d %s\n", resp.ScanID, colorStatus(resp.Status))
			return nil
		},
	}
	startCmd.Flags().StringVar(&req.ScanType, "type", "full", "Scan type")
	startCmd.Flags().StringSliceVar(&req.SelectedDirectories, "dir", nil, "Directory to include, repeatable")
	startCmd.Flags().StringVar(&req.Exclusions, "exclude", "", "Exclusion patterns")
	startCmd.Flags().StringVar(&req.Language, "language", "", "Primary language")
	startCmd.Flags().StringVar(&req.RepoURL, "repo", "", "Repository URL")

	statusCmd := &cobra.Command{
		Use:   "status PROJECT_ID SCAN_ID",
		Short: "Show scan progress",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, scanID, err := parseTwoIDs(args, "scan id")
			if err != nil {
				return err
			}
			progress, err := a.api.GetScan(ctxOf(cmd), projectID, scanID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scan %d %s %s\n",
				progress.ScanID, colorStatus(progress.Phase), progressBar(progress.Progress))
			return nil
		},
	}

	cancelCmd := &cobra.Command{
		Use:   "cancel PROJECT_ID SCAN_ID",
		Short: "Cancel a running scan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, scanID, err := parseTwoIDs(args, "scan id")
			if err != nil {
				return err
			}
			resp, err := a.api.CancelScan(ctxOf(cmd), projectID, scanID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scan %d %s\n", resp.ScanID, colorStatus(resp.Status))
			return nil
		},
	}

	cmd.AddCommand(startCmd, statusCmd, cancelCmd)
	return cmd
}

func (a *app) fixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fix PROJECT_ID",
		Short: "Trigger automatic fixing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project id", args[0])
			if err != nil {
				return err
			}
			resp, err := a.api.AutoFix(ctxOf(cmd), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
}

func (a *app) mergeCmd() *cobra.Command {
	var fixID int

	cmd := &cobra.Command{
		Use:   "merge PROJECT_ID",
		Short: "Merge generated fixes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project id", args[0])
			if err != nil {
				return err
			}
			var fix *int
			if cmd.Flags().Changed("fix-id") {
				fix = &fixID
			}
			resp, err := a.api.MergeFix(ctxOf(cmd), id, fix)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
	cmd.Flags().IntVar(&fixID, "fix-id", 0, "Fix to mark as applied")

	return cmd
}

func (a *app) diffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff PROJECT_ID FIX_ID",
		Short: "Show original and fixed code of a fix",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, fixID, err := parseTwoIDs(args, "fix id")
			if err != nil {
				return err
			}
			diff, err := a.api.GetDiff(ctxOf(cmd), projectID, fixID)
			if err != nil {
				return err
			}
			renderDiff(cmd.OutOrStdout(), diff)
			return nil
		},
	}
}

func (a *app) rescanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rescan PROJECT_ID",
		Short: "Scan a project again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project id", args[0])
			if err != nil {
				return err
			}
			resp, err := a.api.Rescan(ctxOf(cmd), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (scan %d)\n", resp.Message, resp.ScanID)
			return nil
		},
	}
}

func (a *app) deployCmd() *cobra.Command {
	var environment string

	cmd := &cobra.Command{
		Use:   "deploy PROJECT_ID",
		Short: "Deploy a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project id", args[0])
			if err != nil {
				return err
			}
			deployment, err := a.api.Deploy(ctxOf(cmd), id, strings.ToUpper(environment))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deployment %d to %s %s\n",
				deployment.ID, deployment.Environment, colorStatus(deployment.Status))
			return nil
		},
	}
	cmd.Flags().StringVar(&environment, "env", models.EnvironmentStaging, "STAGING or PRODUCTION")

	return cmd
}

func parseTwoIDs(args []string, second string) (int, int, error) {
	projectID, err := parseID("project id", args[0])
	if err != nil {
		return 0, 0, err
	}
	id, err := parseID(second, args[1])
	if err != nil {
		return 0, 0, err
	}
	return projectID, id, nil
}

func progressBar(progress float64) string {
	const width = 20
	filled := int(progress / 100 * width)
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
	return fmt.Sprintf("[%s] %s", color.CyanString(bar), fmt.Sprintf("%.0f%%", progress))
}
