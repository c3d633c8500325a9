package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/vedsatt/scan-dashboard/internal/models"
)

func colorStatus(status string) string {
	switch status {
	case models.ProjectScanCompleted, models.DeploymentStatusDeployed, models.FixApplied,
		models.IssueFixed, models.HistoryCompleted:
		return color.GreenString(status)
	case models.ProjectScanning, models.DeploymentStatusPending, models.DeploymentStatusDeploying,
		models.FixReady, models.SeverityHigh:
		return color.YellowString(status)
	case models.ProjectFailed, models.HistoryCancelled, models.FixRejected, models.SeverityCritical:
		return color.RedString(status)
	default:
		return status
	}
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func renderProjects(w io.Writer, projects []models.Project) {
	table := newTable(w, "ID", "Name", "Sonar Key", "Status", "Fix %", "Deployment", "Last Scan")
	for _, p := range projects {
		table.Append([]string{
			strconv.Itoa(p.ID),
			p.Name,
			p.SonarProjectKey,
			colorStatus(p.Status),
			strconv.Itoa(p.FixPercentage),
			colorStatus(p.DeploymentStatus),
			formatTime(p.LastScan),
		})
	}
	table.Render()
}

func renderProject(w io.Writer, p *models.Project) {
	fmt.Fprintf(w, "%s (#%d)\n", p.Name, p.ID)
	fmt.Fprintf(w, "  input:       %s\n", p.InputType)
	fmt.Fprintf(w, "  sonar key:   %s\n", p.SonarProjectKey)
	fmt.Fprintf(w, "  status:      %s\n", colorStatus(p.Status))
	fmt.Fprintf(w, "  fixed:       %d%%\n", p.FixPercentage)
	fmt.Fprintf(w, "  deployment:  %s\n", colorStatus(p.DeploymentStatus))
	fmt.Fprintf(w, "  last scan:   %s\n", formatTime(p.LastScan))
	if desc := deref(p.Description); desc != "" {
		fmt.Fprintf(w, "  description: %s\n", desc)
	}
}

func renderIssues(w io.Writer, issues []models.Issue) {
	table := newTable(w, "ID", "Severity", "Type", "Location", "Status", "Message")
	for _, i := range issues {
		table.Append([]string{
			strconv.Itoa(i.ID),
			colorStatus(i.Severity),
			i.VulnType,
			fmt.Sprintf("%s:%d-%d", i.FilePath, i.LineStart, i.LineEnd),
			colorStatus(i.Status),
			i.Message,
		})
	}
	table.Render()
}

func renderFixes(w io.Writer, fixes []models.LlmFix) {
	table := newTable(w, "ID", "Issue", "Function", "Status", "Created")
	for _, f := range fixes {
		issue := "-"
		if f.IssueID != nil {
			issue = strconv.Itoa(*f.IssueID)
		}
		created := f.CreatedAt
		table.Append([]string{
			strconv.Itoa(f.ID),
			issue,
			f.FunctionName,
			colorStatus(f.Status),
			formatTime(&created),
		})
	}
	table.Render()
}

func renderHistory(w io.Writer, history []models.History) {
	table := newTable(w, "ID", "Project", "Action", "Status", "Data", "When")
	for _, h := range history {
		created := h.CreatedAt
		table.Append([]string{
			strconv.Itoa(h.ID),
			strconv.Itoa(h.ProjectID),
			h.ActionType,
			colorStatus(h.Status),
			string(h.ActionData),
			formatTime(&created),
		})
	}
	table.Render()
}

func renderStats(w io.Writer, stats *models.DashboardStatsResponse) {
	table := newTable(w, "Metric", "Value")
	table.Append([]string{"Total projects", strconv.Itoa(stats.TotalProjects)})
	table.Append([]string{"Critical issues", color.RedString(strconv.Itoa(stats.CriticalIssues))})
	table.Append([]string{"Fixes applied", color.GreenString(strconv.Itoa(stats.FixesApplied))})
	table.Append([]string{"Average fix rate", strconv.Itoa(stats.AvgFixRate) + "%"})
	table.Render()
}

func renderDiff(w io.Writer, diff *models.DiffResponse) {
	fmt.Fprintf(w, "function %s\n", diff.FunctionName)
	fmt.Fprintln(w, color.RedString("--- original"))
	fmt.Fprintln(w, deref(diff.OriginalCode))
	fmt.Fprintln(w, color.GreenString("+++ fixed"))
	fmt.Fprintln(w, deref(diff.FixedCode))
}
