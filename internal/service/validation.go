package service

import (
	"strings"

	"github.com/vedsatt/scan-dashboard/internal/models"
)

var (
	inputTypes         = []string{models.InputTypeGit, models.InputTypeUpload}
	projectStatuses    = []string{models.ProjectScanCompleted, models.ProjectScanning, models.ProjectFailed}
	projectDeployments = []string{models.DeploymentStatusDeployed, models.DeploymentStatusPending, models.DeploymentStatusFailed}
	severities         = []string{models.SeverityCritical, models.SeverityHigh, models.SeverityMedium, models.SeverityLow}
	issueStatuses      = []string{models.IssuePending, models.IssueFixed, models.IssueIgnored}
	fixStatuses        = []string{models.FixReady, models.FixApplied, models.FixRejected}
	environments       = []string{models.EnvironmentStaging, models.EnvironmentProduction}
	deploymentStatuses = []string{models.DeploymentStatusDeployed, models.DeploymentStatusDeploying, models.DeploymentStatusFailed}
)

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func enumMessage(field string, allowed []string) string {
	return field + " must be one of " + strings.Join(allowed, ", ")
}

func validateLines(start, end int) string {
	if start < 0 {
		return "line_start must not be negative"
	}
	if end < start {
		return "line_end must not be before line_start"
	}
	return ""
}

func validateFixPercentage(v *int) string {
	if v != nil && (*v < 0 || *v > 100) {
		return "fix_percentage must be between 0 and 100"
	}
	return ""
}

func validateCreateProject(req models.CreateProjectRequest) string {
	switch {
	case blank(req.Name):
		return "name is required"
	case blank(req.SonarProjectKey):
		return "sonar_project_key is required"
	case !oneOf(req.InputType, inputTypes...):
		return enumMessage("input_type", inputTypes)
	case !oneOf(req.Status, projectStatuses...):
		return enumMessage("status", projectStatuses)
	case !oneOf(req.DeploymentStatus, projectDeployments...):
		return enumMessage("deployment_status", projectDeployments)
	}
	return validateFixPercentage(req.FixPercentage)
}

func validateUpdateProject(req models.UpdateProjectRequest) string {
	switch {
	case req.Name != nil && blank(*req.Name):
		return "name must not be empty"
	case req.SonarProjectKey != nil && blank(*req.SonarProjectKey):
		return "sonar_project_key must not be empty"
	case req.InputType != nil && !oneOf(*req.InputType, inputTypes...):
		return enumMessage("input_type", inputTypes)
	case req.Status != nil && !oneOf(*req.Status, projectStatuses...):
		return enumMessage("status", projectStatuses)
	case req.DeploymentStatus != nil && !oneOf(*req.DeploymentStatus, projectDeployments...):
		return enumMessage("deployment_status", projectDeployments)
	}
	return validateFixPercentage(req.FixPercentage)
}

func validateCreateIssue(req models.CreateIssueRequest) string {
	switch {
	case blank(req.FilePath):
		return "file_path is required"
	case blank(req.VulnType):
		return "vuln_type is required"
	case blank(req.Message):
		return "message is required"
	case !oneOf(req.Severity, severities...):
		return enumMessage("severity", severities)
	case !oneOf(req.Status, issueStatuses...):
		return enumMessage("status", issueStatuses)
	}
	return validateLines(req.LineStart, req.LineEnd)
}

func validateUpdateIssue(req models.UpdateIssueRequest) string {
	switch {
	case req.Severity != nil && !oneOf(*req.Severity, severities...):
		return enumMessage("severity", severities)
	case req.Status != nil && !oneOf(*req.Status, issueStatuses...):
		return enumMessage("status", issueStatuses)
	case req.Message != nil && blank(*req.Message):
		return "message must not be empty"
	}
	return ""
}

func validateCreateFunctionBlock(req models.CreateFunctionBlockRequest) string {
	switch {
	case blank(req.FilePath):
		return "file_path is required"
	case blank(req.FunctionName):
		return "function_name is required"
	case blank(req.BlockType):
		return "block_type is required"
	}
	return validateLines(req.LineStart, req.LineEnd)
}

func validateCreateLlmFix(req models.CreateLlmFixRequest) string {
	switch {
	case blank(req.FunctionName):
		return "function_name is required"
	case blank(req.LlmResponse):
		return "llm_response is required"
	case !oneOf(req.Status, fixStatuses...):
		return enumMessage("status", fixStatuses)
	}
	return ""
}

func validateUpdateLlmFix(req models.UpdateLlmFixRequest) string {
	if req.Status != nil && !oneOf(*req.Status, fixStatuses...) {
		return enumMessage("status", fixStatuses)
	}
	return ""
}

func validateCreateGitCommit(req models.CreateGitCommitRequest) string {
	switch {
	case blank(req.CommitHash):
		return "commit_hash is required"
	case blank(req.Author):
		return "author is required"
	case blank(req.Message):
		return "message is required"
	case req.CommittedAt.IsZero():
		return "committed_at is required"
	}
	return ""
}

func validateCreateDeployment(req models.CreateDeploymentRequest) string {
	switch {
	case !oneOf(req.Environment, environments...):
		return enumMessage("environment", environments)
	case !oneOf(req.Status, deploymentStatuses...):
		return enumMessage("status", deploymentStatuses)
	}
	return ""
}
