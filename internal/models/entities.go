package models

import (
	"encoding/json"
	"time"
)

const (
	InputTypeGit    string = "GIT"
	InputTypeUpload string = "UPLOAD"

	ProjectScanCompleted string = "SCAN_COMPLETED"
	ProjectScanning      string = "SCANNING"
	ProjectFailed        string = "FAILED"

	DeploymentStatusDeployed  string = "DEPLOYED"
	DeploymentStatusPending   string = "PENDING"
	DeploymentStatusDeploying string = "DEPLOYING"
	DeploymentStatusFailed    string = "FAILED"

	SeverityCritical string = "CRITICAL"
	SeverityHigh     string = "HIGH"
	SeverityMedium   string = "MEDIUM"
	SeverityLow      string = "LOW"

	IssuePending string = "PENDING"
	IssueFixed   string = "FIXED"
	IssueIgnored string = "IGNORED"

	FixReady    string = "FIX_READY"
	FixApplied  string = "APPLIED"
	FixRejected string = "REJECTED"

	EnvironmentStaging    string = "STAGING"
	EnvironmentProduction string = "PRODUCTION"

	ActionScan   string = "SCAN"
	ActionFix    string = "FIX"
	ActionDeploy string = "DEPLOY"
	ActionMerge  string = "MERGE"

	HistoryCompleted string = "COMPLETED"
	HistoryCancelled string = "CANCELLED"
)

type Project struct {
	ID               int        `json:"id"`
	Name             string     `json:"name"`
	InputType        string     `json:"input_type"`
	SonarProjectKey  string     `json:"sonar_project_key"`
	Status           string     `json:"status"`
	LastScan         *time.Time `json:"last_scan"`
	FixPercentage    int        `json:"fix_percentage"`
	DeploymentStatus string     `json:"deployment_status"`
	Description      *string    `json:"description"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type Issue struct {
	ID          int       `json:"id"`
	ProjectID   int       `json:"project_id"`
	FilePath    string    `json:"file_path"`
	LineStart   int       `json:"line_start"`
	LineEnd     int       `json:"line_end"`
	Severity    string    `json:"severity"`
	VulnType    string    `json:"vuln_type"`
	Message     string    `json:"message"`
	CodeSnippet *string   `json:"code_snippet"`
	Status      string    `json:"status"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

type FunctionBlock struct {
	ID           int       `json:"id"`
	ProjectID    int       `json:"project_id"`
	FilePath     string    `json:"file_path"`
	FunctionName string    `json:"function_name"`
	LineStart    int       `json:"line_start"`
	LineEnd      int       `json:"line_end"`
	BlockType    string    `json:"block_type"`
	CodeSnippet  *string   `json:"code_snippet"`
	CreatedAt    time.Time `json:"created_at"`
}

type LlmFix struct {
	ID           int       `json:"id"`
	ProjectID    int       `json:"project_id"`
	IssueID      *int      `json:"issue_id"`
	FunctionName string    `json:"function_name"`
	LlmResponse  string    `json:"llm_response"`
	OriginalCode *string   `json:"original_code"`
	FixedCode    *string   `json:"fixed_code"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type GitCommit struct {
	ID          int       `json:"id"`
	ProjectID   int       `json:"project_id"`
	CommitHash  string    `json:"commit_hash"`
	Author      string    `json:"author"`
	Message     string    `json:"message"`
	CommittedAt time.Time `json:"committed_at"`
	CreatedAt   time.Time `json:"created_at"`
}

type Deployment struct {
	ID          int        `json:"id"`
	ProjectID   int        `json:"project_id"`
	Environment string     `json:"environment"`
	Status      string     `json:"status"`
	DeployedAt  *time.Time `json:"deployed_at"`
	ScanID      *int       `json:"scan_id"`
	FixID       *int       `json:"fix_id"`
	CreatedAt   time.Time  `json:"created_at"`
}

// History is an audit row for one simulated action. ActionData is an
// arbitrary JSON object whose shape depends on ActionType.
type History struct {
	ID         int             `json:"id"`
	ProjectID  int             `json:"project_id"`
	ActionType string          `json:"action_type"`
	ActionData json.RawMessage `json:"action_data"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}
