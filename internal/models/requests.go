package models

import (
	"encoding/json"
	"time"
)

type CreateProjectRequest struct {
	Name             string     `json:"name"`
	InputType        string     `json:"input_type"`
	SonarProjectKey  string     `json:"sonar_project_key"`
	Status           string     `json:"status"`
	LastScan         *time.Time `json:"last_scan"`
	FixPercentage    *int       `json:"fix_percentage"`
	DeploymentStatus string     `json:"deployment_status"`
	Description      *string    `json:"description"`
}

type UpdateProjectRequest struct {
	Name             *string    `json:"name"`
	InputType        *string    `json:"input_type"`
	SonarProjectKey  *string    `json:"sonar_project_key"`
	Status           *string    `json:"status"`
	LastScan         *time.Time `json:"last_scan"`
	FixPercentage    *int       `json:"fix_percentage"`
	DeploymentStatus *string    `json:"deployment_status"`
	Description      *string    `json:"description"`
}

type ProjectFilter struct {
	Status string
	Search string
}

type CreateIssueRequest struct {
	ProjectID   int      `json:"-"`
	FilePath    string   `json:"file_path"`
	LineStart   int      `json:"line_start"`
	LineEnd     int      `json:"line_end"`
	Severity    string   `json:"severity"`
	VulnType    string   `json:"vuln_type"`
	Message     string   `json:"message"`
	CodeSnippet *string  `json:"code_snippet"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
}

type UpdateIssueRequest struct {
	Severity    *string   `json:"severity"`
	Message     *string   `json:"message"`
	CodeSnippet *string   `json:"code_snippet"`
	Status      *string   `json:"status"`
	Tags        *[]string `json:"tags"`
}

type CreateFunctionBlockRequest struct {
	ProjectID    int     `json:"-"`
	FilePath     string  `json:"file_path"`
	FunctionName string  `json:"function_name"`
	LineStart    int     `json:"line_start"`
	LineEnd      int     `json:"line_end"`
	BlockType    string  `json:"block_type"`
	CodeSnippet  *string `json:"code_snippet"`
}

type CreateLlmFixRequest struct {
	ProjectID    int     `json:"-"`
	IssueID      *int    `json:"issue_id"`
	FunctionName string  `json:"function_name"`
	LlmResponse  string  `json:"llm_response"`
	OriginalCode *string `json:"original_code"`
	FixedCode    *string `json:"fixed_code"`
	Status       string  `json:"status"`
}

type UpdateLlmFixRequest struct {
	LlmResponse *string `json:"llm_response"`
	FixedCode   *string `json:"fixed_code"`
	Status      *string `json:"status"`
}

type CreateGitCommitRequest struct {
	ProjectID   int       `json:"-"`
	CommitHash  string    `json:"commit_hash"`
	Author      string    `json:"author"`
	Message     string    `json:"message"`
	CommittedAt time.Time `json:"committed_at"`
}

type CreateDeploymentRequest struct {
	ProjectID   int        `json:"-"`
	Environment string     `json:"environment"`
	Status      string     `json:"status"`
	DeployedAt  *time.Time `json:"deployed_at"`
	ScanID      *int       `json:"scan_id"`
	FixID       *int       `json:"fix_id"`
}

type UpdateDeploymentRequest struct {
	Status     *string    `json:"status"`
	DeployedAt *time.Time `json:"deployed_at"`
}

type CreateHistoryRequest struct {
	ProjectID  int
	ActionType string
	ActionData json.RawMessage
	Status     string
}

type PrepareScanRequest struct {
	RepoURL     string `json:"repo_url"`
	GitUsername string `json:"git_username"`
	GitPassword string `json:"git_password"`
	Language    string `json:"language"`
}

type StartScanRequest struct {
	ScanType            string   `json:"scan_type"`
	SelectedDirectories []string `json:"selected_directories"`
	Exclusions          string   `json:"exclusions"`
	RepoURL             string   `json:"repo_url"`
	GitUsername         string   `json:"git_username"`
	GitPassword         string   `json:"git_password"`
	Language            string   `json:"language"`
}

type MergeFixRequest struct {
	FixID *int `json:"fix_id"`
}

type DeployRequest struct {
	Environment string `json:"environment"`
}
