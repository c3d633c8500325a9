package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/vedsatt/scan-dashboard/internal/models"
)

func (c *Client) ListIssues(ctx context.Context, projectID int) ([]models.Issue, error) {
	var issues []models.Issue
	err := c.doRequest(ctx, http.MethodGet, projectPath(projectID, "issues"), nil, &issues)
	return issues, err
}

func (c *Client) CreateIssue(ctx context.Context, projectID int, req models.CreateIssueRequest) (*models.Issue, error) {
	var issue models.Issue
	if err := c.doRequest(ctx, http.MethodPost, projectPath(projectID, "issues"), req, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *Client) UpdateIssue(ctx context.Context, projectID, issueID int, req models.UpdateIssueRequest) (*models.Issue, error) {
	var issue models.Issue
	endpoint := projectPath(projectID, "issues", strconv.Itoa(issueID))
	if err := c.doRequest(ctx, http.MethodPatch, endpoint, req, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *Client) ListFunctionBlocks(ctx context.Context, projectID int) ([]models.FunctionBlock, error) {
	var blocks []models.FunctionBlock
	err := c.doRequest(ctx, http.MethodGet, projectPath(projectID, "function_blocks"), nil, &blocks)
	return blocks, err
}

func (c *Client) CreateFunctionBlock(
	ctx context.Context,
	projectID int,
	req models.CreateFunctionBlockRequest,
) (*models.FunctionBlock, error) {
	var block models.FunctionBlock
	if err := c.doRequest(ctx, http.MethodPost, projectPath(projectID, "function_blocks"), req, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

func (c *Client) ListLlmFixes(ctx context.Context, projectID int) ([]models.LlmFix, error) {
	var fixes []models.LlmFix
	err := c.doRequest(ctx, http.MethodGet, projectPath(projectID, "llm_fixes"), nil, &fixes)
	return fixes, err
}

func (c *Client) CreateLlmFix(ctx context.Context, projectID int, req models.CreateLlmFixRequest) (*models.LlmFix, error) {
	var fix models.LlmFix
	if err := c.doRequest(ctx, http.MethodPost, projectPath(projectID, "llm_fixes"), req, &fix); err != nil {
		return nil, err
	}
	return &fix, nil
}

func (c *Client) UpdateLlmFix(ctx context.Context, projectID, fixID int, req models.UpdateLlmFixRequest) (*models.LlmFix, error) {
	var fix models.LlmFix
	endpoint := projectPath(projectID, "llm_fixes", strconv.Itoa(fixID))
	if err := c.doRequest(ctx, http.MethodPatch, endpoint, req, &fix); err != nil {
		return nil, err
	}
	return &fix, nil
}

func (c *Client) ListGitCommits(ctx context.Context, projectID int) ([]models.GitCommit, error) {
	var commits []models.GitCommit
	err := c.doRequest(ctx, http.MethodGet, projectPath(projectID, "git_commits"), nil, &commits)
	return commits, err
}

func (c *Client) CreateGitCommit(ctx context.Context, projectID int, req models.CreateGitCommitRequest) (*models.GitCommit, error) {
	var commit models.GitCommit
	if err := c.doRequest(ctx, http.MethodPost, projectPath(projectID, "git_commits"), req, &commit); err != nil {
		return nil, err
	}
	return &commit, nil
}

func (c *Client) ListDeployments(ctx context.Context, projectID int) ([]models.Deployment, error) {
	var deployments []models.Deployment
	err := c.doRequest(ctx, http.MethodGet, projectPath(projectID, "deployments"), nil, &deployments)
	return deployments, err
}

func (c *Client) CreateDeployment(ctx context.Context, projectID int, req models.CreateDeploymentRequest) (*models.Deployment, error) {
	var deployment models.Deployment
	if err := c.doRequest(ctx, http.MethodPost, projectPath(projectID, "deployments"), req, &deployment); err != nil {
		return nil, err
	}
	return &deployment, nil
}

func (c *Client) ListProjectHistory(ctx context.Context, projectID int) ([]models.History, error) {
	var history []models.History
	err := c.doRequest(ctx, http.MethodGet, projectPath(projectID, "history"), nil, &history)
	return history, err
}
