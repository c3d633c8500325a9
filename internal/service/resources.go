package service

import (
	"context"

	"github.com/vedsatt/scan-dashboard/internal/models"
)

func (s *Service) ListIssues(ctx context.Context, projectID int) ([]models.Issue, *models.ErrDetails) {
	issues, err := s.repository.SelectProjectIssues(ctx, projectID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return issues, nil
}

func (s *Service) CreateIssue(ctx context.Context, projectID int, req models.CreateIssueRequest) (*models.Issue, *models.ErrDetails) {
	req.ProjectID = projectID
	if msg := validateCreateIssue(req); msg != "" {
		return nil, invalidInput("CreateIssue", msg)
	}

	if _, details := s.requireProject(ctx, projectID); details != nil {
		return nil, details
	}

	issue, err := s.repository.InsertIssue(ctx, req)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return issue, nil
}

func (s *Service) UpdateIssue(ctx context.Context, projectID, issueID int, req models.UpdateIssueRequest) (*models.Issue, *models.ErrDetails) {
	if msg := validateUpdateIssue(req); msg != "" {
		return nil, invalidInput("UpdateIssue", msg)
	}

	var issue *models.Issue
	err := s.repository.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.repository.SelectIssue(ctx, issueID)
		if err != nil {
			return err
		}
		if existing.ProjectID != projectID {
			return notInProject("issue", issueID, projectID)
		}

		issue, err = s.repository.UpdateIssue(ctx, issueID, req)
		return err
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return issue, nil
}

func (s *Service) ListFunctionBlocks(ctx context.Context, projectID int) ([]models.FunctionBlock, *models.ErrDetails) {
	blocks, err := s.repository.SelectProjectFunctionBlocks(ctx, projectID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return blocks, nil
}

func (s *Service) CreateFunctionBlock(
	ctx context.Context,
	projectID int,
	req models.CreateFunctionBlockRequest,
) (*models.FunctionBlock, *models.ErrDetails) {
	req.ProjectID = projectID
	if msg := validateCreateFunctionBlock(req); msg != "" {
		return nil, invalidInput("CreateFunctionBlock", msg)
	}

	if _, details := s.requireProject(ctx, projectID); details != nil {
		return nil, details
	}

	block, err := s.repository.InsertFunctionBlock(ctx, req)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return block, nil
}

func (s *Service) ListLlmFixes(ctx context.Context, projectID int) ([]models.LlmFix, *models.ErrDetails) {
	fixes, err := s.repository.SelectProjectLlmFixes(ctx, projectID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return fixes, nil
}

func (s *Service) CreateLlmFix(ctx context.Context, projectID int, req models.CreateLlmFixRequest) (*models.LlmFix, *models.ErrDetails) {
	req.ProjectID = projectID
	if msg := validateCreateLlmFix(req); msg != "" {
		return nil, invalidInput("CreateLlmFix", msg)
	}

	if _, details := s.requireProject(ctx, projectID); details != nil {
		return nil, details
	}

	fix, err := s.repository.InsertLlmFix(ctx, req)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return fix, nil
}

func (s *Service) UpdateLlmFix(ctx context.Context, projectID, fixID int, req models.UpdateLlmFixRequest) (*models.LlmFix, *models.ErrDetails) {
	if msg := validateUpdateLlmFix(req); msg != "" {
		return nil, invalidInput("UpdateLlmFix", msg)
	}

	var fix *models.LlmFix
	err := s.repository.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.projectFix(ctx, projectID, fixID); err != nil {
			return err
		}

		var err error
		fix, err = s.repository.UpdateLlmFix(ctx, fixID, req)
		return err
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return fix, nil
}

func (s *Service) ListGitCommits(ctx context.Context, projectID int) ([]models.GitCommit, *models.ErrDetails) {
	commits, err := s.repository.SelectProjectGitCommits(ctx, projectID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return commits, nil
}

func (s *Service) CreateGitCommit(ctx context.Context, projectID int, req models.CreateGitCommitRequest) (*models.GitCommit, *models.ErrDetails) {
	req.ProjectID = projectID
	if msg := validateCreateGitCommit(req); msg != "" {
		return nil, invalidInput("CreateGitCommit", msg)
	}

	if _, details := s.requireProject(ctx, projectID); details != nil {
		return nil, details
	}

	commit, err := s.repository.InsertGitCommit(ctx, req)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return commit, nil
}

func (s *Service) ListDeployments(ctx context.Context, projectID int) ([]models.Deployment, *models.ErrDetails) {
	deployments, err := s.repository.SelectProjectDeployments(ctx, projectID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return deployments, nil
}

func (s *Service) CreateDeployment(
	ctx context.Context,
	projectID int,
	req models.CreateDeploymentRequest,
) (*models.Deployment, *models.ErrDetails) {
	req.ProjectID = projectID
	if msg := validateCreateDeployment(req); msg != "" {
		return nil, invalidInput("CreateDeployment", msg)
	}

	if _, details := s.requireProject(ctx, projectID); details != nil {
		return nil, details
	}

	deployment, err := s.repository.InsertDeployment(ctx, req)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return deployment, nil
}

func (s *Service) ListProjectHistory(ctx context.Context, projectID int) ([]models.History, *models.ErrDetails) {
	history, err := s.repository.SelectProjectHistory(ctx, projectID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return history, nil
}

func (s *Service) ListHistory(ctx context.Context) ([]models.History, *models.ErrDetails) {
	history, err := s.repository.SelectHistory(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return history, nil
}

func (s *Service) GetDashboardStats(ctx context.Context) (*models.DashboardStatsResponse, *models.ErrDetails) {
	stats, err := s.repository.SelectDashboardStats(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return stats, nil
}
