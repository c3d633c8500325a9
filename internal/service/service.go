package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vedsatt/scan-dashboard/internal/models"
	"github.com/vedsatt/scan-dashboard/internal/simulation"
	"go.uber.org/zap"
)

type Repository interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error

	SelectProjects(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error)
	SelectProject(ctx context.Context, id int) (*models.Project, error)
	InsertProject(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error)
	UpdateProject(ctx context.Context, id int, req models.UpdateProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, id int) error

	SelectProjectIssues(ctx context.Context, projectID int) ([]models.Issue, error)
	SelectIssue(ctx context.Context, id int) (*models.Issue, error)
	InsertIssue(ctx context.Context, req models.CreateIssueRequest) (*models.Issue, error)
	UpdateIssue(ctx context.Context, id int, req models.UpdateIssueRequest) (*models.Issue, error)

	SelectProjectFunctionBlocks(ctx context.Context, projectID int) ([]models.FunctionBlock, error)
	InsertFunctionBlock(ctx context.Context, req models.CreateFunctionBlockRequest) (*models.FunctionBlock, error)

	SelectProjectLlmFixes(ctx context.Context, projectID int) ([]models.LlmFix, error)
	SelectLlmFix(ctx context.Context, id int) (*models.LlmFix, error)
	InsertLlmFix(ctx context.Context, req models.CreateLlmFixRequest) (*models.LlmFix, error)
	UpdateLlmFix(ctx context.Context, id int, req models.UpdateLlmFixRequest) (*models.LlmFix, error)

	SelectProjectGitCommits(ctx context.Context, projectID int) ([]models.GitCommit, error)
	InsertGitCommit(ctx context.Context, req models.CreateGitCommitRequest) (*models.GitCommit, error)

	SelectProjectDeployments(ctx context.Context, projectID int) ([]models.Deployment, error)
	InsertDeployment(ctx context.Context, req models.CreateDeploymentRequest) (*models.Deployment, error)
	UpdateDeployment(ctx context.Context, id int, req models.UpdateDeploymentRequest) (*models.Deployment, error)

	SelectProjectHistory(ctx context.Context, projectID int) ([]models.History, error)
	SelectHistory(ctx context.Context) ([]models.History, error)
	InsertHistory(ctx context.Context, req models.CreateHistoryRequest) (*models.History, error)

	SelectDashboardStats(ctx context.Context) (*models.DashboardStatsResponse, error)
}

type Simulator interface {
	Start(kind simulation.Kind, projectID int, plan simulation.Plan, onComplete simulation.CompleteFunc) (simulation.Snapshot, error)
	Get(id int) (simulation.Snapshot, bool)
	Cancel(id int) bool
}

type Service struct {
	repository Repository
	simulator  Simulator
	now        func() time.Time

	// scansMu serialises scan starts, cancels and completions. latestScans
	// maps a project to the id of its most recent scan run.
	scansMu     sync.Mutex
	latestScans map[int]int
}

func NewService(repo Repository, simulator Simulator) *Service {
	return &Service{
		repository:  repo,
		simulator:   simulator,
		now:         time.Now,
		latestScans: make(map[int]int),
	}
}

var internalErr = models.ErrDetails{
	Code:    models.InternalErr,
	Message: "service unavailable, try again later",
}

func mapRepositoryError(err error) *models.ErrDetails {
	if errors.Is(err, models.ErrNotFound) {
		zap.L().Info("business logic error", zap.Error(err), zap.String("type", "business"))
		return &models.ErrDetails{Code: models.NotFoundErr, Message: err.Error()}
	}

	zap.L().Error("server error", zap.Error(err), zap.String("type", "technical"))
	details := internalErr
	return &details
}

func invalidInput(op string, message string) *models.ErrDetails {
	zap.L().Info("business logic error",
		zap.Error(errors.New(op+": "+message)),
		zap.String("type", "business"))

	return &models.ErrDetails{Code: models.InvalidInputErr, Message: message}
}

// requireProject loads the project or returns NOT_FOUND.
func (s *Service) requireProject(ctx context.Context, id int) (*models.Project, *models.ErrDetails) {
	project, err := s.repository.SelectProject(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return project, nil
}

func (s *Service) ListProjects(ctx context.Context, filter models.ProjectFilter) ([]models.Project, *models.ErrDetails) {
	if filter.Status != "" && !oneOf(filter.Status, projectStatuses...) {
		return nil, invalidInput("ListProjects", "unknown status filter")
	}

	projects, err := s.repository.SelectProjects(ctx, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return projects, nil
}

func (s *Service) GetProject(ctx context.Context, id int) (*models.Project, *models.ErrDetails) {
	return s.requireProject(ctx, id)
}

func (s *Service) CreateProject(ctx context.Context, req models.CreateProjectRequest) (*models.Project, *models.ErrDetails) {
	if msg := validateCreateProject(req); msg != "" {
		return nil, invalidInput("CreateProject", msg)
	}

	project, err := s.repository.InsertProject(ctx, req)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	zap.L().Info("project created", zap.Int("project_id", project.ID), zap.String("name", project.Name))
	return project, nil
}

func (s *Service) UpdateProject(ctx context.Context, id int, req models.UpdateProjectRequest) (*models.Project, *models.ErrDetails) {
	if msg := validateUpdateProject(req); msg != "" {
		return nil, invalidInput("UpdateProject", msg)
	}

	project, err := s.repository.UpdateProject(ctx, id, req)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return project, nil
}

func (s *Service) DeleteProject(ctx context.Context, id int) *models.ErrDetails {
	if err := s.repository.DeleteProject(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	zap.L().Info("project deleted", zap.Int("project_id", id))
	return nil
}
