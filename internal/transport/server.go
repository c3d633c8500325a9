package transport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vedsatt/scan-dashboard/internal/config"
	"github.com/vedsatt/scan-dashboard/internal/models"
	"go.uber.org/zap"
)

type DashboardService interface {
	ListProjects(ctx context.Context, filter models.ProjectFilter) ([]models.Project, *models.ErrDetails)
	GetProject(ctx context.Context, id int) (*models.Project, *models.ErrDetails)
	CreateProject(ctx context.Context, req models.CreateProjectRequest) (*models.Project, *models.ErrDetails)
	UpdateProject(ctx context.Context, id int, req models.UpdateProjectRequest) (*models.Project, *models.ErrDetails)
	DeleteProject(ctx context.Context, id int) *models.ErrDetails

	ListIssues(ctx context.Context, projectID int) ([]models.Issue, *models.ErrDetails)
	CreateIssue(ctx context.Context, projectID int, req models.CreateIssueRequest) (*models.Issue, *models.ErrDetails)
	UpdateIssue(ctx context.Context, projectID, issueID int, req models.UpdateIssueRequest) (*models.Issue, *models.ErrDetails)
	ListFunctionBlocks(ctx context.Context, projectID int) ([]models.FunctionBlock, *models.ErrDetails)
	CreateFunctionBlock(
		ctx context.Context,
		projectID int,
		req models.CreateFunctionBlockRequest,
	) (*models.FunctionBlock, *models.ErrDetails)
	ListLlmFixes(ctx context.Context, projectID int) ([]models.LlmFix, *models.ErrDetails)
	CreateLlmFix(ctx context.Context, projectID int, req models.CreateLlmFixRequest) (*models.LlmFix, *models.ErrDetails)
	UpdateLlmFix(ctx context.Context, projectID, fixID int, req models.UpdateLlmFixRequest) (*models.LlmFix, *models.ErrDetails)
	ListGitCommits(ctx context.Context, projectID int) ([]models.GitCommit, *models.ErrDetails)
	CreateGitCommit(ctx context.Context, projectID int, req models.CreateGitCommitRequest) (*models.GitCommit, *models.ErrDetails)
	ListDeployments(ctx context.Context, projectID int) ([]models.Deployment, *models.ErrDetails)
	CreateDeployment(
		ctx context.Context,
		projectID int,
		req models.CreateDeploymentRequest,
	) (*models.Deployment, *models.ErrDetails)
	ListProjectHistory(ctx context.Context, projectID int) ([]models.History, *models.ErrDetails)
	ListHistory(ctx context.Context) ([]models.History, *models.ErrDetails)
	GetDashboardStats(ctx context.Context) (*models.DashboardStatsResponse, *models.ErrDetails)

	PrepareScan(ctx context.Context, projectID int, req models.PrepareScanRequest) (*models.PrepareScanResponse, *models.ErrDetails)
	StartScan(ctx context.Context, projectID int, req models.StartScanRequest) (*models.StartScanResponse, *models.ErrDetails)
	GetScan(ctx context.Context, projectID, scanID int) (*models.ScanProgressResponse, *models.ErrDetails)
	CancelScan(ctx context.Context, projectID, scanID int) (*models.CancelScanResponse, *models.ErrDetails)
	AutoFix(ctx context.Context, projectID int) (*models.MessageResponse, *models.ErrDetails)
	MergeFix(ctx context.Context, projectID int, req models.MergeFixRequest) (*models.MessageResponse, *models.ErrDetails)
	GetDiff(ctx context.Context, projectID int, fixID string) (*models.DiffResponse, *models.ErrDetails)
	Rescan(ctx context.Context, projectID int) (*models.RescanResponse, *models.ErrDetails)
	Deploy(ctx context.Context, projectID int, req models.DeployRequest) (*models.Deployment, *models.ErrDetails)
}

type server struct {
	router  chi.Router
	service DashboardService
}

// NewHandler builds the routed API without binding a listener.
func NewHandler(service DashboardService) http.Handler {
	s := &server{
		router:  chi.NewRouter(),
		service: service,
	}
	s.registerHandlers()

	return s.router
}

func StartServer(cfg *config.Config, service DashboardService) *http.Server {
	const defaultTimeout = 5 * time.Second
	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           NewHandler(service),
		ReadHeaderTimeout: defaultTimeout,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("failed to start server", zap.Error(err))
		}
	}()

	return httpServer
}

func (s *server) registerHandlers() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(logsMiddleware)

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.respondWithError(w, http.StatusNotFound, models.ErrDetails{
			Code:    models.NotFoundErr,
			Message: "route not found",
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.respondWithJSON(w, http.StatusOK, models.MessageResponse{Message: "ok"})
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/stats", s.GetDashboardStatsHandler)
		r.Get("/history", s.ListHistoryHandler)

		r.Get("/projects", s.ListProjectsHandler)
		r.Post("/projects", s.CreateProjectHandler)

		r.Route("/projects/{id}", func(r chi.Router) {
			r.Get("/", s.GetProjectHandler)
			r.Patch("/", s.UpdateProjectHandler)
			r.Delete("/", s.DeleteProjectHandler)

			r.Get("/issues", s.ListIssuesHandler)
			r.Post("/issues", s.CreateIssueHandler)
			r.Patch("/issues/{issue_id}", s.UpdateIssueHandler)

			r.Get("/function_blocks", s.ListFunctionBlocksHandler)
			r.Post("/function_blocks", s.CreateFunctionBlockHandler)

			r.Get("/llm_fixes", s.ListLlmFixesHandler)
			r.Post("/llm_fixes", s.CreateLlmFixHandler)
			r.Patch("/llm_fixes/{fix_id}", s.UpdateLlmFixHandler)

			r.Get("/git_commits", s.ListGitCommitsHandler)
			r.Post("/git_commits", s.CreateGitCommitHandler)

			r.Get("/deployments", s.ListDeploymentsHandler)
			r.Post("/deployments", s.CreateDeploymentHandler)

			r.Get("/history", s.ListProjectHistoryHandler)

			r.Post("/scan/prepare", s.PrepareScanHandler)
			r.Post("/scan", s.StartScanHandler)
			r.Get("/scans/{scan_id}", s.GetScanHandler)
			r.Post("/scans/{scan_id}/cancel", s.CancelScanHandler)
			r.Post("/fix", s.AutoFixHandler)
			r.Post("/merge_fix", s.MergeFixHandler)
			r.Get("/diff", s.GetDiffHandler)
			r.Post("/rescan", s.RescanHandler)
			r.Post("/deploy", s.DeployHandler)
		})
	})
}

func (s *server) mapServiceErrors(err string) int {
	switch err {
	case models.InvalidJSONErr, models.InvalidInputErr:
		return http.StatusBadRequest
	case models.NotFoundErr:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
