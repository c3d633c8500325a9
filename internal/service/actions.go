package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/vedsatt/scan-dashboard/internal/models"
	"github.com/vedsatt/scan-dashboard/internal/simulation"
	"go.uber.org/zap"
)

// Directory listing returned while preparing a scan. No repository is read.
var preparedDirectories = []string{"src/", "tests/", "docs/", "config/", "public/", "assets/"}

type scanActionData struct {
	ScanID              int      `json:"scan_id,omitempty"`
	ScanType            string   `json:"scan_type,omitempty"`
	SelectedDirectories []string `json:"selected_directories,omitempty"`
	Exclusions          string   `json:"exclusions,omitempty"`
	Language            string   `json:"language,omitempty"`
	Action              string   `json:"action,omitempty"`
}

type fixActionData struct {
	FixType string `json:"fix_type"`
}

type mergeActionData struct {
	FixID *int `json:"fix_id,omitempty"`
}

type deployActionData struct {
	Environment  string `json:"environment"`
	DeploymentID int    `json:"deployment_id"`
}

func notInProject(entity string, id, projectID int) error {
	return fmt.Errorf("%s %d in project %d: %w", entity, id, projectID, models.ErrNotFound)
}

// redactURL drops any userinfo from a repository URL before it is logged.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	u.User = nil
	return u.String()
}

func strPtr(s string) *string {
	return &s
}

func (s *Service) recordHistory(ctx context.Context, projectID int, action, status string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s action data: %w", action, err)
	}

	_, err = s.repository.InsertHistory(ctx, models.CreateHistoryRequest{
		ProjectID:  projectID,
		ActionType: action,
		ActionData: raw,
		Status:     status,
	})
	return err
}

// projectFix loads a fix and checks it belongs to projectID.
func (s *Service) projectFix(ctx context.Context, projectID, fixID int) (*models.LlmFix, error) {
	fix, err := s.repository.SelectLlmFix(ctx, fixID)
	if err != nil {
		return nil, err
	}
	if fix.ProjectID != projectID {
		return nil, notInProject("llm fix", fixID, projectID)
	}
	return fix, nil
}

func (s *Service) PrepareScan(ctx context.Context, projectID int, req models.PrepareScanRequest) (*models.PrepareScanResponse, *models.ErrDetails) {
	if _, details := s.requireProject(ctx, projectID); details != nil {
		return nil, details
	}

	zap.L().Info("scan prepared",
		zap.Int("project_id", projectID),
		zap.String("repo_url", redactURL(req.RepoURL)),
		zap.String("language", req.Language))

	dirs := make([]string, len(preparedDirectories))
	copy(dirs, preparedDirectories)
	return &models.PrepareScanResponse{Directories: dirs}, nil
}

// completeScan marks a still-scanning project as done. Runs superseded by a
// newer scan of the same project are ignored.
func (s *Service) completeScan(ctx context.Context, snap simulation.Snapshot) error {
	s.scansMu.Lock()
	defer s.scansMu.Unlock()

	if s.latestScans[snap.ProjectID] != snap.ID {
		return nil
	}

	project, err := s.repository.SelectProject(ctx, snap.ProjectID)
	if err != nil {
		return err
	}
	if project.Status != models.ProjectScanning {
		return nil
	}

	_, err = s.repository.UpdateProject(ctx, snap.ProjectID, models.UpdateProjectRequest{
		Status: strPtr(models.ProjectScanCompleted),
	})
	return err
}

// beginScan marks the project SCANNING, then starts the scan run and records
// it. A scan already running for the project is cancelled first. scansMu is
// held throughout so the completion hook only sees committed state.
func (s *Service) beginScan(ctx context.Context, projectID int, data scanActionData) (simulation.Snapshot, *models.ErrDetails) {
	if _, details := s.requireProject(ctx, projectID); details != nil {
		return simulation.Snapshot{}, details
	}

	s.scansMu.Lock()
	defer s.scansMu.Unlock()

	if previous, ok := s.latestScans[projectID]; ok && s.simulator.Cancel(previous) {
		zap.L().Info("scan superseded",
			zap.Int("project_id", projectID),
			zap.Int("scan_id", previous))
	}

	now := s.now()
	_, err := s.repository.UpdateProject(ctx, projectID, models.UpdateProjectRequest{
		Status:   strPtr(models.ProjectScanning),
		LastScan: &now,
	})
	if err != nil {
		return simulation.Snapshot{}, mapRepositoryError(err)
	}

	snap, err := s.simulator.Start(simulation.KindScan, projectID, simulation.ScanPlan, s.completeScan)
	if err != nil {
		s.failScan(ctx, projectID)
		return simulation.Snapshot{}, mapRepositoryError(err)
	}
	s.latestScans[projectID] = snap.ID

	data.ScanID = snap.ID
	if err := s.recordHistory(ctx, projectID, models.ActionScan, models.HistoryCompleted, data); err != nil {
		s.simulator.Cancel(snap.ID)
		s.failScan(ctx, projectID)
		return simulation.Snapshot{}, mapRepositoryError(err)
	}

	return snap, nil
}

// failScan marks a project whose scan could not be started as FAILED.
func (s *Service) failScan(ctx context.Context, projectID int) {
	_, err := s.repository.UpdateProject(ctx, projectID, models.UpdateProjectRequest{
		Status: strPtr(models.ProjectFailed),
	})
	if err != nil {
		zap.L().Error("failed to mark scan as failed",
			zap.Error(err),
			zap.Int("project_id", projectID),
			zap.String("type", "technical"))
	}
}

func (s *Service) StartScan(ctx context.Context, projectID int, req models.StartScanRequest) (*models.StartScanResponse, *models.ErrDetails) {
	snap, details := s.beginScan(ctx, projectID, scanActionData{
		ScanType:            req.ScanType,
		SelectedDirectories: req.SelectedDirectories,
		Exclusions:          req.Exclusions,
		Language:            req.Language,
	})
	if details != nil {
		return nil, details
	}

	zap.L().Info("scan started",
		zap.Int("project_id", projectID),
		zap.Int("scan_id", snap.ID),
		zap.String("scan_type", req.ScanType))

	return &models.StartScanResponse{
		ScanID:        snap.ID,
		Status:        models.ProjectScanning,
		StartDatetime: snap.StartedAt,
	}, nil
}

func (s *Service) Rescan(ctx context.Context, projectID int) (*models.RescanResponse, *models.ErrDetails) {
	snap, details := s.beginScan(ctx, projectID, scanActionData{ScanType: "rescan"})
	if details != nil {
		return nil, details
	}

	return &models.RescanResponse{Message: "Rescan initiated successfully", ScanID: snap.ID}, nil
}

func scanProgress(snap simulation.Snapshot) *models.ScanProgressResponse {
	return &models.ScanProgressResponse{
		ScanID:     snap.ID,
		ProjectID:  snap.ProjectID,
		Kind:       string(snap.Kind),
		Phase:      snap.Phase,
		Progress:   snap.Progress,
		StartedAt:  snap.StartedAt,
		FinishedAt: snap.FinishedAt,
	}
}

func (s *Service) GetScan(_ context.Context, projectID, scanID int) (*models.ScanProgressResponse, *models.ErrDetails) {
	snap, ok := s.simulator.Get(scanID)
	if !ok || snap.ProjectID != projectID || snap.Kind != simulation.KindScan {
		return nil, mapRepositoryError(notInProject("scan", scanID, projectID))
	}

	return scanProgress(snap), nil
}

// CancelScan always records the cancellation. A scan that is still running
// is stopped. The project is marked FAILED only when the stopped scan is its
// latest one.
func (s *Service) CancelScan(ctx context.Context, projectID, scanID int) (*models.CancelScanResponse, *models.ErrDetails) {
	if _, details := s.requireProject(ctx, projectID); details != nil {
		return nil, details
	}

	s.scansMu.Lock()
	defer s.scansMu.Unlock()

	stopped := false
	if snap, ok := s.simulator.Get(scanID); ok && snap.ProjectID == projectID && snap.Kind == simulation.KindScan {
		stopped = s.simulator.Cancel(scanID)
	}
	latest := s.latestScans[projectID] == scanID

	err := s.repository.RunInTx(ctx, func(ctx context.Context) error {
		if stopped && latest {
			_, err := s.repository.UpdateProject(ctx, projectID, models.UpdateProjectRequest{
				Status: strPtr(models.ProjectFailed),
			})
			if err != nil {
				return err
			}
		}

		return s.recordHistory(ctx, projectID, models.ActionScan, models.HistoryCancelled,
			scanActionData{ScanID: scanID, Action: "cancelled"})
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	zap.L().Info("scan cancelled",
		zap.Int("project_id", projectID),
		zap.Int("scan_id", scanID),
		zap.Bool("stopped", stopped))

	return &models.CancelScanResponse{ScanID: scanID, Status: models.HistoryCancelled}, nil
}

func (s *Service) AutoFix(ctx context.Context, projectID int) (*models.MessageResponse, *models.ErrDetails) {
	if _, details := s.requireProject(ctx, projectID); details != nil {
		return nil, details
	}

	err := s.recordHistory(ctx, projectID, models.ActionFix, models.HistoryCompleted, fixActionData{FixType: "auto"})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return &models.MessageResponse{Message: "Auto fix initiated successfully"}, nil
}

func (s *Service) MergeFix(ctx context.Context, projectID int, req models.MergeFixRequest) (*models.MessageResponse, *models.ErrDetails) {
	if _, details := s.requireProject(ctx, projectID); details != nil {
		return nil, details
	}

	// fix_id 0 never names a stored fix and is treated as absent.
	if req.FixID != nil && *req.FixID == 0 {
		req.FixID = nil
	}

	err := s.repository.RunInTx(ctx, func(ctx context.Context) error {
		if req.FixID != nil {
			if _, err := s.projectFix(ctx, projectID, *req.FixID); err != nil {
				return err
			}

			_, err := s.repository.UpdateLlmFix(ctx, *req.FixID, models.UpdateLlmFixRequest{
				Status: strPtr(models.FixApplied),
			})
			if err != nil {
				return err
			}
		}

		return s.recordHistory(ctx, projectID, models.ActionMerge, models.HistoryCompleted, mergeActionData{FixID: req.FixID})
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return &models.MessageResponse{Message: "Fix merged successfully"}, nil
}

func (s *Service) GetDiff(ctx context.Context, projectID int, rawFixID string) (*models.DiffResponse, *models.ErrDetails) {
	rawFixID = strings.TrimSpace(rawFixID)
	if rawFixID == "" {
		return nil, invalidInput("GetDiff", "Fix ID required")
	}

	fixID, err := strconv.Atoi(rawFixID)
	if err != nil {
		return nil, invalidInput("GetDiff", "fix_id must be an integer")
	}

	fix, err := s.projectFix(ctx, projectID, fixID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return &models.DiffResponse{
		OriginalCode: fix.OriginalCode,
		FixedCode:    fix.FixedCode,
		FunctionName: fix.FunctionName,
	}, nil
}

// completeDeploy flips the deployment and its project to DEPLOYED.
func (s *Service) completeDeploy(deploymentID int) simulation.CompleteFunc {
	return func(ctx context.Context, snap simulation.Snapshot) error {
		return s.repository.RunInTx(ctx, func(ctx context.Context) error {
			_, err := s.repository.UpdateDeployment(ctx, deploymentID, models.UpdateDeploymentRequest{
				Status: strPtr(models.DeploymentStatusDeployed),
			})
			if err != nil {
				return err
			}

			_, err = s.repository.UpdateProject(ctx, snap.ProjectID, models.UpdateProjectRequest{
				DeploymentStatus: strPtr(models.DeploymentStatusDeployed),
			})
			return err
		})
	}
}

func (s *Service) Deploy(ctx context.Context, projectID int, req models.DeployRequest) (*models.Deployment, *models.ErrDetails) {
	environment := strings.ToUpper(strings.TrimSpace(req.Environment))
	if environment == "" {
		environment = models.EnvironmentStaging
	}
	if !oneOf(environment, environments...) {
		return nil, invalidInput("Deploy", enumMessage("environment", environments))
	}

	if _, details := s.requireProject(ctx, projectID); details != nil {
		return nil, details
	}

	now := s.now()
	var deployment *models.Deployment
	err := s.repository.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		deployment, err = s.repository.InsertDeployment(ctx, models.CreateDeploymentRequest{
			ProjectID:   projectID,
			Environment: environment,
			Status:      models.DeploymentStatusDeploying,
			DeployedAt:  &now,
		})
		if err != nil {
			return err
		}

		return s.recordHistory(ctx, projectID, models.ActionDeploy, models.HistoryCompleted,
			deployActionData{Environment: environment, DeploymentID: deployment.ID})
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	_, err = s.simulator.Start(simulation.KindDeploy, projectID, simulation.DeployPlan, s.completeDeploy(deployment.ID))
	if err != nil {
		zap.L().Error("failed to start deploy simulation",
			zap.Error(err),
			zap.Int("deployment_id", deployment.ID),
			zap.String("type", "technical"))
	}

	zap.L().Info("deployment started",
		zap.Int("project_id", projectID),
		zap.Int("deployment_id", deployment.ID),
		zap.String("environment", environment))

	return deployment, nil
}
