package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedsatt/scan-dashboard/internal/memstore"
	"github.com/vedsatt/scan-dashboard/internal/models"
	"github.com/vedsatt/scan-dashboard/internal/seed"
	"github.com/vedsatt/scan-dashboard/internal/simulation"
)

const (
	tick    = time.Millisecond
	waitFor = 2 * time.Second
)

func newTestService(t *testing.T, step float64) (*Service, *memstore.Store) {
	t.Helper()
	return newSteppedService(t, func() float64 { return step })
}

// newSteppedService lets a test change the simulation speed while runs are live.
func newSteppedService(t *testing.T, step func() float64) (*Service, *memstore.Store) {
	t.Helper()

	data, err := seed.Default(time.Now())
	require.NoError(t, err)

	store := memstore.New()
	require.NoError(t, store.ImportSeed(context.Background(), data))

	tracker := simulation.NewTracker(tick, simulation.WithStep(step))
	t.Cleanup(tracker.Stop)

	return NewService(store, tracker), store
}

func intPtr(v int) *int { return &v }

func validProject() models.CreateProjectRequest {
	return models.CreateProjectRequest{
		Name:             "Billing",
		InputType:        models.InputTypeGit,
		SonarProjectKey:  "billing",
		Status:           models.ProjectScanCompleted,
		DeploymentStatus: models.DeploymentStatusPending,
	}
}

func TestProjectCRUD(t *testing.T) {
	svc, _ := newTestService(t, 10)
	ctx := context.Background()

	created, details := svc.CreateProject(ctx, validProject())
	require.Nil(t, details)
	assert.Equal(t, 200, created.ID)

	updated, details := svc.UpdateProject(ctx, created.ID, models.UpdateProjectRequest{FixPercentage: intPtr(30)})
	require.Nil(t, details)
	assert.Equal(t, 30, updated.FixPercentage)
	assert.Equal(t, "Billing", updated.Name)

	require.Nil(t, svc.DeleteProject(ctx, created.ID))

	_, details = svc.GetProject(ctx, created.ID)
	require.NotNil(t, details)
	assert.Equal(t, models.NotFoundErr, details.Code)
}

func TestCreateProjectValidation(t *testing.T) {
	svc, _ := newTestService(t, 10)

	tests := []struct {
		name   string
		modify func(*models.CreateProjectRequest)
	}{
		{"missing name", func(r *models.CreateProjectRequest) { r.Name = "  " }},
		{"missing sonar key", func(r *models.CreateProjectRequest) { r.SonarProjectKey = "" }},
		{"bad input type", func(r *models.CreateProjectRequest) { r.InputType = "FTP" }},
		{"bad status", func(r *models.CreateProjectRequest) { r.Status = "DONE" }},
		{"bad deployment status", func(r *models.CreateProjectRequest) { r.DeploymentStatus = "LIVE" }},
		{"fix percentage above 100", func(r *models.CreateProjectRequest) { r.FixPercentage = intPtr(101) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validProject()
			tt.modify(&req)

			_, details := svc.CreateProject(context.Background(), req)
			require.NotNil(t, details)
			assert.Equal(t, models.InvalidInputErr, details.Code)
		})
	}
}

func TestListProjectsRejectsUnknownStatus(t *testing.T) {
	svc, _ := newTestService(t, 10)

	_, details := svc.ListProjects(context.Background(), models.ProjectFilter{Status: "BROKEN"})
	require.NotNil(t, details)
	assert.Equal(t, models.InvalidInputErr, details.Code)

	projects, details := svc.ListProjects(context.Background(), models.ProjectFilter{Search: "api"})
	require.Nil(t, details)
	assert.Len(t, projects, 2)
}

func TestChildResourcesRequireProject(t *testing.T) {
	svc, _ := newTestService(t, 10)
	ctx := context.Background()

	_, details := svc.CreateIssue(ctx, 999, models.CreateIssueRequest{
		FilePath: "a.go", VulnType: "XSS", Message: "m",
		Severity: models.SeverityLow, Status: models.IssuePending,
	})
	require.NotNil(t, details)
	assert.Equal(t, models.NotFoundErr, details.Code)

	issues, details := svc.ListIssues(ctx, 999)
	require.Nil(t, details)
	assert.Empty(t, issues)
}

func TestUpdateIssueChecksOwnership(t *testing.T) {
	svc, _ := newTestService(t, 10)
	ctx := context.Background()

	fixed := models.IssueFixed
	_, details := svc.UpdateIssue(ctx, 2, 101, models.UpdateIssueRequest{Status: &fixed})
	require.NotNil(t, details)
	assert.Equal(t, models.NotFoundErr, details.Code)

	issue, details := svc.UpdateIssue(ctx, 1, 101, models.UpdateIssueRequest{Status: &fixed})
	require.Nil(t, details)
	assert.Equal(t, models.IssueFixed, issue.Status)
}

func TestStartScanCompletes(t *testing.T) {
	svc, store := newTestService(t, 50)
	ctx := context.Background()

	resp, details := svc.StartScan(ctx, 3, models.StartScanRequest{
		ScanType:            "full",
		SelectedDirectories: []string{"src/"},
		GitPassword:         "secret",
	})
	require.Nil(t, details)
	assert.Equal(t, models.ProjectScanning, resp.Status)

	history, err := store.SelectProjectHistory(ctx, 3)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.ActionScan, history[0].ActionType)
	assert.Equal(t, models.HistoryCompleted, history[0].Status)
	assert.NotContains(t, string(history[0].ActionData), "secret")

	var data map[string]any
	require.NoError(t, json.Unmarshal(history[0].ActionData, &data))
	assert.Equal(t, "full", data["scan_type"])
	assert.EqualValues(t, resp.ScanID, data["scan_id"])

	require.Eventually(t, func() bool {
		p, err := store.SelectProject(ctx, 3)
		return err == nil && p.Status == models.ProjectScanCompleted
	}, waitFor, tick)

	progress, details := svc.GetScan(ctx, 3, resp.ScanID)
	require.Nil(t, details)
	assert.Equal(t, simulation.ScanPlan.Done, progress.Phase)
	assert.Equal(t, 100.0, progress.Progress)

	_, details = svc.GetScan(ctx, 1, resp.ScanID)
	require.NotNil(t, details)
	assert.Equal(t, models.NotFoundErr, details.Code)
}

func TestCancelScan(t *testing.T) {
	svc, store := newTestService(t, 0)
	ctx := context.Background()

	resp, details := svc.StartScan(ctx, 1, models.StartScanRequest{ScanType: "quick"})
	require.Nil(t, details)

	cancelled, details := svc.CancelScan(ctx, 1, resp.ScanID)
	require.Nil(t, details)
	assert.Equal(t, models.HistoryCancelled, cancelled.Status)

	project, err := store.SelectProject(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectFailed, project.Status)

	history, err := store.SelectProjectHistory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.HistoryCancelled, history[0].Status)

	// An unknown scan is still recorded but leaves the project alone.
	_, details = svc.CancelScan(ctx, 3, 12345)
	require.Nil(t, details)
	project, err = store.SelectProject(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectScanCompleted, project.Status)
}

func TestActionsOnMissingProject(t *testing.T) {
	svc, _ := newTestService(t, 10)
	ctx := context.Background()

	_, details := svc.StartScan(ctx, 999, models.StartScanRequest{})
	require.NotNil(t, details)
	assert.Equal(t, models.NotFoundErr, details.Code)

	_, details = svc.AutoFix(ctx, 999)
	require.NotNil(t, details)
	assert.Equal(t, models.NotFoundErr, details.Code)

	_, details = svc.Deploy(ctx, 999, models.DeployRequest{})
	require.NotNil(t, details)
	assert.Equal(t, models.NotFoundErr, details.Code)
}

func TestMergeFixAppliesFix(t *testing.T) {
	svc, store := newTestService(t, 10)
	ctx := context.Background()

	resp, details := svc.MergeFix(ctx, 1, models.MergeFixRequest{FixID: intPtr(1)})
	require.Nil(t, details)
	assert.Equal(t, "Fix merged successfully", resp.Message)

	fix, err := store.SelectLlmFix(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.FixApplied, fix.Status)

	stats, details := svc.GetDashboardStats(ctx)
	require.Nil(t, details)
	assert.Equal(t, 1, stats.FixesApplied)

	_, details = svc.MergeFix(ctx, 2, models.MergeFixRequest{FixID: intPtr(1)})
	require.NotNil(t, details)
	assert.Equal(t, models.NotFoundErr, details.Code)
}

func TestGetDiff(t *testing.T) {
	svc, _ := newTestService(t, 10)
	ctx := context.Background()

	tests := []struct {
		name      string
		projectID int
		fixID     string
		code      string
	}{
		{"missing fix id", 1, "", models.InvalidInputErr},
		{"non numeric fix id", 1, "abc", models.InvalidInputErr},
		{"unknown fix", 1, "77", models.NotFoundErr},
		{"fix of another project", 2, "1", models.NotFoundErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, details := svc.GetDiff(ctx, tt.projectID, tt.fixID)
			require.NotNil(t, details)
			assert.Equal(t, tt.code, details.Code)
		})
	}

	diff, details := svc.GetDiff(ctx, 1, "1")
	require.Nil(t, details)
	assert.Equal(t, "get_user", diff.FunctionName)
	require.NotNil(t, diff.FixedCode)
	assert.Contains(t, *diff.FixedCode, "Invalid user ID")
}

func TestDeployCompletes(t *testing.T) {
	svc, store := newTestService(t, 60)
	ctx := context.Background()

	deployment, details := svc.Deploy(ctx, 2, models.DeployRequest{})
	require.Nil(t, details)
	assert.Equal(t, models.EnvironmentStaging, deployment.Environment)
	assert.Equal(t, models.DeploymentStatusDeploying, deployment.Status)
	assert.NotNil(t, deployment.DeployedAt)

	require.Eventually(t, func() bool {
		p, err := store.SelectProject(ctx, 2)
		return err == nil && p.DeploymentStatus == models.DeploymentStatusDeployed
	}, waitFor, tick)

	deployments, err := store.SelectProjectDeployments(ctx, 2)
	require.NoError(t, err)
	require.Len(t, deployments, 1)
	assert.Equal(t, models.DeploymentStatusDeployed, deployments[0].Status)

	_, details = svc.Deploy(ctx, 2, models.DeployRequest{Environment: "qa"})
	require.NotNil(t, details)
	assert.Equal(t, models.InvalidInputErr, details.Code)
}

func TestAutoFixAndRescanWriteHistory(t *testing.T) {
	svc, _ := newTestService(t, 0)
	ctx := context.Background()

	msg, details := svc.AutoFix(ctx, 3)
	require.Nil(t, details)
	assert.Equal(t, "Auto fix initiated successfully", msg.Message)

	rescan, details := svc.Rescan(ctx, 3)
	require.Nil(t, details)
	assert.Positive(t, rescan.ScanID)

	history, details := svc.ListHistory(ctx)
	require.Nil(t, details)
	require.Len(t, history, 2)
	assert.Equal(t, models.ActionScan, history[0].ActionType)
	assert.Equal(t, models.ActionFix, history[1].ActionType)

	dirs, details := svc.PrepareScan(ctx, 3, models.PrepareScanRequest{})
	require.Nil(t, details)
	assert.Equal(t, []string{"src/", "tests/", "docs/", "config/", "public/", "assets/"}, dirs.Directories)
}
