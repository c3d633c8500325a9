package memstore

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedsatt/scan-dashboard/internal/models"
	"github.com/vedsatt/scan-dashboard/internal/seed"
)

func seeded(t *testing.T) *Store {
	t.Helper()

	data, err := seed.Default(time.Now())
	require.NoError(t, err)

	store := New()
	require.NoError(t, store.ImportSeed(context.Background(), data))
	return store
}

func strPtr(s string) *string { return &s }

func TestImportSeedMovesCounter(t *testing.T) {
	store := seeded(t)
	ctx := context.Background()

	projects, err := store.SelectProjects(ctx, models.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{projects[0].ID, projects[1].ID, projects[2].ID})

	p, err := store.InsertProject(ctx, models.CreateProjectRequest{Name: "new"})
	require.NoError(t, err)
	assert.Equal(t, 200, p.ID)

	// Importing again must neither duplicate nor reset the counter.
	data, err := seed.Default(time.Now())
	require.NoError(t, err)
	require.NoError(t, store.ImportSeed(ctx, data))

	issue, err := store.InsertIssue(ctx, models.CreateIssueRequest{ProjectID: 1})
	require.NoError(t, err)
	assert.Equal(t, 201, issue.ID)

	projects, err = store.SelectProjects(ctx, models.ProjectFilter{})
	require.NoError(t, err)
	assert.Len(t, projects, 4)
}

func TestSelectProjectsFilter(t *testing.T) {
	store := seeded(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter models.ProjectFilter
		ids    []int
	}{
		{name: "no filter", filter: models.ProjectFilter{}, ids: []int{1, 2, 3}},
		{name: "by status", filter: models.ProjectFilter{Status: models.ProjectScanning}, ids: []int{2}},
		{name: "search name case insensitive", filter: models.ProjectFilter{Search: "wallet"}, ids: []int{1}},
		{name: "search sonar key", filter: models.ProjectFilter{Search: "mgmt"}, ids: []int{2}},
		{name: "status and search", filter: models.ProjectFilter{Status: models.ProjectScanCompleted, Search: "api"}, ids: []int{1}},
		{name: "nothing matches", filter: models.ProjectFilter{Search: "zzz"}, ids: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projects, err := store.SelectProjects(ctx, tt.filter)
			require.NoError(t, err)

			ids := make([]int, 0, len(projects))
			for _, p := range projects {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestProjectCRUD(t *testing.T) {
	store := New()
	ctx := context.Background()

	created, err := store.InsertProject(ctx, models.CreateProjectRequest{
		Name:             "Billing",
		InputType:        models.InputTypeGit,
		SonarProjectKey:  "billing",
		Status:           models.ProjectScanning,
		DeploymentStatus: models.DeploymentStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, 0, created.FixPercentage)

	fetched, err := store.SelectProject(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)

	updated, err := store.UpdateProject(ctx, created.ID, models.UpdateProjectRequest{
		Status: strPtr(models.ProjectScanCompleted),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectScanCompleted, updated.Status)
	assert.Equal(t, "Billing", updated.Name)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	require.NoError(t, store.DeleteProject(ctx, created.ID))

	_, err = store.SelectProject(ctx, created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, store.DeleteProject(ctx, created.ID), models.ErrNotFound)

	_, err = store.UpdateProject(ctx, 999, models.UpdateProjectRequest{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestChildrenOfUnknownProjectAreEmpty(t *testing.T) {
	store := seeded(t)
	ctx := context.Background()

	issues, err := store.SelectProjectIssues(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, issues)
	assert.Empty(t, issues)

	fixes, err := store.SelectProjectLlmFixes(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, fixes)

	history, err := store.SelectProjectHistory(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestIssueTagsAreCopied(t *testing.T) {
	store := New()
	ctx := context.Background()

	tags := []string{"security"}
	issue, err := store.InsertIssue(ctx, models.CreateIssueRequest{ProjectID: 1, Tags: tags})
	require.NoError(t, err)

	tags[0] = "mutated"
	issue.Tags[0] = "mutated"

	stored, err := store.SelectIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"security"}, stored.Tags)

	updated, err := store.UpdateIssue(ctx, issue.ID, models.UpdateIssueRequest{Status: strPtr(models.IssueFixed)})
	require.NoError(t, err)
	assert.Equal(t, models.IssueFixed, updated.Status)
	assert.Equal(t, []string{"security"}, updated.Tags)
}

func TestLlmFixStatusPersists(t *testing.T) {
	store := seeded(t)
	ctx := context.Background()

	_, err := store.UpdateLlmFix(ctx, 1, models.UpdateLlmFixRequest{Status: strPtr(models.FixApplied)})
	require.NoError(t, err)

	fix, err := store.SelectLlmFix(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.FixApplied, fix.Status)

	_, err = store.UpdateLlmFix(ctx, 5000, models.UpdateLlmFixRequest{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeploymentUpdate(t *testing.T) {
	store := New()
	ctx := context.Background()

	d, err := store.InsertDeployment(ctx, models.CreateDeploymentRequest{
		ProjectID:   3,
		Environment: models.EnvironmentStaging,
		Status:      models.DeploymentStatusDeploying,
	})
	require.NoError(t, err)

	deployed := models.DeploymentStatusDeployed
	updated, err := store.UpdateDeployment(ctx, d.ID, models.UpdateDeploymentRequest{Status: &deployed})
	require.NoError(t, err)
	assert.Equal(t, deployed, updated.Status)

	list, err := store.SelectProjectDeployments(ctx, 3)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, deployed, list[0].Status)
}

func TestHistoryNewestFirst(t *testing.T) {
	store := New()
	ctx := context.Background()

	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	for _, projectID := range []int{1, 2, 1} {
		_, err := store.InsertHistory(ctx, models.CreateHistoryRequest{
			ProjectID:  projectID,
			ActionType: models.ActionScan,
			ActionData: json.RawMessage(`{}`),
			Status:     models.HistoryCompleted,
		})
		require.NoError(t, err)
	}

	all, err := store.SelectHistory(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{all[0].ID, all[1].ID, all[2].ID})

	mine, err := store.SelectProjectHistory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, 3, mine[0].ID)
}

func TestConcurrentInsertsGetUniqueIDs(t *testing.T) {
	store := New()
	ctx := context.Background()

	const workers = 50
	ids := make(chan int, workers*2)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := store.InsertGitCommit(ctx, models.CreateGitCommitRequest{ProjectID: 1})
			assert.NoError(t, err)
			ids <- c.ID
			h, err := store.InsertHistory(ctx, models.CreateHistoryRequest{ProjectID: 1})
			assert.NoError(t, err)
			ids <- h.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers*2)
}

func TestSelectDashboardStats(t *testing.T) {
	ctx := context.Background()

	empty, err := New().SelectDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DashboardStatsResponse{}, *empty)

	store := seeded(t)

	stats, err := store.SelectDashboardStats(ctx)
	require.NoError(t, err)
	// (75 + 45 + 92) / 3 = 70.67
	assert.Equal(t, models.DashboardStatsResponse{TotalProjects: 3, CriticalIssues: 0, FixesApplied: 0, AvgFixRate: 71}, *stats)

	_, err = store.InsertIssue(ctx, models.CreateIssueRequest{
		ProjectID: 1, Severity: models.SeverityCritical, Status: models.IssuePending,
	})
	require.NoError(t, err)
	_, err = store.UpdateLlmFix(ctx, 1, models.UpdateLlmFixRequest{Status: strPtr(models.FixApplied)})
	require.NoError(t, err)

	stats, err = store.SelectDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CriticalIssues)
	assert.Equal(t, 1, stats.FixesApplied)
}
