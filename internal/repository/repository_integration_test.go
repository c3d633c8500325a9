package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedsatt/scan-dashboard/internal/models"
	"github.com/vedsatt/scan-dashboard/internal/seed"
)

// newTestRepository connects to the database named by the POSTGRES_* env
// vars and rebuilds the schema. Set POSTGRES_INTEGRATION=1 to run.
func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	if os.Getenv("POSTGRES_INTEGRATION") == "" {
		t.Skip("POSTGRES_INTEGRATION not set")
	}

	var cfg PostgresCfg
	require.NoError(t, cleanenv.ReadEnv(&cfg))

	m, err := migrate.New("file://../../migrations", cfg.DSN())
	require.NoError(t, err)
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}
	require.NoError(t, m.Up())
	srcErr, dbErr := m.Close()
	require.NoError(t, srcErr)
	require.NoError(t, dbErr)

	ctx := context.Background()
	repo, err := NewRepository(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(repo.CloseConnection)

	data, err := seed.Default(time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.ImportSeed(ctx, data))

	return repo
}

func strPtr(s string) *string { return &s }

func TestIntegrationImportSeedIsIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	data, err := seed.Default(time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.ImportSeed(ctx, data))

	projects, err := repo.SelectProjects(ctx, models.ProjectFilter{})
	require.NoError(t, err)
	assert.Len(t, projects, 3)

	created, err := repo.InsertProject(ctx, models.CreateProjectRequest{
		Name:             "Billing",
		InputType:        models.InputTypeGit,
		SonarProjectKey:  "billing",
		Status:           models.ProjectScanCompleted,
		DeploymentStatus: models.DeploymentStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, 200, created.ID)
}

func TestIntegrationSelectProjectsFilter(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter models.ProjectFilter
		ids    []int
	}{
		{"status", models.ProjectFilter{Status: models.ProjectScanning}, []int{2}},
		{"search is case insensitive", models.ProjectFilter{Search: "wallet"}, []int{1}},
		{"status and search", models.ProjectFilter{Status: models.ProjectScanCompleted, Search: "api"}, []int{1}},
		{"no match", models.ProjectFilter{Search: "nothing%"}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projects, err := repo.SelectProjects(ctx, tt.filter)
			require.NoError(t, err)

			ids := make([]int, 0, len(projects))
			for _, p := range projects {
				ids = append(ids, p.ID)
			}
			assert.ElementsMatch(t, tt.ids, ids)
		})
	}
}

func TestIntegrationNotFound(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.SelectProject(ctx, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.UpdateProject(ctx, 999, models.UpdateProjectRequest{Status: strPtr(models.ProjectFailed)})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.UpdateIssue(ctx, 999, models.UpdateIssueRequest{})
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteProject(ctx, 999), models.ErrNotFound)
}

func TestIntegrationUpdateIssue(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	unchanged, err := repo.UpdateIssue(ctx, 101, models.UpdateIssueRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.SeverityHigh, unchanged.Severity)
	assert.Equal(t, []string{"security", "database"}, unchanged.Tags)

	tags := []string{"triaged"}
	updated, err := repo.UpdateIssue(ctx, 101, models.UpdateIssueRequest{
		Status: strPtr(models.IssueFixed),
		Tags:   &tags,
	})
	require.NoError(t, err)
	assert.Equal(t, models.IssueFixed, updated.Status)
	assert.Equal(t, []string{"triaged"}, updated.Tags)

	issues, err := repo.SelectProjectIssues(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, issues, 2)
}

func TestIntegrationRunInTxRollsBack(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	errAbort := errors.New("abort")

	err := repo.RunInTx(ctx, func(ctx context.Context) error {
		_, err := repo.UpdateProject(ctx, 1, models.UpdateProjectRequest{Status: strPtr(models.ProjectFailed)})
		require.NoError(t, err)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	project, err := repo.SelectProject(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectScanCompleted, project.Status)
}

func TestIntegrationHistoryNewestFirst(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, action := range []string{models.ActionScan, models.ActionMerge} {
		_, err := repo.InsertHistory(ctx, models.CreateHistoryRequest{
			ProjectID:  3,
			ActionType: action,
			ActionData: json.RawMessage(`{}`),
			Status:     models.HistoryCompleted,
		})
		require.NoError(t, err)
	}

	history, err := repo.SelectProjectHistory(ctx, 3)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.ActionMerge, history[0].ActionType)
	assert.Equal(t, models.ActionScan, history[1].ActionType)
}

func TestIntegrationDashboardStats(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.UpdateLlmFix(ctx, 1, models.UpdateLlmFixRequest{Status: strPtr(models.FixApplied)})
	require.NoError(t, err)

	stats, err := repo.SelectDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalProjects)
	assert.Equal(t, 71, stats.AvgFixRate)
	assert.Equal(t, 1, stats.FixesApplied)
}
