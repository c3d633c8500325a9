package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/vedsatt/scan-dashboard/internal/models"
)

var gitCommitColumns = []string{"id", "project_id", "commit_hash", "author", "message", "committed_at", "created_at"}

func scanGitCommit(row scanner) (models.GitCommit, error) {
	var c models.GitCommit
	err := row.Scan(&c.ID, &c.ProjectID, &c.CommitHash, &c.Author, &c.Message, &c.CommittedAt, &c.CreatedAt)
	return c, err
}

func (r *Repository) SelectProjectGitCommits(ctx context.Context, projectID int) ([]models.GitCommit, error) {
	q := r.builder.
		Select(gitCommitColumns...).
		From("git_commits").
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("id")

	return getMany(ctx, r, q, "SelectProjectGitCommits", scanGitCommit)
}

func (r *Repository) InsertGitCommit(ctx context.Context, req models.CreateGitCommitRequest) (*models.GitCommit, error) {
	q := r.builder.
		Insert("git_commits").
		Columns("project_id", "commit_hash", "author", "message", "committed_at").
		Values(req.ProjectID, req.CommitHash, req.Author, req.Message, req.CommittedAt).
		Suffix(returning(gitCommitColumns))

	return insertReturning(ctx, r, q, "InsertGitCommit", scanGitCommit)
}

var deploymentColumns = []string{"id", "project_id", "environment", "status", "deployed_at", "scan_id", "fix_id", "created_at"}

func scanDeployment(row scanner) (models.Deployment, error) {
	var d models.Deployment
	err := row.Scan(&d.ID, &d.ProjectID, &d.Environment, &d.Status, &d.DeployedAt, &d.ScanID, &d.FixID, &d.CreatedAt)
	return d, err
}

func (r *Repository) SelectProjectDeployments(ctx context.Context, projectID int) ([]models.Deployment, error) {
	q := r.builder.
		Select(deploymentColumns...).
		From("deployments").
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("id")

	return getMany(ctx, r, q, "SelectProjectDeployments", scanDeployment)
}

func (r *Repository) InsertDeployment(ctx context.Context, req models.CreateDeploymentRequest) (*models.Deployment, error) {
	q := r.builder.
		Insert("deployments").
		Columns("project_id", "environment", "status", "deployed_at", "scan_id", "fix_id").
		Values(req.ProjectID, req.Environment, req.Status, req.DeployedAt, req.ScanID, req.FixID).
		Suffix(returning(deploymentColumns))

	return insertReturning(ctx, r, q, "InsertDeployment", scanDeployment)
}

func (r *Repository) UpdateDeployment(ctx context.Context, id int, req models.UpdateDeploymentRequest) (*models.Deployment, error) {
	q := r.builder.
		Update("deployments").
		Where(squirrel.Eq{"id": id}).
		Suffix(returning(deploymentColumns))

	changed := false
	if req.Status != nil {
		q, changed = q.Set("status", *req.Status), true
	}
	if req.DeployedAt != nil {
		q, changed = q.Set("deployed_at", *req.DeployedAt), true
	}

	fallback := r.builder.
		Select(deploymentColumns...).
		From("deployments").
		Where(squirrel.Eq{"id": id})

	return updateReturning(ctx, r, q, changed, fallback, "UpdateDeployment", "deployment", id, scanDeployment)
}

var historyColumns = []string{"id", "project_id", "action_type", "action_data", "status", "created_at"}

func scanHistory(row scanner) (models.History, error) {
	var h models.History
	err := row.Scan(&h.ID, &h.ProjectID, &h.ActionType, &h.ActionData, &h.Status, &h.CreatedAt)
	return h, err
}

func (r *Repository) SelectProjectHistory(ctx context.Context, projectID int) ([]models.History, error) {
	q := r.builder.
		Select(historyColumns...).
		From("history").
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("created_at DESC", "id DESC")

	return getMany(ctx, r, q, "SelectProjectHistory", scanHistory)
}

func (r *Repository) SelectHistory(ctx context.Context) ([]models.History, error) {
	q := r.builder.
		Select(historyColumns...).
		From("history").
		OrderBy("created_at DESC", "id DESC")

	return getMany(ctx, r, q, "SelectHistory", scanHistory)
}

func (r *Repository) InsertHistory(ctx context.Context, req models.CreateHistoryRequest) (*models.History, error) {
	q := r.builder.
		Insert("history").
		Columns("project_id", "action_type", "action_data", "status").
		Values(req.ProjectID, req.ActionType, req.ActionData, req.Status).
		Suffix(returning(historyColumns))

	return insertReturning(ctx, r, q, "InsertHistory", scanHistory)
}
