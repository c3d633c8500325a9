package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/vedsatt/scan-dashboard/internal/models"
)

var issueColumns = []string{
	"id", "project_id", "file_path", "line_start", "line_end", "severity", "vuln_type",
	"message", "code_snippet", "status", "COALESCE(tags, '{}')", "created_at",
}

func scanIssue(row scanner) (models.Issue, error) {
	var i models.Issue
	err := row.Scan(&i.ID, &i.ProjectID, &i.FilePath, &i.LineStart, &i.LineEnd, &i.Severity, &i.VulnType,
		&i.Message, &i.CodeSnippet, &i.Status, &i.Tags, &i.CreatedAt)
	if i.Tags == nil {
		i.Tags = []string{}
	}
	return i, err
}

func (r *Repository) SelectProjectIssues(ctx context.Context, projectID int) ([]models.Issue, error) {
	q := r.builder.
		Select(issueColumns...).
		From("issues").
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("id")

	return getMany(ctx, r, q, "SelectProjectIssues", scanIssue)
}

func (r *Repository) selectIssueQuery(id int) squirrel.SelectBuilder {
	return r.builder.
		Select(issueColumns...).
		From("issues").
		Where(squirrel.Eq{"id": id})
}

func (r *Repository) SelectIssue(ctx context.Context, id int) (*models.Issue, error) {
	return getOne(ctx, r, r.selectIssueQuery(id), "SelectIssue", "issue", id, scanIssue)
}

func (r *Repository) InsertIssue(ctx context.Context, req models.CreateIssueRequest) (*models.Issue, error) {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	q := r.builder.
		Insert("issues").
		Columns("project_id", "file_path", "line_start", "line_end", "severity", "vuln_type",
			"message", "code_snippet", "status", "tags").
		Values(req.ProjectID, req.FilePath, req.LineStart, req.LineEnd, req.Severity, req.VulnType,
			req.Message, req.CodeSnippet, req.Status, tags).
		Suffix(returning(issueColumns))

	return insertReturning(ctx, r, q, "InsertIssue", scanIssue)
}

func (r *Repository) UpdateIssue(ctx context.Context, id int, req models.UpdateIssueRequest) (*models.Issue, error) {
	q := r.builder.
		Update("issues").
		Where(squirrel.Eq{"id": id}).
		Suffix(returning(issueColumns))

	changed := false
	if req.Severity != nil {
		q, changed = q.Set("severity", *req.Severity), true
	}
	if req.Message != nil {
		q, changed = q.Set("message", *req.Message), true
	}
	if req.CodeSnippet != nil {
		q, changed = q.Set("code_snippet", *req.CodeSnippet), true
	}
	if req.Status != nil {
		q, changed = q.Set("status", *req.Status), true
	}
	if req.Tags != nil {
		q, changed = q.Set("tags", *req.Tags), true
	}

	return updateReturning(ctx, r, q, changed, r.selectIssueQuery(id), "UpdateIssue", "issue", id, scanIssue)
}
