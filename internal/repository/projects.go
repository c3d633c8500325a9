package repository

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/vedsatt/scan-dashboard/internal/models"
)

var projectColumns = []string{
	"id", "name", "input_type", "sonar_project_key", "status", "last_scan",
	"fix_percentage", "deployment_status", "description", "created_at", "updated_at",
}

func scanProject(row scanner) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Name, &p.InputType, &p.SonarProjectKey, &p.Status, &p.LastScan,
		&p.FixPercentage, &p.DeploymentStatus, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func returning(columns []string) string {
	return "RETURNING " + strings.Join(columns, ", ")
}

// likePattern escapes LIKE metacharacters so the search term matches
// literally as a substring.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

func selectProjectsQuery(builder squirrel.StatementBuilderType, filter models.ProjectFilter) squirrel.SelectBuilder {
	q := builder.
		Select(projectColumns...).
		From("projects").
		OrderBy("id")

	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := likePattern(search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"sonar_project_key": pattern},
		})
	}

	return q
}

func (r *Repository) SelectProjects(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	return getMany(ctx, r, selectProjectsQuery(r.builder, filter), "SelectProjects", scanProject)
}

func (r *Repository) selectProjectQuery(id int) squirrel.SelectBuilder {
	return r.builder.
		Select(projectColumns...).
		From("projects").
		Where(squirrel.Eq{"id": id})
}

func (r *Repository) SelectProject(ctx context.Context, id int) (*models.Project, error) {
	return getOne(ctx, r, r.selectProjectQuery(id), "SelectProject", "project", id, scanProject)
}

func (r *Repository) InsertProject(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error) {
	fixPercentage := 0
	if req.FixPercentage != nil {
		fixPercentage = *req.FixPercentage
	}

	q := r.builder.
		Insert("projects").
		Columns("name", "input_type", "sonar_project_key", "status", "last_scan",
			"fix_percentage", "deployment_status", "description").
		Values(req.Name, req.InputType, req.SonarProjectKey, req.Status, req.LastScan,
			fixPercentage, req.DeploymentStatus, req.Description).
		Suffix(returning(projectColumns))

	return insertReturning(ctx, r, q, "InsertProject", scanProject)
}

func updateProjectQuery(builder squirrel.StatementBuilderType, id int, req models.UpdateProjectRequest) squirrel.UpdateBuilder {
	q := builder.
		Update("projects").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix(returning(projectColumns))

	if req.Name != nil {
		q = q.Set("name", *req.Name)
	}
	if req.InputType != nil {
		q = q.Set("input_type", *req.InputType)
	}
	if req.SonarProjectKey != nil {
		q = q.Set("sonar_project_key", *req.SonarProjectKey)
	}
	if req.Status != nil {
		q = q.Set("status", *req.Status)
	}
	if req.LastScan != nil {
		q = q.Set("last_scan", *req.LastScan)
	}
	if req.FixPercentage != nil {
		q = q.Set("fix_percentage", *req.FixPercentage)
	}
	if req.DeploymentStatus != nil {
		q = q.Set("deployment_status", *req.DeploymentStatus)
	}
	if req.Description != nil {
		q = q.Set("description", *req.Description)
	}

	return q
}

func (r *Repository) UpdateProject(ctx context.Context, id int, req models.UpdateProjectRequest) (*models.Project, error) {
	q := updateProjectQuery(r.builder, id, req)
	return updateReturning(ctx, r, q, true, r.selectProjectQuery(id), "UpdateProject", "project", id, scanProject)
}

func (r *Repository) DeleteProject(ctx context.Context, id int) error {
	query, args, err := r.builder.
		Delete("projects").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return wrapDBError(err, "DeleteProject: build query")
	}

	result, err := r.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return wrapDBError(err, "DeleteProject: execute query")
	}

	if result.RowsAffected() == 0 {
		return rowError(pgx.ErrNoRows, "DeleteProject", "project", id)
	}

	return nil
}
