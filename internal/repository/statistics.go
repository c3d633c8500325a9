package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/vedsatt/scan-dashboard/internal/models"
)

func (r *Repository) SelectDashboardStats(ctx context.Context) (*models.DashboardStatsResponse, error) {
	query, args, err := r.builder.
		Select(
			"COUNT(*) AS total",
			"COALESCE(ROUND(AVG(fix_percentage)), 0)::int AS avg_fix_rate",
		).
		From("projects").
		ToSql()

	if err != nil {
		return nil, wrapDBError(err, "SelectDashboardStats: build query")
	}

	var stats models.DashboardStatsResponse
	err = r.conn(ctx).QueryRow(ctx, query, args...).Scan(&stats.TotalProjects, &stats.AvgFixRate)
	if err != nil {
		return nil, wrapDBError(err, "SelectDashboardStats: execute query")
	}

	issuesQuery, issuesArgs, err := r.builder.
		Select().
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE severity = ? AND status = ?)",
			models.SeverityCritical, models.IssuePending)).
		From("issues").
		ToSql()

	if err != nil {
		return nil, wrapDBError(err, "SelectDashboardStats: build issues query")
	}

	err = r.conn(ctx).QueryRow(ctx, issuesQuery, issuesArgs...).Scan(&stats.CriticalIssues)
	if err != nil {
		return nil, wrapDBError(err, "SelectDashboardStats: execute issues query")
	}

	fixesQuery, fixesArgs, err := r.builder.
		Select().
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ?)", models.FixApplied)).
		From("llm_fixes").
		ToSql()

	if err != nil {
		return nil, wrapDBError(err, "SelectDashboardStats: build fixes query")
	}

	err = r.conn(ctx).QueryRow(ctx, fixesQuery, fixesArgs...).Scan(&stats.FixesApplied)
	if err != nil {
		return nil, wrapDBError(err, "SelectDashboardStats: execute fixes query")
	}

	return &stats, nil
}
