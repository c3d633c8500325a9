package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/vedsatt/scan-dashboard/internal/seed"
)

const idSequence = "entity_id_seq"

func (r *Repository) execInsert(ctx context.Context, q squirrel.InsertBuilder, op string) error {
	query, args, err := q.Suffix("ON CONFLICT (id) DO NOTHING").ToSql()
	if err != nil {
		return wrapDBError(err, op+": build query")
	}

	if _, err = r.conn(ctx).Exec(ctx, query, args...); err != nil {
		return wrapDBError(err, op+": execute query")
	}

	return nil
}

// ImportSeed inserts fixtures with their explicit ids, leaving existing rows
// alone, and moves the shared id sequence to at least data.NextID.
func (r *Repository) ImportSeed(ctx context.Context, data *seed.Data) error {
	return r.RunInTx(ctx, func(ctx context.Context) error {
		for _, p := range data.Projects {
			q := r.builder.
				Insert("projects").
				Columns(projectColumns...).
				Values(p.ID, p.Name, p.InputType, p.SonarProjectKey, p.Status, p.LastScan,
					p.FixPercentage, p.DeploymentStatus, p.Description, p.CreatedAt, p.UpdatedAt)
			if err := r.execInsert(ctx, q, "ImportSeed: projects"); err != nil {
				return err
			}
		}

		for _, i := range data.Issues {
			q := r.builder.
				Insert("issues").
				Columns("id", "project_id", "file_path", "line_start", "line_end", "severity", "vuln_type",
					"message", "code_snippet", "status", "tags", "created_at").
				Values(i.ID, i.ProjectID, i.FilePath, i.LineStart, i.LineEnd, i.Severity, i.VulnType,
					i.Message, i.CodeSnippet, i.Status, i.Tags, i.CreatedAt)
			if err := r.execInsert(ctx, q, "ImportSeed: issues"); err != nil {
				return err
			}
		}

		for _, b := range data.FunctionBlocks {
			q := r.builder.
				Insert("function_blocks").
				Columns(functionBlockColumns...).
				Values(b.ID, b.ProjectID, b.FilePath, b.FunctionName, b.LineStart, b.LineEnd,
					b.BlockType, b.CodeSnippet, b.CreatedAt)
			if err := r.execInsert(ctx, q, "ImportSeed: function_blocks"); err != nil {
				return err
			}
		}

		for _, f := range data.LlmFixes {
			q := r.builder.
				Insert("llm_fixes").
				Columns(llmFixColumns...).
				Values(f.ID, f.ProjectID, f.IssueID, f.FunctionName, f.LlmResponse, f.OriginalCode,
					f.FixedCode, f.Status, f.CreatedAt)
			if err := r.execInsert(ctx, q, "ImportSeed: llm_fixes"); err != nil {
				return err
			}
		}

		for _, c := range data.GitCommits {
			q := r.builder.
				Insert("git_commits").
				Columns(gitCommitColumns...).
				Values(c.ID, c.ProjectID, c.CommitHash, c.Author, c.Message, c.CommittedAt, c.CreatedAt)
			if err := r.execInsert(ctx, q, "ImportSeed: git_commits"); err != nil {
				return err
			}
		}

		for _, d := range data.Deployments {
			q := r.builder.
				Insert("deployments").
				Columns(deploymentColumns...).
				Values(d.ID, d.ProjectID, d.Environment, d.Status, d.DeployedAt, d.ScanID, d.FixID, d.CreatedAt)
			if err := r.execInsert(ctx, q, "ImportSeed: deployments"); err != nil {
				return err
			}
		}

		if data.NextID <= 1 {
			return nil
		}

		// With is_called=false the next nextval() returns exactly the value set.
		_, err := r.conn(ctx).Exec(ctx,
			"SELECT setval('"+idSequence+"', GREATEST($1::bigint, nextval('"+idSequence+"')), false)",
			data.NextID)
		if err != nil {
			return wrapDBError(err, "ImportSeed: advance sequence")
		}

		return nil
	})
}
