package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/vedsatt/scan-dashboard/internal/models"
)

var functionBlockColumns = []string{
	"id", "project_id", "file_path", "function_name", "line_start", "line_end",
	"block_type", "code_snippet", "created_at",
}

func scanFunctionBlock(row scanner) (models.FunctionBlock, error) {
	var b models.FunctionBlock
	err := row.Scan(&b.ID, &b.ProjectID, &b.FilePath, &b.FunctionName, &b.LineStart, &b.LineEnd,
		&b.BlockType, &b.CodeSnippet, &b.CreatedAt)
	return b, err
}

func (r *Repository) SelectProjectFunctionBlocks(ctx context.Context, projectID int) ([]models.FunctionBlock, error) {
	q := r.builder.
		Select(functionBlockColumns...).
		From("function_blocks").
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("id")

	return getMany(ctx, r, q, "SelectProjectFunctionBlocks", scanFunctionBlock)
}

func (r *Repository) InsertFunctionBlock(ctx context.Context, req models.CreateFunctionBlockRequest) (*models.FunctionBlock, error) {
	q := r.builder.
		Insert("function_blocks").
		Columns("project_id", "file_path", "function_name", "line_start", "line_end",
			"block_type", "code_snippet").
		Values(req.ProjectID, req.FilePath, req.FunctionName, req.LineStart, req.LineEnd,
			req.BlockType, req.CodeSnippet).
		Suffix(returning(functionBlockColumns))

	return insertReturning(ctx, r, q, "InsertFunctionBlock", scanFunctionBlock)
}

var llmFixColumns = []string{
	"id", "project_id", "issue_id", "function_name", "llm_response", "original_code",
	"fixed_code", "status", "created_at",
}

func scanLlmFix(row scanner) (models.LlmFix, error) {
	var f models.LlmFix
	err := row.Scan(&f.ID, &f.ProjectID, &f.IssueID, &f.FunctionName, &f.LlmResponse, &f.OriginalCode,
		&f.FixedCode, &f.Status, &f.CreatedAt)
	return f, err
}

func (r *Repository) SelectProjectLlmFixes(ctx context.Context, projectID int) ([]models.LlmFix, error) {
	q := r.builder.
		Select(llmFixColumns...).
		From("llm_fixes").
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("id")

	return getMany(ctx, r, q, "SelectProjectLlmFixes", scanLlmFix)
}

func (r *Repository) selectLlmFixQuery(id int) squirrel.SelectBuilder {
	return r.builder.
		Select(llmFixColumns...).
		From("llm_fixes").
		Where(squirrel.Eq{"id": id})
}

func (r *Repository) SelectLlmFix(ctx context.Context, id int) (*models.LlmFix, error) {
	return getOne(ctx, r, r.selectLlmFixQuery(id), "SelectLlmFix", "llm fix", id, scanLlmFix)
}

func (r *Repository) InsertLlmFix(ctx context.Context, req models.CreateLlmFixRequest) (*models.LlmFix, error) {
	q := r.builder.
		Insert("llm_fixes").
		Columns("project_id", "issue_id", "function_name", "llm_response", "original_code",
			"fixed_code", "status").
		Values(req.ProjectID, req.IssueID, req.FunctionName, req.LlmResponse, req.OriginalCode,
			req.FixedCode, req.Status).
		Suffix(returning(llmFixColumns))

	return insertReturning(ctx, r, q, "InsertLlmFix", scanLlmFix)
}

func (r *Repository) UpdateLlmFix(ctx context.Context, id int, req models.UpdateLlmFixRequest) (*models.LlmFix, error) {
	q := r.builder.
		Update("llm_fixes").
		Where(squirrel.Eq{"id": id}).
		Suffix(returning(llmFixColumns))

	changed := false
	if req.LlmResponse != nil {
		q, changed = q.Set("llm_response", *req.LlmResponse), true
	}
	if req.FixedCode != nil {
		q, changed = q.Set("fixed_code", *req.FixedCode), true
	}
	if req.Status != nil {
		q, changed = q.Set("status", *req.Status), true
	}

	return updateReturning(ctx, r, q, changed, r.selectLlmFixQuery(id), "UpdateLlmFix", "llm fix", id, scanLlmFix)
}
