// Package seed loads the sample projects, issues and fixes a new dashboard
// starts with.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/vedsatt/scan-dashboard/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sample []byte

// Data holds fixtures with explicit ids. NextID is the first id a store
// should hand out after importing them.
type Data struct {
	NextID         int
	Projects       []models.Project
	Issues         []models.Issue
	FunctionBlocks []models.FunctionBlock
	LlmFixes       []models.LlmFix
	GitCommits     []models.GitCommit
	Deployments    []models.Deployment
}

type yamlDocument struct {
	NextID         int                 `yaml:"next_id"`
	Projects       []yamlProject       `yaml:"projects"`
	Issues         []yamlIssue         `yaml:"issues"`
	FunctionBlocks []yamlFunctionBlock `yaml:"function_blocks"`
	LlmFixes       []yamlLlmFix        `yaml:"llm_fixes"`
	GitCommits     []yamlGitCommit     `yaml:"git_commits"`
	Deployments    []yamlDeployment    `yaml:"deployments"`
}

type yamlProject struct {
	ID               int     `yaml:"id"`
	Name             string  `yaml:"name"`
	InputType        string  `yaml:"input_type"`
	SonarProjectKey  string  `yaml:"sonar_project_key"`
	Status           string  `yaml:"status"`
	LastScanAgo      string  `yaml:"last_scan_ago"`
	FixPercentage    int     `yaml:"fix_percentage"`
	DeploymentStatus string  `yaml:"deployment_status"`
	Description      *string `yaml:"description"`
}

type yamlIssue struct {
	ID          int      `yaml:"id"`
	ProjectID   int      `yaml:"project_id"`
	FilePath    string   `yaml:"file_path"`
	LineStart   int      `yaml:"line_start"`
	LineEnd     int      `yaml:"line_end"`
	Severity    string   `yaml:"severity"`
	VulnType    string   `yaml:"vuln_type"`
	Message     string   `yaml:"message"`
	CodeSnippet *string  `yaml:"code_snippet"`
	Status      string   `yaml:"status"`
	Tags        []string `yaml:"tags"`
}

type yamlFunctionBlock struct {
	ID           int     `yaml:"id"`
	ProjectID    int     `yaml:"project_id"`
	FilePath     string  `yaml:"file_path"`
	FunctionName string  `yaml:"function_name"`
	LineStart    int     `yaml:"line_start"`
	LineEnd      int     `yaml:"line_end"`
	BlockType    string  `yaml:"block_type"`
	CodeSnippet  *string `yaml:"code_snippet"`
}

type yamlLlmFix struct {
	ID           int     `yaml:"id"`
	ProjectID    int     `yaml:"project_id"`
	IssueID      *int    `yaml:"issue_id"`
	FunctionName string  `yaml:"function_name"`
	LlmResponse  string  `yaml:"llm_response"`
	OriginalCode *string `yaml:"original_code"`
	FixedCode    *string `yaml:"fixed_code"`
	Status       string  `yaml:"status"`
	CreatedAgo   string  `yaml:"created_ago"`
}

type yamlGitCommit struct {
	ID           int    `yaml:"id"`
	ProjectID    int    `yaml:"project_id"`
	CommitHash   string `yaml:"commit_hash"`
	Author       string `yaml:"author"`
	Message      string `yaml:"message"`
	CommittedAgo string `yaml:"committed_ago"`
}

type yamlDeployment struct {
	ID          int    `yaml:"id"`
	ProjectID   int    `yaml:"project_id"`
	Environment string `yaml:"environment"`
	Status      string `yaml:"status"`
	DeployedAgo string `yaml:"deployed_ago"`
	ScanID      *int   `yaml:"scan_id"`
	FixID       *int   `yaml:"fix_id"`
}

// Default returns the embedded sample data.
func Default(now time.Time) (*Data, error) {
	return Parse(sample, now)
}

// Load reads fixtures from path, or the embedded sample when path is empty.
func Load(path string, now time.Time) (*Data, error) {
	if path == "" {
		return Default(now)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	return Parse(content, now)
}

// Parse decodes a YAML fixture document. Relative "*_ago" durations are
// resolved against now.
func Parse(content []byte, now time.Time) (*Data, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}

	data := &Data{NextID: doc.NextID}
	maxID := 0
	track := func(id int) {
		if id > maxID {
			maxID = id
		}
	}

	for _, p := range doc.Projects {
		lastScan, err := ago(now, p.LastScanAgo)
		if err != nil {
			return nil, fmt.Errorf("project %d: %w", p.ID, err)
		}
		track(p.ID)
		data.Projects = append(data.Projects, models.Project{
			ID:               p.ID,
			Name:             p.Name,
			InputType:        p.InputType,
			SonarProjectKey:  p.SonarProjectKey,
			Status:           p.Status,
			LastScan:         lastScan,
			FixPercentage:    p.FixPercentage,
			DeploymentStatus: p.DeploymentStatus,
			Description:      p.Description,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}

	for _, i := range doc.Issues {
		track(i.ID)
		tags := i.Tags
		if tags == nil {
			tags = []string{}
		}
		data.Issues = append(data.Issues, models.Issue{
			ID:          i.ID,
			ProjectID:   i.ProjectID,
			FilePath:    i.FilePath,
			LineStart:   i.LineStart,
			LineEnd:     i.LineEnd,
			Severity:    i.Severity,
			VulnType:    i.VulnType,
			Message:     i.Message,
			CodeSnippet: i.CodeSnippet,
			Status:      i.Status,
			Tags:        tags,
			CreatedAt:   now,
		})
	}

	for _, b := range doc.FunctionBlocks {
		track(b.ID)
		data.FunctionBlocks = append(data.FunctionBlocks, models.FunctionBlock{
			ID:           b.ID,
			ProjectID:    b.ProjectID,
			FilePath:     b.FilePath,
			FunctionName: b.FunctionName,
			LineStart:    b.LineStart,
			LineEnd:      b.LineEnd,
			BlockType:    b.BlockType,
			CodeSnippet:  b.CodeSnippet,
			CreatedAt:    now,
		})
	}

	for _, f := range doc.LlmFixes {
		created, err := ago(now, f.CreatedAgo)
		if err != nil {
			return nil, fmt.Errorf("llm fix %d: %w", f.ID, err)
		}
		track(f.ID)
		fix := models.LlmFix{
			ID:           f.ID,
			ProjectID:    f.ProjectID,
			IssueID:      f.IssueID,
			FunctionName: f.FunctionName,
			LlmResponse:  f.LlmResponse,
			OriginalCode: f.OriginalCode,
			FixedCode:    f.FixedCode,
			Status:       f.Status,
			CreatedAt:    now,
		}
		if created != nil {
			fix.CreatedAt = *created
		}
		data.LlmFixes = append(data.LlmFixes, fix)
	}

	for _, c := range doc.GitCommits {
		committed, err := ago(now, c.CommittedAgo)
		if err != nil {
			return nil, fmt.Errorf("git commit %d: %w", c.ID, err)
		}
		track(c.ID)
		commit := models.GitCommit{
			ID:          c.ID,
			ProjectID:   c.ProjectID,
			CommitHash:  c.CommitHash,
			Author:      c.Author,
			Message:     c.Message,
			CommittedAt: now,
			CreatedAt:   now,
		}
		if committed != nil {
			commit.CommittedAt = *committed
		}
		data.GitCommits = append(data.GitCommits, commit)
	}

	for _, d := range doc.Deployments {
		deployed, err := ago(now, d.DeployedAgo)
		if err != nil {
			return nil, fmt.Errorf("deployment %d: %w", d.ID, err)
		}
		track(d.ID)
		data.Deployments = append(data.Deployments, models.Deployment{
			ID:          d.ID,
			ProjectID:   d.ProjectID,
			Environment: d.Environment,
			Status:      d.Status,
			DeployedAt:  deployed,
			ScanID:      d.ScanID,
			FixID:       d.FixID,
			CreatedAt:   now,
		})
	}

	if data.NextID <= maxID {
		data.NextID = maxID + 1
	}

	return data, nil
}

func ago(now time.Time, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q: %w", value, err)
	}

	t := now.Add(-d)
	return &t, nil
}
