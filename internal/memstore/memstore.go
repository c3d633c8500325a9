// Package memstore is the in-memory repository used when no database is
// configured. All entity kinds draw ids from one shared counter.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vedsatt/scan-dashboard/internal/models"
	"github.com/vedsatt/scan-dashboard/internal/seed"
)

type Store struct {
	mu sync.RWMutex

	projects       map[int]models.Project
	issues         map[int]models.Issue
	functionBlocks map[int]models.FunctionBlock
	llmFixes       map[int]models.LlmFix
	gitCommits     map[int]models.GitCommit
	deployments    map[int]models.Deployment
	history        map[int]models.History

	nextID int
	now    func() time.Time
}

func New() *Store {
	return &Store{
		projects:       make(map[int]models.Project),
		issues:         make(map[int]models.Issue),
		functionBlocks: make(map[int]models.FunctionBlock),
		llmFixes:       make(map[int]models.LlmFix),
		gitCommits:     make(map[int]models.GitCommit),
		deployments:    make(map[int]models.Deployment),
		history:        make(map[int]models.History),
		nextID:         1,
		now:            time.Now,
	}
}

func notFound(entity string, id int) error {
	return fmt.Errorf("%s %d: %w", entity, id, models.ErrNotFound)
}

// allocID must be called with mu held.
func (s *Store) allocID() int {
	id := s.nextID
	s.nextID++
	return id
}

// RunInTx runs fn directly. Each store call locks on its own.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *Store) CloseConnection() {}

// ImportSeed copies fixtures into the store, skipping ids that already exist,
// and moves the id counter past them.
func (s *Store) ImportSeed(_ context.Context, data *seed.Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range data.Projects {
		if _, ok := s.projects[p.ID]; !ok {
			s.projects[p.ID] = p
		}
	}
	for _, i := range data.Issues {
		if _, ok := s.issues[i.ID]; !ok {
			i.Tags = cloneTags(i.Tags)
			s.issues[i.ID] = i
		}
	}
	for _, b := range data.FunctionBlocks {
		if _, ok := s.functionBlocks[b.ID]; !ok {
			s.functionBlocks[b.ID] = b
		}
	}
	for _, f := range data.LlmFixes {
		if _, ok := s.llmFixes[f.ID]; !ok {
			s.llmFixes[f.ID] = f
		}
	}
	for _, c := range data.GitCommits {
		if _, ok := s.gitCommits[c.ID]; !ok {
			s.gitCommits[c.ID] = c
		}
	}
	for _, d := range data.Deployments {
		if _, ok := s.deployments[d.ID]; !ok {
			s.deployments[d.ID] = d
		}
	}

	if data.NextID > s.nextID {
		s.nextID = data.NextID
	}

	return nil
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// byProject collects map values tagged with projectID, ordered by id.
func byProject[T any](m map[int]T, projectID int, project func(T) int, id func(T) int) []T {
	out := make([]T, 0)
	for _, v := range m {
		if project(v) == projectID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })
	return out
}

func (s *Store) SelectProjects(_ context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	projects := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.SonarProjectKey), search) {
			continue
		}
		projects = append(projects, p)
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (s *Store) SelectProject(_ context.Context, id int) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, notFound("project", id)
	}
	return &p, nil
}

func (s *Store) InsertProject(_ context.Context, req models.CreateProjectRequest) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p := models.Project{
		ID:               s.allocID(),
		Name:             req.Name,
		InputType:        req.InputType,
		SonarProjectKey:  req.SonarProjectKey,
		Status:           req.Status,
		LastScan:         req.LastScan,
		DeploymentStatus: req.DeploymentStatus,
		Description:      req.Description,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.FixPercentage != nil {
		p.FixPercentage = *req.FixPercentage
	}

	s.projects[p.ID] = p
	return &p, nil
}

func (s *Store) UpdateProject(_ context.Context, id int, req models.UpdateProjectRequest) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, notFound("project", id)
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.InputType != nil {
		p.InputType = *req.InputType
	}
	if req.SonarProjectKey != nil {
		p.SonarProjectKey = *req.SonarProjectKey
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.LastScan != nil {
		p.LastScan = req.LastScan
	}
	if req.FixPercentage != nil {
		p.FixPercentage = *req.FixPercentage
	}
	if req.DeploymentStatus != nil {
		p.DeploymentStatus = *req.DeploymentStatus
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	p.UpdatedAt = s.now()

	s.projects[id] = p
	return &p, nil
}

func (s *Store) DeleteProject(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return notFound("project", id)
	}
	delete(s.projects, id)
	return nil
}

func (s *Store) SelectProjectIssues(_ context.Context, projectID int) ([]models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issues := byProject(s.issues, projectID,
		func(i models.Issue) int { return i.ProjectID },
		func(i models.Issue) int { return i.ID })
	for idx := range issues {
		issues[idx].Tags = cloneTags(issues[idx].Tags)
	}
	return issues, nil
}

func (s *Store) SelectIssue(_ context.Context, id int) (*models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.issues[id]
	if !ok {
		return nil, notFound("issue", id)
	}
	i.Tags = cloneTags(i.Tags)
	return &i, nil
}

func (s *Store) InsertIssue(_ context.Context, req models.CreateIssueRequest) (*models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := models.Issue{
		ID:          s.allocID(),
		ProjectID:   req.ProjectID,
		FilePath:    req.FilePath,
		LineStart:   req.LineStart,
		LineEnd:     req.LineEnd,
		Severity:    req.Severity,
		VulnType:    req.VulnType,
		Message:     req.Message,
		CodeSnippet: req.CodeSnippet,
		Status:      req.Status,
		Tags:        cloneTags(req.Tags),
		CreatedAt:   s.now(),
	}

	s.issues[i.ID] = i
	i.Tags = cloneTags(i.Tags)
	return &i, nil
}

func (s *Store) UpdateIssue(_ context.Context, id int, req models.UpdateIssueRequest) (*models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.issues[id]
	if !ok {
		return nil, notFound("issue", id)
	}

	if req.Severity != nil {
		i.Severity = *req.Severity
	}
	if req.Message != nil {
		i.Message = *req.Message
	}
	if req.CodeSnippet != nil {
		i.CodeSnippet = req.CodeSnippet
	}
	if req.Status != nil {
		i.Status = *req.Status
	}
	if req.Tags != nil {
		i.Tags = cloneTags(*req.Tags)
	}

	s.issues[id] = i
	i.Tags = cloneTags(i.Tags)
	return &i, nil
}

func (s *Store) SelectProjectFunctionBlocks(_ context.Context, projectID int) ([]models.FunctionBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return byProject(s.functionBlocks, projectID,
		func(b models.FunctionBlock) int { return b.ProjectID },
		func(b models.FunctionBlock) int { return b.ID }), nil
}

func (s *Store) InsertFunctionBlock(_ context.Context, req models.CreateFunctionBlockRequest) (*models.FunctionBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := models.FunctionBlock{
		ID:           s.allocID(),
		ProjectID:    req.ProjectID,
		FilePath:     req.FilePath,
		FunctionName: req.FunctionName,
		LineStart:    req.LineStart,
		LineEnd:      req.LineEnd,
		BlockType:    req.BlockType,
		CodeSnippet:  req.CodeSnippet,
		CreatedAt:    s.now(),
	}

	s.functionBlocks[b.ID] = b
	return &b, nil
}

func (s *Store) SelectProjectLlmFixes(_ context.Context, projectID int) ([]models.LlmFix, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return byProject(s.llmFixes, projectID,
		func(f models.LlmFix) int { return f.ProjectID },
		func(f models.LlmFix) int { return f.ID }), nil
}

func (s *Store) SelectLlmFix(_ context.Context, id int) (*models.LlmFix, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.llmFixes[id]
	if !ok {
		return nil, notFound("llm fix", id)
	}
	return &f, nil
}

func (s *Store) InsertLlmFix(_ context.Context, req models.CreateLlmFixRequest) (*models.LlmFix, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := models.LlmFix{
		ID:           s.allocID(),
		ProjectID:    req.ProjectID,
		IssueID:      req.IssueID,
		FunctionName: req.FunctionName,
		LlmResponse:  req.LlmResponse,
		OriginalCode: req.OriginalCode,
		FixedCode:    req.FixedCode,
		Status:       req.Status,
		CreatedAt:    s.now(),
	}

	s.llmFixes[f.ID] = f
	return &f, nil
}

func (s *Store) UpdateLlmFix(_ context.Context, id int, req models.UpdateLlmFixRequest) (*models.LlmFix, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.llmFixes[id]
	if !ok {
		return nil, notFound("llm fix", id)
	}

	if req.LlmResponse != nil {
		f.LlmResponse = *req.LlmResponse
	}
	if req.FixedCode != nil {
		f.FixedCode = req.FixedCode
	}
	if req.Status != nil {
		f.Status = *req.Status
	}

	s.llmFixes[id] = f
	return &f, nil
}

func (s *Store) SelectProjectGitCommits(_ context.Context, projectID int) ([]models.GitCommit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return byProject(s.gitCommits, projectID,
		func(c models.GitCommit) int { return c.ProjectID },
		func(c models.GitCommit) int { return c.ID }), nil
}

func (s *Store) InsertGitCommit(_ context.Context, req models.CreateGitCommitRequest) (*models.GitCommit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := models.GitCommit{
		ID:          s.allocID(),
		ProjectID:   req.ProjectID,
		CommitHash:  req.CommitHash,
		Author:      req.Author,
		Message:     req.Message,
		CommittedAt: req.CommittedAt,
		CreatedAt:   s.now(),
	}

	s.gitCommits[c.ID] = c
	return &c, nil
}

func (s *Store) SelectProjectDeployments(_ context.Context, projectID int) ([]models.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return byProject(s.deployments, projectID,
		func(d models.Deployment) int { return d.ProjectID },
		func(d models.Deployment) int { return d.ID }), nil
}

func (s *Store) InsertDeployment(_ context.Context, req models.CreateDeploymentRequest) (*models.Deployment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := models.Deployment{
		ID:          s.allocID(),
		ProjectID:   req.ProjectID,
		Environment: req.Environment,
		Status:      req.Status,
		DeployedAt:  req.DeployedAt,
		ScanID:      req.ScanID,
		FixID:       req.FixID,
		CreatedAt:   s.now(),
	}

	s.deployments[d.ID] = d
	return &d, nil
}

func (s *Store) UpdateDeployment(_ context.Context, id int, req models.UpdateDeploymentRequest) (*models.Deployment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.deployments[id]
	if !ok {
		return nil, notFound("deployment", id)
	}

	if req.Status != nil {
		d.Status = *req.Status
	}
	if req.DeployedAt != nil {
		d.DeployedAt = req.DeployedAt
	}

	s.deployments[id] = d
	return &d, nil
}

// newestFirst orders history rows by creation time, then id, descending.
func newestFirst(rows []models.History) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
}

func (s *Store) SelectProjectHistory(_ context.Context, projectID int) ([]models.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]models.History, 0)
	for _, h := range s.history {
		if h.ProjectID == projectID {
			rows = append(rows, h)
		}
	}
	newestFirst(rows)
	return rows, nil
}

func (s *Store) SelectHistory(_ context.Context) ([]models.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]models.History, 0, len(s.history))
	for _, h := range s.history {
		rows = append(rows, h)
	}
	newestFirst(rows)
	return rows, nil
}

func (s *Store) InsertHistory(_ context.Context, req models.CreateHistoryRequest) (*models.History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := models.History{
		ID:         s.allocID(),
		ProjectID:  req.ProjectID,
		ActionType: req.ActionType,
		ActionData: req.ActionData,
		Status:     req.Status,
		CreatedAt:  s.now(),
	}

	s.history[h.ID] = h
	return &h, nil
}
