package transport

import (
	"net/http"

	"github.com/vedsatt/scan-dashboard/internal/models"
)

func (s *server) ListIssuesHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	issues, serviceErr := s.service.ListIssues(r.Context(), projectID)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusOK, issues)
}

func (s *server) CreateIssueHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var request models.CreateIssueRequest
	if !s.decodeBody(w, r, &request) {
		return
	}

	issue, serviceErr := s.service.CreateIssue(r.Context(), projectID, request)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, issue)
}

func (s *server) UpdateIssueHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	issueID, ok := s.pathID(w, r, "issue_id")
	if !ok {
		return
	}

	var request models.UpdateIssueRequest
	if !s.decodeBody(w, r, &request) {
		return
	}

	issue, serviceErr := s.service.UpdateIssue(r.Context(), projectID, issueID, request)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusOK, issue)
}

func (s *server) ListFunctionBlocksHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	blocks, serviceErr := s.service.ListFunctionBlocks(r.Context(), projectID)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusOK, blocks)
}

func (s *server) CreateFunctionBlockHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var request models.CreateFunctionBlockRequest
	if !s.decodeBody(w, r, &request) {
		return
	}

	block, serviceErr := s.service.CreateFunctionBlock(r.Context(), projectID, request)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, block)
}

func (s *server) ListLlmFixesHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	fixes, serviceErr := s.service.ListLlmFixes(r.Context(), projectID)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusOK, fixes)
}

func (s *server) CreateLlmFixHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var request models.CreateLlmFixRequest
	if !s.decodeBody(w, r, &request) {
		return
	}

	fix, serviceErr := s.service.CreateLlmFix(r.Context(), projectID, request)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, fix)
}

func (s *server) UpdateLlmFixHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	fixID, ok := s.pathID(w, r, "fix_id")
	if !ok {
		return
	}

	var request models.UpdateLlmFixRequest
	if !s.decodeBody(w, r, &request) {
		return
	}

	fix, serviceErr := s.service.UpdateLlmFix(r.Context(), projectID, fixID, request)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusOK, fix)
}

func (s *server) ListGitCommitsHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	commits, serviceErr := s.service.ListGitCommits(r.Context(), projectID)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusOK, commits)
}

func (s *server) CreateGitCommitHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var request models.CreateGitCommitRequest
	if !s.decodeBody(w, r, &request) {
		return
	}

	commit, serviceErr := s.service.CreateGitCommit(r.Context(), projectID, request)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, commit)
}

func (s *server) ListDeploymentsHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	deployments, serviceErr := s.service.ListDeployments(r.Context(), projectID)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusOK, deployments)
}

func (s *server) CreateDeploymentHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var request models.CreateDeploymentRequest
	if !s.decodeBody(w, r, &request) {
		return
	}

	deployment, serviceErr := s.service.CreateDeployment(r.Context(), projectID, request)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, deployment)
}
