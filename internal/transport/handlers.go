package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vedsatt/scan-dashboard/internal/models"
	"go.uber.org/zap"
)

func (s *server) respondWithError(w http.ResponseWriter, code int, err models.ErrDetails) {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(code)
	resp := models.ErrorResponse{
		Error: err,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		zap.L().Error("failed to encode JSON for response", zap.Error(err))
	}
}

func (s *server) respondWithJSON(w http.ResponseWriter, code int, resp interface{}) {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		zap.L().Error("failed to encode JSON for response", zap.Error(err))
	}
}

func (s *server) respondWithServiceError(w http.ResponseWriter, details *models.ErrDetails) {
	s.respondWithError(w, s.mapServiceErrors(details.Code), *details)
}

// decodeBody reads a JSON body into dst. An empty body leaves dst untouched.
func (s *server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := r.Body
	defer body.Close()

	err := json.NewDecoder(body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	s.respondWithError(w, http.StatusBadRequest, models.ErrDetails{
		Code:    models.InvalidJSONErr,
		Message: fmt.Sprintf("failed to decode json: %v", err),
	})
	return false
}

// pathID parses an integer URL parameter, answering 400 when it is malformed.
func (s *server) pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, models.ErrDetails{
			Code:    models.InvalidInputErr,
			Message: fmt.Sprintf("%s must be an integer, got %q", name, raw),
		})
		return 0, false
	}

	return id, true
}

func (s *server) ListProjectsHandler(w http.ResponseWriter, r *http.Request) {
	filter := models.ProjectFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}

	projects, serviceErr := s.service.ListProjects(r.Context(), filter)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusOK, projects)
}

func (s *server) GetProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	project, serviceErr := s.service.GetProject(r.Context(), id)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusOK, project)
}

func (s *server) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	var request models.CreateProjectRequest
	if !s.decodeBody(w, r, &request) {
		return
	}

	project, serviceErr := s.service.CreateProject(r.Context(), request)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, project)
}

func (s *server) UpdateProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var request models.UpdateProjectRequest
	if !s.decodeBody(w, r, &request) {
		return
	}

	project, serviceErr := s.service.UpdateProject(r.Context(), id, request)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusOK, project)
}

func (s *server) DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	if serviceErr := s.service.DeleteProject(r.Context(), id); serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
