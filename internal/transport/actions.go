package transport

import (
	"net/http"

	"github.com/vedsatt/scan-dashboard/internal/models"
)

func (s *server) PrepareScanHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var request models.PrepareScanRequest
	if !s.decodeBody(w, r, &request) {
		return
	}

	resp, serviceErr := s.service.PrepareScan(r.Context(), projectID, request)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) StartScanHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var request models.StartScanRequest
	if !s.decodeBody(w, r, &request) {
		return
	}

	resp, serviceErr := s.service.StartScan(r.Context(), projectID, request)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) GetScanHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	scanID, ok := s.pathID(w, r, "scan_id")
	if !ok {
		return
	}

	resp, serviceErr := s.service.GetScan(r.Context(), projectID, scanID)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) CancelScanHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	scanID, ok := s.pathID(w, r, "scan_id")
	if !ok {
		return
	}

	resp, serviceErr := s.service.CancelScan(r.Context(), projectID, scanID)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) AutoFixHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	resp, serviceErr := s.service.AutoFix(r.Context(), projectID)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) MergeFixHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var request models.MergeFixRequest
	if !s.decodeBody(w, r, &request) {
		return
	}

	resp, serviceErr := s.service.MergeFix(r.Context(), projectID, request)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) GetDiffHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	resp, serviceErr := s.service.GetDiff(r.Context(), projectID, r.URL.Query().Get("fix_id"))
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) RescanHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	resp, serviceErr := s.service.Rescan(r.Context(), projectID)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) DeployHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var request models.DeployRequest
	if !s.decodeBody(w, r, &request) {
		return
	}

	deployment, serviceErr := s.service.Deploy(r.Context(), projectID, request)
	if serviceErr != nil {
		s.respondWithServiceError(w, serviceErr)
		return
	}

	s.respondWithJSON(w, http.StatusOK, deployment)
}
