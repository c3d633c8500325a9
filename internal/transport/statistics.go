package transport

import (
	"net/http"
)

func (s *server) GetDashboardStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, errDetails := s.service.GetDashboardStats(r.Context())
	if errDetails != nil {
		s.respondWithError(w, s.mapServiceErrors(errDetails.Code), *errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, stats)
}

func (s *server) ListHistoryHandler(w http.ResponseWriter, r *http.Request) {
	history, errDetails := s.service.ListHistory(r.Context())
	if errDetails != nil {
		s.respondWithError(w, s.mapServiceErrors(errDetails.Code), *errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, history)
}

func (s *server) ListProjectHistoryHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	history, errDetails := s.service.ListProjectHistory(r.Context(), projectID)
	if errDetails != nil {
		s.respondWithError(w, s.mapServiceErrors(errDetails.Code), *errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, history)
}
