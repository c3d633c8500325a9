package memstore

import (
	"context"
	"math"

	"github.com/vedsatt/scan-dashboard/internal/models"
)

func (s *Store) SelectDashboardStats(_ context.Context) (*models.DashboardStatsResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.DashboardStatsResponse{TotalProjects: len(s.projects)}

	sum := 0
	for _, p := range s.projects {
		sum += p.FixPercentage
	}
	if stats.TotalProjects > 0 {
		stats.AvgFixRate = int(math.Round(float64(sum) / float64(stats.TotalProjects)))
	}

	for _, i := range s.issues {
		if i.Severity == models.SeverityCritical && i.Status == models.IssuePending {
			stats.CriticalIssues++
		}
	}

	for _, f := range s.llmFixes {
		if f.Status == models.FixApplied {
			stats.FixesApplied++
		}
	}

	return stats, nil
}
