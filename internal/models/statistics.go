package models

type DashboardStatsResponse struct {
	TotalProjects  int `json:"total_projects"`
	CriticalIssues int `json:"critical_issues"`
	FixesApplied   int `json:"fixes_applied"`
	AvgFixRate     int `json:"avg_fix_rate"`
}
