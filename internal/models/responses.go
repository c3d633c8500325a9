package models

import "time"

type MessageResponse struct {
	Message string `json:"message"`
}

type PrepareScanResponse struct {
	Directories []string `json:"directories"`
}

type StartScanResponse struct {
	ScanID        int       `json:"scan_id"`
	Status        string    `json:"status"`
	StartDatetime time.Time `json:"start_datetime"`
}

type CancelScanResponse struct {
	ScanID int    `json:"scan_id"`
	Status string `json:"status"`
}

type RescanResponse struct {
	Message string `json:"message"`
	ScanID  int    `json:"scan_id"`
}

type ScanProgressResponse struct {
	ScanID     int        `json:"scan_id"`
	ProjectID  int        `json:"project_id"`
	Kind       string     `json:"kind"`
	Phase      string     `json:"phase"`
	Progress   float64    `json:"progress"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}

type DiffResponse struct {
	OriginalCode *string `json:"original_code"`
	FixedCode    *string `json:"fixed_code"`
	FunctionName string  `json:"function_name"`
}
