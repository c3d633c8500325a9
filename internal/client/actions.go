package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vedsatt/scan-dashboard/internal/models"
)

// emptyBody is sent to action endpoints that take no input.
var emptyBody = struct{}{}

func (c *Client) PrepareScan(ctx context.Context, projectID int, req models.PrepareScanRequest) (*models.PrepareScanResponse, error) {
	var resp models.PrepareScanResponse
	if err := c.doRequest(ctx, http.MethodPost, projectPath(projectID, "scan", "prepare"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) StartScan(ctx context.Context, projectID int, req models.StartScanRequest) (*models.StartScanResponse, error) {
	var resp models.StartScanResponse
	if err := c.doRequest(ctx, http.MethodPost, projectPath(projectID, "scan"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetScan(ctx context.Context, projectID, scanID int) (*models.ScanProgressResponse, error) {
	var resp models.ScanProgressResponse
	endpoint := projectPath(projectID, "scans", strconv.Itoa(scanID))
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CancelScan(ctx context.Context, projectID, scanID int) (*models.CancelScanResponse, error) {
	var resp models.CancelScanResponse
	endpoint := projectPath(projectID, "scans", strconv.Itoa(scanID), "cancel")
	if err := c.doRequest(ctx, http.MethodPost, endpoint, emptyBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AutoFix(ctx context.Context, projectID int) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	if err := c.doRequest(ctx, http.MethodPost, projectPath(projectID, "fix"), emptyBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MergeFix merges the project's pending changes. fixID may be nil.
func (c *Client) MergeFix(ctx context.Context, projectID int, fixID *int) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	req := models.MergeFixRequest{FixID: fixID}
	if err := c.doRequest(ctx, http.MethodPost, projectPath(projectID, "merge_fix"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetDiff(ctx context.Context, projectID, fixID int) (*models.DiffResponse, error) {
	var resp models.DiffResponse
	query := url.Values{"fix_id": {strconv.Itoa(fixID)}}
	endpoint := projectPath(projectID, "diff") + "?" + query.Encode()
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Rescan(ctx context.Context, projectID int) (*models.RescanResponse, error) {
	var resp models.RescanResponse
	if err := c.doRequest(ctx, http.MethodPost, projectPath(projectID, "rescan"), emptyBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Deploy(ctx context.Context, projectID int, environment string) (*models.Deployment, error) {
	var deployment models.Deployment
	req := models.DeployRequest{Environment: environment}
	if err := c.doRequest(ctx, http.MethodPost, projectPath(projectID, "deploy"), req, &deployment); err != nil {
		return nil, err
	}
	return &deployment, nil
}
