// Package client is a typed Go client for the scan dashboard HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vedsatt/scan-dashboard/internal/models"
)

const defaultTimeout = 10 * time.Second

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, body interface{}, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, endpoint, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	var errResp models.ErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Code != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       errResp.Error.Code,
			Message:    errResp.Error.Message,
		}
	}

	return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
}

func projectPath(projectID int, parts ...string) string {
	p := "/api/projects/" + strconv.Itoa(projectID)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

func (c *Client) ListProjects(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}

	endpoint := "/api/projects"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var projects []models.Project
	err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &projects)
	return projects, err
}

func (c *Client) GetProject(ctx context.Context, id int) (*models.Project, error) {
	var project models.Project
	if err := c.doRequest(ctx, http.MethodGet, projectPath(id), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) CreateProject(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error) {
	var project models.Project
	if err := c.doRequest(ctx, http.MethodPost, "/api/projects", req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) UpdateProject(ctx context.Context, id int, req models.UpdateProjectRequest) (*models.Project, error) {
	var project models.Project
	if err := c.doRequest(ctx, http.MethodPatch, projectPath(id), req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) DeleteProject(ctx context.Context, id int) error {
	return c.doRequest(ctx, http.MethodDelete, projectPath(id), nil, nil)
}

func (c *Client) GetStats(ctx context.Context) (*models.DashboardStatsResponse, error) {
	var stats models.DashboardStatsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) ListHistory(ctx context.Context) ([]models.History, error) {
	var history []models.History
	err := c.doRequest(ctx, http.MethodGet, "/api/history", nil, &history)
	return history, err
}
