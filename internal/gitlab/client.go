package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/theogf/peeplab/internal/types"
)

// requestTimeout bounds every API call so a stalled fetch surfaces as
// a network error instead of hanging its goroutine.
const requestTimeout = 15 * time.Second

// Client talks to a GitLab instance's REST v4 API.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// NewClient builds a client for the given instance URL (e.g.
// "https://gitlab.com") authenticating with a private token.
func NewClient(instanceURL, token string) *Client {
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		baseURL: strings.TrimSuffix(instanceURL, "/") + "/api/v4",
		token:   token,
	}
}

// GetProjectByPath resolves a "namespace/project" path to the project
// record, mainly for its numeric ID.
func (c *Client) GetProjectByPath(ctx context.Context, path string) (*types.Project, error) {
	var project types.Project
	endpoint := "/projects/" + url.PathEscape(path)
	if err := c.getJSON(ctx, endpoint, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ListMergeRequests fetches open MRs for a project. sourceBranch
// narrows the list to MRs from that branch when non-empty.
func (c *Client) ListMergeRequests(ctx context.Context, projectID int64, sourceBranch string) ([]types.MergeRequest, error) {
	endpoint := fmt.Sprintf("/projects/%d/merge_requests?state=opened&per_page=20", projectID)
	if sourceBranch != "" {
		endpoint += "&source_branch=" + url.QueryEscape(sourceBranch)
	}
	var mrs []types.MergeRequest
	if err := c.getJSON(ctx, endpoint, &mrs); err != nil {
		return nil, err
	}
	return mrs, nil
}

// GetMergeRequest fetches a single MR by its project-local iid.
func (c *Client) GetMergeRequest(ctx context.Context, projectID, mrIID int64) (*types.MergeRequest, error) {
	var mr types.MergeRequest
	endpoint := fmt.Sprintf("/projects/%d/merge_requests/%d", projectID, mrIID)
	if err := c.getJSON(ctx, endpoint, &mr); err != nil {
		return nil, err
	}
	return &mr, nil
}

// ListPipelines fetches the latest pipelines for an MR, newest first.
func (c *Client) ListPipelines(ctx context.Context, projectID, mrIID int64) ([]types.Pipeline, error) {
	endpoint := fmt.Sprintf("/projects/%d/merge_requests/%d/pipelines?per_page=10", projectID, mrIID)
	var pipelines []types.Pipeline
	if err := c.getJSON(ctx, endpoint, &pipelines); err != nil {
		return nil, err
	}
	return pipelines, nil
}

// ListJobs fetches the jobs of one pipeline.
func (c *Client) ListJobs(ctx context.Context, projectID, pipelineID int64) ([]types.Job, error) {
	endpoint := fmt.Sprintf("/projects/%d/pipelines/%d/jobs?per_page=100", projectID, pipelineID)
	var jobs []types.Job
	if err := c.getJSON(ctx, endpoint, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetJobTrace fetches the raw log text of a job. The trace endpoint
// returns plain text, not JSON.
func (c *Client) GetJobTrace(ctx context.Context, projectID, jobID int64) (string, error) {
	endpoint := fmt.Sprintf("/projects/%d/jobs/%d/trace", projectID, jobID)
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return "", err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", networkError("read job trace", err)
	}
	return string(body), nil
}

// ListNotes fetches MR comments, newest first.
func (c *Client) ListNotes(ctx context.Context, projectID, mrIID int64) ([]types.Note, error) {
	endpoint := fmt.Sprintf("/projects/%d/merge_requests/%d/notes?per_page=100&sort=desc&order_by=created_at", projectID, mrIID)
	var notes []types.Note
	if err := c.getJSON(ctx, endpoint, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, networkError("build request", err)
	}
	req.Header.Set("PRIVATE-TOKEN", c.token)
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Debug("api request failed", "endpoint", endpoint, "error", err)
		return nil, networkError("request "+endpoint, err)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return parseError("decode "+endpoint, err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return authError("token rejected or insufficient permissions")
	case resp.StatusCode == http.StatusNotFound:
		return notFoundError("resource not found")
	case resp.StatusCode == http.StatusTooManyRequests:
		return networkError("API rate limit exceeded", nil)
	case resp.StatusCode >= 400:
		return networkError(fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
	return nil
}
