package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultHTTPTimeout = 15 * time.Second

// Client is a minimal GitHub REST v3 client covering the few endpoints
// the sync needs. Calls are sequential with no retries; the sync is a
// one-shot, manually invoked tool.
type Client struct {
	baseURL    string
	owner      string
	repo       string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a client for one repository.
func NewClient(baseURL, owner, repo, token string, log *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		owner:      owner,
		repo:       repo,
		token:      token,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		log:        log,
	}
}

type remoteLabel struct {
	Name string `json:"name"`
}

type remoteMilestone struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}

type remoteIssue struct {
	Title string `json:"title"`
}

// ListLabelNames returns the names of existing repository labels.
func (c *Client) ListLabelNames(ctx context.Context) (map[string]bool, error) {
	var labels []remoteLabel
	if err := c.do(ctx, http.MethodGet, c.repoPath("labels")+"?per_page=100", nil, &labels); err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(labels))
	for _, l := range labels {
		names[l.Name] = true
	}
	return names, nil
}

// CreateLabel creates a repository label.
func (c *Client) CreateLabel(ctx context.Context, l Label) error {
	body := map[string]string{"name": l.Name, "color": l.Color, "description": l.Description}
	return c.do(ctx, http.MethodPost, c.repoPath("labels"), body, nil)
}

// ListMilestones returns existing milestones keyed by title.
func (c *Client) ListMilestones(ctx context.Context) (map[string]int, error) {
	var milestones []remoteMilestone
	if err := c.do(ctx, http.MethodGet, c.repoPath("milestones")+"?state=all&per_page=100", nil, &milestones); err != nil {
		return nil, err
	}
	byTitle := make(map[string]int, len(milestones))
	for _, m := range milestones {
		byTitle[m.Title] = m.Number
	}
	return byTitle, nil
}

// CreateMilestone creates a milestone and returns its number.
func (c *Client) CreateMilestone(ctx context.Context, m Milestone) (int, error) {
	body := map[string]string{"title": m.Title, "description": m.Description}
	if m.DueOn != "" {
		body["due_on"] = m.DueOn
	}
	var created remoteMilestone
	if err := c.do(ctx, http.MethodPost, c.repoPath("milestones"), body, &created); err != nil {
		return 0, err
	}
	return created.Number, nil
}

// ListIssueTitles returns the titles of existing issues (open and closed).
func (c *Client) ListIssueTitles(ctx context.Context) (map[string]bool, error) {
	var issues []remoteIssue
	if err := c.do(ctx, http.MethodGet, c.repoPath("issues")+"?state=all&per_page=100", nil, &issues); err != nil {
		return nil, err
	}
	titles := make(map[string]bool, len(issues))
	for _, i := range issues {
		titles[i.Title] = true
	}
	return titles, nil
}

// CreateIssue opens an issue, optionally attached to a milestone number.
func (c *Client) CreateIssue(ctx context.Context, issue Issue, milestoneNumber int) error {
	body := map[string]any{"title": issue.Title, "body": issue.Body}
	if len(issue.Labels) > 0 {
		body["labels"] = issue.Labels
	}
	if milestoneNumber > 0 {
		body["milestone"] = milestoneNumber
	}
	return c.do(ctx, http.MethodPost, c.repoPath("issues"), body, nil)
}

func (c *Client) repoPath(suffix string) string {
	return fmt.Sprintf("%s/repos/%s/%s/%s", c.baseURL, c.owner, c.repo, suffix)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, v any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("github request", "method", method, "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("github returned %s for %s %s: %s", resp.Status, method, endpoint, bytes.TrimSpace(msg))
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf("failed to decode github response: %w", err)
		}
	}
	return nil
}
