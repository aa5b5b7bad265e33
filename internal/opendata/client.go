// Package opendata provides a client for the Open Data BCN portal's CKAN
// action API, used to locate the datasets the analysis is built from.
package opendata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const defaultHTTPTimeout = 10 * time.Second

// Resource is one downloadable file attached to a dataset.
type Resource struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	URL    string `json:"url"`
}

// Dataset is a CKAN package: a named collection of resources.
type Dataset struct {
	Name      string     `json:"name"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes"`
	Modified  string     `json:"metadata_modified"`
	Org       orgField   `json:"organization"`
	Resources []Resource `json:"resources"`
}

type orgField struct {
	Title string `json:"title"`
}

// Client calls the CKAN action API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a portal client. baseURL points at the portal's
// /api/3/action root.
func New(baseURL string, log *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		log:        log,
	}
}

type searchResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Count   int       `json:"count"`
		Results []Dataset `json:"results"`
	} `json:"result"`
}

type showResponse struct {
	Success bool    `json:"success"`
	Result  Dataset `json:"result"`
}

// Search runs a package_search query and returns the matching datasets
// plus the total match count.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]Dataset, int, error) {
	params := url.Values{}
	params.Set("q", term)
	params.Set("rows", fmt.Sprintf("%d", limit))

	var payload searchResponse
	if err := c.get(ctx, "package_search", params, &payload); err != nil {
		return nil, 0, err
	}
	if !payload.Success {
		return nil, 0, fmt.Errorf("portal rejected package_search for %q", term)
	}

	c.log.Debug("portal search", "term", term, "count", payload.Result.Count)
	return payload.Result.Results, payload.Result.Count, nil
}

// Show fetches one dataset by its CKAN name.
func (c *Client) Show(ctx context.Context, name string) (*Dataset, error) {
	params := url.Values{}
	params.Set("id", name)

	var payload showResponse
	if err := c.get(ctx, "package_show", params, &payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, fmt.Errorf("portal rejected package_show for %q", name)
	}
	return &payload.Result, nil
}

func (c *Client) get(ctx context.Context, action string, params url.Values, v any) error {
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, action, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build portal request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("portal request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("portal returned %s for %s", resp.Status, action)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode portal response: %w", err)
	}
	return nil
}
