// Package leadapi is the read-only client for the lead backend's REST API.
package leadapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL is the backend address used when none is configured.
const DefaultBaseURL = "http://localhost:5001/api"

// DefaultTimeout bounds every backend request.
const DefaultTimeout = 10 * time.Second

var (
	// ErrBackendOffline is returned when the lead list cannot be fetched.
	ErrBackendOffline = errors.New("backend offline")
	// ErrLeadNotFound is returned when the backend has no lead with the requested id.
	ErrLeadNotFound = errors.New("lead not found")
	// ErrMalformedResponse is returned when a response body is not the expected JSON.
	ErrMalformedResponse = errors.New("malformed response")
)

// Client talks to the lead backend. It attaches no credentials.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for baseURL. A zero timeout selects DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// ListLeads fetches GET /leads. A non-success status is reported as
// ErrBackendOffline.
func (c *Client) ListLeads(ctx context.Context) (*LeadsResponse, error) {
	var body LeadsResponse
	status, err := c.getJSON(ctx, "/leads", &body)
	switch {
	case err == nil:
	case errors.Is(err, ErrMalformedResponse):
		return nil, fmt.Errorf("failed to list leads: %w", err)
	case status != 0:
		return nil, fmt.Errorf("%w: list leads returned status %d", ErrBackendOffline, status)
	default:
		return nil, fmt.Errorf("%w: %v", ErrBackendOffline, err)
	}
	if body.Leads == nil {
		body.Leads = []Lead{}
	}
	return &body, nil
}

// GetStats fetches GET /stats.
func (c *Client) GetStats(ctx context.Context) (*Stats, error) {
	var body statsResponse
	if _, err := c.getJSON(ctx, "/stats", &body); err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}
	if body.Stats == nil {
		return nil, fmt.Errorf("failed to fetch stats: %w: missing stats object", ErrMalformedResponse)
	}
	return body.Stats, nil
}

// GetLead fetches GET /leads/{id}.
func (c *Client) GetLead(ctx context.Context, id string) (*Lead, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrLeadNotFound
	}

	var body leadResponse
	status, err := c.getJSON(ctx, "/leads/"+url.PathEscape(id), &body)
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrLeadNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lead details: %w", err)
	}
	if body.Lead == nil {
		return nil, fmt.Errorf("failed to fetch lead details: %w: missing lead object", ErrMalformedResponse)
	}
	return body.Lead, nil
}

// FetchOverview issues the lead-list and stats requests concurrently and
// waits for both. Either failing fails the whole fetch; a lead-list failure
// takes precedence so an unreachable backend always reports
// ErrBackendOffline.
func (c *Client) FetchOverview(ctx context.Context) (*Overview, error) {
	var (
		leads              *LeadsResponse
		stats              *Stats
		leadsErr, statsErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		leads, leadsErr = c.ListLeads(ctx)
		return leadsErr
	})
	g.Go(func() error {
		stats, statsErr = c.GetStats(ctx)
		return statsErr
	})
	_ = g.Wait()

	if leadsErr != nil {
		return nil, leadsErr
	}
	if statsErr != nil {
		return nil, statsErr
	}

	return &Overview{
		Leads:        leads.Leads,
		ConfigStatus: leads.ConfigStatus,
		Stats:        *stats,
	}, nil
}

// getJSON performs a GET and decodes a 2xx body into out. The returned status
// is the HTTP status when a response arrived, 0 otherwise.
func (c *Client) getJSON(ctx context.Context, path string, out any) (int, error) {
	endpoint := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed for %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("non-success status %d for %s", resp.StatusCode, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w from %s: %v", ErrMalformedResponse, endpoint, err)
	}
	return resp.StatusCode, nil
}
