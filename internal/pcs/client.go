// Package pcs fetches race startlists from ProCyclingStats.
//
// It implements roster.Fetcher. Rider keys are the rider page paths
// (e.g. "rider/wout-van-aert"), which stay stable when display names are
// reformatted. A page without rider links parses to an empty roster, and
// HTTP or network failures return errors; callers treat both as "no data
// this cycle".
package pcs

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"peloton/internal/registry"
	"peloton/internal/roster"
)

// Client fetches startlist pages over HTTP.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

var _ roster.Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a startlist client for the given base URL.
func New(baseURL, userAgent string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("pcs base url required")
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	client := &Client{
		baseURL:    baseURL,
		userAgent:  strings.TrimSpace(userAgent),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// FetchStartlist downloads and parses the startlist for one race.
func (c *Client) FetchStartlist(ctx context.Context, race registry.Race) ([]roster.Rider, error) {
	url := c.startlistURL(race)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch startlist %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch startlist %s: unexpected status %d", url, resp.StatusCode)
	}

	riders, err := ParseStartlist(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse startlist %s: %w", url, err)
	}
	return riders, nil
}

// startlistURL builds the full startlist URL for a race. Configured race
// URLs may be full page URLs or bare paths, with or without the /startlist
// suffix; all forms resolve to the same request.
func (c *Client) startlistURL(race registry.Race) string {
	return c.baseURL + "/" + RacePath(race.URL) + "/startlist"
}

// RacePath normalizes a configured race URL to its bare race path,
// e.g. "race/omloop-het-nieuwsblad/2026".
func RacePath(raceURL string) string {
	path := strings.TrimSpace(raceURL)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		if idx := strings.Index(path, "://"); idx >= 0 {
			rest := path[idx+len("://"):]
			if slash := strings.Index(rest, "/"); slash >= 0 {
				path = rest[slash+1:]
			} else {
				path = ""
			}
		}
	}
	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, "/startlist")
	return path
}
