// Package search is a thin client for an external JSON web-search API, used
// to suggest pages worth adding to a category. The engine treats it as a
// fallible collaborator: a failed search and an empty search are the same
// thing to callers.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Result is a single web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"kwic"`
}

// response mirrors the API's JSON envelope.
type response struct {
	Results []Result `json:"results"`
	Count   int      `json:"count"`
}

// Client queries a web search API over HTTP.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

// NewClient creates a search client. The http.Client is injected so callers
// control timeouts; the endpoint is explicit so tests can point it at a
// local server.
func NewClient(httpClient *http.Client, endpoint, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, endpoint: endpoint, apiKey: apiKey}
}

// Sanitize strips the characters the API forbids in queries (/=():;) and
// trims surrounding whitespace.
func Sanitize(query string) string {
	var b strings.Builder
	for _, r := range query {
		if !strings.ContainsRune(`/=():;`, r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Search runs the query and returns up to ten results. Transport errors,
// non-200 statuses, and decode failures all come back as errors; the caller
// decides whether to surface or swallow them.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	query = Sanitize(query)
	if query == "" {
		return nil, nil
	}

	reqURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("search: parse endpoint: %w", err)
	}
	q := reqURL.Query()
	q.Set("q", query)
	q.Set("start", "1")
	q.Set("length", "10")
	q.Set("l", "en")
	q.Set("src", "web")
	q.Set("f", "json")
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("search: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: unexpected status %d", resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}
	return body.Results, nil
}
