package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is used when no server URL is configured.
	DefaultBaseURL = "http://localhost:3000/api"

	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultCacheTTL is how long GET responses are served from cache.
	DefaultCacheTTL = 30 * time.Second
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout overrides the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithCacheTTL overrides the response cache TTL. A zero TTL disables caching.
func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) {
		c.cache = newResponseCache(d)
	}
}

// Client is the taskboard REST API client.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	cache       *responseCache
}

// NewClient creates a new API client with the given access token.
func NewClient(accessToken string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL:     DefaultBaseURL,
		accessToken: accessToken,
		cache:       newResponseCache(DefaultCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetHTTPClient allows overriding the default HTTP client (useful for testing).
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AccessToken returns the bearer token used for requests.
func (c *Client) AccessToken() string {
	return c.accessToken
}

// Invalidate drops every cached response so the next read hits the server.
func (c *Client) Invalidate() {
	c.cache.clear()
}

// do performs an HTTP request and decodes the JSON response.
func (c *Client) do(method, path string, body interface{}, result interface{}) error {
	reqURL := c.baseURL + path

	if method == http.MethodGet {
		if cached, ok := c.cache.get(reqURL); ok {
			return decodeBody(cached, result)
		}
	}

	var bodyReader io.Reader
	if body != nil {
		if err := validateRequest(body); err != nil {
			return err
		}
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if method == http.MethodGet {
		c.cache.put(reqURL, respBody)
	} else {
		// Any write may change any list the UI holds.
		c.cache.clear()
	}

	return decodeBody(respBody, result)
}

func decodeBody(body []byte, result interface{}) error {
	if result == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Get performs a GET request.
func (c *Client) Get(path string, result interface{}) error {
	return c.do(http.MethodGet, path, nil, result)
}

// GetWithQuery performs a GET request with query parameters.
func (c *Client) GetWithQuery(path string, query url.Values, result interface{}) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.do(http.MethodGet, path, nil, result)
}

// Post performs a POST request.
func (c *Client) Post(path string, body interface{}, result interface{}) error {
	return c.do(http.MethodPost, path, body, result)
}

// Patch performs a PATCH request.
func (c *Client) Patch(path string, body interface{}, result interface{}) error {
	return c.do(http.MethodPatch, path, body, result)
}

// Delete performs a DELETE request.
func (c *Client) Delete(path string) error {
	return c.do(http.MethodDelete, path, nil, nil)
}

// getAllPages follows nextCursor until the listing is exhausted.
func getAllPages[T any](c *Client, path string, query url.Values) ([]T, error) {
	all := make([]T, 0)
	if query == nil {
		query = url.Values{}
	}

	for {
		var response PaginatedResponse[T]
		if err := c.GetWithQuery(path, query, &response); err != nil {
			return nil, err
		}

		all = append(all, response.Results...)

		if response.NextCursor == nil || *response.NextCursor == "" {
			break
		}
		query.Set("cursor", *response.NextCursor)
	}

	return all, nil
}

// buildFilterQuery builds query parameters for task filtering.
func buildFilterQuery(filter TaskFilter) url.Values {
	query := url.Values{}

	if filter.WorkspaceID != "" {
		query.Set("workspaceId", filter.WorkspaceID)
	}
	if filter.ProjectID != "" {
		query.Set("projectId", filter.ProjectID)
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.AssigneeID != "" {
		query.Set("assigneeId", filter.AssigneeID)
	}

	return query
}
