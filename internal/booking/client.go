package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"loom/internal/services"
)

const userAgent = "loom/0.1"

// Gateway defines the remote booking operations the engine consumes.
type Gateway interface {
	// ListFuturePosts returns the booked posts still in scheduled state,
	// optionally filtered to the given canonical platforms.
	ListFuturePosts(ctx context.Context, platforms ...string) ([]Post, error)
	// CreatePost books a new post and returns its remote id.
	CreatePost(ctx context.Context, spec PostSpec) (string, error)
	// CancelPost cancels a booked post by remote id.
	CancelPost(ctx context.Context, id string) error
}

// Client talks to the remote booking service over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ Gateway = (*Client)(nil)

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

// New creates a booking client. The token may be empty for unauthenticated
// deployments.
func New(baseURL, token string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "booking", "new", "base url required", nil)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &Client{
		baseURL:    baseURL,
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type listResponse struct {
	Posts []Post `json:"posts"`
}

// ListFuturePosts fetches booked posts with status scheduled. Failures are
// returned as transient errors; callers degrade per the soft-fail contract.
func (c *Client) ListFuturePosts(ctx context.Context, platforms ...string) ([]Post, error) {
	query := url.Values{}
	query.Set("status", string(StatusScheduled))
	for _, platform := range platforms {
		if platform = strings.TrimSpace(platform); platform != "" {
			query.Add("platform", platform)
		}
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/v1/posts?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var payload listResponse
	if err := c.do(req, "list posts", &payload); err != nil {
		return nil, err
	}
	return payload.Posts, nil
}

type createResponse struct {
	ID string `json:"id"`
}

// CreatePost books a post and returns its remote id. One attempt, no retry.
func (c *Client) CreatePost(ctx context.Context, spec PostSpec) (string, error) {
	body, err := json.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("encode post spec: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/v1/posts", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var payload createResponse
	if err := c.do(req, "create post", &payload); err != nil {
		return "", err
	}
	if payload.ID == "" {
		return "", services.Wrap(services.ErrTransient, "booking", "create post", "service returned no id", nil)
	}
	return payload.ID, nil
}

// CancelPost cancels a booked post. One attempt, no retry.
func (c *Client) CancelPost(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return services.Wrap(services.ErrValidation, "booking", "cancel post", "id required", nil)
	}

	req, err := c.newRequest(ctx, http.MethodDelete, "/v1/posts/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return c.do(req, "cancel post", nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build booking request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		req.Header.Set("X-Request-ID", rid)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, operation string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "booking", operation, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return services.Wrap(services.ErrNotFound, "booking", operation, resp.Status, nil)
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		detail := strings.TrimSpace(string(body))
		if detail == "" {
			detail = resp.Status
		}
		return services.Wrap(services.ErrTransient, "booking", operation, detail, nil)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrTransient, "booking", operation, "decode response", err)
	}
	return nil
}
