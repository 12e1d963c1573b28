package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vikasavnish/carecoord/internal/entity"
	"github.com/vikasavnish/carecoord/internal/logging"
)

// HTTPClient implements Client over the REST API.
type HTTPClient struct {
	baseURL string
	routes  Routes
	http    *http.Client
	token   func() string
	logger  *slog.Logger
}

type Option func(*HTTPClient)

// WithToken sends a fixed bearer token.
func WithToken(token string) Option {
	return func(c *HTTPClient) {
		c.token = func() string { return token }
	}
}

// WithTokenSource asks source for the bearer token before every call, so a
// session can be refreshed without rebuilding clients.
func WithTokenSource(source func() string) Option {
	return func(c *HTTPClient) {
		c.token = source
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *HTTPClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewHTTPClient returns a client for the collection described by routes.
// The default transport is http.DefaultClient, which has no timeout.
func NewHTTPClient(baseURL string, routes Routes, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		routes:  routes,
		http:    http.DefaultClient,
		token:   func() string { return "" },
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) List(ctx context.Context, owner string) (json.RawMessage, error) {
	if c.routes.List == "" {
		return nil, fmt.Errorf("list: %w", ErrUnsupported)
	}
	return c.do(ctx, http.MethodGet, expand(c.routes.List, owner, ""), nil)
}

func (c *HTTPClient) Create(ctx context.Context, owner string, fields map[string]any) (json.RawMessage, error) {
	if c.routes.Create == "" {
		return nil, fmt.Errorf("create: %w", ErrUnsupported)
	}
	return c.do(ctx, http.MethodPost, expand(c.routes.Create, owner, ""), fields)
}

func (c *HTTPClient) Update(ctx context.Context, owner string, id entity.ID, fields map[string]any) (json.RawMessage, error) {
	if c.routes.Update == "" {
		return nil, fmt.Errorf("update: %w", ErrUnsupported)
	}
	return c.do(ctx, http.MethodPut, expand(c.routes.Update, owner, id), fields)
}

func (c *HTTPClient) Remove(ctx context.Context, owner string, id entity.ID) error {
	if c.routes.Delete == "" {
		return fmt.Errorf("delete: %w", ErrUnsupported)
	}
	_, err := c.do(ctx, http.MethodDelete, expand(c.routes.Delete, owner, id), nil)
	return err
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s %s: %w", ErrTransport, method, path, err)
	}
	c.logger.Debug("request done", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newStatusError(resp.StatusCode, data)
	}
	return json.RawMessage(data), nil
}
