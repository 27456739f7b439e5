// Package api is the SereniTree REST client. Every call goes through one
// AuthTransport and comes back normalized onto internal/model types.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/saadjs/serenitree-cli/internal/normalize"
)

const (
	DefaultBaseURL = "http://localhost:5000/api"
	DefaultTimeout = 15 * time.Second
	userAgent      = "serenitree-cli/1.0 (+https://github.com/saadjs/serenitree-cli)"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenStore
	// HTTPClient supplies the underlying transport (tests pass ts.Client()).
	HTTPClient     *http.Client
	Logger         *slog.Logger
	OnUnauthorized func(ctx context.Context, req *http.Request)
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	logger  *slog.Logger
}

func New(cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	var inner http.RoundTripper
	if cfg.HTTPClient != nil {
		inner = cfg.HTTPClient.Transport
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: base,
		tokens:  cfg.Tokens,
		logger:  logger,
		http: &http.Client{
			Timeout: timeout,
			Transport: &AuthTransport{
				Base:           inner,
				Tokens:         cfg.Tokens,
				UserAgent:      userAgent,
				Logger:         logger,
				OnUnauthorized: cfg.OnUnauthorized,
			},
		},
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// do performs one round trip. The body, if any, is JSON encoded. A 401 on
// an authenticated path comes back as ErrSessionExpired; every other
// non-2xx as *StatusError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s %s payload: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("create %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute %s %s request: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}
	if resp.StatusCode == http.StatusUnauthorized && !isUnauthenticatedPath(path) {
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrSessionExpired)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw),
			Body:       raw,
		}
	}
	return raw, nil
}

func (c *Client) record(ctx context.Context, method, path string, query url.Values, body any) (normalize.Record, error) {
	raw, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return normalize.Record{}, nil
	}
	r, err := normalize.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if shape := normalize.DetectShape(r); shape == normalize.ShapeMixed {
		c.logger.Debug("mixed field naming in response", "path", path)
	}
	return r, nil
}

func errorMessage(raw []byte) string {
	r, err := normalize.Decode(raw)
	if err != nil {
		return ""
	}
	return r.String("message", "error", "detail")
}

func escape(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}
