package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TokenStore is where the bearer token lives between invocations.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// MemoryTokens is a TokenStore for tests and one-shot clients.
type MemoryTokens struct {
	mu    sync.Mutex
	value string
}

func NewMemoryTokens(token string) *MemoryTokens {
	return &MemoryTokens{value: token}
}

func (m *MemoryTokens) Token(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, nil
}

func (m *MemoryTokens) SetToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = token
	return nil
}

func (m *MemoryTokens) ClearToken(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = ""
	return nil
}

// AuthTransport attaches the stored bearer token to every request and
// performs the implicit logout on 401. It is built once by New and lives for
// the lifetime of the Client.
type AuthTransport struct {
	Base           http.RoundTripper
	Tokens         TokenStore
	UserAgent      string
	Logger         *slog.Logger
	OnUnauthorized func(ctx context.Context, req *http.Request)
}

var unauthenticatedPaths = []string{"/auth/login", "/auth/register"}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	out := req.Clone(ctx)
	if t.Tokens != nil {
		token, err := t.Tokens.Token(ctx)
		if err != nil {
			t.logger().Warn("read stored token", "err", err)
		} else if token != "" {
			out.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if out.Header.Get("X-Request-ID") == "" {
		out.Header.Set("X-Request-ID", uuid.NewString())
	}
	if t.UserAgent != "" {
		out.Header.Set("User-Agent", t.UserAgent)
	}

	start := time.Now()
	resp, err := t.base().RoundTrip(out)
	if err != nil {
		t.logger().Debug("request failed", "method", out.Method, "path", out.URL.Path, "err", err)
		return nil, err
	}
	t.logger().Debug("request",
		"method", out.Method,
		"path", out.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start).Round(time.Millisecond),
		"request_id", out.Header.Get("X-Request-ID"),
	)

	if resp.StatusCode == http.StatusUnauthorized && !isUnauthenticatedPath(out.URL.Path) {
		if t.Tokens != nil {
			if err := t.Tokens.ClearToken(ctx); err != nil {
				t.logger().Warn("clear stored token", "err", err)
			}
		}
		if t.OnUnauthorized != nil {
			t.OnUnauthorized(ctx, out)
		}
	}
	return resp, nil
}

func (t *AuthTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *AuthTransport) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}

func isUnauthenticatedPath(path string) bool {
	for _, p := range unauthenticatedPaths {
		if strings.HasSuffix(strings.TrimRight(path, "/"), p) {
			return true
		}
	}
	return false
}
