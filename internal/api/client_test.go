package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/api/apitest"
)

func newClient(t *testing.T, baseURL string, tokens api.TokenStore) *api.Client {
	t.Helper()
	return api.New(api.Config{BaseURL: baseURL, Tokens: tokens})
}

func TestClientSendsBearerTokenAndRequestID(t *testing.T) {
	t.Parallel()

	var gotAuth, gotRequestID, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"user":{"id":"u1","email":"a@b.co"}}`))
	}))
	defer ts.Close()

	client := newClient(t, ts.URL, api.NewMemoryTokens("abc"))
	user, err := client.Profile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("expected user u1, got %q", user.ID)
	}
	if gotAuth != "Bearer abc" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatalf("expected X-Request-ID header")
	}
	if !strings.HasPrefix(gotUA, "serenitree-cli/") {
		t.Fatalf("unexpected user agent %q", gotUA)
	}
}

func TestClientOmitsAuthorizationWithoutToken(t *testing.T) {
	t.Parallel()

	var gotAuth atomic.Value
	gotAuth.Store("unset")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	client := newClient(t, ts.URL, api.NewMemoryTokens(""))
	if _, err := client.Profile(context.Background()); err != nil {
		t.Fatalf("profile: %v", err)
	}
	if got := gotAuth.Load().(string); got != "" {
		t.Fatalf("expected no Authorization header, got %q", got)
	}
}

func TestUnauthorizedClearsTokenAndFiresHook(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	srv.ExpireToken()

	tokens := api.NewMemoryTokens(apitest.Token)
	var fired atomic.Int32
	client := api.New(api.Config{
		BaseURL: srv.BaseURL(),
		Tokens:  tokens,
		OnUnauthorized: func(context.Context, *http.Request) {
			fired.Add(1)
		},
	})

	_, err := client.TodayMood(context.Background())
	if !errors.Is(err, api.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if tok, _ := tokens.Token(context.Background()); tok != "" {
		t.Fatalf("expected token cleared, got %q", tok)
	}
	if fired.Load() != 1 {
		t.Fatalf("expected unauthorized hook once, got %d", fired.Load())
	}
}

func TestLoginFailureKeepsToken(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	tokens := api.NewMemoryTokens("previous")
	var fired atomic.Int32
	client := api.New(api.Config{
		BaseURL:        srv.BaseURL(),
		Tokens:         tokens,
		OnUnauthorized: func(context.Context, *http.Request) { fired.Add(1) },
	})

	_, err := client.Login(context.Background(), "ada@example.com", "wrong")
	if errors.Is(err, api.ErrSessionExpired) {
		t.Fatalf("login failure must not be reported as session expiry")
	}
	var statusErr *api.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 status error, got %v", err)
	}
	if statusErr.Message != "Invalid email or password" {
		t.Fatalf("unexpected message %q", statusErr.Message)
	}
	if tok, _ := tokens.Token(context.Background()); tok != "previous" {
		t.Fatalf("expected token untouched, got %q", tok)
	}
	if fired.Load() != 0 {
		t.Fatalf("hook must not fire on login")
	}
}

func TestLoginStoresToken(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	tokens := api.NewMemoryTokens("")
	client := newClient(t, srv.BaseURL(), tokens)

	session, err := client.Login(context.Background(), "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.User.DisplayName() != "Ada Lovelace" {
		t.Fatalf("unexpected user %+v", session.User)
	}
	if tok, _ := tokens.Token(context.Background()); tok != apitest.Token {
		t.Fatalf("expected stored token, got %q", tok)
	}
	if err := client.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if tok, _ := tokens.Token(context.Background()); tok != "" {
		t.Fatalf("expected token cleared after logout")
	}
}

func TestStatusErrorCarriesServerMessage(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Mood entry not found"}`))
	}))
	defer ts.Close()

	client := newClient(t, ts.URL, nil)
	_, err := client.GetMood(context.Background(), "missing")
	if !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := api.StatusMessage(err); got != "Mood entry not found" {
		t.Fatalf("unexpected status message %q", got)
	}
}

func TestTransportFailureIsNotStatusError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	client := newClient(t, url, nil)
	_, err := client.Profile(context.Background())
	if err == nil {
		t.Fatalf("expected transport error")
	}
	if !api.IsTransport(err) {
		t.Fatalf("expected transport classification, got %v", err)
	}
}
