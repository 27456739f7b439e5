package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionStore keeps the bearer token in the single-row session table. It
// satisfies api.TokenStore.
type SessionStore struct {
	db     *sql.DB
	apiURL string
}

// NewSessionStore scopes the token to apiURL: a token saved for another
// backend reads as absent. An empty apiURL matches any stored session.
func NewSessionStore(db *sql.DB, apiURL string) *SessionStore {
	return &SessionStore{db: db, apiURL: normalizeAPIURL(apiURL)}
}

func normalizeAPIURL(apiURL string) string {
	return strings.TrimRight(strings.TrimSpace(apiURL), "/")
}

func (s *SessionStore) matches(storedURL string) bool {
	return s.apiURL == "" || normalizeAPIURL(storedURL) == s.apiURL
}

func (s *SessionStore) Token(ctx context.Context) (string, error) {
	var token, storedURL string
	err := s.db.QueryRowContext(ctx, `SELECT token, api_url FROM session WHERE id = 1`).Scan(&token, &storedURL)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session token: %w", err)
	}
	if !s.matches(storedURL) {
		return "", nil
	}
	return token, nil
}

func (s *SessionStore) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return s.ClearToken(ctx)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO session(id, token, api_url, saved_at)
VALUES(1, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET token=excluded.token, api_url=excluded.api_url, saved_at=excluded.saved_at
`, token, s.apiURL)
	if err != nil {
		return fmt.Errorf("save session token: %w", err)
	}
	return nil
}

func (s *SessionStore) ClearToken(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}

type SessionInfo struct {
	LoggedIn  bool      `json:"logged_in"`
	APIURL    string    `json:"api_url,omitempty"`
	SavedAt   time.Time `json:"saved_at,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the token carries an exp claim in the past.
func (i SessionInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// Info describes the stored session without exposing the token.
func (s *SessionStore) Info(ctx context.Context) (SessionInfo, error) {
	var info SessionInfo
	var savedAt, token string
	err := s.db.QueryRowContext(ctx, `SELECT token, api_url, saved_at FROM session WHERE id = 1`).Scan(&token, &info.APIURL, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionInfo{}, nil
	}
	if err != nil {
		return SessionInfo{}, fmt.Errorf("read session: %w", err)
	}
	if !s.matches(info.APIURL) {
		return SessionInfo{}, nil
	}
	info.LoggedIn = true
	info.SavedAt = parseSQLiteTime(savedAt)
	info.Subject, info.ExpiresAt = TokenClaims(token)
	return info, nil
}

// TokenClaims reads the subject and expiry of a JWT without verifying its
// signature. The values are for display only; the server stays the judge.
// Opaque tokens yield zero values.
func TokenClaims(token string) (string, time.Time) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", time.Time{}
	}
	var subject string
	if sub, err := claims.GetSubject(); err == nil {
		subject = sub
	}
	if subject == "" {
		if id, ok := claims["user_id"].(string); ok {
			subject = id
		}
	}
	var expires time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expires = exp.Time
	}
	return subject, expires
}

func parseSQLiteTime(v string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
