package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/saadjs/serenitree-cli/internal/model"
	"github.com/saadjs/serenitree-cli/internal/normalize"
)

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
}

// Login exchanges credentials for a token and persists it in the client's
// TokenStore.
func (c *Client) Login(ctx context.Context, email, password string) (model.AuthSession, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.AuthSession{}, fmt.Errorf("email and password are required")
	}
	r, err := c.record(ctx, http.MethodPost, "/auth/login", nil, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return model.AuthSession{}, err
	}
	session := normalize.AuthSession(r)
	if session.Token == "" {
		return model.AuthSession{}, fmt.Errorf("login response did not include a token")
	}
	if c.tokens != nil {
		if err := c.tokens.SetToken(ctx, session.Token); err != nil {
			return model.AuthSession{}, fmt.Errorf("persist token: %w", err)
		}
	}
	return session, nil
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	r, err := c.record(ctx, http.MethodPost, "/auth/register", nil, in)
	if err != nil {
		return model.User{}, err
	}
	return normalize.User(r), nil
}

// Profile doubles as the check-auth call: a valid token yields the user.
func (c *Client) Profile(ctx context.Context) (model.User, error) {
	r, err := c.record(ctx, http.MethodGet, "/auth/profile", nil, nil)
	if err != nil {
		return model.User{}, err
	}
	return normalize.User(r), nil
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	if current == "" || next == "" {
		return fmt.Errorf("current and new password are required")
	}
	_, err := c.do(ctx, http.MethodPut, "/auth/change-password", nil, map[string]string{
		"currentPassword": current,
		"newPassword":     next,
	})
	return err
}

// Logout is local only: the backend keeps no server-side session.
func (c *Client) Logout(ctx context.Context) error {
	if c.tokens == nil {
		return nil
	}
	if err := c.tokens.ClearToken(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
