package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/saadjs/serenitree-cli/internal/model"
	"github.com/saadjs/serenitree-cli/internal/normalize"
)

type ProfileInput struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

func (c *Client) Settings(ctx context.Context) (model.UserSettings, error) {
	r, err := c.record(ctx, http.MethodGet, "/user/settings", nil, nil)
	if err != nil {
		return model.UserSettings{}, err
	}
	return normalize.Settings(r), nil
}

func (c *Client) UpdateSettings(ctx context.Context, s model.UserSettings) (model.UserSettings, error) {
	r, err := c.record(ctx, http.MethodPut, "/user/settings", nil, s)
	if err != nil {
		return model.UserSettings{}, err
	}
	if len(r) == 0 {
		return s, nil
	}
	return normalize.Settings(r), nil
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileInput) (model.User, error) {
	if in == (ProfileInput{}) {
		return model.User{}, fmt.Errorf("at least one profile field is required")
	}
	r, err := c.record(ctx, http.MethodPut, "/user/profile", nil, in)
	if err != nil {
		return model.User{}, err
	}
	return normalize.User(r), nil
}

// ExportData returns the server's export document re-indented for writing
// to disk.
func (c *Client) ExportData(ctx context.Context) ([]byte, error) {
	raw, err := c.do(ctx, http.MethodGet, "/user/export-data", nil, nil)
	if err != nil {
		return nil, err
	}
	v, err := normalize.DecodeAny(raw)
	if err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return out, nil
}

// DeleteAccount removes the account server side and then forgets the token.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodDelete, "/user/account", nil, nil); err != nil {
		return err
	}
	return c.Logout(ctx)
}
