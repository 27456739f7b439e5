package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/saadjs/serenitree-cli/internal/model"
	"github.com/saadjs/serenitree-cli/internal/normalize"
)

type JournalInput struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsPrivate bool   `json:"isPrivate"`
}

type JournalPatch struct {
	Title     *string `json:"title,omitempty"`
	Content   *string `json:"content,omitempty"`
	IsPrivate *bool   `json:"isPrivate,omitempty"`
}

func (c *Client) ListJournal(ctx context.Context) ([]model.JournalEntry, error) {
	raw, err := c.do(ctx, http.MethodGet, "/journal/entries", nil, nil)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return []model.JournalEntry{}, nil
	}
	v, err := normalize.DecodeAny(raw)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	return normalize.JournalList(v), nil
}

func (c *Client) CreateJournal(ctx context.Context, in JournalInput) (model.JournalEntry, error) {
	r, err := c.record(ctx, http.MethodPost, "/journal/entries", nil, in)
	if err != nil {
		return model.JournalEntry{}, err
	}
	return normalize.Journal(r), nil
}

func (c *Client) GetJournal(ctx context.Context, id string) (model.JournalEntry, error) {
	if strings.TrimSpace(id) == "" {
		return model.JournalEntry{}, fmt.Errorf("journal entry id is required")
	}
	r, err := c.record(ctx, http.MethodGet, "/journal/entries/"+escape(id), nil, nil)
	if err != nil {
		return model.JournalEntry{}, err
	}
	return normalize.Journal(r), nil
}

func (c *Client) UpdateJournal(ctx context.Context, id string, patch JournalPatch) (model.JournalEntry, error) {
	if strings.TrimSpace(id) == "" {
		return model.JournalEntry{}, fmt.Errorf("journal entry id is required")
	}
	r, err := c.record(ctx, http.MethodPut, "/journal/entries/"+escape(id), nil, patch)
	if err != nil {
		return model.JournalEntry{}, err
	}
	return normalize.Journal(r), nil
}

func (c *Client) DeleteJournal(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("journal entry id is required")
	}
	_, err := c.do(ctx, http.MethodDelete, "/journal/entries/"+escape(id), nil, nil)
	return err
}
