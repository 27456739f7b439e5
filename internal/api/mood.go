package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/saadjs/serenitree-cli/internal/model"
	"github.com/saadjs/serenitree-cli/internal/normalize"
)

type CreateMoodInput struct {
	MoodLevel int      `json:"moodLevel"`
	Emoji     string   `json:"emoji"`
	Note      string   `json:"note,omitempty"`
	Triggers  []string `json:"triggers,omitempty"`
}

// UpdateMoodInput sends only the fields that are set.
type UpdateMoodInput struct {
	MoodLevel *int     `json:"moodLevel,omitempty"`
	Emoji     *string  `json:"emoji,omitempty"`
	Note      *string  `json:"note,omitempty"`
	Triggers  []string `json:"triggers,omitempty"`
}

type MoodQuery struct {
	Limit  int
	Offset int
	Days   int
}

func ValidateMoodLevel(level int) error {
	if level < model.MinMoodLevel || level > model.MaxMoodLevel {
		return fmt.Errorf("mood level must be between %d and %d", model.MinMoodLevel, model.MaxMoodLevel)
	}
	return nil
}

func (c *Client) CreateMood(ctx context.Context, in CreateMoodInput) (model.MoodEntry, error) {
	if err := ValidateMoodLevel(in.MoodLevel); err != nil {
		return model.MoodEntry{}, err
	}
	in.Emoji = strings.TrimSpace(in.Emoji)
	if in.Emoji == "" {
		return model.MoodEntry{}, fmt.Errorf("emoji is required")
	}
	in.Note = strings.TrimSpace(in.Note)
	r, err := c.record(ctx, http.MethodPost, "/mood/entries", nil, in)
	if err != nil {
		return model.MoodEntry{}, err
	}
	return normalize.MoodEnvelope(r), nil
}

func (c *Client) ListMoods(ctx context.Context, q MoodQuery) (model.MoodPage, error) {
	params := url.Values{}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Days > 0 {
		params.Set("days", strconv.Itoa(q.Days))
	}
	r, err := c.record(ctx, http.MethodGet, "/mood/entries", params, nil)
	if err != nil {
		return model.MoodPage{}, err
	}
	return normalize.MoodPage(r), nil
}

// RecentMoods is the last ten entries of the past thirty days.
func (c *Client) RecentMoods(ctx context.Context) ([]model.MoodEntry, error) {
	page, err := c.ListMoods(ctx, MoodQuery{Limit: 10, Days: 30})
	if err != nil {
		return nil, err
	}
	return page.Entries, nil
}

func (c *Client) GetMood(ctx context.Context, id string) (model.MoodEntry, error) {
	if strings.TrimSpace(id) == "" {
		return model.MoodEntry{}, fmt.Errorf("mood entry id is required")
	}
	r, err := c.record(ctx, http.MethodGet, "/mood/entries/"+escape(id), nil, nil)
	if err != nil {
		return model.MoodEntry{}, err
	}
	return normalize.MoodEnvelope(r), nil
}

func (c *Client) UpdateMood(ctx context.Context, id string, in UpdateMoodInput) (model.MoodEntry, error) {
	if strings.TrimSpace(id) == "" {
		return model.MoodEntry{}, fmt.Errorf("mood entry id is required")
	}
	if in.MoodLevel != nil {
		if err := ValidateMoodLevel(*in.MoodLevel); err != nil {
			return model.MoodEntry{}, err
		}
	}
	if in.Emoji != nil && strings.TrimSpace(*in.Emoji) == "" {
		return model.MoodEntry{}, fmt.Errorf("emoji cannot be empty")
	}
	r, err := c.record(ctx, http.MethodPut, "/mood/entries/"+escape(id), nil, in)
	if err != nil {
		return model.MoodEntry{}, err
	}
	return normalize.MoodEnvelope(r), nil
}

func (c *Client) DeleteMood(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("mood entry id is required")
	}
	_, err := c.do(ctx, http.MethodDelete, "/mood/entries/"+escape(id), nil, nil)
	return err
}

func (c *Client) TodayMood(ctx context.Context) (model.TodayMood, error) {
	r, err := c.record(ctx, http.MethodGet, "/mood/today", nil, nil)
	if err != nil {
		return model.TodayMood{}, err
	}
	return normalize.TodayMood(r), nil
}

func (c *Client) MoodStats(ctx context.Context, days int) (model.MoodStats, error) {
	if days <= 0 {
		days = 30
	}
	r, err := c.record(ctx, http.MethodGet, "/mood/stats", url.Values{"days": {strconv.Itoa(days)}}, nil)
	if err != nil {
		return model.MoodStats{}, err
	}
	stats := normalize.MoodStats(r)
	if stats.PeriodDays == 0 {
		stats.PeriodDays = days
	}
	return stats, nil
}
