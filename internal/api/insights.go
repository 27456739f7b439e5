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

func (c *Client) ListInsights(ctx context.Context, limit int, unreadOnly bool) ([]model.WellnessInsight, error) {
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{
		"limit":       {strconv.Itoa(limit)},
		"unread_only": {strconv.FormatBool(unreadOnly)},
	}
	r, err := c.record(ctx, http.MethodGet, "/insights", params, nil)
	if err != nil {
		return nil, err
	}
	return normalize.Insights(r), nil
}

func (c *Client) UrgentInsights(ctx context.Context) ([]model.WellnessInsight, error) {
	r, err := c.record(ctx, http.MethodGet, "/insights/urgent", nil, nil)
	if err != nil {
		return nil, err
	}
	return normalize.Insights(r), nil
}

// DailyInsight returns today's tip; isNew reports whether the server just
// generated it.
func (c *Client) DailyInsight(ctx context.Context) (insight model.WellnessInsight, isNew bool, err error) {
	r, err := c.record(ctx, http.MethodGet, "/insights/daily", nil, nil)
	if err != nil {
		return model.WellnessInsight{}, false, err
	}
	inner := r.Object("insight")
	if inner == nil {
		return model.WellnessInsight{}, false, fmt.Errorf("daily insight: %w", ErrNotFound)
	}
	return normalize.Insight(inner), r.Bool("is_new", "isNew"), nil
}

func (c *Client) MarkInsightRead(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("insight id is required")
	}
	_, err := c.do(ctx, http.MethodPut, "/insights/"+escape(id)+"/read", nil, nil)
	return err
}

func (c *Client) DismissInsight(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("insight id is required")
	}
	_, err := c.do(ctx, http.MethodPut, "/insights/"+escape(id)+"/dismiss", nil, nil)
	return err
}
