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

// TrendWindows are the day windows the trend view offers.
var TrendWindows = []int{7, 30, 90}

func (c *Client) SendChat(ctx context.Context, message, conversationID string) (model.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return model.ChatReply{}, fmt.Errorf("message is required")
	}
	body := map[string]string{"message": message}
	if id := strings.TrimSpace(conversationID); id != "" {
		body["conversation_id"] = id
	}
	r, err := c.record(ctx, http.MethodPost, "/chat/message", nil, body)
	if err != nil {
		return model.ChatReply{}, err
	}
	reply := normalize.ChatReply(r)
	if reply.ConversationID == "" {
		reply.ConversationID = strings.TrimSpace(conversationID)
	}
	return reply, nil
}

func (c *Client) ProactiveCheckIn(ctx context.Context) (model.CheckIn, error) {
	r, err := c.record(ctx, http.MethodGet, "/chat/proactive-check-in", nil, nil)
	if err != nil {
		return model.CheckIn{}, err
	}
	return normalize.CheckIn(r), nil
}

func (c *Client) AnalyzeSentiment(ctx context.Context, text, journalEntryID string) (model.SentimentAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return model.SentimentAnalysis{}, fmt.Errorf("text is required")
	}
	body := map[string]string{"text": text}
	if journalEntryID != "" {
		body["journal_entry_id"] = journalEntryID
	}
	r, err := c.record(ctx, http.MethodPost, "/sentiment/analyze", nil, body)
	if err != nil {
		return model.SentimentAnalysis{}, err
	}
	return normalize.SentimentAnalysis(r), nil
}

func ValidateTrendWindow(days int) error {
	for _, w := range TrendWindows {
		if days == w {
			return nil
		}
	}
	return fmt.Errorf("trend window must be one of 7, 30 or 90 days")
}

func (c *Client) SentimentTrends(ctx context.Context, days int) (model.TrendAnalysis, error) {
	if err := ValidateTrendWindow(days); err != nil {
		return model.TrendAnalysis{}, err
	}
	r, err := c.record(ctx, http.MethodGet, "/sentiment/trends", url.Values{"days": {strconv.Itoa(days)}}, nil)
	if err != nil {
		return model.TrendAnalysis{}, err
	}
	return normalize.Trend(r), nil
}
