package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/companion"
	"github.com/saadjs/serenitree-cli/internal/model"
)

type SentimentAPI interface {
	AnalyzeSentiment(ctx context.Context, text, journalEntryID string) (model.SentimentAnalysis, error)
}

// AnalyzeSentiment asks the server first and falls back to the local
// keyword analyzer when it cannot be reached. The fallback result has
// Local set. An expired session is never masked.
func AnalyzeSentiment(ctx context.Context, a SentimentAPI, logger *slog.Logger, text, journalEntryID string) (model.SentimentAnalysis, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.SentimentAnalysis{}, invalid("text", "Text is required")
	}
	res, err := a.AnalyzeSentiment(ctx, text, journalEntryID)
	if err == nil {
		return res, nil
	}
	if errors.Is(err, api.ErrSessionExpired) {
		return model.SentimentAnalysis{}, err
	}
	if logger != nil {
		logger.Warn("sentiment analysis unavailable, using local analyzer", "err", err)
	}
	return model.SentimentAnalysis{
		Sentiment: companion.Analyze(text),
		Insights:  []model.WellnessInsight{},
		Local:     true,
	}, nil
}
