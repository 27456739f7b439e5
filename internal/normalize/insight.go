package normalize

import (
	"strings"

	"github.com/saadjs/serenitree-cli/internal/model"
)

func Insight(r Record) model.WellnessInsight {
	return model.WellnessInsight{
		ID:                 r.ID(),
		Type:               strings.ToLower(r.String("insight_type", "insightType", "type")),
		Priority:           priority(r.String("priority")),
		Text:               r.String("insight_text", "insightText", "text"),
		IsRead:             r.Bool("is_read", "isRead"),
		Recommendation:     r.String("recommendation"),
		ActivitySuggestion: r.String("activity_suggestion", "activitySuggestion"),
		BasedOnSentiment:   r.String("based_on_sentiment", "basedOnSentiment"),
		BasedOnPattern:     r.String("based_on_pattern", "basedOnPattern"),
		CreatedAt:          r.Time("created_at", "createdAt"),
	}
}

// Insights reads any of the list envelopes the insight endpoints use.
func Insights(r Record) []model.WellnessInsight {
	items := r.Objects("insights", "urgent_insights", "urgentInsights", "items")
	out := make([]model.WellnessInsight, 0, len(items))
	for _, item := range items {
		out = append(out, Insight(item))
	}
	return out
}

func priority(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" {
		return model.PriorityNormal
	}
	return p
}
