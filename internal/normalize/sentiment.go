package normalize

import (
	"strings"

	"github.com/saadjs/serenitree-cli/internal/model"
)

func Sentiment(r Record) model.SentimentResult {
	if inner := r.Object("sentiment"); inner != nil {
		r = inner
	}
	label := strings.ToLower(r.String("sentiment_label", "sentimentLabel", "label"))
	if label == "" {
		label = model.SentimentNeutral
	}
	scores := model.SentimentScores{}
	if s := r.Object("sentiment_scores", "sentimentScores", "scores"); s != nil {
		scores = model.SentimentScores{
			Positive: clampUnit(s.Float("positive")),
			Neutral:  clampUnit(s.Float("neutral")),
			Negative: clampUnit(s.Float("negative")),
		}
	}
	return model.SentimentResult{
		Label:            label,
		Scores:           scores,
		CrisisFlag:       r.Bool("crisis_flag", "crisisFlag"),
		CrisisKeywords:   r.Strings("crisis_keywords", "crisisKeywords"),
		DetectedEmotions: r.Strings("detected_emotions", "detectedEmotions"),
		CreatedAt:        r.Time("created_at", "createdAt"),
	}
}

func SentimentAnalysis(r Record) model.SentimentAnalysis {
	insights := make([]model.WellnessInsight, 0)
	for _, item := range r.Objects("insights") {
		insights = append(insights, Insight(item))
	}
	return model.SentimentAnalysis{Sentiment: Sentiment(r), Insights: insights}
}

// Trend normalizes /sentiment/trends. A response without trend_analysis
// ("not enough data") yields HasData=false with the server message.
func Trend(r Record) model.TrendAnalysis {
	analysis := r.Object("trend_analysis", "trendAnalysis")
	if analysis == nil {
		return model.TrendAnalysis{
			HasData:      false,
			Message:      r.String("message"),
			Distribution: map[string]int{},
		}
	}
	out := model.TrendAnalysis{
		HasData:             true,
		Message:             r.String("message"),
		Trend:               strings.ToLower(analysis.String("trend")),
		RiskLevel:           strings.ToLower(analysis.String("risk_level", "riskLevel")),
		AverageScore:        analysis.Float("average_score", "averageScore"),
		ConsecutiveNegative: analysis.Int("consecutive_negative", "consecutiveNegative"),
		Distribution:        map[string]int{},
	}
	if dist := r.Object("sentiment_distribution", "sentimentDistribution"); dist != nil {
		for k := range dist {
			out.Distribution[strings.ToLower(k)] = dist.Int(k)
		}
	}
	if p := r.Object("pattern_insight", "patternInsight"); p != nil {
		insight := Insight(p)
		out.PatternInsight = &insight
	}
	return out
}

func ChatReply(r Record) model.ChatReply {
	return model.ChatReply{
		ConversationID:           idField(r, "conversation_id", "conversationId"),
		ChatID:                   idField(r, "chat_id", "chatId"),
		Response:                 r.String("ai_response", "aiResponse", "response"),
		Sentiment:                strings.ToLower(r.String("sentiment")),
		Source:                   r.String("source"),
		RequiresProfessionalHelp: r.Bool("requires_professional_help", "requiresProfessionalHelp"),
	}
}

func CheckIn(r Record) model.CheckIn {
	return model.CheckIn{Message: r.String("message", "check_in", "checkIn")}
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
