// Package display maps domain values onto the labels, icons and colors the
// CLI prints. Every lookup has a default entry for values it does not know.
package display

import (
	"fmt"
	"strings"
)

type InsightStyle struct {
	Icon  string
	Label string
}

var insightStyles = map[string]InsightStyle{
	"daily_tip":               {Icon: "Lightbulb", Label: "Daily Tip"},
	"mood_pattern":            {Icon: "TrendingUp", Label: "Mood Pattern"},
	"crisis_support":          {Icon: "AlertTriangle", Label: "Crisis Support"},
	"wellness_recommendation": {Icon: "Heart", Label: "Wellness Recommendation"},
}

var defaultInsightStyle = InsightStyle{Icon: "Sparkles", Label: "Insight"}

func Insight(insightType string) InsightStyle {
	if s, ok := insightStyles[key(insightType)]; ok {
		return s
	}
	return defaultInsightStyle
}

type PriorityStyle struct {
	Color string
	Badge string
}

var priorityStyles = map[string]PriorityStyle{
	"urgent": {Color: "red", Badge: "URGENT"},
	"high":   {Color: "orange", Badge: "HIGH"},
	"normal": {Color: "blue", Badge: "NORMAL"},
	"low":    {Color: "gray", Badge: "LOW"},
}

var defaultPriorityStyle = PriorityStyle{Color: "primary", Badge: "INFO"}

func Priority(priority string) PriorityStyle {
	if s, ok := priorityStyles[key(priority)]; ok {
		return s
	}
	return defaultPriorityStyle
}

type SentimentStyle struct {
	Label string
	Emoji string
	Color string
}

var sentimentStyles = map[string]SentimentStyle{
	"positive": {Label: "Positive", Emoji: "😊", Color: "green"},
	"negative": {Label: "Negative", Emoji: "😔", Color: "red"},
	"neutral":  {Label: "Neutral", Emoji: "😐", Color: "gray"},
}

var defaultSentimentStyle = SentimentStyle{Label: "Unknown", Emoji: "❓", Color: "gray"}

func Sentiment(label string) SentimentStyle {
	if s, ok := sentimentStyles[key(label)]; ok {
		return s
	}
	return defaultSentimentStyle
}

type Tone string

const (
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneCalm     Tone = "calm"
	ToneOther    Tone = "other"
)

var emotionTones = map[string]Tone{
	"happy": TonePositive, "joy": TonePositive, "excited": TonePositive, "love": TonePositive, "grateful": TonePositive,
	"sad": ToneNegative, "angry": ToneNegative, "fear": ToneNegative, "anxious": ToneNegative, "worried": ToneNegative, "stressed": ToneNegative,
	"calm": ToneCalm, "neutral": ToneCalm, "peaceful": ToneCalm, "relaxed": ToneCalm,
}

func EmotionTone(emotion string) Tone {
	if t, ok := emotionTones[key(emotion)]; ok {
		return t
	}
	return ToneOther
}

type MoodStyle struct {
	Level int
	Emoji string
	Label string
}

// Moods is the picker, lowest level first.
var Moods = []MoodStyle{
	{Level: 1, Emoji: "😢", Label: "Very Low"},
	{Level: 2, Emoji: "😕", Label: "Low"},
	{Level: 3, Emoji: "😐", Label: "Neutral"},
	{Level: 4, Emoji: "😊", Label: "Good"},
	{Level: 5, Emoji: "😃", Label: "Excellent"},
}

var defaultMoodStyle = MoodStyle{Emoji: "❔", Label: "Unknown"}

func Mood(level int) MoodStyle {
	for _, m := range Moods {
		if m.Level == level {
			return m
		}
	}
	s := defaultMoodStyle
	s.Level = level
	return s
}

type TrendStyle struct {
	Label string
	Color string
}

var trendStyles = map[string]TrendStyle{
	"improving": {Label: "Improving", Color: "green"},
	"declining": {Label: "Needs Attention", Color: "red"},
	"stable":    {Label: "Stable", Color: "blue"},
}

var defaultTrendStyle = TrendStyle{Label: "Fluctuating", Color: "gray"}

func Trend(trend string) TrendStyle {
	if s, ok := trendStyles[key(trend)]; ok {
		return s
	}
	return defaultTrendStyle
}

var riskColors = map[string]string{
	"high":   "red",
	"medium": "orange",
	"low":    "green",
}

func RiskColor(level string) string {
	if c, ok := riskColors[key(level)]; ok {
		return c
	}
	return "gray"
}

// Percent renders a 0..1 score the way the sentiment view does.
func Percent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

func key(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
