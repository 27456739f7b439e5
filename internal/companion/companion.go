// Package companion is the offline stand-in for the remote chat and
// sentiment services. It matches fixed keyword tables against lower-cased
// text; crisis terms are always checked first.
package companion

import (
	"strings"
	"time"

	"github.com/saadjs/serenitree-cli/internal/model"
)

type Category string

const (
	CategoryCrisis     Category = "crisis"
	CategoryAnxiety    Category = "anxiety"
	CategoryDepression Category = "depression"
	CategoryPositive   Category = "positive"
	CategorySupport    Category = "support"
	CategoryGeneric    Category = "generic"
)

const Greeting = "Hi! I'm Sereni, your mental wellness companion. How can I support you today?"

var crisisKeywords = []string{
	"suicide", "suicidal", "kill myself", "end it all", "want to die",
	"better off dead", "no reason to live", "self harm", "hurt myself",
	"overdose", "hopeless", "can't go on", "cut myself", "give up",
}

var anxietyKeywords = []string{
	"anxious", "anxiety", "worried", "worry", "stress", "panic",
	"nervous", "scared", "fear", "overwhelmed",
}

var depressionKeywords = []string{
	"sad", "depressed", "depression", "lonely", "isolated", "worthless",
	"helpless", "desperate", "empty", "crying",
}

var positiveKeywords = []string{
	"happy", "great", "grateful", "excited", "joy", "wonderful",
	"proud", "better", "calm", "relaxed",
}

var supportKeywords = []string{"help", "advice"}

var responses = map[Category]string{
	CategoryCrisis: "I'm really concerned about what you're sharing. You're not alone, and people want to help right now. " +
		"Please call or text 988 (Suicide & Crisis Lifeline) or text HOME to 741741. " +
		"If you are in immediate danger, call your local emergency number.",
	CategoryAnxiety: "It sounds like you're feeling anxious. Try taking a few slow, deep breaths. " +
		"What specifically is worrying you right now?",
	CategoryDepression: "I'm here for you. It's okay to feel sad sometimes, and your feelings are valid. " +
		"Would you like to talk about what's making you feel this way?",
	CategoryPositive: "That's wonderful! I'm so glad you're feeling good. What's bringing you joy today?",
	CategorySupport: "I'm here to support you. Journaling can help process emotions, tracking your mood shows patterns, " +
		"and self-care is important. How can I help you today?",
	CategoryGeneric: "Thank you for sharing that with me. I'm here to listen and support you on your wellness journey. " +
		"How are you feeling today?",
}

type Reply struct {
	Text     string
	Category Category
	Crisis   bool
}

// Respond picks a canned reply. Order: crisis, anxiety, depression,
// positive, support, generic.
func Respond(message string) Reply {
	c := Classify(message)
	return Reply{Text: responses[c], Category: c, Crisis: c == CategoryCrisis}
}

func Classify(message string) Category {
	text := strings.ToLower(message)
	switch {
	case len(matches(text, crisisKeywords)) > 0:
		return CategoryCrisis
	case len(matches(text, anxietyKeywords)) > 0:
		return CategoryAnxiety
	case len(matches(text, depressionKeywords)) > 0:
		return CategoryDepression
	case len(matches(text, positiveKeywords)) > 0:
		return CategoryPositive
	case len(matches(text, supportKeywords)) > 0:
		return CategorySupport
	default:
		return CategoryGeneric
	}
}

// DetectCrisis returns the crisis keywords found in text.
func DetectCrisis(text string) (bool, []string) {
	found := matches(strings.ToLower(text), crisisKeywords)
	return len(found) > 0, found
}

// Analyze is a keyword sentiment estimate for when the remote analyzer is
// unreachable. Any crisis keyword forces a negative label.
func Analyze(text string) model.SentimentResult {
	lower := strings.ToLower(text)
	crisis, crisisFound := DetectCrisis(lower)
	negative := append(matches(lower, anxietyKeywords), matches(lower, depressionKeywords)...)
	positive := matches(lower, positiveKeywords)

	neg := float64(len(negative) + len(crisisFound))
	pos := float64(len(positive))
	total := neg + pos + 1
	scores := model.SentimentScores{
		Positive: pos / total,
		Neutral:  1 / total,
		Negative: neg / total,
	}

	label := model.SentimentNeutral
	switch {
	case crisis || scores.Negative > scores.Positive && scores.Negative > scores.Neutral:
		label = model.SentimentNegative
	case scores.Positive > scores.Negative && scores.Positive > scores.Neutral:
		label = model.SentimentPositive
	}

	emotions := append(append([]string{}, negative...), positive...)
	return model.SentimentResult{
		Label:            label,
		Scores:           scores,
		CrisisFlag:       crisis,
		CrisisKeywords:   crisisFound,
		DetectedEmotions: emotions,
		CreatedAt:        time.Now().UTC(),
	}
}

// SupportiveMessage is the check-in text for a sentiment trend.
func SupportiveMessage(riskLevel, trend string) string {
	switch {
	case riskLevel == "high":
		return "I've noticed you've been having some challenging days lately. I'm here for you, and your well-being matters. " +
			"Please consider reaching out to someone you trust or a mental health professional."
	case riskLevel == "medium":
		return "I've noticed things might be a bit tough for you right now. It's okay to have difficult days. " +
			"I'm here if you need someone to talk to."
	case trend == "improving":
		return "I've noticed some positive changes in your recent entries! Keep up the great work."
	default:
		return "How are you feeling today? Whether you want to chat, journal, or try a calming exercise, I'm here to help."
	}
}

func matches(text string, keywords []string) []string {
	found := make([]string, 0)
	for _, k := range keywords {
		if strings.Contains(text, k) {
			found = append(found, k)
		}
	}
	return found
}
