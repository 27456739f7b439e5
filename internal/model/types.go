package model

import "time"

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	IsPremium bool   `json:"is_premium"`
}

func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

type AuthSession struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

const (
	MinMoodLevel = 1
	MaxMoodLevel = 5
)

type MoodEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MoodLevel int       `json:"mood_level"`
	Emoji     string    `json:"emoji"`
	Note      string    `json:"note"`
	Triggers  []string  `json:"triggers"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MoodPage struct {
	Entries []MoodEntry `json:"entries"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
}

// TodayMood distinguishes "no entry yet today" from an entry being present.
type TodayMood struct {
	HasEntry bool       `json:"has_entry"`
	Entry    *MoodEntry `json:"entry,omitempty"`
}

type TriggerCount struct {
	Trigger string `json:"trigger"`
	Count   int    `json:"count"`
}

type MoodStats struct {
	TotalEntries   int            `json:"total_entries"`
	AverageMood    float64        `json:"average_mood"`
	Distribution   map[int]int    `json:"distribution"`
	CommonTriggers []TriggerCount `json:"common_triggers"`
	PeriodDays     int            `json:"period_days"`
}

type JournalEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	IsPrivate  bool      `json:"is_private"`
	Mood       string    `json:"mood"`
	Sentiment  string    `json:"sentiment"`
	Tags       []string  `json:"tags"`
	AIInsights []string  `json:"ai_insights"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

const (
	InsightDailyTip               = "daily_tip"
	InsightMoodPattern            = "mood_pattern"
	InsightCrisisSupport          = "crisis_support"
	InsightWellnessRecommendation = "wellness_recommendation"

	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityNormal = "normal"
	PriorityLow    = "low"
)

type WellnessInsight struct {
	ID                 string    `json:"id"`
	Type               string    `json:"insight_type"`
	Priority           string    `json:"priority"`
	Text               string    `json:"insight_text"`
	IsRead             bool      `json:"is_read"`
	Recommendation     string    `json:"recommendation"`
	ActivitySuggestion string    `json:"activity_suggestion"`
	BasedOnSentiment   string    `json:"based_on_sentiment"`
	BasedOnPattern     string    `json:"based_on_pattern"`
	CreatedAt          time.Time `json:"created_at"`
}

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

type SentimentScores struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

func (s SentimentScores) Sum() float64 {
	return s.Positive + s.Neutral + s.Negative
}

type SentimentResult struct {
	Label            string          `json:"sentiment_label"`
	Scores           SentimentScores `json:"sentiment_scores"`
	CrisisFlag       bool            `json:"crisis_flag"`
	CrisisKeywords   []string        `json:"crisis_keywords"`
	DetectedEmotions []string        `json:"detected_emotions"`
	CreatedAt        time.Time       `json:"created_at"`
}

type SentimentAnalysis struct {
	Sentiment SentimentResult   `json:"sentiment"`
	Insights  []WellnessInsight `json:"insights"`
	Local     bool              `json:"local"`
}

type TrendAnalysis struct {
	HasData             bool             `json:"has_data"`
	Message             string           `json:"message"`
	Trend               string           `json:"trend"`
	RiskLevel           string           `json:"risk_level"`
	AverageScore        float64          `json:"average_score"`
	ConsecutiveNegative int              `json:"consecutive_negative"`
	Distribution        map[string]int   `json:"distribution"`
	PatternInsight      *WellnessInsight `json:"pattern_insight,omitempty"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	Timestamp time.Time `json:"timestamp"`
	Sentiment string    `json:"sentiment,omitempty"`
}

type ChatReply struct {
	ConversationID           string `json:"conversation_id"`
	ChatID                   string `json:"chat_id"`
	Response                 string `json:"ai_response"`
	Sentiment                string `json:"sentiment"`
	Source                   string `json:"source"`
	RequiresProfessionalHelp bool   `json:"requires_professional_help"`
}

type CheckIn struct {
	Message string `json:"message"`
}

type PaymentPlan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Period      string   `json:"period"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	PriceAmount float64  `json:"price_amount"`
	Currency    string   `json:"currency"`
}

type PaymentMethod struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Supported   []string `json:"supported"`
	Countries   []string `json:"countries"`
	CardBased   bool     `json:"card_based"`
}

type PaymentResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id,omitempty"`
	RedirectURL   string `json:"redirect_url,omitempty"`
	Message       string `json:"message"`
}

type PaymentVerification struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type PaymentRecord struct {
	ID            string    `json:"id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	PlanName      string    `json:"plan_name"`
	CreatedAt     time.Time `json:"created_at"`
}

type NotificationSettings struct {
	MoodReminders    bool `json:"moodReminders"`
	JournalReminders bool `json:"journalReminders"`
	CrisisAlerts     bool `json:"crisisAlerts"`
	WeeklyReports    bool `json:"weeklyReports"`
}

type PrivacySettings struct {
	DataSharing  bool `json:"dataSharing"`
	Analytics    bool `json:"analytics"`
	CrashReports bool `json:"crashReports"`
}

type Preferences struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
	Timezone string `json:"timezone"`
}

type UserSettings struct {
	Notifications NotificationSettings `json:"notifications"`
	Privacy       PrivacySettings      `json:"privacy"`
	Preferences   Preferences          `json:"preferences"`
}

// DefaultUserSettings mirrors the backend's defaults for a fresh account.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		Notifications: NotificationSettings{MoodReminders: true, JournalReminders: true, CrisisAlerts: true},
		Privacy:       PrivacySettings{Analytics: true, CrashReports: true},
		Preferences:   Preferences{Theme: "system", Language: "en", Timezone: "UTC"},
	}
}

type CrisisResource struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Contact      string `json:"contact"`
	Description  string `json:"description"`
	Availability string `json:"availability"`
	Kind         string `json:"kind"`
	Urgent       bool   `json:"urgent"`
}

type CopingStrategy struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
