package normalize

import (
	"strings"

	"github.com/saadjs/serenitree-cli/internal/model"
)

func User(r Record) model.User {
	if inner := r.Object("user"); inner != nil {
		r = inner
	}
	return model.User{
		ID:        r.ID(),
		Email:     r.String("email"),
		FirstName: r.String("firstName", "first_name"),
		LastName:  r.String("lastName", "last_name"),
		Phone:     r.String("phone"),
		IsPremium: r.Bool("isPremium", "is_premium"),
	}
}

func AuthSession(r Record) model.AuthSession {
	return model.AuthSession{
		Token: r.String("token", "access_token", "accessToken"),
		User:  User(r),
	}
}

// Settings starts from the account defaults so sections missing from the
// response keep their documented values.
func Settings(r Record) model.UserSettings {
	if inner := r.Object("settings"); inner != nil {
		r = inner
	}
	s := model.DefaultUserSettings()
	if n := r.Object("notifications"); n != nil {
		s.Notifications.MoodReminders = boolOr(n, s.Notifications.MoodReminders, "moodReminders", "mood_reminders")
		s.Notifications.JournalReminders = boolOr(n, s.Notifications.JournalReminders, "journalReminders", "journal_reminders")
		s.Notifications.CrisisAlerts = boolOr(n, s.Notifications.CrisisAlerts, "crisisAlerts", "crisis_alerts")
		s.Notifications.WeeklyReports = boolOr(n, s.Notifications.WeeklyReports, "weeklyReports", "weekly_reports")
	}
	if p := r.Object("privacy"); p != nil {
		s.Privacy.DataSharing = boolOr(p, s.Privacy.DataSharing, "dataSharing", "data_sharing")
		s.Privacy.Analytics = boolOr(p, s.Privacy.Analytics, "analytics")
		s.Privacy.CrashReports = boolOr(p, s.Privacy.CrashReports, "crashReports", "crash_reports")
	}
	if p := r.Object("preferences"); p != nil {
		s.Preferences.Theme = stringOr(p, s.Preferences.Theme, "theme")
		s.Preferences.Language = stringOr(p, s.Preferences.Language, "language")
		s.Preferences.Timezone = stringOr(p, s.Preferences.Timezone, "timezone")
	}
	return s
}

func PaymentRecord(r Record) model.PaymentRecord {
	return model.PaymentRecord{
		ID:            r.ID(),
		Amount:        r.Float("amount"),
		Currency:      strings.ToUpper(r.String("currency")),
		Status:        strings.ToLower(r.String("status")),
		PaymentMethod: r.String("paymentMethod", "payment_method", "provider"),
		PlanName:      r.String("planName", "plan_name", "plan"),
		CreatedAt:     r.Time("createdAt", "created_at"),
	}
}

func PaymentRecords(r Record) []model.PaymentRecord {
	items := r.Objects("payments", "history", "items")
	out := make([]model.PaymentRecord, 0, len(items))
	for _, item := range items {
		out = append(out, PaymentRecord(item))
	}
	return out
}

func PaymentVerification(r Record) model.PaymentVerification {
	status := strings.ToLower(r.String("status"))
	if status == "" {
		status = "pending"
	}
	return model.PaymentVerification{
		Success: r.Bool("success"),
		Status:  status,
		Message: r.String("message"),
	}
}

func boolOr(r Record, fallback bool, keys ...string) bool {
	if !r.Has(keys...) {
		return fallback
	}
	return r.Bool(keys...)
}

func stringOr(r Record, fallback string, keys ...string) string {
	if v := r.String(keys...); v != "" {
		return v
	}
	return fallback
}
