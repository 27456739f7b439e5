package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/model"
	"github.com/saadjs/serenitree-cli/internal/service"
)

func TestTodaySummaryCombinesSections(t *testing.T) {
	t.Parallel()
	srv, client := newTestClient(t)
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	read := srv.AddInsight(model.InsightDailyTip, "", "one", false)
	srv.AddInsight(model.InsightMoodPattern, "", "two", false)
	if err := service.RecordInsightState(ctx, db, read, service.InsightStateRead); err != nil {
		t.Fatalf("record read: %v", err)
	}
	if _, err := client.CreateMood(ctx, api.CreateMoodInput{MoodLevel: 4, Emoji: "😊"}); err != nil {
		t.Fatalf("create mood: %v", err)
	}

	status, err := service.TodaySummary(ctx, client, db, time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC), 7)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if status.Date != "2026-05-04" || !status.HasMood || status.Mood == nil || status.Mood.MoodLevel != 4 {
		t.Fatalf("unexpected mood section %+v", status)
	}
	if status.Stats == nil || status.Stats.TotalEntries != 1 {
		t.Fatalf("unexpected stats %+v", status.Stats)
	}
	if status.DailyInsight == nil || !status.DailyInsightNew {
		t.Fatalf("expected daily insight")
	}
	if status.UnreadInsights != 1 {
		t.Fatalf("expected 1 unread insight, got %d", status.UnreadInsights)
	}
	if len(status.Errors) != 0 {
		t.Fatalf("expected no section errors, got %v", status.Errors)
	}
}

type flakyDashboard struct{}

func (flakyDashboard) TodayMood(context.Context) (model.TodayMood, error) {
	return model.TodayMood{}, nil
}

func (flakyDashboard) MoodStats(context.Context, int) (model.MoodStats, error) {
	return model.MoodStats{}, errors.New("stats down")
}

func (flakyDashboard) DailyInsight(context.Context) (model.WellnessInsight, bool, error) {
	return model.WellnessInsight{}, false, api.ErrNotFound
}

func (flakyDashboard) ListInsights(context.Context, int, bool) ([]model.WellnessInsight, error) {
	return nil, errors.New("insights down")
}

func TestTodaySummarySectionsFailIndependently(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	status, err := service.TodaySummary(context.Background(), flakyDashboard{}, db, time.Now(), 30)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if status.Errors["stats"] == "" || status.Errors["insights"] == "" {
		t.Fatalf("expected stats and insights errors, got %v", status.Errors)
	}
	if _, ok := status.Errors["daily_insight"]; ok {
		t.Fatalf("missing daily insight is not an error")
	}
	if _, ok := status.Errors["mood"]; ok {
		t.Fatalf("no mood today is not an error")
	}
}
