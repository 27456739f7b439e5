package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/api/apitest"
	"github.com/saadjs/serenitree-cli/internal/model"
)

func newFake(t *testing.T) (*apitest.Server, *api.Client) {
	t.Helper()
	srv := apitest.New(t)
	return srv, newClient(t, srv.BaseURL(), api.NewMemoryTokens(apitest.Token))
}

func TestCreateMoodRejectsOutOfRangeWithoutRequest(t *testing.T) {
	t.Parallel()
	srv, client := newFake(t)

	for _, level := range []int{0, 6, -1} {
		if _, err := client.CreateMood(context.Background(), api.CreateMoodInput{MoodLevel: level, Emoji: "😐"}); err == nil {
			t.Fatalf("expected validation error for level %d", level)
		}
	}
	if _, err := client.CreateMood(context.Background(), api.CreateMoodInput{MoodLevel: 3, Emoji: "  "}); err == nil {
		t.Fatalf("expected validation error for blank emoji")
	}
	if n := srv.TotalHits(); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func TestSaveThenTodayRoundTrip(t *testing.T) {
	t.Parallel()
	_, client := newFake(t)
	ctx := context.Background()

	today, err := client.TodayMood(ctx)
	if err != nil {
		t.Fatalf("today before save: %v", err)
	}
	if today.HasEntry {
		t.Fatalf("expected no entry yet")
	}

	in := api.CreateMoodInput{MoodLevel: 4, Emoji: "😊", Note: "walked", Triggers: []string{"Exercise", "Weather"}}
	created, err := client.CreateMood(ctx, in)
	if err != nil {
		t.Fatalf("create mood: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected id on created entry")
	}

	today, err = client.TodayMood(ctx)
	if err != nil {
		t.Fatalf("today after save: %v", err)
	}
	if !today.HasEntry || today.Entry == nil {
		t.Fatalf("expected today entry")
	}
	if today.Entry.MoodLevel != 4 || today.Entry.Emoji != "😊" {
		t.Fatalf("unexpected entry %+v", today.Entry)
	}
	if !reflect.DeepEqual(today.Entry.Triggers, in.Triggers) {
		t.Fatalf("expected triggers %v, got %v", in.Triggers, today.Entry.Triggers)
	}
}

func TestMoodCRUDAndStats(t *testing.T) {
	t.Parallel()
	_, client := newFake(t)
	ctx := context.Background()

	first, err := client.CreateMood(ctx, api.CreateMoodInput{MoodLevel: 2, Emoji: "😕", Triggers: []string{"Work stress"}})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := client.CreateMood(ctx, api.CreateMoodInput{MoodLevel: 4, Emoji: "😊"}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	level := 3
	updated, err := client.UpdateMood(ctx, first.ID, api.UpdateMoodInput{MoodLevel: &level})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.MoodLevel != 3 {
		t.Fatalf("expected level 3, got %d", updated.MoodLevel)
	}
	if !updated.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("expected updated_at to advance")
	}

	page, err := client.ListMoods(ctx, api.MoodQuery{Limit: 10, Days: 30})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 2 || len(page.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", page)
	}
	for _, e := range page.Entries {
		if e.Triggers == nil {
			t.Fatalf("triggers must never be nil")
		}
	}

	stats, err := client.MoodStats(ctx, 30)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalEntries != 2 || stats.Distribution[3] != 1 || stats.Distribution[4] != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.PeriodDays != 30 {
		t.Fatalf("expected period 30, got %d", stats.PeriodDays)
	}

	if err := client.DeleteMood(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := client.GetMood(ctx, first.ID); !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestJournalListFlattensObjectIDs(t *testing.T) {
	t.Parallel()
	srv, client := newFake(t)
	ctx := context.Background()

	id := srv.AddJournal("Monday", "rough start")
	entries, err := client.ListJournal(ctx)
	if err != nil {
		t.Fatalf("list journal: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != id {
		t.Fatalf("expected flattened id %q, got %+v", id, entries)
	}

	title := "Monday, better"
	updated, err := client.UpdateJournal(ctx, id, api.JournalPatch{Title: &title})
	if err != nil {
		t.Fatalf("update journal: %v", err)
	}
	if updated.Title != title || updated.Content != "rough start" {
		t.Fatalf("unexpected entry %+v", updated)
	}
}

func TestSentimentTrendsWindows(t *testing.T) {
	t.Parallel()
	_, client := newFake(t)
	ctx := context.Background()

	if _, err := client.SentimentTrends(ctx, 14); err == nil {
		t.Fatalf("expected window validation error")
	}
	empty, err := client.SentimentTrends(ctx, 7)
	if err != nil {
		t.Fatalf("trends 7: %v", err)
	}
	if empty.HasData || empty.Message == "" {
		t.Fatalf("expected not-enough-data result, got %+v", empty)
	}
	full, err := client.SentimentTrends(ctx, 30)
	if err != nil {
		t.Fatalf("trends 30: %v", err)
	}
	if !full.HasData || full.Trend != "improving" || full.Distribution["positive"] != 5 {
		t.Fatalf("unexpected trend %+v", full)
	}
}

func TestInsightsEndpoints(t *testing.T) {
	t.Parallel()
	srv, client := newFake(t)
	ctx := context.Background()

	urgent := srv.AddInsight(model.InsightCrisisSupport, model.PriorityUrgent, "Reach out", false)
	srv.AddInsight(model.InsightDailyTip, "", "Drink water", true)

	all, err := client.ListInsights(ctx, 10, false)
	if err != nil {
		t.Fatalf("list insights: %v", err)
	}
	if len(all) != 2 || all[1].Priority != model.PriorityNormal {
		t.Fatalf("unexpected insights %+v", all)
	}
	unread, err := client.ListInsights(ctx, 10, true)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread) != 1 || unread[0].ID != urgent {
		t.Fatalf("unexpected unread %+v", unread)
	}
	list, err := client.UrgentInsights(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("urgent insights: %v %+v", err, list)
	}
	daily, isNew, err := client.DailyInsight(ctx)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if !isNew || daily.Type != model.InsightDailyTip {
		t.Fatalf("unexpected daily %+v new=%v", daily, isNew)
	}
	if err := client.MarkInsightRead(ctx, "nope"); !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInitializePaymentReadsProviderFields(t *testing.T) {
	t.Parallel()
	srv, client := newFake(t)
	ctx := context.Background()

	cases := map[string]struct{ url, tx string }{
		"flutterwave": {"https://pay.example/flw", "flw-1"},
		"paystack":    {"https://pay.example/ps", "ps-1"},
		"stripe":      {"https://pay.example/st", "cs_1"},
		"mpesa":       {"", "ws_CO_1"},
	}
	for provider, want := range cases {
		got, err := client.InitializePayment(ctx, provider, map[string]any{"planId": "monthly"})
		if err != nil {
			t.Fatalf("%s: %v", provider, err)
		}
		if !got.Success || got.RedirectURL != want.url || got.TransactionID != want.tx {
			t.Fatalf("%s: unexpected %+v", provider, got)
		}
	}

	srv.Decline("stripe", "Card declined")
	_, err := client.InitializePayment(ctx, "stripe", map[string]any{})
	if got := api.StatusMessage(err); got != "Card declined" {
		t.Fatalf("expected declined message, got %q (%v)", got, err)
	}

	history, err := client.PaymentHistory(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 4 || history[0].Status != "pending" || history[0].Currency != "USD" {
		t.Fatalf("unexpected history %+v", history)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	t.Parallel()
	_, client := newFake(t)
	ctx := context.Background()

	initial, err := client.Settings(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if !reflect.DeepEqual(initial, model.DefaultUserSettings()) {
		t.Fatalf("expected defaults, got %+v", initial)
	}

	changed := initial
	changed.Notifications.WeeklyReports = true
	changed.Privacy.Analytics = false
	changed.Preferences.Theme = "dark"
	if _, err := client.UpdateSettings(ctx, changed); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	got, err := client.Settings(ctx)
	if err != nil {
		t.Fatalf("settings again: %v", err)
	}
	if !reflect.DeepEqual(got, changed) {
		t.Fatalf("expected %+v, got %+v", changed, got)
	}
}

func TestExportDataIsIndentedJSON(t *testing.T) {
	t.Parallel()
	_, client := newFake(t)

	out, err := client.ExportData(context.Background())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("export is not json: %v", err)
	}
	if _, ok := doc["user"]; !ok {
		t.Fatalf("expected user section, got %v", doc)
	}
}
