package service_test

import (
	"context"
	"testing"

	"github.com/saadjs/serenitree-cli/internal/model"
	"github.com/saadjs/serenitree-cli/internal/service"
)

func TestMarkReadTwiceIsIdempotent(t *testing.T) {
	t.Parallel()
	srv, client := newTestClient(t)
	db := newTestDB(t)
	defer db.Close()
	id := srv.AddInsight(model.InsightMoodPattern, model.PriorityHigh, "Mornings look brighter", false)

	board := service.NewInsightBoard(client, db, nil)
	ctx := context.Background()
	if _, err := board.Load(ctx, 10, false); err != nil {
		t.Fatalf("load: %v", err)
	}
	if n := board.UnreadCount(); n != 1 {
		t.Fatalf("expected one unread, got %d", n)
	}
	for i := 0; i < 2; i++ {
		if err := board.MarkRead(ctx, id); err != nil {
			t.Fatalf("mark read %d: %v", i, err)
		}
	}
	if n := srv.Hits("PUT /api/insights/" + id + "/read"); n != 1 {
		t.Fatalf("expected one read request, got %d", n)
	}
	if n := board.UnreadCount(); n != 0 {
		t.Fatalf("expected no unread, got %d", n)
	}

	// A fresh board in a later run still knows the insight is read.
	again := service.NewInsightBoard(client, db, nil)
	if err := again.MarkRead(ctx, id); err != nil {
		t.Fatalf("mark read from new board: %v", err)
	}
	if n := srv.Hits("PUT /api/insights/" + id + "/read"); n != 1 {
		t.Fatalf("expected read state to persist locally, got %d requests", n)
	}
}

func TestDismissedInsightStaysHidden(t *testing.T) {
	t.Parallel()
	srv, client := newTestClient(t)
	db := newTestDB(t)
	defer db.Close()
	keep := srv.AddInsight(model.InsightDailyTip, "", "Drink water", false)
	drop := srv.AddInsight(model.InsightWellnessRecommendation, "", "Three good days", true)

	board := service.NewInsightBoard(client, db, nil)
	ctx := context.Background()
	if _, err := board.Load(ctx, 10, false); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := board.Dismiss(ctx, drop); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if list := board.Insights(); len(list) != 1 || list[0].ID != keep {
		t.Fatalf("expected dismissed insight removed from view, got %+v", list)
	}

	// The fake server keeps returning the dismissed insight.
	list, err := board.Load(ctx, 10, false)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(list) != 1 || list[0].ID != keep {
		t.Fatalf("expected dismissed insight hidden on reload, got %+v", list)
	}
	if err := board.MarkRead(ctx, drop); err != nil {
		t.Fatalf("mark read dismissed: %v", err)
	}
	states, err := service.InsightStates(ctx, db)
	if err != nil {
		t.Fatalf("insight states: %v", err)
	}
	if states[drop] != service.InsightStateDismissed {
		t.Fatalf("expected dismissed to be sticky, got %q", states[drop])
	}
}

func TestForgetDismissedRestoresInsights(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	if err := service.RecordInsightState(ctx, db, "a", service.InsightStateDismissed); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := service.RecordInsightState(ctx, db, "b", service.InsightStateRead); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := service.RecordInsightState(ctx, db, "c", "archived"); err == nil {
		t.Fatalf("expected invalid state to be rejected")
	}
	n, err := service.ForgetDismissed(ctx, db)
	if err != nil {
		t.Fatalf("forget: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one row forgotten, got %d", n)
	}
}

func TestInsightBoardWithoutLocalStore(t *testing.T) {
	t.Parallel()
	srv, client := newTestClient(t)
	readID := srv.AddInsight(model.InsightMoodPattern, model.PriorityHigh, "Evenings are calmer", false)
	dropID := srv.AddInsight(model.InsightDailyTip, "", "Stretch", false)

	board := service.NewInsightBoard(client, nil, nil)
	ctx := context.Background()
	if _, err := board.Load(ctx, 10, false); err != nil {
		t.Fatalf("load: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := board.MarkRead(ctx, readID); err != nil {
			t.Fatalf("mark read %d: %v", i, err)
		}
	}
	if n := srv.Hits("PUT /api/insights/" + readID + "/read"); n != 1 {
		t.Fatalf("expected one read request, got %d", n)
	}
	if err := board.Dismiss(ctx, dropID); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	list, err := board.Load(ctx, 10, false)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	for _, in := range list {
		if in.ID == dropID {
			t.Fatalf("dismissed insight came back: %+v", list)
		}
	}
	if len(list) != 1 || list[0].ID != readID || !list[0].IsRead {
		t.Fatalf("unexpected insights %+v", list)
	}
}
