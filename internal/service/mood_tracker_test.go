package service_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/model"
	"github.com/saadjs/serenitree-cli/internal/service"
)

func TestMoodTrackerRejectsInvalidLevelWithoutRequest(t *testing.T) {
	t.Parallel()
	srv, client := newTestClient(t)
	tracker := service.NewMoodTracker(client)

	_, err := tracker.Save(context.Background(), service.MoodInput{Level: 9})
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.Fields["mood_level"]; !ok {
		t.Fatalf("expected mood_level field error, got %v", verr.Fields)
	}
	if n := srv.TotalHits(); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func TestMoodTrackerSecondSaveWhileSavingIssuesOneRequest(t *testing.T) {
	t.Parallel()
	srv, client := newTestClient(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	srv.BeforeMoodCreate = func() {
		entered <- struct{}{}
		<-release
	}
	tracker := service.NewMoodTracker(client)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := tracker.Save(ctx, service.MoodInput{Level: 4})
		done <- err
	}()
	<-entered

	if snap := tracker.Snapshot(); snap.SaveState != service.SaveSaving {
		t.Fatalf("expected saving state, got %s", snap.SaveState)
	}
	if _, err := tracker.Save(ctx, service.MoodInput{Level: 2}); !errors.Is(err, service.ErrSaveInProgress) {
		t.Fatalf("expected ErrSaveInProgress, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first save: %v", err)
	}
	if n := srv.Hits("POST /api/mood/entries"); n != 1 {
		t.Fatalf("expected exactly one create request, got %d", n)
	}
}

func TestMoodTrackerSaveUpdatesTodayAndRecent(t *testing.T) {
	t.Parallel()
	_, client := newTestClient(t)
	tracker := service.NewMoodTracker(client)
	ctx := context.Background()

	if err := tracker.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap := tracker.Snapshot(); snap.State != service.StateEmpty || snap.Today.HasEntry {
		t.Fatalf("expected empty view, got %+v", snap)
	}

	created, err := tracker.Save(ctx, service.MoodInput{
		Level:    3,
		Note:     "  long day ",
		Triggers: []string{"Work stress", "Other", "work stress"},
		Custom:   "Commute",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if created.Emoji != "😐" {
		t.Fatalf("expected default emoji for level 3, got %q", created.Emoji)
	}
	if want := []string{"Work stress", "Commute"}; !reflect.DeepEqual(created.Triggers, want) {
		t.Fatalf("expected triggers %v, got %v", want, created.Triggers)
	}

	snap := tracker.Snapshot()
	if snap.State != service.StatePopulated || len(snap.Recent) != 1 {
		t.Fatalf("expected one recent entry, got %+v", snap)
	}
	if !snap.Today.HasEntry || snap.Today.Entry.ID != created.ID {
		t.Fatalf("expected today to be the saved entry, got %+v", snap.Today)
	}
	if snap.SaveState != service.SaveIdle {
		t.Fatalf("expected idle save state, got %s", snap.SaveState)
	}
}

type stubMoods struct {
	recent []model.MoodEntry
	err    error
}

func (s *stubMoods) RecentMoods(context.Context) ([]model.MoodEntry, error) {
	return s.recent, s.err
}

func (s *stubMoods) TodayMood(context.Context) (model.TodayMood, error) {
	return model.TodayMood{}, s.err
}

func (s *stubMoods) CreateMood(_ context.Context, in api.CreateMoodInput) (model.MoodEntry, error) {
	return model.MoodEntry{}, errors.New("not used")
}

func TestMoodTrackerReconcilesByIDNewestFirst(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	stub := &stubMoods{}
	for i := 0; i < 12; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		stub.recent = append(stub.recent, model.MoodEntry{ID: string(rune('a' + i)), MoodLevel: 3, CreatedAt: at, UpdatedAt: at})
	}
	tracker := service.NewMoodTracker(stub)
	ctx := context.Background()
	if err := tracker.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	snap := tracker.Snapshot()
	if len(snap.Recent) != service.RecentMoodLimit {
		t.Fatalf("expected %d entries, got %d", service.RecentMoodLimit, len(snap.Recent))
	}
	if snap.Recent[0].ID != "l" {
		t.Fatalf("expected newest entry first, got %q", snap.Recent[0].ID)
	}

	// A stale copy of an entry does not replace a newer one.
	newer := snap.Recent[0]
	newer.MoodLevel = 5
	newer.UpdatedAt = newer.UpdatedAt.Add(time.Minute)
	stub.recent = []model.MoodEntry{newer}
	if err := tracker.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	stale := newer
	stale.MoodLevel = 1
	stale.UpdatedAt = newer.UpdatedAt.Add(-time.Hour)
	stub.recent = []model.MoodEntry{stale}
	if err := tracker.Load(ctx); err != nil {
		t.Fatalf("reload stale: %v", err)
	}
	snap = tracker.Snapshot()
	if len(snap.Recent) != 1 || snap.Recent[0].MoodLevel != 5 {
		t.Fatalf("expected newer copy to win, got %+v", snap.Recent)
	}
}

func TestMoodTrackerLoadErrorAndClose(t *testing.T) {
	t.Parallel()
	stub := &stubMoods{err: errors.New("boom")}
	tracker := service.NewMoodTracker(stub)
	if err := tracker.Load(context.Background()); err == nil {
		t.Fatalf("expected load error")
	}
	if snap := tracker.Snapshot(); snap.State != service.StateError || snap.Err == nil {
		t.Fatalf("expected error state, got %+v", snap)
	}
	tracker.Close()
	if err := tracker.Load(context.Background()); !errors.Is(err, service.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := tracker.Save(context.Background(), service.MoodInput{Level: 3}); !errors.Is(err, service.ErrClosed) {
		t.Fatalf("expected ErrClosed on save, got %v", err)
	}
}

func TestResolveTriggers(t *testing.T) {
	t.Parallel()
	got := service.ResolveTriggers([]string{" Sleep issues ", "Other", "", "Sleep issues"}, "")
	if want := []string{"Sleep issues", "Other"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := service.ResolveTriggers(nil, "x"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil triggers, got %#v", got)
	}
}
