package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/model"
	"github.com/saadjs/serenitree-cli/internal/service"
)

func TestJournalSearchIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	srv, client := newTestClient(t)
	srv.AddJournal("Work week", "Deadlines piled up and the STRESS got to me")
	srv.AddJournal("Weekend", "Long walk by the river")
	srv.AddJournal("Gratitude", "Dinner with friends")

	book := service.NewJournalBook(client)
	if err := book.Load(context.Background()); err != nil {
		t.Fatalf("load journal: %v", err)
	}
	got := book.Search("stress")
	if len(got) != 1 || got[0].Title != "Work week" {
		t.Fatalf("expected exactly one match, got %+v", got)
	}
	if got := book.Search("WALK"); len(got) != 1 {
		t.Fatalf("expected title/content match regardless of case, got %+v", got)
	}
	if got := book.Search("   "); len(got) != 3 {
		t.Fatalf("expected blank term to return all entries, got %d", len(got))
	}
}

func TestJournalSaveValidatesBeforeRequest(t *testing.T) {
	t.Parallel()
	srv, client := newTestClient(t)
	book := service.NewJournalBook(client)

	_, err := book.Save(context.Background(), "  ", "", false)
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("expected title and content errors, got %v", verr.Fields)
	}
	if n := srv.TotalHits(); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func TestJournalSaveUpdateDelete(t *testing.T) {
	t.Parallel()
	_, client := newTestClient(t)
	book := service.NewJournalBook(client)
	ctx := context.Background()

	if err := book.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if view, _, _ := book.State(); view != service.StateEmpty {
		t.Fatalf("expected empty journal, got %s", view)
	}
	entry, err := book.Save(ctx, "Morning", "Slept well", true)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if entry.ID == "" || !entry.IsPrivate {
		t.Fatalf("unexpected saved entry %+v", entry)
	}

	title := "Morning pages"
	updated, err := book.Update(ctx, entry.ID, api.JournalPatch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("expected updated title, got %q", updated.Title)
	}
	blank := " "
	if _, err := book.Update(ctx, entry.ID, api.JournalPatch{Content: &blank}); err == nil {
		t.Fatalf("expected blank content to be rejected")
	}

	if err := book.Delete(ctx, entry.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := len(book.Entries()); n != 0 {
		t.Fatalf("expected no entries after delete, got %d", n)
	}
}

func TestSearchJournalMatchesContent(t *testing.T) {
	t.Parallel()
	entries := []model.JournalEntry{
		{ID: "1", Title: "a", Content: "Feeling anxious"},
		{ID: "2", Title: "Anxious morning", Content: "b"},
		{ID: "3", Title: "c", Content: "d"},
	}
	if got := service.SearchJournal(entries, "anxious"); len(got) != 2 {
		t.Fatalf("expected 2 matches, got %+v", got)
	}
}

func TestJournalBookClosedRejectsWork(t *testing.T) {
	t.Parallel()
	srv, client := newTestClient(t)
	book := service.NewJournalBook(client)
	ctx := context.Background()
	if err := book.Load(ctx); err != nil {
		t.Fatalf("load journal: %v", err)
	}
	book.Close()
	before := srv.TotalHits()

	if _, err := book.Save(ctx, "Evening", "Quiet night", false); !errors.Is(err, service.ErrClosed) {
		t.Fatalf("expected ErrClosed from save, got %v", err)
	}
	if err := book.Load(ctx); !errors.Is(err, service.ErrClosed) {
		t.Fatalf("expected ErrClosed from load, got %v", err)
	}
	if n := srv.TotalHits(); n != before {
		t.Fatalf("expected no requests after close, got %d more", n-before)
	}
}
