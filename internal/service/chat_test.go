package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/companion"
	"github.com/saadjs/serenitree-cli/internal/model"
	"github.com/saadjs/serenitree-cli/internal/service"
)

func TestChatOpenUsesCheckIn(t *testing.T) {
	t.Parallel()
	_, client := newTestClient(t)
	db := newTestDB(t)
	defer db.Close()

	chat := service.NewChatSession(client, db, nil)
	opening, err := chat.Open(context.Background(), 20)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if opening.Role != model.RoleAssistant || opening.Content != "How are you feeling today?" {
		t.Fatalf("unexpected opening %+v", opening)
	}
}

func TestChatSendPersistsConversation(t *testing.T) {
	t.Parallel()
	srv, client := newTestClient(t)
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	chat := service.NewChatSession(client, db, nil)
	if _, err := chat.Open(ctx, 20); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := chat.Send(ctx, "  "); err == nil {
		t.Fatalf("expected empty message to be rejected")
	}
	if n := srv.Hits("POST /api/chat/message"); n != 0 {
		t.Fatalf("expected no chat request for empty message, got %d", n)
	}

	reply, err := chat.Send(ctx, "work was long")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.ConversationID != "conv-1" || reply.Source == service.SourceLocalFallback {
		t.Fatalf("unexpected reply %+v", reply)
	}

	// A new session in a later run continues the same conversation.
	next := service.NewChatSession(client, db, nil)
	if _, err := next.Open(ctx, 20); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if next.ConversationID() != "conv-1" {
		t.Fatalf("expected conversation to be restored, got %q", next.ConversationID())
	}
	// two restored messages plus the new opening
	if n := len(next.Messages()); n != 3 {
		t.Fatalf("expected 3 messages, got %d", n)
	}

	if err := next.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	id, err := service.ActiveConversation(ctx, db)
	if err != nil {
		t.Fatalf("active conversation: %v", err)
	}
	if id != "" {
		t.Fatalf("expected no active conversation after reset, got %q", id)
	}
}

func TestChatFallsBackLocallyWhenServiceFails(t *testing.T) {
	t.Parallel()
	srv, client := newTestClient(t)
	srv.FailChat(true)
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	chat := service.NewChatSession(client, db, nil)
	reply, err := chat.Send(ctx, "I feel so anxious about tomorrow")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.Source != service.SourceLocalFallback {
		t.Fatalf("expected local fallback, got %q", reply.Source)
	}
	if reply.Response != companion.Respond("anxious").Text {
		t.Fatalf("expected anxiety response, got %q", reply.Response)
	}
	if reply.ConversationID == "" {
		t.Fatalf("expected a local conversation id")
	}

	crisis, err := chat.Send(ctx, "I'm happy but I want to die")
	if err != nil {
		t.Fatalf("send crisis: %v", err)
	}
	if !crisis.RequiresProfessionalHelp {
		t.Fatalf("expected crisis to be flagged")
	}
	if crisis.ConversationID != reply.ConversationID {
		t.Fatalf("expected conversation id reuse, got %q then %q", reply.ConversationID, crisis.ConversationID)
	}
}

func TestChatDoesNotMaskExpiredSession(t *testing.T) {
	t.Parallel()
	srv, client := newTestClient(t)
	srv.ExpireToken()
	db := newTestDB(t)
	defer db.Close()

	chat := service.NewChatSession(client, db, nil)
	if _, err := chat.Send(context.Background(), "hello"); !errors.Is(err, api.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestAnalyzeSentimentFallsBackLocally(t *testing.T) {
	t.Parallel()
	srv, client := newTestClient(t)
	ctx := context.Background()

	remote, err := service.AnalyzeSentiment(ctx, client, nil, "I want to die", "")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if remote.Local || !remote.Sentiment.CrisisFlag {
		t.Fatalf("expected remote crisis analysis, got %+v", remote)
	}

	srv.Close()
	local, err := service.AnalyzeSentiment(ctx, client, nil, "Feeling grateful and calm", "")
	if err != nil {
		t.Fatalf("analyze offline: %v", err)
	}
	if !local.Local || local.Sentiment.Label != model.SentimentPositive {
		t.Fatalf("expected local positive analysis, got %+v", local)
	}
	if _, err := service.AnalyzeSentiment(ctx, client, nil, " ", ""); err == nil {
		t.Fatalf("expected empty text to be rejected")
	}
}
