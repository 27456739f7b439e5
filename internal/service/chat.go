package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/companion"
	"github.com/saadjs/serenitree-cli/internal/model"
)

const SourceLocalFallback = "local-fallback"

type ChatAPI interface {
	SendChat(ctx context.Context, message, conversationID string) (model.ChatReply, error)
	ProactiveCheckIn(ctx context.Context) (model.CheckIn, error)
}

// ChatSession keeps one conversation going across invocations: the
// conversation id and message log live in SQLite.
type ChatSession struct {
	api    ChatAPI
	db     *sql.DB
	logger *slog.Logger

	mu             sync.Mutex
	conversationID string
	messages       []model.ChatMessage
	sending        bool
}

func NewChatSession(a ChatAPI, db *sql.DB, logger *slog.Logger) *ChatSession {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatSession{api: a, db: db, logger: logger}
}

// Resume restores the active conversation and its last historyLimit
// messages without contacting the server.
func (s *ChatSession) Resume(ctx context.Context, historyLimit int) error {
	convID, err := ActiveConversation(ctx, s.db)
	if err != nil {
		return err
	}
	history := []model.ChatMessage{}
	if convID != "" {
		history, err = ChatHistory(ctx, s.db, convID, historyLimit)
		if err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.conversationID = convID
	s.messages = history
	s.mu.Unlock()
	return nil
}

// Open resumes the conversation and returns the opening message: the
// server's proactive check-in, or the canned greeting when that fails.
func (s *ChatSession) Open(ctx context.Context, historyLimit int) (model.ChatMessage, error) {
	if err := s.Resume(ctx, historyLimit); err != nil {
		return model.ChatMessage{}, err
	}

	text := companion.Greeting
	checkIn, err := s.api.ProactiveCheckIn(ctx)
	switch {
	case errors.Is(err, api.ErrSessionExpired):
		return model.ChatMessage{}, err
	case err != nil:
		s.logger.Debug("proactive check-in unavailable", "err", err)
	case strings.TrimSpace(checkIn.Message) != "":
		text = checkIn.Message
	}
	opening := model.ChatMessage{
		ID:        uuid.NewString(),
		Role:      model.RoleAssistant,
		Content:   text,
		Timestamp: time.Now().UTC(),
	}

	s.mu.Lock()
	s.messages = append(s.messages, opening)
	s.mu.Unlock()
	return opening, nil
}

// Send posts a message. When the remote service fails for any reason other
// than an expired session, the local companion answers instead.
func (s *ChatSession) Send(ctx context.Context, message string) (model.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return model.ChatReply{}, invalid("message", "message is required")
	}

	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return model.ChatReply{}, ErrSaveInProgress
	}
	s.sending = true
	convID := s.conversationID
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.sending = false
		s.mu.Unlock()
	}()

	userMsg := model.ChatMessage{ID: uuid.NewString(), Role: model.RoleUser, Content: message, Timestamp: time.Now().UTC()}
	crisis, _ := companion.DetectCrisis(message)

	reply, err := s.api.SendChat(ctx, message, convID)
	switch {
	case errors.Is(err, api.ErrSessionExpired):
		return model.ChatReply{}, err
	case err != nil:
		s.logger.Debug("chat service unavailable, answering locally", "err", err)
		local := companion.Respond(message)
		reply = model.ChatReply{
			ConversationID:           convID,
			Response:                 local.Text,
			Source:                   SourceLocalFallback,
			RequiresProfessionalHelp: local.Crisis,
		}
	default:
		reply.RequiresProfessionalHelp = reply.RequiresProfessionalHelp || crisis
	}
	if reply.ConversationID == "" {
		reply.ConversationID = convID
	}
	if reply.ConversationID == "" {
		reply.ConversationID = "local-" + uuid.NewString()
	}

	assistantMsg := model.ChatMessage{
		ID:        uuid.NewString(),
		Role:      model.RoleAssistant,
		Content:   reply.Response,
		Sentiment: reply.Sentiment,
		Timestamp: time.Now().UTC(),
	}
	userMsg.Sentiment = reply.Sentiment

	if err := s.persist(ctx, reply, userMsg, assistantMsg); err != nil {
		s.logger.Warn("save chat history", "err", err)
	}

	s.mu.Lock()
	s.conversationID = reply.ConversationID
	s.messages = append(s.messages, userMsg, assistantMsg)
	s.mu.Unlock()
	return reply, nil
}

func (s *ChatSession) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

func (s *ChatSession) Messages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ChatMessage{}, s.messages...)
}

// Reset ends the stored conversation; the next Send starts a new one.
func (s *ChatSession) Reset(ctx context.Context) error {
	if err := EndConversations(ctx, s.db); err != nil {
		return err
	}
	s.mu.Lock()
	s.conversationID = ""
	s.messages = nil
	s.mu.Unlock()
	return nil
}

func (s *ChatSession) persist(ctx context.Context, reply model.ChatReply, msgs ...model.ChatMessage) error {
	if err := TouchConversation(ctx, s.db, reply.ConversationID); err != nil {
		return err
	}
	for _, m := range msgs {
		source := ""
		if m.Role == model.RoleAssistant {
			source = reply.Source
		}
		if _, err := AppendChatMessage(ctx, s.db, reply.ConversationID, m, source); err != nil {
			return err
		}
	}
	return nil
}
