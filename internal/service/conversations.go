package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saadjs/serenitree-cli/internal/model"
)

// messageStamp sorts lexically in insertion order.
const messageStamp = "2006-01-02T15:04:05.000000000Z07:00"

// ActiveConversation returns the conversation id chat should continue, or
// "" when none is open.
func ActiveConversation(ctx context.Context, db *sql.DB) (string, error) {
	var id string
	err := db.QueryRowContext(ctx, `
SELECT conversation_id FROM chat_conversations
WHERE is_active = 1
ORDER BY last_message_at DESC
LIMIT 1
`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read active conversation: %w", err)
	}
	return id, nil
}

// TouchConversation marks id as the single active conversation.
func TouchConversation(ctx context.Context, db *sql.DB, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("conversation id is required")
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin conversation tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE chat_conversations SET is_active = 0 WHERE conversation_id <> ?`, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("deactivate conversations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO chat_conversations(conversation_id, is_active, last_message_at)
VALUES(?, 1, CURRENT_TIMESTAMP)
ON CONFLICT(conversation_id) DO UPDATE SET is_active = 1, last_message_at = CURRENT_TIMESTAMP
`, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save conversation %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit conversation %s: %w", id, err)
	}
	return nil
}

func EndConversations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `UPDATE chat_conversations SET is_active = 0`); err != nil {
		return fmt.Errorf("end conversations: %w", err)
	}
	return nil
}

func AppendChatMessage(ctx context.Context, db *sql.DB, conversationID string, msg model.ChatMessage, source string) (model.ChatMessage, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	_, err := db.ExecContext(ctx, `
INSERT INTO chat_messages(id, conversation_id, role, content, sentiment, source, created_at)
VALUES(?, ?, ?, ?, ?, ?, ?)
`, msg.ID, conversationID, msg.Role, msg.Content, msg.Sentiment, source, msg.Timestamp.UTC().Format(messageStamp))
	if err != nil {
		return msg, fmt.Errorf("append chat message: %w", err)
	}
	return msg, nil
}

// ChatHistory returns the last limit messages of a conversation, oldest
// first.
func ChatHistory(ctx context.Context, db *sql.DB, conversationID string, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `
SELECT id, role, content, sentiment, created_at FROM (
  SELECT id, role, content, sentiment, created_at
  FROM chat_messages
  WHERE conversation_id = ?
  ORDER BY created_at DESC
  LIMIT ?
) ORDER BY created_at ASC
`, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("chat history: %w", err)
	}
	defer rows.Close()
	out := make([]model.ChatMessage, 0)
	for rows.Next() {
		var m model.ChatMessage
		var created string
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.Sentiment, &created); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		m.Timestamp = parseSQLiteTime(created)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat history: %w", err)
	}
	return out, nil
}
