package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type DoctorReport struct {
	OrphanMessages      int  `json:"orphan_messages"`
	InvalidInsightState int  `json:"invalid_insight_state"`
	ExtraActiveChats    int  `json:"extra_active_chats"`
	EmptyConversations  int  `json:"empty_conversations"`
	ExpiredSession      bool `json:"expired_session"`
	FixedRows           int  `json:"fixed_rows,omitempty"`
}

func (r DoctorReport) Healthy() bool {
	return r.OrphanMessages == 0 && r.InvalidInsightState == 0 && r.ExtraActiveChats == 0 &&
		r.EmptyConversations == 0 && !r.ExpiredSession
}

type doctorCheck struct {
	count string
	fix   string
	dest  *int
}

// RunDoctor inspects the local state tables. With fix set, each problem
// found is repaired in one transaction.
func RunDoctor(ctx context.Context, db *sql.DB, fix bool, now time.Time) (DoctorReport, error) {
	report := DoctorReport{}
	checks := []doctorCheck{
		{
			count: `SELECT COUNT(1) FROM chat_messages m LEFT JOIN chat_conversations c ON c.conversation_id = m.conversation_id WHERE c.conversation_id IS NULL`,
			fix:   `DELETE FROM chat_messages WHERE conversation_id NOT IN (SELECT conversation_id FROM chat_conversations)`,
			dest:  &report.OrphanMessages,
		},
		{
			count: `SELECT COUNT(1) FROM insight_state WHERE state NOT IN ('read','dismissed') OR TRIM(insight_id) = ''`,
			fix:   `DELETE FROM insight_state WHERE state NOT IN ('read','dismissed') OR TRIM(insight_id) = ''`,
			dest:  &report.InvalidInsightState,
		},
		{
			count: `SELECT MAX(COUNT(1) - 1, 0) FROM chat_conversations WHERE is_active = 1`,
			fix: `UPDATE chat_conversations SET is_active = 0 WHERE is_active = 1 AND conversation_id <> (
  SELECT conversation_id FROM chat_conversations WHERE is_active = 1 ORDER BY last_message_at DESC LIMIT 1)`,
			dest: &report.ExtraActiveChats,
		},
		{
			count: `SELECT COUNT(1) FROM chat_conversations c WHERE c.is_active = 0 AND NOT EXISTS (SELECT 1 FROM chat_messages m WHERE m.conversation_id = c.conversation_id)`,
			fix:   `DELETE FROM chat_conversations WHERE is_active = 0 AND conversation_id NOT IN (SELECT DISTINCT conversation_id FROM chat_messages)`,
			dest:  &report.EmptyConversations,
		},
	}
	for _, c := range checks {
		if err := db.QueryRowContext(ctx, c.count).Scan(c.dest); err != nil {
			return report, fmt.Errorf("doctor check: %w", err)
		}
	}

	info, err := NewSessionStore(db, "").Info(ctx)
	if err != nil {
		return report, err
	}
	report.ExpiredSession = info.LoggedIn && info.Expired(now)

	if !fix || report.Healthy() {
		return report, nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return report, fmt.Errorf("doctor fix begin tx: %w", err)
	}
	for _, c := range checks {
		if *c.dest == 0 {
			continue
		}
		res, err := tx.ExecContext(ctx, c.fix)
		if err != nil {
			_ = tx.Rollback()
			return report, fmt.Errorf("doctor fix: %w", err)
		}
		n, _ := res.RowsAffected()
		report.FixedRows += int(n)
	}
	if report.ExpiredSession {
		if _, err := tx.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
			_ = tx.Rollback()
			return report, fmt.Errorf("doctor clear expired session: %w", err)
		}
		report.FixedRows++
	}
	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("doctor fix commit: %w", err)
	}
	return report, nil
}
