package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const (
	InsightStateRead      = "read"
	InsightStateDismissed = "dismissed"
)

// RecordInsightState stores the local view of an insight. Dismissed is
// sticky: a later "read" does not un-hide it.
func RecordInsightState(ctx context.Context, db *sql.DB, id, state string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("insight id is required")
	}
	if state != InsightStateRead && state != InsightStateDismissed {
		return fmt.Errorf("insight state must be read or dismissed")
	}
	_, err := db.ExecContext(ctx, `
INSERT INTO insight_state(insight_id, state, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(insight_id) DO UPDATE SET
  state = CASE WHEN insight_state.state = 'dismissed' THEN 'dismissed' ELSE excluded.state END,
  updated_at = excluded.updated_at
`, id, state)
	if err != nil {
		return fmt.Errorf("record insight %s as %s: %w", id, state, err)
	}
	return nil
}

func InsightStates(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT insight_id, state FROM insight_state`)
	if err != nil {
		return nil, fmt.Errorf("list insight state: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var id, state string
		if err := rows.Scan(&id, &state); err != nil {
			return nil, fmt.Errorf("scan insight state: %w", err)
		}
		out[id] = state
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate insight state: %w", err)
	}
	return out, nil
}

// ForgetDismissed un-hides every dismissed insight.
func ForgetDismissed(ctx context.Context, db *sql.DB) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM insight_state WHERE state = 'dismissed'`)
	if err != nil {
		return 0, fmt.Errorf("forget dismissed insights: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
