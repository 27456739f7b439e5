package service

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"

	"github.com/saadjs/serenitree-cli/internal/model"
)

type InsightAPI interface {
	ListInsights(ctx context.Context, limit int, unreadOnly bool) ([]model.WellnessInsight, error)
	UrgentInsights(ctx context.Context) ([]model.WellnessInsight, error)
	MarkInsightRead(ctx context.Context, id string) error
	DismissInsight(ctx context.Context, id string) error
}

// InsightBoard lists insights with locally dismissed ones hidden. The
// server may keep returning a dismissed insight; the local insight_state
// table decides visibility.
type InsightBoard struct {
	api    InsightAPI
	db     *sql.DB
	logger *slog.Logger

	mu       sync.Mutex
	state    ViewState
	err      error
	insights []model.WellnessInsight
	// hidden holds this board's dismissals; it is all there is without a db.
	hidden map[string]bool
}

func NewInsightBoard(a InsightAPI, db *sql.DB, logger *slog.Logger) *InsightBoard {
	if logger == nil {
		logger = slog.Default()
	}
	return &InsightBoard{api: a, db: db, logger: logger, state: StateLoading, hidden: map[string]bool{}}
}

func (b *InsightBoard) Load(ctx context.Context, limit int, unreadOnly bool) ([]model.WellnessInsight, error) {
	b.mu.Lock()
	b.state = StateLoading
	b.mu.Unlock()

	list, err := b.api.ListInsights(ctx, limit, unreadOnly)
	if err == nil {
		list, err = b.applyLocal(ctx, list, unreadOnly)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.state = StateError
		b.err = err
		return nil, err
	}
	b.err = nil
	b.insights = list
	b.state = listState(len(list))
	return append([]model.WellnessInsight{}, list...), nil
}

func (b *InsightBoard) Urgent(ctx context.Context) ([]model.WellnessInsight, error) {
	list, err := b.api.UrgentInsights(ctx)
	if err != nil {
		return nil, err
	}
	return b.applyLocal(ctx, list, false)
}

// MarkRead is idempotent: an insight already read in the view or in local
// state costs no request.
func (b *InsightBoard) MarkRead(ctx context.Context, id string) error {
	if b.alreadyRead(ctx, id) {
		return nil
	}
	if err := b.api.MarkInsightRead(ctx, id); err != nil {
		return err
	}
	b.mu.Lock()
	for i := range b.insights {
		if b.insights[i].ID == id {
			b.insights[i].IsRead = true
		}
	}
	b.mu.Unlock()
	if err := b.remember(ctx, id, InsightStateRead); err != nil {
		b.logger.Warn("record insight read", "id", id, "err", err)
	}
	return nil
}

// Dismiss hides the insight here and on every later load.
func (b *InsightBoard) Dismiss(ctx context.Context, id string) error {
	if err := b.api.DismissInsight(ctx, id); err != nil {
		return err
	}
	if err := b.remember(ctx, id, InsightStateDismissed); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hidden[id] = true
	kept := make([]model.WellnessInsight, 0, len(b.insights))
	for _, in := range b.insights {
		if in.ID != id {
			kept = append(kept, in)
		}
	}
	b.insights = kept
	b.state = listState(len(kept))
	return nil
}

func (b *InsightBoard) Insights() []model.WellnessInsight {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.WellnessInsight{}, b.insights...)
}

func (b *InsightBoard) UnreadCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, in := range b.insights {
		if !in.IsRead {
			n++
		}
	}
	return n
}

func (b *InsightBoard) State() (ViewState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state, b.err
}

func (b *InsightBoard) alreadyRead(ctx context.Context, id string) bool {
	b.mu.Lock()
	for _, in := range b.insights {
		if in.ID == id && in.IsRead {
			b.mu.Unlock()
			return true
		}
	}
	b.mu.Unlock()
	if b.db == nil {
		return false
	}
	states, err := InsightStates(ctx, b.db)
	if err != nil {
		return false
	}
	return states[id] == InsightStateRead
}

// remember persists local state when the board has a db.
func (b *InsightBoard) remember(ctx context.Context, id, state string) error {
	if b.db == nil {
		return nil
	}
	return RecordInsightState(ctx, b.db, id, state)
}

func (b *InsightBoard) applyLocal(ctx context.Context, list []model.WellnessInsight, unreadOnly bool) ([]model.WellnessInsight, error) {
	states := map[string]string{}
	if b.db != nil {
		var err error
		if states, err = InsightStates(ctx, b.db); err != nil {
			return nil, err
		}
	}
	b.mu.Lock()
	for id := range b.hidden {
		states[id] = InsightStateDismissed
	}
	b.mu.Unlock()

	out := make([]model.WellnessInsight, 0, len(list))
	for _, in := range list {
		switch states[in.ID] {
		case InsightStateDismissed:
			continue
		case InsightStateRead:
			in.IsRead = true
		}
		if unreadOnly && in.IsRead {
			continue
		}
		out = append(out, in)
	}
	return out, nil
}
