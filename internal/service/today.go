package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/model"
)

type DashboardAPI interface {
	TodayMood(ctx context.Context) (model.TodayMood, error)
	MoodStats(ctx context.Context, days int) (model.MoodStats, error)
	DailyInsight(ctx context.Context) (model.WellnessInsight, bool, error)
	ListInsights(ctx context.Context, limit int, unreadOnly bool) ([]model.WellnessInsight, error)
}

// TodayStatus is the dashboard. Each section is fetched on its own; a
// failed section leaves its error in Errors and the rest still render.
type TodayStatus struct {
	Date            string                 `json:"date"`
	Mood            *model.MoodEntry       `json:"mood,omitempty"`
	HasMood         bool                   `json:"has_mood"`
	Stats           *model.MoodStats       `json:"stats,omitempty"`
	DailyInsight    *model.WellnessInsight `json:"daily_insight,omitempty"`
	DailyInsightNew bool                   `json:"daily_insight_new"`
	UnreadInsights  int                    `json:"unread_insights"`
	Errors          map[string]string      `json:"errors,omitempty"`
}

const unreadScanLimit = 50

func TodaySummary(ctx context.Context, a DashboardAPI, db *sql.DB, date time.Time, days int) (*TodayStatus, error) {
	status := &TodayStatus{Date: date.Format("2006-01-02")}
	fail := func(section string, err error) {
		if status.Errors == nil {
			status.Errors = map[string]string{}
		}
		status.Errors[section] = err.Error()
	}

	today, err := a.TodayMood(ctx)
	if errors.Is(err, api.ErrSessionExpired) {
		return nil, err
	}
	if err != nil {
		fail("mood", err)
	} else {
		status.HasMood = today.HasEntry
		status.Mood = today.Entry
	}

	if stats, err := a.MoodStats(ctx, days); err != nil {
		fail("stats", err)
	} else {
		status.Stats = &stats
	}

	insight, isNew, err := a.DailyInsight(ctx)
	switch {
	case errors.Is(err, api.ErrNotFound):
	case err != nil:
		fail("daily_insight", err)
	default:
		status.DailyInsight = &insight
		status.DailyInsightNew = isNew
	}

	unread, err := a.ListInsights(ctx, unreadScanLimit, true)
	if err == nil {
		var states map[string]string
		states, err = InsightStates(ctx, db)
		if err == nil {
			for _, in := range unread {
				if states[in.ID] == "" {
					status.UnreadInsights++
				}
			}
		}
	}
	if err != nil {
		fail("insights", err)
	}
	return status, nil
}
