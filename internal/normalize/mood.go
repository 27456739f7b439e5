package normalize

import (
	"strconv"

	"github.com/saadjs/serenitree-cli/internal/model"
)

func Mood(r Record) model.MoodEntry {
	return model.MoodEntry{
		ID:        r.ID(),
		UserID:    idField(r, "userId", "user_id"),
		MoodLevel: r.Int("moodLevel", "mood_level"),
		Emoji:     r.String("emoji"),
		Note:      r.String("note"),
		Triggers:  r.Strings("triggers"),
		CreatedAt: r.Time("createdAt", "created_at"),
		UpdatedAt: r.Time("updatedAt", "updated_at"),
	}
}

func Moods(items []Record) []model.MoodEntry {
	out := make([]model.MoodEntry, 0, len(items))
	for _, item := range items {
		out = append(out, Mood(item))
	}
	return out
}

// MoodEnvelope unwraps {"entry": {...}} responses; bare entries pass through.
func MoodEnvelope(r Record) model.MoodEntry {
	if inner := r.Object("entry"); inner != nil {
		return Mood(inner)
	}
	return Mood(r)
}

// MoodPage normalizes a list response. Pagination fields fall back to the
// entry count when the backend omits them.
func MoodPage(r Record) model.MoodPage {
	entries := Moods(r.Objects("entries", "items", "data"))
	page := model.MoodPage{
		Entries: entries,
		Total:   r.Int("total", "totalCount", "total_count"),
		Limit:   r.Int("limit"),
		Offset:  r.Int("offset"),
	}
	if !r.Has("total", "totalCount", "total_count") {
		page.Total = len(entries)
	}
	if page.Limit == 0 {
		page.Limit = len(entries)
	}
	return page
}

// TodayMood treats a null or missing entry as "no entry today". The
// hasEntry flag is not trusted on its own.
func TodayMood(r Record) model.TodayMood {
	inner := r.Object("entry")
	if inner == nil || len(inner) == 0 {
		return model.TodayMood{HasEntry: false}
	}
	entry := Mood(inner)
	return model.TodayMood{HasEntry: true, Entry: &entry}
}

func MoodStats(r Record) model.MoodStats {
	if inner := r.Object("stats"); inner != nil {
		r = inner
	}
	stats := model.MoodStats{
		TotalEntries:   r.Int("totalEntries", "total_entries"),
		AverageMood:    r.Float("averageMood", "average_mood"),
		Distribution:   map[int]int{},
		CommonTriggers: []model.TriggerCount{},
		PeriodDays:     r.Int("period", "periodDays", "period_days"),
	}
	if dist := r.Object("moodDistribution", "mood_distribution"); dist != nil {
		for k := range dist {
			level, err := strconv.Atoi(k)
			if err != nil {
				continue
			}
			stats.Distribution[level] = dist.Int(k)
		}
	}
	for _, item := range r.Objects("commonTriggers", "common_triggers") {
		name := item.String("trigger", "name")
		if name == "" {
			continue
		}
		stats.CommonTriggers = append(stats.CommonTriggers, model.TriggerCount{Trigger: name, Count: item.Int("count")})
	}
	return stats
}

func idField(r Record, keys ...string) string {
	v, ok := r.lookup(keys...)
	if !ok {
		return ""
	}
	return idAny(v)
}
