package normalize

import "github.com/saadjs/serenitree-cli/internal/model"

func Journal(r Record) model.JournalEntry {
	if inner := r.Object("entry"); inner != nil {
		r = inner
	}
	return model.JournalEntry{
		ID:         r.ID(),
		UserID:     idField(r, "userId", "user_id"),
		Title:      r.String("title"),
		Content:    r.String("content"),
		IsPrivate:  r.Bool("isPrivate", "is_private"),
		Mood:       r.String("mood"),
		Sentiment:  r.String("sentiment", "sentiment_label", "sentimentLabel"),
		Tags:       r.Strings("tags"),
		AIInsights: r.Strings("aiInsights", "ai_insights"),
		CreatedAt:  r.Time("createdAt", "created_at"),
		UpdatedAt:  r.Time("updatedAt", "updated_at"),
	}
}

// JournalList accepts either a bare array or an {"entries": [...]} envelope.
func JournalList(v any) []model.JournalEntry {
	var items []Record
	switch t := v.(type) {
	case []any:
		items = objectsAny(t)
	case map[string]any:
		items = Record(t).Objects("entries", "items", "data")
	}
	out := make([]model.JournalEntry, 0, len(items))
	for _, item := range items {
		out = append(out, Journal(item))
	}
	return out
}
