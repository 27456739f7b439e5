package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/display"
	"github.com/saadjs/serenitree-cli/internal/model"
)

const (
	RecentMoodLimit = 10
	RecentMoodDays  = 30
	OtherTrigger    = "Other"
)

var CommonTriggers = []string{
	"Work stress", "Sleep issues", "Social interaction", "Exercise", "Weather",
	"Family", "Health", "Financial concerns", "Relationships", OtherTrigger,
}

type MoodAPI interface {
	RecentMoods(ctx context.Context) ([]model.MoodEntry, error)
	TodayMood(ctx context.Context) (model.TodayMood, error)
	CreateMood(ctx context.Context, in api.CreateMoodInput) (model.MoodEntry, error)
}

type MoodInput struct {
	Level int
	// Emoji defaults to the level's emoji when empty.
	Emoji    string
	Note     string
	Triggers []string
	// Custom replaces "Other" in Triggers when set.
	Custom string
}

type MoodView struct {
	State     ViewState
	SaveState SaveState
	Err       error
	SaveErr   error
	Recent    []model.MoodEntry
	Today     model.TodayMood
}

// MoodTracker holds the recent-moods and today views. Network calls run
// without the lock held; results that land after Close are dropped.
type MoodTracker struct {
	api MoodAPI

	mu        sync.Mutex
	state     ViewState
	saveState SaveState
	err       error
	saveErr   error
	recent    []model.MoodEntry
	today     model.TodayMood
	closed    bool
}

func NewMoodTracker(a MoodAPI) *MoodTracker {
	return &MoodTracker{api: a, state: StateLoading}
}

func (t *MoodTracker) Load(ctx context.Context) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	t.state = StateLoading
	t.mu.Unlock()

	recent, err := t.api.RecentMoods(ctx)
	var today model.TodayMood
	if err == nil {
		today, err = t.api.TodayMood(ctx)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	if err != nil {
		t.state = StateError
		t.err = err
		return err
	}
	t.err = nil
	t.recent = reconcileMoods(t.recent, recent, true)
	t.today = today
	t.state = listState(len(t.recent))
	return nil
}

func (t *MoodTracker) Refresh(ctx context.Context) error {
	return t.Load(ctx)
}

// Save validates, creates the entry, merges it into the view and then
// refetches. A Save while another is in flight returns ErrSaveInProgress
// without touching the network.
func (t *MoodTracker) Save(ctx context.Context, in MoodInput) (model.MoodEntry, error) {
	req, err := moodRequest(in)
	if err != nil {
		return model.MoodEntry{}, err
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return model.MoodEntry{}, ErrClosed
	}
	if t.saveState == SaveSaving {
		t.mu.Unlock()
		return model.MoodEntry{}, ErrSaveInProgress
	}
	t.saveState = SaveSaving
	t.mu.Unlock()

	created, err := t.api.CreateMood(ctx, req)

	t.mu.Lock()
	if err != nil {
		t.saveState = SaveError
		t.saveErr = err
		t.mu.Unlock()
		return model.MoodEntry{}, err
	}
	t.saveState = SaveIdle
	t.saveErr = nil
	if !t.closed {
		t.recent = reconcileMoods(t.recent, []model.MoodEntry{created}, false)
		t.today = model.TodayMood{HasEntry: true, Entry: &created}
		t.state = listState(len(t.recent))
	}
	t.mu.Unlock()

	// A failed refetch is reported through the view; the save stands.
	_ = t.Load(ctx)
	return created, nil
}

func (t *MoodTracker) Snapshot() MoodView {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := MoodView{
		State:     t.state,
		SaveState: t.saveState,
		Err:       t.err,
		SaveErr:   t.saveErr,
		Recent:    append([]model.MoodEntry(nil), t.recent...),
		Today:     t.today,
	}
	if v.Recent == nil {
		v.Recent = []model.MoodEntry{}
	}
	return v
}

func (t *MoodTracker) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}

func moodRequest(in MoodInput) (api.CreateMoodInput, error) {
	if err := api.ValidateMoodLevel(in.Level); err != nil {
		return api.CreateMoodInput{}, invalid("mood_level", err.Error())
	}
	emoji := strings.TrimSpace(in.Emoji)
	if emoji == "" {
		emoji = display.Mood(in.Level).Emoji
	}
	return api.CreateMoodInput{
		MoodLevel: in.Level,
		Emoji:     emoji,
		Note:      strings.TrimSpace(in.Note),
		Triggers:  ResolveTriggers(in.Triggers, in.Custom),
	}, nil
}

// ResolveTriggers trims and de-duplicates triggers in order, swapping
// "Other" for the custom trigger when one is given.
func ResolveTriggers(selected []string, custom string) []string {
	custom = strings.TrimSpace(custom)
	seen := map[string]bool{}
	out := make([]string, 0, len(selected)+1)
	add := func(v string) {
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, v)
	}
	for _, s := range selected {
		s = strings.TrimSpace(s)
		if strings.EqualFold(s, OtherTrigger) && custom != "" {
			add(custom)
			continue
		}
		add(s)
	}
	return out
}

// reconcileMoods merges incoming entries into current by id; the copy with
// the later UpdatedAt wins. When authoritative, entries missing from
// incoming are dropped. The result is newest first, capped at
// RecentMoodLimit.
func reconcileMoods(current, incoming []model.MoodEntry, authoritative bool) []model.MoodEntry {
	byID := map[string]model.MoodEntry{}
	order := make([]string, 0, len(current)+len(incoming))
	anon := make([]model.MoodEntry, 0)

	if !authoritative {
		for _, e := range current {
			if e.ID == "" {
				anon = append(anon, e)
				continue
			}
			if _, ok := byID[e.ID]; !ok {
				order = append(order, e.ID)
			}
			byID[e.ID] = e
		}
	}
	prior := map[string]model.MoodEntry{}
	for _, e := range current {
		if e.ID != "" {
			prior[e.ID] = e
		}
	}
	for _, e := range incoming {
		if e.ID == "" {
			anon = append(anon, e)
			continue
		}
		existing, ok := byID[e.ID]
		if !ok {
			existing, ok = prior[e.ID]
			order = append(order, e.ID)
		}
		if ok && existing.UpdatedAt.After(e.UpdatedAt) {
			byID[e.ID] = existing
			continue
		}
		byID[e.ID] = e
	}

	out := make([]model.MoodEntry, 0, len(order)+len(anon))
	for _, id := range order {
		out = append(out, byID[id])
	}
	out = append(out, anon...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > RecentMoodLimit {
		out = out[:RecentMoodLimit]
	}
	return out
}
