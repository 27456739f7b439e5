package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/model"
)

type JournalAPI interface {
	ListJournal(ctx context.Context) ([]model.JournalEntry, error)
	CreateJournal(ctx context.Context, in api.JournalInput) (model.JournalEntry, error)
	UpdateJournal(ctx context.Context, id string, patch api.JournalPatch) (model.JournalEntry, error)
	DeleteJournal(ctx context.Context, id string) error
}

type JournalBook struct {
	api JournalAPI

	mu        sync.Mutex
	state     ViewState
	saveState SaveState
	err       error
	entries   []model.JournalEntry
	closed    bool
}

func NewJournalBook(a JournalAPI) *JournalBook {
	return &JournalBook{api: a, state: StateLoading}
}

func (b *JournalBook) Load(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.state = StateLoading
	b.mu.Unlock()

	entries, err := b.api.ListJournal(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	if err != nil {
		b.state = StateError
		b.err = err
		return err
	}
	b.err = nil
	b.entries = sortJournal(entries)
	b.state = listState(len(b.entries))
	return nil
}

// Save creates an entry. Title and content must be non-empty after
// trimming.
func (b *JournalBook) Save(ctx context.Context, title, content string, private bool) (model.JournalEntry, error) {
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	fields := map[string]string{}
	if title == "" {
		fields["title"] = "title is required"
	}
	if content == "" {
		fields["content"] = "content is required"
	}
	if len(fields) > 0 {
		return model.JournalEntry{}, &ValidationError{Fields: fields}
	}

	if err := b.beginSave(); err != nil {
		return model.JournalEntry{}, err
	}
	created, err := b.api.CreateJournal(ctx, api.JournalInput{Title: title, Content: content, IsPrivate: private})
	b.endSave(err, func() {
		b.entries = sortJournal(upsertJournal(b.entries, created))
	})
	if err != nil {
		return model.JournalEntry{}, err
	}
	return created, nil
}

func (b *JournalBook) Update(ctx context.Context, id string, patch api.JournalPatch) (model.JournalEntry, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return model.JournalEntry{}, invalid("title", "title cannot be empty")
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return model.JournalEntry{}, invalid("content", "content cannot be empty")
	}
	if err := b.beginSave(); err != nil {
		return model.JournalEntry{}, err
	}
	updated, err := b.api.UpdateJournal(ctx, id, patch)
	b.endSave(err, func() {
		b.entries = sortJournal(upsertJournal(b.entries, updated))
	})
	if err != nil {
		return model.JournalEntry{}, err
	}
	return updated, nil
}

func (b *JournalBook) Delete(ctx context.Context, id string) error {
	if err := b.beginSave(); err != nil {
		return err
	}
	err := b.api.DeleteJournal(ctx, id)
	b.endSave(err, func() {
		kept := b.entries[:0]
		for _, e := range b.entries {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		b.entries = kept
	})
	return err
}

// Search filters the loaded entries only. Matching is a case-insensitive
// substring test over title and content; a blank term returns everything.
func (b *JournalBook) Search(term string) []model.JournalEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return SearchJournal(b.entries, term)
}

func SearchJournal(entries []model.JournalEntry, term string) []model.JournalEntry {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]model.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if term == "" ||
			strings.Contains(strings.ToLower(e.Title), term) ||
			strings.Contains(strings.ToLower(e.Content), term) {
			out = append(out, e)
		}
	}
	return out
}

func (b *JournalBook) Entries() []model.JournalEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.JournalEntry{}, b.entries...)
}

func (b *JournalBook) State() (ViewState, SaveState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state, b.saveState, b.err
}

// Close detaches the book; results that land afterwards are dropped.
func (b *JournalBook) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
}

func (b *JournalBook) beginSave() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	if b.saveState == SaveSaving {
		return ErrSaveInProgress
	}
	b.saveState = SaveSaving
	return nil
}

func (b *JournalBook) endSave(err error, apply func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.saveState = SaveError
		return
	}
	b.saveState = SaveIdle
	if b.closed {
		return
	}
	apply()
	b.state = listState(len(b.entries))
}

func upsertJournal(entries []model.JournalEntry, e model.JournalEntry) []model.JournalEntry {
	for i := range entries {
		if entries[i].ID != "" && entries[i].ID == e.ID {
			if entries[i].UpdatedAt.After(e.UpdatedAt) {
				return entries
			}
			entries[i] = e
			return entries
		}
	}
	return append(entries, e)
}

func sortJournal(entries []model.JournalEntry) []model.JournalEntry {
	out := append([]model.JournalEntry{}, entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
