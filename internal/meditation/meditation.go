// Package meditation holds the guided session catalog and a countdown timer
// that steps through a session's instructions.
package meditation

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Session struct {
	ID           string
	Name         string
	Description  string
	Duration     time.Duration
	Kind         string
	Instructions []string
}

var Sessions = []Session{
	{
		ID:          "quick-calm",
		Name:        "Quick Calm Down",
		Description: "Immediate stress relief in just 2 minutes",
		Duration:    120 * time.Second,
		Kind:        "stress-relief",
		Instructions: []string{
			"Find a comfortable position",
			"Close your eyes if you feel comfortable",
			"Take a deep breath in for 4 counts",
			"Hold your breath for 4 counts",
			"Exhale slowly for 6 counts",
			"Repeat and let your body relax",
		},
	},
	{
		ID:          "breathing-exercise",
		Name:        "4-7-8 Breathing",
		Description: "Calming breathing technique for anxiety relief",
		Duration:    300 * time.Second,
		Kind:        "breathing",
		Instructions: []string{
			"Sit comfortably with your back straight",
			"Place the tip of your tongue behind your upper teeth",
			"Exhale completely through your mouth",
			"Inhale through your nose for 4 counts",
			"Hold your breath for 7 counts",
			"Exhale through your mouth for 8 counts",
		},
	},
	{
		ID:          "body-scan",
		Name:        "Body Scan Relaxation",
		Description: "Progressive muscle relaxation for deep calm",
		Duration:    600 * time.Second,
		Kind:        "relaxation",
		Instructions: []string{
			"Lie down or sit comfortably",
			"Start by focusing on your toes",
			"Tense and then relax each muscle group",
			"Move slowly up through your body",
			"Notice the difference between tension and relaxation",
			"End with your whole body feeling calm and heavy",
		},
	},
	{
		ID:          "mindful-moment",
		Name:        "Mindful Awareness",
		Description: "Present moment awareness practice",
		Duration:    480 * time.Second,
		Kind:        "mindfulness",
		Instructions: []string{
			"Sit quietly and focus on the present moment",
			"Notice your thoughts without judgment",
			"Bring attention back to your breath when mind wanders",
			"Observe sounds, sensations, and feelings",
			"Accept whatever arises with kindness",
			"Return to breath as your anchor",
		},
	},
}

func Lookup(id string) (Session, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, s := range Sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return Session{}, fmt.Errorf("unknown meditation session %q", id)
}

// InstructionIndex maps elapsed time onto an instruction, clamped to the
// last one.
func (s Session) InstructionIndex(elapsed time.Duration) int {
	n := len(s.Instructions)
	if n == 0 || s.Duration <= 0 || elapsed <= 0 {
		return 0
	}
	step := s.Duration / time.Duration(n)
	if step <= 0 {
		return n - 1
	}
	idx := int(elapsed / step)
	if idx >= n {
		idx = n - 1
	}
	return idx
}

type Tick struct {
	Remaining   time.Duration
	Instruction int
	Text        string
}

// Timer counts a session down. Step defaults to one second; tests shrink it.
type Timer struct {
	Session Session
	Step    time.Duration
	// Scale maps one Step of wall time onto this much session time.
	Scale time.Duration
}

func NewTimer(s Session) *Timer {
	return &Timer{Session: s, Step: time.Second, Scale: time.Second}
}

// Run calls fn once at the start and then every step until the session
// ends or ctx is done. It returns ctx.Err() when cancelled.
func (t *Timer) Run(ctx context.Context, fn func(Tick)) error {
	step, scale := t.Step, t.Scale
	if step <= 0 {
		step = time.Second
	}
	if scale <= 0 {
		scale = step
	}
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	elapsed := time.Duration(0)
	for {
		remaining := t.Session.Duration - elapsed
		if remaining < 0 {
			remaining = 0
		}
		idx := t.Session.InstructionIndex(elapsed)
		text := ""
		if idx < len(t.Session.Instructions) {
			text = t.Session.Instructions[idx]
		}
		fn(Tick{Remaining: remaining, Instruction: idx, Text: text})
		if remaining == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			elapsed += scale
		}
	}
}

// FormatRemaining renders m:ss.
func FormatRemaining(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
