package companion

import (
	"testing"

	"github.com/saadjs/serenitree-cli/internal/model"
)

func TestRespondPriorityOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		message string
		want    Category
	}{
		{"I'm so happy today but I want to die", CategoryCrisis},
		{"Feeling GREAT, thinking about suicide", CategoryCrisis},
		{"work stress is making me sad", CategoryAnxiety},
		{"I feel lonely and happy at once", CategoryDepression},
		{"what a wonderful day", CategoryPositive},
		{"any advice for sleeping?", CategorySupport},
		{"can you help me, I feel great", CategoryPositive},
		{"I feel helpless", CategoryDepression},
		{"please help, I can't go on", CategoryCrisis},
		{"tell me about breathing", CategoryGeneric},
		{"", CategoryGeneric},
	}
	for _, tc := range cases {
		got := Respond(tc.message)
		if got.Category != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.message, tc.want, got.Category)
		}
		if got.Crisis != (tc.want == CategoryCrisis) {
			t.Fatalf("%q: crisis flag mismatch", tc.message)
		}
		if got.Text == "" {
			t.Fatalf("%q: empty response", tc.message)
		}
	}
}

func TestDetectCrisisReturnsMatches(t *testing.T) {
	t.Parallel()

	ok, found := DetectCrisis("Sometimes I think everyone is Better Off Dead without me, I can't go on")
	if !ok {
		t.Fatalf("expected crisis")
	}
	if len(found) != 2 || found[0] != "better off dead" || found[1] != "can't go on" {
		t.Fatalf("unexpected keywords %v", found)
	}
	if ok, found := DetectCrisis("just tired"); ok || found == nil || len(found) != 0 {
		t.Fatalf("expected no crisis and empty non-nil slice, got %v %v", ok, found)
	}
}

func TestAnalyzeLabels(t *testing.T) {
	t.Parallel()

	if got := Analyze("I am grateful and happy"); got.Label != model.SentimentPositive {
		t.Fatalf("expected positive, got %+v", got)
	}
	if got := Analyze("anxious and lonely"); got.Label != model.SentimentNegative {
		t.Fatalf("expected negative, got %+v", got)
	}
	if got := Analyze("had lunch"); got.Label != model.SentimentNeutral || got.Scores.Neutral != 1 {
		t.Fatalf("expected neutral, got %+v", got)
	}
	got := Analyze("happy happy joy but I want to die")
	if got.Label != model.SentimentNegative || !got.CrisisFlag {
		t.Fatalf("crisis must force negative, got %+v", got)
	}
	if sum := got.Scores.Sum(); sum < 0.999 || sum > 1.001 {
		t.Fatalf("scores must sum to 1, got %f", sum)
	}
}
