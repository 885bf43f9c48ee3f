package extract

import (
	"testing"
)

func TestFirst_OrderedFallback(t *testing.T) {
	got := first("field",
		Candidate[string]{Name: "miss", Run: func() (string, bool) { return "", false }},
		Candidate[string]{Name: "hit", Run: func() (string, bool) { return "a", true }},
		Candidate[string]{Name: "later", Run: func() (string, bool) { return "b", true }},
	)
	if got != "a" {
		t.Errorf("first = %q, want %q", got, "a")
	}
}

func TestFirst_ShortCircuits(t *testing.T) {
	calls := 0
	first("field",
		Candidate[int]{Name: "hit", Run: func() (int, bool) { calls++; return 7, true }},
		Candidate[int]{Name: "never", Run: func() (int, bool) { calls++; return 9, true }},
	)
	if calls != 1 {
		t.Errorf("evaluated %d candidates, want 1", calls)
	}
}

func TestFirst_AllMiss(t *testing.T) {
	got := first("field",
		Candidate[string]{Name: "a", Run: func() (string, bool) { return "", false }},
		Candidate[string]{Name: "b", Run: func() (string, bool) { return "", false }},
	)
	if got != "" {
		t.Errorf("all-miss cascade = %q, want empty string", got)
	}
}

func TestFirst_NoCandidates(t *testing.T) {
	if got := first[int]("field"); got != 0 {
		t.Errorf("empty cascade = %d, want 0", got)
	}
}

func TestTry_TrimsValue(t *testing.T) {
	v, ok := try("x", func() string { return "  padded  " }).Run()
	if !ok || v != "padded" {
		t.Errorf("Run() = %q, %v; want %q, true", v, ok, "padded")
	}
}

func TestTry_WhitespaceIsMiss(t *testing.T) {
	if _, ok := try("x", func() string { return "   \n " }).Run(); ok {
		t.Error("whitespace-only value should not count as a hit")
	}
}
