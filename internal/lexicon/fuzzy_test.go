package lexicon_test

import (
	"testing"

	"github.com/pizzavox/pizzavox/internal/lexicon"
)

func TestRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"margherita", "margherita", 100},
		{"margerita", "margherita", 90},
		{"", "", 100},
		{"abcd", "abcx", 75},
	}
	for _, tt := range tests {
		if got := lexicon.Ratio(tt.a, tt.b); got != tt.want {
			t.Errorf("Ratio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBestMatch_MisheardName(t *testing.T) {
	t.Parallel()

	m := lexicon.NewMatcher(lexicon.WithMinScore(lexicon.DefaultNameThreshold))
	refs := []string{"margherita", "pepperoni", "hawajska"}

	got, score, ok := m.BestMatch("margerita", refs)
	if !ok {
		t.Fatal("BestMatch(margerita): ok=false, want true")
	}
	if got != "margherita" {
		t.Errorf("BestMatch(margerita) = %q, want margherita", got)
	}
	if score < lexicon.DefaultNameThreshold {
		t.Errorf("score = %d, want >= %d", score, lexicon.DefaultNameThreshold)
	}
}

func TestBestMatch_ThresholdBoundary(t *testing.T) {
	t.Parallel()

	// "abcx" vs "abcd" scores exactly 75: one edit over four runes.
	refs := []string{"abcd"}

	at := lexicon.NewMatcher(lexicon.WithMinScore(75))
	if _, score, ok := at.BestMatch("abcx", refs); !ok || score != 75 {
		t.Errorf("score-at-threshold: got (%d, %v), want (75, true)", score, ok)
	}

	above := lexicon.NewMatcher(lexicon.WithMinScore(76))
	if _, _, ok := above.BestMatch("abcx", refs); ok {
		t.Error("one point below threshold must be rejected")
	}
}

func TestBestMatch_TieBreakFirstWins(t *testing.T) {
	t.Parallel()

	// Both refs are one edit away from the candidate; the first must win.
	m := lexicon.NewMatcher(lexicon.WithMinScore(50))
	got, _, ok := m.BestMatch("sxr", []string{"sar", "sbr"})
	if !ok || got != "sar" {
		t.Errorf("BestMatch tie = (%q, %v), want first entry sar", got, ok)
	}
}

func TestBestMatch_EmptyInputs(t *testing.T) {
	t.Parallel()

	m := lexicon.NewMatcher()
	if _, _, ok := m.BestMatch("", []string{"ser"}); ok {
		t.Error("empty candidate should not match")
	}
	if _, _, ok := m.BestMatch("ser", nil); ok {
		t.Error("empty reference list should not match")
	}
}
