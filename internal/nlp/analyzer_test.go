package nlp_test

import (
	"testing"

	"github.com/pizzavox/pizzavox/internal/nlp"
)

func TestAnalyze_TokenizesAndLowercases(t *testing.T) {
	t.Parallel()

	a := nlp.NewRuleAnalyzer()
	got := a.Analyze("Poproszę dużą Margheritę, z serem!")

	surfaces := make([]string, len(got))
	for i, tok := range got {
		surfaces[i] = tok.Surface
	}
	want := []string{"poproszę", "dużą", "margheritę", "z", "serem"}
	if len(surfaces) != len(want) {
		t.Fatalf("token count = %d (%v), want %d", len(surfaces), surfaces, len(want))
	}
	for i := range want {
		if surfaces[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, surfaces[i], want[i])
		}
	}
}

func TestAnalyze_Numerals(t *testing.T) {
	t.Parallel()

	a := nlp.NewRuleAnalyzer()

	tests := []struct {
		text  string
		value int
	}{
		{"dwie", 2},
		{"trzy", 3},
		{"2", 2},
		{"jedną", 1},
	}
	for _, tt := range tests {
		toks := a.Analyze(tt.text)
		if len(toks) != 1 {
			t.Fatalf("Analyze(%q) produced %d tokens", tt.text, len(toks))
		}
		if !toks[0].IsNumeral || toks[0].NumeralValue != tt.value {
			t.Errorf("Analyze(%q) = %+v, want numeral %d", tt.text, toks[0], tt.value)
		}
	}

	if toks := a.Analyze("pizza"); toks[0].IsNumeral {
		t.Error("Analyze(pizza) flagged as numeral")
	}
}

func TestAnalyze_Lemmas(t *testing.T) {
	t.Parallel()

	a := nlp.NewRuleAnalyzer()

	tests := []struct {
		word string
		want string
	}{
		{"serem", "ser"},
		{"margheritę", "margherita"},
		{"pieczarkami", "pieczarki"},
		{"boczkiem", "boczek"},
		// Known synonym-table forms must pass through untouched.
		{"dużą", "dużą"},
		{"grubym", "grubym"},
		{"podwójnym", "podwójnym"},
	}
	for _, tt := range tests {
		toks := a.Analyze(tt.word)
		if toks[0].Lemma != tt.want {
			t.Errorf("lemma(%q) = %q, want %q", tt.word, toks[0].Lemma, tt.want)
		}
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	t.Parallel()

	a := nlp.NewRuleAnalyzer()
	const text = "poproszę dwie duże pizze margherita"

	first := a.Analyze(text)
	second := a.Analyze(text)
	if len(first) != len(second) {
		t.Fatal("repeated analysis produced different token counts")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("token[%d] differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
