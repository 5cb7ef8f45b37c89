package lexicon_test

import (
	"testing"

	"github.com/pizzavox/pizzavox/internal/lexicon"
)

func TestSizeOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lemma string
		want  lexicon.Size
		ok    bool
	}{
		{"duża", lexicon.SizeLarge, true},
		{"DUŻĄ", lexicon.SizeLarge, true},
		{"wielka", lexicon.SizeLarge, true},
		{"mała", lexicon.SizeSmall, true},
		{"średnia", lexicon.SizeSmall, true},
		{"margherita", lexicon.SizeUnknown, false},
	}
	for _, tt := range tests {
		got, ok := lexicon.SizeOf(tt.lemma)
		if got != tt.want || ok != tt.ok {
			t.Errorf("SizeOf(%q) = (%v, %v), want (%v, %v)", tt.lemma, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSize_BigSize(t *testing.T) {
	t.Parallel()

	if v := lexicon.SizeUnknown.BigSize(); v != nil {
		t.Errorf("SizeUnknown.BigSize() = %v, want nil", *v)
	}
	if v := lexicon.SizeLarge.BigSize(); v == nil || !*v {
		t.Error("SizeLarge.BigSize() should be true")
	}
	if v := lexicon.SizeSmall.BigSize(); v == nil || *v {
		t.Error("SizeSmall.BigSize() should be false")
	}
}

func TestThicknessOf(t *testing.T) {
	t.Parallel()

	if th, ok := lexicon.ThicknessOf("grubym"); !ok || th != lexicon.ThicknessThick {
		t.Errorf("ThicknessOf(grubym) = (%v, %v), want thick", th, ok)
	}
	if th, ok := lexicon.ThicknessOf("cienkim"); !ok || th != lexicon.ThicknessThin {
		t.Errorf("ThicknessOf(cienkim) = (%v, %v), want thin", th, ok)
	}
	if _, ok := lexicon.ThicknessOf("ser"); ok {
		t.Error("ThicknessOf(ser) should not match")
	}
}

func TestNumberAndOrdinalTables(t *testing.T) {
	t.Parallel()

	if n, ok := lexicon.NumberValue("dwie"); !ok || n != 2 {
		t.Errorf("NumberValue(dwie) = (%d, %v), want 2", n, ok)
	}
	if n, ok := lexicon.NumberValue("trzy"); !ok || n != 3 {
		t.Errorf("NumberValue(trzy) = (%d, %v), want 3", n, ok)
	}
	if _, ok := lexicon.NumberValue("pizza"); ok {
		t.Error("NumberValue(pizza) should not match")
	}

	if n, ok := lexicon.OrdinalIndex("drugiej"); !ok || n != 2 {
		t.Errorf("OrdinalIndex(drugiej) = (%d, %v), want 2", n, ok)
	}
	if !lexicon.IsLastWord("ostatniej") {
		t.Error("IsLastWord(ostatniej) = false, want true")
	}
}

func TestExtrasWordTables(t *testing.T) {
	t.Parallel()

	if n, ok := lexicon.MultiplierValue("podwójnym"); !ok || n != 2 {
		t.Errorf("MultiplierValue(podwójnym) = (%d, %v), want 2", n, ok)
	}
	if n, ok := lexicon.MultiplierValue("potrójny"); !ok || n != 3 {
		t.Errorf("MultiplierValue(potrójny) = (%d, %v), want 3", n, ok)
	}

	for _, marker := range []string{"z", "ze", "dodatkowy", "dodatkowym", "dodatkową"} {
		if !lexicon.IsExtrasMarker(marker) {
			t.Errorf("IsExtrasMarker(%q) = false, want true", marker)
		}
	}
	if lexicon.IsExtrasMarker("ser") {
		t.Error("IsExtrasMarker(ser) = true, want false")
	}

	if !lexicon.IsConjunction("oraz") {
		t.Error("IsConjunction(oraz) = false, want true")
	}
}

func TestIsPizzaWord(t *testing.T) {
	t.Parallel()

	for _, w := range []string{"pizza", "pizze", "pizzę", "pizzy"} {
		if !lexicon.IsPizzaWord(w) {
			t.Errorf("IsPizzaWord(%q) = false, want true", w)
		}
	}
	if lexicon.IsPizzaWord("margherita") {
		t.Error("IsPizzaWord(margherita) = true, want false")
	}
}
