// Package lexicon holds the static linguistic knowledge used by the order
// parser: closed attribute enumerations (size, crust thickness), the synonym
// tables that map Polish surface forms onto them, numeral / ordinal /
// multiplier word tables, and the fuzzy matcher used to resolve spoken names
// against the live catalog.
//
// All lookups are total functions: absence is an explicit (value, ok) result,
// never an error, so a single ambiguous token cannot interrupt a scan.
package lexicon

import "strings"

// Size is the customer-facing pizza size bucket. Only "duża" maps to a big
// dough; everything else ("mała", "średnia") maps to the small dough variant.
type Size int

const (
	SizeUnknown Size = iota
	SizeSmall
	SizeLarge
)

// BigSize converts the size bucket to the tri-state dough attribute.
// SizeUnknown yields nil.
func (s Size) BigSize() *bool {
	switch s {
	case SizeSmall:
		v := false
		return &v
	case SizeLarge:
		v := true
		return &v
	}
	return nil
}

// Thickness is the crust thickness bucket.
type Thickness int

const (
	ThicknessUnknown Thickness = iota
	ThicknessThin
	ThicknessThick
)

// ThickCrust converts the thickness bucket to the tri-state dough attribute.
// ThicknessUnknown yields nil.
func (t Thickness) ThickCrust() *bool {
	switch t {
	case ThicknessThin:
		v := false
		return &v
	case ThicknessThick:
		v := true
		return &v
	}
	return nil
}

// sizeSynonyms maps lowercased lemmas and common inflected forms to a size
// bucket. "średnia" is deliberately in the small bucket: the dough catalog
// only distinguishes big/not-big.
var sizeSynonyms = map[string]Size{
	"mała":      SizeSmall,
	"mały":      SizeSmall,
	"małą":      SizeSmall,
	"malutka":   SizeSmall,
	"malutką":   SizeSmall,
	"średnia":   SizeSmall,
	"średni":    SizeSmall,
	"średnią":   SizeSmall,
	"duża":      SizeLarge,
	"duży":      SizeLarge,
	"dużą":      SizeLarge,
	"duże":      SizeLarge,
	"wielka":    SizeLarge,
	"wielką":    SizeLarge,
	"wielki":    SizeLarge,
	"olbrzymia": SizeLarge,
}

var thicknessSynonyms = map[string]Thickness{
	"cienki":  ThicknessThin,
	"cienka":  ThicknessThin,
	"cienkim": ThicknessThin,
	"cienkie": ThicknessThin,
	"cienką":  ThicknessThin,
	"gruby":   ThicknessThick,
	"gruba":   ThicknessThick,
	"grubym":  ThicknessThick,
	"grube":   ThicknessThick,
	"grubą":   ThicknessThick,
}

// glutenWords are forms that flag a gluten-free request. The flag is only
// ever set, never reset, by lexical detection.
var glutenWords = map[string]struct{}{
	"bezglutenowy": {},
	"bezglutenowa": {},
	"bezglutenową": {},
	"bezglutenowe": {},
	"bezglutenu":   {},
}

// numberWords maps Polish cardinal number words to their values.
var numberWords = map[string]int{
	"jeden": 1, "jedna": 1, "jedną": 1, "jedno": 1,
	"dwa": 2, "dwie": 2, "dwóch": 2,
	"trzy": 3, "trzech": 3,
	"cztery": 4, "czterech": 4,
	"pięć": 5, "sześć": 6, "siedem": 7, "osiem": 8,
	"dziewięć": 9, "dziesięć": 10,
}

// ordinalWords maps ordinal forms to 1-based positions, used by slot
// reference resolution ("do tej drugiej").
var ordinalWords = map[string]int{
	"pierwszy": 1, "pierwsza": 1, "pierwszą": 1, "pierwszej": 1,
	"drugi": 2, "druga": 2, "drugą": 2, "drugiej": 2,
	"trzeci": 3, "trzecia": 3, "trzecią": 3, "trzeciej": 3,
	"czwarty": 4, "czwarta": 4, "czwartą": 4, "czwartej": 4,
	"piąty": 5, "piąta": 5, "piątą": 5, "piątej": 5,
}

// lastWords reference the final slot ("do tej ostatniej").
var lastWords = map[string]struct{}{
	"ostatni": {}, "ostatnia": {}, "ostatnią": {}, "ostatniej": {},
}

// multiplierWords scale an extra-ingredient quantity ("podwójny ser").
var multiplierWords = map[string]int{
	"podwójny": 2, "podwójna": 2, "podwójnym": 2, "podwójną": 2,
	"potrójny": 3, "potrójna": 3, "potrójnym": 3, "potrójną": 3,
	"poczwórny": 4, "poczwórna": 4, "poczwórnym": 4,
}

// conjunctions join two ingredients in one extras phrase ("ser i pieczarki").
var conjunctions = map[string]struct{}{
	"i": {}, "oraz": {}, "też": {}, "także": {},
}

// SizeOf maps a lemma to a size bucket.
func SizeOf(lemma string) (Size, bool) {
	s, ok := sizeSynonyms[strings.ToLower(lemma)]
	return s, ok
}

// ThicknessOf maps a lemma to a thickness bucket.
func ThicknessOf(lemma string) (Thickness, bool) {
	t, ok := thicknessSynonyms[strings.ToLower(lemma)]
	return t, ok
}

// IsGlutenFree reports whether the lemma flags a gluten-free request.
func IsGlutenFree(lemma string) bool {
	_, ok := glutenWords[strings.ToLower(lemma)]
	return ok
}

// NumberValue maps a Polish cardinal number word to its value.
func NumberValue(lemma string) (int, bool) {
	n, ok := numberWords[strings.ToLower(lemma)]
	return n, ok
}

// OrdinalIndex maps an ordinal word to its 1-based position.
func OrdinalIndex(lemma string) (int, bool) {
	n, ok := ordinalWords[strings.ToLower(lemma)]
	return n, ok
}

// IsLastWord reports whether the lemma refers to the final slot.
func IsLastWord(lemma string) bool {
	_, ok := lastWords[strings.ToLower(lemma)]
	return ok
}

// MultiplierValue maps a multiplier word ("podwójny") to its factor.
func MultiplierValue(lemma string) (int, bool) {
	n, ok := multiplierWords[strings.ToLower(lemma)]
	return n, ok
}

// IsConjunction reports whether the lemma joins two listed ingredients.
func IsConjunction(lemma string) bool {
	_, ok := conjunctions[strings.ToLower(lemma)]
	return ok
}

// IsExtrasMarker reports whether the lemma opens an additional-ingredient
// phrase: the preposition "z"/"ze" ("z serem"), the imperative "dodaj"
// ("dodaj podwójny ser"), or any form built on the "dodatkow-" morpheme
// ("dodatkowy ser", "z dodatkowym boczkiem").
func IsExtrasMarker(lemma string) bool {
	l := strings.ToLower(lemma)
	return l == "z" || l == "ze" || l == "dodaj" || l == "dodać" || strings.Contains(l, "dodatkow")
}

// IsPizzaWord reports whether the lemma is an inflected form of "pizza".
func IsPizzaWord(lemma string) bool {
	l := strings.ToLower(lemma)
	return l == "pizza" || strings.HasPrefix(l, "pizz")
}
