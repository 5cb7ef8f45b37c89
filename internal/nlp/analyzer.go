package nlp

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pizzavox/pizzavox/internal/lexicon"
)

// RuleAnalyzer is the built-in [Analyzer]: a rune-level tokenizer combined
// with a small rule-based Polish lemmatizer. It carries no mutable state and
// is safe for concurrent use.
type RuleAnalyzer struct{}

var _ Analyzer = (*RuleAnalyzer)(nil)

// NewRuleAnalyzer returns the default rule-based analyzer.
func NewRuleAnalyzer() *RuleAnalyzer {
	return &RuleAnalyzer{}
}

// Analyze splits text into word tokens and annotates each with its lemma and
// numeral features. Punctuation separates tokens and is dropped.
func (a *RuleAnalyzer) Analyze(text string) []Token {
	var tokens []Token
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		tokens = append(tokens, makeToken(current.String()))
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// makeToken annotates a single lowercased word.
func makeToken(word string) Token {
	tok := Token{Surface: word, Lemma: word}

	if n, err := strconv.Atoi(word); err == nil {
		tok.IsNumeral = true
		tok.NumeralValue = n
		return tok
	}
	if n, ok := lexicon.NumberValue(word); ok {
		tok.IsNumeral = true
		tok.NumeralValue = n
		return tok
	}

	tok.Lemma = lemmatize(word)
	return tok
}

// lemmaExceptions covers frequent order-domain forms the suffix rules would
// mangle.
var lemmaExceptions = map[string]string{
	"boczkiem": "boczek",
	"cieście":  "ciasto",
	"ciastem":  "ciasto",
	"sosem":    "sos",
	"sosie":    "sos",
}

// lemmatize approximates the base form of a Polish noun or adjective. Words
// that already appear in the lexicon tables are kept as-is; the fuzzy matcher
// absorbs whatever inflection remains.
func lemmatize(word string) string {
	if isKnownForm(word) {
		return word
	}
	if base, ok := lemmaExceptions[word]; ok {
		return base
	}

	switch {
	case strings.HasSuffix(word, "ami") && len([]rune(word)) > 5:
		// Instrumental plural: "pieczarkami" -> "pieczarki".
		return strings.TrimSuffix(word, "ami") + "i"
	case strings.HasSuffix(word, "ę") && len([]rune(word)) > 3:
		// Accusative singular: "margheritę" -> "margherita".
		return strings.TrimSuffix(word, "ę") + "a"
	case strings.HasSuffix(word, "em") && len([]rune(word)) > 4:
		// Instrumental singular: "serem" -> "ser".
		return strings.TrimSuffix(word, "em")
	}
	return word
}

// isKnownForm reports whether the word is already a key in one of the
// lexicon's synonym tables and must not be rewritten.
func isKnownForm(word string) bool {
	if _, ok := lexicon.SizeOf(word); ok {
		return true
	}
	if _, ok := lexicon.ThicknessOf(word); ok {
		return true
	}
	if _, ok := lexicon.MultiplierValue(word); ok {
		return true
	}
	if _, ok := lexicon.OrdinalIndex(word); ok {
		return true
	}
	return lexicon.IsGlutenFree(word) ||
		lexicon.IsLastWord(word) ||
		lexicon.IsExtrasMarker(word) ||
		lexicon.IsConjunction(word)
}
