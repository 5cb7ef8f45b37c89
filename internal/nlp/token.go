// Package nlp adapts linguistic analysis into the token-feature stream the
// order parser consumes. The parser depends only on the [Analyzer] interface;
// a morphological pipeline running out of process can be plugged in behind
// it, while [RuleAnalyzer] provides a deterministic in-process default good
// enough for the pizzeria register of speech.
package nlp

// Token is one token of an analyzed utterance.
type Token struct {
	// Surface is the token text as transcribed, lowercased.
	Surface string

	// Lemma is the canonicalized base form used for table lookups.
	Lemma string

	// IsNumeral reports whether the token denotes a number, either as
	// digits ("2") or as a number word ("dwie").
	IsNumeral bool

	// NumeralValue is the numeric value when IsNumeral is true.
	NumeralValue int
}

// Analyzer turns raw transcribed text into a token-feature stream. For a
// given input string the output must be deterministic.
type Analyzer interface {
	Analyze(text string) []Token
}
