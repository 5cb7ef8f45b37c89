package lexicon

import (
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// Default minimum scores. Pizza names tolerate more slack than ingredients
// because misheard proper names ("margerita", "hawajska") are the common case.
const (
	DefaultNameThreshold       = 60
	DefaultIngredientThreshold = 70
)

// Option is a functional option for configuring a [Matcher].
type Option func(*Matcher)

// WithMinScore sets the minimum similarity score (0–100) a candidate must
// reach to be accepted. A candidate scoring exactly the minimum is accepted.
func WithMinScore(score int) Option {
	return func(m *Matcher) {
		m.minScore = score
	}
}

// Matcher resolves free text against a reference list using a normalized
// Levenshtein ratio. It is read-only after construction and safe for
// concurrent use.
type Matcher struct {
	minScore int
}

// NewMatcher returns a [Matcher] with the supplied options. The default
// minimum score is [DefaultIngredientThreshold].
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{minScore: DefaultIngredientThreshold}
	for _, o := range opts {
		o(m)
	}
	return m
}

// MinScore returns the configured acceptance threshold.
func (m *Matcher) MinScore() int {
	return m.minScore
}

// BestMatch scores candidate against every entry of refs and returns the
// highest-scoring entry along with its score, provided the score reaches the
// configured minimum. On a tie the first entry encountered at the maximum
// wins, so callers must supply refs in a stable order. When no entry reaches
// the minimum the third return value is false and the field stays unknown; a
// below-threshold match is never guessed.
func (m *Matcher) BestMatch(candidate string, refs []string) (string, int, bool) {
	candidate = strings.ToLower(strings.TrimSpace(candidate))
	if candidate == "" || len(refs) == 0 {
		return "", 0, false
	}

	best := ""
	bestScore := -1
	for _, ref := range refs {
		score := Ratio(candidate, strings.ToLower(ref))
		if score > bestScore {
			best = ref
			bestScore = score
		}
	}
	if bestScore < m.minScore {
		return "", 0, false
	}
	return best, bestScore, true
}

// Ratio computes a 0–100 similarity score between a and b based on the
// Levenshtein edit distance normalized by the longer string's rune length.
// Identical strings score 100; fully dissimilar strings score 0.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longer := la
	if lb > longer {
		longer = lb
	}
	if longer == 0 {
		return 100
	}
	dist := matchr.Levenshtein(a, b)
	return (longer - dist) * 100 / longer
}
