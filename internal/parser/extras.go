package parser

import (
	"unicode/utf8"

	"github.com/pizzavox/pizzavox/internal/lexicon"
	"github.com/pizzavox/pizzavox/internal/nlp"
	"github.com/pizzavox/pizzavox/internal/observe"
)

// tryExtras attempts to read an additional-ingredient phrase starting at
// position i and returns how many tokens it consumed (0 on no match). Three
// window shapes are accepted, tried in order:
//
//	A: [marker] [multiplier] [ingredient]      "z podwójnym serem"
//	B: [marker] [ingredient] <tail>            "z serem", "z serem i pieczarkami"
//	C: [multiplier] [marker] [ingredient]      "podwójnym z serem"
//
// Shape B consumes only the marker and the ingredient unless the tail is a
// conjunction followed by another ingredient, or a trailing multiplier, so a
// following attribute word ("z serem duża") survives for the attribute pass.
// After any match the following tokens are re-scanned for conjoined
// ingredients ("... i jeszcze pieczarki" style tails).
func (s *scan) tryExtras(tokens []nlp.Token, i int) int {
	tok := tokens[i]

	// Shape C.
	if mult, ok := lexicon.MultiplierValue(tok.Lemma); ok {
		if i+2 < len(tokens) && lexicon.IsExtrasMarker(tokens[i+1].Lemma) {
			if ing := s.ingredientMatch(tokens[i+2]); ing != "" {
				s.addExtra(ing, mult)
				return 3 + s.scanConjoined(tokens, i+3)
			}
		}
		return 0
	}

	if !lexicon.IsExtrasMarker(tok.Lemma) {
		return 0
	}

	// Shape A.
	if i+2 < len(tokens) {
		if mult, ok := lexicon.MultiplierValue(tokens[i+1].Lemma); ok {
			if ing := s.ingredientMatch(tokens[i+2]); ing != "" {
				s.addExtra(ing, mult)
				return 3 + s.scanConjoined(tokens, i+3)
			}
		}
	}

	// Shape B.
	if i+1 < len(tokens) {
		ing := s.ingredientMatch(tokens[i+1])
		if ing == "" {
			return 0
		}
		if i+3 < len(tokens) && lexicon.IsConjunction(tokens[i+2].Lemma) {
			if second := s.ingredientMatch(tokens[i+3]); second != "" {
				s.addExtra(ing, 1)
				s.addExtra(second, 1)
				return 4 + s.scanConjoined(tokens, i+4)
			}
		}
		if i+2 < len(tokens) {
			if mult, ok := lexicon.MultiplierValue(tokens[i+2].Lemma); ok {
				s.addExtra(ing, mult)
				return 3 + s.scanConjoined(tokens, i+3)
			}
		}
		s.addExtra(ing, 1)
		return 2 + s.scanConjoined(tokens, i+2)
	}

	return 0
}

// scanConjoined consumes trailing "[conjunction] [marker]? [ingredient]"
// groups after a matched extras phrase and returns how many tokens it ate.
func (s *scan) scanConjoined(tokens []nlp.Token, start int) int {
	j := start
	for j < len(tokens) && lexicon.IsConjunction(tokens[j].Lemma) {
		k := j + 1
		if k < len(tokens) && lexicon.IsExtrasMarker(tokens[k].Lemma) {
			k++
		}
		if k >= len(tokens) {
			break
		}
		ing := s.ingredientMatch(tokens[k])
		if ing == "" {
			break
		}
		s.addExtra(ing, 1)
		j = k + 1
	}
	return j - start
}

// addExtra records an (ingredient, quantity) pair on the current target.
func (s *scan) addExtra(ingredient string, quantity int) {
	s.target().AddExtra(ingredient, quantity)
	s.markChanged()
}

// ingredientMatch fuzzy-resolves a token against the catalog ingredient
// names. Same exclusions as pizza names but a shorter minimum length, since
// ingredient names like "ser" are legitimately short.
func (s *scan) ingredientMatch(tok nlp.Token) string {
	if tok.IsNumeral || utf8.RuneCountInString(tok.Lemma) < 3 || isFunctionWord(tok.Lemma) {
		return ""
	}
	name, score, ok := s.p.ingredients.BestMatch(tok.Lemma, s.refs.ingredients)
	if !ok {
		return ""
	}
	observe.RecordMatchScore(s.ctx, "ingredient", score)
	return name
}
