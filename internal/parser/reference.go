package parser

import (
	"strings"

	"github.com/pizzavox/pizzavox/internal/lexicon"
	"github.com/pizzavox/pizzavox/internal/nlp"
	"github.com/pizzavox/pizzavox/internal/order"
)

// demonstratives are filler words between "do" and the actual selector in
// referring phrases ("do tej drugiej", "do tamtej ostatniej").
var demonstratives = map[string]struct{}{
	"tej": {}, "tego": {}, "ten": {}, "ta": {}, "tę": {},
	"tamtej": {}, "tamtego": {}, "tamten": {}, "tamta": {},
}

// resolveReference scans the utterance for a phrase referring to one of the
// existing slots and returns its 0-based index. Accepted forms, anchored on
// the preposition "do" with optional demonstratives and "pizza" words in
// between:
//
//	"do tej drugiej"        ordinal word
//	"do ostatniej"          last-slot word
//	"do pizzy numer 2"      explicit number, only right after "numer"
//	"do margherity"         fuzzy pizza-name match against a slot's name
//
// A bare numeral after "do" is deliberately not a reference ("do tego jeszcze
// dwie butelki" talks about drinks, not slot two).
func (p *Parser) resolveReference(tokens []nlp.Token, existing []order.Slot, pizzaRefs []string) (int, bool) {
	if len(existing) == 0 {
		return 0, false
	}

	for i, tok := range tokens {
		if tok.Lemma != "do" {
			continue
		}

		j := i + 1
		for j < len(tokens) {
			if _, ok := demonstratives[tokens[j].Lemma]; ok {
				j++
				continue
			}
			if lexicon.IsPizzaWord(tokens[j].Lemma) {
				j++
				continue
			}
			break
		}
		if j >= len(tokens) {
			continue
		}
		sel := tokens[j]

		if k, ok := lexicon.OrdinalIndex(sel.Lemma); ok {
			if k >= 1 && k <= len(existing) {
				return k - 1, true
			}
			continue
		}
		if lexicon.IsLastWord(sel.Lemma) {
			return len(existing) - 1, true
		}
		if sel.Lemma == "numer" || sel.Lemma == "numerem" || sel.Lemma == "numerze" {
			if j+1 < len(tokens) && tokens[j+1].IsNumeral {
				n := tokens[j+1].NumeralValue
				if n >= 1 && n <= len(existing) {
					return n - 1, true
				}
			}
			continue
		}
		if sel.IsNumeral || isFunctionWord(sel.Lemma) {
			continue
		}
		if name, _, ok := p.names.BestMatch(sel.Lemma, pizzaRefs); ok {
			for idx := range existing {
				if strings.EqualFold(existing[idx].PizzaName, name) {
					return idx, true
				}
			}
		}
	}
	return 0, false
}
