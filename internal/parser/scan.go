package parser

import (
	"context"
	"unicode/utf8"

	"github.com/pizzavox/pizzavox/internal/lexicon"
	"github.com/pizzavox/pizzavox/internal/nlp"
	"github.com/pizzavox/pizzavox/internal/observe"
	"github.com/pizzavox/pizzavox/internal/order"
)

// scan is the per-utterance state machine. It walks the token stream once,
// left to right, with no backtracking. Writes go to the active slot when one
// is selected, otherwise to the common bucket, which is folded into every
// target slot that still lacks the field once the walk finishes.
type scan struct {
	p    *Parser
	ctx  context.Context
	refs refLists

	// targets are the slots this utterance may write to. In segmentation
	// mode the list starts empty and grows as slots open; in reference and
	// backfill mode it is pre-populated with existing slots.
	targets []*order.Slot

	// created is the subset of targets opened by this utterance.
	created []*order.Slot

	// active is the current write target. Nil routes writes to common.
	active *order.Slot

	// common collects attributes mentioned while no slot is selected.
	common order.Slot

	// allowNew enables slot segmentation. Off in reference and backfill mode.
	allowNew bool

	// fillPending marks that earlier slots still miss fields. A bare pizza
	// word or lone catalog name is then an answer to the missing-info prompt
	// and must not open a slot; only numeral patterns may segment.
	fillPending bool

	// changed reports whether any real slot gained an attribute or extra.
	changed bool
}

func (s *scan) run(tokens []nlp.Token) {
	for i := 0; i < len(tokens); i++ {
		if n := s.tryExtras(tokens, i); n > 0 {
			i += n - 1
			continue
		}
		tok := tokens[i]
		switch {
		case tok.IsNumeral:
			s.onNumeral(tokens, i)
		case s.trySelector(tok):
		case s.tryAttribute(tok):
		default:
			s.tryName(tok)
		}
	}
	s.mergeCommon()
}

// target returns the slot attribute writes should land on.
func (s *scan) target() *order.Slot {
	if s.active != nil {
		return s.active
	}
	return &s.common
}

func (s *scan) markChanged() {
	if s.active != nil {
		s.changed = true
	}
}

// openSlot appends a fresh slot and makes it active.
func (s *scan) openSlot() *order.Slot {
	slot := order.NewSlot()
	ptr := &slot
	s.created = append(s.created, ptr)
	s.targets = append(s.targets, ptr)
	s.active = ptr
	s.changed = true
	return ptr
}

// onNumeral handles a numeral token. At utterance start it drives
// segmentation: numeral + optional size word + "pizza"-word opens N empty
// slots, numeral + optional size word + resolvable name opens one slot with
// that quantity. Only the numeral itself is consumed, so a skipped size word
// or name is re-encountered by the attribute pass. Once slots exist the
// numeral acts as an intra-utterance selector ("jedna na grubym, druga na
// cienkim").
func (s *scan) onNumeral(tokens []nlp.Token, i int) {
	n := tokens[i].NumeralValue
	if n < 1 {
		return
	}

	if s.allowNew && len(s.created) == 0 {
		j := i + 1
		if j < len(tokens) {
			if _, ok := lexicon.SizeOf(tokens[j].Lemma); ok {
				j++
			}
		}
		if j < len(tokens) {
			next := tokens[j]
			if lexicon.IsPizzaWord(next.Lemma) {
				if n > maxSlotsPerUtterance {
					n = maxSlotsPerUtterance
				}
				for k := 0; k < n; k++ {
					s.openSlot()
				}
				if n > 1 {
					// Several anonymous slots: attributes are shared until a
					// selector singles one out.
					s.active = nil
				}
				return
			}
			if s.nameMatch(next) != "" {
				// "N of this pizza", a single slot with that quantity.
				s.openSlot().Quantity = n
				return
			}
		}
	}

	if len(s.targets) > 0 && n <= len(s.targets) {
		s.active = s.targets[n-1]
	}
}

// trySelector handles ordinal and "last" words that pick one of the open
// slots as the new active target.
func (s *scan) trySelector(tok nlp.Token) bool {
	if k, ok := lexicon.OrdinalIndex(tok.Lemma); ok {
		if k >= 1 && k <= len(s.targets) {
			s.active = s.targets[k-1]
		}
		return true
	}
	if lexicon.IsLastWord(tok.Lemma) {
		if len(s.targets) > 0 {
			s.active = s.targets[len(s.targets)-1]
		}
		return true
	}
	return false
}

// tryAttribute classifies the token through the synonym tables, in fixed
// order: size, thickness, gluten. The first class that matches wins. Writes
// to the active slot overwrite earlier values (last mention wins within one
// utterance); writes to the common bucket are merge-only later.
func (s *scan) tryAttribute(tok nlp.Token) bool {
	if size, ok := lexicon.SizeOf(tok.Lemma); ok {
		s.target().Dough.BigSize = size.BigSize()
		s.markChanged()
		return true
	}
	if th, ok := lexicon.ThicknessOf(tok.Lemma); ok {
		s.target().Dough.ThickCrust = th.ThickCrust()
		s.markChanged()
		return true
	}
	if lexicon.IsGlutenFree(tok.Lemma) {
		// Set-only: nothing ever lexically resets gluten-free.
		s.target().Dough.GlutenFree = true
		s.markChanged()
		return true
	}
	return false
}

// tryName handles bare "pizza" words and fuzzy pizza-name matches. A bare
// pizza word or standalone name with no slot open yet opens one, unless a
// fill is pending; otherwise the name lands on the current target.
func (s *scan) tryName(tok nlp.Token) {
	if lexicon.IsPizzaWord(tok.Lemma) {
		if s.allowNew && !s.fillPending && len(s.created) == 0 {
			s.openSlot()
		}
		return
	}

	name := s.nameMatch(tok)
	if name == "" {
		return
	}
	if s.allowNew && len(s.targets) == 0 {
		if !s.fillPending {
			s.openSlot().PizzaName = name
		}
		return
	}
	s.target().PizzaName = name
	s.markChanged()
}

// nameMatch fuzzy-resolves a token against the catalog pizza names. Numerals,
// closed-class function words, and very short tokens never match.
func (s *scan) nameMatch(tok nlp.Token) string {
	if tok.IsNumeral || utf8.RuneCountInString(tok.Lemma) < 4 || isFunctionWord(tok.Lemma) {
		return ""
	}
	name, score, ok := s.p.names.BestMatch(tok.Lemma, s.refs.pizzas)
	if !ok {
		return ""
	}
	observe.RecordMatchScore(s.ctx, "pizza", score)
	return name
}

// mergeCommon folds the common bucket into every target slot: name and dough
// attributes only where the slot still lacks them, extras into all targets.
func (s *scan) mergeCommon() {
	c := &s.common
	for _, t := range s.targets {
		if t.PizzaName == "" && c.PizzaName != "" {
			t.PizzaName = c.PizzaName
			s.changed = true
		}
		if t.Dough.BigSize == nil && c.Dough.BigSize != nil {
			v := *c.Dough.BigSize
			t.Dough.BigSize = &v
			s.changed = true
		}
		if t.Dough.ThickCrust == nil && c.Dough.ThickCrust != nil {
			v := *c.Dough.ThickCrust
			t.Dough.ThickCrust = &v
			s.changed = true
		}
		if c.Dough.GlutenFree && !t.Dough.GlutenFree {
			t.Dough.GlutenFree = true
			s.changed = true
		}
		for _, e := range c.Extras {
			t.AddExtra(e.Ingredient, e.Quantity)
			s.changed = true
		}
	}
}
