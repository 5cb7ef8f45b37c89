// Package parser turns one transcribed Polish utterance into structured order
// slots. A single pass over the token stream segments new slots, assigns
// size / thickness / gluten / name attributes to the active slot or the
// common bucket, extracts extra-ingredient phrases, and resolves references
// to slots from earlier turns ("do tej drugiej ...").
package parser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pizzavox/pizzavox/internal/catalog"
	"github.com/pizzavox/pizzavox/internal/lexicon"
	"github.com/pizzavox/pizzavox/internal/nlp"
	"github.com/pizzavox/pizzavox/internal/order"
)

// maxSlotsPerUtterance caps how many empty slots a single numeral may open.
// Transcription glitches occasionally produce absurd numbers.
const maxSlotsPerUtterance = 10

// Result is the outcome of parsing one utterance against the current slots.
type Result struct {
	// NewSlots are slots this utterance opened, in mention order.
	NewSlots []order.Slot

	// TargetIndex is the index of the existing slot an explicit reference
	// selected, or -1 when the utterance referenced no earlier slot.
	TargetIndex int

	// Understood reports whether the utterance changed anything: opened a
	// slot, resolved a reference, or filled at least one attribute or extra.
	Understood bool
}

// Option configures a [Parser].
type Option func(*Parser)

// WithAnalyzer replaces the default rule-based token analyzer.
func WithAnalyzer(a nlp.Analyzer) Option {
	return func(p *Parser) {
		p.analyzer = a
	}
}

// WithNameMatcher replaces the pizza-name fuzzy matcher.
func WithNameMatcher(m *lexicon.Matcher) Option {
	return func(p *Parser) {
		p.names = m
	}
}

// WithIngredientMatcher replaces the ingredient fuzzy matcher.
func WithIngredientMatcher(m *lexicon.Matcher) Option {
	return func(p *Parser) {
		p.ingredients = m
	}
}

// WithLogger sets the logger. Defaults to [slog.Default].
func WithLogger(log *slog.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// Parser is the utterance parser. It is read-only after construction and safe
// to share across conversations; all per-utterance state lives in the scan.
type Parser struct {
	catalog     catalog.Catalog
	analyzer    nlp.Analyzer
	names       *lexicon.Matcher
	ingredients *lexicon.Matcher
	log         *slog.Logger
}

// New creates a parser over the given menu catalog.
func New(cat catalog.Catalog, opts ...Option) *Parser {
	p := &Parser{
		catalog:     cat,
		analyzer:    nlp.NewRuleAnalyzer(),
		names:       lexicon.NewMatcher(lexicon.WithMinScore(lexicon.DefaultNameThreshold)),
		ingredients: lexicon.NewMatcher(lexicon.WithMinScore(lexicon.DefaultIngredientThreshold)),
		log:         slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// refLists holds the per-parse catalog snapshot the fuzzy matchers run
// against. Queried fresh on every parse so menu edits show up immediately.
type refLists struct {
	pizzas      []string
	ingredients []string
}

func (p *Parser) loadRefs(ctx context.Context) (refLists, error) {
	pizzas, err := p.catalog.PizzaNames(ctx)
	if err != nil {
		return refLists{}, fmt.Errorf("parser: load pizza names: %w", err)
	}
	ingredients, err := p.catalog.IngredientNames(ctx)
	if err != nil {
		return refLists{}, fmt.Errorf("parser: load ingredient names: %w", err)
	}
	return refLists{pizzas: pizzas, ingredients: ingredients}, nil
}

// Parse processes one utterance. Existing slots may be mutated in place when
// the utterance references or backfills them, so callers that need a pristine
// baseline must pass clones. The returned slots in [Result.NewSlots] are not
// yet part of existing; appending them is the caller's job.
func (p *Parser) Parse(ctx context.Context, text string, existing []order.Slot) (Result, error) {
	tokens := p.analyzer.Analyze(text)
	refs, err := p.loadRefs(ctx)
	if err != nil {
		return Result{}, err
	}

	res := Result{TargetIndex: -1}

	// An explicit reference locks the whole utterance onto one slot.
	if idx, ok := p.resolveReference(tokens, existing, refs.pizzas); ok {
		sc := &scan{
			p:       p,
			ctx:     ctx,
			refs:    refs,
			targets: []*order.Slot{&existing[idx]},
			active:  &existing[idx],
		}
		sc.run(tokens)
		res.TargetIndex = idx
		res.Understood = true
		p.log.DebugContext(ctx, "utterance amended referenced slot",
			"slot_index", idx, "tokens", len(tokens))
		return res, nil
	}

	// Fresh segmentation: does this utterance open new slots? While earlier
	// slots still miss fields, a lone pizza name or bare pizza word answers
	// the missing-info prompt instead of ordering another pizza, so only
	// explicit numeral patterns may segment then.
	incomplete := false
	for i := range existing {
		if !existing[i].Complete() {
			incomplete = true
			break
		}
	}
	sc := &scan{p: p, ctx: ctx, refs: refs, allowNew: true, fillPending: incomplete}
	sc.run(tokens)
	if len(sc.created) > 0 {
		res.NewSlots = make([]order.Slot, len(sc.created))
		for i, s := range sc.created {
			res.NewSlots[i] = *s
		}
		res.Understood = true
		p.log.DebugContext(ctx, "utterance opened slots",
			"count", len(res.NewSlots), "tokens", len(tokens))
		return res, nil
	}

	// No new slots and no reference: backfill every incomplete slot.
	var fill []*order.Slot
	for i := range existing {
		if !existing[i].Complete() {
			fill = append(fill, &existing[i])
		}
	}
	if len(fill) == 0 {
		return res, nil
	}
	bf := &scan{p: p, ctx: ctx, refs: refs, targets: fill}
	bf.run(tokens)
	res.Understood = bf.changed
	p.log.DebugContext(ctx, "utterance backfilled slots",
		"incomplete", len(fill), "understood", res.Understood)
	return res, nil
}

// isFunctionWord reports whether a lemma belongs to one of the closed lexicon
// classes and therefore must never be fuzzy-matched as a pizza or ingredient
// name.
func isFunctionWord(lemma string) bool {
	if _, ok := lexicon.SizeOf(lemma); ok {
		return true
	}
	if _, ok := lexicon.ThicknessOf(lemma); ok {
		return true
	}
	if _, ok := lexicon.OrdinalIndex(lemma); ok {
		return true
	}
	if _, ok := lexicon.MultiplierValue(lemma); ok {
		return true
	}
	return lexicon.IsGlutenFree(lemma) ||
		lexicon.IsLastWord(lemma) ||
		lexicon.IsConjunction(lemma) ||
		lexicon.IsExtrasMarker(lemma) ||
		lexicon.IsPizzaWord(lemma)
}
