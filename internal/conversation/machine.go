package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pizzavox/pizzavox/internal/catalog"
	"github.com/pizzavox/pizzavox/internal/events"
	"github.com/pizzavox/pizzavox/internal/observe"
	"github.com/pizzavox/pizzavox/internal/order"
	"github.com/pizzavox/pizzavox/internal/orderstore"
	"github.com/pizzavox/pizzavox/internal/parser"
)

// ErrIncomplete is returned by [Machine.Finish] while at least one slot still
// has missing fields.
var ErrIncomplete = errors.New("conversation: order incomplete")

const msgNotUnderstood = "Przepraszam, nie zrozumiałem. Możesz powtórzyć?"

var fieldLabels = map[order.Field]string{
	order.FieldPizzaName: "nazwa pizzy",
	order.FieldSize:      "rozmiar",
	order.FieldThickness: "grubość ciasta",
}

// TurnResult is what one processed utterance hands back to the caller.
type TurnResult struct {
	Conversation order.Conversation

	// Understood is false when the utterance changed nothing; the
	// conversation state is then returned as-is.
	Understood bool

	// Message is the customer-facing prompt: a clarification request, the
	// list of still-missing attributes, or a completion confirmation.
	Message string
}

// Config carries the collaborators a [Machine] needs.
type Config struct {
	Parser  *parser.Parser
	Catalog catalog.Catalog
	Orders  orderstore.Store
	States  Store

	// Events is optional; nil disables publishing.
	Events events.Publisher

	// Logger is optional and defaults to [slog.Default].
	Logger *slog.Logger
}

func (c *Config) validate() error {
	var errs []error
	if c.Parser == nil {
		errs = append(errs, errors.New("parser is required"))
	}
	if c.Catalog == nil {
		errs = append(errs, errors.New("catalog is required"))
	}
	if c.Orders == nil {
		errs = append(errs, errors.New("order store is required"))
	}
	if c.States == nil {
		errs = append(errs, errors.New("state store is required"))
	}
	return errors.Join(errs...)
}

// Machine drives order-taking dialogues. Turns on the same conversation are
// serialized by a per-id mutex; distinct conversations proceed concurrently.
type Machine struct {
	parser  *parser.Parser
	catalog catalog.Catalog
	orders  orderstore.Store
	states  Store
	events  events.Publisher
	log     *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMachine validates the config and builds a machine.
func NewMachine(cfg Config) (*Machine, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("conversation: invalid config: %w", err)
	}
	if cfg.Events == nil {
		cfg.Events = events.Noop{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Machine{
		parser:  cfg.Parser,
		catalog: cfg.Catalog,
		orders:  cfg.Orders,
		states:  cfg.States,
		events:  cfg.Events,
		log:     cfg.Logger,
		locks:   make(map[string]*sync.Mutex),
	}, nil
}

func (m *Machine) lockFor(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

func (m *Machine) dropLock(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, id)
}

// Start opens a fresh order and the conversation tracking it.
func (m *Machine) Start(ctx context.Context) (order.Conversation, error) {
	ref, err := m.orders.CreateOrder(ctx)
	if err != nil {
		return order.Conversation{}, fmt.Errorf("conversation: start: %w", err)
	}
	conv := order.Conversation{
		ID:       uuid.NewString(),
		OrderRef: ref,
		Status:   order.StatusCollecting,
	}
	if err := m.states.Put(ctx, conv); err != nil {
		return order.Conversation{}, fmt.Errorf("conversation: start: %w", err)
	}
	observe.AddActiveConversations(ctx, 1)
	m.log.InfoContext(ctx, "conversation started", "conversation_id", conv.ID, "order_ref", ref)
	return conv, nil
}

// Continue processes one utterance within an existing conversation. The turn
// is atomic against persistence: if any write to the order store fails, the
// stored conversation state does not advance and the error is returned.
func (m *Machine) Continue(ctx context.Context, id, utterance string) (TurnResult, error) {
	l := m.lockFor(id)
	l.Lock()
	defer l.Unlock()

	conv, err := m.states.Get(ctx, id)
	if err != nil {
		return TurnResult{}, err
	}

	baseline := conv.CloneSlots()

	start := time.Now()
	res, err := m.parser.Parse(ctx, utterance, conv.Slots)
	observe.RecordParseDuration(ctx, time.Since(start))
	if err != nil {
		return TurnResult{}, fmt.Errorf("conversation: parse turn: %w", err)
	}
	conv.Slots = append(conv.Slots, res.NewSlots...)

	if !res.Understood {
		observe.RecordTurn(ctx, "not_understood")
		m.log.InfoContext(ctx, "utterance not understood",
			"conversation_id", id, "utterance", utterance)
		return TurnResult{Conversation: conv, Understood: false, Message: msgNotUnderstood}, nil
	}

	if err := m.persistTurn(ctx, &conv, baseline, utterance); err != nil {
		observe.RecordTurn(ctx, "persist_failed")
		return TurnResult{}, err
	}

	conv.RecomputeStatus()
	if err := m.states.Put(ctx, conv); err != nil {
		return TurnResult{}, fmt.Errorf("conversation: save state: %w", err)
	}

	observe.RecordTurn(ctx, "understood")
	m.log.InfoContext(ctx, "turn processed",
		"conversation_id", id,
		"slots", len(conv.Slots),
		"status", conv.Status,
		"referenced_slot", res.TargetIndex)
	return TurnResult{Conversation: conv, Understood: true, Message: statusMessage(conv)}, nil
}

// Snapshot returns the current state of a conversation without mutating it.
func (m *Machine) Snapshot(ctx context.Context, id string) (order.Conversation, error) {
	return m.states.Get(ctx, id)
}

// Finish closes a complete conversation: it emits the final events, discards
// the in-memory state, and returns the final snapshot. Only permitted once
// every slot is complete.
func (m *Machine) Finish(ctx context.Context, id string) (order.Conversation, error) {
	l := m.lockFor(id)
	l.Lock()
	conv, err := m.finishLocked(ctx, id)
	l.Unlock()
	if err != nil {
		return order.Conversation{}, err
	}
	// The lock entry is removed only after unlock, so a concurrent Continue
	// can never mint a fresh mutex while this turn is still running.
	m.dropLock(id)
	return conv, nil
}

func (m *Machine) finishLocked(ctx context.Context, id string) (order.Conversation, error) {
	conv, err := m.states.Get(ctx, id)
	if err != nil {
		return order.Conversation{}, err
	}
	if conv.Status != order.StatusAllInfoProvided {
		return order.Conversation{}, ErrIncomplete
	}

	for _, slot := range conv.Slots {
		m.publish(ctx, events.ItemEvent{
			OrderRef:   conv.OrderRef,
			LineItemID: slot.StorageID,
			Action:     events.ActionFinished,
			PizzaName:  slot.PizzaName,
			Quantity:   slot.Quantity,
		})
	}

	if err := m.states.Delete(ctx, id); err != nil {
		return order.Conversation{}, fmt.Errorf("conversation: finish: %w", err)
	}
	observe.AddActiveConversations(ctx, -1)
	observe.RecordTurn(ctx, "finished")
	m.log.InfoContext(ctx, "conversation finished",
		"conversation_id", id, "order_ref", conv.OrderRef, "slots", len(conv.Slots))
	return conv, nil
}

// persistTurn writes every new or changed slot through the order store and
// appends the audit record. Any failure aborts the turn before the state
// store advances, so parsing and persistence stay atomic per turn.
func (m *Machine) persistTurn(ctx context.Context, conv *order.Conversation, baseline []order.Slot, rawText string) error {
	for i := range conv.Slots {
		slot := &conv.Slots[i]
		isNew := i >= len(baseline)
		if !isNew && !slotChanged(baseline[i], *slot) {
			continue
		}

		li, err := m.buildLineItem(ctx, conv.OrderRef, *slot)
		if err != nil {
			return err
		}

		if slot.StorageID == 0 {
			itemID, err := m.orders.CreateLineItem(ctx, li)
			if err != nil {
				return fmt.Errorf("conversation: persist slot %d: %w", i, err)
			}
			slot.StorageID = itemID
			m.publish(ctx, events.ItemEvent{
				OrderRef: conv.OrderRef, LineItemID: itemID, Action: events.ActionCreated,
				PizzaName: slot.PizzaName, Quantity: slot.Quantity, Partial: li.Partial,
			})
		} else {
			li.ID = slot.StorageID
			if err := m.orders.UpdateLineItem(ctx, li); err != nil {
				return fmt.Errorf("conversation: persist slot %d: %w", i, err)
			}
			m.publish(ctx, events.ItemEvent{
				OrderRef: conv.OrderRef, LineItemID: li.ID, Action: events.ActionUpdated,
				PizzaName: slot.PizzaName, Quantity: slot.Quantity, Partial: li.Partial,
			})
		}

		for _, e := range slot.Extras {
			ing, err := m.catalog.FindIngredient(ctx, e.Ingredient)
			if err != nil {
				return fmt.Errorf("conversation: resolve extra %q: %w", e.Ingredient, err)
			}
			if ing == nil {
				// The parser only emits catalog-matched names, so a miss here
				// means the menu changed mid-conversation. Skip, keep going.
				m.log.WarnContext(ctx, "extra ingredient vanished from catalog", "ingredient", e.Ingredient)
				continue
			}
			if err := m.orders.AddLineItemExtra(ctx, slot.StorageID, ing.ID, e.Quantity); err != nil {
				return fmt.Errorf("conversation: persist extra %q: %w", e.Ingredient, err)
			}
		}
	}

	snapshot, err := json.Marshal(conv.Slots)
	if err != nil {
		return fmt.Errorf("conversation: encode snapshot: %w", err)
	}
	diff := diffSlots(baseline, conv.Slots)
	if err := m.orders.AppendTranscriptionLog(ctx, conv.OrderRef, rawText, diff, snapshot); err != nil {
		return fmt.Errorf("conversation: append audit log: %w", err)
	}
	return nil
}

// buildLineItem resolves a slot's catalog references. Both lookups tolerate
// absence: an unresolved pizza or dough simply stays nil and the line item is
// marked partial.
func (m *Machine) buildLineItem(ctx context.Context, orderRef int64, slot order.Slot) (orderstore.LineItem, error) {
	li := orderstore.LineItem{
		OrderRef: orderRef,
		Quantity: slot.Quantity,
		Partial:  !slot.Complete(),
	}
	if slot.PizzaName != "" {
		p, err := m.catalog.FindPizza(ctx, slot.PizzaName)
		if err != nil {
			return li, fmt.Errorf("conversation: resolve pizza %q: %w", slot.PizzaName, err)
		}
		if p != nil {
			li.PizzaID = &p.ID
		}
	}
	d, err := m.catalog.ResolveDough(ctx, slot.Dough.BigSize, slot.Dough.ThickCrust, slot.Dough.GlutenFree)
	if err != nil {
		return li, fmt.Errorf("conversation: resolve dough: %w", err)
	}
	if d != nil {
		li.DoughID = &d.ID
	}
	return li, nil
}

func (m *Machine) publish(ctx context.Context, ev events.ItemEvent) {
	if err := m.events.PublishItem(ctx, ev); err != nil {
		m.log.WarnContext(ctx, "event publish failed",
			"order_ref", ev.OrderRef, "line_item_id", ev.LineItemID, "error", err)
	}
}

// statusMessage renders the customer-facing prompt for the current state.
func statusMessage(conv order.Conversation) string {
	if conv.Status == order.StatusAllInfoProvided {
		return "Zamówienie kompletne. Czy mogę je zatwierdzić?"
	}
	var parts []string
	for i, slot := range conv.Slots {
		missing := slot.MissingFields()
		if len(missing) == 0 {
			continue
		}
		labels := make([]string, len(missing))
		for j, f := range missing {
			labels[j] = fieldLabels[f]
		}
		parts = append(parts, fmt.Sprintf("pizza %d: %s", i+1, strings.Join(labels, ", ")))
	}
	if len(parts) == 0 {
		return "Słucham dalej."
	}
	return "Brakuje jeszcze: " + strings.Join(parts, "; ")
}
