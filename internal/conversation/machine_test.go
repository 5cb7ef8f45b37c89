package conversation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pizzavox/pizzavox/internal/catalog"
	"github.com/pizzavox/pizzavox/internal/conversation"
	"github.com/pizzavox/pizzavox/internal/order"
	"github.com/pizzavox/pizzavox/internal/orderstore"
	"github.com/pizzavox/pizzavox/internal/parser"
)

type fixture struct {
	machine *conversation.Machine
	orders  *orderstore.MemStore
	states  *conversation.MemStore
	catalog *catalog.MemCatalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cat := catalog.NewMemCatalog()
	cat.AddPizza(context.Background(), "margherita")
	cat.AddPizza(context.Background(), "hawajska")
	cat.AddPizza(context.Background(), "pepperoni")
	cat.AddIngredient(context.Background(), "ser", catalog.CategoryDairy, 3)
	cat.AddIngredient(context.Background(), "pieczarki", catalog.CategoryVegetable, 2.5)
	cat.AddIngredient(context.Background(), "boczek", catalog.CategoryMeat, 4)
	// Every size/thickness combination, regular flour only.
	cat.AddDough(context.Background(), false, false, false, 10)
	cat.AddDough(context.Background(), false, true, false, 12)
	cat.AddDough(context.Background(), true, false, false, 14)
	cat.AddDough(context.Background(), true, true, false, 16)

	orders := orderstore.NewMemStore()
	states := conversation.NewMemStore()
	m, err := conversation.NewMachine(conversation.Config{
		Parser:  parser.New(cat),
		Catalog: cat,
		Orders:  orders,
		States:  states,
	})
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{machine: m, orders: orders, states: states, catalog: cat}
}

func TestMachine_FullOrderInOneTurn(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	conv, err := f.machine.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if conv.Status != order.StatusCollecting {
		t.Errorf("initial status = %s, want collecting", conv.Status)
	}

	res, err := f.machine.Continue(ctx, conv.ID,
		"poproszę dwie duże pizze margherita, jedna na grubym, druga na cienkim cieście")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Understood {
		t.Fatal("turn not understood")
	}
	if res.Conversation.Status != order.StatusAllInfoProvided {
		t.Fatalf("status = %s, want all_info_provided (slots: %+v)",
			res.Conversation.Status, res.Conversation.Slots)
	}
	if len(res.Conversation.Slots) != 2 {
		t.Fatalf("slots = %d, want 2", len(res.Conversation.Slots))
	}
	for i, slot := range res.Conversation.Slots {
		if slot.StorageID == 0 {
			t.Errorf("slot %d not persisted", i)
		}
		li, ok := f.orders.LineItem(slot.StorageID)
		if !ok {
			t.Fatalf("slot %d line item missing from store", i)
		}
		if li.Partial {
			t.Errorf("slot %d persisted as partial despite being complete", i)
		}
		if li.DoughID == nil {
			t.Errorf("slot %d has no resolved dough", i)
		}
	}

	final, err := f.machine.Finish(ctx, conv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(final.Slots) != 2 {
		t.Errorf("final slots = %d, want 2", len(final.Slots))
	}
	if _, err := f.states.Get(ctx, conv.ID); !errors.Is(err, conversation.ErrNotFound) {
		t.Errorf("state still present after finish: %v", err)
	}
}

func TestMachine_IncrementalBackfillAcrossTurns(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	conv, err := f.machine.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}

	res, err := f.machine.Continue(ctx, conv.ID, "dwie pizze poproszę")
	if err != nil {
		t.Fatal(err)
	}
	if res.Conversation.Status != order.StatusAwaitingMissingInfo {
		t.Fatalf("status = %s, want awaiting_missing_info", res.Conversation.Status)
	}
	if len(res.Conversation.Slots) != 2 {
		t.Fatalf("slots = %d, want 2", len(res.Conversation.Slots))
	}
	for i, slot := range res.Conversation.Slots {
		li, ok := f.orders.LineItem(slot.StorageID)
		if !ok || !li.Partial {
			t.Errorf("slot %d should be persisted as partial (got %+v, ok=%v)", i, li, ok)
		}
	}

	if _, err := f.machine.Continue(ctx, conv.ID, "obie margherita"); err != nil {
		t.Fatal(err)
	}
	res, err = f.machine.Continue(ctx, conv.ID, "duże na cienkim cieście")
	if err != nil {
		t.Fatal(err)
	}
	if res.Conversation.Status != order.StatusAllInfoProvided {
		t.Fatalf("status = %s, want all_info_provided (slots: %+v)",
			res.Conversation.Status, res.Conversation.Slots)
	}
	for i, slot := range res.Conversation.Slots {
		if slot.PizzaName != "margherita" {
			t.Errorf("slot %d name = %q", i, slot.PizzaName)
		}
		li, _ := f.orders.LineItem(slot.StorageID)
		if li.Partial {
			t.Errorf("slot %d still partial after completion", i)
		}
	}
}

func TestMachine_ReferenceAmendsOneSlot(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	conv, err := f.machine.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	res, err := f.machine.Continue(ctx, conv.ID, "dwie duże pizze margherita na cienkim cieście")
	if err != nil {
		t.Fatal(err)
	}
	if res.Conversation.Status != order.StatusAllInfoProvided {
		t.Fatalf("setup turn left status %s (slots: %+v)", res.Conversation.Status, res.Conversation.Slots)
	}

	res, err = f.machine.Continue(ctx, conv.ID, "do tej drugiej dodaj podwójny ser")
	if err != nil {
		t.Fatal(err)
	}
	slots := res.Conversation.Slots
	if len(slots[0].Extras) != 0 {
		t.Errorf("slot 0 extras = %v, want none", slots[0].Extras)
	}
	if len(slots[1].Extras) != 1 || slots[1].Extras[0] != (order.Extra{Ingredient: "ser", Quantity: 2}) {
		t.Fatalf("slot 1 extras = %v, want [{ser 2}]", slots[1].Extras)
	}

	// Completion must be monotonic: the amendment turn may not reopen fields.
	if res.Conversation.Status != order.StatusAllInfoProvided {
		t.Errorf("status regressed to %s", res.Conversation.Status)
	}

	extras := f.orders.Extras(slots[1].StorageID)
	if len(extras) != 1 {
		t.Fatalf("persisted extras = %v, want one ingredient", extras)
	}
	for _, qty := range extras {
		if qty != 2 {
			t.Errorf("persisted quantity = %d, want 2", qty)
		}
	}
}

func TestMachine_RepeatedExtraSumsAndStaysIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	conv, _ := f.machine.Start(ctx)
	if _, err := f.machine.Continue(ctx, conv.ID, "duża margherita na cienkim z serem"); err != nil {
		t.Fatal(err)
	}
	res, err := f.machine.Continue(ctx, conv.ID, "do tej pierwszej dodaj podwójny ser")
	if err != nil {
		t.Fatal(err)
	}

	slot := res.Conversation.Slots[0]
	if len(slot.Extras) != 1 || slot.Extras[0].Quantity != 3 {
		t.Fatalf("extras = %v, want [{ser 3}] after summing", slot.Extras)
	}
	extras := f.orders.Extras(slot.StorageID)
	if len(extras) != 1 {
		t.Fatalf("persisted extras rows = %d, want 1", len(extras))
	}
	for _, qty := range extras {
		if qty != 3 {
			t.Errorf("persisted quantity = %d, want 3", qty)
		}
	}
}

func TestMachine_NotUnderstoodIsNoOp(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	conv, _ := f.machine.Start(ctx)
	res, err := f.machine.Continue(ctx, conv.ID, "halo halo słychać mnie")
	if err != nil {
		t.Fatal(err)
	}
	if res.Understood {
		t.Error("Understood = true for small talk")
	}
	if res.Message == "" {
		t.Error("no clarification message returned")
	}
	if len(res.Conversation.Slots) != 0 {
		t.Errorf("slots = %d, want 0", len(res.Conversation.Slots))
	}
	if logs := f.orders.Logs(); len(logs) != 0 {
		t.Errorf("no-op turn wrote %d audit records", len(logs))
	}
}

func TestMachine_TranscriptionLogPerTurn(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	conv, _ := f.machine.Start(ctx)
	if _, err := f.machine.Continue(ctx, conv.ID, "jedną dużą hawajską"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.machine.Continue(ctx, conv.ID, "na grubym cieście"); err != nil {
		t.Fatal(err)
	}

	logs := f.orders.Logs()
	if len(logs) != 2 {
		t.Fatalf("audit records = %d, want 2", len(logs))
	}
	if logs[0].RawText != "jedną dużą hawajską" {
		t.Errorf("first log raw text = %q", logs[0].RawText)
	}
	if logs[0].Diff == "" || logs[0].Diff == "no changes" {
		t.Errorf("first log diff = %q, want a change description", logs[0].Diff)
	}
	if len(logs[1].Snapshot) == 0 {
		t.Error("second log carries no slot snapshot")
	}
}

func TestMachine_FinishRequiresCompleteOrder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	conv, _ := f.machine.Start(ctx)
	if _, err := f.machine.Continue(ctx, conv.ID, "dwie pizze"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.machine.Finish(ctx, conv.ID); !errors.Is(err, conversation.ErrIncomplete) {
		t.Fatalf("Finish on incomplete order = %v, want ErrIncomplete", err)
	}
}

func TestMachine_UnknownConversation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.machine.Continue(ctx, "no-such-id", "dwie pizze"); !errors.Is(err, conversation.ErrNotFound) {
		t.Fatalf("Continue = %v, want ErrNotFound", err)
	}
	if _, err := f.machine.Finish(ctx, "no-such-id"); !errors.Is(err, conversation.ErrNotFound) {
		t.Fatalf("Finish = %v, want ErrNotFound", err)
	}
}

// failingStore wraps a Store and fails every line-item creation.
type failingStore struct {
	orderstore.Store
}

func (f *failingStore) CreateLineItem(ctx context.Context, li orderstore.LineItem) (int64, error) {
	return 0, errors.New("boom")
}

func TestMachine_PersistenceFailureAbortsTurn(t *testing.T) {
	t.Parallel()

	cat := catalog.NewMemCatalog()
	cat.AddPizza(context.Background(), "margherita")
	cat.AddDough(context.Background(), true, false, false, 14)

	states := conversation.NewMemStore()
	m, err := conversation.NewMachine(conversation.Config{
		Parser:  parser.New(cat),
		Catalog: cat,
		Orders:  &failingStore{Store: orderstore.NewMemStore()},
		States:  states,
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	conv, err := m.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Continue(ctx, conv.ID, "jedną dużą margheritę"); err == nil {
		t.Fatal("Continue succeeded despite persistence failure")
	}

	// The stored state must not have advanced.
	stored, err := states.Get(ctx, conv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.Slots) != 0 {
		t.Errorf("stored slots = %d after failed turn, want 0", len(stored.Slots))
	}
	if stored.Status != order.StatusCollecting {
		t.Errorf("stored status = %s, want collecting", stored.Status)
	}
}
