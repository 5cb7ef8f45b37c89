package orderstore_test

import (
	"context"
	"testing"

	"github.com/pizzavox/pizzavox/internal/orderstore"
)

func TestMemStore_LineItemLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := orderstore.NewMemStore()

	orderRef, err := store.CreateOrder(ctx)
	if err != nil {
		t.Fatal(err)
	}

	pizzaID := int64(7)
	id, err := store.CreateLineItem(ctx, orderstore.LineItem{
		OrderRef: orderRef, PizzaID: &pizzaID, Quantity: 2, Partial: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	doughID := int64(3)
	err = store.UpdateLineItem(ctx, orderstore.LineItem{
		ID: id, PizzaID: &pizzaID, DoughID: &doughID, Quantity: 2, Partial: false,
	})
	if err != nil {
		t.Fatal(err)
	}

	li, ok := store.LineItem(id)
	if !ok {
		t.Fatal("line item vanished after update")
	}
	if li.Partial {
		t.Error("Partial = true after completing update")
	}
	if li.DoughID == nil || *li.DoughID != doughID {
		t.Errorf("DoughID = %v, want %d", li.DoughID, doughID)
	}
	if li.OrderRef != orderRef {
		t.Errorf("OrderRef = %d, want %d (must survive updates)", li.OrderRef, orderRef)
	}
}

func TestMemStore_UpdateMissingLineItem(t *testing.T) {
	t.Parallel()

	store := orderstore.NewMemStore()
	if err := store.UpdateLineItem(context.Background(), orderstore.LineItem{ID: 42}); err == nil {
		t.Fatal("expected error updating a line item that was never created")
	}
}

func TestMemStore_ExtrasAreIdempotentPerIngredient(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := orderstore.NewMemStore()
	orderRef, _ := store.CreateOrder(ctx)
	id, err := store.CreateLineItem(ctx, orderstore.LineItem{OrderRef: orderRef, Quantity: 1, Partial: true})
	if err != nil {
		t.Fatal(err)
	}

	if err := store.AddLineItemExtra(ctx, id, 11, 1); err != nil {
		t.Fatal(err)
	}
	// A repeat with the summed quantity overwrites, never duplicates.
	if err := store.AddLineItemExtra(ctx, id, 11, 3); err != nil {
		t.Fatal(err)
	}

	extras := store.Extras(id)
	if len(extras) != 1 {
		t.Fatalf("extras = %v, want a single ingredient entry", extras)
	}
	if extras[11] != 3 {
		t.Errorf("quantity = %d, want 3", extras[11])
	}
}

func TestMemStore_TranscriptionLogAppends(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := orderstore.NewMemStore()
	orderRef, _ := store.CreateOrder(ctx)

	for _, text := range []string{"dwie pizze", "obie margherita"} {
		if err := store.AppendTranscriptionLog(ctx, orderRef, text, "slots changed", []byte(`{}`)); err != nil {
			t.Fatal(err)
		}
	}

	logs := store.Logs()
	if len(logs) != 2 {
		t.Fatalf("logs = %d entries, want 2", len(logs))
	}
	if logs[0].RawText != "dwie pizze" || logs[1].RawText != "obie margherita" {
		t.Errorf("log order not preserved: %+v", logs)
	}
}
