package pricing_test

import (
	"context"
	"math"
	"testing"

	"github.com/pizzavox/pizzavox/internal/catalog"
	"github.com/pizzavox/pizzavox/internal/order"
	"github.com/pizzavox/pizzavox/internal/pricing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	cat := catalog.NewMemCatalog()
	cat.AddIngredient(context.Background(), "ser", catalog.CategoryDairy, 3)
	cat.AddDough(context.Background(), false, false, false, 10)
	cat.AddDough(context.Background(), true, false, false, 14)
	cat.AddDough(context.Background(), true, true, false, 16)

	tr, fa := true, false
	slots := []order.Slot{
		{
			PizzaName: "margherita",
			Quantity:  2,
			Dough:     order.DoughSpec{BigSize: &tr, ThickCrust: &fa},
			Extras:    []order.Extra{{Ingredient: "ser", Quantity: 2}},
		},
		{
			PizzaName: "hawajska",
			Quantity:  1,
			Dough:     order.DoughSpec{BigSize: &tr, ThickCrust: &tr},
		},
	}

	sum, err := pricing.Summarize(context.Background(), cat, slots)
	if err != nil {
		t.Fatal(err)
	}
	if len(sum.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(sum.Lines))
	}
	// Large thin dough 14 plus double cheese 6, twice.
	if !almostEqual(sum.Lines[0].UnitPrice, 20) || !almostEqual(sum.Lines[0].Total, 40) {
		t.Errorf("line 0 = %+v, want unit 20 total 40", sum.Lines[0])
	}
	if sum.Lines[0].Estimated {
		t.Error("line 0 marked estimated despite complete slot and resolved dough")
	}
	if !almostEqual(sum.Lines[1].Total, 16) {
		t.Errorf("line 1 total = %v, want 16", sum.Lines[1].Total)
	}
	if !almostEqual(sum.Total, 56) {
		t.Errorf("total = %v, want 56", sum.Total)
	}
}

func TestSummarize_IncompleteSlotIsEstimated(t *testing.T) {
	t.Parallel()

	cat := catalog.NewMemCatalog()
	cat.AddDough(context.Background(), false, false, false, 10)
	cat.AddDough(context.Background(), true, false, false, 14)

	tr := true
	slots := []order.Slot{
		// Size known, thickness unknown: cheapest matching dough wins.
		{PizzaName: "margherita", Quantity: 1, Dough: order.DoughSpec{BigSize: &tr}},
	}

	sum, err := pricing.Summarize(context.Background(), cat, slots)
	if err != nil {
		t.Fatal(err)
	}
	if !sum.Lines[0].Estimated {
		t.Error("incomplete slot not marked estimated")
	}
	if !almostEqual(sum.Lines[0].UnitPrice, 14) {
		t.Errorf("unit price = %v, want 14 (cheapest large dough)", sum.Lines[0].UnitPrice)
	}
}
