// Package pricing computes order summaries: per-line and total prices from
// the assembled slots and the current menu. A slot whose dough is still
// unresolved prices at the cheapest variant matching what is known so far, so
// partial orders already show a lower-bound quote.
package pricing

import (
	"context"
	"fmt"

	"github.com/pizzavox/pizzavox/internal/catalog"
	"github.com/pizzavox/pizzavox/internal/order"
)

// Line is the priced view of one slot.
type Line struct {
	PizzaName string  `json:"pizza_name,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`

	// Estimated is true while the slot is incomplete, meaning the price may
	// still change as missing attributes arrive.
	Estimated bool `json:"estimated,omitempty"`
}

// Summary is the priced view of a whole order.
type Summary struct {
	Lines []Line  `json:"lines"`
	Total float64 `json:"total"`
}

// Summarize prices the given slots against the catalog.
func Summarize(ctx context.Context, cat catalog.Catalog, slots []order.Slot) (Summary, error) {
	sum := Summary{Lines: make([]Line, 0, len(slots))}
	for i, slot := range slots {
		line, err := priceSlot(ctx, cat, slot)
		if err != nil {
			return Summary{}, fmt.Errorf("pricing: slot %d: %w", i, err)
		}
		sum.Lines = append(sum.Lines, line)
		sum.Total += line.Total
	}
	return sum, nil
}

func priceSlot(ctx context.Context, cat catalog.Catalog, slot order.Slot) (Line, error) {
	line := Line{
		PizzaName: slot.PizzaName,
		Quantity:  slot.Quantity,
		Estimated: !slot.Complete(),
	}

	dough, err := cat.ResolveDough(ctx, slot.Dough.BigSize, slot.Dough.ThickCrust, slot.Dough.GlutenFree)
	if err != nil {
		return Line{}, err
	}
	if dough != nil {
		line.UnitPrice += dough.Price
	} else {
		line.Estimated = true
	}

	for _, e := range slot.Extras {
		ing, err := cat.FindIngredient(ctx, e.Ingredient)
		if err != nil {
			return Line{}, err
		}
		if ing == nil {
			continue
		}
		line.UnitPrice += ing.Price * float64(e.Quantity)
	}

	line.Total = line.UnitPrice * float64(slot.Quantity)
	return line, nil
}
