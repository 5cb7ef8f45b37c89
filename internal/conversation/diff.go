package conversation

import (
	"fmt"
	"strings"

	"github.com/pizzavox/pizzavox/internal/order"
)

// slotChanged reports whether any persisted-relevant field differs between
// two snapshots of the same slot.
func slotChanged(before, after order.Slot) bool {
	if before.PizzaName != after.PizzaName || before.Quantity != after.Quantity {
		return true
	}
	if !boolPtrEqual(before.Dough.BigSize, after.Dough.BigSize) {
		return true
	}
	if !boolPtrEqual(before.Dough.ThickCrust, after.Dough.ThickCrust) {
		return true
	}
	if before.Dough.GlutenFree != after.Dough.GlutenFree {
		return true
	}
	if len(before.Extras) != len(after.Extras) {
		return true
	}
	for i := range before.Extras {
		if before.Extras[i] != after.Extras[i] {
			return true
		}
	}
	return false
}

func boolPtrEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// diffSlots renders the "what changed this turn" audit line stored alongside
// each transcription log entry.
func diffSlots(before, after []order.Slot) string {
	var parts []string
	for i := range after {
		if i >= len(before) {
			parts = append(parts, fmt.Sprintf("slot %d added: %s", i+1, describeSlot(after[i])))
			continue
		}
		if slotChanged(before[i], after[i]) {
			parts = append(parts, fmt.Sprintf("slot %d updated: %s", i+1, describeSlot(after[i])))
		}
	}
	if len(parts) == 0 {
		return "no changes"
	}
	return strings.Join(parts, "; ")
}

func describeSlot(s order.Slot) string {
	var fields []string
	if s.PizzaName != "" {
		fields = append(fields, "pizza="+s.PizzaName)
	}
	if s.Quantity > 1 {
		fields = append(fields, fmt.Sprintf("qty=%d", s.Quantity))
	}
	if s.Dough.BigSize != nil {
		if *s.Dough.BigSize {
			fields = append(fields, "size=large")
		} else {
			fields = append(fields, "size=small")
		}
	}
	if s.Dough.ThickCrust != nil {
		if *s.Dough.ThickCrust {
			fields = append(fields, "crust=thick")
		} else {
			fields = append(fields, "crust=thin")
		}
	}
	if s.Dough.GlutenFree {
		fields = append(fields, "gluten_free")
	}
	for _, e := range s.Extras {
		fields = append(fields, fmt.Sprintf("+%s x%d", e.Ingredient, e.Quantity))
	}
	if len(fields) == 0 {
		return "empty"
	}
	return strings.Join(fields, ", ")
}
