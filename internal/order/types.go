// Package order defines the domain types shared across the parsing and
// conversation layers: the order slot (one pizza line-item being assembled),
// its tri-state dough attributes, and the conversation envelope that tracks
// slots across turns.
package order

import "slices"

// Field names an attribute that may still be missing from a slot.
type Field string

const (
	FieldPizzaName Field = "pizza_name"
	FieldSize      Field = "size"
	FieldThickness Field = "thickness"
)

// Status is the overall conversation state.
type Status string

const (
	// StatusCollecting is the initial state before any utterance produced a slot.
	StatusCollecting Status = "collecting"

	// StatusAwaitingMissingInfo means at least one slot has unresolved fields.
	StatusAwaitingMissingInfo Status = "awaiting_missing_info"

	// StatusAllInfoProvided means every slot is complete and the conversation
	// may be finished.
	StatusAllInfoProvided Status = "all_info_provided"
)

// DoughSpec holds the dough attributes of a slot. BigSize and ThickCrust are
// tri-state: nil means the customer has not said anything yet, which is
// distinct from an explicit false ("mała", "na cienkim"). GlutenFree has no
// unknown state in practice and defaults to false.
type DoughSpec struct {
	BigSize    *bool `json:"big_size"`
	ThickCrust *bool `json:"thick_crust"`
	GlutenFree bool  `json:"gluten_free"`
}

// Merge copies attributes from src into d for every field d does not have yet.
// Used when the common-attribute bucket is folded into the slots at the end of
// an utterance scan.
func (d *DoughSpec) Merge(src DoughSpec) {
	if d.BigSize == nil && src.BigSize != nil {
		v := *src.BigSize
		d.BigSize = &v
	}
	if d.ThickCrust == nil && src.ThickCrust != nil {
		v := *src.ThickCrust
		d.ThickCrust = &v
	}
	if src.GlutenFree {
		d.GlutenFree = true
	}
}

// Extra is one additional ingredient attached to a slot, in mention order.
type Extra struct {
	Ingredient string `json:"ingredient"`
	Quantity   int    `json:"quantity"`
}

// Slot is one pizza line-item being assembled from conversation turns.
type Slot struct {
	// PizzaName is the resolved catalog name, or empty if not yet detected.
	PizzaName string `json:"pizza_name,omitempty"`

	// Quantity is how many of this pizza the customer wants. Always >= 1.
	Quantity int `json:"quantity"`

	Dough  DoughSpec `json:"dough"`
	Extras []Extra   `json:"extras,omitempty"`

	// StorageID is the persisted line-item id, 0 before first persistence.
	StorageID int64 `json:"storage_id,omitempty"`
}

// NewSlot returns an empty slot with quantity 1.
func NewSlot() Slot {
	return Slot{Quantity: 1}
}

// MissingFields derives the set of required-but-unresolved attributes from the
// slot's current field values. It is a pure function: it never mutates the
// slot and calling it twice yields identical output.
func (s Slot) MissingFields() []Field {
	var missing []Field
	if s.PizzaName == "" {
		missing = append(missing, FieldPizzaName)
	}
	if s.Dough.BigSize == nil {
		missing = append(missing, FieldSize)
	}
	if s.Dough.ThickCrust == nil {
		missing = append(missing, FieldThickness)
	}
	return missing
}

// Complete reports whether the slot has no missing fields.
func (s Slot) Complete() bool {
	return len(s.MissingFields()) == 0
}

// AddExtra records an additional ingredient. A repeated mention of the same
// ingredient sums quantities instead of appending a duplicate ledger entry.
func (s *Slot) AddExtra(ingredient string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range s.Extras {
		if s.Extras[i].Ingredient == ingredient {
			s.Extras[i].Quantity += quantity
			return
		}
	}
	s.Extras = append(s.Extras, Extra{Ingredient: ingredient, Quantity: quantity})
}

// Clone returns a deep copy of the slot, including pointer-valued dough
// fields and the extras list. Used for building per-turn diff baselines.
func (s Slot) Clone() Slot {
	out := s
	if s.Dough.BigSize != nil {
		v := *s.Dough.BigSize
		out.Dough.BigSize = &v
	}
	if s.Dough.ThickCrust != nil {
		v := *s.Dough.ThickCrust
		out.Dough.ThickCrust = &v
	}
	out.Extras = slices.Clone(s.Extras)
	return out
}

// Conversation tracks one order-taking dialogue: the external order it
// belongs to, the slots assembled so far, and the derived overall status.
type Conversation struct {
	ID       string `json:"id"`
	OrderRef int64  `json:"order_ref"`
	Slots    []Slot `json:"slots"`
	Status   Status `json:"status"`
}

// CloneSlots returns a deep copy of the conversation's slot list.
func (c *Conversation) CloneSlots() []Slot {
	out := make([]Slot, len(c.Slots))
	for i, s := range c.Slots {
		out[i] = s.Clone()
	}
	return out
}

// RecomputeStatus derives the status from the slots: all complete (and at
// least one present) means all_info_provided, otherwise awaiting_missing_info.
// A conversation with no slots at all stays in collecting.
func (c *Conversation) RecomputeStatus() {
	if len(c.Slots) == 0 {
		c.Status = StatusCollecting
		return
	}
	for _, s := range c.Slots {
		if !s.Complete() {
			c.Status = StatusAwaitingMissingInfo
			return
		}
	}
	c.Status = StatusAllInfoProvided
}
