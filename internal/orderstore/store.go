// Package orderstore persists assembled orders: line items, their extra
// ingredients, and the append-only transcription audit log.
package orderstore

import "context"

// LineItem is one persisted pizza line. PizzaID and DoughID are nil while the
// corresponding attribute is still unresolved in the conversation.
type LineItem struct {
	ID       int64
	OrderRef int64
	PizzaID  *int64
	DoughID  *int64
	Quantity int

	// Partial marks a line item persisted before all required attributes
	// were collected.
	Partial bool
}

// Store is the persistence interface the conversation layer writes through.
type Store interface {
	// CreateOrder opens a new order and returns its reference.
	CreateOrder(ctx context.Context) (int64, error)

	// CreateLineItem inserts a line item and returns its id.
	CreateLineItem(ctx context.Context, li LineItem) (int64, error)

	// UpdateLineItem rewrites the mutable fields of an existing line item.
	UpdateLineItem(ctx context.Context, li LineItem) error

	// AddLineItemExtra records an extra ingredient on a line item. It is
	// idempotent per (lineItemID, ingredientID): a repeated call overwrites
	// the quantity instead of duplicating the row.
	AddLineItemExtra(ctx context.Context, lineItemID, ingredientID int64, quantity int) error

	// AppendTranscriptionLog appends one audit record: the raw utterance,
	// a human-readable diff of what changed, and the full slot snapshot.
	AppendTranscriptionLog(ctx context.Context, orderRef int64, rawText, diff string, snapshot []byte) error
}
