// Package events publishes order line-item lifecycle notifications so the
// kitchen display and other downstream consumers can react as an order is
// assembled, without polling the database.
package events

import "context"

// Action describes what happened to a line item.
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionFinished Action = "finished"
)

// ItemEvent is one line-item notification.
type ItemEvent struct {
	OrderRef   int64  `json:"order_ref"`
	LineItemID int64  `json:"line_item_id"`
	Action     Action `json:"action"`
	PizzaName  string `json:"pizza_name,omitempty"`
	Quantity   int    `json:"quantity"`
	Partial    bool   `json:"partial"`
}

// Publisher emits line-item events. Publishing is best-effort from the
// conversation layer's point of view: a failed publish is logged, never
// rolled into the turn's outcome.
type Publisher interface {
	PublishItem(ctx context.Context, ev ItemEvent) error
	Close()
}

// Noop is a [Publisher] that discards everything. Used in tests and when no
// broker is configured.
type Noop struct{}

var _ Publisher = Noop{}

func (Noop) PublishItem(context.Context, ItemEvent) error { return nil }
func (Noop) Close()                                       {}
