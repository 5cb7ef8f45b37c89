package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// SubjectOrderItems is the subject line-item events are published on.
const SubjectOrderItems = "orders.items"

// NATSPublisher is a [Publisher] backed by a NATS connection.
type NATSPublisher struct {
	nc *nats.Conn
}

var _ Publisher = (*NATSPublisher)(nil)

// NewNATSPublisher connects to the given NATS URL.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("pizzavox"))
	if err != nil {
		return nil, fmt.Errorf("events: connect to nats: %w", err)
	}
	return &NATSPublisher{nc: nc}, nil
}

// PublishItem implements [Publisher.PublishItem].
func (p *NATSPublisher) PublishItem(ctx context.Context, ev ItemEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events: marshal item event: %w", err)
	}
	if err := p.nc.Publish(SubjectOrderItems, data); err != nil {
		return fmt.Errorf("events: publish item event: %w", err)
	}
	return nil
}

// Conn exposes the underlying connection for health checks.
func (p *NATSPublisher) Conn() *nats.Conn { return p.nc }

// Close drains and closes the underlying connection.
func (p *NATSPublisher) Close() {
	_ = p.nc.Drain()
}
