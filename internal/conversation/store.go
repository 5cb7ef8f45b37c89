// Package conversation orchestrates order-taking dialogues: it runs each
// utterance through the parser, persists the resulting slots, and tracks the
// conversation state across turns behind a pluggable state store.
package conversation

import (
	"context"
	"errors"

	"github.com/pizzavox/pizzavox/internal/order"
)

// ErrNotFound is returned when a conversation id is unknown, typically
// because it was finished or expired.
var ErrNotFound = errors.New("conversation: not found")

// Store holds in-flight conversation state keyed by conversation id. Get must
// return a copy the caller may mutate freely; the stored state only advances
// through Put. Distinct ids never contend.
type Store interface {
	Get(ctx context.Context, id string) (order.Conversation, error)
	Put(ctx context.Context, conv order.Conversation) error
	Delete(ctx context.Context, id string) error
}
