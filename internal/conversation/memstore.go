package conversation

import (
	"context"
	"sync"

	"github.com/pizzavox/pizzavox/internal/order"
)

// MemStore is a process-local [Store] backed by a map. Suitable for tests and
// single-instance deployments.
type MemStore struct {
	mu    sync.RWMutex
	convs map[string]order.Conversation
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty [MemStore].
func NewMemStore() *MemStore {
	return &MemStore{convs: make(map[string]order.Conversation)}
}

// Get implements [Store.Get]. The returned conversation is a deep copy.
func (s *MemStore) Get(ctx context.Context, id string) (order.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.convs[id]
	if !ok {
		return order.Conversation{}, ErrNotFound
	}
	conv.Slots = conv.CloneSlots()
	return conv, nil
}

// Put implements [Store.Put].
func (s *MemStore) Put(ctx context.Context, conv order.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv.Slots = conv.CloneSlots()
	s.convs[conv.ID] = conv
	return nil
}

// Delete implements [Store.Delete]. Deleting an unknown id is a no-op.
func (s *MemStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.convs, id)
	return nil
}
