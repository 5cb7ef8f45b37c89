package orderstore

import (
	"context"
	"fmt"
	"sync"
)

// LogEntry is one in-memory transcription audit record.
type LogEntry struct {
	OrderRef int64
	RawText  string
	Diff     string
	Snapshot []byte
}

// MemStore is a thread-safe, in-memory [Store] for tests and local runs.
type MemStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]LineItem
	extras map[int64]map[int64]int
	logs   []LogEntry
	orders []int64
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty [MemStore].
func NewMemStore() *MemStore {
	return &MemStore{
		nextID: 1,
		items:  make(map[int64]LineItem),
		extras: make(map[int64]map[int64]int),
	}
}

// CreateOrder implements [Store.CreateOrder].
func (s *MemStore) CreateOrder(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.orders = append(s.orders, id)
	return id, nil
}

// CreateLineItem implements [Store.CreateLineItem].
func (s *MemStore) CreateLineItem(ctx context.Context, li LineItem) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	li.ID = s.nextID
	s.nextID++
	s.items[li.ID] = li
	return li.ID, nil
}

// UpdateLineItem implements [Store.UpdateLineItem].
func (s *MemStore) UpdateLineItem(ctx context.Context, li LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.items[li.ID]
	if !ok {
		return fmt.Errorf("orderstore: update line item %d: no such row", li.ID)
	}
	li.OrderRef = old.OrderRef
	s.items[li.ID] = li
	return nil
}

// AddLineItemExtra implements [Store.AddLineItemExtra].
func (s *MemStore) AddLineItemExtra(ctx context.Context, lineItemID, ingredientID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[lineItemID]; !ok {
		return fmt.Errorf("orderstore: add extra to line item %d: no such row", lineItemID)
	}
	m, ok := s.extras[lineItemID]
	if !ok {
		m = make(map[int64]int)
		s.extras[lineItemID] = m
	}
	m[ingredientID] = quantity
	return nil
}

// AppendTranscriptionLog implements [Store.AppendTranscriptionLog].
func (s *MemStore) AppendTranscriptionLog(ctx context.Context, orderRef int64, rawText, diff string, snapshot []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, LogEntry{OrderRef: orderRef, RawText: rawText, Diff: diff, Snapshot: snapshot})
	return nil
}

// LineItem returns a stored line item by id, for test assertions.
func (s *MemStore) LineItem(id int64) (LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	li, ok := s.items[id]
	return li, ok
}

// Extras returns the extras recorded for a line item, keyed by ingredient id.
func (s *MemStore) Extras(lineItemID int64) map[int64]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]int, len(s.extras[lineItemID]))
	for k, v := range s.extras[lineItemID] {
		out[k] = v
	}
	return out
}

// Logs returns a copy of the transcription log.
func (s *MemStore) Logs() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LogEntry, len(s.logs))
	copy(out, s.logs)
	return out
}
