package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pizzavox/pizzavox/internal/order"
)

// DefaultTTL is how long an idle conversation survives in Redis before it is
// considered abandoned.
const DefaultTTL = 30 * time.Minute

const keyPrefix = "pizzavox:conversation:"

// RedisStore is a [Store] backed by Redis, for deployments where several
// instances share the conversation state. Conversations are stored as JSON
// under a per-id key with a sliding TTL: every Put refreshes the expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// RedisOption configures a [RedisStore].
type RedisOption func(*RedisStore)

// WithTTL overrides the idle expiry. Zero disables expiry entirely.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// NewRedisStore creates a store over an existing Redis client.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, ttl: DefaultTTL}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Get implements [Store.Get].
func (s *RedisStore) Get(ctx context.Context, id string) (order.Conversation, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return order.Conversation{}, ErrNotFound
		}
		return order.Conversation{}, fmt.Errorf("conversation: redis get %s: %w", id, err)
	}
	var conv order.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return order.Conversation{}, fmt.Errorf("conversation: decode %s: %w", id, err)
	}
	return conv, nil
}

// Put implements [Store.Put].
func (s *RedisStore) Put(ctx context.Context, conv order.Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("conversation: encode %s: %w", conv.ID, err)
	}
	if err := s.client.Set(ctx, keyPrefix+conv.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("conversation: redis set %s: %w", conv.ID, err)
	}
	return nil
}

// Delete implements [Store.Delete].
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("conversation: redis del %s: %w", id, err)
	}
	return nil
}
