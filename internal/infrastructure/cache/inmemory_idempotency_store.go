package cache

import (
	"context"
	"sync"
	"time"

	"github.com/siesson1991/adtracking-saas/internal/domain/shared"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefaultInMemoryCapacity bounds the number of remembered deliveries
	DefaultInMemoryCapacity = 100_000
)

// InMemoryIdempotencyStore implements IdempotencyStore on a bounded,
// expiring LRU. This is suitable for single-instance deployments and testing.
//
// The LRU evicts at the store-wide maximum TTL; shorter per-key TTLs are
// enforced on read from the stored deadline. When capacity is reached the
// least recently used key is forgotten, which only costs a database lookup.
type InMemoryIdempotencyStore struct {
	mu     sync.Mutex
	lru    *expirable.LRU[string, time.Time]
	maxTTL time.Duration
	now    func() time.Time
}

// InMemoryOption configures an InMemoryIdempotencyStore
type InMemoryOption func(*inMemoryOptions)

type inMemoryOptions struct {
	capacity int
	maxTTL   time.Duration
}

// WithCapacity sets the maximum number of keys kept
func WithCapacity(capacity int) InMemoryOption {
	return func(o *inMemoryOptions) {
		if capacity > 0 {
			o.capacity = capacity
		}
	}
}

// WithMaxTTL caps how long any key is remembered
func WithMaxTTL(ttl time.Duration) InMemoryOption {
	return func(o *inMemoryOptions) {
		if ttl > 0 {
			o.maxTTL = ttl
		}
	}
}

// NewInMemoryIdempotencyStore creates a new in-memory idempotency store
func NewInMemoryIdempotencyStore(opts ...InMemoryOption) *InMemoryIdempotencyStore {
	o := inMemoryOptions{
		capacity: DefaultInMemoryCapacity,
		maxTTL:   shared.DefaultIdempotencyConfig().TTL,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &InMemoryIdempotencyStore{
		lru:    expirable.NewLRU[string, time.Time](o.capacity, nil, o.maxTTL),
		maxTTL: o.maxTTL,
		now:    time.Now,
	}
}

// MarkProcessed marks a key as processed with a TTL.
// Returns true if the key was newly marked, false if it was already live.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 || ttl > s.maxTTL {
		ttl = s.maxTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if deadline, ok := s.lru.Get(key); ok && now.Before(deadline) {
		return false, nil
	}
	s.lru.Add(key, now.Add(ttl))
	return true, nil
}

// IsProcessed checks if a key has been processed and not yet expired
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline, ok := s.lru.Get(key)
	if !ok {
		return false, nil
	}
	if !s.now().Before(deadline) {
		s.lru.Remove(key)
		return false, nil
	}
	return true, nil
}

// Size returns the number of live keys
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	live := 0
	for _, key := range s.lru.Keys() {
		if deadline, ok := s.lru.Peek(key); ok && now.Before(deadline) {
			live++
		}
	}
	return live
}

// Close drops every remembered key. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Purge()
	return nil
}

// Ensure InMemoryIdempotencyStore implements IdempotencyStore
var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
