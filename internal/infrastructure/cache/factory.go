package cache

import (
	"fmt"

	"github.com/siesson1991/adtracking-saas/internal/domain/shared"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/config"
	"go.uber.org/zap"
)

// IdempotencyStoreFactory creates the delivery dedup store based on configuration
type IdempotencyStoreFactory struct {
	redisConfig           config.RedisConfig
	webhookConfig         config.WebhookConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// IdempotencyStoreFactoryOption is a functional option for configuring the factory
type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory store when Redis is unavailable.
// Default is true; the database unique index still prevents double counting.
func WithInMemoryFallback(allow bool) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewIdempotencyStoreFactory creates a new factory
func NewIdempotencyStoreFactory(redisCfg config.RedisConfig, webhookCfg config.WebhookConfig, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		redisConfig:           redisCfg,
		webhookConfig:         webhookCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateInMemoryStore creates an in-memory store sized from the webhook config.
// In-memory stores do not share state across instances.
func (f *IdempotencyStoreFactory) CreateInMemoryStore() shared.IdempotencyStore {
	return NewInMemoryIdempotencyStore(
		WithCapacity(f.webhookConfig.DedupCacheSize),
		WithMaxTTL(f.webhookConfig.DedupTTL),
	)
}

// CreateStore returns a Redis store when Redis is enabled and reachable,
// otherwise an in-memory one if fallback is allowed
func (f *IdempotencyStoreFactory) CreateStore() (shared.IdempotencyStore, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory delivery dedup store")
		return f.CreateInMemoryStore(), nil
	}

	store, err := NewRedisIdempotencyStore(f.redisConfig)
	if err == nil {
		f.logger.Info("Using Redis delivery dedup store", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for delivery dedup but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory delivery dedup store",
		zap.String("addr", f.redisConfig.Addr()),
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil
}
