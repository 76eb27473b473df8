package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/trendscout/internal/logger"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Address  string `mapstructure:"address"  yaml:"address"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db"       yaml:"db"`
	Prefix   string `mapstructure:"prefix"   yaml:"prefix"`
}

// ErrEmptyAddress is returned when Redis address is not configured.
var ErrEmptyAddress = errors.New("redis address is required")

const (
	// connectionTimeout bounds the startup ping.
	connectionTimeout = 5 * time.Second
	scanBatchSize     = 100
)

// DefaultRedisPrefix is used when no key prefix is configured.
const DefaultRedisPrefix = "trendscout"

// NewRedisClient creates a Redis client and verifies the connection.
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// RedisStore keeps JSON-encoded values in Redis using native key expiry.
// Redis failures degrade to cache misses. The entry bound is left to the
// server's eviction policy.
type RedisStore[V any] struct {
	client *redis.Client
	prefix string
	cfg    settings
	logger logger.Interface
}

var _ Store[int] = (*RedisStore[int])(nil)

// NewRedisStore creates a store whose keys live under "<prefix>:".
func NewRedisStore[V any](client *redis.Client, prefix string, log logger.Interface, opts ...Option) *RedisStore[V] {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore[V]{
		client: client,
		prefix: prefix,
		cfg:    newSettings(opts),
		logger: log.WithComponent("redis_cache"),
	}
}

func (s *RedisStore[V]) key(k string) string {
	return s.prefix + ":" + k
}

// Get returns the decoded value for key.
func (s *RedisStore[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V
	if !s.cfg.enabled {
		return zero, false
	}

	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("Redis error reading cache entry", "key", key, "error", err)
		}
		return zero, false
	}

	var value V
	if err := json.Unmarshal(data, &value); err != nil {
		s.logger.Warn("Discarding undecodable cache entry", "key", key, "error", err)
		_ = s.client.Del(ctx, s.key(key)).Err()
		return zero, false
	}
	return value, true
}

// Set encodes value and stores it with the given expiry.
func (s *RedisStore[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) {
	if !s.cfg.enabled || ttl <= 0 {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("Failed to encode cache entry", "key", key, "error", err)
		return
	}

	if err := s.client.Set(ctx, s.key(key), data, ttl).Err(); err != nil {
		s.logger.Warn("Redis error writing cache entry", "key", key, "error", err)
	}
}

// Clear deletes every key under the store prefix. Other keys in the database are untouched.
func (s *RedisStore[V]) Clear(ctx context.Context) error {
	deleted := 0
	err := s.scan(ctx, func(keys []string) error {
		n, delErr := s.client.Del(ctx, keys...).Result()
		if delErr != nil {
			return fmt.Errorf("delete keys: %w", delErr)
		}
		deleted += int(n)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Cleared Redis cache", "keys_deleted", deleted, "prefix", s.prefix)
	return nil
}

// Len counts keys under the store prefix.
func (s *RedisStore[V]) Len(ctx context.Context) int {
	count := 0
	err := s.scan(ctx, func(keys []string) error {
		count += len(keys)
		return nil
	})
	if err != nil {
		s.logger.Warn("Redis error counting cache entries", "error", err)
	}
	return count
}

func (s *RedisStore[V]) scan(ctx context.Context, fn func(keys []string) error) error {
	pattern := s.prefix + ":*"
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("scan keys: %w", err)
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
