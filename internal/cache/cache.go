// Package cache provides the key/value stores placed in front of network
// fetches. Each store is typed to the record shape it holds.
package cache

import (
	"context"
	"time"
)

// Store is a typed key/value cache with per-entry time-to-live.
type Store[V any] interface {
	// Get returns the value for key, or false when absent, expired or disabled.
	Get(ctx context.Context, key string) (V, bool)
	// Set stores value under key for ttl, replacing any existing entry.
	Set(ctx context.Context, key string, value V, ttl time.Duration)
	// Clear removes every entry.
	Clear(ctx context.Context) error
	// Len reports the number of stored entries, expired ones included until pruned.
	Len(ctx context.Context) int
}

// Backend names accepted in configuration.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// DefaultMaxSize is the in-memory entry bound used when none is configured.
const DefaultMaxSize = 100

type settings struct {
	maxSize int
	enabled bool
	now     func() time.Time
}

// Option configures a store.
type Option func(*settings)

// WithMaxSize bounds the number of entries. Zero or negative disables the bound.
func WithMaxSize(n int) Option {
	return func(s *settings) {
		s.maxSize = n
	}
}

// WithEnabled turns the store on or off. A disabled store always misses and
// silently drops writes.
func WithEnabled(enabled bool) Option {
	return func(s *settings) {
		s.enabled = enabled
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		maxSize: DefaultMaxSize,
		enabled: true,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
