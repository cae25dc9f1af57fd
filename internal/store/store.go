// Package store implements the durable key-value layer: individual backend
// tiers (Redis, Postgres, local files, memory) and the Tiered adapter that
// chains them with catch-and-continue fallback.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Backend.Get when the key is absent. The tiered
// adapter maps it to the caller-supplied default.
var ErrNotFound = errors.New("store: key not found")

// TTLNone is the TTL reported for keys without an expiry.
const TTLNone = time.Duration(-1)

// Backend is one storage tier. Keys are opaque strings already carrying the
// adapter's namespace; values are opaque byte payloads serialized by the
// adapter. Implementations must be safe for concurrent use.
type Backend interface {
	// Name identifies the tier in logs and metrics.
	Name() string

	// Ping verifies the tier is reachable. Called once per adapter
	// lifetime; the result is cached.
	Ping(ctx context.Context) error

	// Set stores value under key. A positive ttl sets an expiry; zero or
	// negative stores without one.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Keys returns all keys starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Expire sets an expiry on an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// TTL returns the remaining lifetime of key, TTLNone when the key has
	// no expiry, or ErrNotFound.
	TTL(ctx context.Context, key string) (time.Duration, error)

	// IncrBy atomically adds amount to the integer stored under key,
	// treating an absent key as zero, and returns the new value.
	IncrBy(ctx context.Context, key string, amount int64) (int64, error)
}
