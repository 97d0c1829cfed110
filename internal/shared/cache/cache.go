package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key does not exist or has expired.
var ErrNotFound = errors.New("cache: key not found")

// Store is a small TTL key/value store used for rate-limit counters,
// one-time tokens, and CAPTCHA answers.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Incr atomically increments the integer counter at key and returns the
	// new value. The TTL applies only when the key is created by this call,
	// giving fixed-window semantics.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
