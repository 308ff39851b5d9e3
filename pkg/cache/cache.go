// Package cache provides response caching for the Framespec pipeline.
//
// The design-tool API enforces strict, sometimes single-digit-per-month rate
// limits, so every successful response is cached and stale entries are kept
// around as a fallback when the API refuses to answer. Three production
// backends share one envelope format: FileCache for CLI use, RedisCache and
// MongoCache for server deployments. NullCache disables caching for tests.
//
// Entries carry their write timestamp inside the payload rather than relying
// on file modification times, which drift across filesystems and clock skew.
// A logically expired entry is not deleted; it stays retrievable through
// GetStale until the backend's physical retention window removes it.
package cache

import (
	"context"
	"time"
)

// TTL values for cached data.
const (
	// TTLResponse is the freshness window for API responses. A hit younger
	// than this short-circuits the network call entirely.
	TTLResponse = time.Hour

	// Retention is how long expired entries remain available for stale
	// fallback before backends may physically remove them.
	Retention = 14 * 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
//
// Get returns only fresh entries; GetStale ignores the freshness window and
// returns whatever is still retained. Both report a boolean hit flag rather
// than a sentinel error so that a miss is not an error condition.
type Cache interface {
	// Get retrieves a fresh value. Returns (nil, false, nil) on miss or
	// when the entry has logically expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// GetStale retrieves a value regardless of logical expiry.
	GetStale(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given freshness TTL. The entry remains
	// retrievable via GetStale after the TTL elapses.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Entry wraps cached data with explicit timestamps.
// SavedAt is the authoritative write time; ExpiresAt bounds freshness.
type Entry struct {
	Data      []byte    `json:"data"`
	SavedAt   time.Time `json:"saved_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Fresh reports whether the entry is still within its freshness window at t.
func (e *Entry) Fresh(t time.Time) bool {
	return e.ExpiresAt.IsZero() || t.Before(e.ExpiresAt)
}

// Keyer generates cache keys from request paths.
// Implementations must be deterministic: the same path always yields the
// same key, so unrelated processes converge on the same cache entries.
type Keyer interface {
	// RequestKey generates a key for an API request path.
	RequestKey(path string) string
}

// DefaultKeyer hashes request paths under a fixed namespace.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RequestKey generates a key of the form "figma:<sha256(path)>".
func (k *DefaultKeyer) RequestKey(path string) string {
	return hashKey("figma", path)
}
