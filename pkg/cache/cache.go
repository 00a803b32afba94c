// Package cache provides pluggable caching for layout results and story
// documents.
//
// Three backends are available:
//   - FileCache: directory-backed, for CLI usage
//   - RedisCache: shared cache for server deployments
//   - NullCache: disabled caching, for tests and one-shot runs
//
// Keys are built through a [Keyer] so every component derives keys the same
// way. Layout keys hash the graph content together with the layout options,
// so any change to either produces a different key.
package cache

import (
	"context"
	"time"
)

// Cache TTLs per value type. Layout results are pure functions of their
// inputs so they can live long; story documents change under editing.
const (
	TTLLayout = 7 * 24 * time.Hour
	TTLStory  = time.Hour
)

// Cache is the interface all cache backends implement.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was found; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the layout parameters that affect cache identity.
// Two layout runs with the same graph hash and the same options produce
// the same positions, so they share a cache entry.
type LayoutKeyOpts struct {
	Strategy string
	Cluster  bool
	Width    float64
	Height   float64
	Seed     uint64
}

// Keyer generates cache keys for the different cached value types.
type Keyer interface {
	// LayoutKey generates a key for layout position caching.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// StoryKey generates a key for story document caching.
	StoryKey(id string) string
}

// DefaultKeyer is the standard key generation scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for layout position caching.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// StoryKey generates a key for story document caching.
func (k *DefaultKeyer) StoryKey(id string) string {
	return "story:" + id
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
