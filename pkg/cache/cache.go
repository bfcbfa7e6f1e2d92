// Package cache provides byte-oriented caching for route resolution.
//
// Resolution reads the same option, term and post-type records on every
// request, so the server fronts its stores with a cache keyed per
// organization. Two backends are provided: a Redis cache for the server and
// a file cache for the CLI. NullCache disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Default TTLs for the record classes the resolver caches. Options change
// rarely but gate plugin enablement, so they get the shortest window.
const (
	OptionTTL   = 30 * time.Second
	TaxonomyTTL = 5 * time.Minute
	RouteTTL    = time.Minute
)

// Cache stores opaque byte values under string keys with optional TTL.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached value for key. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl stores without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys for the record classes the resolver reads.
type Keyer interface {
	// OptionKey keys a single option record.
	OptionKey(organizationID, metaKey, optionType string) string

	// TaxonomyKey keys an organization's taxonomy and term snapshot.
	TaxonomyKey(organizationID, taxonomySlug string) string

	// RouteKey keys a resolved route for a path. Enablement feeds the key so
	// toggling a plugin cannot serve a stale resolution.
	RouteKey(organizationID, path string, enabledPlugins []string) string
}

// DefaultKeyer hashes key components so raw paths and meta keys never appear
// in backend key space.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// OptionKey generates a key for one option record.
func (k *DefaultKeyer) OptionKey(organizationID, metaKey, optionType string) string {
	return hashKey("option", organizationID, metaKey, optionType)
}

// TaxonomyKey generates a key for a taxonomy snapshot.
func (k *DefaultKeyer) TaxonomyKey(organizationID, taxonomySlug string) string {
	return hashKey("taxonomy", organizationID, taxonomySlug)
}

// RouteKey generates a key for a resolved route.
func (k *DefaultKeyer) RouteKey(organizationID, path string, enabledPlugins []string) string {
	return hashKey("route", organizationID, path, enabledPlugins)
}
