package store

import (
	"context"
	"encoding/json"

	"github.com/harborcms/harbor/pkg/cache"
	"github.com/harborcms/harbor/pkg/content"
	"github.com/harborcms/harbor/pkg/observability"
)

// Key type labels used in cache instrumentation.
const (
	optionKeyType   = "option"
	taxonomyKeyType = "taxonomy"
)

// CachedOptions fronts an OptionStore with a cache. Option reads happen on
// every request (plugin enablement, permalink settings), so even a short TTL
// takes most of the read load off the backend. Negative results are cached
// too: an absent option record is as meaningful as a present one.
//
// Cache failures are never surfaced; the wrapped store is the source of truth.
type CachedOptions struct {
	inner OptionStore
	cache cache.Cache
	keyer cache.Keyer
}

// NewCachedOptions wraps inner with the given cache. A nil keyer uses the
// default keyer.
func NewCachedOptions(inner OptionStore, c cache.Cache, keyer cache.Keyer) *CachedOptions {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CachedOptions{inner: inner, cache: c, keyer: keyer}
}

// cachedOption is the serialized cache entry. Found is stored so negative
// lookups hit too.
type cachedOption struct {
	Value any  `json:"value"`
	Found bool `json:"found"`
}

// Option implements OptionStore.
func (c *CachedOptions) Option(ctx context.Context, organizationID, metaKey, optionType string) (any, bool, error) {
	key := c.keyer.OptionKey(organizationID, metaKey, optionType)

	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		var entry cachedOption
		if err := json.Unmarshal(data, &entry); err == nil {
			observability.Cache().OnCacheHit(ctx, optionKeyType)
			return entry.Value, entry.Found, nil
		}
		// Corrupt entry, fall through to the backend and overwrite.
	}
	observability.Cache().OnCacheMiss(ctx, optionKeyType)

	value, found, err := c.inner.Option(ctx, organizationID, metaKey, optionType)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(cachedOption{Value: value, Found: found}); err == nil {
		_ = c.cache.Set(ctx, key, data, cache.OptionTTL)
		observability.Cache().OnCacheSet(ctx, optionKeyType, len(data))
	}
	return value, found, nil
}

// Invalidate drops the cached entry for one option record.
func (c *CachedOptions) Invalidate(ctx context.Context, organizationID, metaKey, optionType string) error {
	return c.cache.Delete(ctx, c.keyer.OptionKey(organizationID, metaKey, optionType))
}

// Ensure CachedOptions implements OptionStore.
var _ OptionStore = (*CachedOptions)(nil)

// CachedTaxonomies fronts taxonomy classification reads with a cache. Every
// taxonomy archive request starts with a TaxonomyBySlug lookup, and taxonomy
// definitions change far less often than their term assignments, so only the
// classification step is cached. Term and assignment reads pass through.
//
// Like CachedOptions, cache failures are never surfaced and absent
// taxonomies are cached as negative entries.
type CachedTaxonomies struct {
	inner TaxonomyStore
	cache cache.Cache
	keyer cache.Keyer
}

// NewCachedTaxonomies wraps inner with the given cache. A nil keyer uses the
// default keyer.
func NewCachedTaxonomies(inner TaxonomyStore, c cache.Cache, keyer cache.Keyer) *CachedTaxonomies {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CachedTaxonomies{inner: inner, cache: c, keyer: keyer}
}

// cachedTaxonomy is the serialized cache entry. A nil Taxonomy with Found
// false records a definitive miss.
type cachedTaxonomy struct {
	Taxonomy *content.Taxonomy `json:"taxonomy"`
	Found    bool              `json:"found"`
}

// TaxonomyBySlug implements the classification read of TaxonomyStore.
func (c *CachedTaxonomies) TaxonomyBySlug(ctx context.Context, organizationID, slug string) (*content.Taxonomy, error) {
	key := c.keyer.TaxonomyKey(organizationID, slug)

	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		var entry cachedTaxonomy
		if err := json.Unmarshal(data, &entry); err == nil {
			observability.Cache().OnCacheHit(ctx, taxonomyKeyType)
			if !entry.Found {
				return nil, nil
			}
			return entry.Taxonomy, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, taxonomyKeyType)

	tax, err := c.inner.TaxonomyBySlug(ctx, organizationID, slug)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(cachedTaxonomy{Taxonomy: tax, Found: tax != nil}); err == nil {
		_ = c.cache.Set(ctx, key, data, cache.TaxonomyTTL)
		observability.Cache().OnCacheSet(ctx, taxonomyKeyType, len(data))
	}
	return tax, nil
}

// TermBySlug passes through to the backing store.
func (c *CachedTaxonomies) TermBySlug(ctx context.Context, organizationID, taxonomySlug, termSlug string) (*content.Term, error) {
	return c.inner.TermBySlug(ctx, organizationID, taxonomySlug, termSlug)
}

// Assignments passes through to the backing store.
func (c *CachedTaxonomies) Assignments(ctx context.Context, organizationID, termID string) ([]content.TermAssignment, error) {
	return c.inner.Assignments(ctx, organizationID, termID)
}

// Invalidate drops the cached classification for one taxonomy.
func (c *CachedTaxonomies) Invalidate(ctx context.Context, organizationID, slug string) error {
	return c.cache.Delete(ctx, c.keyer.TaxonomyKey(organizationID, slug))
}

// Ensure CachedTaxonomies implements TaxonomyStore.
var _ TaxonomyStore = (*CachedTaxonomies)(nil)
