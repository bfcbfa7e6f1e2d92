package cache

// ScopedKeyer wraps a Keyer with a prefix so multiple deployments can share
// one cache backend without key collisions.
//
// Example usage:
//
//	// Staging and production sharing one Redis
//	stagingKeyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// OptionKey generates a prefixed key for one option record.
func (k *ScopedKeyer) OptionKey(organizationID, metaKey, optionType string) string {
	return k.prefix + k.inner.OptionKey(organizationID, metaKey, optionType)
}

// TaxonomyKey generates a prefixed key for a taxonomy snapshot.
func (k *ScopedKeyer) TaxonomyKey(organizationID, taxonomySlug string) string {
	return k.prefix + k.inner.TaxonomyKey(organizationID, taxonomySlug)
}

// RouteKey generates a prefixed key for a resolved route.
func (k *ScopedKeyer) RouteKey(organizationID, path string, enabledPlugins []string) string {
	return k.prefix + k.inner.RouteKey(organizationID, path, enabledPlugins)
}
