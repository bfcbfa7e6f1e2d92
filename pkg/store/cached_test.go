package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/harborcms/harbor/pkg/content"
)

// mapCache is a minimal in-process cache for testing the wrapper.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	return data, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *mapCache) Close() error { return nil }

// countingOptions counts backend reads.
type countingOptions struct {
	inner OptionStore
	calls int
}

func (c *countingOptions) Option(ctx context.Context, organizationID, metaKey, optionType string) (any, bool, error) {
	c.calls++
	return c.inner.Option(ctx, organizationID, metaKey, optionType)
}

func TestCachedOptionsHit(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.SetOption(content.Option{
		MetaKey: "plugin.lms.enabled", MetaValue: "true",
		Type: content.OptionTypeSite, OrganizationID: "org-1",
	})
	backend := &countingOptions{inner: m}
	cached := NewCachedOptions(backend, newMapCache(), nil)

	for i := 0; i < 3; i++ {
		v, found, err := cached.Option(ctx, "org-1", "plugin.lms.enabled", content.OptionTypeSite)
		if err != nil {
			t.Fatalf("Option() error = %v", err)
		}
		if !found || v != "true" {
			t.Errorf("Option() = %v, %v", v, found)
		}
	}
	if backend.calls != 1 {
		t.Errorf("backend reads = %d, want 1", backend.calls)
	}
}

func TestCachedOptionsNegativeHit(t *testing.T) {
	ctx := context.Background()
	backend := &countingOptions{inner: NewMemory()}
	cached := NewCachedOptions(backend, newMapCache(), nil)

	for i := 0; i < 2; i++ {
		_, found, err := cached.Option(ctx, "org-1", "missing", content.OptionTypeSite)
		if err != nil {
			t.Fatalf("Option() error = %v", err)
		}
		if found {
			t.Error("Option() found an absent record")
		}
	}
	if backend.calls != 1 {
		t.Errorf("backend reads = %d, want 1 (negative result cached)", backend.calls)
	}
}

func TestCachedOptionsInvalidate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.SetOption(content.Option{
		MetaKey: "plugin.lms.enabled", MetaValue: "false",
		Type: content.OptionTypeSite, OrganizationID: "org-1",
	})
	backend := &countingOptions{inner: m}
	cached := NewCachedOptions(backend, newMapCache(), nil)

	if _, _, err := cached.Option(ctx, "org-1", "plugin.lms.enabled", content.OptionTypeSite); err != nil {
		t.Fatalf("Option() error = %v", err)
	}

	m.SetOption(content.Option{
		MetaKey: "plugin.lms.enabled", MetaValue: "true",
		Type: content.OptionTypeSite, OrganizationID: "org-1",
	})
	if err := cached.Invalidate(ctx, "org-1", "plugin.lms.enabled", content.OptionTypeSite); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}

	v, _, err := cached.Option(ctx, "org-1", "plugin.lms.enabled", content.OptionTypeSite)
	if err != nil {
		t.Fatalf("Option() error = %v", err)
	}
	if v != "true" {
		t.Errorf("Option() after invalidate = %v, want fresh value", v)
	}
	if backend.calls != 2 {
		t.Errorf("backend reads = %d, want 2", backend.calls)
	}
}

func TestCachedOptionsCorruptEntry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.SetOption(content.Option{
		MetaKey: "plugin.lms.enabled", MetaValue: "true",
		Type: content.OptionTypeSite, OrganizationID: "org-1",
	})
	mc := newMapCache()
	cached := NewCachedOptions(m, mc, nil)

	// Poison the cache entry, then expect a backend read
	if _, _, err := cached.Option(ctx, "org-1", "plugin.lms.enabled", content.OptionTypeSite); err != nil {
		t.Fatalf("Option() error = %v", err)
	}
	for key := range mc.entries {
		mc.entries[key] = []byte("{not json")
	}

	v, found, err := cached.Option(ctx, "org-1", "plugin.lms.enabled", content.OptionTypeSite)
	if err != nil {
		t.Fatalf("Option() error = %v", err)
	}
	if !found || v != "true" {
		t.Errorf("Option() = %v, %v after corrupt cache entry", v, found)
	}
}

// countingTaxonomies counts backend classification reads.
type countingTaxonomies struct {
	TaxonomyStore
	calls int
}

func (c *countingTaxonomies) TaxonomyBySlug(ctx context.Context, organizationID, slug string) (*content.Taxonomy, error) {
	c.calls++
	return c.TaxonomyStore.TaxonomyBySlug(ctx, organizationID, slug)
}

func TestCachedTaxonomiesHit(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.AddTaxonomy(content.Taxonomy{Slug: "category", Name: "Category", OrganizationID: "org-1"})
	backend := &countingTaxonomies{TaxonomyStore: m}
	cached := NewCachedTaxonomies(backend, newMapCache(), nil)

	for i := 0; i < 3; i++ {
		tax, err := cached.TaxonomyBySlug(ctx, "org-1", "category")
		if err != nil {
			t.Fatalf("TaxonomyBySlug() error = %v", err)
		}
		if tax == nil || tax.Name != "Category" {
			t.Errorf("TaxonomyBySlug() = %+v", tax)
		}
	}
	if backend.calls != 1 {
		t.Errorf("backend reads = %d, want 1", backend.calls)
	}
}

func TestCachedTaxonomiesNegativeHit(t *testing.T) {
	ctx := context.Background()
	backend := &countingTaxonomies{TaxonomyStore: NewMemory()}
	cached := NewCachedTaxonomies(backend, newMapCache(), nil)

	for i := 0; i < 2; i++ {
		tax, err := cached.TaxonomyBySlug(ctx, "org-1", "missing")
		if err != nil {
			t.Fatalf("TaxonomyBySlug() error = %v", err)
		}
		if tax != nil {
			t.Errorf("TaxonomyBySlug() = %+v, want nil", tax)
		}
	}
	if backend.calls != 1 {
		t.Errorf("backend reads = %d, want 1 (negative result cached)", backend.calls)
	}
}

func TestCachedTaxonomiesInvalidate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.AddTaxonomy(content.Taxonomy{Slug: "category", Name: "Old", OrganizationID: "org-1"})
	backend := &countingTaxonomies{TaxonomyStore: m}
	cached := NewCachedTaxonomies(backend, newMapCache(), nil)

	if _, err := cached.TaxonomyBySlug(ctx, "org-1", "category"); err != nil {
		t.Fatalf("TaxonomyBySlug() error = %v", err)
	}
	if err := cached.Invalidate(ctx, "org-1", "category"); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if _, err := cached.TaxonomyBySlug(ctx, "org-1", "category"); err != nil {
		t.Fatalf("TaxonomyBySlug() error = %v", err)
	}
	if backend.calls != 2 {
		t.Errorf("backend reads = %d, want 2", backend.calls)
	}
}

func TestCachedTaxonomiesTermsPassThrough(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.AddTaxonomy(content.Taxonomy{Slug: "category", Name: "Category", OrganizationID: "org-1"})
	termID := m.AddTerm(content.Term{Slug: "space-news", Name: "Space News", TaxonomySlug: "category", OrganizationID: "org-1"})
	cached := NewCachedTaxonomies(m, newMapCache(), nil)

	term, err := cached.TermBySlug(ctx, "org-1", "category", "space-news")
	if err != nil {
		t.Fatalf("TermBySlug() error = %v", err)
	}
	if term == nil || term.ID != termID {
		t.Errorf("TermBySlug() = %+v, want term %s", term, termID)
	}
}
