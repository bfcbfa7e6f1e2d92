package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "route")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Get before Set should miss")
	}

	// Round trip
	if err := c.Set(ctx, "route", []byte(`{"kind":"single"}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "route")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Get after Set should hit")
	}
	if string(data) != `{"kind":"single"}` {
		t.Errorf("Get returned %q", data)
	}

	// Expired entries miss
	if err := c.Set(ctx, "expired", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "expired"); hit {
		t.Error("expired entry should miss")
	}

	// Non-positive ttl stores without expiry
	if err := c.Set(ctx, "pinned", []byte("y"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "pinned"); !hit {
		t.Error("non-positive ttl should store without expiry")
	}

	// Delete then miss
	if err := c.Delete(ctx, "route"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "route"); hit {
		t.Error("Get after Delete should miss")
	}

	// Deleting an absent key is fine
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete absent key error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// OptionKey distinguishes option type
	ok1 := k.OptionKey("org-1", "permalink_settings", "site")
	ok2 := k.OptionKey("org-1", "permalink_settings", "store")
	if ok1 == ok2 {
		t.Error("Different option types should produce different keys")
	}

	// TaxonomyKey distinguishes organizations
	tk1 := k.TaxonomyKey("org-1", "category")
	tk2 := k.TaxonomyKey("org-2", "category")
	if tk1 == tk2 {
		t.Error("Different organizations should produce different keys")
	}

	// RouteKey includes plugin enablement
	rk1 := k.RouteKey("org-1", "/courses/astro-101", []string{"lms"})
	rk2 := k.RouteKey("org-1", "/courses/astro-101", nil)
	if rk1 == rk2 {
		t.Error("Different enablement should produce different route keys")
	}

	// Same inputs are stable
	if k.RouteKey("org-1", "/a", nil) != k.RouteKey("org-1", "/a", nil) {
		t.Error("RouteKey should be deterministic")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "staging:")

	key := scoped.OptionKey("org-1", "permalink_settings", "site")
	want := "staging:" + inner.OptionKey("org-1", "permalink_settings", "site")
	if key != want {
		t.Errorf("ScopedKeyer OptionKey = %s, want %s", key, want)
	}

	routeKey := scoped.RouteKey("org-1", "/courses", nil)
	if len(routeKey) < 8 || routeKey[:8] != "staging:" {
		t.Errorf("ScopedKeyer RouteKey should be prefixed: %s", routeKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.TaxonomyKey("org-1", "category")
	want := "prefix:" + NewDefaultKeyer().TaxonomyKey("org-1", "category")
	if key != want {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrUnavailable)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(errors.New("plain")) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	plain := errors.New("bad input")
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return plain
	})
	if err != plain {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
