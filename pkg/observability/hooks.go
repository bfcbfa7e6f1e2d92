// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about route resolution and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which keeps the resolution
// code free of backend-specific imports.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetResolutionHooks(&myResolutionHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Resolution().OnResolveStart(ctx, organizationID, path)
//	// ... run the handler chain ...
//	observability.Resolution().OnResolveComplete(ctx, organizationID, path, matched, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// ResolutionHooks receives events from the route resolution chain.
type ResolutionHooks interface {
	// OnResolveStart records the start of a resolution pass.
	OnResolveStart(ctx context.Context, organizationID, path string)

	// OnResolveComplete records the end of a resolution pass. matched is false
	// when no handler produced a result. err carries navigation signals as
	// well as real failures.
	OnResolveComplete(ctx context.Context, organizationID, path string, matched bool, duration time.Duration, err error)

	// OnHandlerError records a handler failure that was isolated from the
	// rest of the chain.
	OnHandlerError(ctx context.Context, handlerID string, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopResolutionHooks is a no-op implementation of ResolutionHooks.
type NoopResolutionHooks struct{}

func (NoopResolutionHooks) OnResolveStart(context.Context, string, string) {}
func (NoopResolutionHooks) OnResolveComplete(context.Context, string, string, bool, time.Duration, error) {
}
func (NoopResolutionHooks) OnHandlerError(context.Context, string, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	resolutionHooks ResolutionHooks = NoopResolutionHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	hooksMu         sync.RWMutex
)

// SetResolutionHooks registers custom resolution hooks.
// This should be called once at application startup before serving requests.
func SetResolutionHooks(h ResolutionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		resolutionHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Resolution returns the registered resolution hooks.
func Resolution() ResolutionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return resolutionHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	resolutionHooks = NoopResolutionHooks{}
	cacheHooks = NoopCacheHooks{}
}
