package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopResolutionHooks{}
	r.OnResolveStart(ctx, "org-demo", "blog/hello")
	r.OnResolveComplete(ctx, "org-demo", "blog/hello", true, time.Millisecond, nil)
	r.OnHandlerError(ctx, "core:single", errors.New("boom"))

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "option")
	c.OnCacheMiss(ctx, "option")
	c.OnCacheSet(ctx, "option", 64)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Resolution().(NoopResolutionHooks); !ok {
		t.Error("Resolution() should return NoopResolutionHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customResolution := &testResolutionHooks{}
	SetResolutionHooks(customResolution)
	if Resolution() != customResolution {
		t.Error("SetResolutionHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Resolution().(NoopResolutionHooks); !ok {
		t.Error("Reset() should restore NoopResolutionHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testResolutionHooks{}
	SetResolutionHooks(custom)
	SetResolutionHooks(nil)
	if Resolution() != custom {
		t.Error("SetResolutionHooks(nil) should keep the previous hooks")
	}

	SetCacheHooks(nil)
	if _, ok := Cache().(*testCacheHooks); ok {
		t.Error("Cache() should still be the default after SetCacheHooks(nil)")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testResolutionHooks{}
	SetResolutionHooks(custom)

	ctx := context.Background()
	Resolution().OnResolveStart(ctx, "org-demo", "blog/hello")
	Resolution().OnResolveComplete(ctx, "org-demo", "blog/hello", false, time.Millisecond, nil)
	Resolution().OnHandlerError(ctx, "lms:certificate", errors.New("boom"))

	if custom.starts != 1 || custom.completes != 1 || custom.handlerErrs != 1 {
		t.Errorf("events = %d/%d/%d, want 1/1/1", custom.starts, custom.completes, custom.handlerErrs)
	}
}

type testResolutionHooks struct {
	mu          sync.Mutex
	starts      int
	completes   int
	handlerErrs int
}

func (h *testResolutionHooks) OnResolveStart(context.Context, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts++
}

func (h *testResolutionHooks) OnResolveComplete(context.Context, string, string, bool, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completes++
}

func (h *testResolutionHooks) OnHandlerError(context.Context, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlerErrs++
}

type testCacheHooks struct{}

func (*testCacheHooks) OnCacheHit(context.Context, string)      {}
func (*testCacheHooks) OnCacheMiss(context.Context, string)     {}
func (*testCacheHooks) OnCacheSet(context.Context, string, int) {}
