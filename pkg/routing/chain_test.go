package routing

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/harborcms/harbor/pkg/content"
	"github.com/harborcms/harbor/pkg/errors"
	"github.com/harborcms/harbor/pkg/hooks"
	"github.com/harborcms/harbor/pkg/plugin"
	"github.com/harborcms/harbor/pkg/store"
)

// handlerModule registers a fixed set of handlers under one callback id.
type handlerModule struct {
	id       string
	handlers []Handler
}

func (m *handlerModule) Register(reg *Registry) {
	reg.RouteHandlers.Add(m.id, hooks.DefaultPriority, func(hs []Handler) []Handler {
		return append(hs, m.handlers...)
	})
}

func staticHandler(id string, priority int, result *Result, err error, trace *[]string) Handler {
	return Handler{
		ID:       id,
		Priority: priority,
		Fn: func(_ context.Context, _ *Request) (*Result, error) {
			*trace = append(*trace, id)
			return result, err
		},
	}
}

func resolveWith(t *testing.T, modules ...Module) (*Result, error) {
	t.Helper()
	r := NewResolver(store.NewMemory(), nil, modules...)
	return r.ResolveRoute(context.Background(), []string{"anything"}, url.Values{}, "org-1")
}

func TestChainFirstMatchWins(t *testing.T) {
	var trace []string
	m := &handlerModule{id: "test", handlers: []Handler{
		staticHandler("late", 20, &Result{Kind: KindArchive}, nil, &trace),
		staticHandler("early", 1, nil, nil, &trace),
		staticHandler("mid", 5, &Result{Kind: KindSingle}, nil, &trace),
	}}

	res, err := resolveWith(t, m)
	if err != nil {
		t.Fatalf("ResolveRoute() error = %v", err)
	}
	if res == nil || res.Kind != KindSingle {
		t.Fatalf("ResolveRoute() = %+v, want the mid handler's result", res)
	}
	// early (no match) ran, mid matched, late never ran. Core handlers run
	// at priority 10 and are skipped here because mid already matched.
	if len(trace) != 2 || trace[0] != "early" || trace[1] != "mid" {
		t.Errorf("handler trace = %v", trace)
	}
}

func TestChainHandlerErrorIsNoMatch(t *testing.T) {
	var trace []string
	m := &handlerModule{id: "test", handlers: []Handler{
		staticHandler("broken", 1, nil, errors.New(errors.ErrCodeInternal, "boom"), &trace),
		staticHandler("working", 2, &Result{Kind: KindSingle}, nil, &trace),
	}}

	res, err := resolveWith(t, m)
	if err != nil {
		t.Fatalf("ResolveRoute() error = %v, handler failure must not surface", err)
	}
	if res == nil || res.Kind != KindSingle {
		t.Fatalf("ResolveRoute() = %+v, want the next handler's result", res)
	}
}

func TestChainSignalsPropagate(t *testing.T) {
	var trace []string

	t.Run("redirect", func(t *testing.T) {
		m := &handlerModule{id: "test-redirect", handlers: []Handler{
			staticHandler("redirecting", 1, nil, errors.NewRedirect("/elsewhere"), &trace),
			staticHandler("after", 2, &Result{Kind: KindSingle}, nil, &trace),
		}}
		_, err := resolveWith(t, m)
		redirect, ok := errors.AsRedirect(err)
		if !ok || redirect.Location != "/elsewhere" {
			t.Fatalf("ResolveRoute() error = %v, want redirect to /elsewhere", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		m := &handlerModule{id: "test-notfound", handlers: []Handler{
			staticHandler("missing", 1, nil, errors.NewNotFound("term", "category/nope"), &trace),
			staticHandler("after", 2, &Result{Kind: KindSingle}, nil, &trace),
		}}
		_, err := resolveWith(t, m)
		if _, ok := errors.AsNotFound(err); !ok {
			t.Fatalf("ResolveRoute() error = %v, want not-found signal", err)
		}
	})
}

func TestChainDisabledHandlerSkipped(t *testing.T) {
	var trace []string
	gated := Handler{
		ID:       "gated",
		PluginID: "ext",
		Priority: 1,
		Fn: func(_ context.Context, _ *Request) (*Result, error) {
			trace = append(trace, "gated")
			return &Result{Kind: KindSingle}, nil
		},
	}
	m := &handlerModule{id: "test", handlers: []Handler{gated}}

	res, err := resolveWith(t, m)
	if err != nil {
		t.Fatalf("ResolveRoute() error = %v", err)
	}
	if res != nil {
		t.Fatalf("ResolveRoute() = %+v, want no match with plugin disabled", res)
	}
	if len(trace) != 0 {
		t.Error("disabled handler was invoked")
	}
}

func TestChainEnablementFromOptions(t *testing.T) {
	q := store.NewMemory()
	descriptors := []plugin.Descriptor{{
		ID: "ext",
		Activation: plugin.Activation{
			OptionKey:  "plugin.ext.enabled",
			OptionType: content.OptionTypeSite,
		},
	}}
	var trace []string
	m := &handlerModule{id: "test", handlers: []Handler{{
		ID:       "ext:handler",
		PluginID: "ext",
		Priority: 1,
		Fn: func(_ context.Context, _ *Request) (*Result, error) {
			trace = append(trace, "ran")
			return &Result{Kind: KindSingle}, nil
		},
	}}}
	r := NewResolver(q, descriptors, m)

	res, err := r.ResolveRoute(context.Background(), []string{"x"}, nil, "org-1")
	if err != nil {
		t.Fatalf("ResolveRoute() error = %v", err)
	}
	if res != nil {
		t.Fatal("handler ran although its plugin option is absent and defaults off")
	}

	q.SetOption(content.Option{
		MetaKey: "plugin.ext.enabled", MetaValue: "true",
		Type: content.OptionTypeSite, OrganizationID: "org-1",
	})
	res, err = r.ResolveRoute(context.Background(), []string{"x"}, nil, "org-1")
	if err != nil {
		t.Fatalf("ResolveRoute() error = %v", err)
	}
	if res == nil || res.Kind != KindSingle {
		t.Fatalf("ResolveRoute() = %+v after enabling the plugin", res)
	}
}

func TestChainNilFnSkipped(t *testing.T) {
	m := &handlerModule{id: "test", handlers: []Handler{{ID: "empty", Priority: 1}}}
	res, err := resolveWith(t, m)
	if err != nil {
		t.Fatalf("ResolveRoute() error = %v", err)
	}
	if res != nil {
		t.Errorf("ResolveRoute() = %+v", res)
	}
}

// memCache is a minimal in-process cache for route caching tests.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	return data, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestChainRouteCacheServesRepeatLookups(t *testing.T) {
	var trace []string
	m := &handlerModule{id: "test", handlers: []Handler{
		staticHandler("match", 1, &Result{Kind: KindSingle, Single: &SingleResult{StoreID: "posts"}}, nil, &trace),
	}}
	r := NewResolver(store.NewMemory(), nil, m).WithRouteCache(newMemCache(), nil)

	for i := 0; i < 3; i++ {
		res, err := r.ResolveRoute(context.Background(), []string{"hello-world"}, url.Values{}, "org-1")
		if err != nil {
			t.Fatalf("ResolveRoute() error = %v", err)
		}
		if res == nil || res.Kind != KindSingle || res.Single == nil || res.Single.StoreID != "posts" {
			t.Fatalf("ResolveRoute() = %+v", res)
		}
	}
	if len(trace) != 1 {
		t.Errorf("handler ran %d times, want 1 (repeats served from cache)", len(trace))
	}

	// A different path misses the cache and walks the chain again.
	if _, err := r.ResolveRoute(context.Background(), []string{"other"}, url.Values{}, "org-1"); err != nil {
		t.Fatalf("ResolveRoute() error = %v", err)
	}
	if len(trace) != 2 {
		t.Errorf("handler ran %d times after a second path, want 2", len(trace))
	}
}

func TestChainRouteCacheSkipsNoMatch(t *testing.T) {
	var trace []string
	m := &handlerModule{id: "test", handlers: []Handler{
		staticHandler("miss", 1, nil, nil, &trace),
	}}
	r := NewResolver(store.NewMemory(), nil, m).WithRouteCache(newMemCache(), nil)

	for i := 0; i < 2; i++ {
		res, err := r.ResolveRoute(context.Background(), []string{"nothing"}, url.Values{}, "org-1")
		if err != nil {
			t.Fatalf("ResolveRoute() error = %v", err)
		}
		if res != nil {
			t.Fatalf("ResolveRoute() = %+v, want no match", res)
		}
	}
	if len(trace) != 2 {
		t.Errorf("handler ran %d times, want 2 (no-match outcomes are not cached)", len(trace))
	}
}
