package routing

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/harborcms/harbor/pkg/cache"
	"github.com/harborcms/harbor/pkg/errors"
	"github.com/harborcms/harbor/pkg/observability"
	"github.com/harborcms/harbor/pkg/plugin"
	"github.com/harborcms/harbor/pkg/store"
)

// Resolver is the assembled route resolution pipeline: a registry of
// handlers and stores, the persistence views, and the plugin catalog.
// Construct one at startup and share it across requests.
type Resolver struct {
	registry    *Registry
	queries     store.Queries
	descriptors []plugin.Descriptor

	routeCache cache.Cache
	keyer      cache.Keyer
}

// NewResolver assembles a resolver. Core handlers and stores are installed;
// modules register their contributions on top.
func NewResolver(queries store.Queries, descriptors []plugin.Descriptor, modules ...Module) *Resolver {
	reg := NewRegistry()
	RegisterCore(reg)
	for _, m := range modules {
		m.Register(reg)
	}
	return &Resolver{
		registry:    reg,
		queries:     queries,
		descriptors: descriptors,
	}
}

// Registry exposes the resolver's extension points, mainly for tests.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

const routeKeyType = "route"

// WithRouteCache caches successful resolutions in c. Signals and no-match
// outcomes are never cached. A nil keyer falls back to the default keyer.
func (r *Resolver) WithRouteCache(c cache.Cache, keyer cache.Keyer) *Resolver {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	r.routeCache = c
	r.keyer = keyer
	return r
}

// ResolveRoute resolves a request path. It computes plugin enablement for
// the organization, builds the per-request context, and walks the handler
// chain in ascending priority order until a handler produces a result.
//
// Returns (nil, nil) when no handler matched. Redirect and NotFound signals
// come back as errors for the caller to map; any other handler error is
// logged under the handler's ID and treated as no match.
func (r *Resolver) ResolveRoute(ctx context.Context, segments []string, params url.Values, organizationID string) (result *Result, err error) {
	logger := LoggerFrom(ctx)

	start := time.Now()
	path := "/" + strings.Join(segments, "/")
	observability.Resolution().OnResolveStart(ctx, organizationID, path)
	defer func() {
		observability.Resolution().OnResolveComplete(ctx, organizationID, path, result != nil, time.Since(start), err)
	}()

	enabled, err := plugin.EnabledIDs(ctx, r.queries, organizationID, r.descriptors)
	if err != nil {
		return nil, err
	}

	// Enablement feeds the key so toggling a plugin never serves a
	// resolution computed under the old set.
	var routeKey string
	if r.routeCache != nil {
		routeKey = r.keyer.RouteKey(organizationID, path, enabled)
		if data, ok, cacheErr := r.routeCache.Get(ctx, routeKey); cacheErr == nil && ok {
			var cached Result
			if json.Unmarshal(data, &cached) == nil {
				observability.Cache().OnCacheHit(ctx, routeKeyType)
				return &cached, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, routeKeyType)
	}

	req := &Request{
		OrganizationID: organizationID,
		Segments:       segments,
		Params:         params,
		Plugins:        plugin.NewSet(enabled),
		Queries:        r.queries,
		Registry:       r.registry,
	}

	handlers := r.registry.RouteHandlers.Apply(nil)
	ordered := make([]Handler, 0, len(handlers))
	for _, h := range handlers {
		if h.Fn == nil {
			continue
		}
		ordered = append(ordered, h)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	for _, h := range ordered {
		if !req.Plugins.Enabled(h.PluginID) {
			continue
		}
		result, err := h.Fn(ctx, req)
		if err != nil {
			if errors.IsSignal(err) {
				return nil, err
			}
			logger.Warn("route handler failed", "handler", h.ID, "path", req.Path(), "err", err)
			observability.Resolution().OnHandlerError(ctx, h.ID, err)
			continue
		}
		if result != nil {
			logger.Debug("route resolved", "handler", h.ID, "kind", result.Kind, "path", req.Path())
			if r.routeCache != nil {
				if data, marshalErr := json.Marshal(result); marshalErr == nil {
					if setErr := r.routeCache.Set(ctx, routeKey, data, cache.RouteTTL); setErr == nil {
						observability.Cache().OnCacheSet(ctx, routeKeyType, len(data))
					}
				}
			}
			return result, nil
		}
	}
	return nil, nil
}
