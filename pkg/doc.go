// Package pkg provides the core libraries for Harbor route resolution.
//
// # Overview
//
// Harbor maps request paths to content: single posts, post type archives, and
// taxonomy term listings. Resolution is plugin-extensible: plugins contribute
// post stores and route handlers through a hook registry, and their
// contributions only take effect for organizations where the plugin is
// enabled. The pkg directory is organized into four main areas:
//
//  1. [routing] - The resolution pipeline (handler chain, post stores, canonical paths)
//  2. [store] - Persistence views (memory, MongoDB, cached option reads)
//  3. [plugins] - Bundled plugins (LMS, downloads)
//  4. [hooks], [plugin] - Extension primitives (filters, plugin enablement)
//
// # Architecture
//
// The typical data flow through Harbor:
//
//	Request path + query params
//	         ↓
//	    [plugin] package (compute enabled plugins for the organization)
//	         ↓
//	    [routing] package (handler chain: archive → taxonomy → single)
//	         ↓
//	    [store] package (posts, post types, taxonomies, entities, options)
//	         ↓
//	    Single / Archive / Taxonomy result (or redirect / not found)
//
// # Quick Start
//
// Assemble a resolver against the built-in demo content and resolve a path:
//
//	import (
//	    "context"
//	    "net/url"
//
//	    "github.com/harborcms/harbor/pkg/plugin"
//	    "github.com/harborcms/harbor/pkg/plugins/lms"
//	    "github.com/harborcms/harbor/pkg/routing"
//	    "github.com/harborcms/harbor/pkg/store"
//	)
//
//	queries := store.NewSeeded()
//	descriptors := []plugin.Descriptor{lms.Descriptor()}
//	resolver := routing.NewResolver(queries, descriptors, lms.New())
//
//	result, err := resolver.ResolveRoute(context.Background(),
//	    []string{"blog", "new-telescope-online"}, url.Values{}, store.SeedOrganization)
//
// # Main Packages
//
// [routing] - The handler chain and its extension registry. Handlers run in
// ascending priority order; the first non-nil result wins. Redirect and
// NotFound signals short-circuit the chain, any other handler error is
// isolated and logged.
//
// [store] - Typed persistence interfaces plus three implementations: an
// in-memory store with a seeded demo content set, a MongoDB-backed store, and
// a caching option wrapper with negative caching.
//
// [content] - Domain types shared across the module: posts, post types,
// taxonomies, terms, entities, and option records.
//
// [hooks] - Ordered filter primitives. Registrations are idempotent by ID and
// applied by priority, with registration order breaking ties.
//
// [plugin] - Plugin descriptors and option-backed enablement.
//
// [plugins/lms], [plugins/downloads] - Bundled plugins demonstrating the two
// extension surfaces: a primary post store with its own post type slugs, and
// an override store for entity-backed content.
//
// [cache] - Cache interface with null, file, and Redis backends plus keying
// helpers.
//
// [errors] - Structured errors with machine-readable codes, and the Redirect
// and NotFound navigation signals.
//
// [observability] - Optional instrumentation hooks for resolution and cache
// events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/routing/...            # Specific package
//
// [routing]: https://pkg.go.dev/github.com/harborcms/harbor/pkg/routing
// [store]: https://pkg.go.dev/github.com/harborcms/harbor/pkg/store
// [content]: https://pkg.go.dev/github.com/harborcms/harbor/pkg/content
// [hooks]: https://pkg.go.dev/github.com/harborcms/harbor/pkg/hooks
// [plugin]: https://pkg.go.dev/github.com/harborcms/harbor/pkg/plugin
// [plugins]: https://pkg.go.dev/github.com/harborcms/harbor/pkg/plugins
// [plugins/lms]: https://pkg.go.dev/github.com/harborcms/harbor/pkg/plugins/lms
// [plugins/downloads]: https://pkg.go.dev/github.com/harborcms/harbor/pkg/plugins/downloads
// [cache]: https://pkg.go.dev/github.com/harborcms/harbor/pkg/cache
// [errors]: https://pkg.go.dev/github.com/harborcms/harbor/pkg/errors
// [observability]: https://pkg.go.dev/github.com/harborcms/harbor/pkg/observability
package pkg
