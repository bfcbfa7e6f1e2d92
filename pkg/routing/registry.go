package routing

import (
	"context"

	"github.com/harborcms/harbor/pkg/content"
	"github.com/harborcms/harbor/pkg/hooks"
)

// HandlerFunc attempts to resolve a request. A nil result with a nil error
// means "no match"; a Redirect or NotFound signal short-circuits the chain.
type HandlerFunc func(ctx context.Context, req *Request) (*Result, error)

// Handler is one entry in the route handler chain.
type Handler struct {
	// ID names the handler in logs ("core:single", "lms:course-preview").
	ID string
	// PluginID gates the handler on plugin enablement; empty means core.
	PluginID string
	// Priority orders the chain, ascending. Core handlers run at 10.
	Priority int
	// Fn does the work.
	Fn HandlerFunc
}

// AccessAction is notified when a resolved post turns out to be
// access-restricted. Actions observe; they cannot change the outcome.
type AccessAction struct {
	ID       string
	PluginID string
	Fn       func(ctx context.Context, req *Request, post *content.Post)
}

// Registry holds the extension points plugins register against. Each point
// is a typed filter, so contributing to the wrong point is a compile error.
// A Registry is built once at startup and treated as read-only afterwards.
type Registry struct {
	RouteHandlers       hooks.Filter[[]Handler]
	PostStores          hooks.Filter[[]PostStore]
	PostStoreOverrides  hooks.Filter[[]PostStore]
	AccessDeniedActions hooks.Filter[[]AccessAction]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Module is implemented by plugins that contribute handlers or stores.
// Register is called once at startup; contributions are gated at request
// time by the plugin's enablement, not at registration time.
type Module interface {
	Register(reg *Registry)
}

// RegisterCore installs the built-in route handlers and post stores. Safe to
// call more than once; registrations are idempotent by id.
func RegisterCore(reg *Registry) {
	reg.RouteHandlers.Add("core:route-handlers", hooks.DefaultPriority, func(hs []Handler) []Handler {
		return append(hs,
			Handler{ID: "core:archive", Priority: 10, Fn: resolveArchive},
			Handler{ID: "core:taxonomy", Priority: 10, Fn: resolveTaxonomyArchive},
			Handler{ID: "core:single", Priority: 10, Fn: resolveSingle},
		)
	})
	reg.PostStores.Add("core:post-stores", hooks.DefaultPriority, func(ss []PostStore) []PostStore {
		return append(ss,
			&entityPostStore{},
			&corePostStore{},
		)
	})
}
