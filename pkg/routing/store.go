package routing

import (
	"context"
	"sort"
	"strings"

	"github.com/harborcms/harbor/pkg/content"
)

// PostStore fetches posts for the single-post handler. Stores declare which
// post type slugs they serve; a store with no slugs is a generic fallback.
// An accessor a store does not support returns (nil, nil).
//
// Returned posts must pass content.Post.HasValidID to count as a match; a
// store that synthesizes placeholder records for unknown inputs is treated
// as having found nothing.
type PostStore interface {
	// ID names the store in results and logs.
	ID() string
	// PluginID gates the store on plugin enablement; empty means core.
	PluginID() string
	// Priority orders store selection. Higher wins. Core stores run at
	// -10 (entities) and -20 (posts) so plugin stores take precedence.
	Priority() int
	// PostTypeSlugs lists the post types this store serves; nil means any.
	PostTypeSlugs() []string

	GetBySlug(ctx context.Context, req *Request, postTypeSlug, slug string) (*content.Post, error)
	GetByID(ctx context.Context, req *Request, postTypeSlug, id string) (*content.Post, error)
}

// ResolvePost finds the post for an identifier in two phases: override
// stores first (descending priority, first valid result wins), then the
// best-matching primary store. Stores belonging to disabled plugins are
// skipped entirely. Returns the post and the winning store's ID, or a nil
// post when nothing matched.
func ResolvePost(ctx context.Context, reg *Registry, req *Request, ident content.Identifier) (*content.Post, string, error) {
	want := normalizeSlug(ident.PostTypeSlug)

	for _, s := range enabledStores(reg.PostStoreOverrides.Apply(nil), req) {
		p, err := invokeStore(ctx, s, req, ident)
		if err != nil {
			return nil, "", err
		}
		if p.HasValidID() {
			return p, s.ID(), nil
		}
	}

	primaries := enabledStores(reg.PostStores.Apply(nil), req)
	chosen := selectPrimary(primaries, want)
	if chosen == nil {
		return nil, "", nil
	}

	p, err := invokeStore(ctx, chosen, req, ident)
	if err != nil {
		return nil, "", err
	}
	if !p.HasValidID() {
		return nil, "", nil
	}
	return p, chosen.ID(), nil
}

// enabledStores drops nil and plugin-disabled stores and sorts the rest by
// descending priority, stable for ties.
func enabledStores(stores []PostStore, req *Request) []PostStore {
	out := make([]PostStore, 0, len(stores))
	for _, s := range stores {
		if s == nil || !req.Plugins.Enabled(s.PluginID()) {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority() > out[j].Priority()
	})
	return out
}

// selectPrimary picks the highest-priority store whose slugs contain want,
// falling back to the first store with no slug restriction. stores must
// already be sorted by descending priority.
func selectPrimary(stores []PostStore, want string) PostStore {
	for _, s := range stores {
		for _, slug := range s.PostTypeSlugs() {
			if normalizeSlug(slug) == want {
				return s
			}
		}
	}
	for _, s := range stores {
		if len(s.PostTypeSlugs()) == 0 {
			return s
		}
	}
	return nil
}

func invokeStore(ctx context.Context, s PostStore, req *Request, ident content.Identifier) (*content.Post, error) {
	switch ident.Kind {
	case content.ByID:
		return s.GetByID(ctx, req, ident.PostTypeSlug, ident.ID)
	default:
		return s.GetBySlug(ctx, req, ident.PostTypeSlug, ident.Slug)
	}
}

func normalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// corePostStore serves core-storage posts. The lowest-priority store, so any
// plugin store for the same post types wins.
type corePostStore struct{}

func (s *corePostStore) ID() string              { return "core:posts" }
func (s *corePostStore) PluginID() string        { return "" }
func (s *corePostStore) Priority() int           { return -20 }
func (s *corePostStore) PostTypeSlugs() []string { return []string{"posts", "pages"} }

func (s *corePostStore) GetBySlug(ctx context.Context, req *Request, postTypeSlug, slug string) (*content.Post, error) {
	p, err := req.Queries.PostBySlug(ctx, req.OrganizationID, postTypeSlug, slug)
	if err != nil {
		return nil, err
	}
	return publishedOnly(p), nil
}

func (s *corePostStore) GetByID(ctx context.Context, req *Request, _, id string) (*content.Post, error) {
	p, err := req.Queries.PostByID(ctx, req.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	return publishedOnly(p), nil
}

// entityPostStore serves "custom" storage post types from the generic entity
// tables, synthesizing post records with provenance-tagged IDs. It carries no
// slug restriction, so it is the fallback when nothing claims a post type.
type entityPostStore struct{}

func (s *entityPostStore) ID() string              { return "core:entities" }
func (s *entityPostStore) PluginID() string        { return "" }
func (s *entityPostStore) Priority() int           { return -10 }
func (s *entityPostStore) PostTypeSlugs() []string { return nil }

func (s *entityPostStore) GetBySlug(ctx context.Context, req *Request, postTypeSlug, slug string) (*content.Post, error) {
	for _, table := range entityTables(ctx, req, postTypeSlug) {
		e, err := req.Queries.EntityBySlug(ctx, req.OrganizationID, table, slug)
		if err != nil {
			return nil, err
		}
		if e != nil && e.Status == content.StatusPublished {
			return content.PostFromEntity(req.OrganizationID, postTypeSlug, e), nil
		}
	}
	return nil, nil
}

func (s *entityPostStore) GetByID(ctx context.Context, req *Request, postTypeSlug, id string) (*content.Post, error) {
	// Accept both raw entity IDs and synthetic custom:<type>:<id> forms.
	if syn, ok := content.ParseSyntheticID(id); ok {
		postTypeSlug = syn.PostTypeSlug
		id = syn.RawID
	}
	for _, table := range entityTables(ctx, req, postTypeSlug) {
		e, err := req.Queries.EntityByID(ctx, req.OrganizationID, table, id)
		if err != nil {
			return nil, err
		}
		if e != nil && e.Status == content.StatusPublished {
			return content.PostFromEntity(req.OrganizationID, postTypeSlug, e), nil
		}
	}
	return nil, nil
}

// entityTables returns the storage tables for a post type, defaulting to the
// post type slug itself when no definition or tables exist.
func entityTables(ctx context.Context, req *Request, postTypeSlug string) []string {
	pt, err := req.Queries.PostTypeBySlug(ctx, req.OrganizationID, postTypeSlug)
	if err == nil && pt != nil && len(pt.StorageTables) > 0 {
		return pt.StorageTables
	}
	return []string{postTypeSlug}
}

func publishedOnly(p *content.Post) *content.Post {
	if p == nil || p.Status != content.StatusPublished {
		return nil
	}
	return p
}
