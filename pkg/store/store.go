// Package store defines the persistence collaborators route resolution reads
// from, plus a map-backed implementation for tests and the demo dataset.
//
// The interfaces are deliberately narrow: resolution only ever reads, and
// each resolver names just the views it touches. All lookups are scoped to an
// organization. "Not found" is a nil record with a nil error; errors are
// reserved for storage failures.
package store

import (
	"context"

	"github.com/harborcms/harbor/pkg/content"
)

// OptionStore reads persisted configuration values. The second return of
// Option reports whether a record exists at all; a stored nil value is
// returned as (nil, true, nil).
type OptionStore interface {
	Option(ctx context.Context, organizationID, metaKey, optionType string) (any, bool, error)
}

// PostTypeStore reads post type definitions.
type PostTypeStore interface {
	PostTypes(ctx context.Context, organizationID string) ([]content.PostType, error)
	PostTypeBySlug(ctx context.Context, organizationID, slug string) (*content.PostType, error)
}

// TaxonomyStore reads taxonomies, their terms, and term assignments.
type TaxonomyStore interface {
	TaxonomyBySlug(ctx context.Context, organizationID, slug string) (*content.Taxonomy, error)
	TermBySlug(ctx context.Context, organizationID, taxonomySlug, termSlug string) (*content.Term, error)
	Assignments(ctx context.Context, organizationID, termID string) ([]content.TermAssignment, error)
}

// PostGetter reads individual core posts and their metadata.
type PostGetter interface {
	PostBySlug(ctx context.Context, organizationID, postTypeSlug, slug string) (*content.Post, error)
	PostByID(ctx context.Context, organizationID, id string) (*content.Post, error)
	PostMeta(ctx context.Context, organizationID, postID string) (content.Meta, error)
}

// PostLister lists published core posts for archive and taxonomy listings.
// A non-positive limit means no limit. Results are ordered newest first.
type PostLister interface {
	PublishedPosts(ctx context.Context, organizationID, postTypeSlug string, limit int) ([]content.Post, error)
}

// EntityStore reads the generic entity tables backing "custom" storage post
// types. The table name comes from the post type's storage configuration.
type EntityStore interface {
	EntityBySlug(ctx context.Context, organizationID, table, slug string) (*content.Entity, error)
	EntityByID(ctx context.Context, organizationID, table, id string) (*content.Entity, error)
	Entities(ctx context.Context, organizationID, table string, limit int) ([]content.Entity, error)
}

// Queries bundles every view resolution needs. The request pipeline carries
// one Queries value; implementations include Memory and the mongo backend.
type Queries interface {
	OptionStore
	PostTypeStore
	TaxonomyStore
	PostGetter
	PostLister
	EntityStore
}
