package routing

import (
	"context"

	"github.com/harborcms/harbor/pkg/content"
)

// Listing limits. Taxonomy listings intersect against assigned IDs, so they
// fetch a larger window than plain archives.
const (
	archiveListLimit  = 50
	taxonomyListLimit = 200
)

// lmsPluginID gates component-backed listings, mirroring the certificates
// bypass as a named LMS special case.
const lmsPluginID = "lms"

// componentSlugs are the post types historically served by the LMS component
// backend rather than core storage.
var componentSlugs = map[string]bool{
	"courses":      true,
	"lessons":      true,
	"topics":       true,
	"quizzes":      true,
	"certificates": true,
	"badges":       true,
}

// isComponentType reports whether a post type is served by a component
// backend, either by the fixed LMS slug set or by its storage declaration.
func isComponentType(pt *content.PostType) bool {
	if pt == nil {
		return false
	}
	return componentSlugs[normalizeSlug(pt.Slug)] || pt.StorageKind == content.StorageComponent
}

// listPostsFor lists published posts of one post type, dispatching on its
// storage kind. "custom" storage lists entities and synthesizes posts with
// provenance-tagged IDs; component and core types list from the posts
// backend. When assigned is non-nil, only records whose raw ID is in the set
// are returned (taxonomy listings).
func listPostsFor(ctx context.Context, req *Request, pt *content.PostType, limit int, assigned map[string]bool) ([]content.Post, error) {
	if pt == nil {
		return nil, nil
	}

	if pt.StorageKind == content.StorageCustom {
		var tables []string
		if len(pt.StorageTables) > 0 {
			tables = pt.StorageTables
		} else {
			tables = []string{pt.Slug}
		}
		var out []content.Post
		for _, table := range tables {
			entities, err := req.Queries.Entities(ctx, req.OrganizationID, table, limit)
			if err != nil {
				return nil, err
			}
			for i := range entities {
				e := &entities[i]
				if e.Status != content.StatusPublished {
					continue
				}
				if assigned != nil && !assigned[e.ID] {
					continue
				}
				out = append(out, *content.PostFromEntity(req.OrganizationID, pt.Slug, e))
			}
		}
		return out, nil
	}

	// Component types are invisible while the LMS plugin is off.
	if isComponentType(pt) && !req.Plugins.Enabled(lmsPluginID) {
		return nil, nil
	}

	// Component and core posts share the lister; the storage kind decided
	// which store owns writes, reads are uniform.
	posts, err := req.Queries.PublishedPosts(ctx, req.OrganizationID, pt.Slug, limit)
	if err != nil {
		return nil, err
	}
	if assigned == nil {
		return posts, nil
	}
	out := make([]content.Post, 0, len(posts))
	for _, p := range posts {
		if assigned[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

// resolveArchive matches the request path against post-type archive slugs
// and lists that type's published posts. Registered as "core:archive".
func resolveArchive(ctx context.Context, req *Request) (*Result, error) {
	path := NormalizePath(req.Path())
	if path == "" {
		return nil, nil
	}

	postTypes, err := req.Queries.PostTypes(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	for i := range postTypes {
		pt := &postTypes[i]
		if pt.Rewrite == nil || !pt.Rewrite.HasArchive {
			continue
		}
		if NormalizePath(pt.Rewrite.ArchiveSlug) != path {
			continue
		}
		posts, err := listPostsFor(ctx, req, pt, archiveListLimit, nil)
		if err != nil {
			return nil, err
		}
		return &Result{
			Kind:    KindArchive,
			Archive: &ArchiveResult{PostType: pt, Posts: posts},
		}, nil
	}
	return nil, nil
}
