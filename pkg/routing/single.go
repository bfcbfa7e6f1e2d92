package routing

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/harborcms/harbor/pkg/content"
	"github.com/harborcms/harbor/pkg/errors"
)

// accessRestrictedKey is the post meta flag marking a post as gated. A
// restricted post resolves to a definitive not-found after notifying the
// AccessDeniedActions extension point.
const accessRestrictedKey = "accessRestricted"

// resolveSingle resolves a path to one post. Registered as "core:single".
//
// The candidate slug is the last non-empty segment. The post type is derived
// from the path prefix matching a post type's single slug; an unprefixed path
// tries pages, then posts. The post itself comes from the post store
// resolver, so plugin stores take part transparently.
func resolveSingle(ctx context.Context, req *Request) (*Result, error) {
	slug := normalizeSlug(req.LastSegment())
	if slug == "" {
		return nil, nil
	}

	postTypes, err := req.Queries.PostTypes(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	candidates := singleTypeCandidates(postTypes, NormalizePath(req.Path()))

	var post *content.Post
	var storeID, typeSlug string
	for _, candidate := range candidates {
		post, storeID, err = ResolvePost(ctx, req.Registry, req, content.SlugIdentifier(candidate, slug))
		if err != nil {
			return nil, err
		}
		if post != nil {
			typeSlug = candidate
			break
		}
	}
	if post == nil {
		return nil, nil
	}

	// The post type document and the post's metadata are independent reads.
	var pt *content.PostType
	var meta content.Meta
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pt, err = req.Queries.PostTypeBySlug(gctx, req.OrganizationID, typeSlug)
		return err
	})
	g.Go(func() error {
		var err error
		meta, err = req.Queries.PostMeta(gctx, req.OrganizationID, post.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if pt == nil {
		pt = content.Placeholder(typeSlug)
	}

	if restricted, ok := meta.Bool(accessRestrictedKey); ok && restricted {
		for _, action := range req.Registry.AccessDeniedActions.Apply(nil) {
			if action.Fn == nil || !req.Plugins.Enabled(action.PluginID) {
				continue
			}
			action.Fn(ctx, req, post)
		}
		return nil, errors.NewNotFound("post", typeSlug+"/"+slug)
	}

	canonical, err := EnsureCanonical(req.Path(), post, pt, meta)
	if err != nil {
		return nil, err
	}

	return &Result{
		Kind: KindSingle,
		Single: &SingleResult{
			Post:          post,
			PostType:      pt,
			PostMeta:      meta,
			StoreID:       storeID,
			CanonicalPath: canonical,
		},
	}, nil
}

// singleTypeCandidates orders the post type slugs to try for a path. A path
// prefixed by a post type's single slug tries that type first (longest
// prefix wins); otherwise pages then posts.
func singleTypeCandidates(postTypes []content.PostType, path string) []string {
	var best string
	bestLen := -1
	for i := range postTypes {
		pt := &postTypes[i]
		if pt.Rewrite == nil {
			continue
		}
		base := NormalizePath(pt.Rewrite.SingleSlug)
		if base == "" || path == base {
			continue
		}
		if strings.HasPrefix(path, base+"/") && len(base) > bestLen {
			best = pt.Slug
			bestLen = len(base)
		}
	}
	if best != "" {
		return []string{best}
	}
	return []string{"pages", "posts"}
}
