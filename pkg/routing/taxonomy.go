package routing

import (
	"context"
	"sort"

	"github.com/harborcms/harbor/pkg/content"
	"github.com/harborcms/harbor/pkg/errors"
	"github.com/harborcms/harbor/pkg/store"
)

// Default taxonomy archive base segments, used when no permalink settings
// are stored at either scope.
const (
	defaultCategoryBase = "categories"
	defaultTagBase      = "tags"
)

// permalinkSettings resolves the archive base segments: the organization
// record when one exists, otherwise the global record, otherwise defaults.
// The scopes do not merge per field; an organization record with an empty
// field falls back to the default, never to the global value.
func permalinkSettings(ctx context.Context, opts store.OptionStore, organizationID string) (content.PermalinkSettings, error) {
	settings := content.PermalinkSettings{}
	for _, scope := range []string{organizationID, ""} {
		value, found, err := opts.Option(ctx, scope, content.PermalinkOptionKey, content.OptionTypeSite)
		if err != nil {
			return settings, err
		}
		if !found {
			continue
		}
		m, ok := value.(map[string]any)
		if !ok {
			continue
		}
		meta := content.Meta(m)
		settings.CategoryBase = meta.String("categoryBase")
		settings.TagBase = meta.String("tagBase")
		break
	}
	if settings.CategoryBase == "" {
		settings.CategoryBase = defaultCategoryBase
	}
	if settings.TagBase == "" {
		settings.TagBase = defaultTagBase
	}
	return settings, nil
}

// resolveTaxonomyArchive resolves taxonomy term listings. Registered as
// "core:taxonomy".
//
// The first segment classifies the taxonomy: the configured category base
// (or the legacy "category" singular) maps to "category", the tag base (or
// "tag") to "post_tag", anything else is tried as a custom taxonomy slug. The
// last segment names the term. A known taxonomy with an unknown term is a
// definitive not-found; an unknown taxonomy is simply no match.
func resolveTaxonomyArchive(ctx context.Context, req *Request) (*Result, error) {
	if len(req.Segments) < 2 {
		return nil, nil
	}

	settings, err := permalinkSettings(ctx, req.Queries, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	first := normalizeSlug(req.Segments[0])
	var taxonomySlug string
	switch first {
	case normalizeSlug(settings.CategoryBase), "category":
		taxonomySlug = "category"
	case normalizeSlug(settings.TagBase), "tag":
		taxonomySlug = "post_tag"
	default:
		tax, err := req.Queries.TaxonomyBySlug(ctx, req.OrganizationID, first)
		if err != nil {
			return nil, err
		}
		if tax == nil {
			return nil, nil
		}
		taxonomySlug = tax.Slug
	}

	termSlug := normalizeSlug(req.LastSegment())
	term, err := req.Queries.TermBySlug(ctx, req.OrganizationID, taxonomySlug, termSlug)
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, errors.NewNotFound("term", taxonomySlug+"/"+termSlug)
	}

	assignments, err := req.Queries.Assignments(ctx, req.OrganizationID, term.ID)
	if err != nil {
		return nil, err
	}

	// Group assigned object IDs by post type.
	grouped := make(map[string]map[string]bool)
	for _, a := range assignments {
		slug := normalizeSlug(a.PostTypeSlug)
		if slug == "" {
			continue
		}
		if grouped[slug] == nil {
			grouped[slug] = make(map[string]bool)
		}
		grouped[slug][a.ObjectID] = true
	}

	// An invalid post_type value counts as not supplied; the request still
	// gets the grouped listing.
	if requested := req.Param("post_type"); requested != "" && errors.ValidateSlug(requested) == nil {
		slug := normalizeSlug(requested)
		section, err := taxonomySection(ctx, req, slug, grouped[slug])
		if err != nil {
			return nil, err
		}
		sections := []Section{}
		if section != nil {
			sections = append(sections, *section)
		}
		return &Result{
			Kind:     KindTaxonomy,
			Taxonomy: &TaxonomyResult{TaxonomySlug: taxonomySlug, Term: term, Sections: sections},
		}, nil
	}

	slugs := make([]string, 0, len(grouped))
	for slug := range grouped {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	sections := make([]Section, 0, len(slugs))
	for _, slug := range slugs {
		section, err := taxonomySection(ctx, req, slug, grouped[slug])
		if err != nil {
			return nil, err
		}
		if section != nil {
			sections = append(sections, *section)
		}
	}
	return &Result{
		Kind:     KindTaxonomy,
		Taxonomy: &TaxonomyResult{TaxonomySlug: taxonomySlug, Term: term, Sections: sections},
	}, nil
}

// taxonomySection lists one post type's assigned posts. Returns nil for an
// empty section so it is dropped from the result.
func taxonomySection(ctx context.Context, req *Request, postTypeSlug string, assigned map[string]bool) (*Section, error) {
	if len(assigned) == 0 {
		return nil, nil
	}
	pt, err := req.Queries.PostTypeBySlug(ctx, req.OrganizationID, postTypeSlug)
	if err != nil {
		return nil, err
	}
	if pt == nil {
		pt = content.Placeholder(postTypeSlug)
	}
	posts, err := listPostsFor(ctx, req, pt, taxonomyListLimit, assigned)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return &Section{PostType: pt, Posts: posts}, nil
}
