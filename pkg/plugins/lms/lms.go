// Package lms is the learning-management plugin: it serves the course
// hierarchy post types (courses, lessons, topics, quizzes, certificates,
// badges) and the certificate URLs nested under courses.
package lms

import (
	"context"
	"strings"

	"github.com/harborcms/harbor/pkg/content"
	"github.com/harborcms/harbor/pkg/hooks"
	"github.com/harborcms/harbor/pkg/plugin"
	"github.com/harborcms/harbor/pkg/routing"
)

// PluginID identifies the plugin for enablement gating.
const PluginID = "lms"

// Descriptor declares the plugin and its activation option. LMS ships
// enabled unless an organization switches it off.
func Descriptor() plugin.Descriptor {
	return plugin.Descriptor{
		ID:   PluginID,
		Name: "LMS",
		Activation: plugin.Activation{
			OptionKey:      "plugin.lms.enabled",
			OptionType:     content.OptionTypeSite,
			DefaultEnabled: true,
		},
	}
}

// postTypeSlugs are the post types the LMS store serves.
var postTypeSlugs = []string{"courses", "lessons", "topics", "quizzes", "certificates", "badges"}

// Plugin registers the LMS contributions.
type Plugin struct{}

// New creates the plugin.
func New() *Plugin {
	return &Plugin{}
}

// Register implements routing.Module.
func (p *Plugin) Register(reg *routing.Registry) {
	reg.PostStores.Add("lms:post-store", hooks.DefaultPriority, func(ss []routing.PostStore) []routing.PostStore {
		return append(ss, &postStore{})
	})
	reg.RouteHandlers.Add("lms:route-handlers", hooks.DefaultPriority, func(hs []routing.Handler) []routing.Handler {
		return append(hs, routing.Handler{
			ID:       "lms:certificate",
			PluginID: PluginID,
			Priority: 10,
			Fn:       resolveCertificate,
		})
	})
}

// postStore serves the LMS post types from the posts backend, published
// records only. Priority 10 so it beats the generic entity fallback.
type postStore struct{}

func (s *postStore) ID() string              { return "lms:posts" }
func (s *postStore) PluginID() string        { return PluginID }
func (s *postStore) Priority() int           { return 10 }
func (s *postStore) PostTypeSlugs() []string { return postTypeSlugs }

func (s *postStore) GetBySlug(ctx context.Context, req *routing.Request, postTypeSlug, slug string) (*content.Post, error) {
	p, err := req.Queries.PostBySlug(ctx, req.OrganizationID, postTypeSlug, slug)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Status != content.StatusPublished {
		return nil, nil
	}
	return p, nil
}

func (s *postStore) GetByID(ctx context.Context, req *routing.Request, _, id string) (*content.Post, error) {
	p, err := req.Queries.PostByID(ctx, req.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Status != content.StatusPublished {
		return nil, nil
	}
	return p, nil
}

// resolveCertificate serves certificate URLs nested under the course
// hierarchy: course/<course>/certificate/<slug>. These paths are exempt from
// canonicalization, so the same certificate also stays reachable through its
// own permalink.
func resolveCertificate(ctx context.Context, req *routing.Request) (*routing.Result, error) {
	segments := req.Segments
	if len(segments) < 2 || strings.ToLower(strings.TrimSpace(segments[0])) != "course" {
		return nil, nil
	}
	certSlug := certificateSlug(segments)
	if certSlug == "" {
		return nil, nil
	}

	post, storeID, err := routing.ResolvePost(ctx, req.Registry, req, content.SlugIdentifier("certificates", certSlug))
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, nil
	}

	pt, err := req.Queries.PostTypeBySlug(ctx, req.OrganizationID, "certificates")
	if err != nil {
		return nil, err
	}
	if pt == nil {
		pt = content.Placeholder("certificates")
	}
	meta, err := req.Queries.PostMeta(ctx, req.OrganizationID, post.ID)
	if err != nil {
		return nil, err
	}

	canonical, err := routing.EnsureCanonical(req.Path(), post, pt, meta)
	if err != nil {
		return nil, err
	}

	return &routing.Result{
		Kind: routing.KindSingle,
		Single: &routing.SingleResult{
			Post:          post,
			PostType:      pt,
			PostMeta:      meta,
			StoreID:       storeID,
			CanonicalPath: canonical,
		},
	}, nil
}

// certificateSlug extracts the segment following "certificate". A path that
// ends on "certificate" names no certificate and yields "".
func certificateSlug(segments []string) string {
	for i, seg := range segments {
		if strings.ToLower(strings.TrimSpace(seg)) != "certificate" {
			continue
		}
		if i+1 < len(segments) {
			return strings.ToLower(strings.TrimSpace(segments[i+1]))
		}
	}
	return ""
}
