package routing

import (
	"strings"

	"github.com/harborcms/harbor/pkg/content"
	"github.com/harborcms/harbor/pkg/errors"
)

// NormalizePath reduces a path to its non-empty segments joined by single
// slashes, with no leading or trailing slash. Comparison of request paths
// against canonical candidates always happens in this form.
func NormalizePath(p string) string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}

// BuildPath substitutes a '/'-delimited template against a post. Supported
// tokens, each spanning a whole segment: {slug}, {id}, and {meta.<key>}. If
// any token resolves to an empty value the whole path is aborted and ""
// is returned, so a half-substituted URL can never leak out.
func BuildPath(template string, post *content.Post, meta content.Meta) string {
	if template == "" || post == nil {
		return ""
	}
	segments := strings.Split(template, "/")
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if !strings.HasPrefix(seg, "{") || !strings.HasSuffix(seg, "}") {
			out = append(out, seg)
			continue
		}
		token := seg[1 : len(seg)-1]
		var value string
		switch {
		case token == "slug":
			value = post.Slug
		case token == "id":
			value = post.ID
		case strings.HasPrefix(token, "meta."):
			value = meta.String(strings.TrimPrefix(token, "meta."))
		}
		if value == "" {
			return ""
		}
		out = append(out, value)
	}
	return strings.Join(out, "/")
}

// canonicalCandidates builds the canonical path and accepted alias paths for
// a post. The canonical comes from the post type's permalink template when
// one is configured and substitutes cleanly; otherwise it falls back to the
// single slug (or the post type slug) plus the post's slug or ID. Aliases
// that fail substitution are dropped.
func canonicalCandidates(post *content.Post, pt *content.PostType, meta content.Meta) (string, []string) {
	var canonical string
	var aliases []string

	if pt != nil && pt.Rewrite != nil && pt.Rewrite.Permalink != nil {
		canonical = BuildPath(pt.Rewrite.Permalink.Canonical, post, meta)
		for _, tmpl := range pt.Rewrite.Permalink.Aliases {
			if alias := BuildPath(tmpl, post, meta); alias != "" {
				aliases = append(aliases, alias)
			}
		}
	}

	if canonical == "" {
		base := ""
		if pt != nil {
			if pt.Rewrite != nil && pt.Rewrite.SingleSlug != "" {
				base = pt.Rewrite.SingleSlug
			} else {
				base = pt.Slug
			}
		}
		tail := post.Slug
		if tail == "" {
			tail = post.ID
		}
		canonical = NormalizePath(base + "/" + tail)
	}
	return canonical, aliases
}

// SkipCanonical reports whether canonical enforcement is bypassed for this
// request. Certificate URLs are historically served under both the course
// hierarchy and their own permalink, so certificate requests rooted at
// "course" are left untouched.
func SkipCanonical(postTypeSlug, requestPath string) bool {
	if postTypeSlug != "certificates" {
		return false
	}
	segments := strings.Split(NormalizePath(requestPath), "/")
	if segments[0] != "course" {
		return false
	}
	for _, seg := range segments[1:] {
		if seg == "certificate" {
			return true
		}
	}
	return false
}

// EnsureCanonical compares the requested path against the post's canonical
// path and aliases. A mismatch returns a Redirect signal to the canonical
// location; a match (or bypass) returns nil. The canonical path is returned
// either way for the render payload.
func EnsureCanonical(requestPath string, post *content.Post, pt *content.PostType, meta content.Meta) (string, error) {
	ptSlug := ""
	if pt != nil {
		ptSlug = pt.Slug
	}
	canonical, aliases := canonicalCandidates(post, pt, meta)
	if SkipCanonical(ptSlug, requestPath) {
		return canonical, nil
	}

	requested := NormalizePath(requestPath)
	if requested == NormalizePath(canonical) {
		return canonical, nil
	}
	for _, alias := range aliases {
		if requested == NormalizePath(alias) {
			return canonical, nil
		}
	}
	return canonical, errors.NewRedirect("/" + canonical)
}
