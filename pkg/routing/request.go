package routing

import (
	"net/url"
	"strings"

	"github.com/harborcms/harbor/pkg/content"
	"github.com/harborcms/harbor/pkg/plugin"
	"github.com/harborcms/harbor/pkg/store"
)

// Request is the per-request resolution context. It is built once by the
// chain and passed to every handler and store: path segments, query
// parameters, the organization scope, the plugins enabled for this request,
// and the persistence views.
type Request struct {
	OrganizationID string
	Segments       []string
	Params         url.Values
	Plugins        plugin.Set
	Queries        store.Queries
	Registry       *Registry
}

// Path returns the normalized request path with a leading slash.
func (r *Request) Path() string {
	return "/" + strings.Join(r.Segments, "/")
}

// LastSegment returns the last non-empty path segment, or "".
func (r *Request) LastSegment() string {
	for i := len(r.Segments) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(r.Segments[i]); s != "" {
			return s
		}
	}
	return ""
}

// Param returns the first query parameter value for name.
func (r *Request) Param(name string) string {
	if r.Params == nil {
		return ""
	}
	return r.Params.Get(name)
}

// Result kinds.
const (
	KindSingle   = "single"
	KindArchive  = "archive"
	KindTaxonomy = "taxonomy"
)

// Result is a resolved route. Exactly one payload field is set, matching
// Kind. A nil *Result from a handler means "no match, try the next handler".
type Result struct {
	Kind     string          `json:"kind"`
	Single   *SingleResult   `json:"single,omitempty"`
	Archive  *ArchiveResult  `json:"archive,omitempty"`
	Taxonomy *TaxonomyResult `json:"taxonomy,omitempty"`
}

// SingleResult is the render payload for one post.
type SingleResult struct {
	Post          *content.Post     `json:"post"`
	PostType      *content.PostType `json:"postType"`
	PostMeta      content.Meta      `json:"postMeta"`
	StoreID       string            `json:"storeId"`
	CanonicalPath string            `json:"canonicalPath"`
}

// ArchiveResult is the render payload for a post-type archive.
type ArchiveResult struct {
	PostType *content.PostType `json:"postType"`
	Posts    []content.Post    `json:"posts"`
}

// Section is one post-type group within a taxonomy listing.
type Section struct {
	PostType *content.PostType `json:"postType"`
	Posts    []content.Post    `json:"posts"`
}

// TaxonomyResult is the render payload for a taxonomy term listing. Sections
// are ordered by post type slug; empty sections are dropped.
type TaxonomyResult struct {
	TaxonomySlug string        `json:"taxonomySlug"`
	Term         *content.Term `json:"term"`
	Sections     []Section     `json:"sections"`
}
