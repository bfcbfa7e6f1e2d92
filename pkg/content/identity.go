package content

import (
	"fmt"
	"strings"
)

// IdentifierKind distinguishes the two ways an entity can be looked up.
type IdentifierKind string

// Identifier kinds.
const (
	BySlug IdentifierKind = "slug"
	ByID   IdentifierKind = "id"
)

// Identifier is a tagged union naming one entity of one post type, either by
// slug or by id.
type Identifier struct {
	Kind         IdentifierKind
	PostTypeSlug string
	Slug         string
	ID           string
}

// SlugIdentifier builds a slug-kind identifier.
func SlugIdentifier(postTypeSlug, slug string) Identifier {
	return Identifier{Kind: BySlug, PostTypeSlug: postTypeSlug, Slug: slug}
}

// IDIdentifier builds an id-kind identifier.
func IDIdentifier(postTypeSlug, id string) Identifier {
	return Identifier{Kind: ByID, PostTypeSlug: postTypeSlug, ID: id}
}

// SyntheticID carries the provenance of an entity synthesized from a custom
// storage backend. IDs of this shape are encoded as "custom:<postType>:<raw>"
// at the storage boundary; ParseSyntheticID decodes them exactly once so the
// rest of the pipeline works with typed provenance instead of string tags.
type SyntheticID struct {
	PostTypeSlug string
	RawID        string
}

// syntheticPrefix tags IDs of entities synthesized from the custom entity
// store.
const syntheticPrefix = "custom"

// String encodes the synthetic id in its wire form.
func (s SyntheticID) String() string {
	return fmt.Sprintf("%s:%s:%s", syntheticPrefix, s.PostTypeSlug, s.RawID)
}

// ParseSyntheticID decodes a "custom:<postType>:<raw>" id. The second return
// is false for ordinary (non-synthetic) ids.
func ParseSyntheticID(id string) (SyntheticID, bool) {
	parts := strings.SplitN(id, ":", 3)
	if len(parts) != 3 || parts[0] != syntheticPrefix {
		return SyntheticID{}, false
	}
	if parts[1] == "" || parts[2] == "" {
		return SyntheticID{}, false
	}
	return SyntheticID{PostTypeSlug: parts[1], RawID: parts[2]}, true
}

// PostFromEntity synthesizes a post-like record from a generic entity row.
// Synthesized posts always carry a provenance-tagged id, a published status,
// and timestamps defaulting to the entity's own.
func PostFromEntity(organizationID, postTypeSlug string, e *Entity) *Post {
	if e == nil || e.ID == "" {
		return nil
	}
	return &Post{
		ID:             SyntheticID{PostTypeSlug: postTypeSlug, RawID: e.ID}.String(),
		OrganizationID: organizationID,
		PostTypeSlug:   postTypeSlug,
		Slug:           e.Slug,
		Title:          e.Title,
		Excerpt:        e.Excerpt,
		Content:        e.Content,
		Status:         StatusPublished,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
		Fields:         e.Fields,
	}
}
