package content

import (
	"strings"
	"time"
)

// Post statuses stored on post records.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// Storage kinds declared on post types. The kind decides which backend the
// archive and taxonomy resolvers list posts from.
const (
	StorageCore      = "core"      // shared posts collection
	StorageComponent = "component" // plugin-owned posts collection (e.g. LMS)
	StorageCustom    = "custom"    // generic entity store with synthesized posts
)

// Post is a generic content entity: an article, page, product, course,
// download, and so on, identified by its post-type slug. Arbitrary
// plugin-defined fields live in Fields.
type Post struct {
	ID             string
	OrganizationID string
	PostTypeSlug   string
	Slug           string
	Title          string
	Excerpt        string
	Content        string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Fields         map[string]any
}

// HasValidID reports whether the post carries a usable identifier. Stores
// that synthesize placeholder records for not-found inputs produce posts
// without one; those are treated as "not found", never as a match.
func (p *Post) HasValidID() bool {
	return p != nil && p.ID != ""
}

// Meta is a post's metadata map (key → value). Values originate from
// loosely-typed plugin storage, so typed accessors are provided.
type Meta map[string]any

// String returns the trimmed string value for key, or "" when the value is
// absent, empty, or not a string.
func (m Meta) String(key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// Bool returns the boolean value for key, interpreting the loose encodings
// plugins store ("true"/"1"/"yes", numbers, booleans). The second return
// reports whether a boolean could be derived.
func (m Meta) Bool(key string) (bool, bool) {
	return ParseBool(m[key])
}

// ParseBool interprets the loose boolean encodings found in stored option and
// meta values. The second return reports whether a boolean could be derived.
func ParseBool(v any) (bool, bool) {
	switch v := v.(type) {
	case bool:
		return v, true
	case float64:
		return v != 0, true
	case int:
		return v != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		}
	}
	return false, false
}

// PostType is a named content schema with its own storage backend and URL
// rewrite rules.
type PostType struct {
	Slug           string
	Name           string
	Description    string
	OrganizationID string
	StorageKind    string
	StorageTables  []string
	Rewrite        *Rewrite
}

// Placeholder returns a minimal post type for a slug with no stored
// definition, so listings can still render a section for it.
func Placeholder(slug string) *PostType {
	return &PostType{Slug: slug, Name: slug}
}

// Rewrite holds a post type's URL configuration.
type Rewrite struct {
	HasArchive  bool
	ArchiveSlug string
	SingleSlug  string
	Permalink   *Permalink
}

// Permalink declares the canonical URL template and accepted alias templates
// for a post type. Templates are '/'-delimited token strings; see
// routing.BuildPath for the token grammar.
type Permalink struct {
	Canonical string
	Aliases   []string
}

// Taxonomy is a classification scheme (e.g. "category") scoped to an
// organization.
type Taxonomy struct {
	Slug           string
	Name           string
	OrganizationID string
}

// Term is a single value within a taxonomy (e.g. "space-news").
type Term struct {
	ID             string
	Slug           string
	Name           string
	Description    string
	TaxonomySlug   string
	OrganizationID string
}

// TermAssignment links a term to a content object of some post type.
type TermAssignment struct {
	TermID         string
	ObjectID       string
	PostTypeSlug   string
	OrganizationID string
}

// Entity is a row in the generic entity store backing "custom" storage post
// types (downloads, attachments, ...). Entities are synthesized into
// post-like records at the resolution boundary.
type Entity struct {
	ID        string
	Slug      string
	Title     string
	Excerpt   string
	Content   string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
	Fields    map[string]any
}

// Option is a persisted configuration value, scoped either to a single
// organization or globally (empty OrganizationID).
type Option struct {
	MetaKey        string
	MetaValue      any
	Type           string
	OrganizationID string
}

// Option types.
const (
	OptionTypeSite  = "site"
	OptionTypeStore = "store"
)

// PermalinkSettings configures the base path segments for taxonomy archives.
// Unset fields fall back to global settings and then to the hardcoded
// defaults ("categories", "tags").
type PermalinkSettings struct {
	CategoryBase string
	TagBase      string
}

// PermalinkOptionKey is the option key permalink settings are stored under.
const PermalinkOptionKey = "permalink_settings"
