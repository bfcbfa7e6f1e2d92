package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/harborcms/harbor/pkg/content"
)

// Memory is a map-backed Queries implementation. Tests and the resolve debug
// command run against it; Seed fills one with the demo dataset.
type Memory struct {
	mu          sync.RWMutex
	options     []content.Option
	postTypes   []content.PostType
	posts       []content.Post
	postMeta    map[string]content.Meta
	taxonomies  []content.Taxonomy
	terms       []content.Term
	assignments []content.TermAssignment
	entities    map[string][]content.Entity
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		postMeta: make(map[string]content.Meta),
		entities: make(map[string][]content.Entity),
	}
}

// SetOption stores an option record, replacing any record with the same key,
// type and organization.
func (m *Memory) SetOption(opt content.Option) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.options {
		if existing.MetaKey == opt.MetaKey && existing.Type == opt.Type && existing.OrganizationID == opt.OrganizationID {
			m.options[i] = opt
			return
		}
	}
	m.options = append(m.options, opt)
}

// AddPostType stores a post type definition.
func (m *Memory) AddPostType(pt content.PostType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.postTypes = append(m.postTypes, pt)
}

// AddPost stores a post and its metadata. A missing ID is generated.
// Returns the post ID.
func (m *Memory) AddPost(p content.Post, meta content.Meta) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	m.posts = append(m.posts, p)
	if meta != nil {
		m.postMeta[p.ID] = meta
	}
	return p.ID
}

// AddTaxonomy stores a taxonomy.
func (m *Memory) AddTaxonomy(t content.Taxonomy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taxonomies = append(m.taxonomies, t)
}

// AddTerm stores a term. A missing ID is generated. Returns the term ID.
func (m *Memory) AddTerm(t content.Term) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	m.terms = append(m.terms, t)
	return t.ID
}

// Assign links a term to a content object.
func (m *Memory) Assign(a content.TermAssignment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments = append(m.assignments, a)
}

// AddEntity stores an entity in the named table. A missing ID is generated.
// Returns the entity ID.
func (m *Memory) AddEntity(organizationID, table string, e content.Entity) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	key := organizationID + "/" + table
	m.entities[key] = append(m.entities[key], e)
	return e.ID
}

// Option implements OptionStore.
func (m *Memory) Option(_ context.Context, organizationID, metaKey, optionType string) (any, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, opt := range m.options {
		if opt.OrganizationID == organizationID && opt.MetaKey == metaKey && opt.Type == optionType {
			return opt.MetaValue, true, nil
		}
	}
	return nil, false, nil
}

// PostTypes implements PostTypeStore.
func (m *Memory) PostTypes(_ context.Context, organizationID string) ([]content.PostType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []content.PostType
	for _, pt := range m.postTypes {
		if pt.OrganizationID == organizationID {
			out = append(out, pt)
		}
	}
	return out, nil
}

// PostTypeBySlug implements PostTypeStore.
func (m *Memory) PostTypeBySlug(_ context.Context, organizationID, slug string) (*content.PostType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, pt := range m.postTypes {
		if pt.OrganizationID == organizationID && pt.Slug == slug {
			found := pt
			return &found, nil
		}
	}
	return nil, nil
}

// TaxonomyBySlug implements TaxonomyStore.
func (m *Memory) TaxonomyBySlug(_ context.Context, organizationID, slug string) (*content.Taxonomy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.taxonomies {
		if t.OrganizationID == organizationID && t.Slug == slug {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

// TermBySlug implements TaxonomyStore.
func (m *Memory) TermBySlug(_ context.Context, organizationID, taxonomySlug, termSlug string) (*content.Term, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.terms {
		if t.OrganizationID == organizationID && t.TaxonomySlug == taxonomySlug && t.Slug == termSlug {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

// Assignments implements TaxonomyStore.
func (m *Memory) Assignments(_ context.Context, organizationID, termID string) ([]content.TermAssignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []content.TermAssignment
	for _, a := range m.assignments {
		if a.OrganizationID == organizationID && a.TermID == termID {
			out = append(out, a)
		}
	}
	return out, nil
}

// PostBySlug implements PostGetter.
func (m *Memory) PostBySlug(_ context.Context, organizationID, postTypeSlug, slug string) (*content.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.posts {
		if p.OrganizationID == organizationID && p.PostTypeSlug == postTypeSlug && p.Slug == slug {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

// PostByID implements PostGetter.
func (m *Memory) PostByID(_ context.Context, organizationID, id string) (*content.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.posts {
		if p.OrganizationID == organizationID && p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

// PostMeta implements PostGetter. An absent post yields an empty map.
func (m *Memory) PostMeta(_ context.Context, _ string, postID string) (content.Meta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	meta := m.postMeta[postID]
	out := make(content.Meta, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out, nil
}

// PublishedPosts implements PostLister, newest first.
func (m *Memory) PublishedPosts(_ context.Context, organizationID, postTypeSlug string, limit int) ([]content.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []content.Post
	for _, p := range m.posts {
		if p.OrganizationID == organizationID && p.PostTypeSlug == postTypeSlug && p.Status == content.StatusPublished {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// EntityBySlug implements EntityStore.
func (m *Memory) EntityBySlug(_ context.Context, organizationID, table, slug string) (*content.Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entities[organizationID+"/"+table] {
		if e.Slug == slug {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

// EntityByID implements EntityStore.
func (m *Memory) EntityByID(_ context.Context, organizationID, table, id string) (*content.Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entities[organizationID+"/"+table] {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

// Entities implements EntityStore, newest first.
func (m *Memory) Entities(_ context.Context, organizationID, table string, limit int) ([]content.Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src := m.entities[organizationID+"/"+table]
	out := make([]content.Entity, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Ensure Memory implements Queries.
var _ Queries = (*Memory)(nil)
