package store

import (
	"time"

	"github.com/harborcms/harbor/pkg/content"
)

// SeedOrganization is the organization ID the demo dataset is scoped to.
const SeedOrganization = "org-demo"

// Seed fills m with the demo dataset used by the resolve command and the
// integration tests: core pages and blog posts, LMS courses and certificates,
// download entities, and a category term spanning several post types.
func Seed(m *Memory) {
	org := SeedOrganization
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	m.AddPostType(content.PostType{
		Slug: "pages", Name: "Pages", OrganizationID: org,
		StorageKind: content.StorageCore,
		Rewrite:     &content.Rewrite{SingleSlug: ""},
	})
	m.AddPostType(content.PostType{
		Slug: "posts", Name: "Posts", OrganizationID: org,
		StorageKind: content.StorageCore,
		Rewrite:     &content.Rewrite{HasArchive: true, ArchiveSlug: "blog", SingleSlug: "blog"},
	})
	m.AddPostType(content.PostType{
		Slug: "courses", Name: "Courses", OrganizationID: org,
		StorageKind: content.StorageComponent,
		Rewrite:     &content.Rewrite{HasArchive: true, ArchiveSlug: "courses", SingleSlug: "courses"},
	})
	m.AddPostType(content.PostType{
		Slug: "certificates", Name: "Certificates", OrganizationID: org,
		StorageKind: content.StorageComponent,
		Rewrite: &content.Rewrite{
			SingleSlug: "certificates",
			Permalink: &content.Permalink{
				Canonical: "course/{meta.courseSlug}/certificate/{slug}",
				Aliases:   []string{"certificates/{slug}"},
			},
		},
	})
	m.AddPostType(content.PostType{
		Slug: "downloads", Name: "Downloads", OrganizationID: org,
		StorageKind:   content.StorageCustom,
		StorageTables: []string{"downloads"},
		Rewrite:       &content.Rewrite{HasArchive: true, ArchiveSlug: "downloads", SingleSlug: "downloads"},
	})

	m.AddPost(content.Post{
		ID: "page-home", OrganizationID: org, PostTypeSlug: "pages",
		Slug: "home", Title: "Home", Status: content.StatusPublished,
		CreatedAt: base, UpdatedAt: base,
	}, nil)
	m.AddPost(content.Post{
		ID: "post-telescope", OrganizationID: org, PostTypeSlug: "posts",
		Slug: "new-telescope-online", Title: "New Telescope Online",
		Status: content.StatusPublished, CreatedAt: base.Add(24 * time.Hour), UpdatedAt: base.Add(24 * time.Hour),
	}, nil)
	m.AddPost(content.Post{
		ID: "post-draft", OrganizationID: org, PostTypeSlug: "posts",
		Slug: "unfinished", Title: "Unfinished", Status: content.StatusDraft,
		CreatedAt: base, UpdatedAt: base,
	}, nil)
	m.AddPost(content.Post{
		ID: "course-astro", OrganizationID: org, PostTypeSlug: "courses",
		Slug: "astro-101", Title: "Astronomy 101", Status: content.StatusPublished,
		CreatedAt: base.Add(48 * time.Hour), UpdatedAt: base.Add(48 * time.Hour),
	}, content.Meta{"difficulty": "beginner"})
	m.AddPost(content.Post{
		ID: "cert-astro", OrganizationID: org, PostTypeSlug: "certificates",
		Slug: "completion", Title: "Certificate of Completion",
		Status: content.StatusPublished, CreatedAt: base, UpdatedAt: base,
	}, content.Meta{"courseSlug": "astro-101"})

	m.AddEntity(org, "downloads", content.Entity{
		ID: "dl-starmap", Slug: "star-map", Title: "Printable Star Map",
		Status: content.StatusPublished, CreatedAt: base, UpdatedAt: base,
	})

	m.AddTaxonomy(content.Taxonomy{Slug: "category", Name: "Categories", OrganizationID: org})
	m.AddTaxonomy(content.Taxonomy{Slug: "post_tag", Name: "Tags", OrganizationID: org})
	termID := m.AddTerm(content.Term{
		Slug: "space-news", Name: "Space News", TaxonomySlug: "category", OrganizationID: org,
	})
	m.Assign(content.TermAssignment{TermID: termID, ObjectID: "post-telescope", PostTypeSlug: "posts", OrganizationID: org})
	m.Assign(content.TermAssignment{TermID: termID, ObjectID: "course-astro", PostTypeSlug: "courses", OrganizationID: org})
	m.Assign(content.TermAssignment{TermID: termID, ObjectID: "dl-starmap", PostTypeSlug: "downloads", OrganizationID: org})

	m.SetOption(content.Option{
		MetaKey: "plugin.lms.enabled", MetaValue: true,
		Type: content.OptionTypeSite, OrganizationID: org,
	})
	m.SetOption(content.Option{
		MetaKey: "plugin.downloads.enabled", MetaValue: "true",
		Type: content.OptionTypeSite, OrganizationID: org,
	})
}

// NewSeeded returns a Memory store preloaded with the demo dataset.
func NewSeeded() *Memory {
	m := NewMemory()
	Seed(m)
	return m
}
