package downloads

import (
	"context"
	"testing"

	"github.com/harborcms/harbor/pkg/routing"
	"github.com/harborcms/harbor/pkg/store"
)

func seededRequest() *routing.Request {
	return &routing.Request{
		OrganizationID: store.SeedOrganization,
		Queries:        store.NewSeeded(),
	}
}

func TestGetBySlugSynthesizesEntity(t *testing.T) {
	ctx := context.Background()
	req := seededRequest()
	s := &overrideStore{}

	p, err := s.GetBySlug(ctx, req, "downloads", "star-map")
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if p == nil {
		t.Fatal("GetBySlug() = nil, want a synthesized post")
	}
	if p.ID != "custom:downloads:dl-starmap" {
		t.Errorf("ID = %q, want synthetic custom:downloads:dl-starmap", p.ID)
	}
	if p.Slug != "star-map" {
		t.Errorf("Slug = %q, want star-map", p.Slug)
	}
}

func TestGetBySlugIgnoresOtherTypes(t *testing.T) {
	ctx := context.Background()
	req := seededRequest()
	s := &overrideStore{}

	p, err := s.GetBySlug(ctx, req, "posts", "star-map")
	if err != nil || p != nil {
		t.Fatalf("GetBySlug(posts) = %+v, %v, want nil, nil", p, err)
	}
}

func TestGetByIDSyntheticIdentifiers(t *testing.T) {
	ctx := context.Background()
	req := seededRequest()
	s := &overrideStore{}

	tests := []struct {
		name          string
		requestedType string
		id            string
		wantHit       bool
	}{
		{name: "synthetic downloads id", id: "custom:downloads:dl-starmap", wantHit: true},
		{name: "synthetic id for another type", id: "custom:gallery:dl-starmap", wantHit: false},
		{name: "raw id with matching type", requestedType: "downloads", id: "dl-starmap", wantHit: true},
		{name: "raw id with foreign type", requestedType: "posts", id: "dl-starmap", wantHit: false},
		{name: "unknown raw id", requestedType: "downloads", id: "nope", wantHit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := s.GetByID(ctx, req, tt.requestedType, tt.id)
			if err != nil {
				t.Fatalf("GetByID() error = %v", err)
			}
			if (p != nil) != tt.wantHit {
				t.Errorf("GetByID() hit = %v, want %v", p != nil, tt.wantHit)
			}
		})
	}
}

func TestRegisterContributesOverrideStore(t *testing.T) {
	reg := routing.NewRegistry()
	New().Register(reg)

	stores := reg.PostStoreOverrides.Apply(nil)
	if len(stores) != 1 || stores[0].ID() != "downloads:entities" {
		t.Fatalf("PostStoreOverrides = %v, want downloads:entities", stores)
	}
	if stores[0].Priority() != 20 {
		t.Errorf("Priority = %d, want 20", stores[0].Priority())
	}
}
