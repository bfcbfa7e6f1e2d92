// Package downloads is the downloadable-assets plugin. Downloads live in the
// generic entity store; this plugin contributes an override post store that
// resolves them ahead of every primary store, including by their synthetic
// custom:downloads:<id> identifiers.
package downloads

import (
	"context"

	"github.com/harborcms/harbor/pkg/content"
	"github.com/harborcms/harbor/pkg/hooks"
	"github.com/harborcms/harbor/pkg/plugin"
	"github.com/harborcms/harbor/pkg/routing"
)

// PluginID identifies the plugin for enablement gating.
const PluginID = "downloads"

// postTypeSlug is the post type the override store claims.
const postTypeSlug = "downloads"

// Descriptor declares the plugin and its activation option. Downloads ship
// disabled until an organization opts in.
func Descriptor() plugin.Descriptor {
	return plugin.Descriptor{
		ID:   PluginID,
		Name: "Downloads",
		Activation: plugin.Activation{
			OptionKey:  "plugin.downloads.enabled",
			OptionType: content.OptionTypeSite,
		},
	}
}

// Plugin registers the downloads contributions.
type Plugin struct{}

// New creates the plugin.
func New() *Plugin {
	return &Plugin{}
}

// Register implements routing.Module.
func (p *Plugin) Register(reg *routing.Registry) {
	reg.PostStoreOverrides.Add("downloads:override-store", hooks.DefaultPriority, func(ss []routing.PostStore) []routing.PostStore {
		return append(ss, &overrideStore{})
	})
}

// overrideStore resolves download entities before the primary stores run.
type overrideStore struct{}

func (s *overrideStore) ID() string              { return "downloads:entities" }
func (s *overrideStore) PluginID() string        { return PluginID }
func (s *overrideStore) Priority() int           { return 20 }
func (s *overrideStore) PostTypeSlugs() []string { return []string{postTypeSlug} }

func (s *overrideStore) GetBySlug(ctx context.Context, req *routing.Request, requestedType, slug string) (*content.Post, error) {
	if requestedType != postTypeSlug {
		return nil, nil
	}
	e, err := req.Queries.EntityBySlug(ctx, req.OrganizationID, postTypeSlug, slug)
	if err != nil {
		return nil, err
	}
	return synthesize(req.OrganizationID, e), nil
}

func (s *overrideStore) GetByID(ctx context.Context, req *routing.Request, requestedType, id string) (*content.Post, error) {
	if syn, ok := content.ParseSyntheticID(id); ok {
		if syn.PostTypeSlug != postTypeSlug {
			return nil, nil
		}
		id = syn.RawID
	} else if requestedType != "" && requestedType != postTypeSlug {
		return nil, nil
	}
	e, err := req.Queries.EntityByID(ctx, req.OrganizationID, postTypeSlug, id)
	if err != nil {
		return nil, err
	}
	return synthesize(req.OrganizationID, e), nil
}

func synthesize(organizationID string, e *content.Entity) *content.Post {
	if e == nil || e.Status != content.StatusPublished {
		return nil
	}
	return content.PostFromEntity(organizationID, postTypeSlug, e)
}
