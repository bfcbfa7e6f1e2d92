// Package plugin defines the portal's plugin contracts: how a plugin
// describes itself, how its activation is decided from stored options, and
// which plugins are consulted during a request.
//
// Activation is data-driven. Each plugin names the option record that holds
// its toggle; a stored value wins over the plugin's compiled-in default, and
// a plugin with neither is disabled. Enablement is computed once per request
// and threaded through the routing pipeline, so a mid-request option write
// cannot flip a plugin's behavior halfway through resolution.
package plugin

import (
	"context"

	"github.com/harborcms/harbor/pkg/content"
	"github.com/harborcms/harbor/pkg/errors"
)

// Activation names the option record controlling whether a plugin is on.
type Activation struct {
	// OptionKey is the meta key of the toggle option.
	OptionKey string
	// OptionType scopes the lookup (content.OptionTypeSite or
	// content.OptionTypeStore).
	OptionType string
	// DefaultEnabled applies when no option record exists.
	DefaultEnabled bool
}

// Descriptor identifies a plugin and how it is switched on.
type Descriptor struct {
	// ID is the stable plugin identifier used to gate its contributions.
	ID string
	// Name is the human-readable plugin name.
	Name string
	// Activation controls enablement. A zero OptionKey means the plugin is
	// always on.
	Activation Activation
}

// OptionReader looks up a single option value scoped to an organization.
// The second return reports whether a record exists; a stored nil value
// counts as absent.
type OptionReader interface {
	Option(ctx context.Context, organizationID, metaKey, optionType string) (any, bool, error)
}

// Enabled reports whether the described plugin is active for the given
// organization. Stored option values are interpreted with the same loose
// boolean coercion used for post meta; an uninterpretable stored value falls
// back to the plugin's default.
func Enabled(ctx context.Context, opts OptionReader, organizationID string, d Descriptor) (bool, error) {
	if d.Activation.OptionKey == "" {
		return true, nil
	}

	value, found, err := opts.Option(ctx, organizationID, d.Activation.OptionKey, d.Activation.OptionType)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeStorage, "read plugin activation option")
	}
	if !found || value == nil {
		return d.Activation.DefaultEnabled, nil
	}
	if enabled, ok := content.ParseBool(value); ok {
		return enabled, nil
	}
	return d.Activation.DefaultEnabled, nil
}

// EnabledIDs returns the IDs of the descriptors that are active for the
// given organization, preserving descriptor order.
func EnabledIDs(ctx context.Context, opts OptionReader, organizationID string, descriptors []Descriptor) ([]string, error) {
	ids := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		on, err := Enabled(ctx, opts, organizationID, d)
		if err != nil {
			return nil, err
		}
		if on {
			ids = append(ids, d.ID)
		}
	}
	return ids, nil
}

// Set is a request-scoped view of which plugins are enabled.
type Set map[string]bool

// NewSet builds a Set from enabled plugin IDs.
func NewSet(ids []string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Enabled reports whether the plugin with the given id is active. The empty
// id denotes a core contribution, which is always active.
func (s Set) Enabled(id string) bool {
	if id == "" {
		return true
	}
	return s[id]
}
