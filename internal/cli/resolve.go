package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harborcms/harbor/internal/config"
	"github.com/harborcms/harbor/pkg/errors"
	"github.com/harborcms/harbor/pkg/plugins/downloads"
	"github.com/harborcms/harbor/pkg/plugins/lms"
	"github.com/harborcms/harbor/pkg/routing"
	"github.com/harborcms/harbor/pkg/store"
)

// resolveCommand creates the resolve command for one-shot path resolution.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		configPath   string
		organization string
		noCache      bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Resolve a content path and print the result as JSON",
		Long: `Resolve runs a single path through the route handler chain and prints
the matched post, archive, or taxonomy listing as JSON.

The path may carry query parameters, e.g.:

  harbor resolve "/categories/space-news?post_type=posts"

Without a MongoDB URI in the config, resolution runs against the
built-in demo content set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if organization == "" {
				organization = cfg.Server.DefaultOrganization
			}

			queries, _, cleanup, err := openQueries(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			cc, err := newCache(noCache)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer cc.Close()
			queries = cachedQueries{
				Queries:    queries,
				options:    store.NewCachedOptions(queries, cc, nil),
				taxonomies: store.NewCachedTaxonomies(queries, cc, nil),
			}

			u, err := url.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parse path: %w", err)
			}
			if err := errors.ValidateRequestPath(u.Path); err != nil {
				return err
			}

			resolver := routing.NewResolver(queries, pluginDescriptors(), lms.New(), downloads.New())

			prog := newProgress(logger)
			ctx = routing.WithLogger(ctx, logger)
			segments := splitSegments(u.Path)
			result, err := resolver.ResolveRoute(ctx, segments, u.Query(), organization)
			if nf, ok := errors.AsNotFound(err); ok {
				printWarning("Not found: %s", nf)
				return nil
			}
			if redir, ok := errors.AsRedirect(err); ok {
				printInfo("Redirect: %s", redir.Location)
				return nil
			}
			if err != nil {
				return err
			}
			if result == nil {
				printWarning("No route matched %s", u.Path)
				return nil
			}
			prog.done(fmt.Sprintf("Resolved %s", u.Path))

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	cmd.Flags().StringVarP(&organization, "org", "o", "", "organization to resolve against (defaults to config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the local option cache")
	return cmd
}

// splitSegments splits a request path into non-empty segments.
func splitSegments(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
