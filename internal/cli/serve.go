package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harborcms/harbor/internal/config"
	"github.com/harborcms/harbor/internal/server"
	"github.com/harborcms/harbor/pkg/cache"
	"github.com/harborcms/harbor/pkg/content"
	"github.com/harborcms/harbor/pkg/plugin"
	"github.com/harborcms/harbor/pkg/plugins/downloads"
	"github.com/harborcms/harbor/pkg/plugins/lms"
	"github.com/harborcms/harbor/pkg/routing"
	"github.com/harborcms/harbor/pkg/store"
	"github.com/harborcms/harbor/pkg/store/mongo"
)

// shutdownTimeout bounds graceful HTTP shutdown and backend disconnects.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command that runs the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the route resolution HTTP server",
		Long: `Serve starts the HTTP server that resolves content paths to posts,
archives, and taxonomy listings.

Without a MongoDB URI in the config, the server runs against a built-in
demo content set, which is useful for local development and for trying
out plugin behavior.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			queries, caches, cleanup, err := openQueries(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			resolver := routing.NewResolver(queries, pluginDescriptors(), lms.New(), downloads.New())
			if caches != nil {
				resolver.WithRouteCache(caches.cache, caches.keyer)
			}
			handler := server.New(resolver, logger, cfg.Server.DefaultOrganization)

			httpServer := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           handler,
				ReadHeaderTimeout: 5 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", cfg.Server.Addr, "default_org", cfg.Server.DefaultOrganization)
				errc <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					return err
				}
				return ctx.Err()
			}
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	return cmd
}

// pluginDescriptors lists the plugins compiled into this binary.
func pluginDescriptors() []plugin.Descriptor {
	return []plugin.Descriptor{lms.Descriptor(), downloads.Descriptor()}
}

// resolverCaches carries the shared cache backend into the resolver for
// route-level caching. Nil when no cache backend is configured.
type resolverCaches struct {
	cache cache.Cache
	keyer cache.Keyer
}

// openQueries builds the content store described by cfg. The returned cleanup
// closes any backend connections and is safe to call once.
func openQueries(ctx context.Context, cfg *config.Config, logger *log.Logger) (store.Queries, *resolverCaches, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var queries store.Queries
	var caches *resolverCaches
	if cfg.Mongo.URI != "" {
		ms, err := mongo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = ms.Close(closeCtx)
		})
		queries = ms
		logger.Debug("using mongodb store", "database", cfg.Mongo.Database)
	} else {
		queries = store.NewSeeded()
		logger.Warn("no mongodb configured, serving built-in demo content")
	}

	if cfg.Redis.URL != "" {
		// A redis that is still starting up answers the ping late, so the
		// connect retries; a malformed URL fails on the first attempt.
		var rc cache.Cache
		err := cache.RetryWithBackoff(ctx, func() error {
			var connErr error
			rc, connErr = cache.NewRedisCache(ctx, cfg.Redis.URL)
			return connErr
		})
		if err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		closers = append(closers, func() { _ = rc.Close() })

		keyer := cache.NewScopedKeyer(nil, cfg.Redis.KeyPrefix)
		queries = cachedQueries{
			Queries:    queries,
			options:    store.NewCachedOptions(queries, rc, keyer),
			taxonomies: store.NewCachedTaxonomies(queries, rc, keyer),
		}
		caches = &resolverCaches{cache: rc, keyer: keyer}
		logger.Debug("query and route caching enabled", "backend", "redis")
	}

	return queries, caches, cleanup, nil
}

// cachedQueries layers cached option and taxonomy reads over a backing
// store. All other query methods pass through unchanged.
type cachedQueries struct {
	store.Queries
	options    *store.CachedOptions
	taxonomies *store.CachedTaxonomies
}

func (q cachedQueries) Option(ctx context.Context, organizationID, metaKey, optionType string) (any, bool, error) {
	return q.options.Option(ctx, organizationID, metaKey, optionType)
}

func (q cachedQueries) TaxonomyBySlug(ctx context.Context, organizationID, slug string) (*content.Taxonomy, error) {
	return q.taxonomies.TaxonomyBySlug(ctx, organizationID, slug)
}
