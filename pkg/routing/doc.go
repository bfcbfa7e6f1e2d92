// Package routing implements frontend route resolution: mapping a request
// path to a renderable archive, taxonomy listing, or single post.
//
// Resolution runs as a chain of route handlers collected from the
// RouteHandlers extension point. Handlers run in ascending priority order and
// the first non-nil result wins. The core registers three handlers: post-type
// archives, taxonomy archives, and single posts. Plugins contribute more
// handlers and post stores through a Registry, gated on their enablement.
//
// Two outcomes short-circuit the chain as structured signals rather than
// results: a redirect to the canonical path, and a definitive not-found (a
// term or post that was looked up and does not exist, as opposed to a path no
// handler recognizes). Any other handler error is logged and treated as "no
// match" so one broken plugin cannot take down routing for the site.
package routing
