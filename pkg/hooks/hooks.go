// Package hooks provides the typed extension-point primitives plugins use to
// extend the routing pipeline.
//
// A Filter is a named extension point whose callbacks transform and return a
// value; applying a filter folds every registered callback over a seed value
// in priority order. Filters are instance-scoped: they are fields on an
// explicitly constructed registry that is passed by reference into the
// request pipeline, not ambient global state. Each extension point carries a
// fixed callback signature, so registering against the wrong point is a
// compile error rather than a silent no-op.
//
// # Ordering
//
// Callbacks run in ascending priority order; callbacks sharing a priority run
// in registration order. DefaultPriority (10) applies when callers have no
// ordering requirement.
//
// # Idempotency
//
// Registration happens during process initialization and is never undone.
// Re-registering a callback id on the same filter is a no-op, which keeps
// module re-initialization (tests, dev reloads) from stacking duplicates.
//
// # Failure Isolation
//
// A filter interposes no failure isolation: a panicking callback propagates
// to the caller of Apply. The route handler chain is the single backstop that
// converts plugin failures into "no match" outcomes.
package hooks

import "sort"

// DefaultPriority is used when a registration does not care about ordering.
const DefaultPriority = 10

// registration is one callback attached to a filter.
type registration[V any] struct {
	id       string
	priority int
	seq      int
	fn       func(V) V
}

// Filter is an ordered set of callbacks that each transform a value of type V.
// The zero value is ready to use.
//
// Filters are built during startup and read per request; they are not safe
// for concurrent registration.
type Filter[V any] struct {
	regs []registration[V]
	seen map[string]bool
}

// Add registers fn under id at the given priority. Adding an id that is
// already registered is a no-op.
func (f *Filter[V]) Add(id string, priority int, fn func(V) V) {
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	if f.seen[id] {
		return
	}
	f.seen[id] = true
	f.regs = append(f.regs, registration[V]{
		id:       id,
		priority: priority,
		seq:      len(f.regs),
		fn:       fn,
	})
}

// Has reports whether a callback with the given id is registered.
func (f *Filter[V]) Has(id string) bool {
	return f.seen[id]
}

// Len returns the number of registered callbacks.
func (f *Filter[V]) Len() int {
	return len(f.regs)
}

// Apply folds every registered callback over seed in ascending priority
// order (ties in registration order) and returns the final value. With no
// callbacks registered, seed is returned unchanged.
func (f *Filter[V]) Apply(seed V) V {
	if len(f.regs) == 0 {
		return seed
	}

	ordered := make([]registration[V], len(f.regs))
	copy(ordered, f.regs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].priority != ordered[j].priority {
			return ordered[i].priority < ordered[j].priority
		}
		return ordered[i].seq < ordered[j].seq
	})

	value := seed
	for _, reg := range ordered {
		value = reg.fn(value)
	}
	return value
}
