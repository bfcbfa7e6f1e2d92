package errors

import (
	"errors"
	"fmt"
)

// Redirect is a navigation control signal raised when a request must be
// re-issued at a different path (typically the canonical path for a post).
// It is not a failure: layers between the raiser and the HTTP boundary must
// re-throw it untouched.
type Redirect struct {
	// Location is the absolute path to redirect to, including the leading slash.
	Location string
}

// Error implements the error interface.
func (e *Redirect) Error() string {
	return fmt.Sprintf("redirect to %s", e.Location)
}

// NewRedirect creates a redirect signal to the given location.
func NewRedirect(location string) *Redirect {
	return &Redirect{Location: location}
}

// AsRedirect extracts a Redirect signal from an error chain.
func AsRedirect(err error) (*Redirect, bool) {
	var r *Redirect
	ok := errors.As(err, &r)
	return r, ok
}

// NotFound is a navigation control signal raised when a resolver matched the
// request's domain but the specific resource does not exist. Unlike a "no
// match" (nil result), it must surface as a definitive 404 instead of falling
// through to the next route handler.
type NotFound struct {
	// Resource describes what was looked up (e.g. "term", "post").
	Resource string
	// Key is the identifier that failed to resolve.
	Key string
}

// Error implements the error interface.
func (e *NotFound) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// NewNotFound creates a definitive not-found signal.
func NewNotFound(resource, key string) *NotFound {
	return &NotFound{Resource: resource, Key: key}
}

// AsNotFound extracts a NotFound signal from an error chain.
func AsNotFound(err error) (*NotFound, bool) {
	var n *NotFound
	ok := errors.As(err, &n)
	return n, ok
}

// IsSignal reports whether err is a navigation control signal (Redirect or
// NotFound) that must be re-thrown rather than treated as a handler failure.
func IsSignal(err error) bool {
	if _, ok := AsRedirect(err); ok {
		return true
	}
	_, ok := AsNotFound(err)
	return ok
}
