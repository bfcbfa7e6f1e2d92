// Package content defines the data model shared by the routing pipeline and
// the persistence layer: posts, post types and their URL rewrite rules,
// taxonomy terms, site options, and the identifier types used to look
// entities up across heterogeneous backing stores.
//
// The routing core never mutates these records; they are fetched fresh per
// request from the persistence collaborator and treated as read-only.
package content
