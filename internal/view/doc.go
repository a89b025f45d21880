// Package view holds the catalog of application views the harness can visit,
// the resolver that turns a view's path template into a concrete URL, and the
// planner that turns a user selection into an ordered list of views.
//
// The catalog is the single source of truth shared by the Lighthouse runner
// and the HTML snapshotter. It is immutable once built and preserves
// declaration order, which is also the order views are visited in.
//
// Design decision: Path templates carry named placeholders such as
// <username> and <recipe_id> instead of format verbs. The set of placeholders
// is closed (see Placeholder), so a template that mentions anything else is
// rejected at resolution time instead of producing a URL with a literal
// "<...>" in it.
package view
