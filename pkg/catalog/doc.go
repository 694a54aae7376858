// Package catalog selects columns from an in-memory collection of column
// specs.
//
// A [Collection] answers anchored or plain selectors the way a block's
// column picker does: every selector is resolved against the anchors,
// matched against the collection, reduced by its match strategy and
// merged into one result without native duplicates.
//
// # Identity
//
// Two columns with the same [NativeID] are the same column published under
// different object ids; only the first is returned. Each returned [Entry]
// carries the anchored canonical id when an anchor context is given, or the
// column's own object id otherwise.
//
// # Enrichment
//
// With [Options.EnrichByLinkers] set, linker columns found among the
// results are assembled into a linker graph. Every column that shares an
// axis with something reachable from the anchor axes through that graph is
// appended. Axis matching is loose here: two axes match when either is
// compatible with the other.
//
// # Observability
//
// Selections report to [observability.Catalog] and resolutions to
// [observability.Anchor]; graph construction reports to
// [observability.Resolve].
package catalog
