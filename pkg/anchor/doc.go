// Package anchor expresses column and axis references relative to a small
// set of well-known anchor columns, and resolves them back.
//
// # Overview
//
// An anchor is a column spec the caller already owns, registered under a
// name. [NewContext] indexes the anchors once: every anchor axis by
// identity, every anchor domain entry, and each anchor's full domain
// ("domain pack"). Anchors are processed in name order and later anchors win
// on collisions, so the result does not depend on map iteration.
//
// [Context.Derive] rewrites a concrete spec into a [ColumnID]: domain values
// and axes that belong to an anchor become symbolic references. With axis
// filters, [Context.DeriveSliced] wraps the id as a slice of the source
// column. [Context.DeriveCanonical] returns the canonical JSON of either
// form, a stable content id for the column:
//
//	ctx := anchor.NewContext(map[string]spec.PColumnSpec{"main": mainSpec})
//	id, err := ctx.DeriveCanonical(col)
//
// # Resolution
//
// [Resolve] is the inverse: it expands a [Selector] (an id plus optional
// matching criteria) into a plain [selector.ColumnSelector]. Unknown anchors
// fail with ANCHOR_NOT_FOUND, an axis index outside the anchor with
// OUT_OF_RANGE, and a by-name or by-matcher axis reference that matches zero
// or several anchor axes with AMBIGUOUS_AXIS_REFERENCE.
//
// # Reference Kinds
//
// [DomainValue] and [AxisRef] are tagged unions. Consumers switch on their
// Kind field; every switch in this package is exhaustive.
//
// [selector.ColumnSelector]: github.com/matzehuels/pframe/pkg/selector
package anchor
