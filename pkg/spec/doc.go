// Package spec defines the PFrame column data model and axis identity.
//
// # Overview
//
// A PFrame column ([PColumnSpec]) maps a fixed-size tuple of axis values to a
// typed column value. Each element of the tuple is addressed by an axis
// ([AxisSpec]) that carries a name, a value type, an optional domain and
// optional parent axes. Parent axes give an axis its meaning: an "item" axis
// is only unique within the "container" axis it lists as a parent.
//
// # Axis Identity
//
// The identity of an axis is the minimal tuple {type, name, domain}, exposed
// as [AxisID]. Annotations and parents never contribute to identity. An empty
// domain is equivalent to an absent one:
//
//	id := spec.AxisIDOf(axis)
//	key := spec.CanonicalKey(id) // {"name":"sample","type":"String"}
//
// [CanonicalKey] produces sorted-key JSON and is used throughout pframe as a
// hashable equality key.
//
// # Compatibility
//
// [AxisCompatible] answers "does this candidate axis satisfy the stated
// requirement" rather than testing set equality. Every domain entry of the
// target must be present in the query with the same value; a target with no
// domain always matches, a query with no domain matches only a target with
// no domain:
//
//	q := spec.AxisID{Name: "sample", Type: spec.ValueTypeString, Domain: map[string]string{"a": "1", "b": "2"}}
//	t := spec.AxisID{Name: "sample", Type: spec.ValueTypeString, Domain: map[string]string{"a": "1"}}
//	spec.AxisCompatible(q, t) // true
//	spec.AxisCompatible(t, q) // false
//
// # Normalized Axes
//
// [AxisSpecNormalized] replaces positional parent indices with materialized
// parent specs so an axis can be reasoned about independently of the column
// it came from. The [github.com/matzehuels/pframe/pkg/hierarchy] package
// produces normalized axes.
//
// # Well-Known Keys
//
// Annotation and domain keys with a fixed meaning are exposed as constants
// ([AnnotationParents], [AnnotationIsLinkerColumn], [DomainBlockID], ...).
// Only the parents and linker keys are interpreted by pframe itself.
package spec
