// Package axes builds parent trees of normalized axes and partitions axis
// lists into parent-connected groups.
//
// A [Tree] is rooted at one axis and descends toward its dependencies: the
// children of a node are the axis's structural parents. [Tree.Key] gives a
// single connectivity key for an axis together with all of its ancestors,
// which the linker graph uses as node identity.
//
// [Groups] splits a list into connected components over the parent-of
// relation restricted to the list, and [Roots] returns the axes no other
// axis in the list declares as a parent.
//
// All functions take axes produced by [hierarchy.Normalize]; parent
// encodings are never re-read here.
//
// [hierarchy.Normalize]: github.com/matzehuels/pframe/pkg/hierarchy
package axes
