// Package linker discovers linker columns and searches the graph they form.
//
// # Overview
//
// A linker column is a column flagged with the [spec.AnnotationIsLinkerColumn]
// annotation whose axes split into exactly two parent-connected groups. It
// bridges the two axis spaces: data addressed by one side can be joined to
// data addressed by the other.
//
// [Build] turns a list of columns into a [Graph]. Each node is the
// connectivity key ([axes.Tree.Key]) of a root axis of one side together with
// its parent tree; edges are bidirectional and carry the linker column. A
// side with several roots contributes several nodes sharing the same
// neighbors.
//
//	g, err := linker.Build(columns)
//	if err != nil {
//	    return err
//	}
//	path, err := g.LinkersForAxes(sourceAxes, targetAxes, true)
//
// # Searching
//
// [Graph.ShortestPath] runs a breadth-first search and returns the linker
// columns along a path with the fewest hops. Neighbors are visited in sorted
// key order, so ties are broken deterministically.
//
// [Graph.LinkersForAxes] finds, for every root of the target axes, the
// shortest path from any of the source axes and returns the union of the
// columns along those paths. [Graph.ReachableFrom] and
// [Graph.UnreachableTargets] answer reachability without building paths.
//
// # Concurrency
//
// A Graph is immutable after Build and safe for concurrent readers.
//
// [axes.Tree.Key]: github.com/matzehuels/pframe/pkg/axes
package linker
