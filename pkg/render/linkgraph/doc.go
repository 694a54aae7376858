// Package linkgraph renders linker graphs as node-link diagrams.
//
// # Overview
//
// Every node of a [linker.Graph] is the parent tree of one axis; every edge
// is a linker column connecting two such trees. This package draws that
// graph with Graphviz: nodes appear as boxes labelled with the tree's axes,
// edges as undirected lines labelled with the linker column name.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := linkgraph.ToDOT(g, linkgraph.Options{Detailed: false})
//	svg, err := linkgraph.RenderSVG(ctx, dot)
//
// For PDF or PNG output, pass the SVG to [render.ToPDF] or [render.ToPNG].
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels list the full identity (type, name, domain) of
//     every axis in the tree, and edge labels include the column id.
//
// # DOT Format
//
// Output is deterministic: nodes are emitted in sorted key order under
// short synthetic ids (n0, n1, ...), and each undirected edge once.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
//
// [render.ToPDF]: github.com/matzehuels/pframe/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/pframe/pkg/render.ToPNG
package linkgraph
