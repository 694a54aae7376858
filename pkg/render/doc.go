// Package render provides output rendering for pframe structures.
//
// # Overview
//
// The [linkgraph] subpackage turns a linker graph into Graphviz DOT and
// SVG. This package holds the format conversion shared by renderers.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg, err := linkgraph.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [linkgraph]: github.com/matzehuels/pframe/pkg/render/linkgraph
package render
