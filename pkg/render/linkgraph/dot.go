package linkgraph

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/pframe/pkg/linker"
	"github.com/matzehuels/pframe/pkg/spec"
)

// Options configures linker graph rendering.
type Options struct {
	// Detailed includes full axis identities and column ids in labels.
	// When false, nodes show axis names and edges the column name.
	Detailed bool
}

// ToDOT converts a linker graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(g *linker.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11, color=\"#555555\"];\n")
	buf.WriteString("\n")

	keys := g.Nodes()
	pos := make(map[string]int, len(keys))
	for i, key := range keys {
		pos[key] = i
	}

	for i, key := range keys {
		tree, _ := g.NodeAxes(key)
		fmt.Fprintf(&buf, "  n%d [label=%q];\n", i, nodeLabel(tree, opts.Detailed))
	}

	buf.WriteString("\n")
	for i, key := range keys {
		for _, e := range g.Neighbors(key) {
			// Each undirected edge is listed from its lower endpoint.
			if j := pos[e.Key]; j >= i {
				fmt.Fprintf(&buf, "  n%d -- n%d [label=%q];\n", i, j, edgeLabel(e.Column, opts.Detailed))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeLabel names the tree root first, then its ancestors.
func nodeLabel(tree []spec.AxisSpecNormalized, detailed bool) string {
	if len(tree) == 0 {
		return "?"
	}
	if detailed {
		lines := make([]string, len(tree))
		for i, a := range tree {
			lines[i] = spec.CanonicalKey(a.ID())
		}
		return strings.Join(lines, "\n")
	}

	label := tree[0].Name
	if len(tree) > 1 {
		names := make([]string, len(tree)-1)
		for i, a := range tree[1:] {
			names[i] = a.Name
		}
		label += "\n(" + strings.Join(names, ", ") + ")"
	}
	return label
}

func edgeLabel(col spec.PColumnIDAndSpec, detailed bool) string {
	if detailed && string(col.ColumnID) != col.Spec.Name {
		return col.Spec.Name + "\n" + string(col.ColumnID)
	}
	return col.Spec.Name
}
