package linker

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/pframe/pkg/axes"
	"github.com/matzehuels/pframe/pkg/spec"
)

// Graph is the composite linker map. Node keys are interned to small
// integers; the side tables hold each node's key and decoded axes.
type Graph struct {
	index   map[string]int
	keys    []string
	axes    [][]spec.AxisSpecNormalized
	adj     []map[int]spec.PColumnIDAndSpec
	order   [][]int // neighbors sorted by key
	linkers []spec.PColumnIDAndSpec
}

// Edge is one neighbor of a node together with the linker reaching it.
type Edge struct {
	Key    string
	Column spec.PColumnIDAndSpec
}

// Build constructs the graph from every linker among columns. Other columns
// are skipped. A flagged column whose hierarchy is malformed is reported as
// an error.
func Build(columns []spec.PColumnIDAndSpec) (*Graph, error) {
	g := &Graph{index: make(map[string]int)}

	for _, col := range columns {
		if !flagged(col.Spec) {
			continue
		}
		left, right, ok, err := split(col.Spec)
		if err != nil {
			return nil, fmt.Errorf("linker %s: %w", col.ColumnID, err)
		}
		if !ok {
			continue
		}
		g.linkers = append(g.linkers, col)

		leftNodes := g.intern(axes.Roots(left))
		rightNodes := g.intern(axes.Roots(right))
		for _, l := range leftNodes {
			for _, r := range rightNodes {
				g.adj[l][r] = col
				g.adj[r][l] = col
			}
		}
	}

	g.order = make([][]int, len(g.keys))
	for n, nbrs := range g.adj {
		list := make([]int, 0, len(nbrs))
		for m := range nbrs {
			list = append(list, m)
		}
		slices.SortFunc(list, func(a, b int) int { return cmp.Compare(g.keys[a], g.keys[b]) })
		g.order[n] = list
	}
	return g, nil
}

// intern registers one node per root and returns their ids.
func (g *Graph) intern(roots []spec.AxisSpecNormalized) []int {
	ids := make([]int, 0, len(roots))
	for _, r := range roots {
		tree := axes.NewTree(r)
		key := tree.Key()
		id, ok := g.index[key]
		if !ok {
			id = len(g.keys)
			g.index[key] = id
			g.keys = append(g.keys, key)
			g.axes = append(g.axes, tree.Array())
			g.adj = append(g.adj, make(map[int]spec.PColumnIDAndSpec))
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Nodes returns every node key in sorted order.
func (g *Graph) Nodes() []string {
	out := slices.Clone(g.keys)
	slices.Sort(out)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.keys) }

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for a, nbrs := range g.adj {
		for b := range nbrs {
			if a <= b {
				n++
			}
		}
	}
	return n
}

// Linkers returns the linker columns that contributed edges, in input order.
func (g *Graph) Linkers() []spec.PColumnIDAndSpec {
	return slices.Clone(g.linkers)
}

// Neighbors returns the neighbors of key in sorted key order, or nil when
// key is not a node.
func (g *Graph) Neighbors(key string) []Edge {
	id, ok := g.index[key]
	if !ok {
		return nil
	}
	out := make([]Edge, len(g.order[id]))
	for i, m := range g.order[id] {
		out[i] = Edge{Key: g.keys[m], Column: g.adj[id][m]}
	}
	return out
}

// NodeAxes returns the axes of the parent tree a node key stands for.
func (g *Graph) NodeAxes(key string) ([]spec.AxisSpecNormalized, bool) {
	id, ok := g.index[key]
	if !ok {
		return nil, false
	}
	return g.axes[id], true
}
