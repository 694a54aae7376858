package linker

import (
	"slices"

	"github.com/matzehuels/pframe/pkg/axes"
	perrors "github.com/matzehuels/pframe/pkg/errors"
	"github.com/matzehuels/pframe/pkg/spec"
)

// ShortestPath returns the linker columns along a path from start to end
// with the fewest hops. It returns nil when end is unreachable, when either
// key is not a node, or when start equals end.
func (g *Graph) ShortestPath(start, end string) []spec.PColumnIDAndSpec {
	s, ok := g.index[start]
	if !ok || start == end {
		return nil
	}
	e, ok := g.index[end]
	if !ok {
		return nil
	}

	prev := make([]int, len(g.keys))
	for i := range prev {
		prev[i] = -1
	}
	prev[s] = s
	frontier := []int{s}
	for len(frontier) > 0 && prev[e] < 0 {
		var next []int
		for _, n := range frontier {
			for _, m := range g.order[n] {
				if prev[m] >= 0 {
					continue
				}
				prev[m] = n
				next = append(next, m)
			}
		}
		frontier = next
	}
	if prev[e] < 0 {
		return nil
	}

	var path []spec.PColumnIDAndSpec
	for cur := e; cur != s; cur = prev[cur] {
		path = append(path, g.adj[prev[cur]][cur])
	}
	slices.Reverse(path)
	return path
}

// LinkersForAxes returns the linker columns needed to reach every root of
// to from the axes in from.
//
// For each target root the shortest path over all sources is kept. A target
// whose key equals a source key needs no linkers. Columns are deduplicated
// by column id, preserving first-seen order. With strict set, an unreachable
// target fails with a LINK_RESOLUTION error naming the target key;
// otherwise it is skipped.
func (g *Graph) LinkersForAxes(from, to []spec.AxisSpecNormalized, strict bool) ([]spec.PColumnIDAndSpec, error) {
	sources := TreeKeys(from)
	targets := TreeKeys(axes.Roots(to))

	var out []spec.PColumnIDAndSpec
	seen := make(map[spec.PObjectID]struct{})
	for _, target := range targets {
		if slices.Contains(sources, target) {
			continue
		}
		path := g.bestPath(sources, target)
		if len(path) == 0 {
			if strict {
				return nil, perrors.New(perrors.ErrCodeLinkResolution,
					"unable to find linker column for %s", target)
			}
			continue
		}
		for _, col := range path {
			if _, ok := seen[col.ColumnID]; ok {
				continue
			}
			seen[col.ColumnID] = struct{}{}
			out = append(out, col)
		}
	}
	return out, nil
}

// bestPath returns the shortest non-empty path from any source to target.
func (g *Graph) bestPath(sources []string, target string) []spec.PColumnIDAndSpec {
	var best []spec.PColumnIDAndSpec
	for _, src := range sources {
		p := g.ShortestPath(src, target)
		if len(p) > 0 && (best == nil || len(p) < len(best)) {
			best = p
		}
		if len(best) == 1 {
			break
		}
	}
	return best
}

// ReachableFrom returns the distinct axes of every node reachable from the
// parent trees of sources. The start nodes themselves are excluded.
func (g *Graph) ReachableFrom(sources []spec.AxisSpecNormalized) []spec.AxisSpecNormalized {
	return g.ReachableFromKeys(TreeKeys(sources))
}

// ReachableFromKeys is like ReachableFrom for explicit start node keys.
// Keys that are not nodes are ignored.
func (g *Graph) ReachableFromKeys(start []string) []spec.AxisSpecNormalized {
	visited := make([]bool, len(g.keys))
	var frontier []int
	for _, k := range start {
		if id, ok := g.index[k]; ok {
			visited[id] = true
			frontier = append(frontier, id)
		}
	}

	var found []int
	for len(frontier) > 0 {
		var next []int
		for _, n := range frontier {
			for _, m := range g.order[n] {
				if visited[m] {
					continue
				}
				visited[m] = true
				found = append(found, m)
				next = append(next, m)
			}
		}
		frontier = next
	}

	lists := make([][]spec.AxisSpecNormalized, len(found))
	for i, id := range found {
		lists[i] = g.axes[id]
	}
	return distinct(lists...)
}

// UnreachableTargets returns the axes of every target root that no source
// can reach through the graph.
func (g *Graph) UnreachableTargets(sources, targets []spec.AxisSpecNormalized) []spec.AxisSpecNormalized {
	keys := TreeKeys(sources)
	var missed [][]spec.AxisSpecNormalized
	for _, root := range axes.Roots(targets) {
		tree := axes.NewTree(root)
		key := tree.Key()
		if slices.Contains(keys, key) {
			continue
		}
		if len(g.bestPath(keys, key)) == 0 {
			missed = append(missed, tree.Array())
		}
	}
	return distinct(missed...)
}

func distinct(lists ...[]spec.AxisSpecNormalized) []spec.AxisSpecNormalized {
	var out []spec.AxisSpecNormalized
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, a := range list {
			k := axes.StructuralKey(a)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}
