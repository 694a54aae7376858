package axes

import (
	"github.com/matzehuels/pframe/pkg/spec"
)

// parentEdges returns, for each axis, the indices of list members it
// declares as direct parents. Parents are matched by identity.
func parentEdges(list []spec.AxisSpecNormalized) [][]int {
	byID := make(map[string][]int, len(list))
	for i, a := range list {
		k := spec.CanonicalKey(a.ID())
		byID[k] = append(byID[k], i)
	}
	edges := make([][]int, len(list))
	for i, a := range list {
		for _, p := range a.ParentAxesSpec {
			for _, j := range byID[spec.CanonicalKey(p.ID())] {
				if j != i {
					edges[i] = append(edges[i], j)
				}
			}
		}
	}
	return edges
}

// Groups partitions list into connected components over the parent-of
// relation, treated as undirected. Groups are seeded in input order and
// members keep input order. An empty list yields nil.
func Groups(list []spec.AxisSpecNormalized) [][]spec.AxisSpecNormalized {
	if len(list) == 0 {
		return nil
	}

	adj := make([][]int, len(list))
	for i, ps := range parentEdges(list) {
		for _, j := range ps {
			adj[i] = append(adj[i], j)
			adj[j] = append(adj[j], i)
		}
	}

	group := make([]int, len(list))
	for i := range group {
		group[i] = -1
	}
	count := 0
	for seed := range list {
		if group[seed] >= 0 {
			continue
		}
		group[seed] = count
		frontier := []int{seed}
		for len(frontier) > 0 {
			var next []int
			for _, n := range frontier {
				for _, m := range adj[n] {
					if group[m] < 0 {
						group[m] = count
						next = append(next, m)
					}
				}
			}
			frontier = next
		}
		count++
	}

	out := make([][]spec.AxisSpecNormalized, count)
	for i, g := range group {
		out[g] = append(out[g], list[i])
	}
	return out
}

// Roots returns the axes that no axis in list declares as a parent,
// in input order.
func Roots(list []spec.AxisSpecNormalized) []spec.AxisSpecNormalized {
	isParent := make([]bool, len(list))
	for _, ps := range parentEdges(list) {
		for _, j := range ps {
			isParent[j] = true
		}
	}
	var out []spec.AxisSpecNormalized
	for i, a := range list {
		if !isParent[i] {
			out = append(out, a)
		}
	}
	return out
}
