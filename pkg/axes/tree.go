package axes

import (
	"github.com/matzehuels/pframe/pkg/canonical"
	"github.com/matzehuels/pframe/pkg/spec"
)

// Tree is an axis together with its upward parent tree.
type Tree struct {
	Axis     spec.AxisSpecNormalized
	ID       string  // canonical key of the axis identity
	Children []*Tree // the axis's parents
}

// NewTree expands the parents of axis breadth-first until a level yields no
// new parents.
func NewTree(axis spec.AxisSpecNormalized) *Tree {
	root := newNode(axis)
	level := []*Tree{root}
	for len(level) > 0 {
		var next []*Tree
		for _, n := range level {
			for _, p := range n.Axis.ParentAxesSpec {
				child := newNode(p)
				n.Children = append(n.Children, child)
				next = append(next, child)
			}
		}
		level = next
	}
	return root
}

func newNode(a spec.AxisSpecNormalized) *Tree {
	return &Tree{Axis: a, ID: spec.CanonicalKey(a.ID())}
}

// walk visits nodes in breadth-first order.
func (t *Tree) walk(visit func(*Tree)) {
	level := []*Tree{t}
	for len(level) > 0 {
		var next []*Tree
		for _, n := range level {
			visit(n)
			next = append(next, n.Children...)
		}
		level = next
	}
}

// Set returns the canonical identity keys of every axis in the tree.
func (t *Tree) Set() map[string]struct{} {
	set := make(map[string]struct{})
	t.walk(func(n *Tree) { set[n.ID] = struct{}{} })
	return set
}

// Array returns the axes of the tree in breadth-first order. An ancestor
// reachable along several paths appears once, at its first occurrence.
func (t *Tree) Array() []spec.AxisSpecNormalized {
	var out []spec.AxisSpecNormalized
	seen := make(map[string]struct{})
	t.walk(func(n *Tree) {
		k := StructuralKey(n.Axis)
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, n.Axis)
	})
	return out
}

// Key returns the connectivity key of the tree: the canonical JSON of the
// structural form of [Tree.Array]. Annotations do not contribute.
func (t *Tree) Key() string {
	arr := t.Array()
	structural := make([]spec.AxisSpecNormalized, len(arr))
	for i, a := range arr {
		structural[i] = stripAnnotations(a)
	}
	return canonical.MustMarshal(structural)
}

// StructuralKey returns the canonical JSON of an axis and its parent tree
// with all annotations removed.
func StructuralKey(a spec.AxisSpecNormalized) string {
	return canonical.MustMarshal(stripAnnotations(a))
}

func stripAnnotations(a spec.AxisSpecNormalized) spec.AxisSpecNormalized {
	out := spec.AxisSpecNormalized{
		Type:           a.Type,
		Name:           a.Name,
		Domain:         a.Domain,
		ParentAxesSpec: make([]spec.AxisSpecNormalized, len(a.ParentAxesSpec)),
	}
	for i, p := range a.ParentAxesSpec {
		out.ParentAxesSpec[i] = stripAnnotations(p)
	}
	return out
}
