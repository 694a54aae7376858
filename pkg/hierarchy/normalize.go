package hierarchy

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/pframe/pkg/canonical"
	"github.com/matzehuels/pframe/pkg/spec"
)

// Result is the outcome of [Normalize].
type Result struct {
	// Axes holds one normalized axis per input axis, in input order.
	// Parent slices may be shared between entries and must not be mutated.
	Axes []spec.AxisSpecNormalized

	// CycleDetected reports that a parent cycle was found and every axis
	// was returned without parents.
	CycleDetected bool
}

// Normalize resolves parents of every axis, checks for cycles and returns
// the axes with deep-sorted materialized parents.
//
// A parent reference that cannot be resolved within axes is reported as a
// MALFORMED_HIERARCHY error naming the offending axis.
func Normalize(axes []spec.AxisSpec) (Result, error) {
	parents, err := resolveParents(axes)
	if err != nil {
		return Result{}, err
	}

	res := Result{Axes: make([]spec.AxisSpecNormalized, len(axes))}
	if hasCycle(parents) {
		for i, a := range axes {
			res.Axes[i] = base(a)
		}
		res.CycleDetected = true
		return res, nil
	}

	built := make([]*spec.AxisSpecNormalized, len(axes))
	var build func(i int) spec.AxisSpecNormalized
	build = func(i int) spec.AxisSpecNormalized {
		if built[i] != nil {
			return *built[i]
		}
		n := base(axes[i])
		for _, p := range parents[i] {
			n.ParentAxesSpec = append(n.ParentAxesSpec, build(p))
		}
		sortAxes(n.ParentAxesSpec)
		built[i] = &n
		return n
	}

	for i := range axes {
		res.Axes[i] = build(i)
	}
	return res, nil
}

// MustNormalize is like [Normalize] but panics on error.
func MustNormalize(axes []spec.AxisSpec) []spec.AxisSpecNormalized {
	res, err := Normalize(axes)
	if err != nil {
		panic(err)
	}
	return res.Axes
}

// Signature returns the canonical JSON of the full normalized axis,
// including its parent tree.
func Signature(a spec.AxisSpecNormalized) string {
	return canonical.MustMarshal(a)
}

func base(a spec.AxisSpec) spec.AxisSpecNormalized {
	n := spec.AxisSpecNormalized{
		Type:           a.Type,
		Name:           a.Name,
		ParentAxesSpec: []spec.AxisSpecNormalized{},
	}
	if len(a.Domain) > 0 {
		n.Domain = maps.Clone(a.Domain)
	}
	if len(a.Annotations) > 0 {
		ann := maps.Clone(a.Annotations)
		delete(ann, spec.AnnotationParents)
		if len(ann) > 0 {
			n.Annotations = ann
		}
	}
	return n
}

type sortKey struct {
	name, typ, domain, parents, annotations string
}

func keyOf(a spec.AxisSpecNormalized) sortKey {
	return sortKey{
		name:        a.Name,
		typ:         string(a.Type),
		domain:      canonical.MustMarshal(a.Domain),
		parents:     canonical.MustMarshal(a.ParentAxesSpec),
		annotations: canonical.MustMarshal(a.Annotations),
	}
}

func compareKeys(a, b sortKey) int {
	return cmp.Or(
		cmp.Compare(a.name, b.name),
		cmp.Compare(a.typ, b.typ),
		cmp.Compare(a.domain, b.domain),
		cmp.Compare(a.parents, b.parents),
		cmp.Compare(a.annotations, b.annotations),
	)
}

// sortAxes orders a parent list in place. Children of every element are
// already sorted, so their signatures are canonical.
func sortAxes(axes []spec.AxisSpecNormalized) {
	if len(axes) < 2 {
		return
	}
	type keyed struct {
		key  sortKey
		axis spec.AxisSpecNormalized
	}
	ks := make([]keyed, len(axes))
	for i, a := range axes {
		ks[i] = keyed{keyOf(a), a}
	}
	slices.SortStableFunc(ks, func(x, y keyed) int { return compareKeys(x.key, y.key) })
	for i := range ks {
		axes[i] = ks[i].axis
	}
}
