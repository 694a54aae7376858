package hierarchy

import (
	"maps"
	"slices"

	"github.com/matzehuels/pframe/pkg/spec"
)

// Denormalize recomputes ParentAxes indices by locating each parent's
// identity within the identities of axes. It is only meaningful for a list
// produced by [Normalize] from the same array. Parents that cannot be
// located are dropped; axes without parents get a nil ParentAxes.
func Denormalize(axes []spec.AxisSpecNormalized) []spec.AxisSpec {
	keys := make([]string, len(axes))
	for i, a := range axes {
		keys[i] = spec.CanonicalKey(a.ID())
	}

	out := make([]spec.AxisSpec, len(axes))
	for i, a := range axes {
		s := spec.AxisSpec{Type: a.Type, Name: a.Name}
		if len(a.Domain) > 0 {
			s.Domain = maps.Clone(a.Domain)
		}
		if len(a.Annotations) > 0 {
			s.Annotations = maps.Clone(a.Annotations)
		}
		for _, p := range a.ParentAxesSpec {
			if idx := slices.Index(keys, spec.CanonicalKey(p.ID())); idx >= 0 {
				s.ParentAxes = append(s.ParentAxes, idx)
			}
		}
		out[i] = s
	}
	return out
}
