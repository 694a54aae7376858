package linker

import (
	"github.com/valyala/fastjson"

	"github.com/matzehuels/pframe/pkg/axes"
	"github.com/matzehuels/pframe/pkg/hierarchy"
	"github.com/matzehuels/pframe/pkg/spec"
)

// IsLinker reports whether s is flagged as a linker column and its axes
// form exactly two groups. A column whose hierarchy cannot be normalized is
// not a linker.
func IsLinker(s spec.PColumnSpec) bool {
	if !flagged(s) {
		return false
	}
	_, _, ok, err := split(s)
	return ok && err == nil
}

// flagged reports whether the linker annotation holds JSON true.
func flagged(s spec.PColumnSpec) bool {
	raw, ok := spec.ReadAnnotation(s, spec.AnnotationIsLinkerColumn)
	if !ok {
		return false
	}
	v, err := fastjson.Parse(raw)
	if err != nil {
		return false
	}
	return v.Type() == fastjson.TypeTrue
}

// split normalizes the axes of s and returns its two sides. ok is false
// when the axes do not form exactly two groups.
func split(s spec.PColumnSpec) (left, right []spec.AxisSpecNormalized, ok bool, err error) {
	res, err := hierarchy.Normalize(s.AxesSpec)
	if err != nil {
		return nil, nil, false, err
	}
	groups := axes.Groups(res.Axes)
	if len(groups) != 2 {
		return nil, nil, false, nil
	}
	return groups[0], groups[1], true, nil
}

// TreeKeys returns the connectivity key of each axis's parent tree,
// dropping duplicates.
func TreeKeys(list []spec.AxisSpecNormalized) []string {
	var keys []string
	seen := make(map[string]struct{}, len(list))
	for _, a := range list {
		k := axes.NewTree(a).Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
