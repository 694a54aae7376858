package hierarchy

import (
	"github.com/valyala/fastjson"

	perrors "github.com/matzehuels/pframe/pkg/errors"
	"github.com/matzehuels/pframe/pkg/spec"
)

// resolveParents converts both parent encodings into per-axis index lists.
// Duplicate parent references are collapsed, keeping the first occurrence.
func resolveParents(axes []spec.AxisSpec) ([][]int, error) {
	parents := make([][]int, len(axes))
	var lookup *axisLookup

	for i, a := range axes {
		if a.ParentAxes != nil {
			for _, p := range a.ParentAxes {
				if p < 0 || p >= len(axes) {
					return nil, perrors.New(perrors.ErrCodeMalformedHierarchy,
						"axis %q: parent index %d out of range [0, %d)", a.Name, p, len(axes))
				}
				parents[i] = appendUnique(parents[i], p)
			}
			continue
		}

		raw, ok := spec.ReadAnnotation(a, spec.AnnotationParents)
		if !ok {
			continue
		}
		if lookup == nil {
			lookup = newAxisLookup(axes)
		}
		idxs, err := lookup.parse(a.Name, raw)
		if err != nil {
			return nil, err
		}
		for _, p := range idxs {
			parents[i] = appendUnique(parents[i], p)
		}
	}
	return parents, nil
}

func appendUnique(list []int, v int) []int {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

type axisLookup struct {
	byKey  map[string]int
	byName map[string]int
	parser fastjson.Parser
}

func newAxisLookup(axes []spec.AxisSpec) *axisLookup {
	l := &axisLookup{
		byKey:  make(map[string]int, len(axes)),
		byName: make(map[string]int, len(axes)),
	}
	for i, a := range axes {
		key := spec.CanonicalKey(a.ID())
		if _, ok := l.byKey[key]; !ok {
			l.byKey[key] = i
		}
		if _, ok := l.byName[a.Name]; !ok {
			l.byName[a.Name] = i
		}
	}
	return l
}

// parse decodes a parents annotation. Elements are either parent names or
// axis spec objects; objects resolve by identity first, then by name.
func (l *axisLookup) parse(owner, raw string) ([]int, error) {
	v, err := l.parser.Parse(raw)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeMalformedHierarchy, err,
			"axis %q: parents annotation is not valid JSON", owner)
	}
	elems, err := v.Array()
	if err != nil {
		return nil, perrors.New(perrors.ErrCodeMalformedHierarchy,
			"axis %q: parents annotation must be a JSON array", owner)
	}

	out := make([]int, 0, len(elems))
	for _, el := range elems {
		switch el.Type() {
		case fastjson.TypeString:
			name := string(el.GetStringBytes())
			idx, ok := l.byName[name]
			if !ok {
				return nil, perrors.New(perrors.ErrCodeMalformedHierarchy,
					"axis %q: parent axis %q not found", owner, name)
			}
			out = append(out, idx)

		case fastjson.TypeObject:
			id, err := decodeAxisID(el)
			if err != nil {
				return nil, perrors.Wrap(perrors.ErrCodeMalformedHierarchy, err,
					"axis %q: malformed parent entry", owner)
			}
			idx, ok := l.byKey[spec.CanonicalKey(id)]
			if !ok {
				idx, ok = l.byName[id.Name]
			}
			if !ok {
				return nil, perrors.New(perrors.ErrCodeMalformedHierarchy,
					"axis %q: parent axis %s not found", owner, spec.CanonicalKey(id))
			}
			out = append(out, idx)

		default:
			return nil, perrors.New(perrors.ErrCodeMalformedHierarchy,
				"axis %q: parent entry must be a name or an axis object, got %s", owner, el.Type())
		}
	}
	return out, nil
}

func decodeAxisID(v *fastjson.Value) (spec.AxisID, error) {
	var id spec.AxisID
	if !v.Exists("name") {
		return id, perrors.New(perrors.ErrCodeInvalidFormat, "parent entry has no name")
	}
	id.Name = string(v.GetStringBytes("name"))
	id.Type = spec.ValueType(v.GetStringBytes("type"))

	dom := v.GetObject("domain")
	if dom == nil || dom.Len() == 0 {
		return id, nil
	}
	id.Domain = make(map[string]string, dom.Len())
	var bad string
	dom.Visit(func(k []byte, val *fastjson.Value) {
		if val.Type() != fastjson.TypeString {
			bad = string(k)
			return
		}
		id.Domain[string(k)] = string(val.GetStringBytes())
	})
	if bad != "" {
		return id, perrors.New(perrors.ErrCodeInvalidFormat, "domain value for %q is not a string", bad)
	}
	return id, nil
}
