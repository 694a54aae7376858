package anchor

import (
	"fmt"
	"maps"

	perrors "github.com/matzehuels/pframe/pkg/errors"
	"github.com/matzehuels/pframe/pkg/selector"
	"github.com/matzehuels/pframe/pkg/spec"
)

// Resolve replaces every anchored reference in sel with the literal value it
// stands for.
//
// A domain anchor expands into the anchor's domain; entries given
// explicitly in sel take precedence. Domain references take the value of
// the same key from the referenced anchor. Axis references resolve by
// position, by unique name or by unique compatible identity.
func Resolve(anchors map[string]spec.PColumnSpec, sel Selector) (selector.ColumnSelector, error) {
	out := selector.ColumnSelector{
		Name:               sel.Name,
		NamePattern:        sel.NamePattern,
		Type:               sel.Type,
		PartialAxesMatch:   sel.PartialAxesMatch,
		Annotations:        maps.Clone(sel.Annotations),
		AnnotationPatterns: maps.Clone(sel.AnnotationPatterns),
		MatchStrategy:      sel.MatchStrategy,
	}

	domain, err := resolveDomain(anchors, sel)
	if err != nil {
		return selector.ColumnSelector{}, err
	}
	out.Domain = domain

	if sel.Axes != nil {
		out.Axes = make([]selector.AxisSelector, len(sel.Axes))
		for i, ref := range sel.Axes {
			id, err := resolveAxis(anchors, ref)
			if err != nil {
				return selector.ColumnSelector{}, err
			}
			out.Axes[i] = selector.FromAxisID(id)
		}
	}
	return out, nil
}

func lookup(anchors map[string]spec.PColumnSpec, name string) (spec.PColumnSpec, error) {
	s, ok := anchors[name]
	if !ok {
		return spec.PColumnSpec{}, perrors.New(perrors.ErrCodeAnchorNotFound, "anchor %q not found", name)
	}
	return s, nil
}

func resolveDomain(anchors map[string]spec.PColumnSpec, sel Selector) (map[string]string, error) {
	if sel.DomainAnchor == "" && sel.Domain == nil {
		return nil, nil
	}

	values := make(map[string]DomainValue)
	if sel.DomainAnchor != "" {
		a, err := lookup(anchors, sel.DomainAnchor)
		if err != nil {
			return nil, err
		}
		for k, v := range a.Domain {
			values[k] = Literal(v)
		}
	}
	maps.Copy(values, sel.Domain)

	out := make(map[string]string, len(values))
	for k, v := range values {
		switch v.Kind {
		case DomainLiteral:
			out[k] = v.Value
		case DomainAnchorRef:
			a, ok := anchors[v.Value]
			if !ok {
				return nil, perrors.New(perrors.ErrCodeAnchorNotFound,
					"anchor %q not found for domain key %q", v.Value, k)
			}
			av, ok := spec.ReadDomain(a, k)
			if !ok {
				return nil, perrors.New(perrors.ErrCodeOutOfRange,
					"domain key %q not found in anchor %q", k, v.Value)
			}
			out[k] = av
		default:
			return nil, perrors.New(perrors.ErrCodeInternal, "unknown domain value kind %d", v.Kind)
		}
	}
	return out, nil
}

func resolveAxis(anchors map[string]spec.PColumnSpec, ref AxisRef) (spec.AxisID, error) {
	if ref.Kind == AxisRefID {
		return ref.ID, nil
	}

	a, err := lookup(anchors, ref.Anchor)
	if err != nil {
		return spec.AxisID{}, err
	}

	switch ref.Kind {
	case AxisRefByIdx:
		if ref.Idx < 0 || ref.Idx >= len(a.AxesSpec) {
			return spec.AxisID{}, perrors.New(perrors.ErrCodeOutOfRange,
				"axis index %d out of bounds for anchor %q", ref.Idx, ref.Anchor)
		}
		return a.AxesSpec[ref.Idx].ID(), nil

	case AxisRefByName:
		return unique(a, ref, func(ax spec.AxisSpec) bool { return ax.Name == ref.Name },
			fmt.Sprintf("axis named %q", ref.Name))

	case AxisRefByMatcher:
		return unique(a, ref, func(ax spec.AxisSpec) bool { return spec.AxisCompatible(ref.ID, ax.ID()) },
			"axis matching "+spec.CanonicalKey(ref.ID))

	case AxisRefID:
	}
	return spec.AxisID{}, perrors.New(perrors.ErrCodeInternal, "unsupported axis reference kind %s", ref.Kind)
}

func unique(a spec.PColumnSpec, ref AxisRef, match func(spec.AxisSpec) bool, what string) (spec.AxisID, error) {
	var found []spec.AxisSpec
	for _, ax := range a.AxesSpec {
		if match(ax) {
			found = append(found, ax)
		}
	}
	switch len(found) {
	case 1:
		return found[0].ID(), nil
	case 0:
		return spec.AxisID{}, perrors.New(perrors.ErrCodeAmbiguousAxisReference,
			"no %s in anchor %q", what, ref.Anchor)
	}
	return spec.AxisID{}, perrors.New(perrors.ErrCodeAmbiguousAxisReference,
		"%d axes match %s in anchor %q", len(found), what, ref.Anchor)
}
