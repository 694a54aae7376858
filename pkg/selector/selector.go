package selector

import (
	"maps"
	"regexp"

	perrors "github.com/matzehuels/pframe/pkg/errors"
	"github.com/matzehuels/pframe/pkg/spec"
)

// AxisSelector matches an axis identity. Nil or empty fields are not
// checked.
type AxisSelector struct {
	Name   *string           `json:"name,omitempty"`
	Type   Types             `json:"type,omitempty"`
	Domain map[string]string `json:"domain,omitempty"`
}

// FromAxisID returns a selector that requires the name, type and domain
// of id.
func FromAxisID(id spec.AxisID) AxisSelector {
	var sel AxisSelector
	if id.Name != "" {
		name := id.Name
		sel.Name = &name
	}
	if id.Type != "" {
		sel.Type = Types{id.Type}
	}
	if len(id.Domain) > 0 {
		sel.Domain = maps.Clone(id.Domain)
	}
	return sel
}

// MatchAxis reports whether id satisfies sel. Every domain entry listed in
// sel must be present in id with the same value; id may carry extra
// entries.
func MatchAxis(sel AxisSelector, id spec.AxisID) bool {
	if sel.Name != nil && *sel.Name != id.Name {
		return false
	}
	if !sel.Type.Contains(id.Type) {
		return false
	}
	return domainSubset(sel.Domain, id.Domain)
}

func domainSubset(want, have map[string]string) bool {
	for k, v := range want {
		if hv, ok := have[k]; !ok || hv != v {
			return false
		}
	}
	return true
}

// ColumnSelector matches a column spec.
type ColumnSelector struct {
	Name               string            `json:"name,omitempty"`
	NamePattern        string            `json:"namePattern,omitempty"`
	Type               Types             `json:"type,omitempty"`
	Domain             map[string]string `json:"domain,omitempty"`
	Axes               []AxisSelector    `json:"axes,omitempty"`
	PartialAxesMatch   bool              `json:"partialAxesMatch,omitempty"`
	Annotations        map[string]string `json:"annotations,omitempty"`
	AnnotationPatterns map[string]string `json:"annotationPatterns,omitempty"`
	MatchStrategy      MatchStrategy     `json:"matchStrategy,omitempty"`
}

// Matcher is a compiled ColumnSelector.
type Matcher struct {
	sel         ColumnSelector
	namePattern *regexp.Regexp
	annotations map[string]*regexp.Regexp
}

// Compile validates sel and compiles its patterns.
func Compile(sel ColumnSelector) (*Matcher, error) {
	if sel.Name != "" && sel.NamePattern != "" {
		return nil, perrors.New(perrors.ErrCodeInvalidInput,
			"selector sets both name %q and namePattern %q", sel.Name, sel.NamePattern)
	}
	if !sel.MatchStrategy.Valid() {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "unknown match strategy %q", sel.MatchStrategy)
	}

	m := &Matcher{sel: sel}
	if sel.NamePattern != "" {
		re, err := compilePattern(sel.NamePattern)
		if err != nil {
			return nil, err
		}
		m.namePattern = re
	}
	if len(sel.AnnotationPatterns) > 0 {
		m.annotations = make(map[string]*regexp.Regexp, len(sel.AnnotationPatterns))
		for k, p := range sel.AnnotationPatterns {
			re, err := compilePattern(p)
			if err != nil {
				return nil, err
			}
			m.annotations[k] = re
		}
	}
	return m, nil
}

func compilePattern(p string) (*regexp.Regexp, error) {
	if err := perrors.ValidatePattern(p); err != nil {
		return nil, err
	}
	return regexp.MustCompile(p), nil
}

// Selector returns the selector m was compiled from.
func (m *Matcher) Selector() ColumnSelector { return m.sel }

// Match reports whether s satisfies every criterion of the selector.
func (m *Matcher) Match(s spec.PColumnSpec) bool {
	sel := m.sel
	if sel.Name != "" && s.Name != sel.Name {
		return false
	}
	if m.namePattern != nil && !m.namePattern.MatchString(s.Name) {
		return false
	}
	if !sel.Type.Contains(s.ValueType) {
		return false
	}
	if !domainSubset(sel.Domain, s.Domain) {
		return false
	}
	if sel.Axes != nil && !matchAxes(sel.Axes, spec.AxesID(s.AxesSpec), sel.PartialAxesMatch) {
		return false
	}
	if !domainSubset(sel.Annotations, s.Annotations) {
		return false
	}
	for k, re := range m.annotations {
		v, ok := s.Annotations[k]
		if !ok || !re.MatchString(v) {
			return false
		}
	}
	return true
}

func matchAxes(sels []AxisSelector, ids []spec.AxisID, partial bool) bool {
	if partial {
		for _, sel := range sels {
			found := false
			for _, id := range ids {
				if MatchAxis(sel, id) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}

	if len(sels) != len(ids) {
		return false
	}
	for i, sel := range sels {
		if !MatchAxis(sel, ids[i]) {
			return false
		}
	}
	return true
}

// MatchColumn reports whether s satisfies sel. It fails only when sel is
// invalid.
func MatchColumn(s spec.PColumnSpec, sel ColumnSelector) (bool, error) {
	m, err := Compile(sel)
	if err != nil {
		return false, err
	}
	return m.Match(s), nil
}

// Matches is like MatchColumn but treats an invalid selector as matching
// nothing.
func Matches(s spec.PColumnSpec, sel ColumnSelector) bool {
	ok, err := MatchColumn(s, sel)
	return err == nil && ok
}

// Predicate reports whether a spec is selected.
type Predicate func(spec.PColumnSpec) bool

// ToPredicate returns a predicate that accepts column-kind specs matched by
// any of sels. Invalid selectors are skipped.
func ToPredicate(sels ...ColumnSelector) Predicate {
	matchers := make([]*Matcher, 0, len(sels))
	for _, sel := range sels {
		if m, err := Compile(sel); err == nil {
			matchers = append(matchers, m)
		}
	}
	return func(s spec.PColumnSpec) bool {
		if !s.IsPColumn() {
			return false
		}
		for _, m := range matchers {
			if m.Match(s) {
				return true
			}
		}
		return false
	}
}
