package anchor

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/matzehuels/pframe/pkg/canonical"
	perrors "github.com/matzehuels/pframe/pkg/errors"
	"github.com/matzehuels/pframe/pkg/selector"
	"github.com/matzehuels/pframe/pkg/spec"
)

// Context indexes a set of anchors for derivation. It is immutable after
// NewContext and safe for concurrent use.
type Context struct {
	anchors map[string]spec.PColumnSpec
	axes    map[string]AxisRef // canonical axis key -> {anchor, idx}
	domains map[string]string  // domain entry key -> anchor
	packs   [][]string         // sorted domain keys per anchor, in anchor order
	packOf  map[string]string  // canonical pack entries -> anchor
}

// NewContext builds a context from anchors keyed by name. Anchors are
// processed in name order; later anchors win when two anchors share an axis
// identity, a domain entry or a whole domain. Anchors without a domain
// contribute no domain pack.
func NewContext(anchors map[string]spec.PColumnSpec) *Context {
	c := &Context{
		anchors: maps.Clone(anchors),
		axes:    make(map[string]AxisRef),
		domains: make(map[string]string),
		packOf:  make(map[string]string),
	}
	if c.anchors == nil {
		c.anchors = map[string]spec.PColumnSpec{}
	}

	for _, name := range slices.Sorted(maps.Keys(anchors)) {
		s := anchors[name]
		for i, a := range s.AxesSpec {
			c.axes[spec.CanonicalKey(a.ID())] = AxisByIdx(name, i)
		}
		if len(s.Domain) == 0 {
			continue
		}
		keys := slices.Sorted(maps.Keys(s.Domain))
		c.packs = append(c.packs, keys)
		c.packOf[packKey(keys, s.Domain)] = name
		for _, k := range keys {
			c.domains[entryKey(k, s.Domain[k])] = name
		}
	}
	return c
}

// Anchors returns the anchor specs of the context.
func (c *Context) Anchors() map[string]spec.PColumnSpec {
	return maps.Clone(c.anchors)
}

func entryKey(k, v string) string {
	data, _ := json.Marshal([2]string{k, v})
	return string(data)
}

func packKey(keys []string, domain map[string]string) string {
	entries := make([][2]string, len(keys))
	for i, k := range keys {
		entries[i] = [2]string{k, domain[k]}
	}
	return canonical.MustMarshal(entries)
}

// Derive rewrites s relative to the anchors.
//
// The first domain pack whose keys are all present in s's domain with the
// anchor's values becomes the domain anchor and its keys are consumed.
// Remaining domain entries known to an anchor become anchor references.
// Axes whose identity matches an anchor axis become {anchor, idx}
// references; others stay literal.
func (c *Context) Derive(s spec.PColumnSpec) ColumnID {
	id := ColumnID{Name: s.Name, Axes: make([]AxisRef, len(s.AxesSpec))}

	var consumed []string
	if len(s.Domain) > 0 {
		for _, pack := range c.packs {
			if !hasKeys(s.Domain, pack) {
				continue
			}
			if name, ok := c.packOf[packKey(pack, s.Domain)]; ok {
				id.DomainAnchor = name
				consumed = pack
				break
			}
		}
	}

	for _, k := range slices.Sorted(maps.Keys(s.Domain)) {
		if slices.Contains(consumed, k) {
			continue
		}
		if id.Domain == nil {
			id.Domain = make(map[string]DomainValue)
		}
		v, _ := spec.ReadDomain(s, k)
		if name, ok := c.domains[entryKey(k, v)]; ok {
			id.Domain[k] = AnchorDomain(name)
		} else {
			id.Domain[k] = Literal(v)
		}
	}

	for i, a := range s.AxesSpec {
		if ref, ok := c.axes[spec.CanonicalKey(a.ID())]; ok {
			id.Axes[i] = ref
		} else {
			id.Axes[i] = AxisIDRef(a.ID())
		}
	}
	return id
}

func hasKeys(domain map[string]string, keys []string) bool {
	for _, k := range keys {
		if _, ok := domain[k]; !ok {
			return false
		}
	}
	return true
}

// AxisFilter fixes one axis of a column to a value. The axis is given by
// index or by name.
type AxisFilter struct {
	Index *int
	Name  string
	Value any
}

// FilterByIndex returns a filter on the axis at position i.
func FilterByIndex(i int, value any) AxisFilter { return AxisFilter{Index: &i, Value: value} }

// FilterByName returns a filter on the first axis called name.
func FilterByName(name string, value any) AxisFilter { return AxisFilter{Name: name, Value: value} }

// DeriveSliced derives the id of s and, when filters are given, wraps it as
// a slice. Filters are resolved to axis indices and sorted by index. An
// index outside the axes or an unknown axis name fails with OUT_OF_RANGE.
func (c *Context) DeriveSliced(s spec.PColumnSpec, filters []AxisFilter) (UniversalID, error) {
	u := UniversalID{Column: c.Derive(s)}
	if len(filters) == 0 {
		return u, nil
	}

	resolved := make([]AxisFilterByIdx, 0, len(filters))
	for _, f := range filters {
		idx, err := filterIndex(s, f)
		if err != nil {
			return UniversalID{}, err
		}
		resolved = append(resolved, AxisFilterByIdx{Index: idx, Value: f.Value})
	}
	slices.SortStableFunc(resolved, func(a, b AxisFilterByIdx) int { return a.Index - b.Index })
	u.Filters = resolved
	return u, nil
}

func filterIndex(s spec.PColumnSpec, f AxisFilter) (int, error) {
	if f.Index != nil {
		i := *f.Index
		if i < 0 || i >= len(s.AxesSpec) {
			return 0, perrors.New(perrors.ErrCodeOutOfRange,
				"Axis index %d is out of bounds (0-%d)", i, len(s.AxesSpec)-1)
		}
		return i, nil
	}
	i := slices.IndexFunc(s.AxesSpec, func(a spec.AxisSpec) bool { return a.Name == f.Name })
	if i < 0 {
		return 0, perrors.New(perrors.ErrCodeOutOfRange,
			"Axis with name %q not found in the column specification", f.Name)
	}
	return i, nil
}

// DeriveCanonical returns the canonical JSON of the (possibly sliced) id of
// s. It is the stable content identifier of the column.
func (c *Context) DeriveCanonical(s spec.PColumnSpec, filters ...AxisFilter) (string, error) {
	u, err := c.DeriveSliced(s, filters)
	if err != nil {
		return "", err
	}
	return canonical.Marshal(u)
}

// Resolve expands sel against the anchors of the context.
func (c *Context) Resolve(sel Selector) (selector.ColumnSelector, error) {
	return Resolve(c.anchors, sel)
}
