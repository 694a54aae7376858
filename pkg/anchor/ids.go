package anchor

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/pframe/pkg/canonical"
	perrors "github.com/matzehuels/pframe/pkg/errors"
	"github.com/matzehuels/pframe/pkg/selector"
	"github.com/matzehuels/pframe/pkg/spec"
)

// DomainValueKind tags a DomainValue.
type DomainValueKind int

const (
	// DomainLiteral is a plain domain value.
	DomainLiteral DomainValueKind = iota
	// DomainAnchorRef takes the value of the same key from an anchor.
	DomainAnchorRef
)

// DomainValue is a literal domain value or a reference to an anchor.
// In JSON a literal is a string and a reference is {"anchor": name}.
type DomainValue struct {
	Kind  DomainValueKind
	Value string // literal value or anchor name
}

// Literal returns a literal domain value.
func Literal(v string) DomainValue { return DomainValue{Kind: DomainLiteral, Value: v} }

// AnchorDomain returns a domain reference to the named anchor.
func AnchorDomain(anchor string) DomainValue { return DomainValue{Kind: DomainAnchorRef, Value: anchor} }

// MarshalJSON implements json.Marshaler.
func (d DomainValue) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case DomainLiteral:
		return json.Marshal(d.Value)
	case DomainAnchorRef:
		return json.Marshal(struct {
			Anchor string `json:"anchor"`
		}{d.Value})
	}
	return nil, fmt.Errorf("unknown domain value kind %d", d.Kind)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DomainValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = Literal(s)
		return nil
	}
	var ref struct {
		Anchor *string `json:"anchor"`
	}
	if err := json.Unmarshal(data, &ref); err != nil || ref.Anchor == nil {
		return fmt.Errorf("domain value must be a string or {\"anchor\": name}: %s", data)
	}
	*d = AnchorDomain(*ref.Anchor)
	return nil
}

// AxisRefKind tags an AxisRef.
type AxisRefKind int

const (
	// AxisRefID is a literal axis identity.
	AxisRefID AxisRefKind = iota
	// AxisRefByIdx points at an anchor axis by position.
	AxisRefByIdx
	// AxisRefByName points at the single anchor axis with a given name.
	AxisRefByName
	// AxisRefByMatcher points at the single anchor axis compatible with ID.
	AxisRefByMatcher
)

func (k AxisRefKind) String() string {
	switch k {
	case AxisRefID:
		return "id"
	case AxisRefByIdx:
		return "byIdx"
	case AxisRefByName:
		return "byName"
	case AxisRefByMatcher:
		return "byMatcher"
	}
	return fmt.Sprintf("AxisRefKind(%d)", int(k))
}

// AxisRef is one axis of an anchored id or selector.
//
// JSON forms: an AxisId object, {anchor, idx}, {anchor, name} or
// {anchor, id}.
type AxisRef struct {
	Kind   AxisRefKind
	ID     spec.AxisID // AxisRefID and AxisRefByMatcher
	Anchor string      // all kinds but AxisRefID
	Idx    int         // AxisRefByIdx
	Name   string      // AxisRefByName
}

// AxisIDRef returns a literal axis reference.
func AxisIDRef(id spec.AxisID) AxisRef { return AxisRef{Kind: AxisRefID, ID: id} }

// AxisByIdx returns a reference to an anchor axis by position.
func AxisByIdx(anchor string, idx int) AxisRef {
	return AxisRef{Kind: AxisRefByIdx, Anchor: anchor, Idx: idx}
}

// AxisByName returns a reference to an anchor axis by name.
func AxisByName(anchor, name string) AxisRef {
	return AxisRef{Kind: AxisRefByName, Anchor: anchor, Name: name}
}

// AxisByMatcher returns a reference to the anchor axis compatible with id.
func AxisByMatcher(anchor string, id spec.AxisID) AxisRef {
	return AxisRef{Kind: AxisRefByMatcher, Anchor: anchor, ID: id}
}

// MarshalJSON implements json.Marshaler.
func (r AxisRef) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case AxisRefID:
		return json.Marshal(r.ID)
	case AxisRefByIdx:
		return json.Marshal(struct {
			Anchor string `json:"anchor"`
			Idx    int    `json:"idx"`
		}{r.Anchor, r.Idx})
	case AxisRefByName:
		return json.Marshal(struct {
			Anchor string `json:"anchor"`
			Name   string `json:"name"`
		}{r.Anchor, r.Name})
	case AxisRefByMatcher:
		return json.Marshal(struct {
			Anchor string      `json:"anchor"`
			ID     spec.AxisID `json:"id"`
		}{r.Anchor, r.ID})
	}
	return nil, fmt.Errorf("unknown axis reference kind %s", r.Kind)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *AxisRef) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Anchor *string           `json:"anchor"`
		Idx    *int              `json:"idx"`
		Name   *string           `json:"name"`
		ID     *spec.AxisID      `json:"id"`
		Type   spec.ValueType    `json:"type"`
		Domain map[string]string `json:"domain"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	if envelope.Anchor == nil {
		if envelope.Name == nil {
			return fmt.Errorf("axis reference has neither anchor nor name: %s", data)
		}
		*r = AxisIDRef(spec.AxisID{Type: envelope.Type, Name: *envelope.Name, Domain: envelope.Domain})
		return nil
	}

	switch {
	case envelope.Idx != nil:
		*r = AxisByIdx(*envelope.Anchor, *envelope.Idx)
	case envelope.ID != nil:
		*r = AxisByMatcher(*envelope.Anchor, *envelope.ID)
	case envelope.Name != nil:
		*r = AxisByName(*envelope.Anchor, *envelope.Name)
	default:
		return fmt.Errorf("anchored axis reference needs idx, name or id: %s", data)
	}
	return nil
}

// ColumnID identifies a column relative to anchors.
type ColumnID struct {
	Name         string                 `json:"name"`
	DomainAnchor string                 `json:"domainAnchor,omitempty"`
	Domain       map[string]DomainValue `json:"domain,omitempty"`
	Axes         []AxisRef              `json:"axes"`
}

// Selector returns a selector requiring exactly this id.
func (id ColumnID) Selector() Selector {
	return Selector{
		Name:         id.Name,
		DomainAnchor: id.DomainAnchor,
		Domain:       id.Domain,
		Axes:         id.Axes,
	}
}

// AxisFilterByIdx fixes the value of one axis. In JSON it is the pair
// [index, value].
type AxisFilterByIdx struct {
	Index int
	Value any // string, number or nil
}

// MarshalJSON implements json.Marshaler.
func (f AxisFilterByIdx) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{f.Index, f.Value})
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *AxisFilterByIdx) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("axis filter must be [index, value], got %s", data)
	}
	if err := json.Unmarshal(pair[0], &f.Index); err != nil {
		return fmt.Errorf("axis filter index: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(pair[1]))
	dec.UseNumber()
	return dec.Decode(&f.Value)
}

// SlicedColumnID is a column id reduced by fixing some of its axes.
type SlicedColumnID struct {
	Source      ColumnID          `json:"source"`
	AxisFilters []AxisFilterByIdx `json:"axisFilters"`
}

// UniversalID is either a plain ColumnID or a SlicedColumnID. It is sliced
// exactly when Filters is non-empty.
type UniversalID struct {
	Column  ColumnID
	Filters []AxisFilterByIdx
}

// IsSliced reports whether the id carries axis filters.
func (u UniversalID) IsSliced() bool { return len(u.Filters) > 0 }

// MarshalJSON implements json.Marshaler.
func (u UniversalID) MarshalJSON() ([]byte, error) {
	if u.IsSliced() {
		return json.Marshal(SlicedColumnID{Source: u.Column, AxisFilters: u.Filters})
	}
	return json.Marshal(u.Column)
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *UniversalID) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Source json.RawMessage `json:"source"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	if envelope.Source == nil {
		u.Filters = nil
		return json.Unmarshal(data, &u.Column)
	}
	var sliced SlicedColumnID
	if err := json.Unmarshal(data, &sliced); err != nil {
		return err
	}
	u.Column, u.Filters = sliced.Source, sliced.AxisFilters
	return nil
}

// String returns the canonical JSON of the id.
func (u UniversalID) String() string {
	s, err := canonical.Marshal(u)
	if err != nil {
		return fmt.Sprintf("<invalid id: %v>", err)
	}
	return s
}

// ParseCanonical decodes a canonical id string.
func ParseCanonical(s string) (UniversalID, error) {
	var u UniversalID
	if err := json.Unmarshal([]byte(s), &u); err != nil {
		return UniversalID{}, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "parse column id")
	}
	return u, nil
}

// Selector is an anchored column selector: a ColumnID whose fields are all
// optional, plus matching criteria that are passed through on resolution.
type Selector struct {
	Name               string                 `json:"name,omitempty"`
	NamePattern        string                 `json:"namePattern,omitempty"`
	Type               selector.Types         `json:"type,omitempty"`
	DomainAnchor       string                 `json:"domainAnchor,omitempty"`
	Domain             map[string]DomainValue `json:"domain,omitempty"`
	Axes               []AxisRef              `json:"axes,omitempty"`
	PartialAxesMatch   bool                   `json:"partialAxesMatch,omitempty"`
	Annotations        map[string]string      `json:"annotations,omitempty"`
	AnnotationPatterns map[string]string      `json:"annotationPatterns,omitempty"`
	MatchStrategy      selector.MatchStrategy `json:"matchStrategy,omitempty"`
}

// HasAnchors reports whether sel references any anchor.
func HasAnchors(sel Selector) bool {
	if sel.DomainAnchor != "" {
		return true
	}
	for _, v := range sel.Domain {
		switch v.Kind {
		case DomainAnchorRef:
			return true
		case DomainLiteral:
		}
	}
	for _, a := range sel.Axes {
		switch a.Kind {
		case AxisRefByIdx, AxisRefByName, AxisRefByMatcher:
			return true
		case AxisRefID:
		}
	}
	return false
}
