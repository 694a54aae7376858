package spec

import (
	"encoding/json"
	"fmt"
	"maps"
)

// ValueType is the type of values stored in a column or used as axis keys.
type ValueType string

const (
	ValueTypeInt    ValueType = "Int"
	ValueTypeLong   ValueType = "Long"
	ValueTypeFloat  ValueType = "Float"
	ValueTypeDouble ValueType = "Double"
	ValueTypeString ValueType = "String"
	ValueTypeBytes  ValueType = "Bytes"
)

// ValueTypes lists every supported value type in declaration order.
var ValueTypes = []ValueType{
	ValueTypeInt, ValueTypeLong, ValueTypeFloat,
	ValueTypeDouble, ValueTypeString, ValueTypeBytes,
}

// Valid reports whether v is one of the supported value types.
func (v ValueType) Valid() bool {
	switch v {
	case ValueTypeInt, ValueTypeLong, ValueTypeFloat, ValueTypeDouble, ValueTypeString, ValueTypeBytes:
		return true
	}
	return false
}

// ParseValueType converts s to a ValueType. The match is case-sensitive.
func ParseValueType(s string) (ValueType, error) {
	v := ValueType(s)
	if !v.Valid() {
		return "", fmt.Errorf("unknown value type %q", s)
	}
	return v, nil
}

// KindPColumn is the object kind carried by every column spec.
const KindPColumn = "PColumn"

// AxisSpec describes one axis of a column.
//
// Parents may be given in either of two encodings: ParentAxes holds indices
// into the owning column's axis list, while the [AnnotationParents]
// annotation holds a JSON list of parent axes. A nil ParentAxes means the
// indices were not given; a non-nil empty slice means "no parents".
type AxisSpec struct {
	Type        ValueType         `json:"type" yaml:"type"`
	Name        string            `json:"name" yaml:"name"`
	Domain      map[string]string `json:"domain,omitempty" yaml:"domain,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	ParentAxes  []int             `json:"parentAxes,omitempty" yaml:"parentAxes,omitempty"`
}

// ID returns the identity of the axis.
func (a AxisSpec) ID() AxisID { return AxisIDOf(a) }

// AxisSpecNormalized is an axis whose parents are materialized as specs.
// The parents annotation never survives into Annotations.
type AxisSpecNormalized struct {
	Type           ValueType            `json:"type" yaml:"type"`
	Name           string               `json:"name" yaml:"name"`
	Domain         map[string]string    `json:"domain,omitempty" yaml:"domain,omitempty"`
	Annotations    map[string]string    `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	ParentAxesSpec []AxisSpecNormalized `json:"parentAxesSpec" yaml:"parentAxesSpec"`
}

// ID returns the identity of the axis.
func (a AxisSpecNormalized) ID() AxisID { return newAxisID(a.Type, a.Name, a.Domain) }

// MarshalJSON always emits parentAxesSpec as a list so that structurally
// equal axes serialize identically.
func (a AxisSpecNormalized) MarshalJSON() ([]byte, error) {
	type plain AxisSpecNormalized
	p := plain(a)
	if p.ParentAxesSpec == nil {
		p.ParentAxesSpec = []AxisSpecNormalized{}
	}
	return json.Marshal(p)
}

// PColumnSpec is the full specification of a column: its own identity,
// annotations, and the specs of every axis that addresses it.
type PColumnSpec struct {
	Kind        string            `json:"kind" yaml:"kind"`
	Name        string            `json:"name" yaml:"name"`
	ValueType   ValueType         `json:"valueType" yaml:"valueType"`
	Domain      map[string]string `json:"domain,omitempty" yaml:"domain,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	ParentAxes  []int             `json:"parentAxes,omitempty" yaml:"parentAxes,omitempty"`
	AxesSpec    []AxisSpec        `json:"axesSpec" yaml:"axesSpec"`
}

// PColumnSpecID is the identity of a column for matching purposes.
type PColumnSpecID struct {
	Kind       string            `json:"kind"`
	ValueType  ValueType         `json:"valueType"`
	Name       string            `json:"name"`
	Domain     map[string]string `json:"domain,omitempty"`
	ParentAxes []int             `json:"parentAxes,omitempty"`
	AxesID     []AxisID          `json:"axesId"`
}

// ID returns the identity of the column.
func (s PColumnSpec) ID() PColumnSpecID {
	return PColumnSpecID{
		Kind:       s.Kind,
		ValueType:  s.ValueType,
		Name:       s.Name,
		Domain:     cloneDomain(s.Domain),
		ParentAxes: s.ParentAxes,
		AxesID:     AxesID(s.AxesSpec),
	}
}

// IsPColumn reports whether the spec is of the column kind.
func (s PColumnSpec) IsPColumn() bool { return s.Kind == KindPColumn }

// PObjectID is the internal identifier of a column within a frame.
type PObjectID string

// PColumnIDAndSpec pairs a column id with its spec.
type PColumnIDAndSpec struct {
	ColumnID PObjectID   `json:"columnId" yaml:"columnId"`
	Spec     PColumnSpec `json:"spec" yaml:"spec"`
}

func cloneDomain(d map[string]string) map[string]string {
	if len(d) == 0 {
		return nil
	}
	return maps.Clone(d)
}
