package spec

import (
	"maps"

	"github.com/matzehuels/pframe/pkg/canonical"
)

// AxisID is the identity of an axis. Domain is nil when empty.
type AxisID struct {
	Type   ValueType         `json:"type" yaml:"type"`
	Name   string            `json:"name" yaml:"name"`
	Domain map[string]string `json:"domain,omitempty" yaml:"domain,omitempty"`
}

// AxisIDOf projects an axis spec onto its identity. The domain is copied
// and included only if it is non-empty.
func AxisIDOf(a AxisSpec) AxisID {
	return newAxisID(a.Type, a.Name, a.Domain)
}

func newAxisID(t ValueType, name string, domain map[string]string) AxisID {
	return AxisID{Type: t, Name: name, Domain: cloneDomain(domain)}
}

// AxesID maps AxisIDOf over a list of axes.
func AxesID(axes []AxisSpec) []AxisID {
	ids := make([]AxisID, len(axes))
	for i, a := range axes {
		ids[i] = AxisIDOf(a)
	}
	return ids
}

// CanonicalKey returns the canonical JSON form of id. Two ids have the same
// key exactly when they are equal, regardless of domain insertion order or
// whether an empty domain was given.
func CanonicalKey(id AxisID) string {
	return canonical.MustMarshal(newAxisID(id.Type, id.Name, id.Domain))
}

// Equal reports whether two ids are identical.
func (id AxisID) Equal(other AxisID) bool {
	return id.Type == other.Type && id.Name == other.Name && maps.Equal(id.Domain, other.Domain)
}

// String returns the canonical key of the id.
func (id AxisID) String() string { return CanonicalKey(id) }

// AxisCompatible reports whether the query axis satisfies the target axis.
//
// Names must be equal. Every domain entry of target must be present in query
// with the same value; extra query entries are ignored. A query without a
// domain is compatible only with a target without a domain. The relation is
// not symmetric.
func AxisCompatible(query, target AxisID) bool {
	if query.Name != target.Name {
		return false
	}
	if len(query.Domain) == 0 {
		return len(target.Domain) == 0
	}
	for k, v := range target.Domain {
		if qv, ok := query.Domain[k]; !ok || qv != v {
			return false
		}
	}
	return true
}
