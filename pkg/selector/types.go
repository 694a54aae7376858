package selector

import (
	"encoding/json"
	"slices"

	"github.com/matzehuels/pframe/pkg/spec"
)

// Types is an any-of list of value types. In JSON it is either a single
// type string or a list.
type Types []spec.ValueType

// Contains reports whether v is listed. An empty list contains everything.
func (t Types) Contains(v spec.ValueType) bool {
	return len(t) == 0 || slices.Contains(t, v)
}

// MarshalJSON encodes a single type as a plain string.
func (t Types) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]spec.ValueType(t))
}

// UnmarshalJSON accepts a string or a list of strings.
func (t *Types) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = nil
		return nil
	}
	var one spec.ValueType
	if err := json.Unmarshal(data, &one); err == nil {
		*t = Types{one}
		return nil
	}
	var many []spec.ValueType
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*t = many
	return nil
}

// MatchStrategy tells callers how to treat several matching columns.
type MatchStrategy string

const (
	// ExpectSingle rejects more than one match. It is the default.
	ExpectSingle MatchStrategy = "expectSingle"
	// ExpectMultiple accepts any number of matches.
	ExpectMultiple MatchStrategy = "expectMultiple"
	// TakeFirst keeps the first match and ignores the rest.
	TakeFirst MatchStrategy = "takeFirst"
)

// OrDefault returns ExpectSingle for the zero value.
func (m MatchStrategy) OrDefault() MatchStrategy {
	if m == "" {
		return ExpectSingle
	}
	return m
}

// Valid reports whether m is empty or a known strategy.
func (m MatchStrategy) Valid() bool {
	switch m {
	case "", ExpectSingle, ExpectMultiple, TakeFirst:
		return true
	}
	return false
}
