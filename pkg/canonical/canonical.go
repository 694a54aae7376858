// Package canonical produces deterministic JSON encodings used as equality
// and hash keys throughout pframe.
//
// Two values that are semantically equal (same fields, same map contents,
// regardless of map iteration or construction order) always encode to the
// same bytes. The encoding is the JSON Canonicalization Scheme (RFC 8785):
// object keys are sorted by UTF-16 code units, insignificant whitespace is
// omitted, strings use minimal escaping and numbers their shortest form.
//
//	key, err := canonical.Marshal(map[string]string{"b": "2", "a": "1"})
//	// key == `{"a":"1","b":"2"}`
package canonical

import (
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// Marshal returns the canonical JSON encoding of v.
//
// v is first encoded with encoding/json (so struct tags and custom
// MarshalJSON methods apply), then passed through [Canonicalize].
func Marshal(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("canonical: encode: %w", err)
	}
	return Canonicalize(raw)
}

// MustMarshal is like [Marshal] but panics on error. It is intended for
// values whose encoding cannot fail, such as the pframe spec types.
func MustMarshal(v any) string {
	s, err := Marshal(v)
	if err != nil {
		panic(err)
	}
	return s
}

// Canonicalize rewrites an arbitrary JSON document into its RFC 8785
// (JCS) form.
func Canonicalize(raw []byte) (string, error) {
	out, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonical: %w", err)
	}
	return string(out), nil
}
