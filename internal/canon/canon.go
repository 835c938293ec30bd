// Package canon renders bound values as RFC 8785 canonical JSON.
//
// Canonical output is what golden snapshots and the load command print, so
// two loads of the same document always produce byte-identical text no
// matter how the target type orders its fields.
//
// Numbers pass through IEEE 754 doubles, as RFC 8785 requires. Integers
// outside ±2^53 lose precision.
package canon

import (
	"encoding/json"
	"fmt"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"golang.org/x/text/unicode/norm"
)

// Marshal produces canonical JSON for v.
//
// v is first encoded with encoding/json, so struct tags apply. Strings are
// NFC normalized before canonicalization.
func Marshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	out, err := jsoncanonicalizer.Transform(norm.NFC.Bytes(raw))
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	return out, nil
}

// MustMarshal is like Marshal but panics on error. Use only with values
// known to be encodable.
func MustMarshal(v any) []byte {
	out, err := Marshal(v)
	if err != nil {
		panic(err)
	}
	return out
}
