// Copyright 2026 The fuzzycache Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fuzzycache

import (
	"bytes"
	"reflect"

	"github.com/goccy/go-json"
)

// Params is the parameter set of a wrapped computation. The cache treats it
// as opaque except for the fields named in a fuzzy parameter specification;
// every other field must match by exact value equality.
type Params map[string]any

// valuesEqual reports whether two parameter values are equal under canonical
// JSON encoding. Canonical encoding makes numerically equal values compare
// equal regardless of their Go type (int(5) vs float64(5)) and sorts map
// keys. Values that cannot be marshalled fall back to reflect.DeepEqual.
func valuesEqual(a, b any) bool {
	ab, aerr := json.Marshal(a)
	bb, berr := json.Marshal(b)
	if aerr != nil || berr != nil {
		return reflect.DeepEqual(a, b)
	}
	return bytes.Equal(ab, bb)
}

// asFloat coerces a numeric parameter value to float64.
// It reports false for non-numeric values.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// asString coerces a string parameter value.
// It reports false for non-string values.
func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
