// Package rw provides access to decoded RenderWare record trees.
//
// An external decoder turns DFF/TXD binaries into nested records (maps,
// lists and scalars). This package reads those trees without assuming a
// fixed schema: lookups return ok=false instead of failing when a path
// is missing or has an unexpected type.
package rw

import (
	"encoding/base64"
	"math"
	"strings"
)

// Record is one decoded file: a tree of map[string]any, []any and scalars.
type Record map[string]any

// Lookup walks path through nested maps and returns the value found.
func (r Record) Lookup(path ...string) (any, bool) {
	return Lookup(map[string]any(r), path...)
}

// Lookup walks path through nested maps starting at v.
func Lookup(v any, path ...string) (any, bool) {
	cur := v
	for _, key := range path {
		m, ok := AsMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, cur != nil
}

// SplitPath splits a dotted path such as "clump.geometryList.geometries".
func SplitPath(p string) []string {
	if p == "" {
		return nil
	}
	return strings.Split(p, ".")
}

// AsMap returns v as a string-keyed map.
// Maps decoded with interface keys are converted when every key is a string.
func AsMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return map[string]any(m), true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

// AsList returns v as a list.
func AsList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// AsFloat returns a numeric scalar as float32.
func AsFloat(v any) (float32, bool) {
	switch n := v.(type) {
	case float64:
		return float32(n), true
	case float32:
		return n, true
	case int:
		return float32(n), true
	case int64:
		return float32(n), true
	case uint64:
		return float32(n), true
	case int32:
		return float32(n), true
	case uint32:
		return float32(n), true
	}
	return 0, false
}

// AsInt returns an integral scalar as int.
// Floats are accepted only when they carry no fractional part.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case float32:
		f := float64(n)
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}

// AsString returns v as a string.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsBytes returns a byte buffer from a list of byte values or a base64 string.
func AsBytes(v any) ([]byte, bool) {
	switch b := v.(type) {
	case []byte:
		return b, true
	case string:
		out, err := base64.StdEncoding.DecodeString(b)
		if err != nil {
			return nil, false
		}
		return out, true
	case []any:
		out := make([]byte, len(b))
		for i, e := range b {
			n, ok := AsInt(e)
			if !ok || n < 0 || n > 255 {
				return nil, false
			}
			out[i] = byte(n)
		}
		return out, true
	}
	return nil, false
}
