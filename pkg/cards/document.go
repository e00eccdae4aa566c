package cards

import (
	"encoding/json"
	"math"
)

// Document is a loosely-typed JSON object as decoded from the catalog API or
// a snapshot file. Accessors never fail: a missing key or a value of the
// wrong type yields the zero result.
type Document map[string]any

// AsDocument returns v as a Document when it is a JSON object, or nil.
func AsDocument(v any) Document {
	switch m := v.(type) {
	case Document:
		return m
	case map[string]any:
		return Document(m)
	default:
		return nil
	}
}

// Has reports whether key is present with a non-null value.
func (d Document) Has(key string) bool {
	v, ok := d[key]
	return ok && v != nil
}

// Get returns the raw value under key.
func (d Document) Get(key string) any {
	if d == nil {
		return nil
	}
	return d[key]
}

// Doc returns the nested object under key. The result is never nil, so
// lookups can be chained on absent groups.
func (d Document) Doc(key string) Document {
	if m := AsDocument(d.Get(key)); m != nil {
		return m
	}
	return Document{}
}

// String returns the string under key, or nil.
func (d Document) String(key string) *string {
	s, ok := d.Get(key).(string)
	if !ok {
		return nil
	}
	return &s
}

// Bool returns the boolean under key, or nil.
func (d Document) Bool(key string) *bool {
	b, ok := d.Get(key).(bool)
	if !ok {
		return nil
	}
	return &b
}

// Scalar returns a number or string under key, normalized to int64, float64
// or string. Anything else yields nil.
func (d Document) Scalar(key string) any {
	return scalar(d.Get(key))
}

// Strings returns the string elements of the list under key. Non-string
// elements are dropped. The result is never nil.
func (d Document) Strings(key string) []string {
	out := []string{}
	list, ok := d.Get(key).([]any)
	if !ok {
		if ss, ok := d.Get(key).([]string); ok {
			return append(out, ss...)
		}
		return out
	}
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func scalar(v any) any {
	switch n := v.(type) {
	case string:
		return n
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return number(f)
		}
		return nil
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float32:
		return number(float64(n))
	case float64:
		return number(n)
	default:
		return nil
	}
}

// number folds integral floats into int64 so 3 and 3.0 encode identically.
func number(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}
