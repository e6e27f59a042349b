// Package attr reads loosely typed values out of decoded plan attribute maps.
//
// Plan snapshots are arbitrary JSON, so every accessor here tolerates missing
// keys and unexpected types instead of failing.
package attr

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Get returns attrs[key], or nil when attrs is nil.
func Get(attrs map[string]any, key string) any {
	if attrs == nil {
		return nil
	}
	return attrs[key]
}

// Truthy follows JSON-value truthiness: nil, false, 0, NaN and "" are false.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case json.Number:
		f, err := val.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	default:
		if f, ok := numeric(v); ok {
			return f != 0 && !math.IsNaN(f)
		}
		return true
	}
}

// String stringifies a value the way a price-table match expects: falsy
// values become "", numbers use their shortest decimal form and lists are
// joined with commas.
func String(v any) string {
	if !Truthy(v) {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return "true"
	case json.Number:
		return val.String()
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			if item == nil {
				continue
			}
			parts[i] = stringOf(item)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	}
	if f, ok := numeric(v); ok {
		return formatNumber(f)
	}
	return ""
}

// stringOf is String without the falsy collapse, used for list elements.
func stringOf(v any) string {
	switch val := v.(type) {
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	}
	if f, ok := numeric(v); ok {
		return formatNumber(f)
	}
	return String(v)
}

// Number converts a value to float64. Numeric strings are parsed; anything
// else, including unparsable strings, yields 0.
func Number(v any) float64 {
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	}
	if f, ok := numeric(v); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return 0
}

// IsNumber reports whether v is a JSON number equal to want. Strings never match.
func IsNumber(v any, want float64) bool {
	f, ok := numeric(v)
	return ok && f == want
}

// Object returns v as an attribute map. Terraform encodes nested blocks as
// single-element lists, so the first element of a list is accepted too.
func Object(v any) map[string]any {
	switch val := v.(type) {
	case map[string]any:
		return val
	case []any:
		if len(val) > 0 {
			if m, ok := val[0].(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}

// Objects returns the map elements of a list, skipping anything else.
func Objects(v any) []map[string]any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Strings returns the string elements of a list, skipping anything else.
func Strings(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
