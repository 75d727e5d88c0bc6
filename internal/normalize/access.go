package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// object returns m[key] as an object, or nil.
func object(m map[string]interface{}, key string) map[string]interface{} {
	if m == nil {
		return nil
	}
	switch v := m[key].(type) {
	case map[string]interface{}:
		return v
	}
	return nil
}

// Number converts v to a finite float64. Strings are not numbers.
func Number(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := strconv.ParseFloat(string(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func number(m map[string]interface{}, key string) float64 {
	if m == nil {
		return 0
	}
	f, _ := Number(m[key])
	return f
}

func numberOK(m map[string]interface{}, key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	return Number(m[key])
}

func text(m map[string]interface{}, key, def string) string {
	if m == nil {
		return def
	}
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return def
}

func boolean(m map[string]interface{}, key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}

// texts reads a sequence of strings. A lone string becomes a one-element
// sequence, numbers are printed and other items are skipped.
func texts(m map[string]interface{}, key string) []string {
	out := []string{}
	if m == nil {
		return out
	}
	switch v := m[key].(type) {
	case string:
		if v != "" {
			out = append(out, v)
		}
	case []interface{}:
		for _, item := range v {
			switch s := item.(type) {
			case string:
				out = append(out, s)
			default:
				if f, ok := Number(s); ok {
					out = append(out, fmt.Sprint(f))
				}
			}
		}
	case []string:
		out = append(out, v...)
	}
	return out
}

// objects reads a sequence of objects. Non-object items become empty objects
// so positions are kept.
func objects(m map[string]interface{}, key string) []map[string]interface{} {
	out := []map[string]interface{}{}
	if m == nil {
		return out
	}
	switch v := m[key].(type) {
	case []interface{}:
		for _, item := range v {
			obj, _ := item.(map[string]interface{})
			out = append(out, obj)
		}
	case []map[string]interface{}:
		out = append(out, v...)
	}
	return out
}
