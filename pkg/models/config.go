package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Config maps field names to values for one block. Values are strings,
// numbers, bools, string lists or ColumnRefs; YAML decoding may also produce
// []any, map[string]any and nested Config mappings, which the accessors
// understand.
type Config map[string]any

// Clone copies the config, including nested slices and maps.
func (c Config) Clone() Config {
	if c == nil {
		return nil
	}
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []any:
		cp := make([]any, len(val))
		for i, item := range val {
			cp[i] = cloneValue(item)
		}
		return cp
	case map[string]any:
		cp := make(map[string]any, len(val))
		for k, item := range val {
			cp[k] = cloneValue(item)
		}
		return cp
	case Config:
		return val.Clone()
	}
	return v
}

// Has reports whether key is present, regardless of its value.
func (c Config) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// String returns the value at key as a string. Column references resolve to
// their value; numbers and bools are formatted.
func (c Config) String(key string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return ""
	}
	if ref, ok := AsColumnRef(v); ok {
		return ref.Value
	}
	switch val := v.(type) {
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []string:
		return strings.Join(val, ",")
	case []any:
		return strings.Join(c.Strings(key), ",")
	}
	return fmt.Sprint(v)
}

// Strings returns the value at key as a string list. A single non-empty
// string yields a one-element list.
func (c Config) Strings(key string) []string {
	v, ok := c[key]
	if !ok || v == nil {
		return []string{}
	}
	switch val := v.(type) {
	case []string:
		return append([]string{}, val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if ref, ok := AsColumnRef(item); ok {
				out = append(out, ref.Value)
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	}
	if s := c.String(key); s != "" {
		return []string{s}
	}
	return []string{}
}

// Bool returns the value at key as a bool. Strings are parsed.
func (c Config) Bool(key string) bool {
	switch val := c[key].(type) {
	case bool:
		return val
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(val))
		return b
	}
	return false
}

// Float returns the value at key as a float64 and whether it was numeric.
func (c Config) Float(key string) (float64, bool) {
	switch val := c[key].(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Int returns the value at key truncated to an int, or def when it is not numeric.
func (c Config) Int(key string, def int) int {
	f, ok := c.Float(key)
	if !ok {
		return def
	}
	return int(f)
}
