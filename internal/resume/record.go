// Package resume holds the loosely-typed record model shared by extraction,
// normalization, caching and rendering. Records are JSON objects whose key
// order is preserved, since skill categories and section order are displayed
// in the order the model produced them.
package resume

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Map is a JSON object that remembers key insertion order.
// Values are string, json.Number, bool, nil, []any or *Map.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap returns an empty record.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Lookup returns the value for key, falling back to a case-insensitive match.
func (m *Map) Lookup(key string) (any, bool) {
	if v, ok := m.Get(key); ok {
		return v, true
	}
	if m == nil {
		return nil, false
	}
	for _, k := range m.keys {
		if strings.EqualFold(k, key) {
			return m.values[k], true
		}
	}
	return nil, false
}

// Set stores v under key. A new key is appended; an existing key keeps its position.
func (m *Map) Set(key string, v any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Delete removes key if present.
func (m *Map) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	kept := m.keys[:0]
	for _, k := range m.keys {
		if k != key {
			kept = append(kept, k)
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	m.keys = kept
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Text returns the value under key rendered as a string.
func (m *Map) Text(key string) string {
	v, _ := m.Get(key)
	return Text(v)
}

// Clone returns a deep copy.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := &Map{
		keys:   append([]string(nil), m.keys...),
		values: make(map[string]any, len(m.values)),
	}
	for k, v := range m.values {
		out.values[k] = CloneValue(v)
	}
	return out
}

// MarshalJSON writes the object with keys in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (m *Map) UnmarshalJSON(data []byte) error {
	parsed, err := ParseMap(data)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

// CloneValue deep-copies a record value.
func CloneValue(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}
		return out
	default:
		return v
	}
}

// FromValue converts plain Go values (as produced by encoding/json or
// literal test fixtures) into record values. Keys of plain maps are
// ordered lexically since their original order is unknown.
func FromValue(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.Clone()
	case map[string]any:
		m := NewMap()
		for _, k := range sortedKeys(t) {
			m.Set(k, FromValue(t[k]))
		}
		return m
	case map[string]string:
		m := NewMap()
		for _, k := range sortedKeys(t) {
			m.Set(k, t[k])
		}
		return m
	case map[string][]string:
		m := NewMap()
		for _, k := range sortedKeys(t) {
			m.Set(k, FromValue(t[k]))
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = FromValue(item)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = FromValue(item)
		}
		return out
	case int:
		return json.Number(fmt.Sprint(t))
	case float64:
		return json.Number(fmt.Sprint(t))
	default:
		return v
	}
}

// Text renders a scalar as display text. Lists are joined with ", ".
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := Text(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case *Map:
		parts := make([]string, 0, t.Len())
		for _, k := range t.keys {
			if s := Text(t.values[k]); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}

// IsEmpty reports whether v carries no content: nil, "", empty list or empty record.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case *Map:
		return t.Len() == 0
	case bool:
		return !t
	case json.Number:
		return t == "" || t == "0"
	default:
		return false
	}
}
