package resume

import (
	"cmp"
	"encoding/json"
	"errors"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned when input is not syntactically valid JSON.
var ErrInvalidJSON = errors.New("invalid JSON")

// ErrNotObject is returned when valid JSON does not hold an object.
var ErrNotObject = errors.New("JSON value is not an object")

// Parse decodes any JSON value into record values, preserving object key order.
func Parse(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

// ParseMap decodes a JSON object.
func ParseMap(data []byte) (*Map, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*Map)
	if !ok {
		return nil, ErrNotObject
	}
	return m, nil
}

func fromResult(r gjson.Result) any {
	switch {
	case r.IsObject():
		m := NewMap()
		r.ForEach(func(key, value gjson.Result) bool {
			m.Set(key.String(), fromResult(value))
			return true
		})
		return m
	case r.IsArray():
		items := []any{}
		r.ForEach(func(_, value gjson.Result) bool {
			items = append(items, fromResult(value))
			return true
		})
		return items
	}
	switch r.Type {
	case gjson.String:
		return r.String()
	case gjson.Number:
		return json.Number(r.Raw)
	case gjson.True:
		return true
	case gjson.False:
		return false
	default:
		return nil
	}
}

// SplitFields splits a "|"-delimited composite value into exactly n trimmed
// parts. Missing parts are empty strings; extra parts are dropped.
func SplitFields(s string, n int) []string {
	out := make([]string, n)
	if s == "" || n == 0 {
		return out
	}
	for i, part := range strings.Split(s, "|") {
		if i >= n {
			break
		}
		out[i] = strings.TrimSpace(part)
	}
	return out
}

// CompanyParts splits an experience "company" value into name, date range and location.
func CompanyParts(s string) (name, dates, location string) {
	p := SplitFields(s, 3)
	return p[0], p[1], p[2]
}

// UniversityParts splits an education "university" value into name and date.
func UniversityParts(s string) (name, date string) {
	p := SplitFields(s, 2)
	return p[0], p[1]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int { return cmp.Compare(a, b) })
	return keys
}
