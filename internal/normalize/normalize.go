package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/resume"
	"github.com/jonathan/resume-optimizer/internal/schemas"
)

// ErrInvalidRecordShape reports a record that is not a mapping. Normalize
// recovers from it by treating the record as empty; Inspect exposes it so
// callers can log the condition.
var ErrInvalidRecordShape = errors.New("record is not a mapping")

// Normalize derives the view of record required by template id. The input is
// never mutated. Unknown keys are carried over unchanged.
func Normalize(record any, id string) (*resume.Map, error) {
	s, ok := Lookup(id)
	if !ok {
		return nil, &schemas.UnknownTemplateError{ID: id}
	}
	return s.Apply(record), nil
}

// Canonicalize normalizes a record into the canonical template.
func Canonicalize(record any) *resume.Map {
	return registry[schemas.Canonical].Apply(record)
}

// Inspect returns ErrInvalidRecordShape when record is not a mapping.
func Inspect(record any) error {
	switch r := record.(type) {
	case *resume.Map:
		if r != nil {
			return nil
		}
	case map[string]any:
		return nil
	}
	return fmt.Errorf("%w: got %T", ErrInvalidRecordShape, record)
}

// Apply runs the schema's field rules over a deep copy of record.
func (s *Schema) Apply(record any) *resume.Map {
	out := asRecord(record)
	for _, f := range s.Fields {
		raw := pick(out, f.sources())
		out.Set(f.Target, f.coerce(raw))
	}
	if s.Backfill != nil {
		s.Backfill.apply(out)
	}
	return out
}

func asRecord(record any) *resume.Map {
	switch r := record.(type) {
	case *resume.Map:
		if r != nil {
			return r.Clone()
		}
	case map[string]any:
		if m, ok := resume.FromValue(r).(*resume.Map); ok {
			return m
		}
	}
	return resume.NewMap()
}

func (f Field) sources() []string {
	if len(f.Sources) == 0 {
		return []string{f.Target}
	}
	return f.Sources
}

// pick returns the first non-empty value among keys, or nil.
func pick(m *resume.Map, keys []string) any {
	for _, k := range keys {
		if v, ok := m.Get(k); ok && !resume.IsEmpty(v) {
			return v
		}
	}
	return nil
}

func (f Field) coerce(v any) any {
	switch f.Kind {
	case KindText:
		return text(v)
	case KindList:
		return truncate(asList(v), f.Limit)
	case KindRecords:
		items := truncate(asList(v), f.Limit)
		for i, item := range items {
			items[i] = f.Item.shape(item)
		}
		return items
	case KindSkillGroups:
		return skillGroups(v)
	case KindSkillList:
		return truncate(FlattenSkills(v), f.Limit)
	case KindContact:
		return f.Contact.shape(v)
	}
	return resume.CloneValue(v)
}

// text coerces a value to a string. Lists of strings are joined by spaces.
func text(v any) string {
	if items, ok := v.([]any); ok {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if s := resume.Text(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}
	if _, ok := v.(*resume.Map); ok {
		return ""
	}
	return resume.Text(v)
}

// asList coerces v to a fresh sequence: absent or empty becomes empty, a
// non-empty scalar becomes a singleton and a sequence is copied.
func asList(v any) []any {
	switch t := v.(type) {
	case []any:
		return resume.CloneValue(t).([]any)
	case nil:
		return []any{}
	default:
		if resume.IsEmpty(t) {
			return []any{}
		}
		return []any{resume.CloneValue(t)}
	}
}

// stringList coerces v to a sequence whose scalar items are strings.
func stringList(v any) []any {
	items := asList(v)
	for i, item := range items {
		switch item.(type) {
		case *resume.Map, []any:
		default:
			items[i] = resume.Text(item)
		}
	}
	return items
}

func truncate(items []any, limit int) []any {
	if limit > 0 && len(items) > limit {
		return items[:limit:limit]
	}
	return items
}

func (r *ItemRule) shape(item any) any {
	if r == nil {
		return item
	}
	entry, ok := item.(*resume.Map)
	if !ok {
		s := resume.Text(item)
		entry = resume.NewMap()
		entry.Set(r.Placeholder, s)
		for _, slot := range r.Wrap {
			if slot.Echo {
				entry.Set(slot.Key, s)
			} else {
				entry.Set(slot.Key, resume.CloneValue(slot.Value))
			}
		}
	}
	for _, f := range r.Fields {
		v, _ := entry.Get(f.Key)
		entry.Set(f.Key, f.coerce(v))
	}
	return entry
}

func (f ItemField) coerce(v any) any {
	switch f.Shape {
	case ShapeList:
		return truncate(stringList(v), f.Limit)
	case ShapeLines:
		if items, ok := v.([]any); ok {
			lines := make([]string, 0, len(items))
			for _, item := range items {
				lines = append(lines, resume.Text(item))
			}
			return strings.Join(lines, "\n")
		}
		return text(v)
	default:
		return text(v)
	}
}

// FlattenSkills turns skills into one ordered list. A category mapping is
// flattened in category order then in-category order, a list passes through
// and a non-empty scalar becomes a singleton.
func FlattenSkills(v any) []any {
	groups, ok := v.(*resume.Map)
	if !ok {
		return stringList(v)
	}
	flat := []any{}
	for _, category := range groups.Keys() {
		items, _ := groups.Get(category)
		if list, ok := items.([]any); ok {
			flat = append(flat, stringList(list)...)
			continue
		}
		if s := resume.Text(items); s != "" {
			flat = append(flat, s)
		}
	}
	return flat
}

// skillGroups keeps skills as category -> list. A list or scalar is filed
// under a single "Skills" category.
func skillGroups(v any) *resume.Map {
	out := resume.NewMap()
	groups, ok := v.(*resume.Map)
	if !ok {
		if items := stringList(v); len(items) > 0 {
			out.Set("Skills", items)
		}
		return out
	}
	for _, category := range groups.Keys() {
		items, _ := groups.Get(category)
		out.Set(category, stringList(items))
	}
	return out
}

func (r *ContactRule) shape(v any) any {
	values := make([]string, len(r.Slots))
	switch t := v.(type) {
	case *resume.Map:
		for i, slot := range r.Slots {
			values[i] = contactValue(t, slot)
		}
	case []any:
		for i := range r.Slots {
			if i < len(t) {
				values[i] = resume.Text(t[i])
			}
		}
	case string:
		if len(values) > 0 {
			values[0] = t
		}
	}

	if r.Positional {
		out := make([]any, len(values))
		for i, s := range values {
			out[i] = s
		}
		return out
	}
	out := resume.NewMap()
	for i, slot := range r.Slots {
		out.Set(slot.Key, values[i])
	}
	return out
}

// contactValue reads the canonical key first, then the target key itself so
// already-shaped records keep their values.
func contactValue(m *resume.Map, slot ContactSlot) string {
	from := slot.From
	if from == "" {
		from = slot.Key
	}
	if v, ok := m.Lookup(from); ok && !resume.IsEmpty(v) {
		return resume.Text(v)
	}
	if v, ok := m.Lookup(slot.Key); ok {
		return resume.Text(v)
	}
	return ""
}

func (b *Backfill) apply(out *resume.Map) {
	current, _ := out.Get(b.Target)
	if !resume.IsEmpty(current) {
		return
	}
	summary := text(pick(out, b.Sources))
	if summary == "" {
		return
	}
	entry := resume.NewMap()
	for _, slot := range b.Entry {
		entry.Set(slot.Key, resume.CloneValue(slot.Value))
	}
	entry.Set(b.DutyKey, []any{summary})
	out.Set(b.Target, []any{entry})
}
