package wizard

import (
	"strings"

	"servihogar/entity"
)

// AnswerSet is an immutable snapshot of a wizard's answers. Every declared
// field is always present with a well-defined default, so the set is total,
// never partial. Mutations return a fresh snapshot and leave the receiver
// untouched, so consumers relying on reference-equality change detection
// observe each update exactly once.
type AnswerSet struct {
	schema *Schema
	values map[string]any
}

// NewAnswerSet builds the default answer set of a schema: "" for single,
// text and date fields, empty slices for multi and photo fields.
func NewAnswerSet(schema *Schema) AnswerSet {
	values := make(map[string]any, len(schema.Fields))
	for _, f := range schema.Fields {
		values[f.Key] = defaultValue(f.Kind)
	}
	return AnswerSet{schema: schema, values: values}
}

func defaultValue(kind FieldKind) any {
	switch kind {
	case FieldMulti:
		return []string{}
	case FieldPhotos:
		return []entity.PhotoEntry{}
	default:
		return ""
	}
}

func (a AnswerSet) with(key string, value any) AnswerSet {
	next := make(map[string]any, len(a.values))
	for k, v := range a.values {
		next[k] = v
	}
	next[key] = value
	return AnswerSet{schema: a.schema, values: next}
}

// SetField replaces one field's value wholesale. Unknown keys and
// kind-mismatched values are ignored, returning the receiver unchanged.
func (a AnswerSet) SetField(key string, value any) AnswerSet {
	field, ok := a.schema.FieldByKey(key)
	if !ok {
		return a
	}
	switch field.Kind {
	case FieldSingle, FieldText, FieldDate:
		s, ok := value.(string)
		if !ok {
			return a
		}
		if field.Kind == FieldText && field.MaxLen > 0 && len([]rune(s)) > field.MaxLen {
			s = string([]rune(s)[:field.MaxLen])
		}
		return a.with(key, s)
	case FieldMulti:
		list, ok := toStringList(value)
		if !ok {
			return a
		}
		return a.with(key, list)
	case FieldPhotos:
		photos, ok := value.([]entity.PhotoEntry)
		if !ok {
			return a
		}
		return a.with(key, append([]entity.PhotoEntry{}, photos...))
	}
	return a
}

// ToggleInSet adds the value to a multi-select field if absent, removes it
// if present. Uniqueness is enforced; all other fields are untouched.
func (a AnswerSet) ToggleInSet(key, value string) AnswerSet {
	field, ok := a.schema.FieldByKey(key)
	if !ok || field.Kind != FieldMulti {
		return a
	}
	current := a.List(key)
	next := make([]string, 0, len(current)+1)
	removed := false
	for _, v := range current {
		if v == value {
			removed = true
			continue
		}
		next = append(next, v)
	}
	if !removed {
		next = append(next, value)
	}
	return a.with(key, next)
}

// String returns a single/text/date field's value, "" when unanswered.
func (a AnswerSet) String(key string) string {
	if s, ok := a.values[key].(string); ok {
		return s
	}
	return ""
}

// List returns a multi-select field's values in selection order.
func (a AnswerSet) List(key string) []string {
	if l, ok := a.values[key].([]string); ok {
		return l
	}
	return nil
}

// Photos returns the photo entries of a photo field.
func (a AnswerSet) Photos(key string) []entity.PhotoEntry {
	if p, ok := a.values[key].([]entity.PhotoEntry); ok {
		return p
	}
	return nil
}

// Answered reports whether the field holds a non-default value.
func (a AnswerSet) Answered(key string) bool {
	switch v := a.values[key].(type) {
	case string:
		return strings.TrimSpace(v) != ""
	case []string:
		return len(v) > 0
	case []entity.PhotoEntry:
		return len(v) > 0
	}
	return false
}

// Map returns a flat copy of the answers for persistence and for condition
// evaluation environments. Photo entries are excluded (they are never
// durable and conditions do not reference them).
func (a AnswerSet) Map() map[string]any {
	out := make(map[string]any, len(a.values))
	for k, v := range a.values {
		if _, isPhotos := v.([]entity.PhotoEntry); isPhotos {
			continue
		}
		if l, isList := v.([]string); isList {
			out[k] = append([]string{}, l...)
			continue
		}
		out[k] = v
	}
	return out
}

// toStringList coerces []string or []any-of-strings (the shape JSON and BSON
// decoding produce) into a string slice.
func toStringList(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return append([]string{}, v...), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
