package daktela

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Value is a read-only accessor over a decoded JSON value.
type Value struct {
	raw any
}

// NewValue wraps raw, which is expected to hold encoding/json output
// (nil, bool, float64, json.Number, string, []any or map[string]any).
func NewValue(raw any) Value {
	return Value{raw: raw}
}

// Raw returns the wrapped value.
func (v Value) Raw() any {
	return v.raw
}

// IsNull reports a JSON null.
func (v Value) IsNull() bool {
	return v.raw == nil
}

// Field looks up a named field of an object. The exact name is tried first,
// then its snake_case form, so "parentTicket" also finds "parent_ticket".
func (v Value) Field(name string) (Value, error) {
	obj, ok := v.raw.(map[string]any)
	if ok {
		if field, found := obj[name]; found {
			return NewValue(field), nil
		}

		if snake := toSnakeCase(name); snake != name {
			if field, found := obj[snake]; found {
				return NewValue(field), nil
			}
		}
	}

	return Value{}, NewNotFoundError(fmt.Sprintf("field '%s' not found", name))
}

// Path follows a chain of field names.
func (v Value) Path(names ...string) (Value, error) {
	current := v
	for _, name := range names {
		next, err := current.Field(name)
		if err != nil {
			return Value{}, err
		}

		current = next
	}

	return current, nil
}

// Has reports whether the named field exists.
func (v Value) Has(name string) bool {
	_, err := v.Field(name)

	return err == nil
}

// String returns the value as a string. Numbers and booleans are formatted.
func (v Value) String() string {
	switch raw := v.raw.(type) {
	case nil:
		return ""
	case string:
		return raw
	case bool:
		return strconv.FormatBool(raw)
	case float64:
		return strconv.FormatFloat(raw, 'f', -1, 64)
	case json.Number:
		return raw.String()
	default:
		encoded, err := json.Marshal(raw)
		if err != nil {
			return fmt.Sprintf("%v", raw)
		}

		return string(encoded)
	}
}

// Int returns the value as an integer. Numeric strings are accepted.
func (v Value) Int() (int, error) {
	f, err := v.Float()
	if err != nil {
		return 0, err
	}

	return int(math.Trunc(f)), nil
}

// Float returns the value as a float. Numeric strings are accepted.
func (v Value) Float() (float64, error) {
	switch raw := v.raw.(type) {
	case float64:
		return raw, nil
	case json.Number:
		f, err := raw.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidArgument, raw)
		}

		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidArgument, raw)
		}

		return f, nil
	case bool:
		if raw {
			return 1, nil
		}

		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %T is not a number", ErrInvalidArgument, v.raw)
	}
}

// Bool returns the value as a boolean. "1", "true", 1 and true are true.
func (v Value) Bool() bool {
	switch raw := v.raw.(type) {
	case bool:
		return raw
	case float64:
		return raw != 0
	case json.Number:
		return raw.String() != "0"
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))

		return err == nil && b
	default:
		return false
	}
}

// List returns the elements of a JSON array.
func (v Value) List() ([]Value, bool) {
	list, ok := v.raw.([]any)
	if !ok {
		return nil, false
	}

	values := make([]Value, 0, len(list))
	for _, item := range list {
		values = append(values, NewValue(item))
	}

	return values, true
}

// Map returns the value as a JSON object.
func (v Value) Map() (map[string]any, bool) {
	obj, ok := v.raw.(map[string]any)

	return obj, ok
}

// Decode converts the value into target, which must be a pointer.
func (v Value) Decode(target any) error {
	encoded, err := json.Marshal(v.raw)
	if err != nil {
		return fmt.Errorf("encoding value: %w", err)
	}

	if err := json.Unmarshal(encoded, target); err != nil {
		return fmt.Errorf("decoding value: %w", err)
	}

	return nil
}

// MarshalJSON encodes the wrapped value.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

func toSnakeCase(name string) string {
	var b strings.Builder

	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}

			b.WriteRune(unicode.ToLower(r))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// LowerFirst lower-cases the first character of s.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}

	r := []rune(s)
	r[0] = unicode.ToLower(r[0])

	return string(r)
}
