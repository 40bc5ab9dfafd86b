package daktela

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// FlattenQuery encodes nested parameters with bracket notation, so
// {"sort": [{"field": "name", "dir": "asc"}]} becomes
// sort[0][field]=name&sort[0][dir]=asc. Booleans become 1 or 0, nil values
// and empty collections are dropped.
func FlattenQuery(params map[string]any) url.Values {
	values := url.Values{}

	for key, value := range params {
		flattenValue(values, key, value)
	}

	return values
}

func flattenValue(values url.Values, key string, value any) {
	switch v := value.(type) {
	case nil:
		return
	case string:
		values.Add(key, v)
	case bool:
		if v {
			values.Add(key, "1")
		} else {
			values.Add(key, "0")
		}
	case int:
		values.Add(key, strconv.Itoa(v))
	case int64:
		values.Add(key, strconv.FormatInt(v, 10))
	case float64:
		values.Add(key, strconv.FormatFloat(v, 'f', -1, 64))
	case FilterTree:
		flattenValue(values, key, v.queryValue())
	case *FilterTree:
		if v != nil {
			flattenValue(values, key, v.queryValue())
		}
	case fmt.Stringer:
		values.Add(key, v.String())
	default:
		flattenReflect(values, key, value)
	}
}

func flattenReflect(values url.Values, key string, value any) {
	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return
		}

		flattenValue(values, key, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			flattenValue(values, fmt.Sprintf("%s[%d]", key, i), rv.Index(i).Interface())
		}
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		index := make(map[string]reflect.Value, rv.Len())

		for _, k := range rv.MapKeys() {
			name := fmt.Sprint(k.Interface())
			keys = append(keys, name)
			index[name] = rv.MapIndex(k)
		}

		sort.Strings(keys)

		for _, name := range keys {
			flattenValue(values, fmt.Sprintf("%s[%s]", key, name), index[name].Interface())
		}
	case reflect.Struct:
		// Structs travel as JSON-style objects through their exported fields.
		t := rv.Type()
		for i := range rv.NumField() {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}

			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				continue
			}

			if name == "" {
				name = field.Name
			}

			flattenValue(values, fmt.Sprintf("%s[%s]", key, name), rv.Field(i).Interface())
		}
	case reflect.Bool:
		flattenValue(values, key, rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		values.Add(key, strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		values.Add(key, strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		values.Add(key, strconv.FormatFloat(rv.Float(), 'f', -1, 64))
	case reflect.String:
		values.Add(key, rv.String())
	default:
		values.Add(key, fmt.Sprint(value))
	}
}
