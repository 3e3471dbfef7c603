package zenmill

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// EscapeHTML replaces &, <, > and double quotes with entities.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Stringify renders an expression result for output. nil renders as
// the empty string; floats use their shortest decimal form.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Truthy reports the conditional interpretation of v: nil is false,
// numbers by non-zero, strings by non-empty, everything else true.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return len(t) > 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// Each iterates v, invoking body once per element in a fresh scope
// that binds name plus the name_index, name_key, name_last and
// name_has_next loop variables. Sequences iterate in natural order;
// mappings by code-point-ascending key order. nil iterates nothing.
func Each(v any, name string, sc *Scope, body func(*Scope) error) error {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		for i := 0; i < n; i++ {
			iter := NewScope(sc)
			iter.Set(name, rv.Index(i).Interface())
			iter.Set(name+"_index", i)
			iter.Set(name+"_key", i)
			iter.Set(name+"_last", i == n-1)
			iter.Set(name+"_has_next", i != n-1)
			if err := body(iter); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		type entry struct {
			label string
			key   reflect.Value
		}
		entries := make([]entry, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			label, ok := k.Interface().(string)
			if !ok {
				label = fmt.Sprint(k.Interface())
			}
			entries = append(entries, entry{label, k})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].label < entries[j].label })
		for i, e := range entries {
			iter := NewScope(sc)
			iter.Set(name, rv.MapIndex(e.key).Interface())
			iter.Set(name+"_key", e.label)
			iter.Set(name+"_index", e.label)
			iter.Set(name+"_last", i == len(entries)-1)
			iter.Set(name+"_has_next", i != len(entries)-1)
			if err := body(iter); err != nil {
				return err
			}
		}
		return nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Each(rv.Elem().Interface(), name, sc, body)
	}
	return &NonIterableError{Type: fmt.Sprintf("%T", v)}
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case int32:
		return float64(t)
	default:
		f, _ := strconv.ParseFloat(fmt.Sprintf("%v", v), 64)
		return f
	}
}
