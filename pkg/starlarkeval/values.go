package starlarkeval

import (
	"fmt"
	"reflect"

	"go.starlark.net/starlark"
)

// toStarlark converts a Go value to a Starlark value.
func toStarlark(v any) starlark.Value {
	if v == nil {
		return starlark.None
	}
	switch t := v.(type) {
	case starlark.Value:
		return t
	case bool:
		return starlark.Bool(t)
	case string:
		return starlark.String(t)
	case int:
		return starlark.MakeInt(t)
	case int32:
		return starlark.MakeInt64(int64(t))
	case int64:
		return starlark.MakeInt64(t)
	case float32:
		return starlark.Float(float64(t))
	case float64:
		return starlark.Float(t)
	case func() any:
		return starlark.NewBuiltin("fn", func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, _ []starlark.Tuple) (starlark.Value, error) {
			if len(args) != 0 {
				return nil, fmt.Errorf("fn: got %d arguments, want 0", len(args))
			}
			return toStarlark(t()), nil
		})
	case func(any) any:
		return starlark.NewBuiltin("fn", func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, _ []starlark.Tuple) (starlark.Value, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("fn: got %d arguments, want 1", len(args))
			}
			return toStarlark(t(fromStarlark(args[0]))), nil
		})
	case func(any, any) any:
		return starlark.NewBuiltin("fn", func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, _ []starlark.Tuple) (starlark.Value, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("fn: got %d arguments, want 2", len(args))
			}
			return toStarlark(t(fromStarlark(args[0]), fromStarlark(args[1]))), nil
		})
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]starlark.Value, rv.Len())
		for i := range items {
			items[i] = toStarlark(rv.Index(i).Interface())
		}
		return starlark.NewList(items)
	case reflect.Map:
		dict := starlark.NewDict(rv.Len())
		it := rv.MapRange()
		for it.Next() {
			key := toStarlark(it.Key().Interface())
			_ = dict.SetKey(key, toStarlark(it.Value().Interface()))
		}
		return dict
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return starlark.None
		}
		return toStarlark(rv.Elem().Interface())
	}
	return starlark.String(fmt.Sprint(v))
}

// fromStarlark converts a Starlark value back to a plain Go value.
func fromStarlark(v starlark.Value) any {
	switch t := v.(type) {
	case nil, starlark.NoneType:
		return nil
	case starlark.Bool:
		return bool(t)
	case starlark.String:
		return string(t)
	case starlark.Int:
		if i, ok := t.Int64(); ok {
			return i
		}
		return t.String()
	case starlark.Float:
		return float64(t)
	case *starlark.List:
		out := make([]any, t.Len())
		for i := range out {
			out[i] = fromStarlark(t.Index(i))
		}
		return out
	case starlark.Tuple:
		out := make([]any, len(t))
		for i := range out {
			out[i] = fromStarlark(t[i])
		}
		return out
	case *starlark.Dict:
		out := make(map[string]any, t.Len())
		for _, item := range t.Items() {
			key, ok := item[0].(starlark.String)
			if ok {
				out[string(key)] = fromStarlark(item[1])
			} else {
				out[item[0].String()] = fromStarlark(item[1])
			}
		}
		return out
	}
	return v.String()
}
