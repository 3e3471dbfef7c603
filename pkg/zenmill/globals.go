package zenmill

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"time"
)

// Globals returns the built-in identifiers seeded into every render
// scope. User data merges over them; user keys win.
func Globals() map[string]any {
	return map[string]any{
		"encodeURI": func(v any) any {
			return percentEncode(Stringify(v), uriUnreserved+uriReserved)
		},
		"encodeURIComponent": func(v any) any {
			return percentEncode(Stringify(v), uriUnreserved)
		},
		"decodeURI": func(v any) any {
			s := Stringify(v)
			if out, err := url.PathUnescape(s); err == nil {
				return out
			}
			return s
		},
		"decodeURIComponent": func(v any) any {
			s := Stringify(v)
			if out, err := url.PathUnescape(s); err == nil {
				return out
			}
			return s
		},
		"Math": map[string]any{
			"PI":    math.Pi,
			"E":     math.E,
			"abs":   func(v any) any { return math.Abs(toFloat(v)) },
			"floor": func(v any) any { return math.Floor(toFloat(v)) },
			"ceil":  func(v any) any { return math.Ceil(toFloat(v)) },
			"round": func(v any) any { return math.Round(toFloat(v)) },
			"sqrt":  func(v any) any { return math.Sqrt(toFloat(v)) },
			"pow":   func(a, b any) any { return math.Pow(toFloat(a), toFloat(b)) },
			"min":   func(a, b any) any { return math.Min(toFloat(a), toFloat(b)) },
			"max":   func(a, b any) any { return math.Max(toFloat(a), toFloat(b)) },
		},
		"JSON": map[string]any{
			"stringify": func(v any) any {
				b, err := json.Marshal(v)
				if err != nil {
					return ""
				}
				return string(b)
			},
			"parse": func(v any) any {
				var out any
				if err := json.Unmarshal([]byte(Stringify(v)), &out); err != nil {
					return nil
				}
				return out
			},
		},
		"Object": map[string]any{
			"keys":   objectKeys,
			"values": objectValues,
		},
		"Date": map[string]any{
			"now": func() any { return time.Now().UnixMilli() },
		},
	}
}

// JS encodeURI/encodeURIComponent character sets. Bytes outside the
// keep set are percent-encoded, UTF-8 byte by byte.
const (
	uriUnreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.!~*'()"
	uriReserved   = ";/?:@&=+$,#"
)

func percentEncode(s, keep string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(keep, c) >= 0 {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func objectKeys(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return []string{}
	}
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, fmt.Sprint(k.Interface()))
	}
	sort.Strings(keys)
	return keys
}

func objectValues(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return []any{}
	}
	type entry struct {
		label string
		key   reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		entries = append(entries, entry{fmt.Sprint(k.Interface()), k})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].label < entries[j].label })
	vals := make([]any, 0, len(entries))
	for _, e := range entries {
		vals = append(vals, rv.MapIndex(e.key).Interface())
	}
	return vals
}
