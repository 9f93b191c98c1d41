package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Helpers for normalizing loosely typed server payloads. Numbers may arrive
// as strings, foreign keys as ids or nested objects, lists bare or wrapped.

// Items returns list elements from a bare array or a {"results": [...]}
// envelope. ok is false for any other shape.
func Items(res gjson.Result) (items []gjson.Result, ok bool) {
	if res.IsArray() {
		return res.Array(), true
	}
	if results := res.Get("results"); results.IsArray() {
		return results.Array(), true
	}
	return nil, false
}

// First returns the first of paths that is present and not null.
func First(res gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := res.Get(p); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

// Int64 coerces a number or numeric string; anything else is 0.
func Int64(r gjson.Result) int64 {
	if v := OptInt64(r); v != nil {
		return *v
	}
	return 0
}

// OptInt64 returns nil for missing, null or non-numeric values. A nested
// object yields its "id".
func OptInt64(r gjson.Result) *int64 {
	switch r.Type {
	case gjson.Number:
		v := r.Int()
		return &v
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return &v
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			v := int64(f)
			return &v
		}
		return nil
	case gjson.JSON:
		if r.IsObject() {
			return OptInt64(r.Get("id"))
		}
		return nil
	default:
		return nil
	}
}

// OptFloat64 parses decimals sent as numbers or strings ("1500.00").
func OptFloat64(r gjson.Result) *float64 {
	switch r.Type {
	case gjson.Number:
		v := r.Float()
		return &v
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &v
	default:
		return nil
	}
}

// String returns strings as-is, numbers and booleans in their raw form, and
// "" for null or missing values.
func String(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number, gjson.True, gjson.False:
		return r.Raw
	default:
		return ""
	}
}

// Bool coerces booleans, "true"/"false" strings and numbers; def is used
// when the value is missing or unrecognized.
func Bool(r gjson.Result, def bool) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		if v, err := strconv.ParseBool(strings.TrimSpace(r.Str)); err == nil {
			return v
		}
	}
	return def
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time parses the timestamp formats the service emits. Unparseable values
// give the zero time.
func Time(r gjson.Result) time.Time {
	if r.Type != gjson.String {
		return time.Time{}
	}
	s := strings.TrimSpace(r.Str)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// OptTime is Time that returns nil instead of the zero time.
func OptTime(r gjson.Result) *time.Time {
	t := Time(r)
	if t.IsZero() {
		return nil
	}
	return &t
}
