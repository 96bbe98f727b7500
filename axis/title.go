package axis

import (
	"strings"

	"github.com/katalvlaran/cimatrix/value"
)

// TitleFn maps a raw axis value to its fragment of a row name.
// It must be pure: the same value always yields the same title.
// An empty result omits the axis from the name.
type TitleFn func(v value.Value) string

// DefaultTitle renders the value's own string form.
// Complexity: O(size of v).
func DefaultTitle(v value.Value) string {
	return v.String()
}

// NoTitle suppresses the axis in row names.
func NoTitle(value.Value) string {
	return ""
}

// ConstTitle returns a TitleFn that ignores the value.
func ConstTitle(s string) TitleFn {
	return func(value.Value) string { return s }
}

// PrefixTitle returns a TitleFn producing prefix + value, e.g. "Java 17".
func PrefixTitle(prefix string) TitleFn {
	return func(v value.Value) string { return prefix + v.String() }
}

// TrimSuffixTitle returns a TitleFn that drops suffix from the value's
// string form, e.g. "ubuntu-latest" → "ubuntu".
func TrimSuffixTitle(suffix string) TitleFn {
	return func(v value.Value) string { return strings.TrimSuffix(v.String(), suffix) }
}

// FieldsTitle returns a TitleFn that joins the named fields of an object
// value with sep, e.g. FieldsTitle("_", "language", "country") → "de_DE".
// Missing fields render as empty strings; scalars fall back to DefaultTitle.
func FieldsTitle(sep string, fields ...string) TitleFn {
	return func(v value.Value) string {
		if !v.IsObject() {
			return v.String()
		}
		parts := make([]string, len(fields))
		for i, name := range fields {
			if f, ok := v.Field(name); ok {
				parts[i] = f.String()
			}
		}

		return strings.Join(parts, sep)
	}
}
