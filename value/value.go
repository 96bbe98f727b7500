// SPDX-License-Identifier: MIT
// Package: cimatrix/value
//
// value.go — the tagged union carried by every axis value, matcher and row.
//
// Design:
//   • A Value is either a scalar (String, Number, Bool) or an Object with
//     named fields whose values are again Values.
//   • The zero Value is invalid (Kind() == KindInvalid) and equals only itself.
//   • Values are immutable: Object copies its input map, Fields returns a copy.
//   • Equal and Key are the single definition of identity; the matcher and
//     the duplicate detector both build on them.

package value

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind tags the active member of a Value.
type Kind uint8

const (
	// KindInvalid is the zero Kind; an uninitialised Value has it.
	KindInvalid Kind = iota
	// KindString holds a UTF-8 string.
	KindString
	// KindNumber holds a float64 (integers are represented exactly up to 2^53).
	KindNumber
	// KindBool holds a boolean.
	KindBool
	// KindObject holds named fields.
	KindObject
)

// String returns the lower-case name of k.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value is a scalar or structured axis payload.
type Value struct {
	kind   Kind
	str    string
	num    float64
	flag   bool
	fields map[string]Value
}

// String builds a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number builds a numeric Value. -0 is stored as 0; NaN has no Value
// and yields the invalid zero Value.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}

	if f == 0 {
		f = 0
	}

	return Value{kind: KindNumber, num: f}
}

// Int builds a numeric Value from an integer.
func Int(i int64) Value { return Value{kind: KindNumber, num: float64(i)} }

// Bool builds a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Object builds a structured Value. The map is copied.
// Complexity: O(len(fields)).
func Object(fields map[string]Value) Value {
	cp := make(map[string]Value, len(fields))
	for k, v := range fields {
		cp[k] = v
	}

	return Value{kind: KindObject, fields: cp}
}

// Strings is a convenience constructor for a slice of string Values.
func Strings(ss ...string) []Value {
	out := make([]Value, len(ss))
	for i, s := range ss {
		out[i] = String(s)
	}

	return out
}

// Kind reports the active member.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v was built by one of the constructors.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// IsObject reports whether v is an Object.
func (v Value) IsObject() bool { return v.kind == KindObject }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Num returns the numeric payload and whether v is a number.
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

// Truth returns the boolean payload and whether v is a bool.
func (v Value) Truth() (bool, bool) { return v.flag, v.kind == KindBool }

// Field returns the named field of an Object.
// Non-objects have no fields.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	f, ok := v.fields[name]

	return f, ok
}

// FieldNames returns the field names of an Object in ascending order.
// Complexity: O(k log k).
func (v Value) FieldNames() []string {
	if v.kind != KindObject {
		return nil
	}
	names := make([]string, 0, len(v.fields))
	for k := range v.fields {
		names = append(names, k)
	}
	sort.Strings(names)

	return names
}

// Fields returns a copy of the fields of an Object (nil otherwise).
func (v Value) Fields() map[string]Value {
	if v.kind != KindObject {
		return nil
	}
	cp := make(map[string]Value, len(v.fields))
	for k, f := range v.fields {
		cp[k] = f
	}

	return cp
}

// Equal reports deep equality: same kind and same payload, recursively for
// objects (same field set, pairwise equal fields).
// Complexity: O(size of the smaller tree).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.flag == o.flag
	case KindObject:
		if len(v.fields) != len(o.fields) {
			return false
		}
		for k, f := range v.fields {
			g, ok := o.fields[k]
			if !ok || !f.Equal(g) {
				return false
			}
		}

		return true
	default:
		return true
	}
}

// Key returns a canonical encoding of v: two Values are Equal iff their
// Keys are equal. Used for row de-duplication.
func (v Value) Key() string {
	var b strings.Builder
	v.writeKey(&b)

	return b.String()
}

func (v Value) writeKey(b *strings.Builder) {
	switch v.kind {
	case KindString:
		b.WriteString("s")
		b.WriteString(strconv.Quote(v.str))
	case KindNumber:
		b.WriteString("n")
		b.WriteString(strconv.FormatFloat(v.num, 'g', -1, 64))
	case KindBool:
		b.WriteString("b")
		b.WriteString(strconv.FormatBool(v.flag))
	case KindObject:
		b.WriteString("{")
		for i, k := range v.FieldNames() {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(":")
			v.fields[k].writeKey(b)
		}
		b.WriteString("}")
	default:
		b.WriteString("!")
	}
}

// String renders v for humans: strings verbatim, numbers in shortest form
// ("8", "2.5"), objects as "{country: DE, language: de}" with sorted keys.
// This is the default title of an axis value.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindObject:
		var b strings.Builder
		b.WriteString("{")
		for i, k := range v.FieldNames() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(v.fields[k].String())
		}
		b.WriteString("}")

		return b.String()
	default:
		return "<invalid>"
	}
}
