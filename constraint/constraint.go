// SPDX-License-Identifier: MIT
// Package: cimatrix/constraint
//
// constraint.go — partial-match predicates over rows.
//
// Semantics (one routine for exclusions and pinned requests):
//   • A Constraint maps axis names to Matchers; all keys must hold (AND).
//   • Axes absent from the Constraint are wildcards.
//   • A key naming an axis the row does not carry never holds.
//   • Matcher kinds:
//       – equality:  Is(scalar)   row value deep-equals the scalar;
//       – partial:   Is(object) / Like(fields)  every matcher field matches
//                    the row value's field of the same name (nested objects
//                    partially, recursively); extra row fields are ignored;
//       – any-of:    AnyOf(vs...) row value deep-equals at least one element.
//   • Values declared as structured entries are also tried as their entry
//     object (see Entries), so {value: same} matches the value "same"
//     declared as {value: same, weight: 1}.
//   • The empty Constraint matches every row.

package constraint

import (
	"sort"
	"strings"

	"github.com/katalvlaran/cimatrix/value"
)

type matchKind uint8

const (
	kindEqual matchKind = iota + 1
	kindPartial
	kindAnyOf
)

// Matcher is a predicate over one axis value. The zero Matcher matches nothing.
type Matcher struct {
	kind matchKind
	val  value.Value
	alts []value.Value
}

// Is matches by equality for scalars and partially for objects.
func Is(v value.Value) Matcher {
	if v.IsObject() {
		return Matcher{kind: kindPartial, val: v}
	}

	return Matcher{kind: kindEqual, val: v}
}

// IsString is Is(value.String(s)).
func IsString(s string) Matcher { return Is(value.String(s)) }

// Like matches objects that carry at least the given fields.
func Like(fields map[string]value.Value) Matcher {
	return Matcher{kind: kindPartial, val: value.Object(fields)}
}

// AnyOf matches values deep-equal to one of vs. AnyOf() matches nothing.
func AnyOf(vs ...value.Value) Matcher {
	alts := make([]value.Value, len(vs))
	copy(alts, vs)

	return Matcher{kind: kindAnyOf, alts: alts}
}

// AnyOfStrings is AnyOf over string values.
func AnyOfStrings(ss ...string) Matcher { return AnyOf(value.Strings(ss...)...) }

// Match reports whether v satisfies m.
// Complexity: O(size of the matcher tree).
func (m Matcher) Match(v value.Value) bool {
	switch m.kind {
	case kindEqual:
		return m.val.Equal(v)
	case kindPartial:
		return partial(m.val, v)
	case kindAnyOf:
		for _, a := range m.alts {
			if a.Equal(v) {
				return true
			}
		}

		return false
	default:
		return false
	}
}

// MatchEntry reports whether m matches raw, or entry when entry is valid.
func (m Matcher) MatchEntry(raw, entry value.Value) bool {
	return m.Match(raw) || (entry.IsValid() && m.Match(entry))
}

// Fixed returns the single value m pins, if it pins exactly one: an
// equality matcher or a singleton list.
func (m Matcher) Fixed() (value.Value, bool) {
	switch m.kind {
	case kindEqual:
		return m.val, true
	case kindAnyOf:
		if len(m.alts) == 1 {
			return m.alts[0], true
		}
	}

	return value.Value{}, false
}

// String renders m for logs and error messages.
func (m Matcher) String() string {
	switch m.kind {
	case kindEqual:
		return m.val.String()
	case kindPartial:
		return "like " + m.val.String()
	case kindAnyOf:
		parts := make([]string, len(m.alts))
		for i, a := range m.alts {
			parts[i] = a.String()
		}

		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "<none>"
	}
}

// partial matches want against got field by field; non-object wants
// fall back to equality.
func partial(want, got value.Value) bool {
	if !want.IsObject() {
		return want.Equal(got)
	}
	if !got.IsObject() {
		return false
	}
	for _, name := range want.FieldNames() {
		wf, _ := want.Field(name)
		gf, ok := got.Field(name)
		if !ok || !partial(wf, gf) {
			return false
		}
	}

	return true
}

// Lookup is the read side of a row as seen by a Constraint.
type Lookup interface {
	// Get returns the row's value at the named axis.
	Get(axis string) (value.Value, bool)
}

// Entries is implemented by rows whose values may come from structured
// declarations.
type Entries interface {
	// Entry returns the structured entry behind the row's value at the
	// named axis, if it was declared as one.
	Entry(axis string) (value.Value, bool)
}

// Constraint is a conjunction of per-axis matchers.
type Constraint map[string]Matcher

// Matches reports whether r satisfies every matcher of c.
// Complexity: O(Σ matcher sizes).
func (c Constraint) Matches(r Lookup) bool {
	entries, _ := r.(Entries)
	for name, m := range c {
		v, ok := r.Get(name)
		if !ok {
			return false
		}
		if m.Match(v) {
			continue
		}
		if entries == nil {
			return false
		}
		if e, ok := entries.Entry(name); !ok || !m.Match(e) {
			return false
		}
	}

	return true
}

// Axes returns the constrained axis names in ascending order.
func (c Constraint) Axes() []string {
	names := make([]string, 0, len(c))
	for k := range c {
		names = append(names, k)
	}
	sort.Strings(names)

	return names
}

// Clone returns a shallow copy; Matchers are values.
func (c Constraint) Clone() Constraint {
	cp := make(Constraint, len(c))
	for k, m := range c {
		cp[k] = m
	}

	return cp
}

// String renders c as "{axis: matcher, ...}" with sorted keys.
func (c Constraint) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, name := range c.Axes() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(c[name].String())
	}
	b.WriteString("}")

	return b.String()
}

// Matches reports whether r satisfies c. It is the free-function form of
// Constraint.Matches.
func Matches(r Lookup, c Constraint) bool {
	return c.Matches(r)
}

// MatchesAny reports whether r satisfies at least one of cs.
func MatchesAny(r Lookup, cs []Constraint) bool {
	for _, c := range cs {
		if c.Matches(r) {
			return true
		}
	}

	return false
}
