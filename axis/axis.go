// SPDX-License-Identifier: MIT
// Package: cimatrix/axis
//
// axis.go — axis declarations and the value normaliser.
//
// Contract:
//   • A declaration is either a bare payload (Plain) or a structured entry
//     carrying an explicit title and/or weight (Plain(v).WithTitle/WithWeight).
//   • Bare payloads take weight DefaultWeight and the axis TitleFn title.
//   • A structured entry also keeps its declaration as an object,
//     {value, title?, weight?} with only the keys it declared (Value.Entry).
//     Matchers see both forms: "same" and {value: same} select the same value.
//   • An explicit title overrides the axis TitleFn for that value only, and
//     an explicit empty title suppresses the value in row names.
//   • Weights are relative; no total is assumed. Zero is allowed (the value
//     is never sampled but can still be pinned), negative/NaN/Inf are not.
//   • New never panics; it returns sentinel errors wrapped with context.

package axis

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/cimatrix/value"
)

// DefaultWeight is the sampling weight of a value declared without one.
const DefaultWeight float64 = 1

// Decl is one raw axis-value declaration prior to normalisation.
type Decl struct {
	Value  value.Value
	title  *string
	weight *float64
}

// Plain declares a bare payload.
func Plain(v value.Value) Decl {
	return Decl{Value: v}
}

// Plains declares several bare payloads at once.
func Plains(vs ...value.Value) []Decl {
	out := make([]Decl, len(vs))
	for i, v := range vs {
		out[i] = Plain(v)
	}

	return out
}

// WithTitle returns a copy of d with an explicit title.
func (d Decl) WithTitle(title string) Decl {
	d.title = &title

	return d
}

// WithWeight returns a copy of d with an explicit weight.
// The weight is validated by New, not here.
func (d Decl) WithWeight(w float64) Decl {
	d.weight = &w

	return d
}

// Title returns the explicit title, if any.
func (d Decl) Title() (string, bool) {
	if d.title == nil {
		return "", false
	}

	return *d.title, true
}

// Weight returns the explicit weight, if any.
func (d Decl) Weight() (float64, bool) {
	if d.weight == nil {
		return 0, false
	}

	return *d.weight, true
}

// Spec is the registration request for an axis.
type Spec struct {
	// Name identifies the axis in rows, constraints and name patterns.
	Name string
	// Title renders bare values; nil means DefaultTitle.
	Title TitleFn
	// Values in declaration order; the order breaks weight ties.
	Values []Decl
}

// Value is a normalised axis value.
type Value struct {
	// Raw is the payload used for matching and output.
	Raw value.Value
	// Title is the name fragment; empty suppresses it.
	Title string
	// Weight is the relative sampling weight (≥ 0).
	Weight float64
	// Entry is the structured declaration {value, title?, weight?}; it is
	// the invalid zero Value for bare payloads.
	Entry value.Value
}

// Axis is a named testing dimension with normalised values.
// Axes are immutable once built.
type Axis struct {
	name   string
	values []Value
}

// New normalises spec into an Axis.
//
// Errors:
//   - ErrEmptyName       if spec.Name == "".
//   - ErrNoValues        if spec.Values is empty.
//   - ErrInvalidValue    if a declaration carries the zero Value.
//   - ErrNegativeWeight  if a weight is < 0, NaN or ±Inf.
//   - ErrDuplicateValue  if two payloads are deep-equal.
//
// Complexity: O(n) time and space for n values (duplicate check is keyed).
func New(spec Spec) (*Axis, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%s: %w", methodNew, ErrEmptyName)
	}
	if len(spec.Values) == 0 {
		return nil, fmt.Errorf("%s(%s): %w", methodNew, spec.Name, ErrNoValues)
	}
	titleFn := spec.Title
	if titleFn == nil {
		titleFn = DefaultTitle
	}

	seen := make(map[string]int, len(spec.Values))
	values := make([]Value, 0, len(spec.Values))
	for i, d := range spec.Values {
		nv, err := normalize(d, titleFn)
		if err != nil {
			return nil, fmt.Errorf("%s(%s): value #%d: %w", methodNew, spec.Name, i, err)
		}
		key := nv.Raw.Key()
		if j, dup := seen[key]; dup {
			return nil, fmt.Errorf("%s(%s): value #%d repeats #%d (%s): %w",
				methodNew, spec.Name, i, j, nv.Raw, ErrDuplicateValue)
		}
		seen[key] = i
		values = append(values, nv)
	}

	return &Axis{name: spec.Name, values: values}, nil
}

const methodNew = "axis.New"

// Keys of a structured entry.
const (
	entryValue  = "value"
	entryTitle  = "title"
	entryWeight = "weight"
)

// normalize turns one declaration into a Value.
func normalize(d Decl, titleFn TitleFn) (Value, error) {
	if !d.Value.IsValid() {
		return Value{}, ErrInvalidValue
	}
	var entry map[string]value.Value
	w := DefaultWeight
	if explicit, ok := d.Weight(); ok {
		if explicit < 0 || math.IsNaN(explicit) || math.IsInf(explicit, 0) {
			return Value{}, fmt.Errorf("weight %g: %w", explicit, ErrNegativeWeight)
		}
		w = explicit
		entry = map[string]value.Value{entryWeight: value.Number(w)}
	}
	title, ok := d.Title()
	if ok {
		if entry == nil {
			entry = make(map[string]value.Value, 2)
		}
		entry[entryTitle] = value.String(title)
	} else {
		title = titleFn(d.Value)
	}

	nv := Value{Raw: d.Value, Title: title, Weight: w}
	if entry != nil {
		entry[entryValue] = d.Value
		nv.Entry = value.Object(entry)
	}

	return nv, nil
}

// Name returns the axis name.
func (a *Axis) Name() string { return a.name }

// Len returns the number of values.
func (a *Axis) Len() int { return len(a.values) }

// At returns the i-th value in declaration order.
// Panics if i is out of range, like slice indexing.
func (a *Axis) At(i int) Value { return a.values[i] }

// Values returns a copy of the values in declaration order.
func (a *Axis) Values() []Value {
	out := make([]Value, len(a.values))
	copy(out, a.values)

	return out
}

// First returns the first declared value.
func (a *Axis) First() Value { return a.values[0] }

// Last returns the last declared value.
func (a *Axis) Last() Value { return a.values[len(a.values)-1] }

// Index returns the position of the value whose payload equals raw, or -1.
// Complexity: O(n).
func (a *Axis) Index(raw value.Value) int {
	for i, v := range a.values {
		if v.Raw.Equal(raw) {
			return i
		}
	}

	return -1
}

// TotalWeight returns the sum of all weights.
func (a *Axis) TotalWeight() float64 {
	var sum float64
	for _, v := range a.values {
		sum += v.Weight
	}

	return sum
}

// ByPreference returns the value indices ordered by weight descending,
// ties by declaration order. The first index is the heaviest value.
// Complexity: O(n log n).
func (a *Axis) ByPreference() []int {
	idx := make([]int, len(a.values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(x, y int) bool {
		return a.values[idx[x]].Weight > a.values[idx[y]].Weight
	})

	return idx
}
