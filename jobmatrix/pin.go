// SPDX-License-Identifier: MIT
// Package: cimatrix/jobmatrix
//
// pin.go — deterministic resolution of pinned requests.
//
// Model:
//   • Per axis, the candidates are the values the request's matcher for that
//     axis accepts (every value when the axis is unconstrained), ordered by
//     weight descending with ties in declaration order.
//   • The first combination tried is therefore: the fixed value on
//     constrained axes, the heaviest value elsewhere.
//   • If that row is excluded, the remaining combinations are tried in
//     lexicographic candidate order (first axis slowest), at most
//     pinSearchLimit rows.
//
// Determinism:
//   • No randomness is consumed; equal configurations resolve equal rows.

package jobmatrix

import (
	"fmt"

	"github.com/katalvlaran/cimatrix/axis"
	"github.com/katalvlaran/cimatrix/constraint"
)

// pinResolver turns pinned requests into concrete rows.
type pinResolver struct {
	comp       *composer
	exclusions []constraint.Constraint
	limit      int
}

// resolve returns the first admissible row satisfying pin, or a *PinError.
// Complexity: O(limit · len(axes)) worst case; O(len(axes)·n log n) when
// the greedy choice is admissible.
func (p *pinResolver) resolve(index int, pin constraint.Constraint) (Row, error) {
	for _, name := range pin.Axes() {
		if _, ok := p.comp.layout.index[name]; !ok {
			return Row{}, &PinError{Index: index, Constraint: pin,
				Reason: fmt.Sprintf("axis %q is not registered", name)}
		}
	}

	cands := make([][]int, len(p.comp.axes))
	for i, a := range p.comp.axes {
		cands[i] = candidates(a, pin)
		if len(cands[i]) == 0 {
			return Row{}, &PinError{Index: index, Constraint: pin,
				Reason: fmt.Sprintf("no value of axis %q matches %s", a.Name(), pin[a.Name()])}
		}
	}

	var (
		choice    = make([]int, len(cands))
		composed  int
		truncated bool
		found     Row
		ok        bool
	)
	var visit func(depth int) bool
	visit = func(depth int) bool {
		if depth == len(cands) {
			composed++
			row := p.comp.compose(choice)
			if constraint.MatchesAny(row, p.exclusions) {
				return false
			}
			found, ok = row, true

			return true
		}
		for _, j := range cands[depth] {
			if composed >= p.limit {
				truncated = true
				return false
			}
			choice[depth] = j
			if visit(depth + 1) {
				return true
			}
		}

		return false
	}
	visit(0)

	if !ok {
		reason := "every candidate row is excluded"
		if truncated {
			reason = fmt.Sprintf("no admissible row within %d candidates", p.limit)
		}

		return Row{}, &PinError{Index: index, Constraint: pin, Reason: reason}
	}

	return found, nil
}

// candidates lists the value indices of a admissible under pin, in
// preference order.
func candidates(a *axis.Axis, pin constraint.Constraint) []int {
	m, constrained := pin[a.Name()]
	if !constrained {
		return a.ByPreference()
	}
	// A fixed scalar can only equal a raw payload, never an entry object.
	if v, fixed := m.Fixed(); fixed && !v.IsObject() {
		if j := a.Index(v); j >= 0 {
			return []int{j}
		}

		return nil
	}
	order := a.ByPreference()
	out := order[:0]
	for _, j := range order {
		if v := a.At(j); m.MatchEntry(v.Raw, v.Entry) {
			out = append(out, j)
		}
	}

	return out
}
