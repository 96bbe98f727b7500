// SPDX-License-Identifier: MIT
// Package: cimatrix/jobmatrix
//
// sampler.go — weighted random fill up to the target row count.
//
// Contract:
//   • One draw per axis per attempt, in registration order, independent
//     across axes and proportional to value weight (see drawIndex).
//   • A candidate is rejected when it matches an exclusion or duplicates an
//     accepted row (full value tuple, not name). Rejections cost attempts.
//   • Stops at the target or when the attempt budget is spent; the latter
//     is a normal outcome, not an error.
//
// Determinism:
//   • Draw order is fixed, so a fixed Source yields a fixed row sequence.

package jobmatrix

import (
	"log/slog"

	"github.com/katalvlaran/cimatrix/constraint"
)

// sampler fills a rowSet by weighted draws.
type sampler struct {
	comp       *composer
	exclusions []constraint.Constraint
	src        Source
	budget     int
	logger     *slog.Logger
}

// fillStats reports how a fill ended.
type fillStats struct {
	attempts   int
	accepted   int
	excluded   int
	duplicates int
}

// fill samples into set until it holds target rows or the budget runs out.
// Complexity: O(budget · (len(axes)·n + Σ exclusion sizes)).
func (s *sampler) fill(set *rowSet, target int) fillStats {
	var st fillStats
	choice := make([]int, len(s.comp.axes))
	for set.len() < target && st.attempts < s.budget {
		st.attempts++
		for i, a := range s.comp.axes {
			choice[i] = drawIndex(s.src, a)
		}
		row := s.comp.compose(choice)
		if constraint.MatchesAny(row, s.exclusions) {
			st.excluded++
			continue
		}
		if !set.add(row) {
			st.duplicates++
			continue
		}
		st.accepted++
	}

	if set.len() < target {
		s.logger.Debug("jobmatrix: sampling budget exhausted",
			slog.Int("target", target),
			slog.Int("rows", set.len()),
			slog.Int("attempts", st.attempts),
			slog.Int("excluded", st.excluded),
			slog.Int("duplicates", st.duplicates))
	}

	return st
}
