// SPDX-License-Identifier: MIT
// Package: cimatrix/jobmatrix
//
// builder.go — the matrix builder: registration phase and the single build.
//
// Lifecycle:
//   • Configuring: AddAxis / Exclude / GenerateRow / SetNamePattern /
//     FailOnUnsatisfiableFilters accumulate state (append-only).
//   • Built: entered by the first GenerateRows call, successful or not.
//     Every later mutating call returns ErrBuilt.
//
// Build order:
//   1) pins, in request order, deduplicated by value tuple;
//   2) weighted sampling up to the requested count (pins count toward it);
//   3) ErrEmptyMatrix if nothing survived.
//
// Concurrency: a Builder is not safe for concurrent use.

package jobmatrix

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/cimatrix/axis"
	"github.com/katalvlaran/cimatrix/constraint"
)

type builderState uint8

const (
	stateConfiguring builderState = iota
	stateBuilt
)

// Builder accumulates axes, exclusions and pins, then generates rows once.
type Builder struct {
	cfg        builderConfig
	state      builderState
	axes       []*axis.Axis
	byName     map[string]int
	exclusions []constraint.Constraint
	pins       []constraint.Constraint
	pattern    []string
}

// New returns a Builder in the configuring state.
func New(opts ...Option) *Builder {
	return &Builder{
		cfg:    newBuilderConfig(opts...),
		byName: make(map[string]int),
	}
}

// AddAxis normalises spec and registers the axis.
// Errors: ErrBuilt, ErrDuplicateAxis, or any axis.New sentinel.
func (b *Builder) AddAxis(spec axis.Spec) (*axis.Axis, error) {
	if err := b.configuring(MethodAddAxis); err != nil {
		return nil, err
	}
	if _, dup := b.byName[spec.Name]; dup {
		return nil, fmt.Errorf("%s(%s): %w", MethodAddAxis, spec.Name, ErrDuplicateAxis)
	}
	a, err := axis.New(spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MethodAddAxis, err)
	}
	b.byName[a.Name()] = len(b.axes)
	b.axes = append(b.axes, a)

	return a, nil
}

// Axis returns the registered axis called name.
func (b *Builder) Axis(name string) (*axis.Axis, bool) {
	i, ok := b.byName[name]
	if !ok {
		return nil, false
	}

	return b.axes[i], true
}

// Axes returns the registered axes in registration order.
func (b *Builder) Axes() []*axis.Axis {
	out := make([]*axis.Axis, len(b.axes))
	copy(out, b.axes)

	return out
}

// Exclude forbids every row matching c. Satisfiability is not checked here.
func (b *Builder) Exclude(c constraint.Constraint) error {
	if err := b.configuring(MethodExclude); err != nil {
		return err
	}
	b.exclusions = append(b.exclusions, c.Clone())

	return nil
}

// GenerateRow requests that at least one row satisfying c appears in the
// build. Requests are resolved by GenerateRows in call order.
func (b *Builder) GenerateRow(c constraint.Constraint) error {
	if err := b.configuring(MethodGenerateRow); err != nil {
		return err
	}
	b.pins = append(b.pins, c.Clone())

	return nil
}

// SetNamePattern sets which axes contribute to row names, and in which
// order. The default is registration order. Axes left out of the pattern
// do not appear in names.
// Errors: ErrBuilt, ErrUnknownAxis, ErrDuplicateAxis.
func (b *Builder) SetNamePattern(names ...string) error {
	if err := b.configuring(MethodSetNamePattern); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := b.byName[n]; !ok {
			return fmt.Errorf("%s: %q: %w", MethodSetNamePattern, n, ErrUnknownAxis)
		}
		if _, dup := seen[n]; dup {
			return fmt.Errorf("%s: %q repeated: %w", MethodSetNamePattern, n, ErrDuplicateAxis)
		}
		seen[n] = struct{}{}
	}
	b.pattern = append([]string(nil), names...)

	return nil
}

// FailOnUnsatisfiableFilters toggles strict mode: when on, an
// unsatisfiable pin aborts GenerateRows; when off it is logged and skipped.
// Errors: ErrBuilt.
func (b *Builder) FailOnUnsatisfiableFilters(strict bool) error {
	if err := b.configuring(MethodFailOnUnsatisfiableFilters); err != nil {
		return err
	}
	b.cfg.strict = strict

	return nil
}

// Built reports whether GenerateRows has been called.
func (b *Builder) Built() bool { return b.state == stateBuilt }

// GenerateRows builds the matrix: resolved pins first, then sampled rows
// until count rows exist or the sampling budget is spent. Pins are kept
// even when they alone exceed count. The result is unsorted.
//
// Errors: ErrBuilt, ErrInvalidCount, ErrNoAxes, *PinError (strict mode),
// ErrEmptyMatrix.
func (b *Builder) GenerateRows(count int) ([]Row, error) {
	if err := b.configuring(MethodGenerateRows); err != nil {
		return nil, err
	}
	b.state = stateBuilt

	if count < 0 {
		return nil, fmt.Errorf("%s: count=%d: %w", MethodGenerateRows, count, ErrInvalidCount)
	}
	if len(b.axes) == 0 {
		return nil, fmt.Errorf("%s: %w", MethodGenerateRows, ErrNoAxes)
	}

	comp := newComposer(b.axes, b.patternIndices(), b.cfg.separator)
	set := newRowSet()

	resolver := &pinResolver{comp: comp, exclusions: b.exclusions, limit: b.cfg.pinSearchLimit}
	for i, pin := range b.pins {
		row, err := resolver.resolve(i, pin)
		if err != nil {
			if b.cfg.strict {
				return nil, err
			}
			b.cfg.logger.Warn("jobmatrix: skipping unsatisfiable pinned row",
				slog.Int("pin", i),
				slog.String("constraint", pin.String()),
				slog.String("error", err.Error()))
			continue
		}
		if !set.add(row) {
			b.cfg.logger.Debug("jobmatrix: pinned row already present",
				slog.Int("pin", i), slog.String("row", row.Name()))
		}
	}

	smp := &sampler{
		comp:       comp,
		exclusions: b.exclusions,
		src:        b.cfg.src,
		budget:     b.cfg.attemptBudget(count),
		logger:     b.cfg.logger,
	}
	smp.fill(set, count)

	if set.len() == 0 {
		return nil, fmt.Errorf("%s: %d axes, %d exclusions, %d pins: %w",
			MethodGenerateRows, len(b.axes), len(b.exclusions), len(b.pins), ErrEmptyMatrix)
	}

	return set.rows, nil
}

// configuring guards registration calls.
func (b *Builder) configuring(method string) error {
	if b.state != stateConfiguring {
		return fmt.Errorf("%s: %w", method, ErrBuilt)
	}

	return nil
}

// patternIndices resolves the name pattern to axis indices.
func (b *Builder) patternIndices() []int {
	if b.pattern == nil {
		idx := make([]int, len(b.axes))
		for i := range idx {
			idx[i] = i
		}

		return idx
	}
	idx := make([]int, len(b.pattern))
	for i, n := range b.pattern {
		idx[i] = b.byName[n]
	}

	return idx
}
