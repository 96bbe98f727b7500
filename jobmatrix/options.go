// SPDX-License-Identifier: MIT
// Package: cimatrix/jobmatrix
//
// options.go — functional options for the matrix builder.
//
// Contract (strict):
//   • Options are functional (type Option func(*builderConfig)).
//   • Option constructors VALIDATE and PANIC on meaningless inputs;
//     builder operations themselves never panic.
//   • Determinism is explicit: the random source is set via WithSeed,
//     WithRand or WithSource, and defaults to a DefaultSeed source.
//   • Later options override earlier ones.

package jobmatrix

import (
	"log/slog"
	"math/rand"
)

// Option customizes a Builder at construction time.
// Complexity: applying N options costs O(N) time, O(1) space.
type Option func(*builderConfig)

// WithSeed uses a math/rand source seeded with seed.
// Use this in tests and CI jobs that must be reproducible.
func WithSeed(seed int64) Option {
	return func(c *builderConfig) {
		c.src = rand.New(rand.NewSource(seed))
	}
}

// WithRand uses r as the random source. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("jobmatrix: WithRand(nil)")
	}
	return func(c *builderConfig) {
		c.src = r
	}
}

// WithSource uses an arbitrary uniform source, e.g. a scripted fake in
// tests. Panics on nil.
func WithSource(src Source) Option {
	if src == nil {
		panic("jobmatrix: WithSource(nil)")
	}
	return func(c *builderConfig) {
		c.src = src
	}
}

// WithAttemptFactor sets the sampling budget to factor draws per requested
// row. Panics if factor < 1.
func WithAttemptFactor(factor int) Option {
	if factor < 1 {
		panic("jobmatrix: WithAttemptFactor(factor<1)")
	}
	return func(c *builderConfig) {
		c.attemptFactor = factor
	}
}

// WithMinAttempts sets the floor of the sampling budget. Panics if n < 0.
func WithMinAttempts(n int) Option {
	if n < 0 {
		panic("jobmatrix: WithMinAttempts(n<0)")
	}
	return func(c *builderConfig) {
		c.minAttempts = n
	}
}

// WithPinSearchLimit bounds the rows composed while looking for an
// admissible row for one pinned request. Panics if n < 1.
func WithPinSearchLimit(n int) Option {
	if n < 1 {
		panic("jobmatrix: WithPinSearchLimit(n<1)")
	}
	return func(c *builderConfig) {
		c.pinSearchLimit = n
	}
}

// WithSeparator sets the string joining title fragments in row names.
// Any string is accepted, including "".
func WithSeparator(sep string) Option {
	return func(c *builderConfig) {
		c.separator = sep
	}
}

// WithLogger routes builder diagnostics to l. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("jobmatrix: WithLogger(nil)")
	}
	return func(c *builderConfig) {
		c.logger = l
	}
}

// WithStrict presets FailOnUnsatisfiableFilters.
func WithStrict(strict bool) Option {
	return func(c *builderConfig) {
		c.strict = strict
	}
}
