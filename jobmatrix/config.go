// SPDX-License-Identifier: MIT
// Package: cimatrix/jobmatrix
//
// config.go — internal configuration and deterministic defaults.
//
// Deterministic defaults (no surprises):
//   • src            = math/rand seeded with DefaultSeed
//   • separator      = DefaultSeparator (", ")
//   • attemptFactor  = DefaultAttemptFactor
//   • minAttempts    = DefaultMinAttempts
//   • pinSearchLimit = DefaultPinSearchLimit
//   • logger         = slog.Default()
//   • strict         = false

package jobmatrix

import (
	"log/slog"
	"math"
	"math/rand"
)

// builderConfig aggregates all knobs of a Builder.
type builderConfig struct {
	// Uniform source for sampling.
	src Source
	// Joins title fragments.
	separator string
	// Sampling budget: max(target*attemptFactor, minAttempts).
	attemptFactor int
	minAttempts   int
	// Rows composed per pin before giving up.
	pinSearchLimit int
	logger         *slog.Logger
	strict         bool
}

// newBuilderConfig applies opts in order over the defaults.
// Complexity: O(len(opts)).
func newBuilderConfig(opts ...Option) builderConfig {
	cfg := builderConfig{
		separator:      DefaultSeparator,
		attemptFactor:  DefaultAttemptFactor,
		minAttempts:    DefaultMinAttempts,
		pinSearchLimit: DefaultPinSearchLimit,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.src == nil {
		cfg.src = rand.New(rand.NewSource(DefaultSeed))
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return cfg
}

// attemptBudget returns the sampling ceiling for a target row count,
// saturating at math.MaxInt.
func (c builderConfig) attemptBudget(target int) int {
	budget := math.MaxInt
	if target <= math.MaxInt/c.attemptFactor {
		budget = target * c.attemptFactor
	}
	if budget < c.minAttempts {
		budget = c.minAttempts
	}

	return budget
}
