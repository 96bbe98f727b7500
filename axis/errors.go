// SPDX-License-Identifier: MIT
// Package: cimatrix/axis
//
// errors.go — sentinel errors for axis normalisation.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Context (axis name, value index) is attached with %w at the call site.
//   • Every sentinel here is a configuration error: it surfaces at
//     registration time and is always fatal for the build.

package axis

import "errors"

// ErrEmptyName indicates an axis declared without a name.
var ErrEmptyName = errors.New("axis: empty name")

// ErrNoValues indicates an axis declared without any value; such an axis
// would make every row impossible.
var ErrNoValues = errors.New("axis: no values")

// ErrNegativeWeight indicates a weight below zero, NaN or infinite.
var ErrNegativeWeight = errors.New("axis: invalid weight")

// ErrInvalidValue indicates a declaration whose payload is the zero Value.
var ErrInvalidValue = errors.New("axis: invalid value")

// ErrDuplicateValue indicates two declarations with deep-equal payloads on
// one axis.
var ErrDuplicateValue = errors.New("axis: duplicate value")

// IsConfigurationError reports whether err is one of the sentinels above.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrNoValues) ||
		errors.Is(err, ErrNegativeWeight) ||
		errors.Is(err, ErrInvalidValue) ||
		errors.Is(err, ErrDuplicateValue)
}
