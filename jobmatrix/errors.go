// SPDX-License-Identifier: MIT
// Package: cimatrix/jobmatrix
//
// errors.go — sentinel errors for the matrix builder.
//
// Error policy:
//   • Only sentinel variables (plus PinError, which wraps one) are exposed.
//   • Callers MUST use errors.Is / errors.As; messages are not a contract.
//   • Context is attached with %w and a method prefix (MethodAddAxis, ...).
//   • Runtime operations never panic; option constructors do (see options.go).
//
// Classes:
//   • Configuration: raised at registration time, always fatal:
//       ErrDuplicateAxis, ErrUnknownAxis, ErrInvalidCount, ErrNoAxes,
//       ErrBuilt, and the axis package sentinels.
//   • Unsatisfiable pin: ErrUnsatisfiablePin inside *PinError; fatal only
//     in strict mode, otherwise logged and skipped.
//   • Empty matrix: ErrEmptyMatrix, always fatal.
//   • Sampling exhaustion is not an error: fewer rows are returned.

package jobmatrix

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/cimatrix/axis"
	"github.com/katalvlaran/cimatrix/constraint"
)

// ErrDuplicateAxis indicates an axis name registered twice, or repeated in
// a name pattern.
var ErrDuplicateAxis = errors.New("jobmatrix: duplicate axis")

// ErrUnknownAxis indicates a name pattern referencing an unregistered axis.
var ErrUnknownAxis = errors.New("jobmatrix: unknown axis")

// ErrInvalidCount indicates a negative target row count.
var ErrInvalidCount = errors.New("jobmatrix: invalid row count")

// ErrNoAxes indicates GenerateRows on a builder without axes.
var ErrNoAxes = errors.New("jobmatrix: no axes registered")

// ErrBuilt indicates a call on a builder that already ran GenerateRows.
var ErrBuilt = errors.New("jobmatrix: builder already built")

// ErrUnsatisfiablePin indicates that no row satisfies a pinned request
// once exclusions apply.
var ErrUnsatisfiablePin = errors.New("jobmatrix: unsatisfiable pinned row")

// ErrEmptyMatrix indicates that generation produced zero rows.
var ErrEmptyMatrix = errors.New("jobmatrix: matrix is empty")

// PinError describes an unsatisfiable pinned request.
type PinError struct {
	// Index is the position of the request in GenerateRow call order.
	Index int
	// Constraint is the request itself.
	Constraint constraint.Constraint
	// Reason says which part failed.
	Reason string
}

// Error implements error.
func (e *PinError) Error() string {
	return fmt.Sprintf("%s: pin #%d %s: %s", MethodGenerateRows, e.Index, e.Constraint, e.Reason)
}

// Unwrap makes errors.Is(err, ErrUnsatisfiablePin) hold.
func (e *PinError) Unwrap() error { return ErrUnsatisfiablePin }

// IsConfigurationError reports whether err belongs to the configuration class.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrDuplicateAxis) ||
		errors.Is(err, ErrUnknownAxis) ||
		errors.Is(err, ErrInvalidCount) ||
		errors.Is(err, ErrNoAxes) ||
		errors.Is(err, ErrBuilt) ||
		axis.IsConfigurationError(err)
}
