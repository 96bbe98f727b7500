// Package jobmatrix generates bounded, representative CI job matrices from
// independent testing axes.
//
// A Builder accumulates configuration in a single-threaded phase:
//
//   - AddAxis registers a dimension (runtime version, OS, locale, ...).
//   - Exclude forbids every row matching a partial constraint.
//   - GenerateRow pins a constraint: at least one row satisfying it must appear.
//   - SetNamePattern orders the title fragments of row names.
//   - FailOnUnsatisfiableFilters turns unsatisfiable pins into build errors.
//
// GenerateRows then resolves pins first, deterministically (the heaviest
// value on every unconstrained axis, ties by declaration order), and fills
// the remaining capacity by weighted random sampling from an injected
// Source, rejecting excluded and duplicate rows. The builder is single-use.
//
// Guarantees:
//
//   - Soundness: no returned row matches any exclusion.
//   - Pin completeness: every satisfiable pin is represented.
//   - No fabrication: every value comes from its axis declaration.
//   - Termination: the sampler stops after a bounded number of attempts and
//     returns fewer rows than requested when the space is too constrained.
//   - Determinism: the same configuration and seed give the same rows in the
//     same order.
//
// Quick start:
//
//	b := jobmatrix.New(jobmatrix.WithSeed(7))
//	_, _ = b.AddAxis(axis.Spec{Name: "os", Values: axis.Plains(value.Strings("ubuntu", "windows")...)})
//	_ = b.Exclude(constraint.Constraint{"os": constraint.IsString("windows")})
//	rows, err := b.GenerateRows(5)
//
// Sorting by name, deriving extra job fields and emitting CI output are the
// caller's business; see packages natsort and emit.
package jobmatrix
