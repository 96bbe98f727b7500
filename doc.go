// Package cimatrix generates bounded, randomized CI job matrices.
//
// A full test matrix (JDK × OS × timezone × locale × ...) is usually too
// large to run on every change. cimatrix samples a fixed number of jobs
// from the cartesian product of declared axes, never emits an excluded
// combination and guarantees that explicitly requested rows are present.
// Runs are reproducible for a given seed.
//
// Packages:
//
//	value/       tagged scalar/object values with canonical keys
//	axis/        named dimensions: values, titles and sampling weights
//	constraint/  matchers and constraints used by exclusions and pins
//	jobmatrix/   the Builder: pinned rows, weighted sampling, row names
//	natsort/     numeric-aware ordering of row names
//	config/      YAML matrix files
//	emit/        JSON, set-output and $GITHUB_OUTPUT writers
//	cmd/cimatrix  command line front end
//
// Quick start:
//
//	b := jobmatrix.New(jobmatrix.WithSeed(42))
//	b.AddAxis(axis.Spec{Name: "os", Values: axis.Plains(value.Strings("ubuntu-latest", "windows-latest")...)})
//	b.AddAxis(axis.Spec{Name: "java", Title: axis.PrefixTitle("Java "), Values: axis.Plains(value.Strings("8", "17")...)})
//	b.Exclude(constraint.Constraint{"os": constraint.IsString("windows-latest"), "java": constraint.IsString("8")})
//	b.GenerateRow(constraint.Constraint{"java": constraint.IsString("17")})
//	rows, err := b.GenerateRows(3)
//
// Complexity: sampling is O(attempts · axes); pin resolution is bounded by
// WithPinSearchLimit composed candidates per pin.
package cimatrix
