// Package config reads declarative matrix files (YAML) and applies them to
// a jobmatrix.Builder.
//
// # File layout
//
//	jobs: 5                 # target rows; MATRIX_JOBS overrides it
//	seed: 42                # optional sampling seed
//	strict: false           # fail on unsatisfiable include entries
//	separator: ", "         # joins name fragments
//	namePattern: [java_version, os]
//	omit: [hash]            # axes dropped from emitted jobs
//	axes:
//	  - name: java_version
//	    title: "Java {{.}}" # text/template over the raw value
//	    values: ["8", "11", "17"]
//	  - name: hash
//	    values:
//	      - {value: regular, title: "", weight: 42}
//	      - {value: same, title: same hashcode}
//	exclude:
//	  - {java_distribution: microsoft, java_version: "8"}
//	include:
//	  - {os: windows-latest}
//	derive:                 # extra job fields, text/template over the row
//	  testExtraJvmArgs: "-Duser.country={{.locale.country}}"
//
// A value mapping whose keys are a subset of {value, title, weight} and
// which contains "value" is a structured entry; any other mapping is an
// object value. In exclude/include entries a sequence means "any of", a
// mapping is a partial object match and a scalar is equality.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/cimatrix/jobmatrix"
)

// DefaultJobs is the target row count when neither the environment nor
// the file sets one.
const DefaultJobs = 5

// JobsEnv is the environment variable overriding the target row count.
const JobsEnv = "MATRIX_JOBS"

// ErrInvalidConfig indicates a malformed or invalid matrix file.
var ErrInvalidConfig = errors.New("config: invalid matrix file")

var validate = validator.New()

// File is the decoded form of a matrix file.
type File struct {
	Jobs        *int              `yaml:"jobs" validate:"omitempty,gte=0"`
	Seed        *int64            `yaml:"seed"`
	Strict      bool              `yaml:"strict"`
	Separator   *string           `yaml:"separator"`
	NamePattern []string          `yaml:"namePattern" validate:"omitempty,unique,dive,required"`
	Omit        []string          `yaml:"omit" validate:"omitempty,dive,required"`
	Axes        []AxisFile        `yaml:"axes" validate:"required,min=1,dive"`
	Exclude     []map[string]any  `yaml:"exclude" validate:"omitempty,dive,min=1"`
	Include     []map[string]any  `yaml:"include"`
	Derive      map[string]string `yaml:"derive" validate:"omitempty,dive,keys,required,endkeys,required"`
}

// AxisFile declares one axis.
type AxisFile struct {
	Name string `yaml:"name" validate:"required"`
	// Title is a text/template rendered with the raw value as dot.
	// nil means the value's own string form; "" hides the axis in names.
	Title  *string `yaml:"title"`
	Values []any   `yaml:"values" validate:"required,min=1"`
}

// Load reads and parses the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Parse decodes and validates a matrix document. Unknown keys are errors.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty document: %w", ErrInvalidConfig)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := validate.Struct(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &f, nil
}

// TargetJobs resolves the target row count: the JobsEnv variable (read
// through lookup, typically os.LookupEnv) wins over the file, which wins
// over DefaultJobs. An empty variable counts as unset.
func (f *File) TargetJobs(lookup func(string) (string, bool)) (int, error) {
	if lookup != nil {
		if raw, ok := lookup(JobsEnv); ok && raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return 0, fmt.Errorf("%s=%q: want a non-negative integer: %w", JobsEnv, raw, ErrInvalidConfig)
			}

			return n, nil
		}
	}
	if f.Jobs != nil {
		return *f.Jobs, nil
	}

	return DefaultJobs, nil
}

// Options returns the builder options the file implies.
func (f *File) Options() []jobmatrix.Option {
	opts := []jobmatrix.Option{jobmatrix.WithStrict(f.Strict)}
	if f.Seed != nil {
		opts = append(opts, jobmatrix.WithSeed(*f.Seed))
	}
	if f.Separator != nil {
		opts = append(opts, jobmatrix.WithSeparator(*f.Separator))
	}

	return opts
}

// Build compiles the file and returns a configured builder. Options in
// extra are applied after the file's own, so callers can override them.
func (f *File) Build(extra ...jobmatrix.Option) (*jobmatrix.Builder, error) {
	b, _, err := f.BuildMatrix(extra...)

	return b, err
}

// BuildMatrix is Build that also returns the compiled matrix, for callers
// that need its derive section.
func (f *File) BuildMatrix(extra ...jobmatrix.Option) (*jobmatrix.Builder, *Matrix, error) {
	m, err := f.Compile()
	if err != nil {
		return nil, nil, err
	}
	b := jobmatrix.New(append(f.Options(), extra...)...)
	if err := m.Apply(b); err != nil {
		return nil, nil, err
	}

	return b, m, nil
}
