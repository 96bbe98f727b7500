// Package emit turns generated rows into CI job descriptions and writes
// them in the formats CI systems consume.
//
// Formats:
//
//	WriteJSON           {"include":[{...},{...}]}
//	WriteSetOutput      ::set-output name=matrix::{"include":[...]}
//	AppendGitHubOutput  matrix={"include":[...]}   appended to $GITHUB_OUTPUT
//	WriteText           one job name per line
//
// Object keys are emitted in sorted order so outputs are diffable.
package emit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/katalvlaran/cimatrix/jobmatrix"
)

// ErrInvalidOutputName indicates an output name that GitHub Actions would
// not accept (empty, or containing whitespace or '=').
var ErrInvalidOutputName = errors.New("emit: invalid output name")

// DefaultOutputName is the conventional name of the matrix output.
const DefaultOutputName = "matrix"

// Deriver computes extra job fields from a row, e.g. JVM arguments
// synthesised from several axis values. Returned keys override axis keys.
type Deriver func(r jobmatrix.Row) map[string]any

// Job is one emitted CI job: the row's fields after derivation.
type Job struct {
	// Name is the row name.
	Name string
	// Fields holds every emitted key, including "name".
	Fields map[string]any
}

// MarshalJSON encodes the job's fields.
func (j Job) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Fields)
}

// Jobs converts rows into jobs: derive runs first (it may read any axis),
// then the omitted axes are removed. A nil derive adds nothing.
// Complexity: O(len(rows) · fields).
func Jobs(rows []jobmatrix.Row, derive Deriver, omit ...string) []Job {
	jobs := make([]Job, len(rows))
	for i, r := range rows {
		fields := r.Fields()
		if derive != nil {
			for k, v := range derive(r) {
				fields[k] = v
			}
		}
		for _, name := range omit {
			if name == jobmatrix.NameField {
				continue
			}
			delete(fields, name)
		}
		jobs[i] = Job{Name: r.Name(), Fields: fields}
	}

	return jobs
}

// Document is the {"include": [...]} envelope of a CI matrix.
type Document struct {
	Include []Job `json:"include"`
}

// Marshal encodes jobs as a compact matrix document.
func Marshal(jobs []Job) ([]byte, error) {
	if jobs == nil {
		jobs = []Job{}
	}
	data, err := json.Marshal(Document{Include: jobs})
	if err != nil {
		return nil, fmt.Errorf("emit: marshal matrix: %w", err)
	}

	return data, nil
}

// WriteJSON writes the matrix document, indented when indent is true,
// followed by a newline.
func WriteJSON(w io.Writer, jobs []Job, indent bool) error {
	var (
		data []byte
		err  error
	)
	if indent {
		if jobs == nil {
			jobs = []Job{}
		}
		data, err = json.MarshalIndent(Document{Include: jobs}, "", "  ")
	} else {
		data, err = Marshal(jobs)
	}
	if err != nil {
		return fmt.Errorf("emit: marshal matrix: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)

	return err
}

// WriteSetOutput writes the legacy workflow command
// "::set-output name=<name>::<json>".
func WriteSetOutput(w io.Writer, name string, jobs []Job) error {
	if err := checkOutputName(name); err != nil {
		return err
	}
	data, err := Marshal(jobs)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "::set-output name=%s::%s\n", name, data)

	return err
}

// AppendGitHubOutput appends "<name>=<json>" to the file at path, which is
// normally the value of $GITHUB_OUTPUT.
func AppendGitHubOutput(path, name string, jobs []Job) error {
	if err := checkOutputName(name); err != nil {
		return err
	}
	data, err := Marshal(jobs)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("emit: open %s: %w", path, err)
	}
	if _, err = fmt.Fprintf(f, "%s=%s\n", name, data); err != nil {
		_ = f.Close()
		return fmt.Errorf("emit: write %s: %w", path, err)
	}

	return f.Close()
}

// WriteText writes one job name per line.
func WriteText(w io.Writer, jobs []Job) error {
	var b strings.Builder
	for _, j := range jobs {
		b.WriteString(j.Name)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())

	return err
}

func checkOutputName(name string) error {
	if name == "" || strings.ContainsAny(name, " \t\r\n=") {
		return fmt.Errorf("%q: %w", name, ErrInvalidOutputName)
	}

	return nil
}
