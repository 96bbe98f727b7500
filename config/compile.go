package config

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"text/template"

	"github.com/katalvlaran/cimatrix/axis"
	"github.com/katalvlaran/cimatrix/constraint"
	"github.com/katalvlaran/cimatrix/emit"
	"github.com/katalvlaran/cimatrix/jobmatrix"
	"github.com/katalvlaran/cimatrix/value"
)

// Matrix is a compiled matrix file, ready to apply to a builder.
type Matrix struct {
	Axes        []axis.Spec
	NamePattern []string
	Exclusions  []constraint.Constraint
	Pins        []constraint.Constraint
	// Derive holds the computed job fields, sorted by field name.
	Derive      []Derivation
}

// Derivation is one compiled entry of the derive section.
type Derivation struct {
	Field string
	tmpl  *template.Template
}

// Compile converts the decoded document into engine types. Title
// templates are rendered here, once per value.
func (f *File) Compile() (*Matrix, error) {
	m := &Matrix{NamePattern: f.NamePattern}
	for i, af := range f.Axes {
		spec, err := compileAxis(af)
		if err != nil {
			return nil, fmt.Errorf("axes[%d] %q: %w", i, af.Name, err)
		}
		m.Axes = append(m.Axes, spec)
	}
	for i, doc := range f.Exclude {
		c, err := constraint.FromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("exclude[%d]: %v: %w", i, err, ErrInvalidConfig)
		}
		m.Exclusions = append(m.Exclusions, c)
	}
	for i, doc := range f.Include {
		c, err := constraint.FromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("include[%d]: %v: %w", i, err, ErrInvalidConfig)
		}
		m.Pins = append(m.Pins, c)
	}
	fields := make([]string, 0, len(f.Derive))
	for k := range f.Derive {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	for _, k := range fields {
		if k == "" {
			return nil, fmt.Errorf("derive: empty field name: %w", ErrInvalidConfig)
		}
		t, err := parseTemplate(k, f.Derive[k])
		if err != nil {
			return nil, fmt.Errorf("derive %q: %w", k, err)
		}
		m.Derive = append(m.Derive, Derivation{Field: k, tmpl: t})
	}

	return m, nil
}

// Deriver renders every derive template against each row's fields and
// returns an emit.Deriver serving the results. It returns nil when the
// file derives nothing.
// Complexity: O(len(rows) · len(m.Derive)) template executions.
func (m *Matrix) Deriver(rows []jobmatrix.Row) (emit.Deriver, error) {
	if len(m.Derive) == 0 {
		return nil, nil
	}
	derived := make(map[string]map[string]any, len(rows))
	for _, r := range rows {
		data := r.Fields()
		out := make(map[string]any, len(m.Derive))
		for _, d := range m.Derive {
			s, err := render(d.tmpl, data)
			if err != nil {
				return nil, fmt.Errorf("derive %q: row %q: %v: %w", d.Field, r.Name(), err, ErrInvalidConfig)
			}
			out[d.Field] = s
		}
		derived[r.Key()] = out
	}

	return func(r jobmatrix.Row) map[string]any { return derived[r.Key()] }, nil
}

// Apply registers axes, name pattern, exclusions and pins in file order.
// Builder errors are returned unchanged so errors.Is works on their
// sentinels.
func (m *Matrix) Apply(b *jobmatrix.Builder) error {
	for _, spec := range m.Axes {
		if _, err := b.AddAxis(spec); err != nil {
			return err
		}
	}
	if len(m.NamePattern) > 0 {
		if err := b.SetNamePattern(m.NamePattern...); err != nil {
			return err
		}
	}
	for _, c := range m.Exclusions {
		if err := b.Exclude(c); err != nil {
			return err
		}
	}
	for _, c := range m.Pins {
		if err := b.GenerateRow(c); err != nil {
			return err
		}
	}

	return nil
}

func compileAxis(af AxisFile) (axis.Spec, error) {
	spec := axis.Spec{Name: af.Name}
	if af.Title == nil {
		return compileValues(spec, af.Values, nil)
	}
	if *af.Title == "" {
		spec.Title = axis.NoTitle
		return compileValues(spec, af.Values, nil)
	}
	tmpl, err := parseTemplate(af.Name, *af.Title)
	if err != nil {
		return axis.Spec{}, fmt.Errorf("title: %w", err)
	}
	// Rendered titles stay on the axis TitleFn: a templated value is still
	// a bare payload, not a structured entry.
	rendered := make(map[string]string, len(af.Values))
	spec.Title = func(v value.Value) string { return rendered[v.Key()] }

	return compileValues(spec, af.Values, func(i int, d axis.Decl) error {
		if _, explicit := d.Title(); explicit {
			return nil
		}
		title, err := render(tmpl, d.Value.Interface())
		if err != nil {
			return fmt.Errorf("values[%d]: title: %v: %w", i, err, ErrInvalidConfig)
		}
		rendered[d.Value.Key()] = title

		return nil
	})
}

func compileValues(spec axis.Spec, raws []any, visit func(int, axis.Decl) error) (axis.Spec, error) {
	for i, raw := range raws {
		d, err := compileValue(raw)
		if err != nil {
			return axis.Spec{}, fmt.Errorf("values[%d]: %w", i, err)
		}
		if visit != nil {
			if err := visit(i, d); err != nil {
				return axis.Spec{}, err
			}
		}
		spec.Values = append(spec.Values, d)
	}

	return spec, nil
}

// structuredKeys are the keys of a structured value entry.
var structuredKeys = map[string]bool{"value": true, "title": true, "weight": true}

// compileValue reads one entry of an axis "values" list.
func compileValue(raw any) (axis.Decl, error) {
	if m, ok := raw.(map[string]any); ok && isStructured(m) {
		v, err := value.FromAny(m["value"])
		if err != nil {
			return axis.Decl{}, fmt.Errorf("value: %v: %w", err, ErrInvalidConfig)
		}
		d := axis.Plain(v)
		if t, ok := m["title"]; ok {
			s, isStr := t.(string)
			if !isStr {
				return axis.Decl{}, fmt.Errorf("title %v (%T) is not a string: %w", t, t, ErrInvalidConfig)
			}
			d = d.WithTitle(s)
		}
		if w, ok := m["weight"]; ok {
			f, err := toFloat(w)
			if err != nil {
				return axis.Decl{}, err
			}
			d = d.WithWeight(f)
		}

		return d, nil
	}
	v, err := value.FromAny(raw)
	if err != nil {
		return axis.Decl{}, fmt.Errorf("%v: %w", err, ErrInvalidConfig)
	}

	return axis.Plain(v), nil
}

func isStructured(m map[string]any) bool {
	if _, ok := m["value"]; !ok {
		return false
	}
	for k := range m {
		if !structuredKeys[k] {
			return false
		}
	}

	return true
}

func toFloat(w any) (float64, error) {
	v, err := value.FromAny(w)
	if err != nil {
		return 0, fmt.Errorf("weight %v: %w", w, ErrInvalidConfig)
	}
	f, ok := v.Num()
	if !ok || math.IsNaN(f) {
		return 0, fmt.Errorf("weight %v (%T) is not a number: %w", w, w, ErrInvalidConfig)
	}

	return f, nil
}

func parseTemplate(name, text string) (*template.Template, error) {
	t, err := template.New(name).Funcs(titleFuncs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidConfig)
	}

	return t, nil
}

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}

	return b.String(), nil
}

// titleFuncs are available in title and derive templates. The subject comes last so
// they work in pipelines: {{. | trimSuffix "-latest"}}.
var titleFuncs = template.FuncMap{
	"replace": func(old, repl string, s any) string {
		return strings.ReplaceAll(fmt.Sprint(s), old, repl)
	},
	"trimSuffix": func(suffix string, s any) string {
		return strings.TrimSuffix(fmt.Sprint(s), suffix)
	},
	"trimPrefix": func(prefix string, s any) string {
		return strings.TrimPrefix(fmt.Sprint(s), prefix)
	},
	"upper": func(s any) string { return strings.ToUpper(fmt.Sprint(s)) },
	"lower": func(s any) string { return strings.ToLower(fmt.Sprint(s)) },
}
