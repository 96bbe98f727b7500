package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cimatrix/axis"
	"github.com/katalvlaran/cimatrix/config"
	"github.com/katalvlaran/cimatrix/jobmatrix"
)

func noEnv(string) (string, bool) { return "", false }

func env(kv map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := kv[k]
		return v, ok
	}
}

// TestLoadJava reads the reference file and builds its pinned rows.
func TestLoadJava(t *testing.T) {
	t.Parallel()

	f, err := config.Load("testdata/java.yaml")
	require.NoError(t, err)
	require.Len(t, f.Axes, 7)
	require.Equal(t, []string{"hash"}, f.Omit)

	jobs, err := f.TargetJobs(noEnv)
	require.NoError(t, err)
	require.Equal(t, 5, jobs)

	b, err := f.Build()
	require.NoError(t, err)

	hash, ok := b.Axis("hash")
	require.True(t, ok)
	require.Equal(t, "", hash.At(0).Title)
	require.Equal(t, 42.0, hash.At(0).Weight)
	require.Equal(t, "same hashcode", hash.At(1).Title)

	jit, _ := b.Axis("jit")
	require.Equal(t, "", jit.First().Title)
	osAxis, _ := b.Axis("os")
	require.Equal(t, "windows", osAxis.At(1).Title)
	loc, _ := b.Axis("locale")
	require.Equal(t, "tr_TR", loc.Last().Title)
	jv, _ := b.Axis("java_version")
	require.Equal(t, "Java 17", jv.Last().Title)

	rows, err := b.GenerateRows(0)
	require.NoError(t, err)
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name()
	}
	require.Equal(t, []string{
		"Java 8, zulu, same hashcode, ubuntu, America/New_York, de_DE",
		"Java 8, zulu, windows, America/New_York, de_DE",
		"Java 8, zulu, ubuntu, America/New_York, de_DE",
		"Java 17, zulu, ubuntu, America/New_York, de_DE",
	}, names)
}

// TestLoadJava_Sampled fills to the target and stays reproducible.
func TestLoadJava_Sampled(t *testing.T) {
	t.Parallel()

	gen := func() []string {
		f, err := config.Load("testdata/java.yaml")
		require.NoError(t, err)
		b, err := f.Build()
		require.NoError(t, err)
		rows, err := b.GenerateRows(8)
		require.NoError(t, err)
		require.Len(t, rows, 8)
		out := make([]string, len(rows))
		for i, r := range rows {
			out[i] = r.Key()
		}
		return out
	}
	require.Equal(t, gen(), gen())
}

// TestTargetJobs checks env > file > default.
func TestTargetJobs(t *testing.T) {
	t.Parallel()

	f, err := config.Parse([]byte("axes: [{name: a, values: [x]}]\n"))
	require.NoError(t, err)

	n, err := f.TargetJobs(nil)
	require.NoError(t, err)
	require.Equal(t, config.DefaultJobs, n)

	n, err = f.TargetJobs(env(map[string]string{config.JobsEnv: "12"}))
	require.NoError(t, err)
	require.Equal(t, 12, n)

	n, err = f.TargetJobs(env(map[string]string{config.JobsEnv: ""}))
	require.NoError(t, err)
	require.Equal(t, config.DefaultJobs, n)

	_, err = f.TargetJobs(env(map[string]string{config.JobsEnv: "many"}))
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	g, err := config.Parse([]byte("jobs: 3\naxes: [{name: a, values: [x]}]\n"))
	require.NoError(t, err)
	n, err = g.TargetJobs(noEnv)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

// TestParseErrors covers shape and validation failures.
func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ""},
		{"no axes", "jobs: 3\n"},
		{"unknown key", "axes: [{name: a, values: [x]}]\ncolour: red\n"},
		{"axis without name", "axes: [{values: [x]}]\n"},
		{"axis without values", "axes: [{name: a}]\n"},
		{"negative jobs", "jobs: -1\naxes: [{name: a, values: [x]}]\n"},
		{"repeated name pattern", "namePattern: [a, a]\naxes: [{name: a, values: [x]}]\n"},
		{"empty exclusion", "axes: [{name: a, values: [x]}]\nexclude: [{}]\n"},
		{"not yaml", "axes: [\n"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.Parse([]byte(tc.doc))
			require.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

// TestCompileErrors covers value and constraint shapes rejected at compile time.
func TestCompileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"list value", "axes: [{name: a, values: [[x]]}]\n"},
		{"string weight", "axes: [{name: a, values: [{value: x, weight: heavy}]}]\n"},
		{"non-string title", "axes: [{name: a, values: [{value: x, title: 3}]}]\n"},
		{"bad template", "axes: [{name: a, title: '{{.', values: [x]}]\n"},
		{"missing template key", "axes: [{name: a, title: '{{.language}}', values: [{country: DE}]}]\n"},
		{"nested list constraint", "axes: [{name: a, values: [x]}]\nexclude: [{a: [[x]]}]\n"},
		{"null pin", "axes: [{name: a, values: [x]}]\ninclude: [{a: null}]\n"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f, err := config.Parse([]byte(tc.doc))
			require.NoError(t, err)
			_, err = f.Compile()
			require.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

// TestBuildErrors surfaces engine sentinels unchanged.
func TestBuildErrors(t *testing.T) {
	t.Parallel()

	f, err := config.Parse([]byte("axes: [{name: a, values: [x]}, {name: a, values: [y]}]\n"))
	require.NoError(t, err)
	_, err = f.Build()
	require.ErrorIs(t, err, jobmatrix.ErrDuplicateAxis)

	f, err = config.Parse([]byte("namePattern: [b]\naxes: [{name: a, values: [x]}]\n"))
	require.NoError(t, err)
	_, err = f.Build()
	require.ErrorIs(t, err, jobmatrix.ErrUnknownAxis)

	f, err = config.Parse([]byte("axes: [{name: a, values: [{value: x, weight: -1}]}]\n"))
	require.NoError(t, err)
	_, err = f.Build()
	require.ErrorIs(t, err, axis.ErrNegativeWeight)
	require.True(t, jobmatrix.IsConfigurationError(err))
}

// TestStrictAndSeparator applies the file's options.
func TestStrictAndSeparator(t *testing.T) {
	t.Parallel()

	doc := `
strict: true
separator: " | "
axes:
  - {name: a, values: [x, y]}
  - {name: b, values: [1, 2]}
exclude:
  - {a: x, b: [1, 2]}
include:
  - {a: x}
`
	f, err := config.Parse([]byte(doc))
	require.NoError(t, err)
	b, err := f.Build()
	require.NoError(t, err)
	_, err = b.GenerateRows(1)
	require.ErrorIs(t, err, jobmatrix.ErrUnsatisfiablePin)

	f.Strict = false
	b, err = f.Build()
	require.NoError(t, err)
	rows, err := b.GenerateRows(5)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		require.Contains(t, []string{"y | 1", "y | 2"}, r.Name())
	}
}

// TestEntryConstraints matches values declared as {value, title, weight}
// entries both by payload and by entry fields.
func TestEntryConstraints(t *testing.T) {
	t.Parallel()

	doc := `
strict: true
axes:
  - name: os
    values: [ubuntu, windows]
  - name: hash
    values:
      - {value: regular, weight: 42}
      - {value: same, title: same hashcode}
include:
  - {hash: {value: same}}
  - {hash: {value: same, title: same hashcode}, os: windows}
`
	f, err := config.Parse([]byte(doc))
	require.NoError(t, err)
	b, err := f.Build()
	require.NoError(t, err)
	rows, err := b.GenerateRows(0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		require.Equal(t, "same", r.Fields()["hash"])
	}
	require.Equal(t, "ubuntu, same hashcode", rows[0].Name())
	require.Equal(t, "windows, same hashcode", rows[1].Name())

	// Entry and scalar exclusions remove the same rows.
	for _, exclude := range []string{"{hash: {value: same}}", "{hash: same}"} {
		f, err := config.Parse([]byte("axes:\n" +
			"  - {name: os, values: [ubuntu, windows]}\n" +
			"  - {name: hash, values: [{value: regular}, {value: same, weight: 5}]}\n" +
			"exclude: [" + exclude + "]\n"))
		require.NoError(t, err)
		b, err := f.Build(jobmatrix.WithSeed(1))
		require.NoError(t, err)
		rows, err := b.GenerateRows(10)
		require.NoError(t, err, exclude)
		require.Len(t, rows, 2, exclude)
		for _, r := range rows {
			require.Equal(t, "regular", r.Fields()["hash"], exclude)
		}
	}

	// A templated title keeps the value bare, so it has no entry to match.
	f, err = config.Parse([]byte("strict: true\n" +
		"axes: [{name: v, title: 'Java {{.}}', values: [\"8\"]}]\n" +
		"include: [{v: {value: \"8\"}}]\n"))
	require.NoError(t, err)
	b, err = f.Build()
	require.NoError(t, err)
	v, _ := b.Axis("v")
	require.Equal(t, "Java 8", v.First().Title)
	require.False(t, v.First().Entry.IsValid())
	_, err = b.GenerateRows(0)
	require.ErrorIs(t, err, jobmatrix.ErrUnsatisfiablePin)
}

// TestDerive renders the derive section against generated rows.
func TestDerive(t *testing.T) {
	t.Parallel()

	f, err := config.Load("testdata/java.yaml")
	require.NoError(t, err)
	b, m, err := f.BuildMatrix()
	require.NoError(t, err)
	require.Len(t, m.Derive, 1)
	require.Equal(t, "testExtraJvmArgs", m.Derive[0].Field)

	rows, err := b.GenerateRows(0)
	require.NoError(t, err)
	derive, err := m.Deriver(rows)
	require.NoError(t, err)
	require.Equal(t,
		"-XX:+UnlockExperimentalVMOptions -XX:hashCode=2 -Duser.country=DE -Duser.language=de",
		derive(rows[0])["testExtraJvmArgs"])
	require.Equal(t, "-Duser.country=DE -Duser.language=de", derive(rows[1])["testExtraJvmArgs"])

	// No derive section, no deriver.
	g, err := config.Parse([]byte("axes: [{name: a, values: [x]}]\n"))
	require.NoError(t, err)
	gm, err := g.Compile()
	require.NoError(t, err)
	none, err := gm.Deriver(rows)
	require.NoError(t, err)
	require.Nil(t, none)
}

// TestDeriveErrors covers derive templates rejected at parse, compile or
// render time.
func TestDeriveErrors(t *testing.T) {
	t.Parallel()

	const axes = "axes: [{name: a, values: [x]}]\n"

	_, err := config.Parse([]byte(axes + "derive: {'': '{{.a}}'}\n"))
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	_, err = config.Parse([]byte(axes + "derive: {f: ''}\n"))
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	f, err := config.Parse([]byte(axes + "derive: {f: '{{.a'}\n"))
	require.NoError(t, err)
	_, err = f.Compile()
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	f, err = config.Parse([]byte(axes + "derive: {f: '{{.missing}}'}\n"))
	require.NoError(t, err)
	b, m, err := f.BuildMatrix()
	require.NoError(t, err)
	rows, err := b.GenerateRows(1)
	require.NoError(t, err)
	_, err = m.Deriver(rows)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}
