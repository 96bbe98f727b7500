// Package jobmatrix contains unit tests for the configuration primitives
// (builderConfig and Option) and for the draw/sample internals.
package jobmatrix

import (
	"bytes"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cimatrix/axis"
	"github.com/katalvlaran/cimatrix/constraint"
	"github.com/katalvlaran/cimatrix/value"
)

// scripted replays a fixed sequence of draws, cycling at the end.
type scripted struct {
	draws []float64
	pos   int
}

func (s *scripted) Float64() float64 {
	u := s.draws[s.pos%len(s.draws)]
	s.pos++
	return u
}

func weighted(t *testing.T, name string, weights ...float64) *axis.Axis {
	t.Helper()
	decls := make([]axis.Decl, len(weights))
	for i, w := range weights {
		decls[i] = axis.Plain(value.Int(int64(i))).WithWeight(w)
	}
	a, err := axis.New(axis.Spec{Name: name, Values: decls})
	require.NoError(t, err)

	return a
}

// TestDefaults verifies the deterministic defaults.
func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := newBuilderConfig()
	require.NotNil(t, cfg.src)
	require.NotNil(t, cfg.logger)
	require.Equal(t, DefaultSeparator, cfg.separator)
	require.Equal(t, DefaultAttemptFactor, cfg.attemptFactor)
	require.Equal(t, DefaultMinAttempts, cfg.minAttempts)
	require.Equal(t, DefaultPinSearchLimit, cfg.pinSearchLimit)
	require.False(t, cfg.strict)

	// The default source is seeded with DefaultSeed.
	want := rand.New(rand.NewSource(DefaultSeed)).Float64()
	require.Equal(t, want, newBuilderConfig().src.Float64())
}

// TestOptionsOverride applies options in order, last wins.
func TestOptionsOverride(t *testing.T) {
	t.Parallel()

	src := &scripted{draws: []float64{0.5}}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	cfg := newBuilderConfig(
		WithSeed(3),
		WithSource(src),
		WithSeparator(" | "),
		WithSeparator(""),
		WithAttemptFactor(7),
		WithMinAttempts(0),
		WithPinSearchLimit(5),
		WithLogger(logger),
		WithStrict(true),
	)
	require.Same(t, src, cfg.src)
	require.Equal(t, "", cfg.separator)
	require.Equal(t, 7, cfg.attemptFactor)
	require.Equal(t, 0, cfg.minAttempts)
	require.Equal(t, 5, cfg.pinSearchLimit)
	require.Same(t, logger, cfg.logger)
	require.True(t, cfg.strict)

	r := rand.New(rand.NewSource(9))
	require.Same(t, r, newBuilderConfig(WithRand(r)).src)
}

// TestOptionPanics confirms option constructors fail fast.
func TestOptionPanics(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { WithRand(nil) })
	require.Panics(t, func() { WithSource(nil) })
	require.Panics(t, func() { WithAttemptFactor(0) })
	require.Panics(t, func() { WithMinAttempts(-1) })
	require.Panics(t, func() { WithPinSearchLimit(0) })
	require.Panics(t, func() { WithLogger(nil) })
}

// TestAttemptBudget uses the larger of target*factor and the floor.
func TestAttemptBudget(t *testing.T) {
	t.Parallel()

	cfg := newBuilderConfig(WithAttemptFactor(10), WithMinAttempts(50))
	require.Equal(t, 50, cfg.attemptBudget(0))
	require.Equal(t, 50, cfg.attemptBudget(5))
	require.Equal(t, 100, cfg.attemptBudget(10))

	// Huge targets saturate instead of wrapping below the floor.
	require.Equal(t, math.MaxInt, cfg.attemptBudget(math.MaxInt/2))
	require.Equal(t, math.MaxInt, newBuilderConfig().attemptBudget(math.MaxInt))
}

// TestDrawIndex checks proportional selection on scripted draws.
func TestDrawIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		weights []float64
		u       float64
		want    int
	}{
		{"first bucket", []float64{1, 3}, 0.2, 0},
		{"second bucket", []float64{1, 3}, 0.5, 1},
		{"bucket boundary", []float64{1, 3}, 0.25, 1},
		{"zero weight skipped", []float64{0, 1, 0}, 0.0, 1},
		{"zero weight skipped high", []float64{0, 1, 0}, 0.99, 1},
		{"all zero is uniform low", []float64{0, 0, 0}, 0.1, 0},
		{"all zero is uniform mid", []float64{0, 0, 0}, 0.5, 1},
		{"u==1 clamps", []float64{1, 1}, 1.0, 1},
		{"negative clamps", []float64{1, 1}, -0.5, 0},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a := weighted(t, "w", tc.weights...)
			src := &scripted{draws: []float64{tc.u}}
			require.Equal(t, tc.want, drawIndex(src, a))
			require.Equal(t, 1, src.pos, "exactly one draw per axis")
		})
	}
}

// TestDrawIndexFrequencies is a coarse check that weights steer sampling.
func TestDrawIndexFrequencies(t *testing.T) {
	t.Parallel()

	a := weighted(t, "hash", 42, 1)
	r := rand.New(rand.NewSource(1))
	counts := [2]int{}
	for i := 0; i < 4300; i++ {
		counts[drawIndex(r, a)]++
	}
	require.Greater(t, counts[0], 20*counts[1])
	require.Greater(t, counts[1], 0)
}

// TestSamplerBudget stops on duplicates without looping forever.
func TestSamplerBudget(t *testing.T) {
	t.Parallel()

	a := weighted(t, "A", 1, 1)
	comp := newComposer([]*axis.Axis{a}, []int{0}, DefaultSeparator)
	smp := &sampler{
		comp:   comp,
		src:    &scripted{draws: []float64{0.1}},
		budget: 10,
		logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	}
	set := newRowSet()
	st := smp.fill(set, 2)
	require.Equal(t, 1, set.len())
	require.Equal(t, 10, st.attempts)
	require.Equal(t, 1, st.accepted)
	require.Equal(t, 9, st.duplicates)
}

// TestSamplerRejectsExclusions counts excluded candidates.
func TestSamplerRejectsExclusions(t *testing.T) {
	t.Parallel()

	a := weighted(t, "A", 1, 1)
	comp := newComposer([]*axis.Axis{a}, []int{0}, DefaultSeparator)
	smp := &sampler{
		comp:       comp,
		exclusions: []constraint.Constraint{{"A": constraint.Is(value.Int(0))}},
		src:        &scripted{draws: []float64{0.1, 0.1, 0.9}},
		budget:     10,
		logger:     slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	}
	set := newRowSet()
	st := smp.fill(set, 1)
	require.Equal(t, 1, set.len())
	require.Equal(t, 3, st.attempts)
	require.Equal(t, 2, st.excluded)
	v, _ := set.rows[0].Get("A")
	require.True(t, v.Equal(value.Int(1)))
}

// TestComposeIdempotent composes the same choice twice.
func TestComposeIdempotent(t *testing.T) {
	t.Parallel()

	a := weighted(t, "A", 1, 1)
	b := weighted(t, "B", 1, 1)
	comp := newComposer([]*axis.Axis{a, b}, []int{1, 0}, "-")
	r1 := comp.compose([]int{1, 0})
	r2 := comp.compose([]int{1, 0})
	require.Equal(t, r1.Name(), r2.Name())
	require.Equal(t, "0-1", r1.Name())
	require.True(t, r1.Equal(r2))
	require.True(t, newRowSet().add(r1))

	set := newRowSet()
	require.True(t, set.add(r1))
	require.False(t, set.add(r2))
	require.Equal(t, 1, set.len())
}
