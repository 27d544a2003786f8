package drawing

import (
	"math"
	"testing"

	"github.com/golly-go/lsys/observer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnits(t *testing.T) {
	assert.InDelta(t, math.Pi/2, DegreeToRad(90), 1e-12)
	assert.InDelta(t, 180, RadToDegree(math.Pi), 1e-12)
	assert.InDelta(t, 33.3, RadToDegree(DegreeToRad(33.3)), 1e-9)
}

func TestParameters_SettersNotify(t *testing.T) {
	p := NewParameters(Snapshot{Step: 10})

	fired := 0
	h := observer.MustNew(p)
	defer h.Close()
	h.Bind(func() { fired++ })

	p.SetStartingPosition(Vector{X: 1, Y: 2})
	p.SetStartingAngle(0.5)
	p.SetDeltaAngle(0.25)
	p.SetStep(3)
	p.SetIterations(4)

	assert.Equal(t, 5, fired)
	assert.Equal(t, Snapshot{
		StartingPosition: Vector{X: 1, Y: 2},
		StartingAngle:    0.5,
		DeltaAngle:       0.25,
		Step:             3,
		Iterations:       4,
	}, p.Snapshot())
}

func TestParameters_IterationsClamped(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{in: -3, want: 0},
		{in: 0, want: 0},
		{in: 7, want: 7},
		{in: MaxIterations, want: MaxIterations},
		{in: 100, want: MaxIterations},
	}

	for _, tt := range tests {
		p := NewParameters(Snapshot{Iterations: tt.in})
		assert.Equal(t, tt.want, p.Snapshot().Iterations)

		p.SetIterations(tt.in)
		assert.Equal(t, tt.want, p.Snapshot().Iterations)

		p.Set(Snapshot{Iterations: tt.in})
		assert.Equal(t, tt.want, p.Snapshot().Iterations)
	}
}

func TestComputeSegments(t *testing.T) {
	s := Snapshot{Step: 1, DeltaAngle: math.Pi / 2}

	segs := ComputeSegments("F+F", s)
	require.Len(t, segs, 2)
	assertVector(t, Vector{X: 1, Y: 0}, segs[0].To)
	assertVector(t, Vector{X: 1, Y: 1}, segs[1].To)

	t.Run("move without drawing", func(t *testing.T) {
		segs := ComputeSegments("fF", s)
		require.Len(t, segs, 1)
		assertVector(t, Vector{X: 1, Y: 0}, segs[0].From)
	})

	t.Run("branches restore state", func(t *testing.T) {
		segs := ComputeSegments("[+F]F", s)
		require.Len(t, segs, 2)
		assertVector(t, Vector{X: 0, Y: 1}, segs[0].To)
		assertVector(t, Vector{X: 0, Y: 0}, segs[1].From)
		assertVector(t, Vector{X: 1, Y: 0}, segs[1].To)
	})

	t.Run("unbalanced pop ignored", func(t *testing.T) {
		assert.Len(t, ComputeSegments("]F-F", s), 2)
	})

	t.Run("unknown symbols ignored", func(t *testing.T) {
		assert.Empty(t, ComputeSegments("XYZ", s))
	})
}

func TestBounds(t *testing.T) {
	_, _, ok := Bounds(nil)
	assert.False(t, ok)

	min, max, ok := Bounds(ComputeSegments("F+F+F", Snapshot{Step: 2, DeltaAngle: math.Pi / 2}))
	require.True(t, ok)
	assertVector(t, Vector{X: 0, Y: 0}, min)
	assertVector(t, Vector{X: 2, Y: 2}, max)
}

func assertVector(t *testing.T, want, got Vector) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
}
