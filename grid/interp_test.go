package grid

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSampleInsideCellMatchesManualBlend(t *testing.T) {
	g, err := New([3]int{2, 2, 2}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rng := rand.New(rand.NewSource(1))
	for i := range g.Data.Elements {
		g.Data.Elements[i] = rng.Float64()
	}

	points := []r3.Vec{
		{X: 0.3, Y: 0.6, Z: 0.9},
		{X: 1.5, Y: 0.25, Z: 1.75},
		{X: 1.01, Y: 1.99, Z: 0.5},
	}
	for _, p := range points {
		i0, j0, k0 := int(p.X), int(p.Y), int(p.Z)
		fx, fy, fz := p.X-float64(i0), p.Y-float64(j0), p.Z-float64(k0)

		want := 0.0
		for di := 0; di < 2; di++ {
			for dj := 0; dj < 2; dj++ {
				for dk := 0; dk < 2; dk++ {
					w := axisWeight(fx, di) * axisWeight(fy, dj) * axisWeight(fz, dk)
					want += w * g.Corner(i0+di, j0+dj, k0+dk)[0]
				}
			}
		}

		out := make([]float64, 1)
		g.Sample(p, out)
		if math.Abs(out[0]-want) > 1e-12 {
			t.Fatalf("point %v: expected %g; got %g", p, want, out[0])
		}
	}
}

func TestSampleAtCornersIsExact(t *testing.T) {
	g, err := New([3]int{3, 3, 3}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rng := rand.New(rand.NewSource(2))
	for i := range g.Data.Elements {
		g.Data.Elements[i] = rng.Float64()
	}

	for i := 0; i <= 3; i++ {
		for j := 0; j <= 3; j++ {
			for k := 0; k <= 3; k++ {
				out := make([]float64, 1)
				g.Sample(r3.Vec{X: float64(i), Y: float64(j), Z: float64(k)}, out)
				if want := g.Corner(i, j, k)[0]; out[0] != want {
					t.Fatalf("corner (%d,%d,%d): expected %g; got %g", i, j, k, want, out[0])
				}
			}
		}
	}
}

func TestSampleClampsToNearestBoundary(t *testing.T) {
	g, err := New([3]int{2, 2, 2}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rng := rand.New(rand.NewSource(3))
	for i := range g.Data.Elements {
		g.Data.Elements[i] = rng.Float64()
	}

	type spec struct {
		outside  r3.Vec
		boundary r3.Vec
	}

	specs := []spec{
		{outside: r3.Vec{X: -3, Y: 0.5, Z: 0.5}, boundary: r3.Vec{X: 0, Y: 0.5, Z: 0.5}},
		{outside: r3.Vec{X: 5.7, Y: 0.5, Z: 0.5}, boundary: r3.Vec{X: 2, Y: 0.5, Z: 0.5}},
		{outside: r3.Vec{X: 0.5, Y: 2.4, Z: 0.5}, boundary: r3.Vec{X: 0.5, Y: 2, Z: 0.5}},
		{outside: r3.Vec{X: -1, Y: -1, Z: -1}, boundary: r3.Vec{}},
		{outside: r3.Vec{X: 9, Y: 9, Z: 9}, boundary: r3.Vec{X: 2, Y: 2, Z: 2}},
		{outside: r3.Vec{X: 1.5, Y: -0.01, Z: 3.2}, boundary: r3.Vec{X: 1.5, Y: 0, Z: 2}},
	}

	for specIndex, spec := range specs {
		got := make([]float64, 1)
		want := make([]float64, 1)
		g.Sample(spec.outside, got)
		g.Sample(spec.boundary, want)
		if got[0] != want[0] {
			t.Fatalf("[spec %d] expected %g at %v; got %g", specIndex, want[0], spec.outside, got[0])
		}
	}
}

func TestSampleInterpolatesChannelsIndependently(t *testing.T) {
	g, err := New([3]int{1, 1, 1}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Channel ch varies linearly along axis ch only.
	for i := 0; i <= 1; i++ {
		for j := 0; j <= 1; j++ {
			for k := 0; k <= 1; k++ {
				c := g.Corner(i, j, k)
				c[0] = float64(i)
				c[1] = float64(j)
				c[2] = float64(k)
			}
		}
	}

	out := make([]float64, 3)
	g.Sample(r3.Vec{X: 0.25, Y: 0.5, Z: 0.75}, out)
	for ch, want := range []float64{0.25, 0.5, 0.75} {
		if math.Abs(out[ch]-want) > 1e-12 {
			t.Fatalf("channel %d: expected %g; got %g", ch, want, out[ch])
		}
	}
}

func TestSplatDistributesForwardWeights(t *testing.T) {
	g, err := New([3]int{2, 2, 2}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := r3.Vec{X: 0.25, Y: 0.5, Z: 0.75}
	acc := g.NewAccum()
	g.Splat(p, []float64{1}, acc)

	// The weights of a unit gradient sum to one.
	if total := floats.Sum(acc.Elements()); math.Abs(total-1) > 1e-12 {
		t.Fatalf("expected splat weights to sum to 1; got %g", total)
	}

	// Each corner receives exactly the derivative of Sample with
	// respect to that corner's value, which finite differences recover
	// exactly up to rounding because Sample is linear in the values.
	out := make([]float64, 1)
	for i := 0; i <= 2; i++ {
		for j := 0; j <= 2; j++ {
			for k := 0; k <= 2; k++ {
				const h = 0.5
				corner := g.Corner(i, j, k)

				corner[0] = h
				g.Sample(p, out)
				numeric := out[0] / h
				corner[0] = 0

				if analytic := acc.Corner(i, j, k)[0]; math.Abs(analytic-numeric) > 1e-12 {
					t.Fatalf("corner (%d,%d,%d): splat %g vs numeric %g", i, j, k, analytic, numeric)
				}
			}
		}
	}
}

func TestSplatAccumulatesAcrossSamples(t *testing.T) {
	g, err := New([3]int{1, 1, 1}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	acc := g.NewAccum()
	g.Splat(r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, []float64{1, 2}, acc)
	g.Splat(r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, []float64{1, 2}, acc)

	// Both splats hit the same eight corners: totals double.
	if total := floats.Sum(acc.Elements()); math.Abs(total-6) > 1e-12 {
		t.Fatalf("expected accumulated total 6; got %g", total)
	}
	if got := acc.Corner(0, 0, 0)[0]; math.Abs(got-0.25) > 1e-12 {
		t.Fatalf("expected corner (0,0,0) channel 0 to hold 0.25; got %g", got)
	}
}

func TestAccumMergeAndReset(t *testing.T) {
	g, err := New([3]int{1, 1, 1}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := g.NewAccum()
	b := g.NewAccum()
	g.Splat(r3.Vec{}, []float64{1}, a)
	g.Splat(r3.Vec{X: 1, Y: 1, Z: 1}, []float64{3}, b)

	if err := a.Merge(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total := floats.Sum(a.Elements()); math.Abs(total-4) > 1e-12 {
		t.Fatalf("expected merged total 4; got %g", total)
	}

	a.Reset()
	if total := floats.Sum(a.Elements()); total != 0 {
		t.Fatalf("expected zeroed accumulator; got total %g", total)
	}

	other, err := New([3]int{2, 1, 1}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Merge(other.NewAccum()); err == nil {
		t.Fatalf("expected shape mismatch error")
	}
}

func axisWeight(f float64, hi int) float64 {
	if hi == 1 {
		return f
	}
	return 1 - f
}
