package scene

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxray/voxray/tracer"
)

func TestNewRejectsDegenerateBounds(t *testing.T) {
	type spec struct {
		bounds tracer.Box
	}

	specs := []spec{
		{bounds: tracer.Box{}},
		{bounds: tracer.Box{Min: r3.Vec{}, Max: r3.Vec{X: 1, Y: 1}}},
		{bounds: tracer.Box{Min: r3.Vec{X: 2}, Max: r3.Vec{X: 1, Y: 1, Z: 1}}},
	}

	for specIndex, spec := range specs {
		if _, err := New([3]int{4, 4, 4}, spec.bounds); !errors.Is(err, ErrDegenerateBounds) {
			t.Fatalf("[spec %d] expected ErrDegenerateBounds; got %v", specIndex, err)
		}
	}
}

func TestToGridMapsBoundsOntoLattice(t *testing.T) {
	s, err := New([3]int{4, 4, 4}, tracer.Box{Min: r3.Vec{}, Max: r3.Vec{X: 2, Y: 4, Z: 6}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	type spec struct {
		world r3.Vec
		grid  r3.Vec
	}

	specs := []spec{
		{world: r3.Vec{}, grid: r3.Vec{}},
		{world: r3.Vec{X: 2, Y: 4, Z: 6}, grid: r3.Vec{X: 4, Y: 4, Z: 4}},
		{world: r3.Vec{X: 1, Y: 2, Z: 3}, grid: r3.Vec{X: 2, Y: 2, Z: 2}},
		{world: r3.Vec{X: 0.5, Y: 1, Z: 4.5}, grid: r3.Vec{X: 1, Y: 1, Z: 3}},
	}

	for specIndex, spec := range specs {
		got := s.ToGrid(spec.world)
		if math.Abs(got.X-spec.grid.X) > 1e-12 ||
			math.Abs(got.Y-spec.grid.Y) > 1e-12 ||
			math.Abs(got.Z-spec.grid.Z) > 1e-12 {
			t.Fatalf("[spec %d] expected %v; got %v", specIndex, spec.grid, got)
		}
	}
}

func TestCornerWorldInvertsToGrid(t *testing.T) {
	s, err := New([3]int{3, 5, 2}, tracer.Box{Min: r3.Vec{X: -1, Y: -2, Z: 0.5}, Max: r3.Vec{X: 1, Y: 0, Z: 2.5}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i <= 3; i++ {
		for j := 0; j <= 5; j++ {
			for k := 0; k <= 2; k++ {
				g := s.ToGrid(s.CornerWorld(i, j, k))
				if math.Abs(g.X-float64(i)) > 1e-9 ||
					math.Abs(g.Y-float64(j)) > 1e-9 ||
					math.Abs(g.Z-float64(k)) > 1e-9 {
					t.Fatalf("corner (%d,%d,%d) maps to %v", i, j, k, g)
				}
			}
		}
	}
}

func TestPaintBoxFillsInteriorCorners(t *testing.T) {
	s, err := New([3]int{4, 4, 4}, tracer.Box{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 1, Y: 1, Z: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.PaintBox(r3.Vec{}, 0.5, 40, r3.Vec{X: 0.8, Y: 0.3, Z: 0.2})

	// Corners sit at -1, -0.5, 0, 0.5, 1 per axis; |p| <= 0.5 keeps
	// three per axis, 27 in total.
	if got := floats.Sum(s.Density.Data.Elements); math.Abs(got-27*40) > 1e-9 {
		t.Fatalf("expected 27 painted corners at density 40; sum %g", got)
	}

	center := s.Color.Corner(2, 2, 2)
	if center[0] != 0.8 || center[1] != 0.3 || center[2] != 0.2 {
		t.Fatalf("unexpected center color %v", center)
	}
	if got := s.Density.Corner(0, 0, 0)[0]; got != 0 {
		t.Fatalf("expected outside corner to stay empty; got %g", got)
	}
}

func TestTargetSceneFollowsConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid.Resolution = [3]int{8, 8, 8}
	cfg.Target.Density = 10
	cfg.Target.HalfWidth = 0.25

	s, err := TargetScene(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if floats.Sum(s.Density.Data.Elements) == 0 {
		t.Fatalf("expected a painted target volume")
	}
	if s.Res() != cfg.Grid.Resolution {
		t.Fatalf("expected resolution %v; got %v", cfg.Grid.Resolution, s.Res())
	}
}
