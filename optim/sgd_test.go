package optim

import (
	"errors"
	"math"
	"testing"

	"github.com/voxray/voxray/grid"
)

func TestStepPlainGradientDescent(t *testing.T) {
	g := testGrid(t, 1)
	g.Fill(1)
	acc := g.NewAccum()
	for i := range acc.Elements() {
		acc.Elements()[i] = float64(i)
	}

	sgd := NewSGD(0.1, 0)
	if err := sgd.Step(g, acc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range g.Data.Elements {
		want := 1 - 0.1*float64(i)
		if math.Abs(v-want) > 1e-12 {
			t.Fatalf("element %d: expected %g; got %g", i, want, v)
		}
	}
}

func TestStepMomentumCompoundsHistory(t *testing.T) {
	g := testGrid(t, 1)
	acc := g.NewAccum()
	for i := range acc.Elements() {
		acc.Elements()[i] = 1
	}

	// With rate 0.5 and momentum 0.5 on a constant unit gradient the
	// velocities are 1 then 1.5, so the value walks 0, -0.5, -1.25.
	sgd := NewSGD(0.5, 0.5)
	if err := sgd.Step(g, acc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := g.Data.Elements[0]; math.Abs(v+0.5) > 1e-12 {
		t.Fatalf("expected -0.5 after the first step; got %g", v)
	}
	if err := sgd.Step(g, acc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := g.Data.Elements[0]; math.Abs(v+1.25) > 1e-12 {
		t.Fatalf("expected -1.25 after the second step; got %g", v)
	}
}

func TestStepKeepsVelocitiesPerGrid(t *testing.T) {
	a := testGrid(t, 1)
	b := testGrid(t, 1)
	accA := a.NewAccum()
	accB := b.NewAccum()
	for i := range accA.Elements() {
		accA.Elements()[i] = 1
		accB.Elements()[i] = -2
	}

	sgd := NewSGD(1, 0.9)
	for step := 0; step < 2; step++ {
		if err := sgd.Step(a, accA); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := sgd.Step(b, accB); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Velocities must not leak between grids: each sees its own
	// momentum trail, so after two steps a = -(1+1.9), b = 2*(1+1.9).
	if v := a.Data.Elements[0]; math.Abs(v+2.9) > 1e-12 {
		t.Fatalf("expected -2.9; got %g", v)
	}
	if v := b.Data.Elements[0]; math.Abs(v-5.8) > 1e-12 {
		t.Fatalf("expected 5.8; got %g", v)
	}
}

func TestStepRejectsForeignAccumulator(t *testing.T) {
	g := testGrid(t, 1)
	other, err := grid.New([3]int{3, 3, 3}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sgd := NewSGD(0.1, 0)
	if err := sgd.Step(g, other.NewAccum()); !errors.Is(err, grid.ErrBadShape) {
		t.Fatalf("expected ErrBadShape; got %v", err)
	}
}

func testGrid(t *testing.T, channels int) *grid.Grid {
	t.Helper()
	g, err := grid.New([3]int{2, 2, 2}, channels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return g
}
