package optim

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxray/voxray/renderer"
)

func TestMSEAgainstManualExpansion(t *testing.T) {
	pred := []r3.Vec{
		{X: 1, Y: 0.5, Z: 0},
		{X: 0.2, Y: 0.2, Z: 0.2},
	}
	want := []r3.Vec{
		{X: 0.5, Y: 0.5, Z: 0.5},
		{X: 0.2, Y: 0.2, Z: 0.2},
	}

	mse, grad, err := MSE(pred, want)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only the first ray is off: (0.5^2 + 0 + 0.5^2)/6.
	if expected := 0.5 / 6; math.Abs(mse-expected) > 1e-12 {
		t.Fatalf("expected mse %g; got %g", expected, mse)
	}
	if len(grad) != 2 {
		t.Fatalf("expected 2 gradients; got %d", len(grad))
	}
	// d/dpred = 2*(pred-want)/(3*n) with n=2.
	if g := grad[0]; math.Abs(g.X-0.5/3) > 1e-12 || g.Y != 0 || math.Abs(g.Z+0.5/3) > 1e-12 {
		t.Fatalf("unexpected gradient %v for the first ray", g)
	}
	if g := grad[1]; g != (r3.Vec{}) {
		t.Fatalf("expected a zero gradient for the matched ray; got %v", g)
	}
}

func TestMSEPerfectPrediction(t *testing.T) {
	batch := []r3.Vec{{X: 0.1, Y: 0.9, Z: 0.4}, {X: 1, Y: 1, Z: 1}}
	mse, grad, err := MSE(batch, batch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mse != 0 {
		t.Fatalf("expected zero error; got %g", mse)
	}
	for i, g := range grad {
		if g != (r3.Vec{}) {
			t.Fatalf("ray %d: expected a zero gradient; got %v", i, g)
		}
	}
}

func TestMSERejectsMismatchedBatches(t *testing.T) {
	if _, _, err := MSE(make([]r3.Vec, 3), make([]r3.Vec, 2)); !errors.Is(err, renderer.ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch; got %v", err)
	}
}

func TestPSNR(t *testing.T) {
	specs := []struct {
		mse float64
		db  float64
	}{
		{1, 0},
		{0.01, 20},
		{0.0001, 40},
	}
	for i, s := range specs {
		if got := PSNR(s.mse); math.Abs(got-s.db) > 1e-9 {
			t.Fatalf("[spec %d] expected %g dB; got %g", i, s.db, got)
		}
	}
	if got := PSNR(0); !math.IsInf(got, 1) {
		t.Fatalf("expected +Inf for a perfect fit; got %g", got)
	}
}
