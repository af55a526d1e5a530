package optim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxray/voxray/renderer"
)

// MSE returns the squared color error averaged over every ray and
// channel, along with its gradient with respect to each prediction.
func MSE(pred, want []r3.Vec) (float64, []r3.Vec, error) {
	if len(pred) != len(want) {
		return 0, nil, fmt.Errorf("%w: %d predictions for %d targets", renderer.ErrShapeMismatch, len(pred), len(want))
	}
	if len(pred) == 0 {
		return 0, nil, nil
	}

	grad := make([]r3.Vec, len(pred))
	scale := 2 / float64(3*len(pred))
	total := 0.0
	for i := range pred {
		diff := r3.Sub(pred[i], want[i])
		total += diff.X*diff.X + diff.Y*diff.Y + diff.Z*diff.Z
		grad[i] = r3.Scale(scale, diff)
	}
	return total / float64(3*len(pred)), grad, nil
}

// PSNR converts a mean squared error over unit-range colors to peak
// signal-to-noise ratio in decibels.
func PSNR(mse float64) float64 {
	if mse <= 0 {
		return math.Inf(1)
	}
	return -10 * math.Log10(mse)
}
