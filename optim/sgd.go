// Package optim fits voxel scenes to rendered target views with
// momentum-accelerated stochastic gradient descent.
package optim

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/voxray/voxray/grid"
)

// SGD descends grid corner values along accumulated gradients. Each
// grid it steps keeps its own velocity buffer, so one optimizer can
// drive the density and color grids of the same scene.
type SGD struct {
	// Rate scales every descent step.
	Rate float64

	// Momentum blends an exponentially decayed history of past steps
	// into the current one. Zero recovers plain gradient descent.
	Momentum float64

	velocity map[*grid.Grid][]float64
}

// NewSGD returns an optimizer with empty velocity history.
func NewSGD(rate, momentum float64) *SGD {
	return &SGD{
		Rate:     rate,
		Momentum: momentum,
		velocity: make(map[*grid.Grid][]float64),
	}
}

// Step applies one descent update to g using the gradients gathered in
// acc. The accumulator must match the grid it was created from.
func (s *SGD) Step(g *grid.Grid, acc *grid.Accum) error {
	grads := acc.Elements()
	if len(grads) != len(g.Data.Elements) {
		return fmt.Errorf("%w: %d gradients for %d corner values", grid.ErrBadShape, len(grads), len(g.Data.Elements))
	}

	vel, ok := s.velocity[g]
	if !ok {
		vel = make([]float64, len(grads))
		s.velocity[g] = vel
	}

	floats.Scale(s.Momentum, vel)
	floats.Add(vel, grads)
	floats.AddScaled(g.Data.Elements, -s.Rate, vel)
	return nil
}
