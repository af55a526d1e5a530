package grid

import (
	"fmt"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// Accum collects per-corner gradients for a grid of matching shape.
// Each render worker splats into its own Accum and the results are
// merged once the batch completes, so no locking happens on the hot
// path.
type Accum struct {
	res      [3]int
	channels int
	data     *sparse.DenseArray
}

// NewAccum returns a zeroed accumulator shaped like the grid.
func (g *Grid) NewAccum() *Accum {
	return &Accum{
		res:      g.Res,
		channels: g.Channels,
		data:     sparse.ZerosDense(g.Res[0]+1, g.Res[1]+1, g.Res[2]+1, g.Channels),
	}
}

// Elements exposes the flat gradient storage, corner-major then
// channel, matching the layout of Grid.Data.Elements.
func (a *Accum) Elements() []float64 {
	return a.data.Elements
}

// Corner returns a live view of the accumulated gradient at corner
// (i,j,k).
func (a *Accum) Corner(i, j, k int) []float64 {
	off := ((i*(a.res[1]+1)+j)*(a.res[2]+1) + k) * a.channels
	return a.data.Elements[off : off+a.channels]
}

// Merge adds the contents of other into a. Shapes must match.
func (a *Accum) Merge(other *Accum) error {
	if a.res != other.res || a.channels != other.channels {
		return fmt.Errorf("%w: merging %v/%d into %v/%d", ErrBadShape,
			other.res, other.channels, a.res, a.channels)
	}
	floats.Add(a.data.Elements, other.data.Elements)
	return nil
}

// Reset zeroes the accumulator for reuse.
func (a *Accum) Reset() {
	for i := range a.data.Elements {
		a.data.Elements[i] = 0
	}
}
