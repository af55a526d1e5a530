// Package grid implements the dense corner-valued voxel lattices the
// renderer optimizes: trilinear sampling on the forward pass and
// weight-matched gradient splatting on the backward pass.
package grid

import (
	"errors"
	"fmt"

	"github.com/ctessum/sparse"
)

// ErrBadShape is returned when a grid is constructed with non-positive
// dimensions.
var ErrBadShape = errors.New("grid: dimensions must be positive")

// Grid stores Channels values at every corner of a Res[0]*Res[1]*Res[2]
// voxel lattice. The backing array has one more sample per axis than
// the voxel count because values live at voxel corners. Grid
// coordinates are in voxel units: corner (i,j,k) sits at (i,j,k).
type Grid struct {
	Res      [3]int
	Channels int
	Data     *sparse.DenseArray
}

// New allocates a zero-filled grid with the given voxel resolution and
// channel count.
func New(res [3]int, channels int) (*Grid, error) {
	if res[0] <= 0 || res[1] <= 0 || res[2] <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: %dx%dx%d with %d channels", ErrBadShape, res[0], res[1], res[2], channels)
	}
	return &Grid{
		Res:      res,
		Channels: channels,
		Data:     sparse.ZerosDense(res[0]+1, res[1]+1, res[2]+1, channels),
	}, nil
}

// Fill sets every corner of every channel to v.
func (g *Grid) Fill(v float64) {
	for i := range g.Data.Elements {
		g.Data.Elements[i] = v
	}
}

// Corner returns a live view of the channel values at corner (i,j,k).
// Writing through the view mutates the grid.
func (g *Grid) Corner(i, j, k int) []float64 {
	off := g.offset(i, j, k)
	return g.Data.Elements[off : off+g.Channels]
}

// Corners returns the total number of lattice corners.
func (g *Grid) Corners() int {
	return (g.Res[0] + 1) * (g.Res[1] + 1) * (g.Res[2] + 1)
}

// Map applies f to every stored value in place.
func (g *Grid) Map(f func(v float64) float64) {
	for i, v := range g.Data.Elements {
		g.Data.Elements[i] = f(v)
	}
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	data := sparse.ZerosDense(g.Res[0]+1, g.Res[1]+1, g.Res[2]+1, g.Channels)
	copy(data.Elements, g.Data.Elements)
	return &Grid{Res: g.Res, Channels: g.Channels, Data: data}
}

func (g *Grid) offset(i, j, k int) int {
	return ((i*(g.Res[1]+1)+j)*(g.Res[2]+1) + k) * g.Channels
}
