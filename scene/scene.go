// Package scene ties the optimizable voxel grids to the world-space
// box they span and handles their configuration and persistence.
package scene

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxray/voxray/grid"
	"github.com/voxray/voxray/tracer"
)

// Scene pairs a one-channel density grid with a three-channel color
// grid over a shared voxel lattice inside Bounds. Grid values are free
// parameters; the renderer applies the density rectifier and the color
// clamp when it samples them, so values here may be negative or exceed
// [0,1] mid-optimization.
type Scene struct {
	Density *grid.Grid
	Color   *grid.Grid
	Bounds  tracer.Box
}

// New allocates a scene with zero-filled grids at the given voxel
// resolution. Bounds must enclose a positive volume.
func New(res [3]int, bounds tracer.Box) (*Scene, error) {
	if bounds.Degenerate() {
		return nil, fmt.Errorf("%w: min %v max %v", ErrDegenerateBounds, bounds.Min, bounds.Max)
	}

	density, err := grid.New(res, 1)
	if err != nil {
		return nil, err
	}
	color, err := grid.New(res, 3)
	if err != nil {
		return nil, err
	}
	return &Scene{Density: density, Color: color, Bounds: bounds}, nil
}

// FromConfig allocates a scene sized per the configuration.
func FromConfig(cfg *Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(cfg.Grid.Resolution, cfg.Bounds.Box())
}

// Res returns the voxel resolution shared by both grids.
func (s *Scene) Res() [3]int {
	return s.Density.Res
}

// ToGrid rescales a world-space point into voxel coordinates, where
// corner (i,j,k) of the lattice sits at (i,j,k): the box minimum maps
// to the origin and the maximum to the resolution on each axis.
func (s *Scene) ToGrid(p r3.Vec) r3.Vec {
	size := s.Bounds.Size()
	res := s.Res()
	return r3.Vec{
		X: (p.X - s.Bounds.Min.X) / size.X * float64(res[0]),
		Y: (p.Y - s.Bounds.Min.Y) / size.Y * float64(res[1]),
		Z: (p.Z - s.Bounds.Min.Z) / size.Z * float64(res[2]),
	}
}

// CornerWorld returns the world-space position of lattice corner
// (i,j,k).
func (s *Scene) CornerWorld(i, j, k int) r3.Vec {
	size := s.Bounds.Size()
	res := s.Res()
	return r3.Vec{
		X: s.Bounds.Min.X + float64(i)/float64(res[0])*size.X,
		Y: s.Bounds.Min.Y + float64(j)/float64(res[1])*size.Y,
		Z: s.Bounds.Min.Z + float64(k)/float64(res[2])*size.Z,
	}
}
