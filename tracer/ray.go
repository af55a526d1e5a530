package tracer

import "gonum.org/v1/gonum/spatial/r3"

// Ray is the half-line origin + t*dir. Dir is not required to be unit
// length; depths are expressed in multiples of it.
type Ray struct {
	Origin r3.Vec
	Dir    r3.Vec
}

// At returns the point at depth t along the ray.
func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Dir))
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min r3.Vec
	Max r3.Vec
}

// Size returns the box edge lengths.
func (b Box) Size() r3.Vec {
	return r3.Sub(b.Max, b.Min)
}

// Center returns the box midpoint.
func (b Box) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Degenerate reports whether the box has non-positive extent on any
// axis.
func (b Box) Degenerate() bool {
	s := b.Size()
	return s.X <= 0 || s.Y <= 0 || s.Z <= 0
}
