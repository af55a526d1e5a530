package tracer

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Face identifies an axis-aligned orthographic view of a box. The name
// gives the direction rays travel: face "x" casts rays in +x from
// outside the low-x side, face "-x" casts rays in -x from outside the
// high-x side.
type Face string

const (
	FacePosX Face = "x"
	FacePosY Face = "y"
	FacePosZ Face = "z"
	FaceNegX Face = "-x"
	FaceNegY Face = "-y"
	FaceNegZ Face = "-z"
)

// Faces lists every valid face in a stable order.
var Faces = []Face{FacePosX, FacePosY, FacePosZ, FaceNegX, FaceNegY, FaceNegZ}

// FaceRays builds one inward ray per pixel of an orthographic view onto
// a box face. The view spans the box on the two transverse axes with
// one pixel per grid cell and pixel centers inset half a pixel from the
// edges; origins sit offset outside the box along the view axis and
// directions are the unit inward normal. Rays are returned row-major
// for a w x h image whose dimensions are returned with them.
func FaceRays(b Box, res [3]int, face Face, offset float64) ([]Ray, int, int, error) {
	axis, sign, err := faceAxis(face)
	if err != nil {
		return nil, 0, 0, err
	}
	u, v := transverse(axis)
	w, h := res[u], res[v]
	if w <= 0 || h <= 0 {
		return nil, 0, 0, fmt.Errorf("%w: face %q spans %dx%d pixels", ErrShapeMismatch, face, w, h)
	}

	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}
	du := (hi[u] - lo[u]) / float64(w)
	dv := (hi[v] - lo[v]) / float64(h)

	var o [3]float64
	if sign > 0 {
		o[axis] = lo[axis] - offset
	} else {
		o[axis] = hi[axis] + offset
	}
	var d [3]float64
	d[axis] = float64(sign)
	dir := r3.Vec{X: d[0], Y: d[1], Z: d[2]}

	rays := make([]Ray, 0, w*h)
	for j := 0; j < h; j++ {
		o[v] = lo[v] + (float64(j)+0.5)*dv
		for i := 0; i < w; i++ {
			o[u] = lo[u] + (float64(i)+0.5)*du
			rays = append(rays, Ray{Origin: r3.Vec{X: o[0], Y: o[1], Z: o[2]}, Dir: dir})
		}
	}
	return rays, w, h, nil
}

func faceAxis(face Face) (axis, sign int, err error) {
	switch face {
	case FacePosX:
		return 0, 1, nil
	case FacePosY:
		return 1, 1, nil
	case FacePosZ:
		return 2, 1, nil
	case FaceNegX:
		return 0, -1, nil
	case FaceNegY:
		return 1, -1, nil
	case FaceNegZ:
		return 2, -1, nil
	}
	return 0, 0, fmt.Errorf("%w: %q", ErrInvalidFace, string(face))
}

// transverse returns the two image axes for a view axis, in u, v order.
func transverse(axis int) (int, int) {
	switch axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}
