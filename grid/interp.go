package grid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// cell resolves one sample point to the eight corners around it.
type cell struct {
	off [8]int
	w   [8]float64
}

// Sample trilinearly interpolates the grid at p, given in voxel
// coordinates, writing one value per channel into out. Points outside
// [0, res] on an axis saturate to that boundary face's value rather
// than extrapolating; the result is always finite.
func (g *Grid) Sample(p r3.Vec, out []float64) {
	var c cell
	g.locate(p, &c)

	for ch := 0; ch < g.Channels; ch++ {
		out[ch] = 0
	}
	for n := 0; n < 8; n++ {
		w := c.w[n]
		base := c.off[n]
		for ch := 0; ch < g.Channels; ch++ {
			out[ch] += w * g.Data.Elements[base+ch]
		}
	}
}

// Splat adds the upstream gradient, one value per channel, into acc at
// the eight corners around p, each contribution scaled by the same
// trilinear weight the forward pass used there. Corners hit by several
// samples accumulate; nothing is overwritten.
func (g *Grid) Splat(p r3.Vec, grad []float64, acc *Accum) {
	var c cell
	g.locate(p, &c)

	for n := 0; n < 8; n++ {
		w := c.w[n]
		base := c.off[n]
		for ch := 0; ch < g.Channels; ch++ {
			acc.data.Elements[base+ch] += w * grad[ch]
		}
	}
}

// locate fills c with the corner offsets and trilinear weights for p.
func (g *Grid) locate(p r3.Vec, c *cell) {
	i0, fx := clampAxis(p.X, g.Res[0])
	j0, fy := clampAxis(p.Y, g.Res[1])
	k0, fz := clampAxis(p.Z, g.Res[2])

	sy := (g.Res[2] + 1) * g.Channels
	sx := (g.Res[1] + 1) * sy
	base := i0*sx + j0*sy + k0*g.Channels

	wx := [2]float64{1 - fx, fx}
	wy := [2]float64{1 - fy, fy}
	wz := [2]float64{1 - fz, fz}

	n := 0
	for di := 0; di < 2; di++ {
		for dj := 0; dj < 2; dj++ {
			for dk := 0; dk < 2; dk++ {
				c.off[n] = base + di*sx + dj*sy + dk*g.Channels
				c.w[n] = wx[di] * wy[dj] * wz[dk]
				n++
			}
		}
	}
}

// clampAxis returns the lower corner index and the in-cell fraction for
// one axis with n voxels. The index is clamped to [0, n-1] and the
// fraction, measured from the clamped corner, to [0, 1]; together these
// pin points at or beyond either end of the axis to the outermost
// corner value.
func clampAxis(x float64, n int) (int, float64) {
	i := int(math.Floor(x))
	if i < 0 {
		i = 0
	} else if i > n-1 {
		i = n - 1
	}
	f := x - float64(i)
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	return i, f
}
