package tracer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Blend holds the per-sample terms of one front-to-back alpha composite
// so the gradient pass can reuse them instead of recomputing.
type Blend struct {
	cols   []r3.Vec
	bg     r3.Vec
	alpha  []float64 // per-sample opacity 1-exp(-density)
	trans  []float64 // transmittance arriving at each sample
	weight []float64 // alpha*trans
	out    r3.Vec
}

// BlendSamples composites the samples of one ray, nearest first. Sample
// i turns density into opacity alpha_i = 1-exp(-d_i), is attenuated by
// the transmittance T_i = exp(-sum of densities before it), and
// contributes weight alpha_i*T_i of its color; whatever weight remains
// goes to the background. Samples must already be in front-to-back
// order; the compositor never reorders them.
func BlendSamples(dens []float64, cols []r3.Vec, bg r3.Vec) (*Blend, error) {
	if len(dens) != len(cols) {
		return nil, fmt.Errorf("%w: %d densities vs %d colors", ErrShapeMismatch, len(dens), len(cols))
	}

	n := len(dens)
	b := &Blend{
		cols:   cols,
		bg:     bg,
		alpha:  make([]float64, n),
		trans:  make([]float64, n),
		weight: make([]float64, n),
	}

	var sum, total float64
	var acc r3.Vec
	for i, d := range dens {
		b.trans[i] = math.Exp(-sum)
		b.alpha[i] = 1 - math.Exp(-d)
		w := b.alpha[i] * b.trans[i]
		b.weight[i] = w
		acc = r3.Add(acc, r3.Scale(w, cols[i]))
		total += w
		sum += d
	}
	b.out = r3.Add(acc, r3.Scale(1-total, bg))
	return b, nil
}

// Composite is the forward-only form of BlendSamples.
func Composite(dens []float64, cols []r3.Vec, bg r3.Vec) (r3.Vec, error) {
	b, err := BlendSamples(dens, cols, bg)
	if err != nil {
		return r3.Vec{}, err
	}
	return b.out, nil
}

// Color returns the composited ray color.
func (b *Blend) Color() r3.Vec {
	return b.out
}

// Backward distributes the upstream color gradient g onto the blend
// inputs, writing the derivative with respect to each sample density
// into dDens and each sample color into dCols. Both buffers must match
// the blend's sample count; previous contents are overwritten.
//
// Raising density d_i makes sample i more opaque (through alpha_i) and
// shadows every later sample (through their transmittance), so its
// derivative carries a positive local term and a negative suffix term
// over the samples behind it.
func (b *Blend) Backward(g r3.Vec, dDens []float64, dCols []r3.Vec) error {
	n := len(b.weight)
	if len(dDens) != n || len(dCols) != n {
		return fmt.Errorf("%w: gradient buffers %d/%d for %d samples", ErrShapeMismatch, len(dDens), len(dCols), n)
	}

	var suffix float64
	for i := n - 1; i >= 0; i-- {
		dCols[i] = r3.Scale(b.weight[i], g)
		lift := r3.Dot(g, r3.Sub(b.cols[i], b.bg))
		dDens[i] = b.trans[i]*(1-b.alpha[i])*lift - suffix
		suffix += b.weight[i] * lift
	}
	return nil
}
