// Package renderer drives the differentiable pipeline over one scene:
// sampling points along rays, reading the voxel grids, compositing
// front to back, and on the way back splatting color gradients into
// grid-shaped accumulators ready for an optimizer step.
package renderer

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxray/voxray/grid"
	"github.com/voxray/voxray/log"
	"github.com/voxray/voxray/scene"
	"github.com/voxray/voxray/tracer"
)

type Renderer struct {
	scn    *scene.Scene
	opts   Options
	depths []float64
	logger log.Logger

	// The jitter stream is drawn once per stochastic pass, outside the
	// worker fanout.
	jitterMu sync.Mutex
	rng      *rand.Rand
}

// New validates the scene's grid shapes and builds a renderer over it.
// The sample depths are fixed up front: the midpoints of Samples+1
// evenly spaced values spanning [Near, Far].
func New(scn *scene.Scene, opts Options) (*Renderer, error) {
	if scn == nil {
		return nil, ErrMissingScene
	}
	if scn.Density.Channels != 1 || scn.Color.Channels != 3 {
		return nil, fmt.Errorf("%w: density carries %d channels and color %d; want 1 and 3",
			ErrShapeMismatch, scn.Density.Channels, scn.Color.Channels)
	}
	if scn.Density.Res != scn.Color.Res {
		return nil, fmt.Errorf("%w: density grid is %v but color grid is %v",
			ErrShapeMismatch, scn.Density.Res, scn.Color.Res)
	}
	if opts.Samples <= 0 {
		return nil, fmt.Errorf("%w: samples per ray must be positive, got %d", ErrInvalidOptions, opts.Samples)
	}
	if opts.Far <= opts.Near {
		return nil, fmt.Errorf("%w: far (%g) must exceed near (%g)", ErrInvalidOptions, opts.Far, opts.Near)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Log == nil {
		opts.Log = log.Nop
	}

	return &Renderer{
		scn:    scn,
		opts:   opts,
		depths: midpointDepths(opts.Near, opts.Far, opts.Samples),
		logger: opts.Log,
		rng:    rand.New(rand.NewSource(opts.Seed)),
	}, nil
}

// Scene returns the scene the renderer reads from.
func (r *Renderer) Scene() *scene.Scene {
	return r.scn
}

// Pass captures one forward render: the rays, the depths actually used
// (jittered or not), and the colors they produced. Backward replays
// the same depths so its gradients belong to exactly the colors the
// caller saw.
type Pass struct {
	r      *Renderer
	rays   []tracer.Ray
	depths []float64

	// Colors holds one composited color per input ray.
	Colors []r3.Vec
}

// Forward renders a batch of rays. With stochastic set, one jitter
// offset per depth slot is drawn and shared by every ray of the batch;
// the draw never participates in gradients.
func (r *Renderer) Forward(rays []tracer.Ray, stochastic bool) (*Pass, error) {
	depths := r.depths
	if stochastic {
		r.jitterMu.Lock()
		depths = tracer.PerturbDepths(r.depths, r.rng)
		r.jitterMu.Unlock()
	}

	p := &Pass{
		r:      r,
		rays:   rays,
		depths: depths,
		Colors: make([]r3.Vec, len(rays)),
	}

	var group errgroup.Group
	for _, part := range split(len(rays), r.opts.Workers) {
		part := part
		group.Go(func() error {
			w := newRayWorker(r, depths)
			for i := part.from; i < part.to; i++ {
				c, err := w.shade(rays[i])
				if err != nil {
					return err
				}
				p.Colors[i] = c
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}

// Render is Forward without keeping the pass around.
func (r *Renderer) Render(rays []tracer.Ray, stochastic bool) ([]r3.Vec, error) {
	p, err := r.Forward(rays, stochastic)
	if err != nil {
		return nil, err
	}
	return p.Colors, nil
}

// Backward distributes per-ray color gradients onto the grids,
// returning one accumulator per grid. Each worker splats into private
// accumulators which are merged once all rays are done, so corners
// shared between rays are summed without locking.
func (p *Pass) Backward(upstream []r3.Vec) (*grid.Accum, *grid.Accum, error) {
	if len(upstream) != len(p.rays) {
		return nil, nil, fmt.Errorf("%w: %d gradients for %d rays", ErrShapeMismatch, len(upstream), len(p.rays))
	}

	parts := split(len(p.rays), p.r.opts.Workers)
	densParts := make([]*grid.Accum, len(parts))
	colParts := make([]*grid.Accum, len(parts))

	var group errgroup.Group
	for partIndex, part := range parts {
		partIndex, part := partIndex, part
		group.Go(func() error {
			dAcc := p.r.scn.Density.NewAccum()
			cAcc := p.r.scn.Color.NewAccum()
			w := newRayWorker(p.r, p.depths)
			for i := part.from; i < part.to; i++ {
				if err := w.backprop(p.rays[i], upstream[i], dAcc, cAcc); err != nil {
					return err
				}
			}
			densParts[partIndex], colParts[partIndex] = dAcc, cAcc
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	dTotal := p.r.scn.Density.NewAccum()
	cTotal := p.r.scn.Color.NewAccum()
	for i := range densParts {
		if err := dTotal.Merge(densParts[i]); err != nil {
			return nil, nil, err
		}
		if err := cTotal.Merge(colParts[i]); err != nil {
			return nil, nil, err
		}
	}
	return dTotal, cTotal, nil
}

// AlphaField maps the density lattice to per-corner opacities,
// applying the rectifier and the 1-exp(-d) transform at every corner.
// The scene is left untouched.
func (r *Renderer) AlphaField() *grid.Grid {
	field := r.scn.Density.Clone()
	field.Map(func(d float64) float64 {
		return 1 - math.Exp(-math.Max(0, d))
	})
	return field
}

// RenderFace renders an orthographic view of one box face at the
// grid's native transverse resolution.
func (r *Renderer) RenderFace(face tracer.Face, stochastic bool) (*Frame, error) {
	rays, w, h, err := tracer.FaceRays(r.scn.Bounds, r.scn.Res(), face, r.opts.Offset)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	colors, err := r.Render(rays, stochastic)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	r.logger.Debugf("face %q: %d rays, %d samples in %s", face, len(rays), len(rays)*r.opts.Samples, elapsed)

	return &Frame{
		Face:    face,
		W:       w,
		H:       h,
		Pix:     colors,
		Samples: len(rays) * r.opts.Samples,
		Elapsed: elapsed,
	}, nil
}

// rayWorker carries the per-goroutine scratch state of a render pass.
type rayWorker struct {
	r      *Renderer
	depths []float64

	points  []r3.Vec // sample points in grid coordinates
	rawDens []float64
	rawCols []r3.Vec
	dens    []float64 // rectified densities
	cols    []r3.Vec  // clamped colors
	dDens   []float64
	dCols   []r3.Vec
}

func newRayWorker(r *Renderer, depths []float64) *rayWorker {
	n := len(depths)
	return &rayWorker{
		r:       r,
		depths:  depths,
		points:  make([]r3.Vec, n),
		rawDens: make([]float64, n),
		rawCols: make([]r3.Vec, n),
		dens:    make([]float64, n),
		cols:    make([]r3.Vec, n),
		dDens:   make([]float64, n),
		dCols:   make([]r3.Vec, n),
	}
}

// trace samples both grids along the ray, retaining raw values for the
// gradient masks and rectified/clamped ones for compositing.
func (w *rayWorker) trace(ray tracer.Ray) {
	var dv [1]float64
	var cv [3]float64
	for i, t := range w.depths {
		gp := w.r.scn.ToGrid(ray.At(t))
		w.points[i] = gp

		w.r.scn.Density.Sample(gp, dv[:])
		w.r.scn.Color.Sample(gp, cv[:])

		w.rawDens[i] = dv[0]
		w.rawCols[i] = r3.Vec{X: cv[0], Y: cv[1], Z: cv[2]}
		w.dens[i] = math.Max(0, dv[0])
		w.cols[i] = r3.Vec{X: clamp01(cv[0]), Y: clamp01(cv[1]), Z: clamp01(cv[2])}
	}
}

func (w *rayWorker) shade(ray tracer.Ray) (r3.Vec, error) {
	w.trace(ray)
	b, err := tracer.BlendSamples(w.dens, w.cols, w.r.opts.Background)
	if err != nil {
		return r3.Vec{}, err
	}
	return b.Color(), nil
}

// backprop recomputes the ray's forward tape, runs the compositor
// backward, gates the gradients through the rectifier and clamp, and
// splats what survives into the accumulators.
func (w *rayWorker) backprop(ray tracer.Ray, g r3.Vec, dAcc, cAcc *grid.Accum) error {
	w.trace(ray)
	b, err := tracer.BlendSamples(w.dens, w.cols, w.r.opts.Background)
	if err != nil {
		return err
	}
	if err = b.Backward(g, w.dDens, w.dCols); err != nil {
		return err
	}

	var dg [1]float64
	var cg [3]float64
	for i := range w.depths {
		dg[0] = w.dDens[i]
		if w.rawDens[i] <= 0 {
			dg[0] = 0
		}
		cg[0] = gateClamp(w.dCols[i].X, w.rawCols[i].X)
		cg[1] = gateClamp(w.dCols[i].Y, w.rawCols[i].Y)
		cg[2] = gateClamp(w.dCols[i].Z, w.rawCols[i].Z)

		w.r.scn.Density.Splat(w.points[i], dg[:], dAcc)
		w.r.scn.Color.Splat(w.points[i], cg[:], cAcc)
	}
	return nil
}

// gateClamp passes a gradient only where the [0,1] clamp did not clip
// the raw value.
func gateClamp(g, raw float64) float64 {
	if raw < 0 || raw > 1 {
		return 0
	}
	return g
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// midpointDepths returns the midpoints of n+1 evenly spaced depths
// spanning [near, far].
func midpointDepths(near, far float64, n int) []float64 {
	depths := make([]float64, n)
	step := (far - near) / float64(n)
	for i := range depths {
		depths[i] = near + (float64(i)+0.5)*step
	}
	return depths
}

type part struct {
	from, to int
}

// split carves n items into at most workers contiguous parts.
func split(n, workers int) []part {
	if n == 0 {
		return nil
	}
	if workers > n {
		workers = n
	}
	size := (n + workers - 1) / workers
	parts := make([]part, 0, workers)
	for from := 0; from < n; from += size {
		to := from + size
		if to > n {
			to = n
		}
		parts = append(parts, part{from: from, to: to})
	}
	return parts
}
